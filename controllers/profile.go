package controllers

import (
	"net/http"

	"github.com/ChidexWorld/wardrobe-assistant/models"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProfileController struct {
}

func (controller *ProfileController) ProfileRoutes(g *echo.Group) {
	g.GET("", controller.GetProfile)
	g.PUT("/settings", controller.UpdateSettings)
	g.POST("/push-token", controller.RegisterPushToken)
}

func (controller *ProfileController) GetProfile(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, userMeInfo(user))
}

func (controller *ProfileController) UpdateSettings(c echo.Context) error {
	var req models.UserSettingsIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	if req.ReceiveNotifications != nil {
		user.ReceiveNotifications = *req.ReceiveNotifications
	}
	if req.FavoriteColors != nil {
		user.FavoriteColors = pq.StringArray(req.FavoriteColors)
	}
	if req.PreferredStyles != nil {
		user.PreferredStyles = pq.StringArray(req.PreferredStyles)
	}

	if err := db.Save(&user).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update settings"})
	}
	return c.JSON(http.StatusOK, userMeInfo(user))
}

func (controller *ProfileController) RegisterPushToken(c echo.Context) error {
	var req models.UserPushIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.Token == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Token is required"})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var existing models.UserPushToken
	r := db.Where("user_account_id = ? AND token = ?", user.ID, req.Token).Limit(1).Find(&existing)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to register token"})
	}
	if r.RowsAffected > 0 {
		existing.Active = true
		if err := db.Save(&existing).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to register token"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Push token refreshed"})
	}

	pushToken := models.UserPushToken{
		UserAccountID: user.ID,
		Platform:      models.Platform(req.Platform),
		Token:         req.Token,
		Active:        true,
	}
	if err := db.Create(&pushToken).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to register token"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Push token registered"})
}
