package controllers

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/ChidexWorld/wardrobe-assistant/models"
	"github.com/ChidexWorld/wardrobe-assistant/services"

	"github.com/getsentry/sentry-go"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	Google services.GoogleServiceProvider
}

func (m *AuthController) AuthRoutes(g *echo.Group) {
	g.POST("/register", m.Register)
	g.POST("/login", m.Login)
	g.POST("/google", m.GoogleSignIn)
	g.GET("/me", m.Me, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
	g.GET("/verify-token", m.VerifyToken, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
}

func (m *AuthController) Register(c echo.Context) error {
	var req models.RegisterIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if !models.ValidatePlatformRaw(req.Platform) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please provide proper platform parameter"})
	}
	db := c.Get("__db").(*gorm.DB)

	var existing models.UserAccount
	r := db.Where("email = ?", req.Email).Limit(1).Find(&existing)
	if r.Error != nil {
		sentry.CaptureException(r.Error)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if r.RowsAffected > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email already registered"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	userType := req.UserType
	if userType == "" {
		userType = "individual"
	}
	user := models.UserAccount{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Platform: models.Platform(req.Platform),
		UserType: userType,
		Status:   "FINISHED_AUTH",
		LastIp:   c.RealIP(),
	}
	if err := db.Create(&user).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
	}

	return c.JSON(http.StatusCreated, userMeInfo(user))
}

func (m *AuthController) Login(c echo.Context) error {
	var req models.LoginIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	db := c.Get("__db").(*gorm.DB)

	var user models.UserAccount
	r := db.Where("email = ?", req.Email).Limit(1).Find(&user)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Incorrect email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Incorrect email or password"})
	}
	if user.Banned {
		return echo.ErrForbidden
	}

	refreshToken, err := GenerateRefreshToken(UIntToStr(user.ID))
	if err != nil {
		fmt.Println(err)
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, models.TokenOut{
		AccessToken:  GenerateUserToken(UIntToStr(user.ID), c),
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	})
}

// GoogleSignIn verifies a Google ID token and signs the user in, creating
// the account on first sight.
func (m *AuthController) GoogleSignIn(c echo.Context) error {
	var req models.GoogleAuthSignIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if !models.ValidatePlatformRaw(req.Platform) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Please provide proper platform parameter"})
	}

	payload, err := m.Google.ValidateIdToken(context.Background(), req.IdToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials"})
	}
	sub, ok := payload.Claims["sub"]
	if !ok {
		sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data %s", payload.Claims))
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials"})
	}
	googleId := sub.(string)
	googleEmail, ok := payload.Claims["email"]
	if !ok {
		sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data email %s", payload.Claims))
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Couldn't verify credentials"})
	}
	pictureUrl, _ := payload.Claims["picture"].(string)
	googleName, _ := payload.Claims["name"].(string)

	db := c.Get("__db").(*gorm.DB)
	var user models.UserAccount
	r := db.Where("google_id = ?", googleId).Limit(1).Find(&user)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if r.RowsAffected == 0 {
		user = models.UserAccount{
			Name:      googleName,
			Email:     googleEmail.(string),
			GoogleID:  googleId,
			Platform:  models.Platform(req.Platform),
			UserType:  "individual",
			Status:    "FINISHED_AUTH",
			AvatarURL: pictureUrl,
			LastIp:    c.RealIP(),
		}
		if err := db.Create(&user).Error; err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create user"})
		}
	}
	if user.Banned {
		return echo.ErrForbidden
	}

	refreshToken, err := GenerateRefreshToken(UIntToStr(user.ID))
	if err != nil {
		return echo.ErrInternalServerError
	}
	return c.JSON(http.StatusOK, models.TokenOut{
		AccessToken:  GenerateUserToken(UIntToStr(user.ID), c),
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	})
}

func (m *AuthController) Me(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, userMeInfo(user))
}

func (m *AuthController) VerifyToken(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid authentication credentials"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"valid": true, "user_id": user.ID})
}

func userMeInfo(user models.UserAccount) models.UserMeInfoOut {
	return models.UserMeInfoOut{
		Id:                   UIntToStr(user.ID),
		Name:                 user.Name,
		Email:                user.Email,
		UserType:             user.UserType,
		AvatarURL:            user.AvatarURL,
		FavoriteColors:       user.FavoriteColors,
		PreferredStyles:      user.PreferredStyles,
		ReceiveNotifications: user.ReceiveNotifications,
	}
}
