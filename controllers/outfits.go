package controllers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/ChidexWorld/wardrobe-assistant/models"
	"github.com/ChidexWorld/wardrobe-assistant/recommend"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type OutfitCreateIn struct {
	Name             string   `json:"name" validate:"required,max=100"`
	Items            []int64  `json:"items" validate:"required,min=1"`
	Event            *string  `json:"event" validate:"omitempty,max=50"`
	WeatherTemp      *float64 `json:"weather_temp"`
	WeatherCondition *string  `json:"weather_condition" validate:"omitempty,max=50"`
}

type OutfitUpdateIn struct {
	Name             *string  `json:"name" validate:"omitempty,max=100"`
	Items            []int64  `json:"items" validate:"omitempty,min=1"`
	Event            *string  `json:"event" validate:"omitempty,max=50"`
	WeatherTemp      *float64 `json:"weather_temp"`
	WeatherCondition *string  `json:"weather_condition" validate:"omitempty,max=50"`
	Rating           *int     `json:"rating" validate:"omitempty,min=1,max=5"`
}

type OutfitRateIn struct {
	Rating int `json:"rating" validate:"required"`
}

type SmartRecommendationOut struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Items              []string `json:"items"`
	Confidence         float64  `json:"confidence"`
	Reasoning          string   `json:"reasoning"`
	WeatherAppropriate bool     `json:"weather_appropriate"`
	EventMatch         bool     `json:"event_match"`
	StyleScore         float64  `json:"style_score"`
}

type OutfitsController struct {
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.POST("", controller.CreateOutfit)
	g.GET("", controller.ListOutfits)
	g.GET("/recommendations/smart", controller.SmartRecommendations)
	g.GET("/sustainability/insights", controller.SustainabilityInsights)
	g.GET("/:id", controller.GetOutfit)
	g.PUT("/:id", controller.UpdateOutfit)
	g.DELETE("/:id", controller.DeleteOutfit)
	g.POST("/:id/wear", controller.RecordOutfitWear)
	g.POST("/:id/rate", controller.RateOutfit)
}

func (controller *OutfitsController) CreateOutfit(c echo.Context) error {
	var req OutfitCreateIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	// every referenced item must belong to the requesting user
	var ownedCount int64
	if err := db.Model(&models.ClothingItem{}).Where("id = ANY(?) AND owner_id = ?", pq.Int64Array(req.Items), user.ID).Count(&ownedCount).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to verify outfit items"})
	}
	if ownedCount != int64(len(req.Items)) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Some items do not exist in your wardrobe"})
	}

	outfit := models.Outfit{
		Name:             req.Name,
		OwnerID:          user.ID,
		ItemIDs:          pq.Int64Array(req.Items),
		Event:            req.Event,
		WeatherTemp:      req.WeatherTemp,
		WeatherCondition: req.WeatherCondition,
	}
	if err := db.Create(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create outfit"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Outfit created successfully",
		"outfit":  outfit,
	})
}

func (controller *OutfitsController) ListOutfits(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}

	var total int64
	if err := db.Model(&models.Outfit{}).Where("owner_id = ?", user.ID).Count(&total).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfits"})
	}

	outfits := []models.Outfit{}
	if err := db.Where("owner_id = ?", user.ID).Order("created_at desc").Limit(limit).Offset(offset).Find(&outfits).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfits"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"outfits": outfits,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func (controller *OutfitsController) GetOutfit(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var outfit models.Outfit
	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Limit(1).Find(&outfit)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}
	return c.JSON(http.StatusOK, outfit)
}

func (controller *OutfitsController) UpdateOutfit(c echo.Context) error {
	var req OutfitUpdateIn
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

	var outfit models.Outfit
	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Limit(1).Find(&outfit)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}

	if req.Name != nil {
		outfit.Name = *req.Name
	}
	if req.Items != nil {
		outfit.ItemIDs = pq.Int64Array(req.Items)
	}
	if req.Event != nil {
		outfit.Event = req.Event
	}
	if req.WeatherTemp != nil {
		outfit.WeatherTemp = req.WeatherTemp
	}
	if req.WeatherCondition != nil {
		outfit.WeatherCondition = req.WeatherCondition
	}
	if req.Rating != nil {
		outfit.Rating = req.Rating
	}

	if err := db.Save(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update outfit"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Outfit updated successfully",
		"outfit":  outfit,
	})
}

func (controller *OutfitsController) DeleteOutfit(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Delete(&models.Outfit{})
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete outfit"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Outfit deleted successfully",
		"outfit_id": c.Param("id"),
	})
}

func (controller *OutfitsController) RecordOutfitWear(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var outfit models.Outfit
	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Limit(1).Find(&outfit)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}

	now := time.Now().UTC()
	outfit.WearCount++
	outfit.LastWorn = &now
	if err := db.Save(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update outfit"})
	}

	// wearing the outfit also counts as wearing each item in it
	if len(outfit.ItemIDs) > 0 {
		if err := db.Model(&models.ClothingItem{}).
			Where("id = ANY(?) AND owner_id = ?", outfit.ItemIDs, user.ID).
			Updates(map[string]interface{}{"usage_count": gorm.Expr("usage_count + 1"), "last_worn": now}).Error; err != nil {
			sentry.CaptureException(err)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "Outfit wear recorded",
		"outfit_id":      outfit.ID,
		"new_wear_count": outfit.WearCount,
		"last_worn":      now,
	})
}

func (controller *OutfitsController) RateOutfit(c echo.Context) error {
	var req OutfitRateIn
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5"})
	}

	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var outfit models.Outfit
	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Limit(1).Find(&outfit)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch outfit"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Outfit not found"})
	}

	outfit.Rating = &req.Rating
	if err := db.Save(&outfit).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update outfit"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Outfit rated successfully",
		"outfit_id": outfit.ID,
		"rating":    req.Rating,
	})
}

// toEngineItems maps stored wardrobe rows into the format the
// recommendation engine consumes. Formality is stored explicitly but
// older rows only carry it in tags, so both are honored.
func toEngineItems(items []models.ClothingItem) []recommend.ClothingItem {
	engineItems := make([]recommend.ClothingItem, 0, len(items))
	for _, item := range items {
		engineItems = append(engineItems, recommend.ClothingItem{
			ID:         UIntToStr(item.ID),
			Name:       item.Name,
			Type:       item.ClothingType,
			Color:      item.Color,
			Tags:       item.Tags,
			UsageCount: item.UsageCount,
			LastWorn:   item.LastWorn,
			IsFormal:   item.IsFormal || inferFormal(item),
			IsSeasonal: item.IsSeasonal,
		})
	}
	return engineItems
}

func inferFormal(item models.ClothingItem) bool {
	for _, tag := range item.Tags {
		if tag == "formal" || tag == "professional" || tag == "business" {
			return true
		}
	}
	switch item.ClothingType {
	case "blazer", "suit", "dress shirt":
		return true
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (controller *OutfitsController) SmartRecommendations(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	event := c.QueryParam("event")
	limit := 5
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}

	var weather *recommend.Weather
	weatherTempParam := c.QueryParam("weather_temp")
	weatherCondition := c.QueryParam("weather_condition")
	if weatherTempParam != "" || weatherCondition != "" {
		temp := 20.0
		if weatherTempParam != "" {
			parsed, err := strconv.ParseFloat(weatherTempParam, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid weather_temp parameter"})
			}
			temp = parsed
		}
		condition := weatherCondition
		if condition == "" {
			condition = "sunny"
		}
		weather = &recommend.Weather{Temperature: temp, Condition: condition}
	}

	var items []models.ClothingItem
	if err := db.Where("owner_id = ?", user.ID).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}

	prefs := &recommend.Preferences{
		FavoriteColors:  user.FavoriteColors,
		PreferredStyles: user.PreferredStyles,
	}

	engine := recommend.NewEngine()
	recommendations := engine.GenerateRecommendations(toEngineItems(items), event, weather, prefs, limit)

	out := make([]SmartRecommendationOut, 0, len(recommendations))
	for i, rec := range recommendations {
		out = append(out, SmartRecommendationOut{
			ID:                 fmt.Sprintf("rec_%d", i+1),
			Name:               fmt.Sprintf("Outfit Suggestion %d", i+1),
			Items:              rec.Items,
			Confidence:         round2(rec.Confidence),
			Reasoning:          rec.Reasoning,
			WeatherAppropriate: rec.WeatherAppropriate,
			EventMatch:         rec.EventMatch,
			StyleScore:         round2(rec.StyleScore),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"recommendations": out,
		"criteria": map[string]interface{}{
			"event":            event,
			"weather":          weather,
			"user_preferences": "Based on your style history",
		},
	})
}

func (controller *OutfitsController) SustainabilityInsights(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var items []models.ClothingItem
	if err := db.Where("owner_id = ?", user.ID).Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch wardrobe"})
	}

	if len(items) == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id":              user.ID,
			"sustainability_score": 0,
			"insights": map[string]interface{}{
				"total_items":        0,
				"average_usage":      0,
				"rarely_worn":        []interface{}{},
				"most_worn":          []interface{}{},
				"color_distribution": map[string]int{},
				"type_distribution":  map[string]int{},
				"suggestions": []string{
					"Start by adding items to your wardrobe to track sustainability",
					"Upload your clothing items to get personalized insights",
				},
			},
			"recommendations": []string{
				"Add clothing items to your wardrobe to get started",
				"Track your outfit usage to improve sustainability",
				"Build a sustainable wardrobe by choosing quality over quantity",
			},
		})
	}

	insights := recommend.AnalyzeWardrobeUsage(toEngineItems(items))

	totalItems := insights.TotalItems
	avgUsage := insights.AverageUsage
	rarelyWornCount := len(insights.RarelyWorn)

	usageEfficiency := 0.0
	if avgUsage > 0 {
		usageEfficiency = math.Min(100, (avgUsage/10)*100)
	}
	rarelyWornPenalty := 0.0
	if totalItems > 0 {
		rarelyWornPenalty = float64(rarelyWornCount) / float64(totalItems) * 50
	}
	sizePenalty := 0.0
	if totalItems > 100 {
		sizePenalty = 10
	} else if totalItems > 70 {
		sizePenalty = 5
	}
	sustainabilityScore := math.Max(0, math.Min(100, usageEfficiency-rarelyWornPenalty-sizePenalty))

	recommendations := []string{}
	if rarelyWornCount > 0 {
		recommendations = append(recommendations, fmt.Sprintf("You have %d rarely-worn items. Try incorporating them into new outfit combinations.", rarelyWornCount))
	}
	if avgUsage < 3 {
		recommendations = append(recommendations, "Increase your items' usage by creating more outfit combinations with existing pieces.")
	}
	if totalItems > 50 {
		recommendations = append(recommendations, "Consider donating items you haven't worn in over a year to streamline your wardrobe.")
	}
	recommendations = append(recommendations, "Before buying new items, check if you can create similar looks with what you have.")
	if len(insights.MostWorn) > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Your '%s' is well-loved! Look for similar versatile pieces.", insights.MostWorn[0].Name))
	}
	if len(recommendations) < 3 {
		recommendations = append(recommendations, "Track your outfit usage regularly to improve sustainability over time.")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":              user.ID,
		"sustainability_score": math.Round(sustainabilityScore*10) / 10,
		"insights":             insights,
		"recommendations":      recommendations,
	})
}
