package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ChidexWorld/wardrobe-assistant/models"
	"github.com/ChidexWorld/wardrobe-assistant/services"
	"github.com/ChidexWorld/wardrobe-assistant/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type CreateItemIn struct {
	Name         string   `json:"name" validate:"required,max=100"`
	ClothingType string   `json:"clothing_type" validate:"required,max=50"`
	Color        string   `json:"color" validate:"omitempty,max=50"`
	Size         *string  `json:"size" validate:"omitempty,max=20"`
	Brand        *string  `json:"brand" validate:"omitempty,max=100"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Tags         []string `json:"tags"`
	IsFormal     bool     `json:"is_formal"`
	IsSeasonal   bool     `json:"is_seasonal"`
	FileName     *string  `json:"file_name" validate:"omitempty,max=200"`
}

type UpdateItemIn struct {
	Name         *string  `json:"name" validate:"omitempty,max=100"`
	ClothingType *string  `json:"clothing_type" validate:"omitempty,max=50"`
	Color        *string  `json:"color" validate:"omitempty,max=50"`
	Size         *string  `json:"size" validate:"omitempty,max=20"`
	Brand        *string  `json:"brand" validate:"omitempty,max=100"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	Tags         []string `json:"tags"`
	IsFormal     *bool    `json:"is_formal"`
	IsSeasonal   *bool    `json:"is_seasonal"`
}

type ItemResponse struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	ClothingType     string     `json:"clothing_type"`
	Color            string     `json:"color"`
	Size             *string    `json:"size"`
	Brand            *string    `json:"brand"`
	Price            *float64   `json:"price"`
	Tags             []string   `json:"tags"`
	UsageCount       int        `json:"usage_count"`
	LastWorn         *time.Time `json:"last_worn"`
	IsFormal         bool       `json:"is_formal"`
	IsSeasonal       bool       `json:"is_seasonal"`
	ProcessingStatus string     `json:"processing_status"`
	DominantColors   []string   `json:"dominant_colors"`
	Uri              *string    `json:"uri,omitempty"`
	CreatedAt        string     `json:"created_at"`
	UpdatedAt        string     `json:"updated_at"`
}

type ItemCreatedResponse struct {
	Item          ItemResponse `json:"item"`
	FileUploadUrl *string      `json:"file_upload_url,omitempty"`
}

type WardrobeController struct {
	AWSService  services.AWSServiceProvider
	FirebaseApp *firebase.App
	URLCache    services.URLCacheServiceProvider
}

func (controller *WardrobeController) WardrobeRoutes(g *echo.Group) {
	g.POST("/items", controller.CreateItem)
	g.GET("/items", controller.ListItems)
	g.GET("/items/:id", controller.GetItem)
	g.PUT("/items/:id", controller.UpdateItem)
	g.DELETE("/items/:id", controller.DeleteItem)
	g.POST("/items/:id/worn", controller.MarkItemWorn)
}

func itemResponse(item models.ClothingItem, uri *string) ItemResponse {
	return ItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		ClothingType:     item.ClothingType,
		Color:            item.Color,
		Size:             item.Size,
		Brand:            item.Brand,
		Price:            item.Price,
		Tags:             item.Tags,
		UsageCount:       item.UsageCount,
		LastWorn:         item.LastWorn,
		IsFormal:         item.IsFormal,
		IsSeasonal:       item.IsSeasonal,
		ProcessingStatus: item.ProcessingStatus,
		DominantColors:   item.DominantColors,
		Uri:              uri,
		CreatedAt:        item.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:        item.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (controller *WardrobeController) CreateItem(c echo.Context) error {
	var req CreateItemIn
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

	item := models.ClothingItem{
		Name:             req.Name,
		ClothingType:     req.ClothingType,
		Color:            req.Color,
		Size:             req.Size,
		Brand:            req.Brand,
		Price:            req.Price,
		Tags:             pq.StringArray(req.Tags),
		IsFormal:         req.IsFormal,
		IsSeasonal:       req.IsSeasonal,
		OwnerID:          user.ID,
		ImageStatus:      "draft",
		ProcessingStatus: "idle",
	}

	var uploadUrl *string
	if req.FileName != nil && *req.FileName != "" {
		if !services.IsAllowedImageName(*req.FileName) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image file type"})
		}
		var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("clothes/%s-%s", uuid.NewString(), *req.FileName)
		url, presignErr := controller.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign upload for %s!, %s", item.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while creating item with attachment",
			})
		}
		item.ImageURL = &safeFileName
		item.ProcessingStatus = "pending"
		uploadUrl = &url
	}

	if err := db.Create(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}

	if item.ProcessingStatus == "pending" {
		asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
		if !ok {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Service is not available, please try again a bit later"})
		}
		task, err := tasks.NewClothingProcessingTask(item.ID)
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process item, please try again"})
		}
		info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("process"))
		if err != nil {
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Sorry, could not process item, please try again"})
		}
		fmt.Println("[Queue] Process item task submitted, Item ID: ", item.ID, " Task ID: ", info.ID)
	}

	return c.JSON(http.StatusCreated, ItemCreatedResponse{
		Item:          itemResponse(item, nil),
		FileUploadUrl: uploadUrl,
	})
}

// populatePresignedItemImages enriches raw clothing models with presigned
// read URLs concurrently. A cache failure falls back to presigning
// directly so a single broken cache never empties the whole listing.
func (controller *WardrobeController) populatePresignedItemImages(ctx context.Context, items []models.ClothingItem) []ItemResponse {
	if len(items) == 0 {
		return []ItemResponse{}
	}

	var wg sync.WaitGroup
	responses := make([]ItemResponse, len(items))
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")

	for i, clothingItem := range items {
		wg.Add(1)
		go func(index int, item models.ClothingItem) {
			defer wg.Done()

			var imageUrl string
			if item.ImageURL != nil && *item.ImageURL != "" {
				objectKey := *item.ImageURL

				url, err := controller.URLCache.GetReadURL(ctx, objectKey)
				if err == nil {
					imageUrl = url
				} else {
					log.Printf("CACHE WARNING: Cache system failed for key '%s': %v. Triggering manual R2 fallback.", objectKey, err)
					sentry.WithScope(func(scope *sentry.Scope) {
						scope.SetTag("failure_type", "cache_system")
						scope.SetExtra("objectKey", objectKey)
						sentry.CaptureException(err)
					})

					fallbackUrl, fallbackErr := controller.AWSService.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
					if fallbackErr != nil {
						log.Printf("CRITICAL: Manual R2 fallback also failed for key '%s': %v", objectKey, fallbackErr)
						sentry.CaptureException(fallbackErr)
					} else {
						imageUrl = fallbackUrl
					}
				}
			}
			var uri *string
			if imageUrl != "" {
				uri = &imageUrl
			}
			responses[index] = itemResponse(item, uri)
		}(i, clothingItem)
	}

	wg.Wait()
	return responses
}

func (controller *WardrobeController) ListItems(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	query := db.Where("owner_id = ?", user.ID)
	if clothingType := c.QueryParam("clothing_type"); clothingType != "" {
		query = query.Where("clothing_type = ?", clothingType)
	}

	var items []models.ClothingItem
	if err := query.Order("created_at desc").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch items"})
	}

	responses := controller.populatePresignedItemImages(c.Request().Context(), items)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": responses,
		"total": len(responses),
	})
}

func (controller *WardrobeController) GetItem(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var item models.ClothingItem
	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Limit(1).Find(&item)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}

	responses := controller.populatePresignedItemImages(c.Request().Context(), []models.ClothingItem{item})
	return c.JSON(http.StatusOK, responses[0])
}

func (controller *WardrobeController) UpdateItem(c echo.Context) error {
	var req UpdateItemIn
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

	var item models.ClothingItem
	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Limit(1).Find(&item)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.ClothingType != nil {
		item.ClothingType = *req.ClothingType
	}
	if req.Color != nil {
		item.Color = *req.Color
	}
	if req.Size != nil {
		item.Size = req.Size
	}
	if req.Brand != nil {
		item.Brand = req.Brand
	}
	if req.Price != nil {
		item.Price = req.Price
	}
	if req.Tags != nil {
		item.Tags = pq.StringArray(req.Tags)
	}
	if req.IsFormal != nil {
		item.IsFormal = *req.IsFormal
	}
	if req.IsSeasonal != nil {
		item.IsSeasonal = *req.IsSeasonal
	}

	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update item"})
	}
	return c.JSON(http.StatusOK, itemResponse(item, nil))
}

func (controller *WardrobeController) DeleteItem(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Delete(&models.ClothingItem{})
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete item"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

func (controller *WardrobeController) MarkItemWorn(c echo.Context) error {
	user, ok := c.Get("currentUser").(models.UserAccount)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
	db := c.Get("__db").(*gorm.DB)

	var item models.ClothingItem
	r := db.Where("id = ? AND owner_id = ?", c.Param("id"), user.ID).Limit(1).Find(&item)
	if r.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch item"})
	}
	if r.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found"})
	}

	now := time.Now().UTC()
	item.UsageCount++
	item.LastWorn = &now
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update item"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     fmt.Sprintf("Marked '%s' as worn", item.Name),
		"usage_count": item.UsageCount,
	})
}
