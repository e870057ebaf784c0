package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ChidexWorld/wardrobe-assistant/models"
	"github.com/ChidexWorld/wardrobe-assistant/recommend"
	"github.com/ChidexWorld/wardrobe-assistant/services"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	TypeClothingProcessing = "wardrobe:process_item"
	TypeWardrobeDigest     = "wardrobe:weekly_digest"
)

type ClothingProcessingPayload struct {
	ClothingItemID uint `json:"clothing_item_id"`
}

// NewClient initializes an asynq client for enqueuing tasks
func NewClient() (*asynq.Client, error) {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}), nil
}

func NewClothingProcessingTask(clothingItemId uint) (*asynq.Task, error) {
	payload, err := json.Marshal(ClothingProcessingPayload{ClothingItemID: clothingItemId})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeClothingProcessing, payload), nil
}

func NewWardrobeDigestTask() *asynq.Task {
	return asynq.NewTask(TypeWardrobeDigest, []byte{})
}

func failItemProcessing(db *gorm.DB, item *models.ClothingItem, reason string) {
	item.ProcessingStatus = "failed"
	item.ProcessErrorMsg = services.StrPointer(reason)
	if err := db.Save(item).Error; err != nil {
		sentry.CaptureException(err)
	}
}

// HandleClothingProcessingTask downloads the uploaded item image,
// normalizes it and extracts dominant colors for the recommendation
// engine.
func HandleClothingProcessingTask(ctx context.Context, t *asynq.Task, db *gorm.DB, awsService services.AWSServiceProvider, fbApp *firebase.App) error {
	var payload ClothingProcessingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v", err)
	}
	fmt.Printf("[Item: %v] Processing clothing image..\n", payload.ClothingItemID)

	var item models.ClothingItem
	r := db.Where("id = ?", payload.ClothingItemID).Limit(1).Find(&item)
	if r.Error != nil {
		return r.Error
	}
	if r.RowsAffected == 0 {
		// item was deleted before the worker picked the task up
		fmt.Printf("[Item: %v] Item no longer exists, skipping\n", payload.ClothingItemID)
		return nil
	}
	if item.ImageURL == nil || *item.ImageURL == "" {
		failItemProcessing(db, &item, "No image attached to item")
		return fmt.Errorf("[Item: %v] image URL is nil", item.ID)
	}

	bucketName := os.Getenv("R2_BUCKET_NAME")
	fileUrl, err := awsService.GetPresignedR2FileReadURL(ctx, bucketName, *item.ImageURL)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on getting presigned URL for file %s", item.ID, *item.ImageURL))
		failItemProcessing(db, &item, "Could not access uploaded image")
		return err
	}
	fmt.Printf("[Item: %v] Downloading... %s\n", item.ID, fileUrl)
	fileBytes, err := services.ReadFileFromUrl(fileUrl)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error on downloading file %s: %v", item.ID, *item.ImageURL, err))
		failItemProcessing(db, &item, "Could not download uploaded image")
		return err
	}

	processedBytes, features, err := services.ProcessClothingImage(fileBytes)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error processing image: %v", item.ID, err))
		failItemProcessing(db, &item, "Image could not be processed")
		return err
	}

	uploadUrl, err := awsService.PresignLink(ctx, bucketName, *item.ImageURL)
	if err != nil {
		failItemProcessing(db, &item, "Could not store processed image")
		return err
	}
	_, statusCode, err := awsService.UploadToPresignedURL(ctx, bucketName, uploadUrl, processedBytes)
	if err != nil || statusCode >= 300 {
		sentry.CaptureException(fmt.Errorf("[Item: %v] Error uploading processed image, status %v: %v", item.ID, statusCode, err))
		failItemProcessing(db, &item, "Could not store processed image")
		return fmt.Errorf("upload failed with status %v", statusCode)
	}

	item.DominantColors = pq.StringArray(features.DominantColors)
	item.ImageStatus = "uploaded"
	item.ProcessingStatus = "completed"
	item.ProcessErrorMsg = nil
	if err := db.Save(&item).Error; err != nil {
		sentry.CaptureException(err)
		return err
	}
	fmt.Printf("[Item: %v] Done. Dominant colors: %v, detected type: %s\n", item.ID, features.DominantColors, features.DetectedType)

	services.SendNotification(fbApp, db, item.OwnerID, "Item Ready",
		fmt.Sprintf("Your item %s has been processed and added to your wardrobe", item.Name),
		map[string]string{"item_id": fmt.Sprintf("%d", item.ID), "type": "item_processed"})
	return nil
}

// HandleWardrobeDigestTask pushes a weekly wardrobe usage summary to
// every user that opted into notifications.
func HandleWardrobeDigestTask(ctx context.Context, t *asynq.Task, db *gorm.DB, fbApp *firebase.App) error {
	var users []models.UserAccount
	if err := db.Where("receive_notifications = ?", true).Find(&users).Error; err != nil {
		return err
	}
	fmt.Printf("[Digest] Sending wardrobe digest to %v users\n", len(users))

	for _, user := range users {
		var items []models.ClothingItem
		if err := db.Where("owner_id = ?", user.ID).Find(&items).Error; err != nil {
			sentry.CaptureException(err)
			continue
		}
		if len(items) == 0 {
			continue
		}

		engineItems := make([]recommend.ClothingItem, 0, len(items))
		for _, item := range items {
			engineItems = append(engineItems, recommend.ClothingItem{
				ID:         fmt.Sprintf("%d", item.ID),
				Name:       item.Name,
				Type:       item.ClothingType,
				Color:      item.Color,
				Tags:       item.Tags,
				UsageCount: item.UsageCount,
				LastWorn:   item.LastWorn,
				IsFormal:   item.IsFormal,
				IsSeasonal: item.IsSeasonal,
			})
		}
		report := recommend.AnalyzeWardrobeUsage(engineItems)

		message := fmt.Sprintf("You own %d items, %d of them are rarely worn.", report.TotalItems, len(report.RarelyWorn))
		if len(report.Suggestions) > 0 {
			message = fmt.Sprintf("%s %s", message, report.Suggestions[0])
		}
		services.SendNotification(fbApp, db, user.ID, "Your Weekly Wardrobe Digest", message,
			map[string]string{"type": "wardrobe_digest"})
	}
	return nil
}
