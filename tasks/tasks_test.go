package tasks

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChidexWorld/wardrobe-assistant/dbhelper"
	"github.com/ChidexWorld/wardrobe-assistant/models"
	"github.com/ChidexWorld/wardrobe-assistant/test"

	"github.com/stretchr/testify/assert"
)

func fakeImageBytes(t *testing.T, width int, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 40, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestClothingProcessingTask(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	user := test.FakeUser(db)

	item := models.ClothingItem{
		Name:             "Denim Jacket",
		ClothingType:     "jacket",
		Color:            "blue",
		OwnerID:          user.ID,
		ImageURL:         test.NewRefString("clothes/abc-denim.png"),
		ImageStatus:      "draft",
		ProcessingStatus: "pending",
	}
	db.Create(&item)

	imageContent := fakeImageBytes(t, 60, 100)
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(imageContent)
	}))
	defer mockServer.Close()

	fakeTask, err := NewClothingProcessingTask(item.ID)
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	awsServiceMock := &test.AWSProviderMock{MockUrl: mockServer.URL}

	err = HandleClothingProcessingTask(context.Background(), fakeTask, db, awsServiceMock, nil)
	assert.NoError(t, err)

	var updated models.ClothingItem
	db.First(&updated, item.ID)
	assert.Equal(t, "completed", updated.ProcessingStatus)
	assert.Equal(t, "uploaded", updated.ImageStatus)
	assert.Nil(t, updated.ProcessErrorMsg)
	assert.NotEmpty(t, updated.DominantColors)
}

func TestClothingProcessingTaskNoImage(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	user := test.FakeUser(db)

	item := models.ClothingItem{
		Name:             "Denim Jacket",
		ClothingType:     "jacket",
		Color:            "blue",
		OwnerID:          user.ID,
		ImageStatus:      "draft",
		ProcessingStatus: "pending",
	}
	db.Create(&item)

	fakeTask, err := NewClothingProcessingTask(item.ID)
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	err = HandleClothingProcessingTask(context.Background(), fakeTask, db, &test.AWSProviderMock{}, nil)
	assert.Error(t, err)

	var updated models.ClothingItem
	db.First(&updated, item.ID)
	assert.Equal(t, "failed", updated.ProcessingStatus)
	assert.NotNil(t, updated.ProcessErrorMsg)
}

func TestClothingProcessingTaskMissingItem(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()

	fakeTask, err := NewClothingProcessingTask(99999)
	if err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	// deleted items are skipped without retries
	err = HandleClothingProcessingTask(context.Background(), fakeTask, db, &test.AWSProviderMock{}, nil)
	assert.NoError(t, err)
}
