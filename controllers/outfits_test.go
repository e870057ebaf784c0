package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChidexWorld/wardrobe-assistant/dbhelper"
	"github.com/ChidexWorld/wardrobe-assistant/models"
	"github.com/ChidexWorld/wardrobe-assistant/services"
	"github.com/ChidexWorld/wardrobe-assistant/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedWardrobe(db *gorm.DB, ownerId uint) {
	test.FakeItem(db, ownerId, "Blue Jeans", "jeans", "blue", 8)
	test.FakeItem(db, ownerId, "White T-Shirt", "t-shirt", "white", 12)
	test.FakeItem(db, ownerId, "Black Sneakers", "shoes", "black", 10)
	test.FakeItem(db, ownerId, "Denim Jacket", "jacket", "blue", 5)
	blazer := test.FakeItem(db, ownerId, "Black Blazer", "blazer", "black", 3)
	blazer.IsFormal = true
	db.Save(blazer)
	shirt := test.FakeItem(db, ownerId, "White Dress Shirt", "shirt", "white", 6)
	shirt.IsFormal = true
	db.Save(shirt)
	pants := test.FakeItem(db, ownerId, "Black Dress Pants", "pants", "black", 4)
	pants.IsFormal = true
	db.Save(pants)
}

func TestCreateOutfit(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)
	jeans := test.FakeItem(db, user.ID, "Blue Jeans", "jeans", "blue", 3)
	tshirt := test.FakeItem(db, user.ID, "White T-Shirt", "t-shirt", "white", 5)

	param := OutfitCreateIn{
		Name:  "Casual Friday",
		Items: []int64{int64(jeans.ID), int64(tshirt.ID)},
		Event: StrPointer("work"),
	}
	req := test.NewJSONAuthRequest("POST", "/outfits", UIntToStr(user.ID), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var outfit models.Outfit
	db.First(&outfit)
	assert.Equal(t, "Casual Friday", outfit.Name)
	assert.Equal(t, user.ID, outfit.OwnerID)
	assert.Equal(t, 2, len(outfit.ItemIDs))
	assert.Equal(t, 0, outfit.WearCount)
}

func TestCreateOutfitForeignItem(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)
	other := test.FakeUserV2(db, "Other", "other@example.com")
	foreign := test.FakeItem(db, other.ID, "Red Dress", "dress", "red", 1)

	param := OutfitCreateIn{
		Name:  "Stolen Look",
		Items: []int64{int64(foreign.ID)},
	}
	req := test.NewJSONAuthRequest("POST", "/outfits", UIntToStr(user.ID), param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestListOutfitsPagination(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)
	jeans := test.FakeItem(db, user.ID, "Blue Jeans", "jeans", "blue", 3)
	for i := 0; i < 5; i++ {
		outfit := models.Outfit{
			Name:    fmt.Sprintf("Outfit %v", i+1),
			OwnerID: user.ID,
			ItemIDs: []int64{int64(jeans.ID)},
		}
		db.Create(&outfit)
	}

	req := test.NewJSONAuthRequest("GET", "/outfits?limit=2&offset=2", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Outfits []models.Outfit `json:"outfits"`
		Total   int             `json:"total"`
		Limit   int             `json:"limit"`
		Offset  int             `json:"offset"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 2, len(resp.Outfits))
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, 2, resp.Offset)
}

func TestRecordOutfitWear(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)
	jeans := test.FakeItem(db, user.ID, "Blue Jeans", "jeans", "blue", 3)
	outfit := models.Outfit{
		Name:    "Casual Friday",
		OwnerID: user.ID,
		ItemIDs: []int64{int64(jeans.ID)},
	}
	db.Create(&outfit)

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/outfits/%v/wear", outfit.ID), UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["new_wear_count"])

	var updatedOutfit models.Outfit
	db.First(&updatedOutfit, outfit.ID)
	assert.Equal(t, 1, updatedOutfit.WearCount)
	assert.NotNil(t, updatedOutfit.LastWorn)

	// items in the outfit are counted as worn too
	var updatedItem models.ClothingItem
	db.First(&updatedItem, jeans.ID)
	assert.Equal(t, 4, updatedItem.UsageCount)
	assert.NotNil(t, updatedItem.LastWorn)
}

func TestRateOutfit(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)
	outfit := models.Outfit{Name: "Casual Friday", OwnerID: user.ID}
	db.Create(&outfit)

	req := test.NewJSONAuthRequest("POST", fmt.Sprintf("/outfits/%v/rate", outfit.ID), UIntToStr(user.ID), OutfitRateIn{Rating: 6})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	req_2 := test.NewJSONAuthRequest("POST", fmt.Sprintf("/outfits/%v/rate", outfit.ID), UIntToStr(user.ID), OutfitRateIn{Rating: 4})
	rec_2 := httptest.NewRecorder()
	e.ServeHTTP(rec_2, req_2)

	assert.Equal(t, http.StatusOK, rec_2.Code, rec_2.Body.String())

	var updated models.Outfit
	db.First(&updated, outfit.ID)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 4, *updated.Rating)
}

func TestSmartRecommendations(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)
	seedWardrobe(db, user.ID)

	req := test.NewJSONAuthRequest("GET", "/outfits/recommendations/smart?event=work&weather_temp=10&weather_condition=rainy&limit=3", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Recommendations []SmartRecommendationOut `json:"recommendations"`
		Criteria        map[string]interface{}   `json:"criteria"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	require.NotEmpty(t, resp.Recommendations)
	assert.LessOrEqual(t, len(resp.Recommendations), 3)
	assert.Equal(t, "rec_1", resp.Recommendations[0].ID)
	assert.Equal(t, "Outfit Suggestion 1", resp.Recommendations[0].Name)

	for _, recommendation := range resp.Recommendations {
		assert.NotEmpty(t, recommendation.Items)
		assert.GreaterOrEqual(t, recommendation.Confidence, 0.0)
		assert.LessOrEqual(t, recommendation.Confidence, 1.0)
		assert.NotEmpty(t, recommendation.Reasoning)
	}
	// sorted by confidence
	for i := 1; i < len(resp.Recommendations); i++ {
		assert.GreaterOrEqual(t, resp.Recommendations[i-1].Confidence, resp.Recommendations[i].Confidence)
	}
	assert.Equal(t, "work", resp.Criteria["event"])
}

func TestSmartRecommendationsEmptyWardrobe(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/outfits/recommendations/smart", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Recommendations []SmartRecommendationOut `json:"recommendations"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Empty(t, resp.Recommendations)
}

func TestSustainabilityInsights(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)
	seedWardrobe(db, user.ID)

	req := test.NewJSONAuthRequest("GET", "/outfits/sustainability/insights", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		UserID              uint     `json:"user_id"`
		SustainabilityScore float64  `json:"sustainability_score"`
		Insights            struct {
			TotalItems   int     `json:"total_items"`
			AverageUsage float64 `json:"average_usage"`
		} `json:"insights"`
		Recommendations []string `json:"recommendations"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, 7, resp.Insights.TotalItems)
	// (8+12+10+5+3+6+4)/7 = 6.857.. -> 6.9
	assert.Equal(t, 6.9, resp.Insights.AverageUsage)
	assert.GreaterOrEqual(t, resp.SustainabilityScore, 0.0)
	assert.LessOrEqual(t, resp.SustainabilityScore, 100.0)
	assert.NotEmpty(t, resp.Recommendations)
	assert.Contains(t, resp.Recommendations, "Before buying new items, check if you can create similar looks with what you have.")
	assert.Contains(t, resp.Recommendations, "Your 'White T-Shirt' is well-loved! Look for similar versatile pieces.")
}

func TestSustainabilityInsightsEmptyWardrobe(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/outfits/sustainability/insights", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, float64(0), resp["sustainability_score"])
	recommendations := resp["recommendations"].([]interface{})
	assert.Equal(t, 3, len(recommendations))
	assert.Equal(t, "Add clothing items to your wardrobe to get started", recommendations[0])
}
