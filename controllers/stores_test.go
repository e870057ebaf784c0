package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChidexWorld/wardrobe-assistant/dbhelper"
	"github.com/ChidexWorld/wardrobe-assistant/services"
	"github.com/ChidexWorld/wardrobe-assistant/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSearch(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/stores/search?query=shirt&max_price=50", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Items []services.ExternalStoreItem `json:"items"`
		Total int                          `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)

	require.NotEmpty(t, resp.Items)
	for _, item := range resp.Items {
		assert.LessOrEqual(t, item.Price, 50.0)
	}

	// unauthenticated requests are rejected
	req_2 := test.NewJSONRequest("GET", "/stores/search?query=shirt", nil)
	rec_2 := httptest.NewRecorder()
	e.ServeHTTP(rec_2, req_2)
	assert.Equal(t, http.StatusUnauthorized, rec_2.Code)
}

func TestStoreCompare(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/stores/compare?item_name=jacket", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		ItemName string                `json:"item_name"`
		Quotes   []services.PriceQuote `json:"quotes"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, "jacket", resp.ItemName)
	require.NotEmpty(t, resp.Quotes)
	// cheapest total first
	for i := 1; i < len(resp.Quotes); i++ {
		assert.LessOrEqual(t, resp.Quotes[i-1].TotalCost, resp.Quotes[i].TotalCost)
	}

	// item_name is required
	req_2 := test.NewJSONAuthRequest("GET", "/stores/compare", UIntToStr(user.ID), nil)
	rec_2 := httptest.NewRecorder()
	e.ServeHTTP(rec_2, req_2)
	assert.Equal(t, http.StatusBadRequest, rec_2.Code)
}

func TestSupportedStores(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/stores/supported", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Stores []string `json:"stores"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, []string{"Fashion Hub", "Style Central", "Trendy Closet"}, resp.Stores)
}
