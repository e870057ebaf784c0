package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ChidexWorld/wardrobe-assistant/dbhelper"
	"github.com/ChidexWorld/wardrobe-assistant/models"
	"github.com/ChidexWorld/wardrobe-assistant/services"
	"github.com/ChidexWorld/wardrobe-assistant/test"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	param := models.RegisterIn{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "longenoughpassword",
		Platform: "ios",
	}
	req := test.NewJSONRequest("POST", "/auth/register", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user models.UserAccount
	db.First(&user, "email = ?", "ada@example.com")
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "individual", user.UserType)
	assert.Equal(t, models.PlatformIOS, user.Platform)
	assert.NotEqual(t, "longenoughpassword", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("longenoughpassword")))

	// same email again
	req_2 := test.NewJSONRequest("POST", "/auth/register", param)
	rec_2 := httptest.NewRecorder()
	e.ServeHTTP(rec_2, req_2)

	assert.Equal(t, http.StatusBadRequest, rec_2.Code, rec_2.Body.String())
}

func TestRegisterShortPassword(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	param := models.RegisterIn{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "short",
		Platform: "ios",
	}
	req := test.NewJSONRequest("POST", "/auth/register", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var count int64
	db.Model(&models.UserAccount{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLogin(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	test.FakeUser(db)

	param := models.LoginIn{Email: "email@example.com", Password: "password123"}
	req := test.NewJSONRequest("POST", "/auth/login", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.TokenOut
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)

	param_2 := models.LoginIn{Email: "email@example.com", Password: "wrongpassword"}
	req_2 := test.NewJSONRequest("POST", "/auth/login", param_2)
	rec_2 := httptest.NewRecorder()
	e.ServeHTTP(rec_2, req_2)

	assert.Equal(t, http.StatusUnauthorized, rec_2.Code, rec_2.Body.String())

	param_3 := models.LoginIn{Email: "nobody@example.com", Password: "password123"}
	req_3 := test.NewJSONRequest("POST", "/auth/login", param_3)
	rec_3 := httptest.NewRecorder()
	e.ServeHTTP(rec_3, req_3)

	assert.Equal(t, http.StatusUnauthorized, rec_3.Code, rec_3.Body.String())
}

func TestAuthGoogle(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	param := models.GoogleAuthSignIn{IdToken: "faketoken", Platform: "android"}
	req := test.NewJSONRequest("POST", "/auth/google", param)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.TokenOut
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.AccessToken)

	var user models.UserAccount
	db.First(&user, "email = ?", "fake@example.com")
	assert.Equal(t, "123googleid", user.GoogleID)
	assert.Equal(t, "Fake Name", user.Name)
	assert.Equal(t, "pictureurl", user.AvatarURL)

	// second sign-in reuses the account
	req_2 := test.NewJSONRequest("POST", "/auth/google", param)
	rec_2 := httptest.NewRecorder()
	e.ServeHTTP(rec_2, req_2)

	assert.Equal(t, http.StatusOK, rec_2.Code, rec_2.Body.String())
	var count int64
	db.Model(&models.UserAccount{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMe(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/auth/me", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.UserMeInfoOut
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, "email@example.com", resp.Email)
	assert.Equal(t, []string{"blue", "white"}, resp.FavoriteColors)

	// no token
	req_2 := test.NewJSONRequest("GET", "/auth/me", nil)
	rec_2 := httptest.NewRecorder()
	e.ServeHTTP(rec_2, req_2)
	assert.Equal(t, http.StatusUnauthorized, rec_2.Code)
}

func TestVerifyToken(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, test.AWSProviderMock{}, nil, nil, test.URLCacheMock{}, services.ExternalStoreService{})

	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("GET", "/auth/verify-token", UIntToStr(user.ID), nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.Equal(t, true, resp["valid"])
}
