package controllers

import (
	"net/http"
	"os"

	"github.com/ChidexWorld/wardrobe-assistant/models"
	"github.com/ChidexWorld/wardrobe-assistant/services"

	firebase "firebase.google.com/go/v4"
	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func SetupServer(
	db *gorm.DB,
	googleService services.GoogleServiceProvider,
	awsService services.AWSServiceProvider,
	firebaseApp *firebase.App,
	asynqClient *asynq.Client,
	urlCache services.URLCacheServiceProvider,
	storeService services.ExternalStoreProvider,
) *echo.Echo {

	e := echo.New()
	v := validator.New()
	v.RegisterValidation("platform", models.ValidatePlatform)
	e.Validator = &CustomValidator{validator: v}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", db)
			c.Set("__asynqclient", asynqClient)
			return next(c)
		}
	})

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy", "version": "1.0.0"})
	})

	authController := AuthController{Google: googleService}
	authGroup := e.Group("/auth")
	authController.AuthRoutes(authGroup)

	jwtMiddleware := echojwt.JWT([]byte(os.Getenv("JWT_SECRET")))

	wardrobeController := WardrobeController{AWSService: awsService, FirebaseApp: firebaseApp, URLCache: urlCache}
	wardrobeGroup := e.Group("/wardrobe", jwtMiddleware, UserMiddleware)
	wardrobeController.WardrobeRoutes(wardrobeGroup)

	outfitsController := OutfitsController{}
	outfitsGroup := e.Group("/outfits", jwtMiddleware, UserMiddleware)
	outfitsController.OutfitRoutes(outfitsGroup)

	storesController := StoresController{Stores: storeService}
	storesGroup := e.Group("/stores", jwtMiddleware, UserMiddleware)
	storesController.StoreRoutes(storesGroup)

	profileController := ProfileController{}
	profileGroup := e.Group("/profile", jwtMiddleware, UserMiddleware)
	profileController.ProfileRoutes(profileGroup)

	return e
}
