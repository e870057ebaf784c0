package controllers

import (
	"net/http"
	"strconv"

	"github.com/ChidexWorld/wardrobe-assistant/services"

	"github.com/labstack/echo/v4"
)

type StoresController struct {
	Stores services.ExternalStoreProvider
}

func (controller *StoresController) StoreRoutes(g *echo.Group) {
	g.GET("/search", controller.SearchItems)
	g.GET("/compare", controller.ComparePrices)
	g.GET("/supported", controller.SupportedStores)
}

func (controller *StoresController) SearchItems(c echo.Context) error {
	filter := services.StoreSearchFilter{
		Query:    c.QueryParam("query"),
		Category: c.QueryParam("category"),
		Color:    c.QueryParam("color"),
		Size:     c.QueryParam("size"),
		Limit:    20,
	}
	if v := c.QueryParam("min_price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid min_price parameter"})
		}
		filter.MinPrice = &parsed
	}
	if v := c.QueryParam("max_price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid max_price parameter"})
		}
		filter.MaxPrice = &parsed
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		filter.Limit = v
	}

	items, err := controller.Stores.SearchItems(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Store search failed"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}

func (controller *StoresController) ComparePrices(c echo.Context) error {
	itemName := c.QueryParam("item_name")
	if itemName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "item_name parameter is required"})
	}

	quotes, err := controller.Stores.CheckPriceComparison(c.Request().Context(), itemName, c.QueryParam("category"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Price comparison failed"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"item_name": itemName,
		"quotes":    quotes,
	})
}

func (controller *StoresController) SupportedStores(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"stores": controller.Stores.SupportedStores(),
	})
}
