package handlers

import (
	"net/http"

	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-gonic/gin"
)

func HomeHandler(c *gin.Context, catalog *services.CatalogService) {
	all, err := catalog.ListAll(c.Request.Context())
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "home.html", gin.H{
		"Restaurants": all.Restaurants,
		"MenuItems":   all.MenuItems,
	})
}

func MenuHandler(c *gin.Context, catalog *services.CatalogService) {
	all, err := catalog.ListAll(c.Request.Context())
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "menu.html", gin.H{
		"MenuItems": all.MenuItems,
	})
}

func SearchHandler(c *gin.Context, catalog *services.CatalogService) {
	query := c.Query("q")
	result, err := catalog.Search(c.Request.Context(), query)
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "search.html", gin.H{
		"Query":       query,
		"Restaurants": result.Restaurants,
		"MenuItems":   result.MenuItems,
	})
}

func RestaurantMenuHandler(c *gin.Context, catalog *services.CatalogService) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}

	restaurant, items, err := catalog.ItemsOf(c.Request.Context(), restaurantID)
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "restaurant_menu.html", gin.H{
		"Restaurant": restaurant,
		"MenuItems":  items,
	})
}
