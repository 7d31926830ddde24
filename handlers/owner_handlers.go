package handlers

import (
	"net/http"
	"strconv"

	"github.com/The-Grit-Agencies/food-court-g4/middleware"
	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-gonic/gin"
)

const (
	ownerRegisterPage = "owner/register.html"
	ownerLoginPage    = "owner/login.html"
	ownerMenuPage     = "owner/menu.html"
	ownerEditPage     = "owner/edit_menu_item.html"
	ownerProfilePage  = "owner/profile.html"
	ownerMenuPath     = "/owner/menu"
)

func OwnerRegisterPageHandler(c *gin.Context) {
	renderForm(c, http.StatusOK, ownerRegisterPage, services.OwnerRegisterInput{}, nil, nil)
}

func OwnerRegisterHandler(c *gin.Context, accounts *services.AccountService) {
	var input services.OwnerRegisterInput
	if err := c.ShouldBind(&input); err != nil {
		renderForm(c, http.StatusBadRequest, ownerRegisterPage, input, bindError(err), nil)
		return
	}

	_, _, err := accounts.RegisterOwner(c.Request.Context(), input)
	if err != nil {
		submitFailed(c, err, ownerRegisterPage, input, "/owner/register_owner", nil)
		return
	}

	redirectWith(c, "/owner/login_owner", "success", "Owner registered successfully!")
}

func OwnerLoginPageHandler(c *gin.Context) {
	renderForm(c, http.StatusOK, ownerLoginPage, services.LoginInput{}, nil, gin.H{
		"Next": c.Query("next"),
	})
}

func OwnerLoginHandler(c *gin.Context, accounts *services.AccountService, sess *Sessions) {
	login(c, accounts, sess, models.RoleOwner, ownerLoginPage, "/owner/owner_dashboard", nil)
}

func OwnerDashboardHandler(c *gin.Context, orders *services.OrderService) {
	dashboard, err := orders.Dashboard(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "owner/dashboard.html", gin.H{
		"Dashboard": dashboard,
	})
}

func menuPage(c *gin.Context, restaurants *services.RestaurantService, status int, form services.MenuItemInput, formErr error) {
	restaurant, items, err := restaurants.ListMenu(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	renderForm(c, status, ownerMenuPage, form, formErr, gin.H{
		"Restaurant": restaurant,
		"MenuItems":  items,
	})
}

func OwnerMenuHandler(c *gin.Context, restaurants *services.RestaurantService) {
	menuPage(c, restaurants, http.StatusOK, services.MenuItemInput{}, nil)
}

func AddMenuItemHandler(c *gin.Context, restaurants *services.RestaurantService) {
	var input services.MenuItemInput
	if err := c.ShouldBind(&input); err != nil {
		menuPage(c, restaurants, http.StatusBadRequest, input, bindError(err))
		return
	}
	input.Image = optionalFile(c, "image")

	_, err := restaurants.AddMenuItem(c.Request.Context(), middleware.CurrentActor(c), input)
	if err != nil {
		if status, ok := formFailed(err); ok {
			menuPage(c, restaurants, status, input, err)
			return
		}
		handleError(c, err, ownerMenuPath)
		return
	}

	redirectWith(c, ownerMenuPath, "success", "Menu item added successfully!")
}

func EditMenuItemPageHandler(c *gin.Context, restaurants *services.RestaurantService) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	item, err := restaurants.GetMenuItem(c.Request.Context(), middleware.CurrentActor(c), itemID)
	if err != nil {
		handleError(c, err, ownerMenuPath)
		return
	}

	form := services.MenuItemInput{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
	}
	renderForm(c, http.StatusOK, ownerEditPage, form, nil, gin.H{"Item": item})
}

func EditMenuItemHandler(c *gin.Context, restaurants *services.RestaurantService) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c)
	item, err := restaurants.GetMenuItem(c.Request.Context(), actor, itemID)
	if err != nil {
		handleError(c, err, ownerMenuPath)
		return
	}

	var input services.MenuItemInput
	if err := c.ShouldBind(&input); err != nil {
		renderForm(c, http.StatusBadRequest, ownerEditPage, input, bindError(err), gin.H{"Item": item})
		return
	}
	input.Image = optionalFile(c, "image")

	_, err = restaurants.EditMenuItem(c.Request.Context(), actor, itemID, input)
	if err != nil {
		editPath := ownerMenuPath + "/" + strconv.FormatUint(uint64(itemID), 10) + "/edit"
		submitFailed(c, err, ownerEditPage, input, editPath, gin.H{"Item": item})
		return
	}

	redirectWith(c, ownerMenuPath, "success", "Menu item updated successfully!")
}

func DeleteMenuItemHandler(c *gin.Context, restaurants *services.RestaurantService) {
	itemID, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := restaurants.DeleteMenuItem(c.Request.Context(), middleware.CurrentActor(c), itemID)
	if err != nil {
		handleError(c, err, ownerMenuPath)
		return
	}

	redirectWith(c, ownerMenuPath, "success", "Menu item deleted successfully!")
}

func OwnerProfilePageHandler(c *gin.Context, restaurants *services.RestaurantService) {
	restaurant, err := restaurants.RestaurantByOwner(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	form := services.RestaurantProfileInput{
		Name:         restaurant.Name,
		Contact:      restaurant.Contact,
		Address:      restaurant.Address,
		OpeningHours: restaurant.OpeningHours,
	}
	renderForm(c, http.StatusOK, ownerProfilePage, form, nil, gin.H{
		"Restaurant":   restaurant,
		"OpeningHours": models.OpeningHoursChoices,
	})
}

func OwnerProfileHandler(c *gin.Context, restaurants *services.RestaurantService) {
	actor := middleware.CurrentActor(c)
	restaurant, err := restaurants.RestaurantByOwner(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err, "/")
		return
	}
	extra := gin.H{
		"Restaurant":   restaurant,
		"OpeningHours": models.OpeningHoursChoices,
	}

	var input services.RestaurantProfileInput
	if err := c.ShouldBind(&input); err != nil {
		renderForm(c, http.StatusBadRequest, ownerProfilePage, input, bindError(err), extra)
		return
	}
	input.Logo = optionalFile(c, "logo")

	_, err = restaurants.UpdateProfile(c.Request.Context(), actor, input)
	if err != nil {
		submitFailed(c, err, ownerProfilePage, input, "/owner/profile", extra)
		return
	}

	redirectWith(c, "/owner/profile", "success", "Profile updated successfully!")
}
