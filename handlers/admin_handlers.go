package handlers

import (
	"net/http"

	"github.com/The-Grit-Agencies/food-court-g4/middleware"
	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-gonic/gin"
)

// The admin page carries the login form as Form and the register form beside it.
const adminPage = "admin/admin.html"

func AdminPageHandler(c *gin.Context) {
	renderForm(c, http.StatusOK, adminPage, services.LoginInput{}, nil, gin.H{
		"RegisterForm": services.RegisterInput{},
	})
}

func AdminRegisterHandler(c *gin.Context, accounts *services.AccountService) {
	var input services.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		renderForm(c, http.StatusBadRequest, adminPage, services.LoginInput{}, bindError(err), gin.H{
			"RegisterForm": input,
		})
		return
	}

	_, err := accounts.Register(c.Request.Context(), input, models.RoleAdmin)
	if err != nil {
		input.Password, input.ConfirmPassword = "", ""
		submitFailed(c, err, adminPage, services.LoginInput{}, "/admin/register_admin", gin.H{
			"RegisterForm": input,
		})
		return
	}

	redirectWith(c, "/admin/login_admin", "success", "Admin registered successfully!")
}

func AdminLoginHandler(c *gin.Context, accounts *services.AccountService, sess *Sessions) {
	login(c, accounts, sess, models.RoleAdmin, adminPage, "/admin/admin_dashboard", gin.H{
		"RegisterForm": services.RegisterInput{},
	})
}

// GetUserListHandler is the admin dashboard: every account and restaurant.
func GetUserListHandler(c *gin.Context, accounts *services.AccountService) {
	overview, err := accounts.ListUsers(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"Overview": overview,
	})
}
