package handlers

import (
	"log"
	"net/http"

	"github.com/The-Grit-Agencies/food-court-g4/middleware"
	"github.com/The-Grit-Agencies/food-court-g4/models"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-gonic/gin"
)

const (
	userLoginPage    = "user/login.html"
	userRegisterPage = "user/register.html"
	userProfilePage  = "user/profile.html"
)

func RegisterPageHandler(c *gin.Context) {
	renderForm(c, http.StatusOK, userRegisterPage, services.RegisterInput{}, nil, nil)
}

func RegisterHandler(c *gin.Context, accounts *services.AccountService) {
	var input services.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		renderForm(c, http.StatusBadRequest, userRegisterPage, input, bindError(err), nil)
		return
	}

	_, err := accounts.Register(c.Request.Context(), input, models.RoleUser)
	if err != nil {
		submitFailed(c, err, userRegisterPage, input, "/user/register", nil)
		return
	}

	redirectWith(c, middleware.LoginPath, "success", "Your account has been created! You can now log in.")
}

func LoginPageHandler(c *gin.Context) {
	renderForm(c, http.StatusOK, userLoginPage, services.LoginInput{}, nil, gin.H{
		"Next": c.Query("next"),
	})
}

// login authenticates against role ("" for any) and starts a session.
func login(c *gin.Context, accounts *services.AccountService, sess *Sessions, role, page, success string, extra gin.H) {
	var input services.LoginInput
	if extra == nil {
		extra = gin.H{}
	}
	extra["Next"] = c.PostForm("next")
	if err := c.ShouldBind(&input); err != nil {
		renderForm(c, http.StatusBadRequest, page, input, bindError(err), extra)
		return
	}

	user, err := accounts.Authenticate(c.Request.Context(), input, role)
	if err != nil {
		input.Password = ""
		submitFailed(c, err, page, input, c.Request.URL.Path, extra)
		return
	}

	if err := sess.start(c, user, input.Remember); err != nil {
		log.Printf("cannot start session for user %d: %v", user.ID, err)
		errorPage(c, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	c.Redirect(http.StatusFound, safeNext(c.PostForm("next"), success))
}

func LoginHandler(c *gin.Context, accounts *services.AccountService, sess *Sessions) {
	login(c, accounts, sess, "", userLoginPage, "/user/dashboard", nil)
}

func LogoutHandler(c *gin.Context, sess *Sessions) {
	sess.end(c)
	redirectWith(c, "/", "info", "You have been logged out.")
}

func DashboardHandler(c *gin.Context, accounts *services.AccountService) {
	user, err := accounts.Profile(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	render(c, http.StatusOK, "user/dashboard.html", gin.H{
		"User": user,
	})
}

func ProfilePageHandler(c *gin.Context, accounts *services.AccountService) {
	user, err := accounts.Profile(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "/")
		return
	}

	form := services.ProfileInput{Username: user.Username, Email: user.Email}
	renderForm(c, http.StatusOK, userProfilePage, form, nil, gin.H{"User": user})
}

func ProfileHandler(c *gin.Context, accounts *services.AccountService) {
	actor := middleware.CurrentActor(c)
	user, err := accounts.Profile(c.Request.Context(), actor)
	if err != nil {
		handleError(c, err, "/")
		return
	}

	var input services.ProfileInput
	if err := c.ShouldBind(&input); err != nil {
		renderForm(c, http.StatusBadRequest, userProfilePage, input, bindError(err), gin.H{"User": user})
		return
	}
	input.Picture = optionalFile(c, "profile_picture")

	_, err = accounts.UpdateProfile(c.Request.Context(), actor, input)
	if err != nil {
		input.Password, input.ConfirmPassword = "", ""
		submitFailed(c, err, userProfilePage, input, "/user/profile", gin.H{"User": user})
		return
	}

	redirectWith(c, "/user/profile", "success", "Your profile has been updated!")
}
