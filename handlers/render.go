package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/The-Grit-Agencies/food-court-g4/middleware"
	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-gonic/gin"
)

// render adds the flash notices and the current actor to data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	// the layout reads these on every page
	for _, key := range []string{"Query", "Notice"} {
		if _, ok := data[key]; !ok {
			data[key] = ""
		}
	}
	data["Flashes"] = middleware.Flashes(c)
	data["Actor"] = middleware.CurrentActor(c)
	c.HTML(status, name, data)
}

func redirectWith(c *gin.Context, location, category, message string) {
	middleware.Flash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

func errorPage(c *gin.Context, status int, message string) {
	render(c, status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
}

// handleError maps a service error for actions that answer with a redirect. fallback is
// where validation, conflict and storage failures are sent back to.
func handleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrLoginRequired):
		redirectWith(c, middleware.LoginPath, "info", services.Message(err))
	case errors.Is(err, services.ErrWrongRole), errors.Is(err, services.ErrNoRestaurant):
		redirectWith(c, "/", "danger", services.Message(err))
	case errors.Is(err, services.ErrForbidden):
		errorPage(c, http.StatusForbidden, services.Message(err))
	case errors.Is(err, services.ErrNotFound):
		errorPage(c, http.StatusNotFound, services.Message(err))
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		redirectWith(c, fallback, "danger", services.Message(err))
	case errors.Is(err, services.ErrStorage):
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		redirectWith(c, fallback, "danger", services.Message(err))
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		errorPage(c, http.StatusInternalServerError, "Something went wrong.")
	}
}

// formFailed reports whether err is one a form page shows next to its fields, and the
// status to render it with.
func formFailed(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, true
	}
	return 0, false
}

// formMessage is the notice shown above a form when the error is not tied to one field.
func formMessage(err error) string {
	var e *services.Error
	if errors.As(err, &e) && e.Field == "" {
		return e.Message
	}
	return ""
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		errorPage(c, http.StatusNotFound, "Page not found.")
		return 0, false
	}
	return uint(id), true
}

// formQuantity reads the quantity field; anything unparsable counts as zero.
func formQuantity(c *gin.Context) int {
	quantity, err := strconv.Atoi(strings.TrimSpace(c.PostForm("quantity")))
	if err != nil {
		return 0
	}
	return quantity
}

// optionalFile returns the uploaded file of field, or nil when none was sent.
func optionalFile(c *gin.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			log.Printf("cannot read upload %s: %v", field, err)
		}
		return nil
	}
	return file
}

// safeNext accepts only local absolute paths.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
