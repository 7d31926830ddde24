package handlers

import (
	"log"

	"github.com/The-Grit-Agencies/food-court-g4/services"
	"github.com/gin-gonic/gin"
)

// renderForm shows page with the submitted values and the errors of a failed submission.
func renderForm(c *gin.Context, status int, page string, form any, err error, extra gin.H) {
	data := gin.H{
		"Form":   form,
		"Errors": services.FieldErrors(err),
		"Notice": formMessage(err),
	}
	for k, v := range extra {
		data[k] = v
	}
	render(c, status, page, data)
}

// submitFailed renders page again for form errors, or falls back to handleError.
func submitFailed(c *gin.Context, err error, page string, form any, fallback string, extra gin.H) {
	if status, ok := formFailed(err); ok {
		renderForm(c, status, page, form, err, extra)
		return
	}
	handleError(c, err, fallback)
}

// bindError replaces a form decoding failure with a notice the page can show.
func bindError(err error) error {
	log.Printf("cannot bind form: %v", err)
	return &services.Error{Kind: services.ErrValidation, Message: "Invalid form submission."}
}
