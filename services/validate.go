package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report the form field name so messages line up with the rendered inputs
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput runs the `validate` tags of input and returns every failing field.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return validationError("", err.Error())
	}

	out := make(fieldErrors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, validationError(fe.Field(), describe(fe)))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "eqfield":
		return "Field must be equal to " + strings.ToLower(fe.Param()) + "."
	case "oneof":
		return "Not a valid choice."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
		}
		return fmt.Sprintf("Number must be at least %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Number must be at most %s.", fe.Param())
	default:
		return "Invalid value."
	}
}
