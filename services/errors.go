package services

import (
	"errors"
	"fmt"
)

// Error kinds. Compare with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")

	// Forbidden refinements: no actor, wrong role, owner without a restaurant row.
	ErrLoginRequired = fmt.Errorf("%w: login required", ErrForbidden)
	ErrWrongRole     = fmt.Errorf("%w: wrong role", ErrForbidden)
	ErrNoRestaurant  = fmt.Errorf("%w: no restaurant for owner", ErrForbidden)
)

const genericFailure = "An error occurred. Please try again."

// Error carries the kind, the offending form field (if any) and a message that is safe
// to show to the actor. Err holds the underlying cause for logging.
type Error struct {
	Kind    error
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(field, message string) *Error {
	return &Error{Kind: ErrValidation, Field: field, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func forbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func conflict(field, message string) *Error {
	return &Error{Kind: ErrConflict, Field: field, Message: message}
}

func storageError(message string, err error) *Error {
	if message == "" {
		message = genericFailure
	}
	return &Error{Kind: ErrStorage, Message: message, Err: err}
}

// Message returns the text that may be shown to the actor for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if errors.Is(err, ErrNoRestaurant) {
		return "No restaurant associated with this account!"
	}
	return genericFailure
}

// FieldErrors collects field → message pairs of a validation or conflict error.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var fe fieldErrors
	if errors.As(err, &fe) {
		for _, e := range fe {
			out[e.Field] = e.Message
		}
		return out
	}
	var e *Error
	if errors.As(err, &e) && e.Field != "" {
		out[e.Field] = e.Message
	}
	return out
}

// fieldErrors is returned when a form fails several rules at once.
type fieldErrors []*Error

func (fe fieldErrors) Error() string {
	if len(fe) == 0 {
		return ErrValidation.Error()
	}
	return fe[0].Error()
}

func (fe fieldErrors) Unwrap() []error {
	out := make([]error, 0, len(fe))
	for _, e := range fe {
		out = append(out, e)
	}
	return out
}
