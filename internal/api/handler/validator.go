package handler

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/sixcities/rental-api/internal/core/domain"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
} // @name FieldError

var validate = validator.New()

// checker accumulates field errors for one request. Each request type has an
// explicit validate method that feeds its fields through check.
type checker struct {
	errs []FieldError
}

// check validates value against validator rules such as "required,min=10".
func (ch *checker) check(field string, value any, rules string) {
	err := validate.Var(value, rules)
	if err == nil {
		return
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		ch.add(field, fieldError(field, ve[0]))
		return
	}
	ch.add(field, field+" is invalid")
}

// checkEach validates every element of values.
func (ch *checker) checkEach(field string, values []string, rules string) {
	for i, v := range values {
		ch.check(fmt.Sprintf("%s[%d]", field, i), v, rules)
	}
}

func (ch *checker) add(field, message string) {
	ch.errs = append(ch.errs, FieldError{Field: field, Message: message})
}

// result is nil when every check passed, otherwise a bad request error
// carrying the field errors as details.
func (ch *checker) result() error {
	if len(ch.errs) == 0 {
		return nil
	}
	return &domain.Error{Kind: domain.KindBadRequest, Message: "Validation failed", Details: ch.errs}
}

// fieldError converts a single validator.FieldError into a human-readable message.
func fieldError(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
