package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var bookingReferenceRgx = regexp.MustCompile(`^[A-Z]+-[0-9A-F]{8}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(jsonFieldName)
	validator.RegisterValidation("booking_ref", validateBookingReference)

	return validator
}

// jsonFieldName reports fields by their JSON name so validation errors match
// the request body the client sent.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func validateBookingReference(fl validator.FieldLevel) bool {
	return bookingReferenceRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	collection := err.Kind() == reflect.Slice || err.Kind() == reflect.Array || err.Kind() == reflect.Map

	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if collection {
			return fmt.Sprintf("must contain at least %s item(s)", err.Param())
		}
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		if collection {
			return fmt.Sprintf("must contain at most %s items", err.Param())
		}
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "unique":
		return "must not contain duplicate values"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "booking_ref":
		return "must be a booking reference such as MBK-3F9A0C1D"
	default:
		return "is invalid"
	}
}
