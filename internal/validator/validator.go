package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(jsonTagName)
	validator.RegisterValidation("date", validateDate)
	validator.RegisterValidation("notblank", validateNotBlank)

	return validator
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}

	return name
}

// Dates travel as text in the wire format; only the layout is checked. The
// ordering of release_date and end_date is deliberately not enforced.
func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "notblank":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be %s or greater", err.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "date":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}
