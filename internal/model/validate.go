package model

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phonePattern accepts the usual ways of writing a phone number: an optional leading '+', groups
// of digits (optionally in parentheses) separated by single spaces, dots or dashes, and an
// optional extension.
var phonePattern = regexp.MustCompile(`^(\+\s?)?(\(\+?\d+([\s.\-]?\d+)?\)|\d+)([\s.\-]?(\(\d+([\s.\-]?\d+)?\)|\d+))*(\s?(x|ext\.?)\s?\d+)?$`)

// validate is safe for concurrent use and caches struct metadata, so there is only one.
var validate = newValidator()

// FieldError is a single violation of a field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(Date); ok {
			return d.String()
		}
		return nil
	}, Date{})
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks a business card against its field constraints. It returns nil if the card is
// valid.
func Validate(card *BusinessCard) []FieldError {
	err := validate.Struct(card)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	violations := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		violations = append(violations, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return violations
}

// message turns a failed constraint into a human readable sentence.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be longer than %s characters.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", fe.Field())
	case "phone":
		return fmt.Sprintf("The %s field is not a valid phone number.", fe.Field())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
