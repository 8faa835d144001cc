package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateInput trims every string field the caller passes by pointer and
// runs struct validation. Any failure collapses to a single validation error
// carrying msg.
func validateInput(input interface{}, msg string, fields ...*string) error {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
	if err := validate.Struct(input); err != nil {
		return newError(ErrValidation, msg)
	}
	return nil
}
