package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FormatValidationErrors flattens validator.ValidationErrors into messages
// suitable for the errors array of an ApiError.
func FormatValidationErrors(err error) []string {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	out := make([]string, len(ve))
	for i, fe := range ve {
		switch fe.Tag() {
		case "required":
			out[i] = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			out[i] = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "min":
			out[i] = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		default:
			out[i] = fmt.Sprintf("validation failed on field %q for tag %q", fe.Field(), fe.Tag())
		}
	}
	return out
}
