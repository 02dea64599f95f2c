package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"lecturenotes-be/pkg/apperror"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts failures into a
// validation error carrying per-field messages.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidation("Invalid request payload")
	}

	fieldErrs := make([]apperror.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fieldErrs = append(fieldErrs, apperror.FieldError{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: messageForTag(fe),
		})
	}

	return apperror.NewValidation("Validation failed", fieldErrs...)
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "url":
		return "Must be a valid URL"
	case "uuid":
		return "Must be a valid UUID"
	default:
		return fmt.Sprintf("Failed validation on %s", fe.Tag())
	}
}
