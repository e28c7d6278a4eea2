// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/tiered-events/internal/tier"
)

// NewValidator returns a validator with the project's custom tags registered.
//
//	tier  the field must be one of the membership tiers
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // tag name is static and valid
	_ = v.RegisterValidation("tier", func(fl validator.FieldLevel) bool {
		return tier.IsValid(fl.Field().String())
	})

	return v
}

func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, formatFieldError(fe))
	}

	return strings.Join(messages, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "tier":
		return fmt.Sprintf(
			"%s must be one of: %s",
			field,
			joinTiers(),
		)
	}

	return fmt.Sprintf("%s is invalid", field)
}

func joinTiers() string {
	all := tier.All()
	names := make([]string, 0, len(all))
	for _, t := range all {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}
