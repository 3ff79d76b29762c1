// internal/domain/auth/validator.go
package auth

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "panthers-signup/pkg/errors"
)

type ValidatorWrapper struct {
	validate *validator.Validate
}

func NewValidator(v *validator.Validate) Validator {
	return &ValidatorWrapper{
		validate: v,
	}
}

// Validate checks struct tags and reports failures per lower-cased field name.
func (v *ValidatorWrapper) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = fe.Field() + " is required"
		default:
			fields[name] = fe.Field() + " is invalid"
		}
	}
	return apperrors.NewFieldValidationError(fields)
}
