// internal/domain/signup/validator.go
package signup

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "panthers-signup/pkg/errors"
)

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldAge             = "age"
	FieldPosition        = "position"
	FieldExperienceLevel = "experienceLevel"
)

// Fields lists the form fields in display order.
var Fields = []string{FieldName, FieldEmail, FieldPhone, FieldAge, FieldPosition, FieldExperienceLevel}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AgeBounds is the inclusive accepted age range.
type AgeBounds struct {
	Min int
	Max int
}

// FieldError is an inline message for one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type rule struct {
	tag      string
	messages map[string]string
}

// FieldValidator checks single form fields. It holds no per-form state.
type FieldValidator struct {
	validate *validator.Validate
	ages     AgeBounds
	rules    map[string]rule
}

func NewFieldValidator(v *validator.Validate, ages AgeBounds) (*FieldValidator, error) {
	if err := v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register emailshape: %w", err)
	}
	return &FieldValidator{
		validate: v,
		ages:     ages,
		rules: map[string]rule{
			FieldName: {"required,min=2", map[string]string{
				"required": "Full name is required",
				"min":      "Name must be at least 2 characters",
			}},
			FieldEmail: {"required,emailshape", map[string]string{
				"required":   "Email address is required",
				"emailshape": "Please enter a valid email address",
			}},
			FieldPhone: {"required,min=7", map[string]string{
				"required": "Phone number is required",
				"min":      "Please enter a valid phone number",
			}},
			FieldPosition: {"required,oneof=guard forward center", map[string]string{
				"required": "Please select a position",
				"oneof":    "Please select a position",
			}},
			FieldExperienceLevel: {"required,oneof=beginner intermediate advanced", map[string]string{
				"required": "Please select your experience level",
				"oneof":    "Please select your experience level",
			}},
		},
	}, nil
}

func (v *FieldValidator) AgeBounds() AgeBounds {
	return v.ages
}

// Validate checks one field value and returns a *FieldError when it fails.
func (v *FieldValidator) Validate(field, value string) error {
	value = strings.TrimSpace(value)
	if field == FieldAge {
		return v.validateAge(value)
	}
	r, ok := v.rules[field]
	if !ok {
		return &FieldError{Field: field, Message: "Unknown field"}
	}
	if err := v.validate.Var(value, r.tag); err != nil {
		return &FieldError{Field: field, Message: r.messages[failedTag(err)]}
	}
	return nil
}

func (v *FieldValidator) validateAge(value string) error {
	if err := v.validate.Var(value, "required"); err != nil {
		return &FieldError{Field: FieldAge, Message: "Age is required"}
	}
	age, err := strconv.Atoi(value)
	if err != nil {
		return &FieldError{Field: FieldAge, Message: "Age must be a whole number"}
	}
	if err := v.validate.Var(age, fmt.Sprintf("gte=%d", v.ages.Min)); err != nil {
		return &FieldError{Field: FieldAge, Message: fmt.Sprintf("Must be at least %d years old", v.ages.Min)}
	}
	if err := v.validate.Var(age, fmt.Sprintf("lte=%d", v.ages.Max)); err != nil {
		return &FieldError{Field: FieldAge, Message: fmt.Sprintf("Must be %d or younger", v.ages.Max)}
	}
	return nil
}

// ValidateForm runs every field rule and returns a ValidationError listing
// all failing fields, or nil.
func (v *FieldValidator) ValidateForm(f Form) error {
	values := map[string]string{
		FieldName:            f.Name,
		FieldEmail:           f.Email,
		FieldPhone:           f.Phone,
		FieldAge:             f.Age,
		FieldPosition:        f.Position,
		FieldExperienceLevel: f.ExperienceLevel,
	}
	fields := make(map[string]string)
	for _, name := range Fields {
		var fe *FieldError
		if err := v.Validate(name, values[name]); errors.As(err, &fe) {
			fields[name] = fe.Message
		}
	}
	if len(fields) > 0 {
		return apperrors.NewFieldValidationError(fields)
	}
	return nil
}

func failedTag(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Tag()
	}
	return ""
}
