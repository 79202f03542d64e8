// Package validation holds the one validator shared by services (pre-flight
// checks) and the console (c.Validate).
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hospos/hospos-client/internal/core/domain"
)

var (
	pinPattern      = regexp.MustCompile(`^[0-9]{3,6}$`)
	linkCodePattern = regexp.MustCompile(`^[0-9]{12}$`)
	objectIDPattern = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)
)

type Validator struct {
	v *validator.Validate
}

// New returns a validator with the pin, linkcode and objectid tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "pin", pinPattern)
	mustRegister(v, "linkcode", linkCodePattern)
	mustRegister(v, "objectid", objectIDPattern)
	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks i and returns a validation Failure listing every problem.
func (v *Validator) Validate(i any) error {
	if err := v.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return domain.ValidationFailure(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Var validates a single value against tag, naming it field in the message.
func (v *Validator) Var(field string, value any, tag string) error {
	if err := v.v.Var(value, tag); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return domain.ValidationFailure(strings.Replace(fieldError(ve[0]), "value", field, 1))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	if field == "" {
		field = "value"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return field + " is required for this type"
	case "email":
		return field + " must be a valid email"
	case "numeric":
		return field + " must be a number"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "pin":
		return field + " must be 3 to 6 digits"
	case "linkcode":
		return field + " must be exactly 12 digits"
	case "objectid":
		return field + " must be a 24 character hex id"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
