// Package validation applies field-level rules to entities before they are written.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/sportsched/internal/model"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// phoneSeparators are stripped before counting digits
var phoneSeparators = strings.NewReplacer("-", "", " ", "", "(", "", ")", "")

// Validator checks struct tags and reports every failure at once
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the scheduler's custom rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("enum", validateEnum)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("mail", validateEmail)

	return &Validator{v: v}
}

// Check validates s and returns every failed field
func (v *Validator) Check(s any) model.FieldErrors {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.FieldErrors{{Field: "", Code: model.CodeInvalid, Reason: err.Error()}}
	}

	out := make(model.FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, toFieldError(fe))
	}
	return out
}

// Validate returns a *model.ValidationError when s breaks any rule
func (v *Validator) Validate(s any) error {
	return v.Check(s).Err()
}

func toFieldError(fe validator.FieldError) model.FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return model.FieldError{Field: field, Code: model.CodeRequired, Reason: "is required"}
	case "mail":
		return model.FieldError{Field: field, Code: model.CodeInvalidFormat, Reason: "must be a valid email address"}
	case "phone":
		return model.FieldError{Field: field, Code: model.CodeInvalidFormat, Reason: "must be 1-15 digits, optionally prefixed by +"}
	case "datetime":
		return model.FieldError{Field: field, Code: model.CodeInvalidFormat, Reason: fmt.Sprintf("must match layout %s", fe.Param())}
	case "enum":
		return model.FieldError{Field: field, Code: model.CodeInvalidEnumValue, Reason: fmt.Sprintf("%q is not an allowed value", fe.Value())}
	case "gte", "min":
		return model.FieldError{Field: field, Code: model.CodeOutOfRange, Reason: "must be at least " + fe.Param()}
	case "lte", "max":
		return model.FieldError{Field: field, Code: model.CodeOutOfRange, Reason: "must be at most " + fe.Param()}
	default:
		return model.FieldError{Field: field, Code: model.CodeInvalid, Reason: "failed " + fe.Tag() + " check"}
	}
}

type enumValue interface {
	IsValid() bool
}

func validateEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(enumValue)
	return ok && e.IsValid()
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsPhone(fl.Field().String())
}

// IsPhone reports whether s holds 1-15 digits, optionally prefixed by +,
// once dashes, spaces and parentheses are removed
func IsPhone(s string) bool {
	digits := strings.TrimPrefix(phoneSeparators.Replace(s), "+")
	if len(digits) == 0 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
