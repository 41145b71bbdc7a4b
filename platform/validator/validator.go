// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the application's custom rules registered.
func New() *Validator {
	v := validator.New()
	_ = RegisterDefaults(v)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// RegisterDefaults installs the custom tags on an existing engine, e.g. gin's binding validator.
func RegisterDefaults(v *validator.Validate) error {
	return v.RegisterValidation("trimmedmin", trimmedMin)
}

// trimmedMin checks the rune length of a string after surrounding whitespace is removed.
// Usage: `validate:"trimmedmin=3"`.
func trimmedMin(fl validator.FieldLevel) bool {
	minLen, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= minLen
}
