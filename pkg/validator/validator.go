package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo's Validator
// interface so bound request DTOs are checked against their validate tags.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds the validator wired into the echo instance at startup
func New() *CustomValidator {
	return &CustomValidator{validate: validator.New()}
}

// Validate checks a bound request struct
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}
