// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	domainerrors "passport/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// RequestValidator implements echo.Validator using struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates the request validator shared by every handler.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate checks the bound request DTO against its validate tags and maps
// failures onto the validation error of the API's error catalog.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
