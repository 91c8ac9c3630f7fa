// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound payloads.
package validator

import (
	domainerrors "pethub/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// EchoValidator implements echo.Validator.
type EchoValidator struct {
	validate *playground.Validate
}

// New creates the validator with struct tag validation enabled.
func New() *EchoValidator {
	return &EchoValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate checks the bound payload and converts violations into the
// shared validation error so the error handler renders them uniformly.
func (v *EchoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
