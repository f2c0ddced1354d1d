package api

import (
	"fmt"

	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validator: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return fmt.Errorf("%w: %v", constants.ErrBadRequest, err)
	}
	return nil
}

func NewBinder() echo.Binder {
	return &echo.DefaultBinder{}
}
