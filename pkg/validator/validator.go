package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()

	// "platform" validates a supported meeting platform name
	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		_, ok := entities.ParsePlatform(fl.Field().String())
		return ok
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
