package dto

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validMonthYear reports whether the field holds a billing period in MM-yyyy
// form, e.g. "02-2026".
func validMonthYear(fl validator.FieldLevel) bool {
	_, err := time.Parse("01-2006", fl.Field().String())
	return err == nil
}

// RegisterCustomValidations attaches the billing-specific validation tags to
// gin's binding engine. Call once at startup.
func RegisterCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("monthyear", validMonthYear)
	}
}
