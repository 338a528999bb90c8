package validation

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindingRules installs the custom rules on gin's request validator
// so DTO binding tags can reference them. Called once at startup.
func RegisterBindingRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("recordid", func(fl validator.FieldLevel) bool {
		return ValidRecordID(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
}
