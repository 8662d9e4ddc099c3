package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata_backend/internal/utils/validation"
)

// registerBindingValidators adds domain identifier formats as binding tags
// so malformed identifiers are rejected at bind time, before any service
// call. The services validate again; this only improves the error surface.
func registerBindingValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return validation.ValidateGSTIN(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("hsnsac", func(fl validator.FieldLevel) bool {
		return validation.ValidateClassificationCode(fl.Field().String()) == nil
	})
}
