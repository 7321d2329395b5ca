package handlers

import (
	"gas-delivery-api/middleware"
	"gas-delivery-api/validation"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Metrics, when set, receives order lifecycle counters. Nil in tests that
// don't care about metrics.
var Metrics *middleware.Metrics

// RegisterValidators installs the custom binding rules. Call once at startup.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("kephone", func(fl validator.FieldLevel) bool {
			return validation.IsValidPhone(fl.Field().String())
		})
	}
}

func recordCreated() {
	if Metrics != nil {
		Metrics.RecordOrderCreated()
	}
}

func recordAccepted() {
	if Metrics != nil {
		Metrics.RecordOrderAccepted()
	}
}

func recordDelivered() {
	if Metrics != nil {
		Metrics.RecordOrderDelivered()
	}
}

func recordCancelled() {
	if Metrics != nil {
		Metrics.RecordOrderCancelled()
	}
}
