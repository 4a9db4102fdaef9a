package dto

import (
	"fmt"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	"github.com/SscSPs/bank_statements_svc/internal/utils/aggregation"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs the iban_es and yearmonth binding tags on
// gin's validator engine. Called once at startup, before routes are served.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine type %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("iban_es", func(fl validator.FieldLevel) bool {
		return domain.IsIBAN(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		_, err := aggregation.ParseMonth(fl.Field().String())
		return err == nil
	})
}
