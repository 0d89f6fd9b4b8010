// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("budget_kind", validateBudgetKind)
		_ = v.RegisterValidation("budget_currency", validateBudgetCurrency)
		_ = v.RegisterValidation("indexation_mode", validateIndexationMode)
		_ = v.RegisterValidation("comparison_basis", validateComparisonBasis)
	}
}

func validateBudgetKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateBudgetCurrency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "ARS", "USD":
		return true
	}
	return false
}

func validateIndexationMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "none", "cac", "usd":
		return true
	}
	return false
}

func validateComparisonBasis(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "gross", "net":
		return true
	}
	return false
}
