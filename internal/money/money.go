// Package money defines a tagged monetary amount. Every value carries an
// explicit unit (pesos, dollars or construction-index units) so that indexed
// equivalents can never be silently conflated with nominal currency.
package money

import (
	"github.com/shopspring/decimal"
)

// Unit identifies what a numeric amount is denominated in.
type Unit string

const (
	// UnitPesos is nominal local currency (ARS).
	UnitPesos Unit = "ARS"
	// UnitDollars is foreign currency (USD).
	UnitDollars Unit = "USD"
	// UnitIndex is construction-cost-index units (CAC). Index-unit values are
	// always derived for display; they are never persisted as a budget amount.
	UnitIndex Unit = "CAC"
)

// Amount is a decimal value tagged with its unit.
type Amount struct {
	Value decimal.Decimal `json:"value"`
	Unit  Unit            `json:"unit"`
}

// Pesos builds a peso-denominated amount.
func Pesos(v decimal.Decimal) Amount { return Amount{Value: v, Unit: UnitPesos} }

// Dollars builds a dollar-denominated amount.
func Dollars(v decimal.Decimal) Amount { return Amount{Value: v, Unit: UnitDollars} }

// IndexUnits builds an index-unit amount.
func IndexUnits(v decimal.Decimal) Amount { return Amount{Value: v, Unit: UnitIndex} }

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a.Value.IsPositive() }

// Format renders the amount with its unit label. Peso amounts use the "$"
// prefix the back office displays for local currency; dollar and index
// amounts are labeled explicitly so they cannot be misread as pesos.
func (a Amount) Format() string {
	v := a.Value.StringFixed(2)
	switch a.Unit {
	case UnitPesos:
		return "$ " + v
	case UnitDollars:
		return "USD " + v
	case UnitIndex:
		return v + " CAC"
	default:
		return v
	}
}
