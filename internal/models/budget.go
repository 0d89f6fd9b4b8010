package models

import (
	"github.com/shopspring/decimal"
)

// BudgetKind distinguishes spending targets from income targets.
type BudgetKind string

const (
	BudgetKindIncome  BudgetKind = "income"
	BudgetKindExpense BudgetKind = "expense"
)

// Currency is the nominal currency a budget amount is denominated in.
type Currency string

const (
	CurrencyARS Currency = "ARS"
	CurrencyUSD Currency = "USD"
)

// IndexationMode is the inflation-protection policy applied to a peso
// budget. It is only valid when the currency is ARS; a USD budget always
// has IndexationNone.
type IndexationMode string

const (
	IndexationNone IndexationMode = "none"
	// IndexationCAC tracks the construction cost index.
	IndexationCAC IndexationMode = "cac"
	// IndexationUSD tracks the foreign-currency rate.
	IndexationUSD IndexationMode = "usd"
)

// ComparisonBasis controls whether executed spend is measured using invoice
// totals including tax (gross) or excluding tax (net).
type ComparisonBasis string

const (
	BasisGross ComparisonBasis = "gross"
	BasisNet   ComparisonBasis = "net"
)

// Budget is a controlled spending or income line for a project, optionally
// scoped to exactly one of a category (with optional subcategory), a stage
// or a provider.
//
// Amount is always persisted in the budget's nominal currency: pesos for ARS
// budgets, dollars for USD budgets. Index-unit equivalents are derived for
// display from the creation rate snapshot and are never stored.
type Budget struct {
	Base
	OrgID     string `gorm:"type:uuid;not null;index" json:"org_id"`
	ProjectID string `gorm:"type:uuid;not null;index" json:"project_id"`

	Kind            BudgetKind      `gorm:"not null" json:"kind"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency        Currency        `gorm:"not null" json:"currency"`
	IndexationMode  IndexationMode  `gorm:"not null;default:'none'" json:"indexation_mode"`
	ComparisonBasis ComparisonBasis `gorm:"not null;default:'gross'" json:"comparison_basis"`

	// Grouping: at most one of category/stage/provider may be set.
	CategoryID    *string `gorm:"type:uuid" json:"category_id,omitempty"`
	SubcategoryID *string `gorm:"type:uuid" json:"subcategory_id,omitempty"`
	StageID       *string `gorm:"type:uuid" json:"stage_id,omitempty"`
	ProviderID    *string `gorm:"type:uuid" json:"provider_id,omitempty"`

	// ExecutedAmount is a read-only projection supplied by the store: the
	// running total of real spend or income attributed to this budget under
	// the current comparison basis. Clients never write it.
	ExecutedAmount decimal.Decimal `gorm:"-" json:"executed_amount"`

	// Rates captured by the store at creation time when the budget is
	// indexed. Display only ("rate at creation: X").
	CreationFXRate    *decimal.Decimal `gorm:"type:decimal(18,4)" json:"creation_fx_rate,omitempty"`
	CreationIndexRate *decimal.Decimal `gorm:"type:decimal(18,4)" json:"creation_index_rate,omitempty"`

	// History is append-only; entries are constructed by the store, never by
	// clients.
	History []HistoryEntry `gorm:"foreignKey:BudgetID" json:"history,omitempty"`
}

// GroupingCount returns how many of the mutually exclusive grouping
// associations are set. Subcategory does not count on its own: it qualifies
// a category.
func (b *Budget) GroupingCount() int {
	n := 0
	if b.CategoryID != nil {
		n++
	}
	if b.StageID != nil {
		n++
	}
	if b.ProviderID != nil {
		n++
	}
	return n
}
