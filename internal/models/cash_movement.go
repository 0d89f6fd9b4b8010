package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashMovement is a real spend or income record attributed to a budget.
// Movements carry both the gross (tax-inclusive) and net (tax-exclusive)
// invoice totals so the executed amount can be projected under either
// comparison basis without re-reading invoices.
type CashMovement struct {
	Base
	OrgID    string `gorm:"type:uuid;not null;index" json:"org_id"`
	BudgetID string `gorm:"type:uuid;not null;index" json:"budget_id"`

	Kind        BudgetKind      `gorm:"not null" json:"kind"`
	GrossAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"gross_amount"`
	NetAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_amount"`
	Currency    Currency        `gorm:"not null" json:"currency"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Description string          `json:"description"`
}
