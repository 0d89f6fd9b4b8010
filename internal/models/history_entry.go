package models

import (
	"github.com/shopspring/decimal"
)

// HistoryKind labels what kind of change a history entry records.
type HistoryKind string

const (
	// HistoryRevaluation replaces the budget's target amount/currency/policy.
	HistoryRevaluation HistoryKind = "revaluation"
	// HistorySupplement appends an additional charge without replacing the
	// original target.
	HistorySupplement HistoryKind = "supplement"
)

// HistoryEntry is one record in a budget's tamper-evident change history.
// Entries are constructed by the budget store, which captures the previous
// amount and currency itself; this subsystem never edits or removes them.
type HistoryEntry struct {
	Base
	BudgetID  string      `gorm:"type:uuid;not null;index" json:"budget_id"`
	Timestamp Timestamp   `gorm:"not null" json:"timestamp"`
	Kind      HistoryKind `gorm:"not null" json:"kind"`

	// Previous amount/currency are only present for revaluations.
	PreviousAmount   *decimal.Decimal `gorm:"type:decimal(18,2)" json:"previous_amount,omitempty"`
	PreviousCurrency *Currency        `json:"previous_currency,omitempty"`

	NewAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"new_amount"`
	NewCurrency Currency        `gorm:"not null" json:"new_currency"`

	Reason string `gorm:"not null" json:"reason"`
	Author string `gorm:"not null" json:"author"`
}
