package budget

import (
	"github.com/shopspring/decimal"

	"obralink/internal/models"
	"obralink/internal/money"
	"obralink/internal/rates"
)

// PreviewState is the condition of an indexation preview.
type PreviewState int

const (
	// PreviewNone: the budget is not indexed, no preview is produced.
	PreviewNone PreviewState = iota
	// PreviewLoading: the relevant rate has not been fetched yet.
	PreviewLoading
	// PreviewUnavailable: the rate fetch failed; callers must render a
	// distinct "rate unavailable" state, never a stale or zero value.
	PreviewUnavailable
	// PreviewReady: Amount holds the equivalent value.
	PreviewReady
)

// String returns the state's wire label.
func (s PreviewState) String() string {
	switch s {
	case PreviewNone:
		return "none"
	case PreviewLoading:
		return "loading"
	case PreviewUnavailable:
		return "unavailable"
	case PreviewReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Preview is the human-readable equivalent of a pending peso amount under
// an indexation mode. It is derived from client-held state and the latest
// rate reading only; it is never submitted as the stored amount.
type Preview struct {
	State  PreviewState
	Amount money.Amount
}

// CalculatePreview derives the equivalent of a pending peso amount. For CAC
// indexation the result is in index units (amount / index rate); for USD
// indexation it is in dollars (amount / fx rate).
func CalculatePreview(pesoAmount decimal.Decimal, mode models.IndexationMode, snap rates.Snapshot) Preview {
	var (
		reading rates.Reading
		unit    money.Unit
	)

	switch mode {
	case models.IndexationCAC:
		reading = snap.Index
		unit = money.UnitIndex
	case models.IndexationUSD:
		reading = snap.Foreign
		unit = money.UnitDollars
	default:
		return Preview{State: PreviewNone}
	}

	switch reading.State {
	case rates.StateLoading:
		return Preview{State: PreviewLoading}
	case rates.StateReady:
		if !reading.Rate.IsPositive() {
			return Preview{State: PreviewUnavailable}
		}
		value := pesoAmount.DivRound(reading.Rate, 2)
		return Preview{State: PreviewReady, Amount: money.Amount{Value: value, Unit: unit}}
	default:
		return Preview{State: PreviewUnavailable}
	}
}
