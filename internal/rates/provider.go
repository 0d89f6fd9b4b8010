// Package rates fetches the reference rates used for indexation previews:
// the informal ("blue") FX rate and the construction cost index (CAC).
// Rates are display-only inputs; the budget store performs the authoritative
// conversion, so a failed fetch degrades the preview but never blocks a
// lifecycle operation.
package rates

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Provider exposes the two independent read operations of the rate source.
// Each returns a positive rate or an error meaning "unavailable".
type Provider interface {
	// LatestForeignRate returns the most recent peso price of one dollar.
	LatestForeignRate(ctx context.Context) (decimal.Decimal, error)
	// LatestIndexRate returns the most recent construction index value.
	LatestIndexRate(ctx context.Context) (decimal.Decimal, error)
}

// State is the tri-state condition of a rate reading. Callers must render
// Loading and Unavailable distinctly; a Reading in either state has no
// usable rate and must never be treated as zero.
type State int

const (
	StateLoading State = iota
	StateUnavailable
	StateReady
)

// String returns the state's wire label.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnavailable:
		return "unavailable"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Reading is one rate observation.
type Reading struct {
	State     State
	Rate      decimal.Decimal
	FetchedAt time.Time
}

// Ready builds a usable reading.
func Ready(rate decimal.Decimal, at time.Time) Reading {
	return Reading{State: StateReady, Rate: rate, FetchedAt: at}
}

// Unavailable builds a failed reading.
func Unavailable() Reading { return Reading{State: StateUnavailable} }

// Snapshot is the latest known pair of readings. The two sub-fetches are
// independent: one may be ready while the other is unavailable.
type Snapshot struct {
	Foreign Reading
	Index   Reading
}
