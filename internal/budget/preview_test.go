package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"obralink/internal/models"
	"obralink/internal/rates"
)

func TestCalculatePreview(t *testing.T) {
	t.Run("cac_ready", func(t *testing.T) {
		snap := rates.Snapshot{
			Index: rates.Ready(decimal.NewFromInt(1000), time.Now()),
		}
		p := CalculatePreview(decimal.NewFromInt(10000), models.IndexationCAC, snap)

		if p.State != PreviewReady {
			t.Fatalf("expected ready, got %s", p.State)
		}
		if !p.Amount.Value.Equal(decimal.NewFromInt(10)) {
			t.Errorf("expected 10 index units, got %s", p.Amount.Value)
		}
		if p.Amount.Format() != "10.00 CAC" {
			t.Errorf("expected '10.00 CAC', got %q", p.Amount.Format())
		}
	})

	t.Run("usd_ready", func(t *testing.T) {
		snap := rates.Snapshot{
			Foreign: rates.Ready(decimal.NewFromInt(1200), time.Now()),
		}
		p := CalculatePreview(decimal.NewFromInt(600000), models.IndexationUSD, snap)

		if p.State != PreviewReady {
			t.Fatalf("expected ready, got %s", p.State)
		}
		if !p.Amount.Value.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected 500 dollars, got %s", p.Amount.Value)
		}
	})

	t.Run("rounds_to_two_decimals", func(t *testing.T) {
		snap := rates.Snapshot{
			Index: rates.Ready(decimal.NewFromInt(3), time.Now()),
		}
		p := CalculatePreview(decimal.NewFromInt(100), models.IndexationCAC, snap)

		if p.Amount.Value.String() != "33.33" {
			t.Errorf("expected 33.33, got %s", p.Amount.Value)
		}
	})

	t.Run("no_indexation_no_preview", func(t *testing.T) {
		snap := rates.Snapshot{
			Index:   rates.Ready(decimal.NewFromInt(1000), time.Now()),
			Foreign: rates.Ready(decimal.NewFromInt(1200), time.Now()),
		}
		p := CalculatePreview(decimal.NewFromInt(10000), models.IndexationNone, snap)

		if p.State != PreviewNone {
			t.Errorf("expected none, got %s", p.State)
		}
	})

	t.Run("loading", func(t *testing.T) {
		snap := rates.Snapshot{Index: rates.Reading{State: rates.StateLoading}}
		p := CalculatePreview(decimal.NewFromInt(10000), models.IndexationCAC, snap)

		if p.State != PreviewLoading {
			t.Errorf("expected loading, got %s", p.State)
		}
	})

	t.Run("unavailable_never_a_number", func(t *testing.T) {
		snap := rates.Snapshot{Index: rates.Unavailable()}
		p := CalculatePreview(decimal.NewFromInt(10000), models.IndexationCAC, snap)

		if p.State != PreviewUnavailable {
			t.Fatalf("expected unavailable, got %s", p.State)
		}
		if !p.Amount.Value.IsZero() {
			t.Errorf("unavailable preview must carry no value, got %s", p.Amount.Value)
		}
	})

	t.Run("zero_rate_unavailable", func(t *testing.T) {
		snap := rates.Snapshot{Index: rates.Ready(decimal.Zero, time.Now())}
		p := CalculatePreview(decimal.NewFromInt(10000), models.IndexationCAC, snap)

		if p.State != PreviewUnavailable {
			t.Errorf("expected unavailable for zero rate, got %s", p.State)
		}
	})

	t.Run("independent_readings", func(t *testing.T) {
		// A failed index fetch must not degrade the fx preview.
		snap := rates.Snapshot{
			Index:   rates.Unavailable(),
			Foreign: rates.Ready(decimal.NewFromInt(1200), time.Now()),
		}
		if p := CalculatePreview(decimal.NewFromInt(1200), models.IndexationUSD, snap); p.State != PreviewReady {
			t.Errorf("expected fx preview ready, got %s", p.State)
		}
		if p := CalculatePreview(decimal.NewFromInt(1200), models.IndexationCAC, snap); p.State != PreviewUnavailable {
			t.Errorf("expected cac preview unavailable, got %s", p.State)
		}
	})
}
