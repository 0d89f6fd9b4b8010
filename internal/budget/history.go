package budget

import (
	"sort"
	"time"

	"obralink/internal/models"
	"obralink/internal/money"
)

// Human labels for the two kinds of history entries. They are rendered
// distinctly so readers can tell a replacement from an additional charge.
const (
	labelRevaluation = "Revalorización"
	labelSupplement  = "Adicional"
)

// HistoryLine is one display-ready row of a budget's change history.
type HistoryLine struct {
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Previous string    `json:"previous,omitempty"`
	New      string    `json:"new"`
	Reason   string    `json:"reason"`
	Author   string    `json:"author"`
}

// SortedHistory returns a copy of the entries ordered newest first. Entries
// may arrive in any order from the store, so callers re-sort on every
// render; the sort is stable, so sorting twice yields the same order.
func SortedHistory(entries []models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Time.After(out[j].Timestamp.Time)
	})
	return out
}

// RenderHistory produces the display-ordered audit view. Amounts are
// formatted per currency; dollar values are labeled explicitly so they are
// never conflated with pesos.
func RenderHistory(entries []models.HistoryEntry) []HistoryLine {
	sorted := SortedHistory(entries)
	lines := make([]HistoryLine, 0, len(sorted))

	for _, e := range sorted {
		line := HistoryLine{
			Date:   e.Timestamp.Time,
			New:    money.Amount{Value: e.NewAmount, Unit: unitForCurrency(e.NewCurrency)}.Format(),
			Reason: e.Reason,
			Author: e.Author,
		}
		switch e.Kind {
		case models.HistorySupplement:
			line.Label = labelSupplement
		default:
			line.Label = labelRevaluation
		}
		if e.PreviousAmount != nil && e.PreviousCurrency != nil {
			line.Previous = money.Amount{Value: *e.PreviousAmount, Unit: unitForCurrency(*e.PreviousCurrency)}.Format()
		}
		lines = append(lines, line)
	}

	return lines
}

func unitForCurrency(c models.Currency) money.Unit {
	if c == models.CurrencyUSD {
		return money.UnitDollars
	}
	return money.UnitPesos
}
