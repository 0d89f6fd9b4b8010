package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshalJSON(t *testing.T) {
	t.Run("rfc3339_string", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"2026-03-01T12:00:00Z"`), &ts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		if !ts.Time.Equal(want) {
			t.Errorf("expected %s, got %s", want, ts.Time)
		}
	})

	t.Run("epoch_millis", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`1772366400000`), &ts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.UnixMilli(1772366400000).UTC()
		if !ts.Time.Equal(want) {
			t.Errorf("expected %s, got %s", want, ts.Time)
		}
	})

	t.Run("both_forms_same_instant", func(t *testing.T) {
		instant := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		var fromString, fromMillis Timestamp
		if err := json.Unmarshal([]byte(`"`+instant.Format(time.RFC3339Nano)+`"`), &fromString); err != nil {
			t.Fatalf("string form: %v", err)
		}
		millis, _ := json.Marshal(instant.UnixMilli())
		if err := json.Unmarshal(millis, &fromMillis); err != nil {
			t.Fatalf("millis form: %v", err)
		}

		if !fromString.Time.Equal(fromMillis.Time) {
			t.Errorf("forms disagree: %s vs %s", fromString.Time, fromMillis.Time)
		}
	})

	t.Run("null_is_zero", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`null`), &ts); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ts.Time.IsZero() {
			t.Errorf("expected zero time, got %s", ts.Time)
		}
	})

	t.Run("garbage_rejected", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"not a date"`), &ts); err == nil {
			t.Fatal("expected error for malformed timestamp")
		}
	})
}

func TestTimestampMarshalJSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	out, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `"2026-03-01T12:00:00Z"` {
		t.Errorf("expected RFC 3339 output, got %s", out)
	}
}
