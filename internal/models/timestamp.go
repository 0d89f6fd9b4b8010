package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp wraps time.Time and accepts the two wire shapes the budget store
// is known to emit: an RFC 3339 string or a Unix epoch in milliseconds. Both
// normalize to the same absolute instant so history ordering is stable
// regardless of which form an entry arrived in.
type Timestamp struct {
	time.Time
}

// NewTimestamp builds a Timestamp from a time.Time.
func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

// UnmarshalJSON accepts either an RFC 3339 string or a number of epoch
// milliseconds.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		ts.Time = t
		return nil
	}
	var millis int64
	if err := json.Unmarshal(data, &millis); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	ts.Time = time.UnixMilli(millis).UTC()
	return nil
}

// MarshalJSON always emits RFC 3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

// GormDataType tells the migrator to store Timestamp as a plain time column.
func (Timestamp) GormDataType() string {
	return "time"
}

// Value implements driver.Valuer for database storage.
func (ts Timestamp) Value() (driver.Value, error) {
	return ts.Time, nil
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		ts.Time = v
		return nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return fmt.Errorf("cannot scan %q into Timestamp: %w", v, err)
		}
		ts.Time = t
		return nil
	case []byte:
		return ts.Scan(string(v))
	case int64:
		ts.Time = time.UnixMilli(v).UTC()
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", src)
	}
}
