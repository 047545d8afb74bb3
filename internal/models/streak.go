package models

import (
	"encoding/json"
	"time"
)

// ISO8601 is the wire layout for instants: UTC with millisecond precision.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// FormatISO formats t in UTC using the ISO8601 layout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISO8601)
}

// StreakRecord is the per-user streak state.
// Days is 0 exactly when LastUpdate is nil.
type StreakRecord struct {
	Days       int
	LastUpdate *time.Time
}

type streakRecordJSON struct {
	Days       int     `json:"days"`
	LastUpdate *string `json:"lastUpdate"`
}

// MarshalJSON renders lastUpdate as an ISO-8601 string or null.
func (s StreakRecord) MarshalJSON() ([]byte, error) {
	out := streakRecordJSON{Days: s.Days}
	if s.LastUpdate != nil {
		v := FormatISO(*s.LastUpdate)
		out.LastUpdate = &v
	}
	return json.Marshal(out)
}
