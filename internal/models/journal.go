package models

import (
	"encoding/json"
	"time"
)

// JournalEntry is a private journaling entry. Entries are immutable once created.
type JournalEntry struct {
	ID      string
	OwnerID string
	Content string
	Mood    string
	Tags    []string
	Date    time.Time
}

type journalEntryJSON struct {
	ID      string   `json:"id"`
	OwnerID string   `json:"ownerId"`
	Content string   `json:"content"`
	Mood    string   `json:"mood"`
	Tags    []string `json:"tags"`
	Date    string   `json:"date"`
}

// MarshalJSON renders the entry with an ISO-8601 date and a non-null tags array.
func (e JournalEntry) MarshalJSON() ([]byte, error) {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(journalEntryJSON{
		ID:      e.ID,
		OwnerID: e.OwnerID,
		Content: e.Content,
		Mood:    e.Mood,
		Tags:    tags,
		Date:    FormatISO(e.Date),
	})
}
