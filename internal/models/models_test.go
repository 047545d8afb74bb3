package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakRecordJSON(t *testing.T) {
	b, err := json.Marshal(StreakRecord{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"days":0,"lastUpdate":null}`, string(b))

	at := time.Date(2024, 3, 9, 23, 59, 1, 250_000_000, time.FixedZone("X", 2*3600))
	b, err = json.Marshal(StreakRecord{Days: 4, LastUpdate: &at})
	require.NoError(t, err)
	assert.JSONEq(t, `{"days":4,"lastUpdate":"2024-03-09T21:59:01.250Z"}`, string(b))
}

func TestJournalEntryJSON(t *testing.T) {
	e := JournalEntry{
		ID:      "abc",
		OwnerID: "user-1",
		Content: "Felt okay today",
		Mood:    "neutral",
		Date:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id":"abc","ownerId":"user-1","content":"Felt okay today",
		"mood":"neutral","tags":[],"date":"2024-01-02T03:04:05.000Z"
	}`, string(b))
}
