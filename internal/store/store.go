// Package store persists streak records and journal entries.
package store

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/AnshRaj112/serenify-engagement/internal/models"
)

var (
	// ErrStorage wraps every backend failure. Callers map it to a generic
	// storage-failure response; the cause stays attached for logging.
	ErrStorage = errors.New("storage failure")

	// ErrCursorConsumed is yielded when a journal listing is iterated twice.
	ErrCursorConsumed = errors.New("journal cursor already consumed")
)

// EngagementStore is the only write path for streak and journal state.
type EngagementStore interface {
	// GetStreak returns nil, nil when the user has never recorded a streak.
	GetStreak(ctx context.Context, subjectID string) (*models.StreakRecord, error)
	// PutStreak upserts the user's streak, stamping last update with at.
	PutStreak(ctx context.Context, subjectID string, days int, at Timestamp) error
	// ListJournal lazily reads at most limit entries, newest first. The
	// sequence can be ranged over once.
	ListJournal(ctx context.Context, subjectID string, limit int) iter.Seq2[models.JournalEntry, error]
	// CreateJournal stores a new entry and returns it with its id and date.
	CreateJournal(ctx context.Context, subjectID, content, mood string, tags []string) (models.JournalEntry, error)
}

// Timestamp is the value written as a record's last-update instant. The
// server sentinel is resolved by the backend at write time and only becomes
// readable on the next read.
type Timestamp struct {
	at     time.Time
	server bool
}

// ServerTimestamp asks the backend to assign its own write time.
func ServerTimestamp() Timestamp { return Timestamp{server: true} }

// At uses an explicit instant.
func At(t time.Time) Timestamp { return Timestamp{at: t} }

// IsServer reports whether t is the server-assigned sentinel.
func (t Timestamp) IsServer() bool { return t.server }

// Time is the explicit instant; zero for the server sentinel.
func (t Timestamp) Time() time.Time { return t.at }

// CollectJournal drains a listing into a slice. The result is never nil.
func CollectJournal(seq iter.Seq2[models.JournalEntry, error]) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0)
	for entry, err := range seq {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// oneShot makes seq non-restartable.
func oneShot(seq iter.Seq2[models.JournalEntry, error]) iter.Seq2[models.JournalEntry, error] {
	var used atomic.Bool
	return func(yield func(models.JournalEntry, error) bool) {
		if used.Swap(true) {
			yield(models.JournalEntry{}, ErrCursorConsumed)
			return
		}
		seq(yield)
	}
}
