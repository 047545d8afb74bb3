package store

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/serenify-engagement/internal/models"
)

// MemoryStore keeps everything in process memory. Server timestamps come
// from its clock.
type MemoryStore struct {
	mu       sync.Mutex
	clock    func() time.Time
	streaks  map[string]models.StreakRecord
	journals map[string][]models.JournalEntry
	writes   int
}

// NewMemoryStore creates an empty store. A nil clock means time.Now.
func NewMemoryStore(clock func() time.Time) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{
		clock:    clock,
		streaks:  make(map[string]models.StreakRecord),
		journals: make(map[string][]models.JournalEntry),
	}
}

func (m *MemoryStore) GetStreak(_ context.Context, subjectID string) (*models.StreakRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.streaks[subjectID]
	if !ok {
		return nil, nil
	}
	if rec.LastUpdate != nil {
		at := *rec.LastUpdate
		rec.LastUpdate = &at
	}
	return &rec, nil
}

func (m *MemoryStore) PutStreak(_ context.Context, subjectID string, days int, at Timestamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	when := at.Time()
	if at.IsServer() {
		when = m.clock()
	}
	when = when.UTC()
	m.streaks[subjectID] = models.StreakRecord{Days: days, LastUpdate: &when}
	m.writes++
	return nil
}

func (m *MemoryStore) ListJournal(_ context.Context, subjectID string, limit int) iter.Seq2[models.JournalEntry, error] {
	return oneShot(func(yield func(models.JournalEntry, error) bool) {
		m.mu.Lock()
		entries := slices.Clone(m.journals[subjectID])
		m.mu.Unlock()

		// Newest insertion first, then a stable sort keeps it first among equal dates.
		slices.Reverse(entries)
		slices.SortStableFunc(entries, func(a, b models.JournalEntry) int {
			return b.Date.Compare(a.Date)
		})
		for i, e := range entries {
			if i >= limit {
				return
			}
			e.Tags = slices.Clone(e.Tags)
			if !yield(e, nil) {
				return
			}
		}
	})
}

func (m *MemoryStore) CreateJournal(_ context.Context, subjectID, content, mood string, tags []string) (models.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := models.JournalEntry{
		ID:      uuid.NewString(),
		OwnerID: subjectID,
		Content: content,
		Mood:    mood,
		Tags:    slices.Clone(tags),
		Date:    m.clock().UTC(),
	}
	m.journals[subjectID] = append(m.journals[subjectID], entry)
	m.writes++

	entry.Tags = slices.Clone(entry.Tags)
	return entry, nil
}

// Writes returns how many mutating calls the store has served.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
