package store

import (
	"context"
	"database/sql"
	"errors"
	"iter"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/AnshRaj112/serenify-engagement/internal/models"
)

type streakRow struct {
	Days       int          `db:"days"`
	LastUpdate sql.NullTime `db:"last_update"`
}

type journalRow struct {
	ID      string         `db:"id"`
	OwnerID string         `db:"owner_id"`
	Content string         `db:"content"`
	Mood    string         `db:"mood"`
	Tags    pq.StringArray `db:"tags"`
	Date    time.Time      `db:"date"`
}

func (r journalRow) toModel() models.JournalEntry {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return models.JournalEntry{
		ID:      r.ID,
		OwnerID: r.OwnerID,
		Content: r.Content,
		Mood:    r.Mood,
		Tags:    tags,
		Date:    r.Date.UTC(),
	}
}

// PostgresStore persists to the streaks and journal_entries tables created
// by database.InitPostgresTables. Server timestamps use NOW().
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetStreak(ctx context.Context, subjectID string) (*models.StreakRecord, error) {
	var row streakRow
	err := s.db.GetContext(ctx, &row,
		`SELECT days, last_update FROM streaks WHERE subject_id = $1`, subjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get streak", err)
	}

	rec := &models.StreakRecord{Days: row.Days}
	if row.LastUpdate.Valid {
		at := row.LastUpdate.Time.UTC()
		rec.LastUpdate = &at
	}
	return rec, nil
}

func (s *PostgresStore) PutStreak(ctx context.Context, subjectID string, days int, at Timestamp) error {
	var err error
	if at.IsServer() {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO streaks (subject_id, days, last_update)
			VALUES ($1, $2, NOW())
			ON CONFLICT (subject_id) DO UPDATE
			SET days = EXCLUDED.days, last_update = EXCLUDED.last_update`,
			subjectID, days)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO streaks (subject_id, days, last_update)
			VALUES ($1, $2, $3)
			ON CONFLICT (subject_id) DO UPDATE
			SET days = EXCLUDED.days, last_update = EXCLUDED.last_update`,
			subjectID, days, at.Time().UTC())
	}
	if err != nil {
		return storageErr("put streak", err)
	}
	return nil
}

func (s *PostgresStore) ListJournal(ctx context.Context, subjectID string, limit int) iter.Seq2[models.JournalEntry, error] {
	return oneShot(func(yield func(models.JournalEntry, error) bool) {
		rows, err := s.db.QueryxContext(ctx, `
			SELECT id, owner_id, content, mood, tags, date
			FROM journal_entries
			WHERE owner_id = $1
			ORDER BY date DESC, id DESC
			LIMIT $2`,
			subjectID, limit)
		if err != nil {
			yield(models.JournalEntry{}, storageErr("list journal", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row journalRow
			if err := rows.StructScan(&row); err != nil {
				yield(models.JournalEntry{}, storageErr("scan journal entry", err))
				return
			}
			if !yield(row.toModel(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.JournalEntry{}, storageErr("list journal", err))
		}
	})
}

func (s *PostgresStore) CreateJournal(ctx context.Context, subjectID, content, mood string, tags []string) (models.JournalEntry, error) {
	if tags == nil {
		tags = []string{}
	}

	entry := models.JournalEntry{
		OwnerID: subjectID,
		Content: content,
		Mood:    mood,
		Tags:    tags,
	}
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO journal_entries (owner_id, content, mood, tags, date)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, date`,
		subjectID, content, mood, pq.Array(tags)).Scan(&entry.ID, &entry.Date)
	if err != nil {
		return models.JournalEntry{}, storageErr("create journal entry", err)
	}
	entry.Date = entry.Date.UTC()
	return entry, nil
}
