package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ConnectPostgres opens the pool and creates the engagement tables.
func ConnectPostgres(ctx context.Context, postgresURI string, logger logrus.FieldLogger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("connected to PostgreSQL")

	if err := InitPostgresTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("PostgreSQL tables initialized")
	return db, nil
}

// InitPostgresTables creates the streak and journal tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS streaks (
			subject_id VARCHAR(255) PRIMARY KEY,
			days INTEGER NOT NULL DEFAULT 0 CHECK (days >= 0),
			last_update TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS journal_entries (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			owner_id VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			mood VARCHAR(100) NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_journal_entries_owner_date ON journal_entries(owner_id, date DESC)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
