package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	mt.Run("get streak missing", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB, clock)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.streaks", mtest.FirstBatch))

		rec, err := s.GetStreak(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Nil(mt, rec)
	})

	mt.Run("get streak", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB, clock)
		last := time.Date(2025, 1, 9, 18, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.streaks", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "days", Value: 3},
			{Key: "last_update", Value: last},
		}))

		rec, err := s.GetStreak(context.Background(), "u1")
		require.NoError(mt, err)
		require.NotNil(mt, rec)
		assert.Equal(mt, 3, rec.Days)
		require.NotNil(mt, rec.LastUpdate)
		assert.True(mt, last.Equal(*rec.LastUpdate))
	})

	mt.Run("put streak", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB, clock)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, s.PutStreak(context.Background(), "u1", 2, ServerTimestamp()))
	})

	mt.Run("put streak failure wraps ErrStorage", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB, clock)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad update",
		}))

		err := s.PutStreak(context.Background(), "u1", 2, ServerTimestamp())
		assert.ErrorIs(mt, err, ErrStorage)
	})

	mt.Run("list journal", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB, clock)
		newer := primitive.NewObjectID()
		older := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "db.journal_entries", mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: newer},
					{Key: "owner_id", Value: "u1"},
					{Key: "content", Value: "second"},
					{Key: "mood", Value: "calm"},
					{Key: "tags", Value: bson.A{"work"}},
					{Key: "date", Value: now},
				},
				bson.D{
					{Key: "_id", Value: older},
					{Key: "owner_id", Value: "u1"},
					{Key: "content", Value: "first"},
					{Key: "mood", Value: "sad"},
					{Key: "tags", Value: bson.A{}},
					{Key: "date", Value: now.Add(-time.Hour)},
				},
			),
			mtest.CreateCursorResponse(0, "db.journal_entries", mtest.NextBatch),
		)

		entries, err := CollectJournal(s.ListJournal(context.Background(), "u1", 50))
		require.NoError(mt, err)
		require.Len(mt, entries, 2)
		assert.Equal(mt, newer.Hex(), entries[0].ID)
		assert.Equal(mt, "second", entries[0].Content)
		assert.Equal(mt, []string{"work"}, entries[0].Tags)
		assert.Equal(mt, "first", entries[1].Content)
	})

	mt.Run("list journal twice", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB, clock)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.journal_entries", mtest.FirstBatch))

		seq := s.ListJournal(context.Background(), "u1", 50)
		_, err := CollectJournal(seq)
		require.NoError(mt, err)
		_, err = CollectJournal(seq)
		assert.ErrorIs(mt, err, ErrCursorConsumed)
	})

	mt.Run("create journal", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB, clock)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		entry, err := s.CreateJournal(context.Background(), "u1", "Had a good day", "happy", nil)
		require.NoError(mt, err)
		assert.NotEmpty(mt, entry.ID)
		assert.Equal(mt, "u1", entry.OwnerID)
		assert.Equal(mt, []string{}, entry.Tags)
		assert.True(mt, now.Equal(entry.Date))
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB, clock)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, s.EnsureIndexes(context.Background()))
	})
}
