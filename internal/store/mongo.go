package store

import (
	"context"
	"errors"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/serenify-engagement/internal/models"
)

const (
	StreaksCollection = "streaks"
	JournalCollection = "journal_entries"
)

type streakDocument struct {
	SubjectID  string     `bson:"_id"`
	Days       int        `bson:"days"`
	LastUpdate *time.Time `bson:"last_update,omitempty"`
}

type journalDocument struct {
	ID      primitive.ObjectID `bson:"_id"`
	OwnerID string             `bson:"owner_id"`
	Content string             `bson:"content"`
	Mood    string             `bson:"mood"`
	Tags    []string           `bson:"tags"`
	Date    time.Time          `bson:"date"`
}

func (d journalDocument) toModel() models.JournalEntry {
	return models.JournalEntry{
		ID:      d.ID.Hex(),
		OwnerID: d.OwnerID,
		Content: d.Content,
		Mood:    d.Mood,
		Tags:    d.Tags,
		Date:    d.Date.UTC(),
	}
}

// MongoStore keeps one streak document per user and a flat journal
// collection keyed by owner. Server timestamps are written with $currentDate.
type MongoStore struct {
	streaks  *mongo.Collection
	journals *mongo.Collection
	clock    func() time.Time
}

// NewMongoStore creates a store on db. clock only approximates the creation
// date echoed by CreateJournal; a nil clock means time.Now.
func NewMongoStore(db *mongo.Database, clock func() time.Time) *MongoStore {
	if clock == nil {
		clock = time.Now
	}
	return &MongoStore{
		streaks:  db.Collection(StreaksCollection),
		journals: db.Collection(JournalCollection),
		clock:    clock,
	}
}

// EnsureIndexes configures the index backing newest-first journal listing.
// Called on startup after Mongo has connected.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.journals.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "date", Value: -1},
		},
		Options: options.Index().SetName("idx_owner_date"),
	})
	return err
}

func (s *MongoStore) GetStreak(ctx context.Context, subjectID string) (*models.StreakRecord, error) {
	var doc streakDocument
	err := s.streaks.FindOne(ctx, bson.M{"_id": subjectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get streak", err)
	}

	rec := &models.StreakRecord{Days: doc.Days}
	if doc.LastUpdate != nil {
		at := doc.LastUpdate.UTC()
		rec.LastUpdate = &at
	}
	return rec, nil
}

func (s *MongoStore) PutStreak(ctx context.Context, subjectID string, days int, at Timestamp) error {
	set := bson.M{"days": days}
	update := bson.M{"$set": set}
	if at.IsServer() {
		update["$currentDate"] = bson.M{"last_update": true}
	} else {
		set["last_update"] = at.Time().UTC()
	}

	_, err := s.streaks.UpdateOne(ctx, bson.M{"_id": subjectID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return storageErr("put streak", err)
	}
	return nil
}

func (s *MongoStore) ListJournal(ctx context.Context, subjectID string, limit int) iter.Seq2[models.JournalEntry, error] {
	return oneShot(func(yield func(models.JournalEntry, error) bool) {
		opts := options.Find().
			SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(int64(limit))

		cur, err := s.journals.Find(ctx, bson.M{"owner_id": subjectID}, opts)
		if err != nil {
			yield(models.JournalEntry{}, storageErr("list journal", err))
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var doc journalDocument
			if err := cur.Decode(&doc); err != nil {
				yield(models.JournalEntry{}, storageErr("decode journal entry", err))
				return
			}
			if !yield(doc.toModel(), nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(models.JournalEntry{}, storageErr("list journal", err))
		}
	})
}

// CreateJournal upserts a fresh document so that the date can be assigned by
// the server. That value is not readable until the next read, so the
// returned entry carries the store clock's approximation.
func (s *MongoStore) CreateJournal(ctx context.Context, subjectID, content, mood string, tags []string) (models.JournalEntry, error) {
	if tags == nil {
		tags = []string{}
	}
	id := primitive.NewObjectID()
	update := bson.M{
		"$set": bson.M{
			"owner_id": subjectID,
			"content":  content,
			"mood":     mood,
			"tags":     tags,
		},
		"$currentDate": bson.M{"date": true},
	}

	if _, err := s.journals.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true)); err != nil {
		return models.JournalEntry{}, storageErr("create journal entry", err)
	}

	return models.JournalEntry{
		ID:      id.Hex(),
		OwnerID: subjectID,
		Content: content,
		Mood:    mood,
		Tags:    tags,
		Date:    s.clock().UTC(),
	}, nil
}
