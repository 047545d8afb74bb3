package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/serenify-engagement/internal/auth"
	"github.com/AnshRaj112/serenify-engagement/internal/metrics"
	"github.com/AnshRaj112/serenify-engagement/internal/models"
	"github.com/AnshRaj112/serenify-engagement/internal/store"
	"github.com/AnshRaj112/serenify-engagement/internal/streak"
	"github.com/AnshRaj112/serenify-engagement/pkg/utils"
)

const (
	defaultJournalLimit = 50
	defaultStoreTimeout = 5 * time.Second
)

// EngagementHandler serves the streak and journal endpoints. Every route
// must sit behind middleware.RequireAuth.
type EngagementHandler struct {
	store        store.EngagementStore
	clock        func() time.Time
	loc          *time.Location
	logger       logrus.FieldLogger
	validate     *validator.Validate
	storeTimeout time.Duration
}

type Option func(*EngagementHandler)

// WithClock sets the clock used for streak decisions.
func WithClock(clock func() time.Time) Option {
	return func(h *EngagementHandler) { h.clock = clock }
}

// WithLocation sets the zone whose calendar days bound a streak.
func WithLocation(loc *time.Location) Option {
	return func(h *EngagementHandler) { h.loc = loc }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *EngagementHandler) { h.logger = logger }
}

func WithStoreTimeout(d time.Duration) Option {
	return func(h *EngagementHandler) { h.storeTimeout = d }
}

func NewEngagementHandler(s store.EngagementStore, opts ...Option) *EngagementHandler {
	h := &EngagementHandler{
		store:        s,
		clock:        time.Now,
		loc:          time.UTC,
		storeTimeout: defaultStoreTimeout,
		validate:     newValidator(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		h.logger = l
	}
	return h
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// owner resolves the caller and the owner id it may act on. Resources are
// self-scoped, so the owner is always the caller's own subject.
func (h *EngagementHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		unauthorized(w)
		return "", false
	}
	ownerID := p.SubjectID()
	if !auth.Authorize(p, ownerID) {
		unauthorized(w)
		return "", false
	}
	return ownerID, true
}

// storeContext keeps store calls running after the client disconnects.
func (h *EngagementHandler) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), h.storeTimeout)
}

func (h *EngagementHandler) storageFailure(w http.ResponseWriter, op, subjectID, message string, err error) {
	metrics.RecordStorageError(op)
	utils.LogError(h.logger, message, err, logrus.Fields{
		"operation":  op,
		"subject_id": subjectID,
	})
	writeError(w, http.StatusInternalServerError, message)
}

// GetStreak handles GET /streak.
func (h *EngagementHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	rec, err := h.store.GetStreak(ctx, ownerID)
	if err != nil {
		h.storageFailure(w, "get_streak", ownerID, "Failed to fetch streak", err)
		return
	}
	if rec == nil {
		rec = &models.StreakRecord{}
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: rec})
}

// RecordStreak handles POST /streak. A second call on the same calendar day
// reports the current streak without writing.
func (h *EngagementHandler) RecordStreak(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	prev, err := h.store.GetStreak(ctx, ownerID)
	if err != nil {
		h.storageFailure(w, "get_streak", ownerID, "Failed to update streak", err)
		return
	}

	now := h.clock()
	days, outcome := streak.Advance(prev, now, h.loc)

	result := models.StreakRecord{Days: days}
	if outcome.Persists() {
		if err := h.store.PutStreak(ctx, ownerID, days, store.ServerTimestamp()); err != nil {
			h.storageFailure(w, "put_streak", ownerID, "Failed to update streak", err)
			return
		}
		result.LastUpdate = h.writtenAt(ctx, ownerID, now)
	} else {
		result.LastUpdate = prev.LastUpdate
	}

	metrics.RecordStreakTransition(outcome.String())
	h.logger.WithFields(logrus.Fields{
		"subject_id": ownerID,
		"outcome":    outcome.String(),
		"days":       days,
	}).Debug("streak recorded")

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Data:    result,
		Message: outcome.Message(),
	})
}

// writtenAt reads back the server-assigned update time, falling back to now
// when the read fails.
func (h *EngagementHandler) writtenAt(ctx context.Context, ownerID string, now time.Time) *time.Time {
	rec, err := h.store.GetStreak(ctx, ownerID)
	if err == nil && rec != nil && rec.LastUpdate != nil {
		return rec.LastUpdate
	}
	if err != nil {
		h.logger.WithError(err).WithField("subject_id", ownerID).Warn("streak read-back failed")
	}
	at := now.UTC()
	return &at
}

// ListJournal handles GET /journal?limit=n.
func (h *EngagementHandler) ListJournal(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	entries, err := store.CollectJournal(h.store.ListJournal(ctx, ownerID, limit))
	if err != nil {
		h.storageFailure(w, "list_journal", ownerID, "Failed to fetch journal entries", err)
		return
	}

	count := len(entries)
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: entries, Count: &count})
}

// CreateJournal handles POST /journal.
func (h *EngagementHandler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	input, err := h.decodeJournal(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	entry, err := h.store.CreateJournal(ctx, ownerID, input.Content, input.Mood, input.Tags)
	if err != nil {
		h.storageFailure(w, "create_journal", ownerID, "Failed to create journal entry", err)
		return
	}

	metrics.RecordJournalEntryCreated()
	writeJSON(w, http.StatusCreated, successResponse{
		Success: true,
		Data:    entry,
		Message: "Journal entry created successfully",
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultJournalLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return n, nil
}
