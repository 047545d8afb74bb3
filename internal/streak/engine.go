// Package streak decides how a user's day streak moves when they record engagement.
package streak

import (
	"time"

	"github.com/AnshRaj112/serenify-engagement/internal/models"
)

// Outcome is the kind of transition Advance produced.
type Outcome int

const (
	Started Outcome = iota
	Unchanged
	Continued
	Reset
)

func (o Outcome) String() string {
	switch o {
	case Started:
		return "started"
	case Unchanged:
		return "unchanged"
	case Continued:
		return "continued"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Message is the user-facing text for the outcome.
func (o Outcome) Message() string {
	switch o {
	case Started:
		return "Streak started!"
	case Unchanged:
		return "Already logged today"
	case Continued:
		return "Streak continued!"
	default:
		return "Streak reset!"
	}
}

// Persists reports whether the new state has to be written back.
func (o Outcome) Persists() bool {
	return o != Unchanged
}

// Advance computes the next streak length from the previous record and now.
// Days are compared as calendar dates in loc (UTC when nil): a check-in at
// 23:59 followed by one at 00:01 is a day transition.
//
// A gap of exactly one calendar day continues the streak. Any other
// non-zero gap, including a negative one caused by clock skew, resets it.
func Advance(prev *models.StreakRecord, now time.Time, loc *time.Location) (int, Outcome) {
	if prev == nil {
		return 1, Started
	}
	if prev.LastUpdate == nil {
		return 1, Reset
	}

	switch CalendarDaysBetween(*prev.LastUpdate, now, loc) {
	case 0:
		return prev.Days, Unchanged
	case 1:
		return prev.Days + 1, Continued
	default:
		return 1, Reset
	}
}

// CalendarDaysBetween returns the number of midnights in loc between the
// calendar date of from and that of to. Time of day is discarded, so the
// result is unaffected by DST shifts.
func CalendarDaysBetween(from, to time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	return civilDay(to.In(loc)) - civilDay(from.In(loc))
}

// civilDay maps the wall-clock date of t to a day number.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
