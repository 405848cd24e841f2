// Package eventlog discovers and parses weekly interaction-event exports.
package eventlog

import "time"

// Event is one raw interaction row from a weekly export.
type Event struct {
	// UserID identifies the acting user.
	UserID string

	// Name is the event name, lower-cased for matching.
	Name string

	// Tab is the optional feature tag attached to the event.
	Tab string

	// Concept is the optional free-text concept tag.
	Concept string

	// Timestamp is the absolute event time.
	Timestamp time.Time
}

// Week is one eligible weekly snapshot: its 1-based week number relative to
// the semester start, its calendar range, and the surviving event rows.
// Immutable once loaded.
type Week struct {
	Number int
	From   time.Time
	To     time.Time
	Events []Event
}

// File describes a discovered weekly export before parsing.
type File struct {
	Path string
	From time.Time
	To   time.Time
}

// WeekNumber computes the 1-based week number of the file's start date
// relative to the semester start.
func (f File) WeekNumber(semesterStart time.Time) int {
	days := int(f.From.Sub(semesterStart).Hours() / 24)
	return days/7 + 1
}
