package engine

import (
	"sort"
	"time"

	"github.com/coursepulse/coursepulse/internal/eventlog"
)

// sessionMinutes reconstructs sessions from one user's events and returns
// the total estimated minutes. Events are sorted by timestamp; a gap longer
// than timeout starts a new session. Each session contributes its span plus
// the timeout, compensating for the unobserved tail after the last event.
func sessionMinutes(events []eventlog.Event, timeout time.Duration) float64 {
	if len(events) == 0 {
		return 0
	}

	sorted := make([]eventlog.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var total time.Duration
	sessionStart := sorted[0].Timestamp
	prev := sorted[0].Timestamp

	for _, ev := range sorted[1:] {
		if ev.Timestamp.Sub(prev) > timeout {
			total += prev.Sub(sessionStart) + timeout
			sessionStart = ev.Timestamp
		}
		prev = ev.Timestamp
	}
	total += prev.Sub(sessionStart) + timeout

	return total.Minutes()
}

// timeOnPlatform holds the weekly session-time aggregates.
type timeOnPlatform struct {
	studentMedian float64
	teacherMedian float64
	allMedian     float64
	total         float64
}

// analyzeTime reconstructs per-user sessions for the week and reports the
// median minutes split by student vs teacher, the all-user median, and the
// total. Teachers stay in the all-user figures; the split only separates
// the medians.
func (e *Engine) analyzeTime(byUser map[string][]eventlog.Event) timeOnPlatform {
	var students, teachers, all []float64

	for userID, events := range byUser {
		minutes := sessionMinutes(events, e.settings.SessionTimeout)
		all = append(all, minutes)
		if e.roster.IsTeacher(userID) {
			teachers = append(teachers, minutes)
		} else {
			students = append(students, minutes)
		}
	}

	t := timeOnPlatform{
		studentMedian: median(students),
		teacherMedian: median(teachers),
		allMedian:     median(all),
	}
	for _, m := range all {
		t.total += m
	}
	return t
}

// median returns the median of the values, or 0 for an empty slice.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
