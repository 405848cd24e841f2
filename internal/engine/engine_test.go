package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/coursepulse/coursepulse/internal/eventlog"
	"github.com/coursepulse/coursepulse/internal/roster"
)

var testSemesterStart = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func testSettings() Settings {
	s := DefaultSettings()
	s.Course = "cs101"
	s.SemesterStart = testSemesterStart
	s.SemesterEnd = time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC)
	return s
}

func testEngine() *Engine {
	return New(testSettings(), roster.New(nil, nil, nil))
}

// testWeek builds a week snapshot with the standard semester calendar.
func testWeek(n int, events ...eventlog.Event) eventlog.Week {
	from := testSemesterStart.AddDate(0, 0, (n-1)*7)
	return eventlog.Week{
		Number: n,
		From:   from,
		To:     from.AddDate(0, 0, 6),
		Events: events,
	}
}

// quizEvent builds one quiz event for a user at the given minute offset
// into the week.
func quizEvent(user string, week, minute int) eventlog.Event {
	from := testSemesterStart.AddDate(0, 0, (week-1)*7)
	return eventlog.Event{
		UserID:    user,
		Name:      "quiz_started",
		Timestamp: from.Add(time.Duration(minute) * time.Minute),
	}
}

func TestProcessWeek_EmptyWeek(t *testing.T) {
	e := testEngine()
	m := e.ProcessWeek(testWeek(1))

	if m.WAUCount != 0 {
		t.Errorf("WAUCount = %d, want 0", m.WAUCount)
	}
	if m.WAUPctEnrolled != 0 || m.WAUPctCumulative != 0 {
		t.Errorf("percentages = %.1f / %.1f, want 0 / 0", m.WAUPctEnrolled, m.WAUPctCumulative)
	}
	if m.ConsistentPct != 0 || m.ModeratePct != 0 || m.SporadicPct != 0 {
		t.Errorf("persistence buckets nonzero on empty cohort: %.1f %.1f %.1f",
			m.ConsistentPct, m.ModeratePct, m.SporadicPct)
	}
}

func TestProcessWeek_WAUBounds(t *testing.T) {
	e := testEngine()

	for n := 1; n <= 3; n++ {
		var events []eventlog.Event
		for i := 0; i < n*3; i++ {
			events = append(events, quizEvent(fmt.Sprintf("u%d_%d", n, i), n, i))
		}
		m := e.ProcessWeek(testWeek(n, events...))

		if m.WAUPctEnrolled < 0 || m.WAUPctEnrolled > 100 {
			t.Errorf("week %d: WAUPctEnrolled = %.1f, want within [0,100]", n, m.WAUPctEnrolled)
		}
		if m.WAUCount > m.CumulativeActiveUsers {
			t.Errorf("week %d: WAUCount %d exceeds cumulative %d", n, m.WAUCount, m.CumulativeActiveUsers)
		}
		if m.CumulativeActiveUsers > m.TotalEnrolled {
			t.Errorf("week %d: cumulative %d exceeds enrolled %d (fallback policy)",
				n, m.CumulativeActiveUsers, m.TotalEnrolled)
		}
	}
}

func TestProcessWeek_RosterEnrollment(t *testing.T) {
	r := roster.New(map[string]int{"cs101": 50}, nil, nil)
	e := New(testSettings(), r)

	m := e.ProcessWeek(testWeek(1,
		quizEvent("a", 1, 0),
		quizEvent("b", 1, 5),
	))

	if m.TotalEnrolled != 50 {
		t.Errorf("TotalEnrolled = %d, want 50 from roster", m.TotalEnrolled)
	}
	if want := 4.0; m.WAUPctEnrolled != want {
		t.Errorf("WAUPctEnrolled = %.1f, want %.1f", m.WAUPctEnrolled, want)
	}
}

func TestRun_ThreeWeekScenario(t *testing.T) {
	// Three sequential weeks, each introducing 10 new users with one quiz
	// event apiece.
	var weeks []eventlog.Week
	for n := 1; n <= 3; n++ {
		var events []eventlog.Event
		for i := 0; i < 10; i++ {
			events = append(events, quizEvent(fmt.Sprintf("w%du%d", n, i), n, i*2))
		}
		weeks = append(weeks, testWeek(n, events...))
	}

	e := testEngine()
	metrics := e.Run(weeks)

	if len(metrics) != 3 {
		t.Fatalf("got %d records, want 3", len(metrics))
	}

	final := metrics[2]
	if final.CumulativeActiveUsers != 30 {
		t.Errorf("CumulativeActiveUsers = %d, want 30", final.CumulativeActiveUsers)
	}
	if final.CoverageCount != 0 {
		t.Errorf("CoverageCount = %d, want 0 (each user active only once)", final.CoverageCount)
	}
	if final.AtRiskCount != 0 {
		t.Errorf("AtRiskCount = %d, want 0 (fewer than 4 weeks elapsed)", final.AtRiskCount)
	}
	if final.WAUCount != 10 {
		t.Errorf("WAUCount = %d, want 10", final.WAUCount)
	}
}

func TestProcessWeek_FeatureDiversityAlwaysZero(t *testing.T) {
	e := testEngine()
	m := e.ProcessWeek(testWeek(1, quizEvent("a", 1, 0)))

	if m.ExplorerPct != 0 || m.RegularPct != 0 || m.MinimalPct != 0 {
		t.Errorf("diversity splits = %.1f/%.1f/%.1f, want structural zeros",
			m.ExplorerPct, m.RegularPct, m.MinimalPct)
	}
}

func TestProcessWeek_TeacherSplitKeepsWAU(t *testing.T) {
	r := roster.New(nil, []string{"teach1"}, nil)
	e := New(testSettings(), r)

	m := e.ProcessWeek(testWeek(1,
		quizEvent("teach1", 1, 0),
		quizEvent("stud1", 1, 0),
	))

	// Teachers stay in WAU totals; only the time medians split.
	if m.WAUCount != 2 {
		t.Errorf("WAUCount = %d, want 2 (teacher included)", m.WAUCount)
	}
	if m.StudentMedianMinutes != 15 {
		t.Errorf("StudentMedianMinutes = %.1f, want 15", m.StudentMedianMinutes)
	}
	if m.TeacherMedianMinutes != 15 {
		t.Errorf("TeacherMedianMinutes = %.1f, want 15", m.TeacherMedianMinutes)
	}
}

func TestProcessWeek_TeacherBlacklistCountsAsStudent(t *testing.T) {
	r := roster.New(nil, []string{"shared"}, []string{"shared"})
	e := New(testSettings(), r)

	m := e.ProcessWeek(testWeek(1, quizEvent("shared", 1, 0)))

	if m.TeacherMedianMinutes != 0 {
		t.Errorf("TeacherMedianMinutes = %.1f, want 0 (blacklisted id is a student)", m.TeacherMedianMinutes)
	}
	if m.StudentMedianMinutes != 15 {
		t.Errorf("StudentMedianMinutes = %.1f, want 15", m.StudentMedianMinutes)
	}
}
