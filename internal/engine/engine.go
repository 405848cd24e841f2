package engine

import (
	"time"

	"github.com/coursepulse/coursepulse/internal/eventlog"
	"github.com/coursepulse/coursepulse/internal/roster"
)

// topConceptCount is how many concepts the weekly and cumulative rankings carry.
const topConceptCount = 5

// Settings carries the thresholds and rules the engine reads. The engine
// never mutates them.
type Settings struct {
	Course         string
	SessionTimeout time.Duration

	ConsistentMin   float64
	ModerateMin     float64
	AtRiskGap       int
	ReactivationGap int

	CoverageMinWeeks   int
	RegularUseMinWeeks int

	Features []FeatureRule

	SemesterStart time.Time
	SemesterEnd   time.Time
	LaunchDays    int
	PreExamDays   int

	LaunchBand  Band
	ValleyBand  Band
	PreExamBand Band

	SoftFloorRatio float64
	RecoveringMin  float64
	FlatMin        float64
}

// Band is an expected WAU% range for a semester phase.
type Band struct {
	Min float64
	Max float64
}

// DefaultSettings returns the standard thresholds; the semester window and
// course must still be set by the caller.
func DefaultSettings() Settings {
	return Settings{
		SessionTimeout:     15 * time.Minute,
		ConsistentMin:      60,
		ModerateMin:        25,
		AtRiskGap:          3,
		ReactivationGap:    2,
		CoverageMinWeeks:   2,
		RegularUseMinWeeks: 2,
		Features:           DefaultFeatureRules(),
		LaunchDays:         14,
		PreExamDays:        14,
		LaunchBand:         Band{Min: 70, Max: 100},
		ValleyBand:         Band{Min: 20, Max: 40},
		PreExamBand:        Band{Min: 60, Max: 80},
		SoftFloorRatio:     0.8,
		RecoveringMin:      110,
		FlatMin:            90,
	}
}

// Engine is the incremental weekly engagement analyzer. It owns the cohort
// and concept state exclusively; weeks must be processed strictly in
// ascending order because every metric is a prefix aggregate over the weeks
// seen so far. The engine is not safe for concurrent use, and does not
// need to be: one writer, no concurrent readers.
type Engine struct {
	settings Settings
	roster   *roster.Roster
	cohort   *Cohort
	concepts *conceptTracker
	weeks    []WeekMetrics
}

// New builds an engine with the given settings and roster.
func New(settings Settings, r *roster.Roster) *Engine {
	if settings.Features == nil {
		settings.Features = DefaultFeatureRules()
	}
	return &Engine{
		settings: settings,
		roster:   r,
		cohort:   newCohort(),
		concepts: newConceptTracker(),
	}
}

// Cohort exposes the accumulated cohort state for inspection.
func (e *Engine) Cohort() *Cohort {
	return e.cohort
}

// Run processes the ordered week snapshots and returns the fully enriched
// metrics sequence.
func (e *Engine) Run(weeks []eventlog.Week) []WeekMetrics {
	for _, w := range weeks {
		e.ProcessWeek(w)
	}
	EnrichTrends(e.weeks)
	EnrichPhases(e.weeks, e.settings)
	return e.weeks
}

// ProcessWeek ingests one weekly snapshot: updates the cohort state, then
// derives the week's metrics from the updated state. The cohort update must
// precede every derivation, and weeks must arrive in ascending order.
func (e *Engine) ProcessWeek(week eventlog.Week) WeekMetrics {
	byUser := make(map[string][]eventlog.Event)
	for _, ev := range week.Events {
		byUser[ev.UserID] = append(byUser[ev.UserID], ev)
		e.concepts.observe(ev.Concept, week.Number)
	}

	for userID, events := range byUser {
		e.cohort.observe(userID, week.Number, len(events))
	}

	// Roster count when available, else cumulative distinct users observed
	// up to and including this week.
	enrolled, ok := e.roster.Enrolled(e.settings.Course)
	if !ok {
		enrolled = e.cohort.Size()
	}

	m := WeekMetrics{
		Week:                  week.Number,
		From:                  week.From,
		To:                    week.To,
		WAUCount:              len(byUser),
		TotalEnrolled:         enrolled,
		CumulativeActiveUsers: e.cohort.Size(),
		Features:              make(map[string]FeatureMetrics, len(e.settings.Features)),
	}

	if enrolled > 0 {
		m.WAUPctEnrolled = float64(m.WAUCount) / float64(enrolled) * 100
	}
	if m.CumulativeActiveUsers > 0 {
		m.WAUPctCumulative = float64(m.WAUCount) / float64(m.CumulativeActiveUsers) * 100
	}

	m.ConsistentPct, m.ModeratePct, m.SporadicPct = e.persistenceBuckets(week.Number)
	m.CoverageCount, m.CoveragePct = e.coverage(enrolled)
	m.AtRiskCount, m.AtRiskPct = e.atRisk(week.Number)
	m.InactivePoolSize, m.ReactivationRate = e.reactivation(week.Number)

	t := e.analyzeTime(byUser)
	m.StudentMedianMinutes = t.studentMedian
	m.TeacherMedianMinutes = t.teacherMedian
	m.AllMedianMinutes = t.allMedian
	m.TotalMinutes = t.total

	for _, rule := range e.settings.Features {
		m.Features[rule.Name] = e.featureMetrics(rule, week, m.WAUCount)
	}

	m.TopConceptsWeek = e.concepts.topWeek(week.Number, topConceptCount)
	m.TopConceptsCumulative = e.concepts.topCumulative(topConceptCount)

	e.weeks = append(e.weeks, m)
	return m
}
