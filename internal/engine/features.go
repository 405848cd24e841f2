package engine

import (
	"strings"

	"github.com/coursepulse/coursepulse/internal/eventlog"
)

// Match fields for feature rules.
const (
	// MatchEventName matches patterns against the event-name column.
	MatchEventName = "event"

	// MatchTab matches patterns against the tab/feature-tag column.
	MatchTab = "tab"
)

// FeatureRule classifies events into a named feature by case-insensitive
// substring match against one event field. The substring match is the
// platform's business rule for its free-form event taxonomy, not a
// placeholder for exact matching.
type FeatureRule struct {
	Name     string
	Field    string
	Patterns []string
}

// DefaultFeatureRules covers the platform's fixed feature set. Quiz and
// evaluation events are identified by event name; the content features are
// identified by the tab tag.
func DefaultFeatureRules() []FeatureRule {
	return []FeatureRule{
		{Name: "quiz", Field: MatchEventName, Patterns: []string{"quiz"}},
		{Name: "evaluation", Field: MatchEventName, Patterns: []string{"evaluation"}},
		{Name: "mind_map", Field: MatchTab, Patterns: []string{"mind_map", "mindmap"}},
		{Name: "search", Field: MatchTab, Patterns: []string{"search"}},
		{Name: "short_summary", Field: MatchTab, Patterns: []string{"short_summary"}},
		{Name: "long_summary", Field: MatchTab, Patterns: []string{"long_summary"}},
		{Name: "concepts", Field: MatchTab, Patterns: []string{"concept"}},
	}
}

// Matches reports whether the event belongs to this feature.
func (r FeatureRule) Matches(ev eventlog.Event) bool {
	var field string
	switch r.Field {
	case MatchEventName:
		field = ev.Name
	case MatchTab:
		field = ev.Tab
	default:
		return false
	}
	if field == "" {
		return false
	}
	field = strings.ToLower(field)
	for _, p := range r.Patterns {
		if strings.Contains(field, p) {
			return true
		}
	}
	return false
}

// featureMetrics derives one feature's weekly usage and updates the
// cumulative feature-week memo for every matched user.
func (e *Engine) featureMetrics(rule FeatureRule, week eventlog.Week, wauCount int) FeatureMetrics {
	byUser := make(map[string][]eventlog.Event)
	for _, ev := range week.Events {
		if rule.Matches(ev) {
			byUser[ev.UserID] = append(byUser[ev.UserID], ev)
		}
	}

	for userID := range byUser {
		e.cohort.markFeature(rule.Name, userID, week.Number)
	}

	var m FeatureMetrics
	if wauCount > 0 {
		m.UsagePct = float64(len(byUser)) / float64(wauCount) * 100
	}

	for _, events := range byUser {
		m.Minutes += sessionMinutes(events, e.settings.SessionTimeout)
	}

	m.RegularUsePct = e.regularUsePct(rule.Name, week.Number)
	return m
}

// regularUsePct computes the semester-wide adoption of a feature: the
// percent of the coverage cohort (users active in >=2 distinct weeks) that
// has used the feature in >=2 distinct weeks cumulatively.
func (e *Engine) regularUsePct(feature string, week int) float64 {
	covered := 0
	regular := 0
	for userID, weeks := range e.cohort.activeWeeks {
		if len(weeks) < e.settings.CoverageMinWeeks {
			continue
		}
		covered++
		if e.cohort.featureWeekCount(feature, userID) >= e.settings.RegularUseMinWeeks {
			regular++
		}
	}
	if covered == 0 {
		return 0
	}
	return float64(regular) / float64(covered) * 100
}
