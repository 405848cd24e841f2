// Package engine derives weekly cohort engagement metrics from ordered
// event-log snapshots, carrying per-user state forward week over week.
package engine

import "time"

// WeekMetrics is the engine's output unit: one record per eligible week.
// Primary fields are set by ProcessWeek and never mutated afterward; the
// trend and phase fields are filled by the enrichment passes over the
// completed sequence.
type WeekMetrics struct {
	Week int       `json:"week"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	// Weekly active users.
	WAUCount              int     `json:"wau_count"`
	TotalEnrolled         int     `json:"total_enrolled"`
	CumulativeActiveUsers int     `json:"cumulative_active_users"`
	WAUPctEnrolled        float64 `json:"wau_pct_enrolled"`
	WAUPctCumulative      float64 `json:"wau_pct_cumulative"`

	// Persistence buckets, as percent of all ever-active users.
	ConsistentPct float64 `json:"consistent_pct"`
	ModeratePct   float64 `json:"moderate_pct"`
	SporadicPct   float64 `json:"sporadic_pct"`

	// Coverage: users active in >=2 distinct weeks so far.
	CoverageCount int     `json:"coverage_count"`
	CoveragePct   float64 `json:"coverage_pct"`

	// At-risk: users inactive for >=3 weeks (zero before week 4).
	AtRiskCount int     `json:"at_risk_count"`
	AtRiskPct   float64 `json:"at_risk_pct"`

	// Reactivation: share of the pre-week inactive pool active again this
	// week (zero before week 3).
	InactivePoolSize int     `json:"inactive_pool_size"`
	ReactivationRate float64 `json:"reactivation_rate"`

	// Session-based time on platform, in minutes.
	StudentMedianMinutes float64 `json:"student_median_minutes"`
	TeacherMedianMinutes float64 `json:"teacher_median_minutes"`
	AllMedianMinutes     float64 `json:"all_median_minutes"`
	TotalMinutes         float64 `json:"total_minutes"`

	// Per-feature usage, keyed by feature name.
	Features map[string]FeatureMetrics `json:"features"`

	// Feature diversity splits. Structurally zero: the weekly exports carry
	// no per-user cross-feature join, so these cannot be computed from this
	// input. Kept so downstream consumers see a stable schema.
	ExplorerPct float64 `json:"explorer_pct"`
	RegularPct  float64 `json:"regular_pct"`
	MinimalPct  float64 `json:"minimal_pct"`

	// Top concepts by tag count.
	TopConceptsWeek       []ConceptCount `json:"top_concepts_week"`
	TopConceptsCumulative []ConceptCount `json:"top_concepts_cumulative"`

	// Trend enrichment (EnrichTrends).
	WAUChange         int     `json:"wau_change"`
	WAUChangePct      float64 `json:"wau_change_pct"`
	BaselineDeviation float64 `json:"baseline_deviation"`
	DropRiskVelocity  float64 `json:"drop_risk_velocity"`

	// Phase enrichment (EnrichPhases).
	Phase          string  `json:"phase"`
	PhaseStatus    string  `json:"phase_status"`
	RecoveryPct    float64 `json:"recovery_pct,omitempty"`
	RecoveryStatus string  `json:"recovery_status,omitempty"`
}

// FeatureMetrics captures one feature's usage within a week plus its
// semester-wide adoption.
type FeatureMetrics struct {
	// UsagePct is the percent of this week's active users who triggered
	// the feature.
	UsagePct float64 `json:"usage_pct"`

	// Minutes is the session-reconstructed time spent in the feature this
	// week, summed across users.
	Minutes float64 `json:"minutes"`

	// RegularUsePct is the percent of the coverage cohort that has used
	// this feature in >=2 distinct weeks cumulatively.
	RegularUsePct float64 `json:"regular_use_pct"`

	// TrailingAvg is the 3-week trailing moving average of UsagePct, and
	// TrailingAvgDelta its week-over-week change (EnrichTrends).
	TrailingAvg      float64 `json:"trailing_avg"`
	TrailingAvgDelta float64 `json:"trailing_avg_delta"`
}

// ConceptCount is one entry of a top-concepts ranking.
type ConceptCount struct {
	Concept string `json:"concept"`
	Count   int    `json:"count"`
}

// Semester-phase labels.
const (
	PhaseLaunch  = "Launch"
	PhaseValley  = "Valley"
	PhasePreExam = "Pre-Exam"
)

// Phase classification statuses.
const (
	StatusOnTrack       = "On Track"
	StatusAboveExpected = "Above Expected"
	StatusBelowExpected = "Below Expected"
	StatusCritical      = "Critical"
)

// Recovery-from-valley statuses.
const (
	RecoveryRecovering = "Recovering"
	RecoveryFlat       = "Flat"
	RecoveryDeclining  = "Still Declining"
)
