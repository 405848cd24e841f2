package store

import "time"

// Run is one recorded analysis invocation.
type Run struct {
	ID      int64     `json:"id"`
	TakenAt time.Time `json:"taken_at"`
	Command string    `json:"command"`
	Version string    `json:"version"`
	Course  string    `json:"course"`
}

// WeekRow is one persisted per-week metrics record. Headline scalars get
// their own columns for querying; the full record is kept as a JSON detail
// blob.
type WeekRow struct {
	ID               int64   `json:"id"`
	RunID            int64   `json:"run_id"`
	Week             int     `json:"week"`
	FromDate         string  `json:"from_date"`
	ToDate           string  `json:"to_date"`
	WAUCount         int     `json:"wau_count"`
	TotalEnrolled    int     `json:"total_enrolled"`
	CumulativeActive int     `json:"cumulative_active"`
	WAUPctEnrolled   float64 `json:"wau_pct_enrolled"`
	CoverageCount    int     `json:"coverage_count"`
	CoveragePct      float64 `json:"coverage_pct"`
	AtRiskCount      int     `json:"at_risk_count"`
	ReactivationRate float64 `json:"reactivation_rate"`
	AllMedianMinutes float64 `json:"all_median_minutes"`
	TotalMinutes     float64 `json:"total_minutes"`
	Phase            string  `json:"phase"`
	PhaseStatus      string  `json:"phase_status"`
	Detail           string  `json:"detail,omitempty"`
}

// MetricDelta captures the change in one headline metric between two runs.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"`
}

// RunDiff pairs two runs with their headline metric deltas.
type RunDiff struct {
	Previous *Run          `json:"previous"`
	Current  *Run          `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}
