package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/coursepulse/coursepulse/internal/config"
	"github.com/coursepulse/coursepulse/internal/engine"
	"github.com/coursepulse/coursepulse/internal/output"
	"github.com/coursepulse/coursepulse/internal/store"
	"github.com/spf13/cobra"
)

var (
	trackCompare int
	trackHistory int
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Persist a run and compare against the previous one",
	Long: `Run the weekly analysis, store the per-week metrics as a new run in the
local database, and compare the final week's headline metrics against the
most recent previous run to show deltas with trend arrows.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous run (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show headline trends across N most recent runs")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	settings, r, weeks, err := analysisInputs(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(settings, r)
	metrics := eng.Run(weeks)

	runID, err := db.CreateRun("track", appVersion, settings.Course)
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}

	for _, m := range metrics {
		row, err := weekRow(runID, m)
		if err != nil {
			return err
		}
		if err := db.InsertWeekRow(row); err != nil {
			return fmt.Errorf("inserting week %d: %w", m.Week, err)
		}
	}

	if trackHistory > 0 {
		if flagJSON {
			return outputHistoryJSON(db, trackHistory)
		}
		return renderHistory(db, trackHistory)
	}

	// trackCompare=1 means compare against the immediate predecessor
	// (offset 2 from newest, since the new run is already stored).
	prevRun, err := db.GetRunN(trackCompare + 1)
	if err != nil {
		return fmt.Errorf("loading previous run: %w", err)
	}

	currentRun, err := db.GetRun(runID)
	if err != nil {
		return fmt.Errorf("loading current run: %w", err)
	}

	var diff *store.RunDiff
	if prevRun != nil {
		prevLast, err := db.LatestWeekRow(prevRun.ID)
		if err != nil {
			return fmt.Errorf("loading previous metrics: %w", err)
		}
		currLast, err := db.LatestWeekRow(runID)
		if err != nil {
			return fmt.Errorf("loading current metrics: %w", err)
		}
		if prevLast != nil && currLast != nil {
			diff = &store.RunDiff{
				Previous: prevRun,
				Current:  currentRun,
				Deltas:   computeDeltas(prevLast, currLast),
			}
		}
	}

	if flagJSON {
		result := map[string]any{"run": currentRun}
		if diff != nil {
			result["diff"] = diff
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	renderTrackOutput(currentRun, diff)
	return nil
}

// weekRow flattens one metrics record into its stored form: headline
// scalars as columns, the full record as a JSON detail blob.
func weekRow(runID int64, m engine.WeekMetrics) (*store.WeekRow, error) {
	detail, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding week %d detail: %w", m.Week, err)
	}
	return &store.WeekRow{
		RunID:            runID,
		Week:             m.Week,
		FromDate:         m.From.Format("2006-01-02"),
		ToDate:           m.To.Format("2006-01-02"),
		WAUCount:         m.WAUCount,
		TotalEnrolled:    m.TotalEnrolled,
		CumulativeActive: m.CumulativeActiveUsers,
		WAUPctEnrolled:   m.WAUPctEnrolled,
		CoverageCount:    m.CoverageCount,
		CoveragePct:      m.CoveragePct,
		AtRiskCount:      m.AtRiskCount,
		ReactivationRate: m.ReactivationRate,
		AllMedianMinutes: m.AllMedianMinutes,
		TotalMinutes:     m.TotalMinutes,
		Phase:            m.Phase,
		PhaseStatus:      m.PhaseStatus,
		Detail:           string(detail),
	}, nil
}

// headlineMetrics lists the per-run comparison metrics in display order,
// with whether higher values are better.
var headlineMetrics = []struct {
	name           string
	higherIsBetter bool
	value          func(*store.WeekRow) float64
}{
	{"wau_count", true, func(w *store.WeekRow) float64 { return float64(w.WAUCount) }},
	{"wau_pct_enrolled", true, func(w *store.WeekRow) float64 { return w.WAUPctEnrolled }},
	{"coverage_count", true, func(w *store.WeekRow) float64 { return float64(w.CoverageCount) }},
	{"coverage_pct", true, func(w *store.WeekRow) float64 { return w.CoveragePct }},
	{"at_risk_count", false, func(w *store.WeekRow) float64 { return float64(w.AtRiskCount) }},
	{"reactivation_rate", true, func(w *store.WeekRow) float64 { return w.ReactivationRate }},
	{"all_median_minutes", true, func(w *store.WeekRow) float64 { return w.AllMedianMinutes }},
}

// computeDeltas compares the final-week headline metrics of two runs.
func computeDeltas(prev, curr *store.WeekRow) []store.MetricDelta {
	var deltas []store.MetricDelta
	for _, hm := range headlineMetrics {
		prevVal := hm.value(prev)
		currVal := hm.value(curr)
		delta := currVal - prevVal

		direction := "unchanged"
		if delta != 0 {
			isPositive := delta > 0
			if (isPositive && hm.higherIsBetter) || (!isPositive && !hm.higherIsBetter) {
				direction = "improved"
			} else {
				direction = "regressed"
			}
		}

		deltas = append(deltas, store.MetricDelta{
			Name:      hm.name,
			Previous:  prevVal,
			Current:   currVal,
			Delta:     delta,
			Direction: direction,
		})
	}
	return deltas
}

func renderTrackOutput(current *store.Run, diff *store.RunDiff) {
	fmt.Println(output.Section("Track: Run Comparison"))
	fmt.Println()
	fmt.Printf(" Run #%d recorded at %s\n\n", current.ID, current.TakenAt.Format("2006-01-02 15:04:05"))

	if diff == nil {
		fmt.Println(" First run recorded. Run 'coursepulse track' again later to see trends.")
		return
	}

	fmt.Printf(" Comparing final week against run #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Format("2006-01-02 15:04:05"))

	higherIsBetter := make(map[string]bool, len(headlineMetrics))
	for _, hm := range headlineMetrics {
		higherIsBetter[hm.name] = hm.higherIsBetter
	}

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend")
	for _, d := range diff.Deltas {
		tbl.AddRow(
			d.Name,
			fmt.Sprintf("%.1f", d.Previous),
			fmt.Sprintf("%.1f", d.Current),
			fmt.Sprintf("%+.1f", d.Delta),
			output.TrendArrow(d.Delta, higherIsBetter[d.Name]),
		)
	}
	tbl.Print()
}

// renderHistory shows final-week headline metrics across recent runs.
func renderHistory(db *store.DB, n int) error {
	runs, err := db.GetRecentRuns(n)
	if err != nil {
		return fmt.Errorf("loading runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println(" No runs found. Run 'coursepulse track' to create one.")
		return nil
	}

	// Reverse so oldest is first (left to right = chronological).
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}

	type runMetrics struct {
		run  store.Run
		last *store.WeekRow
	}
	var timeline []runMetrics
	for _, r := range runs {
		last, err := db.LatestWeekRow(r.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for run #%d: %w", r.ID, err)
		}
		timeline = append(timeline, runMetrics{run: r, last: last})
	}

	fmt.Println(output.Section("Track: Run History"))
	fmt.Println()
	fmt.Printf(" Showing %d most recent runs (final-week metrics)\n\n", len(timeline))

	headers := []string{"Metric"}
	for _, rm := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", rm.run.ID, rm.run.TakenAt.Format("Jan 02")))
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, hm := range headlineMetrics {
		row := []string{hm.name}
		var vals []float64
		for _, rm := range timeline {
			v := 0.0
			if rm.last != nil {
				v = hm.value(rm.last)
			}
			vals = append(vals, v)
			row = append(row, fmt.Sprintf("%.1f", v))
		}

		trend := ""
		if len(vals) >= 2 {
			trend = output.TrendArrow(vals[len(vals)-1]-vals[0], hm.higherIsBetter)
		}
		row = append(row, trend)
		tbl.AddRow(row...)
	}

	tbl.Print()
	return nil
}

// outputHistoryJSON writes the history data as JSON.
func outputHistoryJSON(db *store.DB, n int) error {
	runs, err := db.GetRecentRuns(n)
	if err != nil {
		return fmt.Errorf("loading runs: %w", err)
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}

	type runEntry struct {
		Run   store.Run       `json:"run"`
		Weeks []store.WeekRow `json:"weeks"`
	}

	var entries []runEntry
	for _, r := range runs {
		weeks, err := db.GetWeekRows(r.ID)
		if err != nil {
			return fmt.Errorf("loading weeks for run #%d: %w", r.ID, err)
		}
		entries = append(entries, runEntry{Run: r, Weeks: weeks})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"history": entries})
}
