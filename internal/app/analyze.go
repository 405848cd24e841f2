package app

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/coursepulse/coursepulse/internal/config"
	"github.com/coursepulse/coursepulse/internal/engine"
	"github.com/coursepulse/coursepulse/internal/output"
	"github.com/spf13/cobra"
)

var analyzeWeekFilter int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Process weekly exports and display engagement metrics",
	Long: `Load the weekly event exports from the configured data directory,
derive per-week cohort engagement metrics, and render them with trend and
semester-phase enrichment.

Weeks are processed strictly in order; an in-progress week is excluded.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeWeekFilter, "week", 0, "Show only the given week number")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}

	settings, r, weeks, err := analysisInputs(cfg)
	if err != nil {
		return err
	}

	eng := engine.New(settings, r)
	metrics := eng.Run(weeks)

	if analyzeWeekFilter > 0 {
		var filtered []engine.WeekMetrics
		for _, m := range metrics {
			if m.Week == analyzeWeekFilter {
				filtered = append(filtered, m)
			}
		}
		metrics = filtered
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"course": settings.Course,
			"weeks":  metrics,
		})
	}

	if len(metrics) == 0 {
		fmt.Println(" No eligible weeks found. Check data_dir and semester dates in config.")
		return nil
	}

	renderWAU(metrics)
	renderCohorts(metrics)
	renderTime(metrics)
	renderFeatures(metrics)
	renderConcepts(metrics[len(metrics)-1])
	renderPhases(metrics)

	return nil
}

func renderWAU(metrics []engine.WeekMetrics) {
	fmt.Println(output.Section("Weekly Active Users"))
	fmt.Println()

	tbl := output.NewTable("Week", "Range", "WAU", "Enrolled", "WAU %", "Δ WAU", "Baseline Δ")
	for _, m := range metrics {
		delta := "─"
		if m.Week > metrics[0].Week {
			delta = output.TrendArrow(float64(m.WAUChange), true)
		}
		tbl.AddRow(
			fmt.Sprintf("%d", m.Week),
			fmt.Sprintf("%s – %s", m.From.Format("Jan 02"), m.To.Format("Jan 02")),
			fmt.Sprintf("%d", m.WAUCount),
			fmt.Sprintf("%d", m.TotalEnrolled),
			output.PercentBar(m.WAUPctEnrolled, 14),
			delta,
			fmt.Sprintf("%+.1f", m.BaselineDeviation),
		)
	}
	tbl.Print()
}

func renderCohorts(metrics []engine.WeekMetrics) {
	fmt.Println(output.Section("Persistence, Coverage & Risk"))
	fmt.Println()

	tbl := output.NewTable("Week", "Consistent", "Moderate", "Sporadic", "Coverage", "At Risk", "Reactivation")
	for _, m := range metrics {
		atRisk := fmt.Sprintf("%d", m.AtRiskCount)
		if m.AtRiskCount > 0 {
			atRisk = output.StyleError.Render(atRisk)
		}
		tbl.AddRow(
			fmt.Sprintf("%d", m.Week),
			fmt.Sprintf("%.0f%%", m.ConsistentPct),
			fmt.Sprintf("%.0f%%", m.ModeratePct),
			fmt.Sprintf("%.0f%%", m.SporadicPct),
			fmt.Sprintf("%d (%.0f%%)", m.CoverageCount, m.CoveragePct),
			atRisk,
			fmt.Sprintf("%.0f%%", m.ReactivationRate),
		)
	}
	tbl.Print()
}

func renderTime(metrics []engine.WeekMetrics) {
	fmt.Println(output.Section("Time on Platform (median per user)"))
	fmt.Println()

	tbl := output.NewTable("Week", "Students", "Teachers", "All", "Total")
	for _, m := range metrics {
		tbl.AddRow(
			fmt.Sprintf("%d", m.Week),
			output.Minutes(m.StudentMedianMinutes),
			output.Minutes(m.TeacherMedianMinutes),
			output.Minutes(m.AllMedianMinutes),
			output.Minutes(m.TotalMinutes),
		)
	}
	tbl.Print()
}

func renderFeatures(metrics []engine.WeekMetrics) {
	fmt.Println(output.Section("Feature Usage (latest week)"))
	fmt.Println()

	last := metrics[len(metrics)-1]

	names := make([]string, 0, len(last.Features))
	for name := range last.Features {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := output.NewTable("Feature", "Used by", "Minutes", "3wk Avg", "Trend", "Regular Use")
	for _, name := range names {
		fm := last.Features[name]
		tbl.AddRow(
			name,
			fmt.Sprintf("%.0f%%", fm.UsagePct),
			output.Minutes(fm.Minutes),
			fmt.Sprintf("%.0f%%", fm.TrailingAvg),
			output.TrendArrow(fm.TrailingAvgDelta, true),
			fmt.Sprintf("%.0f%%", fm.RegularUsePct),
		)
	}
	tbl.Print()
}

func renderConcepts(last engine.WeekMetrics) {
	fmt.Println(output.Section("Top Concepts"))
	fmt.Println()

	if len(last.TopConceptsWeek) == 0 && len(last.TopConceptsCumulative) == 0 {
		fmt.Printf(" %s\n", output.StyleMuted.Render("No concept tags observed"))
		return
	}

	fmt.Printf(" %s\n", output.StyleMuted.Render("This week:"))
	for _, c := range last.TopConceptsWeek {
		fmt.Printf("   %s %s\n",
			output.StyleLabel.Render(c.Concept),
			output.StyleValue.Render(fmt.Sprintf("%d", c.Count)))
	}

	fmt.Printf("\n %s\n", output.StyleMuted.Render("Semester to date:"))
	for _, c := range last.TopConceptsCumulative {
		fmt.Printf("   %s %s\n",
			output.StyleLabel.Render(c.Concept),
			output.StyleValue.Render(fmt.Sprintf("%d", c.Count)))
	}
}

func renderPhases(metrics []engine.WeekMetrics) {
	fmt.Println(output.Section("Semester Phases"))
	fmt.Println()

	tbl := output.NewTable("Week", "Phase", "WAU %", "Status", "Recovery")
	for _, m := range metrics {
		recovery := "─"
		if m.RecoveryStatus != "" {
			recovery = fmt.Sprintf("%s (%.0f%%)", output.PhaseStatus(m.RecoveryStatus), m.RecoveryPct)
		}
		tbl.AddRow(
			fmt.Sprintf("%d", m.Week),
			m.Phase,
			fmt.Sprintf("%.1f", m.WAUPctEnrolled),
			output.PhaseStatus(m.PhaseStatus),
			recovery,
		)
	}
	tbl.Print()
}
