// Package app contains the Cobra command tree for coursepulse.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/coursepulse/coursepulse/internal/config"
	"github.com/coursepulse/coursepulse/internal/engine"
	"github.com/coursepulse/coursepulse/internal/eventlog"
	"github.com/coursepulse/coursepulse/internal/roster"
	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagCourse  string
)

var rootCmd = &cobra.Command{
	Use:   "coursepulse",
	Short: "Weekly engagement analytics for course platforms",
	Long: `coursepulse ingests weekly interaction-event exports from a course
platform and derives cohort engagement metrics: weekly active users,
persistence, coverage, at-risk and reactivation cohorts, session-based time
on platform, feature usage, and semester-phase trends.

Run 'coursepulse analyze' to process the configured data directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("coursepulse", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  analyze   Process weekly exports and display engagement metrics")
		fmt.Println("  weeks     List discovered weekly exports and their eligibility")
		fmt.Println("  track     Persist a run and compare against the previous one")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/coursepulse/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagCourse, "course", "", "Course id to analyze (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// ingestLogger builds the slog logger used for skip-and-continue warnings
// during ingestion. Verbose mode surfaces the informational skips too.
func ingestLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// analysisInputs resolves config into everything a run needs: the engine
// settings, the roster, and the loaded eligible weeks.
func analysisInputs(cfg *config.Config) (engine.Settings, *roster.Roster, []eventlog.Week, error) {
	start, err := cfg.Semester.StartDate()
	if err != nil {
		return engine.Settings{}, nil, nil, err
	}
	end, err := cfg.Semester.EndDate()
	if err != nil {
		return engine.Settings{}, nil, nil, err
	}

	course := cfg.Course
	if flagCourse != "" {
		course = flagCourse
	}

	settings := engine.Settings{
		Course:             course,
		SessionTimeout:     time.Duration(cfg.Session.TimeoutMinutes) * time.Minute,
		ConsistentMin:      cfg.Cohort.ConsistentMin,
		ModerateMin:        cfg.Cohort.ModerateMin,
		AtRiskGap:          cfg.Cohort.AtRiskGapWeeks,
		ReactivationGap:    cfg.Cohort.ReactivationGapWeeks,
		CoverageMinWeeks:   cfg.Cohort.CoverageMinWeeks,
		RegularUseMinWeeks: cfg.Cohort.RegularUseMinWeeks,
		Features:           engine.DefaultFeatureRules(),
		SemesterStart:      start,
		SemesterEnd:        end,
		LaunchDays:         cfg.Phases.LaunchDays,
		PreExamDays:        cfg.Phases.PreExamDays,
		LaunchBand:         engine.Band{Min: cfg.Phases.LaunchMin, Max: cfg.Phases.LaunchMax},
		ValleyBand:         engine.Band{Min: cfg.Phases.ValleyMin, Max: cfg.Phases.ValleyMax},
		PreExamBand:        engine.Band{Min: cfg.Phases.PreExamMin, Max: cfg.Phases.PreExamMax},
		SoftFloorRatio:     cfg.Phases.SoftFloorRatio,
		RecoveringMin:      cfg.Phases.RecoveringMin,
		FlatMin:            cfg.Phases.FlatMin,
	}

	r := roster.New(cfg.Roster.Enrolled, cfg.Roster.TeacherIDs, cfg.Roster.TeacherBlacklist)

	weeks, err := eventlog.LoadWeeks(cfg.DataDir, start, time.Now().UTC(), course, ingestLogger())
	if err != nil {
		return engine.Settings{}, nil, nil, fmt.Errorf("loading weekly exports: %w", err)
	}

	return settings, r, weeks, nil
}
