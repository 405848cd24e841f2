package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coursepulse/coursepulse/internal/config"
	"github.com/coursepulse/coursepulse/internal/eventlog"
	"github.com/coursepulse/coursepulse/internal/output"
	"github.com/spf13/cobra"
)

var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "List discovered weekly exports and their eligibility",
	Long: `Scan the configured data directory for weekly export files and show
each file's derived week number and whether it is eligible for analysis.
A week is excluded while its end date has not yet passed.`,
	RunE: runWeeks,
}

func init() {
	rootCmd.AddCommand(weeksCmd)
}

// weekInfo is the JSON-serializable output for one discovered file.
type weekInfo struct {
	Path     string `json:"path"`
	Week     int    `json:"week"`
	From     string `json:"from"`
	To       string `json:"to"`
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

func runWeeks(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		output.SetNoColor(true)
	}

	start, err := cfg.Semester.StartDate()
	if err != nil {
		return err
	}

	files, err := eventlog.DiscoverFiles(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.DataDir, err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	var infos []weekInfo
	for _, f := range files {
		info := weekInfo{
			Path:     f.Path,
			Week:     f.WeekNumber(start),
			From:     f.From.Format("2006-01-02"),
			To:       f.To.Format("2006-01-02"),
			Eligible: true,
		}
		switch {
		case f.From.Before(start):
			info.Eligible = false
			info.Reason = "before semester start"
		case !f.To.Before(today):
			info.Eligible = false
			info.Reason = "week still in progress"
		}
		infos = append(infos, info)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"files": infos})
	}

	fmt.Println(output.Section("Weekly Exports"))
	fmt.Println()

	if len(infos) == 0 {
		fmt.Printf(" %s\n", output.StyleMuted.Render(fmt.Sprintf("No exports found under %s", cfg.DataDir)))
		return nil
	}

	tbl := output.NewTable("Week", "From", "To", "File", "Status")
	for _, info := range infos {
		status := output.StyleSuccess.Render("eligible")
		if !info.Eligible {
			status = output.StyleWarning.Render(info.Reason)
		}
		tbl.AddRow(
			fmt.Sprintf("%d", info.Week),
			info.From,
			info.To,
			info.Path,
			status,
		)
	}
	tbl.Print()
	return nil
}
