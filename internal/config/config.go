package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level coursepulse configuration.
type Config struct {
	DataDir  string   `mapstructure:"data_dir"`
	Course   string   `mapstructure:"course"`
	Semester Semester `mapstructure:"semester"`
	Session  Session  `mapstructure:"session"`
	Cohort   Cohort   `mapstructure:"cohort"`
	Phases   Phases   `mapstructure:"phases"`
	Roster   Roster   `mapstructure:"roster"`
	Output   Output   `mapstructure:"output"`
}

// Semester defines the calendar window of the analyzed semester.
// Dates are ISO calendar dates (2006-01-02).
type Semester struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// StartDate parses the semester start date.
func (s Semester) StartDate() (time.Time, error) {
	return parseDate(s.Start, "semester.start")
}

// EndDate parses the semester end date.
func (s Semester) EndDate() (time.Time, error) {
	return parseDate(s.End, "semester.end")
}

func parseDate(v, key string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", key, v, err)
	}
	return t, nil
}

// Session defines session reconstruction parameters.
type Session struct {
	// TimeoutMinutes is the inter-event gap that closes a session. The same
	// value is added to each session span to cover the unobserved tail.
	TimeoutMinutes int `mapstructure:"timeout_minutes"`
}

// Cohort defines thresholds for cohort-based metrics.
type Cohort struct {
	// ConsistentMin is the persistence rate (percent) at or above which a
	// user is bucketed Consistent.
	ConsistentMin float64 `mapstructure:"consistent_min"`

	// ModerateMin is the persistence rate (percent) at or above which a
	// user is bucketed Moderate. Below it is Sporadic.
	ModerateMin float64 `mapstructure:"moderate_min"`

	// AtRiskGapWeeks is the inactivity gap that flags a user at risk.
	AtRiskGapWeeks int `mapstructure:"at_risk_gap_weeks"`

	// ReactivationGapWeeks is the inactivity gap that places a user in the
	// reactivation pool.
	ReactivationGapWeeks int `mapstructure:"reactivation_gap_weeks"`

	// CoverageMinWeeks is the distinct-active-week count for coverage.
	CoverageMinWeeks int `mapstructure:"coverage_min_weeks"`

	// RegularUseMinWeeks is the distinct-week count for semester-wide
	// regular use of a feature.
	RegularUseMinWeeks int `mapstructure:"regular_use_min_weeks"`
}

// Phases defines semester-phase boundaries and expected engagement bands.
type Phases struct {
	LaunchDays  int `mapstructure:"launch_days"`
	PreExamDays int `mapstructure:"pre_exam_days"`

	LaunchMin  float64 `mapstructure:"launch_min"`
	LaunchMax  float64 `mapstructure:"launch_max"`
	ValleyMin  float64 `mapstructure:"valley_min"`
	ValleyMax  float64 `mapstructure:"valley_max"`
	PreExamMin float64 `mapstructure:"pre_exam_min"`
	PreExamMax float64 `mapstructure:"pre_exam_max"`

	// SoftFloorRatio softens the band floor: a week at or above
	// SoftFloorRatio * floor is Below Expected rather than Critical.
	SoftFloorRatio float64 `mapstructure:"soft_floor_ratio"`

	// RecoveringMin and FlatMin classify WAU% relative to the valley floor.
	RecoveringMin float64 `mapstructure:"recovering_min"`
	FlatMin       float64 `mapstructure:"flat_min"`
}

// Roster carries course enrollment and staff identity data.
type Roster struct {
	// Enrolled maps course id to total enrolled students.
	Enrolled map[string]int `mapstructure:"enrolled"`

	// TeacherIDs lists user ids treated as teachers.
	TeacherIDs []string `mapstructure:"teacher_ids"`

	// TeacherBlacklist lists ids excluded from the teacher set (shared
	// demo accounts, test users).
	TeacherBlacklist []string `mapstructure:"teacher_blacklist"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("course", "")
	v.SetDefault("semester.start", DefaultSemester.Start)
	v.SetDefault("semester.end", DefaultSemester.End)
	v.SetDefault("session.timeout_minutes", DefaultSession.TimeoutMinutes)
	v.SetDefault("cohort.consistent_min", DefaultCohort.ConsistentMin)
	v.SetDefault("cohort.moderate_min", DefaultCohort.ModerateMin)
	v.SetDefault("cohort.at_risk_gap_weeks", DefaultCohort.AtRiskGapWeeks)
	v.SetDefault("cohort.reactivation_gap_weeks", DefaultCohort.ReactivationGapWeeks)
	v.SetDefault("cohort.coverage_min_weeks", DefaultCohort.CoverageMinWeeks)
	v.SetDefault("cohort.regular_use_min_weeks", DefaultCohort.RegularUseMinWeeks)
	v.SetDefault("phases.launch_days", DefaultPhases.LaunchDays)
	v.SetDefault("phases.pre_exam_days", DefaultPhases.PreExamDays)
	v.SetDefault("phases.launch_min", DefaultPhases.LaunchMin)
	v.SetDefault("phases.launch_max", DefaultPhases.LaunchMax)
	v.SetDefault("phases.valley_min", DefaultPhases.ValleyMin)
	v.SetDefault("phases.valley_max", DefaultPhases.ValleyMax)
	v.SetDefault("phases.pre_exam_min", DefaultPhases.PreExamMin)
	v.SetDefault("phases.pre_exam_max", DefaultPhases.PreExamMax)
	v.SetDefault("phases.soft_floor_ratio", DefaultPhases.SoftFloorRatio)
	v.SetDefault("phases.recovering_min", DefaultPhases.RecoveringMin)
	v.SetDefault("phases.flat_min", DefaultPhases.FlatMin)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Roster.Enrolled == nil {
		cfg.Roster.Enrolled = map[string]int{}
	}

	cfg.DataDir = expandPath(cfg.DataDir)

	return &cfg, nil
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
