// Package config provides configuration loading and defaults for coursepulse.
package config

// DefaultDataDir is the default directory holding weekly event exports.
var DefaultDataDir = "~/coursepulse/events"

// DefaultConfigDir is the default location for coursepulse configuration.
const DefaultConfigDir = "~/.config/coursepulse"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "coursepulse.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultSemester spans a northern-hemisphere fall semester; real
// deployments override both dates.
var DefaultSemester = Semester{
	Start: "2025-09-01",
	End:   "2025-12-21",
}

// DefaultSession holds the default session reconstruction parameters.
var DefaultSession = Session{
	TimeoutMinutes: 15,
}

// DefaultCohort holds the default cohort metric thresholds.
var DefaultCohort = Cohort{
	ConsistentMin:        60,
	ModerateMin:          25,
	AtRiskGapWeeks:       3,
	ReactivationGapWeeks: 2,
	CoverageMinWeeks:     2,
	RegularUseMinWeeks:   2,
}

// DefaultPhases holds the default semester-phase boundaries and WAU% bands.
var DefaultPhases = Phases{
	LaunchDays:     14,
	PreExamDays:    14,
	LaunchMin:      70,
	LaunchMax:      100,
	ValleyMin:      20,
	ValleyMax:      40,
	PreExamMin:     60,
	PreExamMax:     80,
	SoftFloorRatio: 0.8,
	RecoveringMin:  110,
	FlatMin:        90,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
