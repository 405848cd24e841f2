package engine

import (
	"math"
	"testing"
	"time"
)

func TestClassifyPhase_CalendarThresholds(t *testing.T) {
	s := testSettings()
	launchEnd := s.SemesterStart.AddDate(0, 0, s.LaunchDays)
	preExamStart := s.SemesterEnd.AddDate(0, 0, -s.PreExamDays)

	tests := []struct {
		name      string
		weekStart time.Time
		want      string
	}{
		{"first day", s.SemesterStart, PhaseLaunch},
		{"day 13", s.SemesterStart.AddDate(0, 0, 13), PhaseLaunch},
		{"day 14 ends launch", s.SemesterStart.AddDate(0, 0, 14), PhaseValley},
		{"mid semester", s.SemesterStart.AddDate(0, 0, 50), PhaseValley},
		{"last day before pre-exam", preExamStart.AddDate(0, 0, -1), PhaseValley},
		{"pre-exam start", preExamStart, PhasePreExam},
		{"semester end", s.SemesterEnd, PhasePreExam},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyPhase(tc.weekStart, launchEnd, preExamStart); got != tc.want {
				t.Errorf("classifyPhase = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyBand_SoftFloor(t *testing.T) {
	band := Band{Min: 20, Max: 40}

	tests := []struct {
		wauPct float64
		want   string
	}{
		{45, StatusAboveExpected},
		{40, StatusOnTrack},
		{20, StatusOnTrack},
		{19, StatusBelowExpected},
		{16, StatusBelowExpected}, // exactly 80% of the floor
		{15.9, StatusCritical},
		{0, StatusCritical},
	}

	for _, tc := range tests {
		if got := classifyBand(tc.wauPct, band, 0.8); got != tc.want {
			t.Errorf("classifyBand(%.1f) = %q, want %q", tc.wauPct, got, tc.want)
		}
	}
}

func TestEnrichPhases_LabelsWeeks(t *testing.T) {
	s := testSettings()

	weeks := []WeekMetrics{
		{Week: 1, From: s.SemesterStart, WAUPctEnrolled: 75},
		{Week: 3, From: s.SemesterStart.AddDate(0, 0, 14), WAUPctEnrolled: 30},
		{Week: 15, From: s.SemesterStart.AddDate(0, 0, 98), WAUPctEnrolled: 50},
	}
	EnrichPhases(weeks, s)

	if weeks[0].Phase != PhaseLaunch || weeks[0].PhaseStatus != StatusOnTrack {
		t.Errorf("week 1 = %s/%s, want Launch/On Track", weeks[0].Phase, weeks[0].PhaseStatus)
	}
	if weeks[1].Phase != PhaseValley || weeks[1].PhaseStatus != StatusOnTrack {
		t.Errorf("week 3 = %s/%s, want Valley/On Track", weeks[1].Phase, weeks[1].PhaseStatus)
	}
	// 50% is below the 60-80 pre-exam band but at least 80% of its floor.
	if weeks[2].Phase != PhasePreExam || weeks[2].PhaseStatus != StatusBelowExpected {
		t.Errorf("week 15 = %s/%s, want Pre-Exam/Below Expected", weeks[2].Phase, weeks[2].PhaseStatus)
	}
}

func recoveryWeeks(wauPct ...float64) []WeekMetrics {
	weeks := make([]WeekMetrics, len(wauPct))
	for i, p := range wauPct {
		weeks[i] = WeekMetrics{Week: i + 1, WAUPctEnrolled: p}
	}
	return weeks
}

func TestEnrichRecovery_Classification(t *testing.T) {
	// Valley floor is the minimum of weeks 4-8: 20.
	weeks := recoveryWeeks(80, 70, 40, 30, 20, 22, 25, 28, 24, 19, 17)
	EnrichPhases(weeks, testSettings())

	tests := []struct {
		week       int
		wantPct    float64
		wantStatus string
	}{
		{9, 120, RecoveryRecovering},
		{10, 95, RecoveryFlat},
		{11, 85, RecoveryDeclining},
	}
	for _, tc := range tests {
		w := weeks[tc.week-1]
		if math.Abs(w.RecoveryPct-tc.wantPct) > 0.01 {
			t.Errorf("week %d: RecoveryPct = %.1f, want %.1f", tc.week, w.RecoveryPct, tc.wantPct)
		}
		if w.RecoveryStatus != tc.wantStatus {
			t.Errorf("week %d: RecoveryStatus = %q, want %q", tc.week, w.RecoveryStatus, tc.wantStatus)
		}
	}

	// Pre-valley weeks never get a recovery label.
	for _, w := range weeks[:8] {
		if w.RecoveryStatus != "" || w.RecoveryPct != 0 {
			t.Errorf("week %d: unexpected recovery %q/%.1f", w.Week, w.RecoveryStatus, w.RecoveryPct)
		}
	}
}

func TestEnrichRecovery_Boundaries(t *testing.T) {
	// Floor 20; week 9 at exactly 110% and week 10 at exactly 90%.
	weeks := recoveryWeeks(80, 70, 40, 20, 25, 25, 25, 25, 22, 18)
	EnrichPhases(weeks, testSettings())

	if got := weeks[8].RecoveryStatus; got != RecoveryRecovering {
		t.Errorf("110%% of floor = %q, want Recovering", got)
	}
	if got := weeks[9].RecoveryStatus; got != RecoveryFlat {
		t.Errorf("90%% of floor = %q, want Flat", got)
	}
}

func TestEnrichRecovery_NeedsNineWeeks(t *testing.T) {
	weeks := recoveryWeeks(80, 70, 40, 20, 22, 25, 28, 30)
	EnrichPhases(weeks, testSettings())

	for _, w := range weeks {
		if w.RecoveryStatus != "" {
			t.Errorf("week %d: RecoveryStatus = %q with only 8 weeks of history", w.Week, w.RecoveryStatus)
		}
	}
}

func TestEnrichRecovery_ZeroFloorSkipped(t *testing.T) {
	weeks := recoveryWeeks(80, 70, 40, 0, 0, 0, 0, 0, 25)
	EnrichPhases(weeks, testSettings())

	if weeks[8].RecoveryStatus != "" {
		t.Errorf("RecoveryStatus = %q, want unset when the floor is zero", weeks[8].RecoveryStatus)
	}
}
