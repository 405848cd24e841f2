package engine

import "time"

// recoveryMinWeeks is the history needed before recovery-from-valley is
// computed, and the first week it is reported for.
const recoveryMinWeeks = 9

// valleyFloorFirst and valleyFloorLast bound the week numbers scanned for
// the valley floor.
const (
	valleyFloorFirst = 4
	valleyFloorLast  = 8
)

// EnrichPhases labels each week with its semester phase, classifies its
// WAU% against the phase's expected band, and, once enough history exists,
// adds the recovery-from-valley classification.
func EnrichPhases(weeks []WeekMetrics, s Settings) {
	launchEnd := s.SemesterStart.AddDate(0, 0, s.LaunchDays)
	preExamStart := s.SemesterEnd.AddDate(0, 0, -s.PreExamDays)

	for i := range weeks {
		w := &weeks[i]
		w.Phase = classifyPhase(w.From, launchEnd, preExamStart)
		w.PhaseStatus = classifyBand(w.WAUPctEnrolled, bandFor(w.Phase, s), s.SoftFloorRatio)
	}

	enrichRecovery(weeks, s)
}

// classifyPhase buckets a week's start date by calendar thresholds, not
// week numbers: Launch covers the first LaunchDays of the semester,
// Pre-Exam the last PreExamDays, Valley everything between.
func classifyPhase(weekStart, launchEnd, preExamStart time.Time) string {
	if weekStart.Before(launchEnd) {
		return PhaseLaunch
	}
	if !weekStart.Before(preExamStart) {
		return PhasePreExam
	}
	return PhaseValley
}

func bandFor(phase string, s Settings) Band {
	switch phase {
	case PhaseLaunch:
		return s.LaunchBand
	case PhasePreExam:
		return s.PreExamBand
	}
	return s.ValleyBand
}

// classifyBand compares WAU% to the phase band. Below the floor there is a
// soft boundary: at or above softFloorRatio of the floor is Below Expected,
// further down is Critical.
func classifyBand(wauPct float64, band Band, softFloorRatio float64) string {
	switch {
	case wauPct > band.Max:
		return StatusAboveExpected
	case wauPct >= band.Min:
		return StatusOnTrack
	case wauPct >= band.Min*softFloorRatio:
		return StatusBelowExpected
	}
	return StatusCritical
}

// enrichRecovery computes the recovery-from-valley classification. The
// valley floor is the lowest WAU% among weeks 4-8; weeks 9 onward express
// their WAU% as a percent of that floor. Requires at least nine weeks of
// history and a positive floor.
func enrichRecovery(weeks []WeekMetrics, s Settings) {
	if len(weeks) < recoveryMinWeeks {
		return
	}

	floor := 0.0
	found := false
	for _, w := range weeks {
		if w.Week < valleyFloorFirst || w.Week > valleyFloorLast {
			continue
		}
		if !found || w.WAUPctEnrolled < floor {
			floor = w.WAUPctEnrolled
			found = true
		}
	}
	if !found || floor <= 0 {
		return
	}

	for i := range weeks {
		w := &weeks[i]
		if w.Week < recoveryMinWeeks {
			continue
		}
		w.RecoveryPct = w.WAUPctEnrolled / floor * 100
		switch {
		case w.RecoveryPct >= s.RecoveringMin:
			w.RecoveryStatus = RecoveryRecovering
		case w.RecoveryPct >= s.FlatMin:
			w.RecoveryStatus = RecoveryFlat
		default:
			w.RecoveryStatus = RecoveryDeclining
		}
	}
}
