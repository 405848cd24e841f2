package engine

// persistenceBuckets recomputes the persistence categorization over every
// user ever active, fresh each week. A user's persistence rate is their
// active-week count over the weeks elapsed so far, as a percent; buckets
// are Consistent (>= ConsistentMin), Moderate (>= ModerateMin), Sporadic
// (below). Returns each bucket's percent of all ever-active users, all
// zeros when the cohort is empty.
func (e *Engine) persistenceBuckets(week int) (consistent, moderate, sporadic float64) {
	total := e.cohort.Size()
	if total == 0 || week == 0 {
		return 0, 0, 0
	}

	var nConsistent, nModerate, nSporadic int
	for _, weeks := range e.cohort.activeWeeks {
		rate := float64(len(weeks)) / float64(week) * 100
		switch {
		case rate >= e.settings.ConsistentMin:
			nConsistent++
		case rate >= e.settings.ModerateMin:
			nModerate++
		default:
			nSporadic++
		}
	}

	n := float64(total)
	return float64(nConsistent) / n * 100,
		float64(nModerate) / n * 100,
		float64(nSporadic) / n * 100
}

// coverage counts users active in at least CoverageMinWeeks distinct weeks
// so far, and that count as a percent of enrolled. Once a user crosses the
// threshold they are counted forever after, so the count never decreases
// across weeks.
func (e *Engine) coverage(enrolled int) (count int, pct float64) {
	for _, weeks := range e.cohort.activeWeeks {
		if len(weeks) >= e.settings.CoverageMinWeeks {
			count++
		}
	}
	if enrolled > 0 {
		pct = float64(count) / float64(enrolled) * 100
	}
	return count, pct
}

// atRisk counts ever-active users whose inactivity gap has reached
// AtRiskGapWeeks as of the current week. Reported as zero before week 4:
// earlier weeks cannot distinguish churn from a slow start.
func (e *Engine) atRisk(week int) (count int, pct float64) {
	if week < 4 {
		return 0, 0
	}
	for _, last := range e.cohort.lastActive {
		if week-last >= e.settings.AtRiskGap {
			count++
		}
	}
	total := e.cohort.Size()
	if total > 0 {
		pct = float64(count) / float64(total) * 100
	}
	return count, pct
}

// reactivation measures how much of the inactive pool returned this week.
// The pool holds users whose last activity strictly before the current week
// is at least ReactivationGap weeks old; a pool member is reactivated when
// the current week appears in their active-week list. Zero before week 3,
// and zero when the pool is empty.
func (e *Engine) reactivation(week int) (poolSize int, rate float64) {
	if week <= 2 {
		return 0, 0
	}

	reactivated := 0
	for userID, weeks := range e.cohort.activeWeeks {
		last := e.cohort.lastActiveBefore(userID, week)
		if last == 0 || week-last < e.settings.ReactivationGap {
			continue
		}
		poolSize++
		if weeks[len(weeks)-1] == week {
			reactivated++
		}
	}

	if poolSize > 0 {
		rate = float64(reactivated) / float64(poolSize) * 100
	}
	return poolSize, rate
}
