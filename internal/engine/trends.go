package engine

// trailingWindow is the moving-average window for feature usage trends.
const trailingWindow = 3

// EnrichTrends fills the week-over-week trend fields across the completed
// sequence. Primary fields are read, never altered.
func EnrichTrends(weeks []WeekMetrics) {
	if len(weeks) == 0 {
		return
	}

	// Baseline is the mean WAU% of the first two records (or the first
	// alone when only one exists).
	baseline := weeks[0].WAUPctEnrolled
	if len(weeks) >= 2 {
		baseline = (weeks[0].WAUPctEnrolled + weeks[1].WAUPctEnrolled) / 2
	}

	for i := range weeks {
		w := &weeks[i]
		w.BaselineDeviation = w.WAUPctEnrolled - baseline

		if i > 0 {
			prev := weeks[i-1]
			w.WAUChange = w.WAUCount - prev.WAUCount
			if prev.WAUCount > 0 {
				w.WAUChangePct = float64(w.WAUChange) / float64(prev.WAUCount) * 100
				w.DropRiskVelocity = float64(w.AtRiskCount-prev.AtRiskCount) / float64(prev.WAUCount)
			}
		}

		for name, fm := range w.Features {
			fm.TrailingAvg = trailingAvg(weeks[:i+1], name)
			if i > 0 {
				fm.TrailingAvgDelta = fm.TrailingAvg - trailingAvg(weeks[:i], name)
			}
			w.Features[name] = fm
		}
	}
}

// trailingAvg computes the mean feature usage percent over the last
// trailingWindow records of the prefix.
func trailingAvg(prefix []WeekMetrics, feature string) float64 {
	start := len(prefix) - trailingWindow
	if start < 0 {
		start = 0
	}
	window := prefix[start:]
	if len(window) == 0 {
		return 0
	}

	var sum float64
	for _, w := range window {
		sum += w.Features[feature].UsagePct
	}
	return sum / float64(len(window))
}
