package output

import (
	"fmt"
	"strings"
)

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// PercentBar renders a visual bar for a 0-100 percentage.
// Example: "████████░░░░░░░░░░░░ 40%"
func PercentBar(pct float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((pct / 100.0) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	var style func(string) string
	switch {
	case pct >= 60:
		style = func(s string) string { return StyleSuccess.Render(s) }
	case pct >= 25:
		style = func(s string) string { return StyleWarning.Render(s) }
	default:
		style = func(s string) string { return StyleError.Render(s) }
	}

	return fmt.Sprintf("%s %s", style(bar), StyleMuted.Render(fmt.Sprintf("%.0f%%", pct)))
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
// The higherIsBetter parameter controls which direction renders green.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := (isPositive && higherIsBetter) || (!isPositive && !higherIsBetter)

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.1f", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.1f", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// Minutes formats a duration in minutes for display, switching to hours
// above 90 minutes.
func Minutes(m float64) string {
	if m >= 90 {
		return fmt.Sprintf("%.1fh", m/60)
	}
	return fmt.Sprintf("%.0fm", m)
}

// PhaseStatus returns a styled rendering of a phase classification label.
func PhaseStatus(status string) string {
	switch status {
	case "On Track", "Above Expected", "Recovering":
		return StyleSuccess.Render(status)
	case "Below Expected", "Flat":
		return StyleWarning.Render(status)
	case "Critical", "Still Declining":
		return StyleError.Render(status)
	}
	return StyleMuted.Render(status)
}
