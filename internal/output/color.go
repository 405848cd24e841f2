// Package output provides styled terminal rendering helpers for coursepulse.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#4db6ac")

	// ColorSuccess is used for on-track and recovering indicators.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for critical and declining indicators.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for below-expected indicators.
	ColorWarning = lipgloss.Color("#ffca28")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	// StyleHeader is used for section headers.
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// StyleSuccess is used for healthy values.
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// StyleError is used for at-risk values.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleWarning is used for cautionary values.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleMuted is used for de-emphasized text.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleLabel is used for metric labels.
	StyleLabel = lipgloss.NewStyle().
			Width(26)

	// StyleValue is used for metric values.
	StyleValue = lipgloss.NewStyle().
			Bold(true).
			Width(14)
)

// noColor tracks whether color output is disabled.
var noColor bool

func init() {
	// Piped output gets plain text without requiring --no-color.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		SetNoColor(true)
	}
}

// SetNoColor disables or enables color output globally.
// When disabled, all package-level styles are reassigned to unstyled renderers.
func SetNoColor(disabled bool) {
	noColor = disabled
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleSuccess = plain
		StyleError = plain
		StyleWarning = plain
		StyleMuted = plain
		StyleLabel = plain.Width(26)
		StyleValue = plain.Width(14)
	}
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}
