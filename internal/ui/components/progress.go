package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cglprep/blitz/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label   string
	Percent float64
	Suffix  string
	Width   int
	// Countdown colours the bar by how much is left: green, then amber
	// below half, red below a quarter.
	Countdown bool
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
	}
}

// NewCountdown returns a bar showing remaining of total seconds.
func NewCountdown(remaining, total, width int) ProgressBar {
	var pct float64
	if total > 0 {
		pct = float64(remaining) / float64(total)
	}
	return ProgressBar{
		Label:     "⏱",
		Percent:   pct,
		Suffix:    fmt.Sprintf("%2ds", remaining),
		Width:     width,
		Countdown: true,
	}
}

func (p ProgressBar) fill() color.Color {
	if !p.Countdown {
		return theme.Secondary
	}
	switch {
	case p.Percent <= 0.25:
		return theme.Error
	case p.Percent <= 0.5:
		return theme.Warning
	default:
		return theme.Success
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := ""
	if p.Suffix != "" {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + p.Suffix)
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))

	result += lipgloss.NewStyle().Background(p.fill()).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	return result + suffix
}
