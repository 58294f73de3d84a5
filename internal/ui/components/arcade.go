package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/cglprep/blitz/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every box on a screen.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

// CabinetFrame wraps content in a double border, centred in width x height.
// A nil accent uses the primary colour.
func CabinetFrame(content string, accent color.Color, width, height int) string {
	if accent == nil {
		accent = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

func buttonStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
}

// ArcadeButton renders one row of an arcade menu.
func ArcadeButton(label string, selected bool, width int) string {
	if selected {
		return buttonStyle(width).
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return buttonStyle(width).
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}

// DisabledButton renders a menu row that cannot be chosen.
func DisabledButton(label string, width int) string {
	return buttonStyle(width).
		Foreground(theme.TextDim).
		BorderForeground(theme.BgCard).
		Render(label)
}

// CategoryColor is the accent for QUANT or REASONING games.
func CategoryColor(category string) color.Color {
	if category == "REASONING" {
		return theme.Reasoning
	}
	return theme.Quant
}

// CategoryTag renders a short coloured tag such as QUANT or REASONING.
func CategoryTag(category string) string {
	return lipgloss.NewStyle().Foreground(CategoryColor(category)).Bold(true).Render(category)
}
