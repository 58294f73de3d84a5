// Package layout draws the frame around every screen: the title bar with
// the streak counter, the key-hint footer and the too-small notice.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cglprep/blitz/internal/ui/theme"
)

const (
	MinWidth  = 64
	MinHeight = 20

	HeaderHeight = 3
	FooterHeight = 3

	// Below either threshold screens drop decorative art.
	CompactWidth  = 100
	CompactHeight = 34

	// Below this width the header leaves out the screen title.
	narrowHeader = 80
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// IsCompact reports whether a terminal of width x height should get the
// compact rendering.
func IsCompact(width, height int) bool {
	return width < CompactWidth || height < CompactHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// bar wraps content in the rounded card used for header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader renders the title bar. streak is the daily streak and played
// the number of finished games.
func RenderHeader(title string, streak, played int, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("  Blitz")
	right := lipgloss.NewStyle().Foreground(theme.Accent).
		Render(fmt.Sprintf("★ %d %s", streak, plural(streak, "day", "days"))) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("   %d played ", played))

	inner := max(width-4, 0)
	leftW, rightW := lipgloss.Width(left), lipgloss.Width(right)

	if width < narrowHeader || title == "" {
		gap := max(inner-leftW-rightW, 1)
		return bar(left+strings.Repeat(" ", gap)+right, width)
	}

	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	centerW := lipgloss.Width(center)
	leftGap := max((inner-centerW)/2-leftW, 1)
	rightGap := max(inner-leftW-leftGap-centerW-rightW, 1)
	return bar(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

// RenderFooter renders the key hints, dropping trailing ones that do not
// fit on one line.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	content := " "
	for _, h := range hints {
		part := "  " + keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if lipgloss.Width(content+part) > width-4 {
			break
		}
		content += part
	}
	return bar(content, width)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}
