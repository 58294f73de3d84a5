package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/ui/components"
	"github.com/cglprep/blitz/internal/ui/theme"
)

const arcadeTitleFull = ` ██████╗ ██╗     ██╗████████╗███████╗
 ██╔══██╗██║     ██║╚══██╔══╝╚══███╔╝
 ██████╔╝██║     ██║   ██║     ███╔╝
 ██╔══██╗██║     ██║   ██║    ███╔╝
 ██████╔╝███████╗██║   ██║   ███████╗
 ╚═════╝ ╚══════╝╚═╝   ╚═╝   ╚══════╝`

const arcadeTitleCompact = "B · L · I · T · Z"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar shows how much of the catalogue the player has covered.
func renderStatsBar(played, total, streak int, filter games.Category, cw int) string {
	bestStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	filterStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	shelf := "ALL"
	if filter != "" {
		shelf = filter.Upper()
	}
	stats := fmt.Sprintf("%s  %s  %s",
		bestStyle.Render(fmt.Sprintf("◆ %d/%d PLAYED", played, total)),
		streakStyle.Render(fmt.Sprintf("★ %d DAY STREAK", streak)),
		filterStyle.Render("⇥ "+shelf),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderGameList renders rows [from, to) of list with the selection applied.
func renderGameList(list []games.Game, bests map[string]int, selected, from, to, cw int) string {
	if len(list) == 0 {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Italic(true).
			Render("No games match your filter")
	}

	rows := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		g := list[i]
		best := lipgloss.NewStyle().Foreground(theme.TextDim).Render("  new")
		if b, ok := bests[g.ID]; ok {
			best = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(fmt.Sprintf("%5d", b))
		}
		tag := components.CategoryTag(g.Category.Upper())

		name := g.Name
		nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "  "
		if i == selected {
			prefix = "▸ "
			nameStyle = theme.Selected
		}
		left := nameStyle.Render(prefix + name)
		right := tag + "  " + best
		gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
		rows = append(rows, left+strings.Repeat(" ", max(gap, 1))+right)
	}
	return strings.Join(rows, "\n")
}

// renderDescription shows the selected game's one-line pitch.
func renderDescription(g games.Game, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(g.Description)
}

// renderUpdateNote renders a dim one-line update notification.
func renderUpdateNote(latestVersion string, cw int) string {
	text := fmt.Sprintf("New version %s available: run blitz update", latestVersion)
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderError renders a load failure in place of the stats bar.
func renderError(msg string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Error).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ " + msg)
}
