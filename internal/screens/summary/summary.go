package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cglprep/blitz/internal/router"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/screen"
	"github.com/cglprep/blitz/internal/ui/components"
	"github.com/cglprep/blitz/internal/ui/layout"
	"github.com/cglprep/blitz/internal/ui/theme"
)

type statsLoadedMsg struct {
	stats scores.Stats
	err   error
}

// SummaryScreen shows the player's overall stats: streak, games played,
// per-game bests and recent activity.
type SummaryScreen struct {
	svc    *scores.Service
	userID string
	stats  *scores.Stats
	errMsg string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(svc *scores.Service, userID string) *SummaryScreen {
	return &SummaryScreen{svc: svc, userID: userID}
}

func (s *SummaryScreen) Init() tea.Cmd {
	svc, user := s.svc, s.userID
	return func() tea.Msg {
		st, err := svc.Stats(context.Background(), user)
		return statsLoadedMsg{stats: st, err: err}
	}
}

func (s *SummaryScreen) Title() string {
	return "Stats"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		st := msg.stats
		s.stats = &st
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if s.stats == nil {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading stats...")
	}
	st := s.stats

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.ArcadeYellow).Bold(true).Render(
		fmt.Sprintf("★ %d day streak      %d games played      %d games tried",
			st.Streak, st.TotalGames, len(st.GameStats))))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	section := func(title string) {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(title)))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
	}

	section("Personal bests")
	if len(st.GameStats) == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render("Play a game to set your first best"))
		b.WriteString("\n")
	}
	bests := append([]scores.GameStat(nil), st.GameStats...)
	sort.SliceStable(bests, func(i, j int) bool { return bests[i].HighScore > bests[j].HighScore })
	for _, g := range bests {
		line := fmt.Sprintf("%-24s %6d   %3d plays   %s",
			g.GameName, g.HighScore, g.TotalPlayed, g.Date.Local().Format("Jan 02"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
		b.WriteString("\n")
	}

	if len(st.RecentActivity) > 0 {
		b.WriteString("\n")
		section("Recent activity")
		for _, a := range st.RecentActivity {
			line := fmt.Sprintf("%s  %-22s ", a.CreatedAt.Local().Format("Jan 02 15:04"), a.GameName) +
				components.CategoryTag(a.Category) +
				fmt.Sprintf("  %-6s %5d", a.Difficulty, a.Score)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
