package history

import (
	"context"
	"fmt"
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

const pageSize = 10

var (
	categories   = []string{"ALL", "QUANT", "REASONING"}
	difficulties = []string{"ALL", "EASY", "MEDIUM", "HARD"}
)

type historyLoadedMsg struct {
	query scores.HistoryQuery
	page  scores.HistoryPage
	err   error
}

// HistoryScreen pages through past games, newest first.
type HistoryScreen struct {
	svc    *scores.Service
	userID string

	page       int
	category   int
	difficulty int

	result   scores.HistoryPage
	selected int
	expanded map[string]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc *scores.Service, userID string) *HistoryScreen {
	return &HistoryScreen{
		svc:      svc,
		userID:   userID,
		page:     1,
		expanded: make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) query() scores.HistoryQuery {
	return scores.HistoryQuery{
		Page:       s.page,
		Limit:      pageSize,
		Category:   categories[s.category],
		Difficulty: difficulties[s.difficulty],
	}
}

func (s *HistoryScreen) load() tea.Cmd {
	svc, user, q := s.svc, s.userID, s.query()
	return func() tea.Msg {
		page, err := svc.History(context.Background(), user, q)
		return historyLoadedMsg{query: q, page: page, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Page"},
		{Key: "C", Description: "Category"},
		{Key: "D", Description: "Level"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		// Drop answers to superseded queries.
		if msg.query != s.query() {
			return s, nil
		}
		s.loaded = true
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.result = msg.page
		s.selected = min(s.selected, max(len(msg.page.History)-1, 0))
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.result.History)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.result.History) {
				id := s.result.History[s.selected].ID
				s.expanded[id] = !s.expanded[id]
			}
		case "left", "h":
			if s.page > 1 {
				s.page--
				return s, s.reload()
			}
		case "right", "l":
			if s.page < s.result.Pagination.Pages {
				s.page++
				return s, s.reload()
			}
		case "c":
			s.category = (s.category + 1) % len(categories)
			s.page = 1
			return s, s.reload()
		case "d":
			s.difficulty = (s.difficulty + 1) % len(difficulties)
			s.page = 1
			return s, s.reload()
		}
	}
	return s, nil
}

func (s *HistoryScreen) reload() tea.Cmd {
	s.selected = 0
	return s.load()
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.ArcadeCyan).Render(fmt.Sprintf(
		"Category: %s   Level: %s   Page %d/%d   (%d games)",
		categories[s.category], difficulties[s.difficulty],
		s.result.Pagination.Page, max(s.result.Pagination.Pages, 1), s.result.Pagination.Total)))
	b.WriteString("\n\n")

	if len(s.result.History) == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).
			Render("No games yet. Pick one from the home screen!"))
		return b.String()
	}

	for i, item := range s.result.History {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}

		line := style.Render(fmt.Sprintf("%s%s  %-22s", prefix, item.CreatedAt.Local().Format("Jan 02 15:04"), item.GameName)) +
			"  " + components.CategoryTag(item.Category) +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %-6s", item.Difficulty)) +
			lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(fmt.Sprintf("%6d", item.Score))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")

		if s.expanded[item.ID] {
			m := item.Metrics
			accuracy := 0.0
			if m.TotalQuestions > 0 {
				accuracy = float64(m.CorrectAnswers) / float64(m.TotalQuestions) * 100
			}
			detail := fmt.Sprintf("    %d/%d correct   %.0f%% accuracy   %ds",
				m.CorrectAnswers, m.TotalQuestions, accuracy, m.TimeTaken)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
