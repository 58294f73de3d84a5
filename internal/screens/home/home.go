package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/router"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/screen"
	"github.com/cglprep/blitz/internal/screens/history"
	sessionscreen "github.com/cglprep/blitz/internal/screens/session"
	"github.com/cglprep/blitz/internal/screens/summary"
	"github.com/cglprep/blitz/internal/ui/components"
	"github.com/cglprep/blitz/internal/ui/layout"
)

// Config wires the home screen to the rest of the app.
type Config struct {
	// Scores backs personal bests, history and stats. Nil hides them.
	Scores *scores.Service
	UserID string
	Play   sessionscreen.Config
	// CheckUpdate reports a newer release, if any. Nil skips the check.
	CheckUpdate func(ctx context.Context) (latest string, ok bool)
}

type bestsLoadedMsg struct {
	bests  map[string]int
	streak int
	err    error
}

type updateAvailableMsg struct {
	latest string
}

// shelves is the Tab rotation of category filters.
var shelves = []games.Category{"", games.Quant, games.Reasoning}

// HomeScreen lists the catalogue and launches games.
type HomeScreen struct {
	cfg     Config
	catalog []games.Game
	visible []games.Game
	bests   map[string]int
	streak  int
	shelf   int
	filter  components.TextInput

	selected int
	errMsg   string
	update   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.EscapeHandler = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(cfg Config) *HomeScreen {
	h := &HomeScreen{
		cfg:     cfg,
		catalog: games.All(),
		bests:   map[string]int{},
		filter:  components.NewTextInput("filter games", 24),
	}
	h.refilter()
	return h
}

// Init reloads personal bests. The router calls it again whenever the
// player returns home.
func (h *HomeScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{h.loadBests()}
	if h.cfg.CheckUpdate != nil && h.update == "" {
		check := h.cfg.CheckUpdate
		cmds = append(cmds, func() tea.Msg {
			if latest, ok := check(context.Background()); ok {
				return updateAvailableMsg{latest: latest}
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (h *HomeScreen) loadBests() tea.Cmd {
	svc, user := h.cfg.Scores, h.cfg.UserID
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		bests, err := svc.Bests(ctx, user)
		if err != nil {
			return bestsLoadedMsg{err: err}
		}
		streak, err := svc.Streak(ctx, user)
		return bestsLoadedMsg{bests: bests, streak: streak, err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) HandlesEscape() bool { return true }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "/", Description: "Filter"},
		{Key: "Tab", Description: "Category"},
	}
	if h.cfg.Scores != nil {
		hints = append(hints,
			layout.KeyHint{Key: "H", Description: "History"},
			layout.KeyHint{Key: "S", Description: "Stats"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bestsLoadedMsg:
		if msg.err != nil {
			h.errMsg = "Could not load scores: " + msg.err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.bests = msg.bests
		h.streak = msg.streak
		return h, nil

	case updateAvailableMsg:
		h.update = msg.latest
		return h, nil

	case tea.KeyPressMsg:
		if h.filter.Focused() {
			return h, h.handleFilterKey(msg)
		}
		return h, h.handleKey(msg)
	}

	if h.filter.Focused() {
		var cmd tea.Cmd
		h.filter, cmd = h.filter.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) handleFilterKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		h.filter.Blur()
		return nil
	case "esc":
		h.filter.Reset()
		h.filter.Blur()
		h.refilter()
		return nil
	case "up", "down":
		return h.handleKey(msg)
	}
	var cmd tea.Cmd
	h.filter, cmd = h.filter.Update(msg)
	h.refilter()
	return cmd
}

func (h *HomeScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if h.selected > 0 {
			h.selected--
		}
	case "down", "j":
		if h.selected < len(h.visible)-1 {
			h.selected++
		}
	case "/":
		return h.filter.Focus()
	case "esc":
		if h.filter.Query() != "" {
			h.filter.Reset()
			h.refilter()
		}
	case "tab":
		h.shelf = (h.shelf + 1) % len(shelves)
		h.refilter()
	case "enter":
		if h.selected < len(h.visible) {
			g := h.visible[h.selected]
			play := h.cfg.Play
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: sessionscreen.New(g, play)}
			}
		}
	case "h":
		if h.cfg.Scores != nil {
			svc, user := h.cfg.Scores, h.cfg.UserID
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(svc, user)}
			}
		}
	case "s":
		if h.cfg.Scores != nil {
			svc, user := h.cfg.Scores, h.cfg.UserID
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: summary.New(svc, user)}
			}
		}
	case "q":
		return tea.Quit
	}
	return nil
}

// refilter applies the category shelf and the text filter, keeping the
// selection on the same game when it is still visible.
func (h *HomeScreen) refilter() {
	var current string
	if h.selected < len(h.visible) {
		current = h.visible[h.selected].ID
	}

	shelf := shelves[h.shelf]
	query := h.filter.Query()
	h.visible = h.visible[:0]
	for _, g := range h.catalog {
		if shelf != "" && g.Category != shelf {
			continue
		}
		if query != "" && !matches(g, query) {
			continue
		}
		h.visible = append(h.visible, g)
	}

	h.selected = 0
	for i, g := range h.visible {
		if g.ID == current {
			h.selected = i
			break
		}
	}
}

func matches(g games.Game, query string) bool {
	return strings.Contains(strings.ToLower(g.Name), query) ||
		strings.Contains(g.ID, query) ||
		strings.Contains(strings.ToLower(g.Description), query)
}

// Selected returns the highlighted game, if any.
func (h *HomeScreen) Selected() (games.Game, bool) {
	if h.selected < len(h.visible) {
		return h.visible[h.selected], true
	}
	return games.Game{}, false
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := layout.IsCompact(width, height+layout.HeaderHeight+layout.FooterHeight)
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if h.errMsg != "" {
		sections = append(sections, renderError(h.errMsg, cw))
	} else {
		sections = append(sections, renderStatsBar(len(h.bests), len(h.catalog), h.streak, shelves[h.shelf], cw))
	}
	if h.filter.Focused() || h.filter.Query() != "" {
		sections = append(sections, h.filter.View())
	}

	// Rows left after the fixed sections, the description and frame.
	used := 0
	for _, s := range sections {
		used += strings.Count(s, "\n") + 2
	}
	rows := max(height-used-6, 3)
	from, to := window(len(h.visible), h.selected, rows)
	sections = append(sections, renderGameList(h.visible, h.bests, h.selected, from, to, cw))

	if g, ok := h.Selected(); ok {
		sections = append(sections, renderDescription(g, cw))
	}
	if h.update != "" {
		sections = append(sections, renderUpdateNote(h.update, cw))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), nil, width, height)
}

// window picks the [from, to) slice of n rows that keeps selected in view.
func window(n, selected, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	from := selected - rows/2
	from = max(0, min(from, n-rows))
	return from, from + rows
}
