package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/router"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/screen"
	"github.com/cglprep/blitz/internal/screens/home"
	"github.com/cglprep/blitz/internal/store"
	"github.com/cglprep/blitz/internal/ui/layout"
)

type stubScreen struct {
	title  string
	escape bool
	keys   []string
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) HandlesEscape() bool  { return s.escape }

var escKey = tea.KeyPressMsg{Code: tea.KeyEscape}

func TestEscPopsPlainScreens(t *testing.T) {
	m := newAppModel(Options{})
	m.router.Push(&stubScreen{title: "plain"})

	_, cmd := m.Update(escKey)
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscDeliveredToHandlers(t *testing.T) {
	m := newAppModel(Options{})
	s := &stubScreen{title: "game", escape: true}
	m.router.Push(s)

	m.Update(escKey)
	if len(s.keys) != 1 || s.keys[0] != "esc" {
		t.Errorf("expected esc forwarded, got %v", s.keys)
	}
}

func TestHeaderShowsStreak(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "blitz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	svc := scores.NewService(st.Scores())
	if _, err := svc.SaveScore(context.Background(), "asha", scores.Submission{GameID: "speed-tables", Score: 5}); err != nil {
		t.Fatalf("save: %v", err)
	}

	m := newAppModel(Options{Home: home.Config{Scores: svc, UserID: "asha"}})
	model, _ := m.Update(m.loadHeader()())
	got := model.(AppModel)
	if got.streak != 1 || got.played != 1 {
		t.Errorf("expected streak 1 and 1 played, got %d/%d", got.streak, got.played)
	}

	header := layout.RenderHeader("Home", got.streak, got.played, 120)
	if !strings.Contains(header, "★ 1 day") || !strings.Contains(header, "1 played") {
		t.Error("expected streak and played count in header")
	}
}

// flatten runs cmd and any batched commands.
func flatten(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, flatten(c)...)
	}
	return out
}

func TestStartGamePushesSession(t *testing.T) {
	g, _ := games.ByID("cube-roots")
	m := newAppModel(Options{Start: &g})
	for _, msg := range flatten(m.Init()) {
		m.Update(msg)
	}
	if m.router.Depth() != 2 || m.router.Active().Title() != "Cube Roots" {
		t.Errorf("expected the game on top, depth %d", m.router.Depth())
	}
}
