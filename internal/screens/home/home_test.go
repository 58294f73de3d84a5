package home

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/router"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/store"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(h *HomeScreen, text string) {
	for _, r := range text {
		h.Update(key(r))
	}
}

func TestHomeScreen_ListsCatalogue(t *testing.T) {
	h := New(Config{})
	if len(h.visible) != len(games.All()) {
		t.Fatalf("expected full catalogue, got %d", len(h.visible))
	}
	view := h.View(120, 40)
	if !strings.Contains(view, "Speed Tables") {
		t.Error("expected the first game in view")
	}
}

func TestHomeScreen_Navigation(t *testing.T) {
	h := New(Config{})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(key('j'))
	if g, _ := h.Selected(); g.ID != games.All()[2].ID {
		t.Errorf("expected third game selected, got %s", g.ID)
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if h.selected != 1 {
		t.Errorf("expected selection 1, got %d", h.selected)
	}
}

func TestHomeScreen_EnterPushesGame(t *testing.T) {
	h := New(Config{})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if push.Screen.Title() != "Speed Tables" {
		t.Errorf("expected the selected game, got %q", push.Screen.Title())
	}
}

func TestHomeScreen_TextFilter(t *testing.T) {
	h := New(Config{})
	h.Update(key('/'))
	if !h.filter.Focused() {
		t.Fatal("expected / to focus the filter")
	}
	typeText(h, "cube")
	if len(h.visible) != 1 || h.visible[0].ID != "cube-roots" {
		t.Fatalf("expected only cube-roots, got %d games", len(h.visible))
	}

	// Keys typed into the filter must not trigger shortcuts.
	h.Update(key('q'))
	if len(h.visible) != 0 {
		t.Errorf("expected no match for cubeq, got %d", len(h.visible))
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if h.filter.Focused() || len(h.visible) != len(games.All()) {
		t.Error("expected Esc to clear the filter")
	}
}

func TestHomeScreen_CategoryShelf(t *testing.T) {
	h := New(Config{})
	h.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	for _, g := range h.visible {
		if g.Category != games.Quant {
			t.Fatalf("expected quant only, got %s", g.ID)
		}
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if len(h.visible) != len(games.ByCategory(games.Reasoning)) {
		t.Errorf("expected reasoning shelf, got %d", len(h.visible))
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if len(h.visible) != len(games.All()) {
		t.Error("expected the shelf to wrap to all games")
	}
}

func TestHomeScreen_SelectionSurvivesFilter(t *testing.T) {
	h := New(Config{})
	for h.visible[h.selected].ID != "mirror-image" {
		h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	h.Update(tea.KeyPressMsg{Code: tea.KeyTab}) // quant: mirror-image hidden
	if h.selected != 0 {
		t.Errorf("expected reset selection, got %d", h.selected)
	}
}

func TestHomeScreen_LoadsBests(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "blitz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	svc := scores.NewService(st.Scores())
	if _, err := svc.SaveScore(context.Background(), "asha",
		scores.Submission{GameID: "speed-tables", Score: 321}); err != nil {
		t.Fatalf("save: %v", err)
	}

	h := New(Config{Scores: svc, UserID: "asha"})
	h.Update(h.loadBests()())
	if h.bests["speed-tables"] != 321 || h.streak != 1 {
		t.Errorf("unexpected bests %v streak %d", h.bests, h.streak)
	}
	if !strings.Contains(h.View(120, 40), "321") {
		t.Error("expected the best score in view")
	}

	_, cmd := h.Update(key('h'))
	if push, ok := cmd().(router.PushScreenMsg); !ok || push.Screen.Title() != "History" {
		t.Error("expected h to open history")
	}
	_, cmd = h.Update(key('s'))
	if push, ok := cmd().(router.PushScreenMsg); !ok || push.Screen.Title() != "Stats" {
		t.Error("expected s to open stats")
	}
}

func TestHomeScreen_NoScoresHidesShortcuts(t *testing.T) {
	h := New(Config{})
	if _, cmd := h.Update(key('h')); cmd != nil {
		t.Error("history needs a score service")
	}
}

func TestHomeScreen_UpdateNote(t *testing.T) {
	h := New(Config{CheckUpdate: func(context.Context) (string, bool) { return "v2.0.0", true }})
	h.Update(updateAvailableMsg{latest: "v2.0.0"})
	if !strings.Contains(h.View(120, 40), "v2.0.0") {
		t.Error("expected update note")
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, selected, rows int
		from, to          int
	}{
		{5, 0, 10, 0, 5},
		{26, 0, 8, 0, 8},
		{26, 12, 8, 8, 16},
		{26, 25, 8, 18, 26},
	}
	for _, tt := range tests {
		from, to := window(tt.n, tt.selected, tt.rows)
		if from != tt.from || to != tt.to {
			t.Errorf("window(%d,%d,%d) = %d,%d want %d,%d",
				tt.n, tt.selected, tt.rows, from, to, tt.from, tt.to)
		}
	}
}
