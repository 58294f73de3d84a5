package history

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/cglprep/blitz/internal/router"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/store"
)

func seededService(t *testing.T, n int) *scores.Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "blitz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := scores.NewService(st.Scores())
	for i := 0; i < n; i++ {
		sub := scores.Submission{GameID: "speed-tables", Score: 10 * i, Category: "QUANT", Difficulty: "EASY"}
		if i%3 == 0 {
			sub = scores.Submission{GameID: "mirror-image", Score: i, Category: "REASONING", Difficulty: "HARD"}
		}
		if _, err := svc.SaveScore(context.Background(), "asha", sub); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	return svc
}

// deliver runs cmd synchronously and feeds its message back.
func deliver(s *HistoryScreen, cmd tea.Cmd) {
	if cmd != nil {
		s.Update(cmd())
	}
}

func press(s *HistoryScreen, r rune) {
	_, cmd := s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	deliver(s, cmd)
}

func TestHistoryScreen_Loads(t *testing.T) {
	s := New(seededService(t, 3), "asha")
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading view")
	}
	deliver(s, s.Init())

	if got := len(s.result.History); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	view := s.View(120, 30)
	if !strings.Contains(view, "Speed Tables") || !strings.Contains(view, "Mirror Image") {
		t.Error("expected game names in view")
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(seededService(t, 0), "asha")
	deliver(s, s.Init())
	if !strings.Contains(s.View(100, 30), "No games yet") {
		t.Error("expected empty state")
	}
}

func TestHistoryScreen_Paging(t *testing.T) {
	s := New(seededService(t, 25), "asha")
	deliver(s, s.Init())
	if s.result.Pagination.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", s.result.Pagination.Pages)
	}

	press(s, 'l')
	press(s, 'l')
	if s.page != 3 || len(s.result.History) != 5 {
		t.Errorf("expected last page with 5 rows, page %d rows %d", s.page, len(s.result.History))
	}
	press(s, 'l')
	if s.page != 3 {
		t.Errorf("expected to stay on the last page, got %d", s.page)
	}
	press(s, 'h')
	if s.page != 2 {
		t.Errorf("expected page 2, got %d", s.page)
	}
}

func TestHistoryScreen_Filters(t *testing.T) {
	s := New(seededService(t, 9), "asha")
	deliver(s, s.Init())

	press(s, 'c') // QUANT
	if s.result.Pagination.Total != 6 {
		t.Errorf("expected 6 quant games, got %d", s.result.Pagination.Total)
	}
	press(s, 'c') // REASONING
	press(s, 'd') // EASY
	if s.result.Pagination.Total != 0 {
		t.Errorf("expected no easy reasoning games, got %d", s.result.Pagination.Total)
	}
}

func TestHistoryScreen_StaleResultDropped(t *testing.T) {
	s := New(seededService(t, 4), "asha")
	stale := s.Init()
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})

	s.Update(stale())
	if s.loaded {
		t.Fatal("result for the old filter must be ignored")
	}
	deliver(s, cmd)
	if !s.loaded || s.result.Pagination.Total != 2 {
		t.Errorf("expected the quant page, got %+v", s.result.Pagination)
	}
}

func TestHistoryScreen_ExpandDetails(t *testing.T) {
	s := New(seededService(t, 2), "asha")
	deliver(s, s.Init())
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 30), "correct") {
		t.Error("expected metrics after expanding")
	}
}

func TestHistoryScreen_Back(t *testing.T) {
	s := New(seededService(t, 0), "asha")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if msg := cmd(); msg != (router.PopScreenMsg{}) {
		t.Errorf("expected PopScreenMsg, got %T", msg)
	}
}
