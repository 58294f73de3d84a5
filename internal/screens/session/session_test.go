package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/router"
	"github.com/cglprep/blitz/internal/scores"
	sess "github.com/cglprep/blitz/internal/session"
)

// fixedSource always serves the same question.
type fixedSource struct {
	q   games.Question
	err error
}

func (f fixedSource) Next(context.Context, games.Difficulty) (games.Question, error) {
	return f.q, f.err
}

type recordingSubmitter struct {
	mu     sync.Mutex
	subs   []scores.Submission
	result scores.SaveResult
	err    error
}

func (r *recordingSubmitter) Submit(_ context.Context, sub scores.Submission) (scores.SaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	return r.result, r.err
}

var testQuestion = games.Question{Prompt: "7 × 8 = ?", Options: []string{"54", "56", "58", "64"}, CorrectIndex: 1}

func testGame() games.Game {
	g, _ := games.ByID("speed-tables")
	return g
}

func newTestScreen(t *testing.T, cfg Config) *SessionScreen {
	t.Helper()
	if cfg.Sources == nil {
		cfg.Sources = func(games.Game) games.Source { return fixedSource{q: testQuestion} }
	}
	s := New(testGame(), cfg)
	// Ticks resolve immediately so commands can be run inline.
	s.sched.tick = func(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		return func() tea.Msg { return fn(time.Time{}) }
	}
	return s
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var escKey = tea.KeyPressMsg{Code: tea.KeyEscape}

// collect runs cmd and every batched command, returning the messages
// produced. Fire messages are returned, not delivered.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func press(s *SessionScreen, r rune) tea.Cmd {
	_, cmd := s.Update(keyPress(r))
	return cmd
}

// resolveMenu delivers the message a menu action produced.
func resolveMenu(t *testing.T, s *SessionScreen, r rune) tea.Cmd {
	t.Helper()
	msgs := collect(press(s, r))
	if len(msgs) != 1 {
		t.Fatalf("expected one message from the level menu, got %d", len(msgs))
	}
	_, cmd := s.Update(msgs[0])
	return cmd
}

// fireFeedback delivers the pending feedback timer.
func fireFeedback(t *testing.T, s *SessionScreen) tea.Cmd {
	t.Helper()
	for _, id := range s.sched.live() {
		if !s.sched.tasks[id].every {
			_, cmd := s.Update(fireMsg{sched: s.sched, id: id})
			return cmd
		}
	}
	t.Fatal("no feedback timer pending")
	return nil
}

func hasMsg[T any](msgs []tea.Msg) bool {
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			return true
		}
	}
	return false
}

func TestSessionScreen_Title(t *testing.T) {
	s := newTestScreen(t, Config{})
	if s.Title() != "Speed Tables" {
		t.Errorf("Title = %q, want %q", s.Title(), "Speed Tables")
	}
}

func TestSessionScreen_DifficultyByKey(t *testing.T) {
	s := newTestScreen(t, Config{})
	resolveMenu(t, s, '3')

	if s.state.Phase != sess.PhasePlaying {
		t.Fatalf("expected playing, got %s", s.state.Phase)
	}
	if s.state.Difficulty != games.Hard {
		t.Errorf("expected hard, got %s", s.state.Difficulty)
	}
	if s.state.Remaining != 5 {
		t.Errorf("expected 5s on the clock, got %d", s.state.Remaining)
	}
}

func TestSessionScreen_PresetDifficulty(t *testing.T) {
	s := newTestScreen(t, Config{Difficulty: games.Medium})
	s.Init()
	if s.state.Phase != sess.PhasePlaying || s.state.Difficulty != games.Medium {
		t.Fatalf("expected medium game in progress, got %s/%s", s.state.Phase, s.state.Difficulty)
	}
}

func TestSessionScreen_CountdownTicks(t *testing.T) {
	s := newTestScreen(t, Config{Difficulty: games.Easy})
	msgs := collect(s.Init())
	if len(msgs) != 1 {
		t.Fatalf("expected the ticker to be armed, got %d messages", len(msgs))
	}

	_, cmd := s.Update(msgs[0])
	if s.state.Remaining != 11 {
		t.Errorf("expected 11s left after one tick, got %d", s.state.Remaining)
	}
	if !hasMsg[fireMsg](collect(cmd)) {
		t.Error("expected the ticker to re-arm")
	}
}

func TestSessionScreen_StaleTimerIgnored(t *testing.T) {
	s := newTestScreen(t, Config{Difficulty: games.Easy})
	msgs := collect(s.Init())
	press(s, '2')

	s.Update(msgs[0])
	if s.state.Phase != sess.PhaseAnswered {
		t.Errorf("stopped ticker must not fire, phase %s", s.state.Phase)
	}

	other := newTeaScheduler()
	s.Update(fireMsg{sched: other, id: 1})
	if s.state.Phase != sess.PhaseAnswered {
		t.Error("timer from another screen must be ignored")
	}
}

func TestSessionScreen_AnswerAndFeedback(t *testing.T) {
	s := newTestScreen(t, Config{Difficulty: games.Easy})
	s.Init()

	press(s, '2')
	if s.state.Phase != sess.PhaseAnswered || s.state.Last == nil || !s.state.Last.Correct {
		t.Fatalf("expected a correct answer, got %+v", s.state.Last)
	}
	if !strings.Contains(s.View(100, 30), "Correct!") {
		t.Error("expected feedback in view")
	}

	fireFeedback(t, s)
	if s.state.Phase != sess.PhasePlaying || s.state.QuestionNumber != 2 {
		t.Errorf("expected question 2, got %s q%d", s.state.Phase, s.state.QuestionNumber)
	}
}

func TestSessionScreen_OutOfRangeKeyIgnored(t *testing.T) {
	s := newTestScreen(t, Config{Difficulty: games.Easy})
	s.Init()
	press(s, '9')
	if s.state.Phase != sess.PhasePlaying {
		t.Errorf("expected key 9 to be ignored, phase %s", s.state.Phase)
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s := newTestScreen(t, Config{Difficulty: games.Easy})
	s.Init()
	press(s, '2')
	fireFeedback(t, s)

	s.Update(escKey)
	if s.state.Phase != sess.PhaseExitConfirm {
		t.Fatalf("expected exit confirm, got %s", s.state.Phase)
	}
	if !strings.Contains(s.View(100, 30), "Quit this game?") {
		t.Error("expected quit dialog in view")
	}

	press(s, 'n')
	if s.state.Phase != sess.PhasePlaying {
		t.Fatalf("expected resume to playing, got %s", s.state.Phase)
	}

	s.Update(escKey)
	cmd := press(s, 'y')
	if s.state.Phase != sess.PhaseClosed {
		t.Fatalf("expected closed, got %s", s.state.Phase)
	}
	if !hasMsg[router.PopToRootMsg](collect(cmd)) {
		t.Error("expected the screen to return home")
	}
}

func TestExitConfirmWarnsAboutStreak(t *testing.T) {
	hot := renderExitConfirm(sess.State{QuestionNumber: 5, Total: 10, Streak: 3}, 64)
	if !strings.Contains(hot, "3-streak") || !strings.Contains(hot, "breaks your rhythm") {
		t.Errorf("expected a streak warning, got %q", hot)
	}

	cold := renderExitConfirm(sess.State{QuestionNumber: 5, Total: 10, Streak: 2}, 64)
	if strings.Contains(cold, "streak") {
		t.Errorf("expected no streak warning at 2, got %q", cold)
	}
	if !strings.Contains(cold, "will be lost") {
		t.Errorf("expected the plain warning, got %q", cold)
	}
}

func TestSessionScreen_EscBeforeFirstAnswerLeaves(t *testing.T) {
	s := newTestScreen(t, Config{Difficulty: games.Easy})
	s.Init()
	_, cmd := s.Update(escKey)
	if s.state.Phase != sess.PhaseClosed {
		t.Fatalf("expected immediate close, got %s", s.state.Phase)
	}
	if !hasMsg[router.PopToRootMsg](collect(cmd)) {
		t.Error("expected return home")
	}
}

func playToEnd(t *testing.T, s *SessionScreen) tea.Cmd {
	t.Helper()
	s.Init()
	var last tea.Cmd
	for s.state.Phase != sess.PhaseGameOver {
		press(s, '2')
		last = fireFeedback(t, s)
	}
	return last
}

func TestSessionScreen_GameOverSubmitsOnce(t *testing.T) {
	sub := &recordingSubmitter{result: scores.SaveResult{GameID: "speed-tables", BestScore: 999, IsNewBest: true}}
	s := newTestScreen(t, Config{Difficulty: games.Medium, Total: 3, Submitter: sub})

	msgs := collect(playToEnd(t, s))
	if len(sub.subs) != 1 {
		t.Fatalf("expected one submission, got %d", len(sub.subs))
	}
	got := sub.subs[0]
	if got.GameID != "speed-tables" || got.Difficulty != "MEDIUM" || got.Category != "QUANT" {
		t.Errorf("unexpected submission %+v", got)
	}
	if got.Metrics.TotalQuestions != 3 || got.Metrics.CorrectAnswers != 3 {
		t.Errorf("unexpected metrics %+v", got.Metrics)
	}
	if s.state.FinalScore != got.Score {
		t.Errorf("final score %d differs from submitted %d", s.state.FinalScore, got.Score)
	}

	for _, m := range msgs {
		if saved, ok := m.(savedMsg); ok {
			s.Update(saved)
		}
	}
	if !s.state.NewBest {
		t.Error("expected new best from the save result")
	}
	if !strings.Contains(s.View(100, 30), "New personal best") {
		t.Error("expected new best banner in view")
	}

	s.Update(keyPress('x'))
	if len(sub.subs) != 1 {
		t.Errorf("extra keys must not resubmit, got %d", len(sub.subs))
	}
}

func TestSessionScreen_SaveFailureShown(t *testing.T) {
	sub := &recordingSubmitter{err: errors.New("server unreachable")}
	s := newTestScreen(t, Config{Difficulty: games.Easy, Total: 1, Submitter: sub})

	for _, m := range collect(playToEnd(t, s)) {
		if saved, ok := m.(savedMsg); ok {
			s.Update(saved)
		}
	}
	if !strings.Contains(s.View(100, 30), "Score not saved") {
		t.Error("expected save failure in view")
	}
	if s.state.Phase != sess.PhaseGameOver {
		t.Errorf("save failure must not leave the result, phase %s", s.state.Phase)
	}
}

func TestSessionScreen_PlayAgain(t *testing.T) {
	sub := &recordingSubmitter{}
	s := newTestScreen(t, Config{Total: 1, Submitter: sub})
	resolveMenu(t, s, '1')
	press(s, '2')
	first := collect(fireFeedback(t, s))

	press(s, 'r')
	if s.state.Phase != sess.PhaseDifficultySelect {
		t.Fatalf("expected difficulty select, got %s", s.state.Phase)
	}
	resolveMenu(t, s, '2')
	press(s, '1')
	collect(fireFeedback(t, s))
	if len(sub.subs) != 2 {
		t.Errorf("expected a submission per game, got %d", len(sub.subs))
	}

	for _, m := range first {
		if saved, ok := m.(savedMsg); ok {
			s.Update(saved)
		}
	}
	if s.saved != nil {
		t.Error("a late save from the previous game must be ignored")
	}
}

func TestSessionScreen_SourceFailure(t *testing.T) {
	s := newTestScreen(t, Config{
		Difficulty: games.Easy,
		Sources: func(games.Game) games.Source {
			return fixedSource{err: errors.New("no questions")}
		},
	})
	if msgs := collect(s.Init()); hasMsg[router.PopToRootMsg](msgs) {
		t.Fatal("failure should be shown before leaving")
	}
	if !strings.Contains(s.View(100, 30), "could not continue") {
		t.Error("expected failure card")
	}
	if !hasMsg[router.PopToRootMsg](collect(press(s, 'x'))) {
		t.Error("expected any key to leave")
	}
}

func TestSessionScreen_CloseStopsTimers(t *testing.T) {
	s := newTestScreen(t, Config{Difficulty: games.Easy})
	s.Init()
	s.Close()
	if n := len(s.sched.live()); n != 0 {
		t.Errorf("expected no live timers after Close, got %d", n)
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s := newTestScreen(t, Config{})
	if hints := s.KeyHints(); len(hints) != 3 {
		t.Errorf("difficulty hints = %d, want 3", len(hints))
	}
	resolveMenu(t, s, '1')
	hints := s.KeyHints()
	if len(hints) != 2 || hints[0].Key != "1-4" {
		t.Errorf("unexpected playing hints %+v", hints)
	}
}
