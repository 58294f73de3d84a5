package session

import (
	"context"
	"log"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/router"
	"github.com/cglprep/blitz/internal/scoreclient"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/screen"
	sess "github.com/cglprep/blitz/internal/session"
	"github.com/cglprep/blitz/internal/ui/components"
	"github.com/cglprep/blitz/internal/ui/layout"
)

const submitTimeout = 15 * time.Second

// Config carries what a game screen needs besides the game itself.
type Config struct {
	// Submitter saves finished games. Nil plays without saving.
	Submitter scoreclient.Submitter
	// Sources builds the question source for a game. Nil, or a nil result,
	// uses the game's local generator.
	Sources  func(games.Game) games.Source
	Profiles games.Profiles
	Total    int
	// Difficulty, when set, skips the tier menu.
	Difficulty games.Difficulty
}

type difficultyChosenMsg struct {
	d games.Difficulty
}

type savedMsg struct {
	sched  *teaScheduler
	round  int
	result scores.SaveResult
	err    error
}

// SessionScreen hosts one game: tier selection, the timed questions, the
// quit dialog and the result card.
type SessionScreen struct {
	game   games.Game
	cfg    Config
	engine *sess.Engine
	sched  *teaScheduler
	state  sess.State
	menu   components.Menu
	round  int // games started on this screen

	saving  bool
	saved   *scores.SaveResult
	saveErr error
	failed  error
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.Closer = (*SessionScreen)(nil)
var _ screen.EscapeHandler = (*SessionScreen)(nil)

// New creates a game screen for g.
func New(g games.Game, cfg Config) *SessionScreen {
	var src games.Source
	if cfg.Sources != nil {
		src = cfg.Sources(g)
	}
	if src == nil {
		src = games.NewLocalSource(g, nil)
	}
	sched := newTeaScheduler()
	s := &SessionScreen{
		game:  g,
		cfg:   cfg,
		sched: sched,
		engine: sess.New(sess.Options{
			Game:      g,
			Source:    src,
			Scheduler: sched,
			Profiles:  cfg.Profiles,
			Total:     cfg.Total,
		}),
	}
	s.menu = s.difficultyMenu()
	s.state = s.engine.State()
	return s
}

func (s *SessionScreen) difficultyMenu() components.Menu {
	profiles := s.cfg.Profiles
	if profiles == nil {
		profiles = games.DefaultProfiles()
	}
	items := make([]components.MenuItem, 0, len(games.Difficulties))
	for i, d := range games.Difficulties {
		p := profiles.Get(d)
		items = append(items, components.MenuItem{
			Label: difficultyLabel(p),
			Key:   string(rune('1' + i)),
			Action: func() tea.Cmd {
				return func() tea.Msg { return difficultyChosenMsg{d: d} }
			},
		})
	}
	return components.NewMenu(items)
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.cfg.Difficulty != "" {
		return s.selectDifficulty(s.cfg.Difficulty)
	}
	return nil
}

func (s *SessionScreen) Title() string {
	return s.game.Name
}

func (s *SessionScreen) HandlesEscape() bool { return true }

// Close stops the engine's timers.
func (s *SessionScreen) Close() {
	s.engine.Stop()
	s.sched.StopAll()
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.failed != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	switch s.state.Phase {
	case sess.PhaseDifficultySelect:
		return []layout.KeyHint{
			{Key: "1-3", Description: "Pick level"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Esc", Description: "Back"},
		}
	case sess.PhasePlaying:
		return []layout.KeyHint{
			{Key: optionKeys(len(s.state.Question.Options)), Description: "Answer"},
			{Key: "Esc", Description: "Quit"},
		}
	case sess.PhaseExitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit game"},
			{Key: "N", Description: "Keep playing"},
		}
	case sess.PhaseGameOver:
		return []layout.KeyHint{
			{Key: "R", Description: "Play again"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case fireMsg:
		if msg.sched != s.sched {
			return s, nil
		}
		s.sched.Fire(msg.id)
		return s, s.sync()

	case difficultyChosenMsg:
		return s, s.selectDifficulty(msg.d)

	case savedMsg:
		if msg.sched != s.sched || msg.round != s.round {
			return s, nil
		}
		s.saving = false
		if msg.err != nil {
			s.saveErr = msg.err
			return s, nil
		}
		res := msg.result
		s.saved = &res
		s.engine.MarkNewBest(res.IsNewBest)
		s.state = s.engine.State()
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if s.failed != nil {
		return leave
	}

	key := msg.String()
	switch s.state.Phase {
	case sess.PhaseDifficultySelect:
		if key == "esc" {
			s.engine.RequestClose()
			return s.sync()
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return cmd

	case sess.PhasePlaying, sess.PhaseAnswered:
		if key == "esc" || key == "q" {
			s.engine.RequestClose()
			return s.sync()
		}
		if i, ok := optionIndex(key); ok {
			s.engine.Answer(i)
			return s.sync()
		}

	case sess.PhaseExitConfirm:
		switch key {
		case "y", "enter":
			s.engine.ConfirmExit()
			return s.sync()
		case "n", "esc":
			s.engine.Resume()
			return s.sync()
		}

	case sess.PhaseGameOver:
		switch key {
		case "r":
			s.engine.PlayAgain()
			s.round++
			s.saved, s.saveErr, s.saving = nil, nil, false
			return s.sync()
		case "esc", "enter":
			s.engine.RequestClose()
			return s.sync()
		}
	}
	return nil
}

func (s *SessionScreen) selectDifficulty(d games.Difficulty) tea.Cmd {
	if err := s.engine.SelectDifficulty(d); err != nil {
		log.Printf("session: %v", err)
		return nil
	}
	s.round++
	return s.sync()
}

// sync refreshes the cached state and reacts to phase changes.
func (s *SessionScreen) sync() tea.Cmd {
	s.state = s.engine.State()
	cmds := []tea.Cmd{s.sched.Cmds()}

	switch s.state.Phase {
	case sess.PhaseGameOver:
		if sub, ok := s.engine.Submission(); ok {
			cmds = append(cmds, s.submit(sub))
		}
	case sess.PhaseClosed:
		if s.state.Err != nil {
			s.failed = s.state.Err
			break
		}
		cmds = append(cmds, leave)
	}
	return tea.Batch(cmds...)
}

func (s *SessionScreen) submit(sub scores.Submission) tea.Cmd {
	if s.cfg.Submitter == nil {
		return nil
	}
	s.saving = true
	submitter, sched, round := s.cfg.Submitter, s.sched, s.round
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		res, err := submitter.Submit(ctx, sub)
		if err != nil {
			log.Printf("save score %s: %v", sub.GameID, err)
		}
		return savedMsg{sched: sched, round: round, result: res, err: err}
	}
}

func leave() tea.Msg { return router.PopToRootMsg{} }

// optionIndex maps "1".."9" to a zero-based option index.
func optionIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}

func optionKeys(n int) string {
	if n <= 1 {
		return "1"
	}
	return "1-" + string(rune('0'+min(n, 9)))
}
