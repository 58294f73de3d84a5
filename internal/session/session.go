// Package session is the game session engine: a mutex-guarded state machine
// that serves questions, runs the per-question countdown, scores answers and
// hands out the final submission exactly once.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/scores"
)

// Options configures an Engine. Game and Source are required.
type Options struct {
	Game      games.Game
	Source    games.Source
	Scheduler Scheduler      // default ClockScheduler
	Profiles  games.Profiles // default games.DefaultProfiles()
	Total     int            // questions per game, default TotalQuestions
	Now       func() time.Time
}

// Engine runs one game at a time. All methods are safe for concurrent use;
// timer callbacks and user input are serialized by mu, and a generation
// counter drops callbacks from timers that were stopped after firing.
type Engine struct {
	mu sync.Mutex

	game     games.Game
	source   games.Source
	sched    Scheduler
	profiles games.Profiles
	total    int
	now      func() time.Time
	events   chan State

	phase      Phase
	pausedFrom Phase
	difficulty games.Difficulty
	question   games.Question
	number     int
	remaining  int
	score      int
	streak     int
	answered   int
	correct    int
	last       *AnswerResult
	startedAt  time.Time
	timeTaken  int
	newBest    bool
	err        error

	ticker   Task
	feedback Task
	gen      uint64

	submission *scores.Submission
	latched    bool
}

// New returns an engine in PhaseDifficultySelect.
func New(opts Options) *Engine {
	e := &Engine{
		game:     opts.Game,
		source:   opts.Source,
		sched:    opts.Scheduler,
		profiles: opts.Profiles,
		total:    opts.Total,
		now:      opts.Now,
		events:   make(chan State, 16),
	}
	if e.source == nil {
		e.source = games.NewLocalSource(opts.Game, nil)
	}
	if e.sched == nil {
		e.sched = ClockScheduler{}
	}
	if e.profiles == nil {
		e.profiles = games.DefaultProfiles()
	}
	if e.total <= 0 {
		e.total = TotalQuestions
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Events delivers a snapshot after every state change. Sends never block;
// a slow reader misses intermediate states but State is always current.
func (e *Engine) Events() <-chan State {
	return e.events
}

// State returns a snapshot of the session.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// SelectDifficulty starts a game at d. It is ignored outside
// PhaseDifficultySelect.
func (e *Engine) SelectDifficulty(d games.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("select difficulty: %w", games.ErrUnknownDifficulty)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseDifficultySelect {
		return nil
	}
	e.difficulty = d
	e.startedAt = e.now()
	e.nextQuestion()
	e.publish()
	return nil
}

// Answer submits option index for the current question. Out-of-range indexes
// and calls outside PhasePlaying are ignored.
func (e *Engine) Answer(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhasePlaying || index < 0 || index >= len(e.question.Options) {
		return
	}
	e.resolve(index)
	e.publish()
}

// RequestClose asks to leave. From game-over, difficulty select, or before
// the first answer it closes at once; otherwise it pauses behind a confirm.
func (e *Engine) RequestClose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case PhaseExitConfirm, PhaseClosed:
		return
	case PhasePlaying, PhaseAnswered:
		if e.answered > 0 {
			e.pausedFrom = e.phase
			e.stopTimers()
			e.phase = PhaseExitConfirm
			e.publish()
			return
		}
	}
	e.close()
	e.publish()
}

// Resume leaves the quit dialog. The countdown continues from where it
// stopped; a pending feedback delay starts over.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseExitConfirm {
		return
	}
	e.phase = e.pausedFrom
	switch e.phase {
	case PhasePlaying:
		e.startTicker()
	case PhaseAnswered:
		e.startFeedback()
	}
	e.publish()
}

// ConfirmExit abandons the game from the quit dialog.
func (e *Engine) ConfirmExit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseExitConfirm {
		return
	}
	e.close()
	e.publish()
}

// PlayAgain returns a finished game to difficulty select.
func (e *Engine) PlayAgain() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseGameOver {
		return
	}
	e.reset()
	e.publish()
}

// Submission returns the final result the first time it is called after a
// game ends, and false on every later call.
func (e *Engine) Submission() (scores.Submission, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.submission == nil || e.latched {
		return scores.Submission{}, false
	}
	e.latched = true
	return *e.submission, true
}

// MarkNewBest records the server's verdict on the finished game.
func (e *Engine) MarkNewBest(newBest bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseGameOver {
		return
	}
	e.newBest = newBest
	e.publish()
}

// Stop cancels any pending timers without changing state. Hosts call it on
// teardown.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimers()
}

// nextQuestion presents the next question and restarts the countdown.
func (e *Engine) nextQuestion() {
	q, err := e.source.Next(context.Background(), e.difficulty)
	if err == nil {
		err = games.CheckQuestion(q)
	}
	if err != nil {
		log.Printf("session: next question for %s: %v", e.game.ID, err)
		e.close()
		e.err = err
		return
	}
	e.question = q
	e.number++
	e.remaining = e.profiles.Get(e.difficulty).TimePerQuestion
	e.phase = PhasePlaying
	e.startTicker()
}

func (e *Engine) startTicker() {
	e.stopTimers()
	gen := e.gen
	e.ticker = e.sched.Every(time.Second, func() { e.onTick(gen) })
}

func (e *Engine) startFeedback() {
	e.stopTimers()
	gen := e.gen
	delay := WrongDelay
	if e.last != nil && e.last.Correct {
		delay = CorrectDelay
	}
	e.feedback = e.sched.After(delay, func() { e.onFeedbackDone(gen) })
}

// stopTimers cancels both timers and invalidates callbacks already in flight.
func (e *Engine) stopTimers() {
	e.gen++
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
	if e.feedback != nil {
		e.feedback.Stop()
		e.feedback = nil
	}
}

func (e *Engine) onTick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.phase != PhasePlaying {
		return
	}
	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.resolve(-1)
	}
	e.publish()
}

func (e *Engine) onFeedbackDone(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.phase != PhaseAnswered {
		return
	}
	if e.answered >= e.total {
		e.finish()
	} else {
		e.nextQuestion()
	}
	e.publish()
}

// resolve scores an answer; index -1 is a timeout. Caller holds mu and has
// checked the phase.
func (e *Engine) resolve(index int) {
	e.stopTimers()
	res := &AnswerResult{
		Index:        index,
		CorrectIndex: e.question.CorrectIndex,
		Correct:      e.question.IsCorrect(index),
		TimedOut:     index < 0,
	}
	if res.Correct {
		res.Points = Points(e.remaining, e.streak)
		e.score += res.Points
		e.streak++
		e.correct++
	} else {
		e.streak = 0
	}
	e.answered++
	e.last = res
	e.phase = PhaseAnswered
	e.startFeedback()
}

func (e *Engine) finish() {
	e.stopTimers()
	e.phase = PhaseGameOver
	e.timeTaken = int(e.now().Sub(e.startedAt) / time.Second)
	profile := e.profiles.Get(e.difficulty)
	e.submission = &scores.Submission{
		GameID:     e.game.ID,
		Score:      FinalScore(e.score, profile.ScoreMultiplier),
		Category:   e.game.Category.Upper(),
		Difficulty: e.difficulty.Upper(),
		Metrics: scores.Metrics{
			TotalQuestions: e.total,
			CorrectAnswers: e.correct,
			TimeTaken:      e.timeTaken,
		},
	}
	e.latched = false
}

func (e *Engine) close() {
	e.reset()
	e.phase = PhaseClosed
}

// reset returns every field to its pristine value and stops timers.
func (e *Engine) reset() {
	e.stopTimers()
	e.phase = PhaseDifficultySelect
	e.pausedFrom = PhaseDifficultySelect
	e.difficulty = ""
	e.question = games.Question{}
	e.number = 0
	e.remaining = 0
	e.score = 0
	e.streak = 0
	e.answered = 0
	e.correct = 0
	e.last = nil
	e.startedAt = time.Time{}
	e.timeTaken = 0
	e.newBest = false
	e.err = nil
	e.submission = nil
	e.latched = false
}

func (e *Engine) snapshot() State {
	s := State{
		GameID:         e.game.ID,
		GameName:       e.game.Name,
		Phase:          e.phase,
		Difficulty:     e.difficulty,
		Question:       e.question,
		QuestionNumber: e.number,
		Total:          e.total,
		Remaining:      e.remaining,
		Score:          e.score,
		Streak:         e.streak,
		Answered:       e.answered,
		Correct:        e.correct,
		TimeTaken:      e.timeTaken,
		NewBest:        e.newBest,
		Err:            e.err,
	}
	if e.difficulty != "" {
		s.Profile = e.profiles.Get(e.difficulty)
	}
	if e.last != nil {
		last := *e.last
		s.Last = &last
	}
	if e.submission != nil {
		s.FinalScore = e.submission.Score
	}
	return s
}

func (e *Engine) publish() {
	select {
	case e.events <- e.snapshot():
	default:
	}
}
