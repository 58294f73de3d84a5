package session

import (
	"time"

	"github.com/cglprep/blitz/internal/games"
)

// Phase is where a session is in its lifecycle.
type Phase int

const (
	PhaseDifficultySelect Phase = iota // Waiting for a tier
	PhasePlaying                       // Countdown running
	PhaseAnswered                      // Showing feedback before the next question
	PhaseExitConfirm                   // Paused behind the quit dialog
	PhaseGameOver                      // Showing the result
	PhaseClosed                        // Host should tear down
)

var phaseNames = [...]string{"difficulty-select", "playing", "answered", "exit-confirm", "game-over", "closed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// TotalQuestions is the length of one game.
const TotalQuestions = 10

// Feedback delays between an answer and the next question.
const (
	CorrectDelay = 500 * time.Millisecond
	WrongDelay   = 1200 * time.Millisecond
)

// AnswerResult describes the most recent answer.
type AnswerResult struct {
	Index        int // -1 on timeout
	CorrectIndex int
	Correct      bool
	TimedOut     bool
	Points       int
}

// State is an immutable snapshot of a session.
type State struct {
	GameID     string
	GameName   string
	Phase      Phase
	Difficulty games.Difficulty
	Profile    games.Profile

	Question       games.Question
	QuestionNumber int // 1-based, 0 before the first question
	Total          int
	Remaining      int // seconds left on the current question

	Score    int // before the multiplier
	Streak   int
	Answered int
	Correct  int

	// Last is set while Phase is PhaseAnswered, and kept afterwards until the
	// next answer.
	Last *AnswerResult

	// Result fields, meaningful in PhaseGameOver.
	FinalScore int
	TimeTaken  int // whole seconds
	NewBest    bool

	Err error
}

// Accuracy is Correct/Answered.
func (s State) Accuracy() float64 {
	return Accuracy(s.Correct, s.Answered)
}

// Title is the result headline.
func (s State) Title() string {
	return ResultTitle(s.NewBest, s.Correct, s.Total)
}
