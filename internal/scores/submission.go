package scores

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSubmission marks a request the caller must fix.
	ErrInvalidSubmission = errors.New("invalid score submission")
	// ErrUnauthorized marks a request without a usable identity.
	ErrUnauthorized = errors.New("unauthorized")
)

// Metrics describes how a finished game went.
type Metrics struct {
	TotalQuestions int `json:"totalQuestions"`
	CorrectAnswers int `json:"correctAnswers"`
	TimeTaken      int `json:"timeTaken"` // whole seconds
}

// Submission is the body a client posts once per completed game. Score is
// already multiplied and rounded. Category and Difficulty travel in upper
// case ("QUANT", "MEDIUM").
type Submission struct {
	GameID     string  `json:"gameId"`
	Score      int     `json:"score"`
	Category   string  `json:"category"`
	Difficulty string  `json:"difficulty"`
	Metrics    Metrics `json:"metrics"`
}

// SaveResult is what the server answers to a submission.
type SaveResult struct {
	GameID    string `json:"gameId"`
	BestScore int    `json:"bestScore"`
	IsNewBest bool   `json:"isNewBest"`
}

// Normalize fills defaults and upper-cases the enum fields. It rejects a
// missing game ID and negative numbers.
func (s Submission) Normalize() (Submission, error) {
	s.GameID = strings.TrimSpace(s.GameID)
	if s.GameID == "" {
		return s, fmt.Errorf("gameId is required: %w", ErrInvalidSubmission)
	}
	if s.Score < 0 || s.Metrics.TotalQuestions < 0 || s.Metrics.CorrectAnswers < 0 || s.Metrics.TimeTaken < 0 {
		return s, fmt.Errorf("negative values: %w", ErrInvalidSubmission)
	}
	if s.Metrics.CorrectAnswers > s.Metrics.TotalQuestions && s.Metrics.TotalQuestions > 0 {
		return s, fmt.Errorf("correctAnswers exceeds totalQuestions: %w", ErrInvalidSubmission)
	}
	s.Category = strings.ToUpper(strings.TrimSpace(s.Category))
	if s.Category == "" {
		s.Category = "QUANT"
	}
	s.Difficulty = strings.ToUpper(strings.TrimSpace(s.Difficulty))
	if s.Difficulty == "" {
		s.Difficulty = "MEDIUM"
	}
	return s, nil
}
