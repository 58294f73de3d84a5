package store

import (
	"context"
	"time"
)

// Attempt is one finished game as persisted in game_attempts.
type Attempt struct {
	ID             string
	UserID         string
	GameID         string
	Category       string
	Difficulty     string
	Score          int
	TotalQuestions int
	CorrectAnswers int
	TimeTaken      int // seconds
	CreatedAt      time.Time
}

// Best is the running personal best for one (user, game) pair.
type Best struct {
	UserID     string
	GameID     string
	BestScore  int
	Attempts   int
	LastPlayed time.Time
	UpdatedAt  time.Time
}

// RecordResult reports what Record did to the personal best.
type RecordResult struct {
	Attempt   Attempt
	Best      Best
	IsNewBest bool
}

// AttemptFilter narrows attempt queries. Zero values mean "no filter".
type AttemptFilter struct {
	GameID     string
	Category   string
	Difficulty string
	From       time.Time // created_at >= From
	To         time.Time // created_at <= To
	Limit      int       // max results (0 = unlimited)
	Offset     int       // applied only with a Limit
}

// ScoreRepo persists attempts and personal bests.
type ScoreRepo interface {
	// Record inserts the attempt and updates the personal best in one
	// transaction. A missing ID or CreatedAt is filled in.
	Record(ctx context.Context, a Attempt) (RecordResult, error)

	// Attempts returns the user's attempts, newest first.
	Attempts(ctx context.Context, userID string, f AttemptFilter) ([]Attempt, error)

	// CountAttempts counts the attempts matching f, ignoring Limit and Offset.
	CountAttempts(ctx context.Context, userID string, f AttemptFilter) (int, error)

	// Bests returns every personal best of the user, ordered by game ID.
	Bests(ctx context.Context, userID string) ([]Best, error)

	// TopBests returns the highest personal bests for a game across users.
	TopBests(ctx context.Context, gameID string, limit int) ([]Best, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentLLMRequests returns up to limit events, newest first.
	RecentLLMRequests(ctx context.Context, limit int) ([]LLMRequestEvent, error)
}
