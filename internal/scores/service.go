package scores

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/leaderboard"
	"github.com/cglprep/blitz/internal/store"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	recentActivityLimit = 10
)

// Service implements the save/bests/history/stats operations over a
// ScoreRepo. It is shared by the HTTP API and offline play.
type Service struct {
	repo  store.ScoreRepo
	board leaderboard.Board
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithBoard mirrors every saved score into b.
func WithBoard(b leaderboard.Board) Option {
	return func(s *Service) { s.board = b }
}

// WithClock overrides time.Now, for streak calculations in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service backed by repo.
func NewService(repo store.ScoreRepo, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SaveScore records a finished game for userID and reports whether it set a
// new personal best. A first play is always a new best.
func (s *Service) SaveScore(ctx context.Context, userID string, sub Submission) (SaveResult, error) {
	if strings.TrimSpace(userID) == "" {
		return SaveResult{}, fmt.Errorf("save score: %w", ErrUnauthorized)
	}
	sub, err := sub.Normalize()
	if err != nil {
		return SaveResult{}, err
	}

	res, err := s.repo.Record(ctx, store.Attempt{
		UserID:         userID,
		GameID:         sub.GameID,
		Category:       sub.Category,
		Difficulty:     sub.Difficulty,
		Score:          sub.Score,
		TotalQuestions: sub.Metrics.TotalQuestions,
		CorrectAnswers: sub.Metrics.CorrectAnswers,
		TimeTaken:      sub.Metrics.TimeTaken,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return SaveResult{}, fmt.Errorf("save score: %w", err)
	}

	if s.board != nil {
		if _, err := s.board.Record(ctx, sub.GameID, userID, sub.Score); err != nil {
			log.Printf("leaderboard record %s: %v", sub.GameID, err)
		}
	}

	return SaveResult{
		GameID:    sub.GameID,
		BestScore: res.Best.BestScore,
		IsNewBest: res.IsNewBest,
	}, nil
}

// Bests maps each game the user has played to their best score.
func (s *Service) Bests(ctx context.Context, userID string) (map[string]int, error) {
	bests, err := s.repo.Bests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load bests: %w", err)
	}
	out := make(map[string]int, len(bests))
	for _, b := range bests {
		out[b.GameID] = b.BestScore
	}
	return out, nil
}

// Leaderboard returns the top n players of gameID. Without a board the
// personal bests table is ranked instead.
func (s *Service) Leaderboard(ctx context.Context, gameID string, n int) ([]leaderboard.Entry, error) {
	if n <= 0 {
		n = leaderboard.DefaultTop
	}
	if s.board != nil {
		entries, err := s.board.Top(ctx, gameID, n)
		if err != nil {
			return nil, fmt.Errorf("leaderboard %s: %w", gameID, err)
		}
		return entries, nil
	}

	bests, err := s.repo.TopBests(ctx, gameID, n)
	if err != nil {
		return nil, fmt.Errorf("top bests %s: %w", gameID, err)
	}
	entries := make([]leaderboard.Entry, len(bests))
	for i, b := range bests {
		entries[i] = leaderboard.Entry{Rank: i + 1, UserID: b.UserID, Score: b.BestScore}
	}
	return entries, nil
}

// HistoryQuery selects one page of attempts. "ALL" or an empty string
// disables a filter.
type HistoryQuery struct {
	Page       int
	Limit      int
	Category   string
	Difficulty string
}

// HistoryItem is one attempt as shown in history listings.
type HistoryItem struct {
	ID         string    `json:"id"`
	GameID     string    `json:"gameId"`
	GameName   string    `json:"gameName"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	Metrics    Metrics   `json:"metrics"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// HistoryPage is a page of attempts, newest first.
type HistoryPage struct {
	History    []HistoryItem `json:"history"`
	Pagination Pagination    `json:"pagination"`
}

func (q HistoryQuery) normalize() HistoryQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultHistoryLimit
	}
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}
	q.Category = filterValue(q.Category)
	q.Difficulty = filterValue(q.Difficulty)
	return q
}

func filterValue(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "ALL" {
		return ""
	}
	return v
}

// History returns one page of the user's attempts.
func (s *Service) History(ctx context.Context, userID string, q HistoryQuery) (HistoryPage, error) {
	q = q.normalize()
	f := store.AttemptFilter{
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Limit:      q.Limit,
		Offset:     (q.Page - 1) * q.Limit,
	}

	total, err := s.repo.CountAttempts(ctx, userID, f)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("count attempts: %w", err)
	}
	attempts, err := s.repo.Attempts(ctx, userID, f)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("load attempts: %w", err)
	}

	items := make([]HistoryItem, 0, len(attempts))
	for _, a := range attempts {
		items = append(items, historyItem(a))
	}
	return HistoryPage{
		History: items,
		Pagination: Pagination{
			Total: total,
			Page:  q.Page,
			Limit: q.Limit,
			Pages: (total + q.Limit - 1) / q.Limit,
		},
	}, nil
}

func historyItem(a store.Attempt) HistoryItem {
	return HistoryItem{
		ID:         a.ID,
		GameID:     a.GameID,
		GameName:   games.Name(a.GameID),
		Category:   a.Category,
		Difficulty: a.Difficulty,
		Score:      a.Score,
		Metrics: Metrics{
			TotalQuestions: a.TotalQuestions,
			CorrectAnswers: a.CorrectAnswers,
			TimeTaken:      a.TimeTaken,
		},
		CreatedAt: a.CreatedAt,
	}
}

// GameStat summarises one game for the stats view.
type GameStat struct {
	GameID      string    `json:"gameId"`
	GameName    string    `json:"gameName"`
	HighScore   int       `json:"highScore"`
	Date        time.Time `json:"date"`
	TotalPlayed int       `json:"totalPlayed"`
}

// Stats is the overview shown on the dashboard.
type Stats struct {
	RecentActivity []HistoryItem `json:"recentActivity"`
	GameStats      []GameStat    `json:"gameStats"`
	TotalGames     int           `json:"totalGames"`
	Streak         int           `json:"streak"`
}

// Stats gathers recent activity, per-game bests and the daily streak.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	recent, err := s.repo.Attempts(ctx, userID, store.AttemptFilter{Limit: recentActivityLimit})
	if err != nil {
		return Stats{}, fmt.Errorf("load recent attempts: %w", err)
	}
	bests, err := s.repo.Bests(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("load bests: %w", err)
	}
	days, err := s.activeDays(ctx, userID)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		RecentActivity: make([]HistoryItem, 0, len(recent)),
		GameStats:      make([]GameStat, 0, len(bests)),
		Streak:         DailyStreak(days, s.now()),
	}
	for _, a := range recent {
		st.RecentActivity = append(st.RecentActivity, historyItem(a))
	}
	for _, b := range bests {
		st.GameStats = append(st.GameStats, GameStat{
			GameID:      b.GameID,
			GameName:    games.Name(b.GameID),
			HighScore:   b.BestScore,
			Date:        b.LastPlayed,
			TotalPlayed: b.Attempts,
		})
		st.TotalGames += b.Attempts
	}
	return st, nil
}

// Streak returns only the daily streak, for the TUI header.
func (s *Service) Streak(ctx context.Context, userID string) (int, error) {
	days, err := s.activeDays(ctx, userID)
	if err != nil {
		return 0, err
	}
	return DailyStreak(days, s.now()), nil
}

// activeDays lists every attempt timestamp of the user, newest first.
func (s *Service) activeDays(ctx context.Context, userID string) ([]time.Time, error) {
	attempts, err := s.repo.Attempts(ctx, userID, store.AttemptFilter{})
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	days := make([]time.Time, len(attempts))
	for i, a := range attempts {
		days[i] = a.CreatedAt
	}
	return days, nil
}

// DailyStreak counts consecutive UTC calendar days with at least one
// activity, ending today or yesterday. Input order does not matter.
func DailyStreak(activity []time.Time, now time.Time) int {
	seen := make(map[time.Time]bool, len(activity))
	for _, t := range activity {
		seen[utcDay(t)] = true
	}

	day := utcDay(now)
	if !seen[day] {
		day = day.AddDate(0, 0, -1)
		if !seen[day] {
			return 0
		}
	}
	streak := 0
	for seen[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
