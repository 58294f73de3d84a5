package scores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cglprep/blitz/internal/leaderboard"
	"github.com/cglprep/blitz/internal/store"
)

var day0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestService(t *testing.T, opts ...Option) (*Service, *testClock) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "blitz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := &testClock{now: day0}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewService(st.Scores(), opts...), clock
}

func submission(gameID string, score int) Submission {
	return Submission{
		GameID:  gameID,
		Score:   score,
		Metrics: Metrics{TotalQuestions: 10, CorrectAnswers: 7, TimeTaken: 42},
	}
}

func TestSaveScoreFirstPlayIsNewBest(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.SaveScore(context.Background(), "asha", submission("speed-tables", 0))
	require.NoError(t, err)
	assert.Equal(t, SaveResult{GameID: "speed-tables", BestScore: 0, IsNewBest: true}, res)
}

func TestSaveScoreBestProgression(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	steps := []struct {
		score   int
		best    int
		newBest bool
	}{
		{100, 100, true},
		{80, 100, false},
		{100, 100, false},
		{150, 150, true},
	}
	for i, s := range steps {
		res, err := svc.SaveScore(ctx, "asha", submission("cube-roots", s.score))
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.best, res.BestScore, "step %d best", i)
		assert.Equal(t, s.newBest, res.IsNewBest, "step %d isNewBest", i)
	}

	other, err := svc.SaveScore(ctx, "ravi", submission("cube-roots", 10))
	require.NoError(t, err)
	assert.True(t, other.IsNewBest, "bests are per user")
}

func TestSaveScoreValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveScore(ctx, "", submission("speed-tables", 10))
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = svc.SaveScore(ctx, "asha", submission("  ", 10))
	assert.True(t, errors.Is(err, ErrInvalidSubmission))

	_, err = svc.SaveScore(ctx, "asha", submission("speed-tables", -1))
	assert.True(t, errors.Is(err, ErrInvalidSubmission))
}

func TestSaveScoreDefaultsCategoryAndDifficulty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.SaveScore(ctx, "asha", submission("speed-tables", 10))
	require.NoError(t, err)

	page, err := svc.History(ctx, "asha", HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, page.History, 1)
	item := page.History[0]
	assert.Equal(t, "QUANT", item.Category)
	assert.Equal(t, "MEDIUM", item.Difficulty)
	assert.Equal(t, "Speed Tables", item.GameName)
	assert.Equal(t, Metrics{TotalQuestions: 10, CorrectAnswers: 7, TimeTaken: 42}, item.Metrics)
}

func TestSaveScoreFeedsBoard(t *testing.T) {
	board := leaderboard.NewMemoryBoard()
	svc, _ := newTestService(t, WithBoard(board))
	ctx := context.Background()

	_, err := svc.SaveScore(ctx, "asha", submission("speed-tables", 90))
	require.NoError(t, err)
	_, err = svc.SaveScore(ctx, "ravi", submission("speed-tables", 120))
	require.NoError(t, err)

	top, err := board.Top(ctx, "speed-tables", 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "ravi", top[0].UserID)
}

func TestBests(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, s := range []Submission{submission("speed-tables", 40), submission("speed-tables", 60), submission("cube-roots", 5)} {
		_, err := svc.SaveScore(ctx, "asha", s)
		require.NoError(t, err)
	}

	bests, err := svc.Bests(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"speed-tables": 60, "cube-roots": 5}, bests)

	none, err := svc.Bests(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryPaginationAndFilters(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		clock.now = day0.Add(time.Duration(i) * time.Minute)
		s := submission("speed-tables", i)
		if i%5 == 0 {
			s.Category = "reasoning"
			s.Difficulty = "hard"
		}
		_, err := svc.SaveScore(ctx, "asha", s)
		require.NoError(t, err)
	}

	first, err := svc.History(ctx, "asha", HistoryQuery{})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Total: 25, Page: 1, Limit: 20, Pages: 2}, first.Pagination)
	require.Len(t, first.History, 20)
	assert.Equal(t, 24, first.History[0].Score, "newest first")

	second, err := svc.History(ctx, "asha", HistoryQuery{Page: 2, Category: "ALL"})
	require.NoError(t, err)
	assert.Len(t, second.History, 5)
	assert.Equal(t, 4, second.History[0].Score)

	hard, err := svc.History(ctx, "asha", HistoryQuery{Difficulty: "Hard", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Total: 5, Page: 1, Limit: 2, Pages: 3}, hard.Pagination)
	for _, item := range hard.History {
		assert.Equal(t, "HARD", item.Difficulty)
	}

	capped, err := svc.History(ctx, "asha", HistoryQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, capped.Pagination.Limit)

	empty, err := svc.History(ctx, "nobody", HistoryQuery{})
	require.NoError(t, err)
	assert.Empty(t, empty.History)
	assert.Equal(t, 0, empty.Pagination.Pages)
}

func TestStats(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	// Three consecutive days of play, then stats on the third day.
	for d := 0; d < 3; d++ {
		for i := 0; i < 5; i++ {
			clock.now = day0.AddDate(0, 0, d).Add(time.Duration(i) * time.Minute)
			_, err := svc.SaveScore(ctx, "asha", submission("speed-tables", d*10+i))
			require.NoError(t, err)
		}
	}
	clock.now = clock.now.Add(time.Minute)
	_, err := svc.SaveScore(ctx, "asha", submission("mirror-image", 7))
	require.NoError(t, err)

	st, err := svc.Stats(ctx, "asha")
	require.NoError(t, err)
	assert.Len(t, st.RecentActivity, 10)
	assert.Equal(t, "mirror-image", st.RecentActivity[0].GameID)
	assert.Equal(t, 16, st.TotalGames)
	assert.Equal(t, 3, st.Streak)

	require.Len(t, st.GameStats, 2)
	byGame := map[string]GameStat{}
	for _, g := range st.GameStats {
		byGame[g.GameID] = g
	}
	assert.Equal(t, 24, byGame["speed-tables"].HighScore)
	assert.Equal(t, 15, byGame["speed-tables"].TotalPlayed)
	assert.Equal(t, "Mirror Image", byGame["mirror-image"].GameName)

	streak, err := svc.Streak(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestDailyStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 3, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		activity []time.Time
		want     int
	}{
		{"no activity", nil, 0},
		{"today only", []time.Time{day(0, 1)}, 1},
		{"yesterday keeps the streak", []time.Time{day(-1, 23), day(-2, 1)}, 2},
		{"two days ago breaks it", []time.Time{day(-2, 12), day(-3, 12)}, 0},
		{"gap stops the count", []time.Time{day(0, 1), day(-1, 1), day(-3, 1)}, 2},
		{"duplicates count once", []time.Time{day(0, 1), day(0, 2), day(-1, 5)}, 2},
		{"unordered input", []time.Time{day(-2, 1), day(0, 1), day(-1, 1)}, 3},
		{"local zone normalised to UTC", []time.Time{day(0, 1).In(time.FixedZone("IST", 5*3600+1800))}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DailyStreak(tt.activity, now))
		})
	}
}

func TestLeaderboardFallsBackToBests(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for user, score := range map[string]int{"asha": 40, "ravi": 90, "meera": 60} {
		_, err := svc.SaveScore(ctx, user, submission("squares-flash", score))
		require.NoError(t, err)
	}

	top, err := svc.Leaderboard(ctx, "squares-flash", 2)
	require.NoError(t, err)
	assert.Equal(t, []leaderboard.Entry{
		{Rank: 1, UserID: "ravi", Score: 90},
		{Rank: 2, UserID: "meera", Score: 60},
	}, top)
}

func TestLeaderboardUsesBoard(t *testing.T) {
	board := leaderboard.NewMemoryBoard()
	svc, _ := newTestService(t, WithBoard(board))
	ctx := context.Background()
	_, err := board.Record(ctx, "squares-flash", "remote-user", 500)
	require.NoError(t, err)

	top, err := svc.Leaderboard(ctx, "squares-flash", 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "remote-user", top[0].UserID)
}
