package sprintreview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q(order int, s Status, ms int64) Question {
	return Question{ID: string(rune('a' + order)), Order: order, Status: s, TimeMs: ms}
}

func TestFilter(t *testing.T) {
	qs := []Question{q(1, Correct, 1), q(2, Incorrect, 1), q(3, Skipped, 1), q(4, Correct, 1)}

	all, err := Filter(qs, "ALL")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	empty, err := Filter(qs, "")
	require.NoError(t, err)
	assert.Len(t, empty, 4)

	correct, err := Filter(qs, "correct")
	require.NoError(t, err)
	assert.Len(t, correct, 2)

	none, err := Filter(qs, "NOT_ATTEMPTED")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = Filter(qs, "WRONG")
	assert.True(t, errors.Is(err, ErrUnknownFilter))
}

func TestStats(t *testing.T) {
	tests := []struct {
		name string
		qs   []Question
		want Stats
	}{
		{"empty", nil, Stats{}},
		{
			"nothing attempted",
			[]Question{q(1, NotAttempted, 0), q(2, NotAttempted, 0)},
			Stats{Total: 2, NotAttempted: 2},
		},
		{
			"skips count as interactions",
			[]Question{
				q(1, Correct, 10_000), q(2, Correct, 20_000), q(3, Incorrect, 30_000),
				q(4, Skipped, 4_000), q(5, NotAttempted, 0),
			},
			Stats{
				Total: 5, Attempted: 3, Correct: 2, Incorrect: 1, Skipped: 1, NotAttempted: 1,
				Accuracy: 50, AvgTimeMs: 16_000, TotalTimeMs: 64_000,
			},
		},
		{
			"rounds accuracy and average",
			[]Question{q(1, Correct, 1_000), q(2, Correct, 1_000), q(3, Incorrect, 1_002)},
			Stats{
				Total: 3, Attempted: 3, Correct: 2, Incorrect: 1,
				Accuracy: 67, AvgTimeMs: 1_001, TotalTimeMs: 3_002,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.qs))
		})
	}
}

func TestTopicPerformance(t *testing.T) {
	pq := func(order int, pattern string, s Status, ms int64) Question {
		qq := q(order, s, ms)
		qq.Pattern = pattern
		return qq
	}
	qs := []Question{
		pq(1, "Percentages", Correct, 10_000),
		pq(2, "Ages", Incorrect, 9_000),
		pq(3, "Percentages", Skipped, 2_000),
		pq(4, "Ages", Correct, 3_000),
		pq(5, "", Correct, 4_000),
		pq(6, "Ages", Correct, 6_000),
		pq(7, "Ages", NotAttempted, 0),
	}

	got := ComputeTopicPerformance(qs)
	require.Len(t, got, 3)

	assert.Equal(t, "Ages", got[0].Topic)
	assert.Equal(t, 3, got[0].Total)
	assert.Equal(t, 2, got[0].Correct)
	assert.Equal(t, 1, got[0].Incorrect)
	assert.Zero(t, got[0].Skipped)
	assert.InDelta(t, 200.0/3, got[0].Accuracy, 1e-9)
	assert.InDelta(t, 6_000.0, got[0].AvgTimeMs, 1e-9)

	assert.Equal(t, TopicStat{
		Topic: "Percentages", Total: 2, Correct: 1, Skipped: 1, Accuracy: 50, AvgTimeMs: 6_000,
	}, got[1])
	assert.Equal(t, TopicStat{
		Topic: "UNTAGGED", Total: 1, Correct: 1, Accuracy: 100, AvgTimeMs: 4_000,
	}, got[2])

	assert.Empty(t, ComputeTopicPerformance([]Question{q(1, NotAttempted, 0)}))
}

func TestNegativeMarking(t *testing.T) {
	qs := []Question{
		q(1, Correct, 10_000),
		q(2, Correct, 12_000),
		q(3, Correct, 9_000),
		q(4, Incorrect, 50_000),
		q(5, Incorrect, 20_000),
		q(6, Incorrect, 70_000),
		q(7, Skipped, 1_000),
	}
	nm := ComputeNegativeMarking(qs)

	assert.Equal(t, 3*2-3*0.5, nm.ActualMarks)
	assert.Equal(t, 14.0, nm.MaxMarks)
	assert.Equal(t, 2, nm.SkipCount, "ceil(3/2)")
	assert.EqualValues(t, 70_000+50_000, nm.SavedTimeMs, "slowest wrong answers are skipped")
	assert.Equal(t, 3*2-1*0.5, nm.OptimizedMarks)
	assert.Equal(t, 10.0, nm.OptimizedMax)
}

func TestNegativeMarkingNoWrongAnswers(t *testing.T) {
	nm := ComputeNegativeMarking([]Question{q(1, Correct, 5)})
	assert.Equal(t, NegativeMarking{ActualMarks: 2, MaxMarks: 2, OptimizedMarks: 2, OptimizedMax: 2}, nm)

	assert.Equal(t, NegativeMarking{}, ComputeNegativeMarking(nil))
}

func TestTimeDistributionBoundaries(t *testing.T) {
	qs := []Question{
		q(1, Correct, 0),
		q(2, Incorrect, 19_999),
		q(3, Correct, 20_000),
		q(4, Correct, 39_999),
		q(5, Incorrect, 40_000),
		q(6, Correct, 60_000),
		q(7, Skipped, 120_000),
	}
	d := ComputeTimeDistribution(qs)
	assert.Equal(t, Bucket{Count: 2, Correct: 1}, d.Under20)
	assert.Equal(t, Bucket{Count: 2, Correct: 2}, d.From20To40)
	assert.Equal(t, Bucket{Count: 1, Correct: 0}, d.From40To60)
	assert.Equal(t, Bucket{Count: 2, Correct: 1}, d.Over60)
}

func TestFatigue(t *testing.T) {
	assert.Nil(t, ComputeFatigue([]Question{q(1, Correct, 0), q(2, Correct, 0)}))

	// Given out of order: the split must follow Order.
	qs := []Question{
		q(6, Incorrect, 0), q(1, Correct, 0), q(5, Incorrect, 0),
		q(2, Correct, 0), q(4, Correct, 0), q(3, Correct, 0),
	}
	f := ComputeFatigue(qs)
	require.NotNil(t, f)
	assert.Equal(t, 1.0, f.FirstHalfAccuracy)
	assert.InDelta(t, 1.0/3, f.SecondHalfAccuracy, 1e-9)
	assert.True(t, f.Detected)

	steady := ComputeFatigue([]Question{
		q(1, Correct, 0), q(2, Incorrect, 0), q(3, Correct, 0),
		q(4, Correct, 0), q(5, Incorrect, 0), q(6, Correct, 0),
	})
	require.NotNil(t, steady)
	assert.False(t, steady.Detected)
	assert.InDelta(t, 0, steady.Drop, 1e-9)
}

func TestFatigueOddLengthSplitsAtFloor(t *testing.T) {
	qs := []Question{
		q(1, Correct, 0), q(2, Correct, 0), q(3, Correct, 0),
		q(4, Incorrect, 0), q(5, Incorrect, 0), q(6, Incorrect, 0), q(7, Correct, 0),
	}
	f := ComputeFatigue(qs)
	require.NotNil(t, f)
	assert.Equal(t, 1.0, f.FirstHalfAccuracy)
	assert.Equal(t, 0.25, f.SecondHalfAccuracy)
}

func TestTimeBudget(t *testing.T) {
	assert.EqualValues(t, 40_000, TimeBudget("EASY"))
	assert.EqualValues(t, 30_000, TimeBudget("medium"))
	assert.EqualValues(t, 25_000, TimeBudget("HARD"))
	assert.EqualValues(t, 30_000, TimeBudget("MIXED"))
	assert.EqualValues(t, 30_000, TimeBudget("???"))
}

func TestTimeAnalysis(t *testing.T) {
	tests := []struct {
		name string
		qs   []Question
		diff string
		want string
		mult float64
	}{
		{"on budget", []Question{q(1, Correct, 30_000)}, "MEDIUM", GoodPace, 1},
		{"too fast", []Question{q(1, Correct, 10_000)}, "MEDIUM", SlowDown, 3},
		{"too slow", []Question{q(1, Correct, 50_000)}, "HARD", SpeedUp, 0.5},
		{"not attempted ignored", []Question{q(1, Correct, 40_000), q(2, NotAttempted, 0)}, "EASY", GoodPace, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := ComputeTimeAnalysis(tt.qs, tt.diff)
			assert.Equal(t, tt.want, ta.Recommendation)
			assert.Equal(t, tt.mult, ta.SpeedMultiplier)
		})
	}
}

func TestAnalyze(t *testing.T) {
	s := Sprint{
		ID:         "sprint-1",
		Difficulty: "MEDIUM",
		Questions: []Question{
			q(1, Correct, 25_000), q(2, Incorrect, 35_000), q(3, Correct, 28_000),
			q(4, Skipped, 5_000), q(5, Correct, 30_000), q(6, Incorrect, 41_000),
		},
	}

	r, err := Analyze(s, "")
	require.NoError(t, err)
	assert.Equal(t, "ALL", r.Filter)
	assert.Equal(t, 6, r.TotalQuestions)
	assert.NotNil(t, r.Insights.Fatigue)
	assert.Equal(t, 1, r.Insights.NegativeMarking.SkipCount)
	assert.EqualValues(t, 41_000, r.Insights.NegativeMarking.SavedTimeMs)

	wrong, err := Analyze(s, "INCORRECT")
	require.NoError(t, err)
	assert.Equal(t, 2, wrong.TotalQuestions)
	assert.Nil(t, wrong.Insights.Fatigue, "too few questions after filtering")
	assert.Equal(t, -1.0, wrong.Insights.NegativeMarking.ActualMarks)
	assert.Equal(t, r.TimeAnalysis, wrong.TimeAnalysis, "pacing ignores the filter")
	assert.Equal(t, r.Stats, wrong.Stats, "stats ignore the filter")
	assert.Equal(t, 50, r.Stats.Accuracy)
	assert.EqualValues(t, 27_333, r.Stats.AvgTimeMs)
	require.Len(t, r.TopicPerformance, 1)
	assert.Equal(t, 6, r.TopicPerformance[0].Total)

	_, err = Analyze(s, "BOGUS")
	assert.Error(t, err)
}
