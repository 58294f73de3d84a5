// Package sprintreview computes the post-sprint insights: summary stats, a
// per-pattern breakdown, negative marking with a skip simulation, a
// response-time histogram, fatigue detection and pacing against the
// per-difficulty time budget.
package sprintreview

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Status is the outcome of one sprint question.
type Status string

const (
	Correct      Status = "CORRECT"
	Incorrect    Status = "INCORRECT"
	Skipped      Status = "SKIPPED"
	NotAttempted Status = "NOT_ATTEMPTED"
)

// FilterAll keeps every question.
const FilterAll = "ALL"

// Marks awarded and deducted per question.
const (
	MarksCorrect = 2.0
	MarksWrong   = 0.5
)

// fatigue needs this many questions and this accuracy drop.
const (
	fatigueMinQuestions = 6
	fatigueDrop         = 0.15
)

// ErrUnknownFilter is returned by Filter for anything but ALL or a Status.
var ErrUnknownFilter = errors.New("unknown filter")

// Question is one answered (or not) sprint question.
type Question struct {
	ID             string   `json:"questionId"`
	Order          int      `json:"order"`
	Text           string   `json:"text,omitempty"`
	Options        []string `json:"options,omitempty"`
	CorrectOption  *int     `json:"correctOption,omitempty"`
	SelectedOption *int     `json:"selectedOption,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Pattern        string   `json:"pattern,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
	Status         Status   `json:"status"`
	TimeMs         int64    `json:"timeMs"`
}

// Sprint is a finished timed practice set.
type Sprint struct {
	ID         string     `json:"id"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
}

// Filter keeps the questions whose status matches filter. ALL (or an empty
// filter) keeps everything.
func Filter(qs []Question, filter string) ([]Question, error) {
	filter = strings.ToUpper(strings.TrimSpace(filter))
	switch Status(filter) {
	case "", FilterAll:
		return slices.Clone(qs), nil
	case Correct, Incorrect, Skipped, NotAttempted:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
	}
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if q.Status == Status(filter) {
			out = append(out, q)
		}
	}
	return out, nil
}

func countStatus(qs []Question, s Status) int {
	n := 0
	for _, q := range qs {
		if q.Status == s {
			n++
		}
	}
	return n
}

// NegativeMarking compares the actual marks with what skipping the slower
// half of the wrong answers would have scored.
type NegativeMarking struct {
	ActualMarks    float64 `json:"actualMarks"`
	MaxMarks       float64 `json:"maxMarks"`
	OptimizedMarks float64 `json:"optimizedMarks"`
	OptimizedMax   float64 `json:"optimizedMax"`
	SkipCount      int     `json:"skipCount"`
	SavedTimeMs    int64   `json:"savedTimeMs"`
}

// ComputeNegativeMarking applies +2/-0.5 marking and simulates skipping
// ceil(wrong/2) of the wrong answers, slowest first.
func ComputeNegativeMarking(qs []Question) NegativeMarking {
	total := len(qs)
	correct := countStatus(qs, Correct)

	var wrong []Question
	for _, q := range qs {
		if q.Status == Incorrect {
			wrong = append(wrong, q)
		}
	}
	slices.SortStableFunc(wrong, func(a, b Question) int {
		switch {
		case a.TimeMs > b.TimeMs:
			return -1
		case a.TimeMs < b.TimeMs:
			return 1
		}
		return 0
	})

	skip := (len(wrong) + 1) / 2
	var saved int64
	for _, q := range wrong[:skip] {
		saved += q.TimeMs
	}

	return NegativeMarking{
		ActualMarks:    float64(correct)*MarksCorrect - float64(len(wrong))*MarksWrong,
		MaxMarks:       float64(total) * MarksCorrect,
		OptimizedMarks: float64(correct)*MarksCorrect - float64(len(wrong)-skip)*MarksWrong,
		OptimizedMax:   float64(total-skip) * MarksCorrect,
		SkipCount:      skip,
		SavedTimeMs:    saved,
	}
}

// Bucket counts questions answered within one time band.
type Bucket struct {
	Count   int `json:"count"`
	Correct int `json:"correct"`
}

// TimeDistribution buckets response times at 20s, 40s and 60s.
type TimeDistribution struct {
	Under20    Bucket `json:"under20"`
	From20To40 Bucket `json:"from20To40"`
	From40To60 Bucket `json:"from40To60"`
	Over60     Bucket `json:"over60"`
}

// ComputeTimeDistribution fills the histogram. Lower bounds are inclusive.
func ComputeTimeDistribution(qs []Question) TimeDistribution {
	var d TimeDistribution
	for _, q := range qs {
		var b *Bucket
		switch {
		case q.TimeMs < 20_000:
			b = &d.Under20
		case q.TimeMs < 40_000:
			b = &d.From20To40
		case q.TimeMs < 60_000:
			b = &d.From40To60
		default:
			b = &d.Over60
		}
		b.Count++
		if q.Status == Correct {
			b.Correct++
		}
	}
	return d
}

// Fatigue compares accuracy across the two halves of a sprint.
type Fatigue struct {
	Detected           bool    `json:"detected"`
	FirstHalfAccuracy  float64 `json:"firstHalfAccuracy"`
	SecondHalfAccuracy float64 `json:"secondHalfAccuracy"`
	Drop               float64 `json:"drop"`
}

// ComputeFatigue returns nil for sprints shorter than six questions.
// Questions are split by Order at floor(n/2).
func ComputeFatigue(qs []Question) *Fatigue {
	if len(qs) < fatigueMinQuestions {
		return nil
	}
	sorted := slices.Clone(qs)
	slices.SortStableFunc(sorted, func(a, b Question) int { return a.Order - b.Order })

	mid := len(sorted) / 2
	first := accuracy(sorted[:mid])
	second := accuracy(sorted[mid:])
	drop := first - second
	return &Fatigue{
		Detected:           drop >= fatigueDrop,
		FirstHalfAccuracy:  first,
		SecondHalfAccuracy: second,
		Drop:               drop,
	}
}

func accuracy(qs []Question) float64 {
	if len(qs) == 0 {
		return 0
	}
	return float64(countStatus(qs, Correct)) / float64(len(qs))
}

// untagged groups questions that carry no pattern.
const untagged = "UNTAGGED"

// Stats summarises a sprint. An interaction is a question that was answered
// or skipped; Accuracy and AvgTimeMs divide by interactions.
type Stats struct {
	Total        int   `json:"totalQuestions"`
	Attempted    int   `json:"attempted"`
	Correct      int   `json:"correct"`
	Incorrect    int   `json:"incorrect"`
	Skipped      int   `json:"skipped"`
	NotAttempted int   `json:"notAttempted"`
	Accuracy     int   `json:"accuracy"`
	AvgTimeMs    int64 `json:"avgTimeMs"`
	TotalTimeMs  int64 `json:"totalTimeMs"`
}

// ComputeStats counts outcomes over qs. Accuracy is a whole percentage.
func ComputeStats(qs []Question) Stats {
	st := Stats{Total: len(qs)}
	for _, q := range qs {
		switch q.Status {
		case NotAttempted:
			st.NotAttempted++
			continue
		case Correct:
			st.Correct++
		case Incorrect:
			st.Incorrect++
		case Skipped:
			st.Skipped++
		}
		st.TotalTimeMs += q.TimeMs
	}
	st.Attempted = st.Correct + st.Incorrect
	if n := st.Attempted + st.Skipped; n > 0 {
		st.Accuracy = int(math.Round(float64(st.Correct) / float64(n) * 100))
		st.AvgTimeMs = int64(math.Round(float64(st.TotalTimeMs) / float64(n)))
	}
	return st
}

// TopicStat is the outcome of one question pattern.
type TopicStat struct {
	Topic     string  `json:"topic"`
	Total     int     `json:"total"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Skipped   int     `json:"skipped"`
	Accuracy  float64 `json:"accuracy"`
	AvgTimeMs float64 `json:"avgTimeMs"`
}

// ComputeTopicPerformance groups the interactions of qs by Pattern, sorted
// by topic. Unanswered questions are left out of every group.
func ComputeTopicPerformance(qs []Question) []TopicStat {
	byTopic := make(map[string]*TopicStat)
	timeMs := make(map[string]int64)
	for _, q := range qs {
		if q.Status == NotAttempted {
			continue
		}
		topic := q.Pattern
		if topic == "" {
			topic = untagged
		}
		ts, ok := byTopic[topic]
		if !ok {
			ts = &TopicStat{Topic: topic}
			byTopic[topic] = ts
		}
		ts.Total++
		switch q.Status {
		case Correct:
			ts.Correct++
		case Incorrect:
			ts.Incorrect++
		case Skipped:
			ts.Skipped++
		}
		timeMs[topic] += q.TimeMs
	}

	out := make([]TopicStat, 0, len(byTopic))
	for topic, ts := range byTopic {
		ts.Accuracy = float64(ts.Correct) / float64(ts.Total) * 100
		ts.AvgTimeMs = float64(timeMs[topic]) / float64(ts.Total)
		out = append(out, *ts)
	}
	slices.SortFunc(out, func(a, b TopicStat) int { return strings.Compare(a.Topic, b.Topic) })
	return out
}

// Pace recommendations.
const (
	GoodPace = "GOOD_PACE"
	SlowDown = "SLOW_DOWN"
	SpeedUp  = "SPEED_UP"
)

// timeBudgetMs is the target time per question for each sprint difficulty.
var timeBudgetMs = map[string]int64{
	"EASY":   40_000,
	"MEDIUM": 30_000,
	"HARD":   25_000,
	"MIXED":  30_000,
}

// TimeBudget returns the per-question target for difficulty, defaulting to
// the MEDIUM budget.
func TimeBudget(difficulty string) int64 {
	if ms, ok := timeBudgetMs[strings.ToUpper(difficulty)]; ok {
		return ms
	}
	return timeBudgetMs["MEDIUM"]
}

// TimeAnalysis compares the average answer time with the budget.
type TimeAnalysis struct {
	AvgTimeMs       int64   `json:"avgTimePerQuestion"`
	TargetTimeMs    int64   `json:"targetTimePerQuestion"`
	SpeedMultiplier float64 `json:"speedMultiplier"`
	Recommendation  string  `json:"recommendation"`
}

// ComputeTimeAnalysis averages over attempted questions. Faster than 70% of
// the budget is SLOW_DOWN, slower than 130% is SPEED_UP.
func ComputeTimeAnalysis(qs []Question, difficulty string) TimeAnalysis {
	target := TimeBudget(difficulty)
	var sum int64
	n := 0
	for _, q := range qs {
		if q.Status == NotAttempted {
			continue
		}
		sum += q.TimeMs
		n++
	}
	var avg int64
	if n > 0 {
		avg = sum / int64(n)
	}

	ta := TimeAnalysis{AvgTimeMs: avg, TargetTimeMs: target, Recommendation: GoodPace}
	if avg > 0 {
		ta.SpeedMultiplier = math.Round(float64(target)/float64(avg)*100) / 100
	}
	switch {
	case float64(avg) < float64(target)*0.7:
		ta.Recommendation = SlowDown
	case float64(avg) > float64(target)*1.3:
		ta.Recommendation = SpeedUp
	}
	return ta
}

// Insights groups the per-sprint analytics.
type Insights struct {
	NegativeMarking  NegativeMarking  `json:"negativeMarking"`
	TimeDistribution TimeDistribution `json:"timeDistribution"`
	Fatigue          *Fatigue         `json:"fatigue"`
}

// Review is the full answer for one sprint and filter.
type Review struct {
	SprintID         string       `json:"sprintId"`
	Filter           string       `json:"filter"`
	TotalQuestions   int          `json:"totalQuestions"`
	Stats            Stats        `json:"stats"`
	TopicPerformance []TopicStat  `json:"topicPerformance"`
	Insights         Insights     `json:"insights"`
	TimeAnalysis     TimeAnalysis `json:"timeAnalysis"`
	Questions        []Question   `json:"questions"`
}

// Analyze filters the sprint and computes insights on what is left. Stats,
// the topic breakdown and pacing always use the whole sprint.
func Analyze(s Sprint, filter string) (Review, error) {
	qs, err := Filter(s.Questions, filter)
	if err != nil {
		return Review{}, err
	}
	f := strings.ToUpper(strings.TrimSpace(filter))
	if f == "" {
		f = FilterAll
	}
	return Review{
		SprintID:         s.ID,
		Filter:           f,
		TotalQuestions:   len(qs),
		Stats:            ComputeStats(s.Questions),
		TopicPerformance: ComputeTopicPerformance(s.Questions),
		Insights: Insights{
			NegativeMarking:  ComputeNegativeMarking(qs),
			TimeDistribution: ComputeTimeDistribution(qs),
			Fatigue:          ComputeFatigue(qs),
		},
		TimeAnalysis: ComputeTimeAnalysis(s.Questions, s.Difficulty),
		Questions:    qs,
	}, nil
}
