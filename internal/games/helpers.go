package games

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
)

// maxDraws bounds every rejection-sampling loop so a degenerate range can
// never hang a session.
const maxDraws = 1000

// randomInt returns a uniform integer in [min, max].
func randomInt(r *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IntN(max-min+1)
}

// pick returns a random element of items.
func pick[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}

func shuffle[T any](r *rand.Rand, items []T) []T {
	out := slices.Clone(items)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// formatNumber renders integers without a decimal point and other values in
// their shortest form.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// wrongOptions returns count distinct non-negative integers near correct.
func wrongOptions(r *rand.Rand, correct float64, count int) []float64 {
	variance := math.Max(5, math.Abs(correct)*0.3)
	return distinct(count, func() (float64, bool) {
		w := math.Round(correct + (r.Float64()-0.5)*2*variance)
		return w, w != correct && w >= 0
	})
}

// distinct draws until it has count unique accepted values or runs out of
// draws.
func distinct[T comparable](count int, draw func() (T, bool)) []T {
	seen := make(map[T]struct{}, count)
	out := make([]T, 0, count)
	for i := 0; i < maxDraws && len(out) < count; i++ {
		v, ok := draw()
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// numeric builds a question whose options are numbers.
func numeric(r *rand.Rand, prompt string, correct float64, wrongs []float64) Question {
	opts := make([]string, 0, len(wrongs)+1)
	opts = append(opts, formatNumber(correct))
	for _, w := range wrongs {
		opts = append(opts, formatNumber(w))
	}
	return choice(r, prompt, opts[0], opts[1:])
}

// choice shuffles correct in among wrongs and records where it landed.
func choice(r *rand.Rand, prompt, correct string, wrongs []string) Question {
	opts := shuffle(r, append([]string{correct}, wrongs...))
	return Question{
		Prompt:       prompt,
		Options:      opts,
		CorrectIndex: slices.Index(opts, correct),
	}
}

// tiered selects a value by difficulty.
func tiered[T any](d Difficulty, easy, medium, hard T) T {
	switch d {
	case Easy:
		return easy
	case Hard:
		return hard
	}
	return medium
}

// poolFor returns the easy/medium/hard prefix of a pool.
func poolFor[T any](d Difficulty, all []T, easyN, mediumN int) []T {
	return tiered(d, all[:easyN], all[:mediumN], all)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
