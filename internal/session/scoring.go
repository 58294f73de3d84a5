package session

import "math"

// Scoring constants for a correct answer.
const (
	BasePoints      = 10
	PointsPerSecond = 5
	PointsPerStreak = 2
)

// Points awards a correct answer given the seconds left on the clock and the
// streak before this answer. Negative remaining time earns no bonus.
func Points(remaining, streak int) int {
	return BasePoints + max(remaining, 0)*PointsPerSecond + streak*PointsPerStreak
}

// FinalScore applies the difficulty multiplier, rounding half away from zero.
func FinalScore(raw int, multiplier float64) int {
	return int(math.Round(float64(raw) * multiplier))
}

// Result titles.
const (
	TitleNewBest    = "New Personal Best!"
	TitlePerfection = "Perfection!"
	TitleGreatJob   = "Great Job!"
	TitleKeepGoing  = "Keep Training"
	TitleWellDone   = "Well Done"
)

// ResultTitle picks the headline for the result screen.
func ResultTitle(newBest bool, correct, total int) string {
	switch {
	case newBest:
		return TitleNewBest
	case total > 0 && correct == total:
		return TitlePerfection
	case correct >= 7:
		return TitleGreatJob
	case correct < 4:
		return TitleKeepGoing
	}
	return TitleWellDone
}

// Accuracy returns correct/total in [0, 1].
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
