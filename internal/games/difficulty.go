package games

import (
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects the number ranges a game draws from and the timing
// profile of a session.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the tiers in presentation order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ErrUnknownDifficulty is returned for a tier name outside Difficulties.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty accepts "easy", "EASY", "Medium" and so on.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Upper returns the wire form used by the score API ("MEDIUM").
func (d Difficulty) Upper() string {
	return strings.ToUpper(string(d))
}

// Profile is the static timing and scoring configuration of a tier.
type Profile struct {
	Label           string
	Description     string
	TimePerQuestion int // seconds
	ScoreMultiplier float64
}

// Profiles maps each difficulty to its profile.
type Profiles map[Difficulty]Profile

// DefaultProfiles returns the built-in tier table.
func DefaultProfiles() Profiles {
	return Profiles{
		Easy: {
			Label:           "Beginner",
			Description:     "Warm-up with smaller numbers",
			TimePerQuestion: 12,
			ScoreMultiplier: 1,
		},
		Medium: {
			Label:           "Standard",
			Description:     "SSC Tier-1 exam level",
			TimePerQuestion: 8,
			ScoreMultiplier: 1.5,
		},
		Hard: {
			Label:           "Expert",
			Description:     "Speed-run for pros",
			TimePerQuestion: 5,
			ScoreMultiplier: 2,
		},
	}
}

// Get returns the profile for d, falling back to the medium tier of the
// built-in table when d is missing.
func (p Profiles) Get(d Difficulty) Profile {
	if prof, ok := p[d]; ok {
		return prof
	}
	return DefaultProfiles()[Medium]
}
