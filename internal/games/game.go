package games

import (
	"context"
	"math/rand/v2"
	"strings"
)

// Category groups games the way the exam syllabus does.
type Category string

const (
	Quant     Category = "quant"
	Reasoning Category = "reasoning"
)

// Upper returns the wire form used by the score API ("QUANT").
func (c Category) Upper() string {
	return strings.ToUpper(string(c))
}

// ParseCategory accepts either case. Anything else, "all" and "" included,
// returns ("", false).
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quant":
		return Quant, true
	case "reasoning":
		return Reasoning, true
	}
	return "", false
}

// Question is a single multiple-choice round. It is immutable once built.
type Question struct {
	Prompt       string
	Options      []string
	CorrectIndex int
}

// IsCorrect reports whether index picks the right option. Index -1 means
// "no selection" and is never correct.
func (q Question) IsCorrect(index int) bool {
	return index >= 0 && index == q.CorrectIndex
}

// Answer returns the text of the correct option.
func (q Question) Answer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// GenerateFunc builds a question for the given tier using r for all
// randomness, so a seeded r gives a reproducible sequence.
type GenerateFunc func(r *rand.Rand, d Difficulty) Question

// Game is one entry of the catalogue.
type Game struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Generate    GenerateFunc
}

// Source hands out questions for a running session.
type Source interface {
	Next(ctx context.Context, d Difficulty) (Question, error)
}

// LocalSource generates questions in-process from a game's generator.
type LocalSource struct {
	game Game
	rng  *rand.Rand
}

// NewLocalSource returns a source for g. A nil rng gets a randomly seeded one.
func NewLocalSource(g Game, rng *rand.Rand) *LocalSource {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &LocalSource{game: g, rng: rng}
}

func (s *LocalSource) Next(_ context.Context, d Difficulty) (Question, error) {
	return s.game.Generate(s.rng, d), nil
}

// Game returns the game this source draws from.
func (s *LocalSource) Game() Game {
	return s.game
}
