package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cglprep/blitz/internal/llm"
)

const (
	defaultBatchSize = 5
	defaultAITimeout = 30 * time.Second
	maxOptions       = 6
)

var questionBatchSchema = &llm.Schema{
	Name:        "blitz-question-batch",
	Description: "A batch of timed multiple-choice drill questions.",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt":        map[string]any{"type": "string"},
						"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correct_index": map[string]any{"type": "integer"},
					},
					"required":             []string{"prompt", "options", "correct_index"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"questions"},
		"additionalProperties": false,
	},
}

type questionBatch struct {
	Questions []struct {
		Prompt       string   `json:"prompt"`
		Options      []string `json:"options"`
		CorrectIndex int      `json:"correct_index"`
	} `json:"questions"`
}

type bufferedQuestion struct {
	q Question
	d Difficulty
}

// AISource serves LLM-written questions from a small buffer that refills in
// the background. Next never waits on the network: when the buffer is empty
// it answers from the fallback source.
type AISource struct {
	provider llm.Provider
	game     Game
	fallback Source
	batch    int
	timeout  time.Duration

	buf      chan bufferedQuestion
	inflight atomic.Bool
	wg       sync.WaitGroup
	served   atomic.Int64 // questions that came from the model
}

// AIOption configures an AISource.
type AIOption func(*AISource)

// WithBatchSize sets how many questions one request asks for.
func WithBatchSize(n int) AIOption {
	return func(s *AISource) {
		if n > 0 {
			s.batch = n
		}
	}
}

// WithAITimeout bounds each background request.
func WithAITimeout(d time.Duration) AIOption {
	return func(s *AISource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewAISource returns a source for g backed by p.
func NewAISource(p llm.Provider, g Game, fallback Source, opts ...AIOption) *AISource {
	s := &AISource{
		provider: p,
		game:     g,
		fallback: fallback,
		batch:    defaultBatchSize,
		timeout:  defaultAITimeout,
	}
	for _, o := range opts {
		o(s)
	}
	s.buf = make(chan bufferedQuestion, s.batch*2)
	return s
}

// Prefetch starts a background refill for d if none is running.
func (s *AISource) Prefetch(d Difficulty) {
	if len(s.buf) >= s.batch || !s.inflight.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inflight.Store(false)

		ctx, cancel := context.WithTimeout(llm.WithPurpose(context.Background(), "question-gen"), s.timeout)
		defer cancel()

		qs, err := s.generate(ctx, d)
		if err != nil {
			log.Printf("games: ai refill for %s: %v", s.game.ID, err)
			return
		}
		for _, q := range qs {
			select {
			case s.buf <- bufferedQuestion{q: q, d: d}:
			default:
				return
			}
		}
	}()
}

func (s *AISource) Next(ctx context.Context, d Difficulty) (Question, error) {
	defer s.Prefetch(d)
	for {
		select {
		case bq := <-s.buf:
			if bq.d != d {
				continue
			}
			s.served.Add(1)
			return bq.q, nil
		default:
			return s.fallback.Next(ctx, d)
		}
	}
}

// Served reports how many questions came from the model so far.
func (s *AISource) Served() int {
	return int(s.served.Load())
}

// Wait blocks until any background refill has finished.
func (s *AISource) Wait() {
	s.wg.Wait()
}

func (s *AISource) generate(ctx context.Context, d Difficulty) ([]Question, error) {
	prompt := fmt.Sprintf(
		"Write %d questions for the %q drill (%s). Difficulty: %s. "+
			"Each must be answerable mentally in a few seconds and have exactly one correct option among 4.",
		s.batch, s.game.Name, s.game.Description, d)
	req := llm.UserPrompt(
		"You write rapid-fire SSC-CGL "+string(s.game.Category)+" drill questions. Keep prompts under 80 characters.",
		prompt, questionBatchSchema, 1024)
	req.Temperature = 0.7

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	var batch questionBatch
	if err := json.Unmarshal(resp.Content, &batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}

	out := make([]Question, 0, len(batch.Questions))
	for _, raw := range batch.Questions {
		q := Question{Prompt: strings.TrimSpace(raw.Prompt), Options: raw.Options, CorrectIndex: raw.CorrectIndex}
		if err := CheckQuestion(q); err != nil {
			log.Printf("games: dropping generated question %q: %v", q.Prompt, err)
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, errors.New("no usable questions in batch")
	}
	return out, nil
}

// CheckQuestion reports why q cannot be played, or nil.
func CheckQuestion(q Question) error {
	if q.Prompt == "" {
		return errors.New("empty prompt")
	}
	if len(q.Options) < 2 || len(q.Options) > maxOptions {
		return fmt.Errorf("%d options", len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		o = strings.TrimSpace(o)
		if o == "" {
			return errors.New("empty option")
		}
		if _, dup := seen[o]; dup {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = struct{}{}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return nil
}
