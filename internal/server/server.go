// Package server exposes the score service over HTTP and the leaderboard
// over websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cglprep/blitz/internal/leaderboard"
	"github.com/cglprep/blitz/internal/scores"
	"github.com/cglprep/blitz/internal/sprintreview"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Relay is a background loop that runs for the lifetime of the server, such
// as the Redis leaderboard fan-out.
type Relay interface {
	Run(ctx context.Context) error
}

// Config carries the listener settings.
type Config struct {
	Addr         string
	JWTSecret    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	cfg    Config
	secret []byte
	scores *scores.Service
	board  leaderboard.Board
	relay  Relay
}

// Option configures a Server.
type Option func(*Server)

// WithBoard enables the live leaderboard feed.
func WithBoard(b leaderboard.Board) Option {
	return func(s *Server) { s.board = b }
}

// WithRelay runs r alongside the HTTP listener.
func WithRelay(r Relay) Option {
	return func(s *Server) { s.relay = r }
}

// New returns a Server for svc. A JWT secret is required.
func New(cfg Config, svc *scores.Service, opts ...Option) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("server: jwt secret is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	s := &Server{cfg: cfg, secret: []byte(cfg.JWTSecret), scores: svc}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Handler returns the routed, logged HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("POST /api/games/save-score", s.requireUser(s.saveScore))
	mux.HandleFunc("GET /api/games/scores", s.requireUser(s.bests))
	mux.HandleFunc("GET /api/games/history", s.requireUser(s.history))
	mux.HandleFunc("GET /api/games/stats", s.requireUser(s.stats))
	mux.HandleFunc("GET /api/games/leaderboard/{gameId}", s.leaderboard)
	mux.HandleFunc("POST /api/sprint/review", s.requireUser(s.sprintReview))
	if s.board != nil {
		mux.Handle("GET /ws/leaderboard", leaderboard.NewWSHandler(s.board))
	}
	return logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting blitz API on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if s.relay != nil {
		g.Go(func() error { return s.relay.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("shutting down blitz API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeData(w, map[string]string{"status": "ok"})
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
}

func (s *Server) saveScore(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFrom(r.Context())
	var sub scores.Submission
	if err := decodeBody(r, &sub); err != nil {
		writeError(w, badRequest("invalid body: %v", err))
		return
	}
	res, err := s.scores.SaveScore(r.Context(), userID, sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, res)
}

func (s *Server) bests(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFrom(r.Context())
	bests, err := s.scores.Bests(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, bests)
}

// queryInt reads a positive integer parameter. Missing or malformed values
// give 0 so the service default applies.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFrom(r.Context())
	q := r.URL.Query()
	page, err := s.scores.History(r.Context(), userID, scores.HistoryQuery{
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
		Category:   q.Get("category"),
		Difficulty: q.Get("difficulty"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, page)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFrom(r.Context())
	st, err := s.scores.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, st)
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameId")
	entries, err := s.scores.Leaderboard(r.Context(), gameID, queryInt(r, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"gameId": gameID, "entries": entries})
}

func (s *Server) sprintReview(w http.ResponseWriter, r *http.Request) {
	var sprint sprintreview.Sprint
	if err := decodeBody(r, &sprint); err != nil {
		writeError(w, badRequest("invalid body: %v", err))
		return
	}
	review, err := sprintreview.Analyze(sprint, r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, review)
}
