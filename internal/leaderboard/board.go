// Package leaderboard keeps the per-game high score tables and streams
// changes to live subscribers.
package leaderboard

import (
	"context"
	"sync"
)

// DefaultTop is the number of entries a snapshot carries when the caller
// does not ask for a specific count.
const DefaultTop = 10

// Entry is one row of a game's leaderboard.
type Entry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"userId"`
	Score  int    `json:"score"`
}

// Update announces that a user improved their score on a game.
type Update struct {
	GameID string `json:"gameId"`
	UserID string `json:"userId"`
	Score  int    `json:"score"`
}

// Board records scores and serves ranked tables. Implementations keep the
// maximum score per user and game.
type Board interface {
	// Record offers score for userID on gameID. It reports whether the
	// stored score went up.
	Record(ctx context.Context, gameID, userID string, score int) (bool, error)

	// Top returns the n highest entries, best first.
	Top(ctx context.Context, gameID string, n int) ([]Entry, error)

	// Subscribe streams improvements on gameID until cancel is called.
	Subscribe(gameID string) (<-chan Update, func())
}

// hub fans updates out to local subscribers of each game.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Update]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan Update]struct{})}
}

func (h *hub) subscribe(gameID string) (<-chan Update, func()) {
	ch := make(chan Update, 8)

	h.mu.Lock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[chan Update]struct{})
	}
	h.subs[gameID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		set := h.subs[gameID]
		if _, ok := set[ch]; !ok {
			return
		}
		delete(set, ch)
		close(ch)
		if len(set) == 0 {
			delete(h.subs, gameID)
		}
	}
	return ch, cancel
}

// publish never blocks. A full subscriber loses its oldest pending update.
func (h *hub) publish(u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[u.GameID] {
		select {
		case ch <- u:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- u
		}
	}
}

func rank(entries []Entry) []Entry {
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
