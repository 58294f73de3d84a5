package leaderboard

import (
	"context"
	"sort"
	"sync"
)

// MemoryBoard is a process-local Board, used for offline play and tests.
type MemoryBoard struct {
	mu     sync.RWMutex
	scores map[string]map[string]int
	hub    *hub
}

// NewMemoryBoard returns an empty MemoryBoard.
func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{
		scores: make(map[string]map[string]int),
		hub:    newHub(),
	}
}

func (b *MemoryBoard) Record(_ context.Context, gameID, userID string, score int) (bool, error) {
	b.mu.Lock()
	game := b.scores[gameID]
	if game == nil {
		game = make(map[string]int)
		b.scores[gameID] = game
	}
	prev, seen := game[userID]
	improved := !seen || score > prev
	if improved {
		game[userID] = score
	}
	b.mu.Unlock()

	if improved {
		b.hub.publish(Update{GameID: gameID, UserID: userID, Score: score})
	}
	return improved, nil
}

func (b *MemoryBoard) Top(_ context.Context, gameID string, n int) ([]Entry, error) {
	if n <= 0 {
		n = DefaultTop
	}
	b.mu.RLock()
	entries := make([]Entry, 0, len(b.scores[gameID]))
	for user, score := range b.scores[gameID] {
		entries = append(entries, Entry{UserID: user, Score: score})
	}
	b.mu.RUnlock()

	// Ties go to the lexically greater user ID, the same order ZREVRANGE uses.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID > entries[j].UserID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return rank(entries), nil
}

func (b *MemoryBoard) Subscribe(gameID string) (<-chan Update, func()) {
	return b.hub.subscribe(gameID)
}
