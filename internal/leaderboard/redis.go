package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "blitz:leaderboard:"
	// UpdatesChannel carries JSON-encoded Update values between instances.
	UpdatesChannel = "blitz:leaderboard:updates"
)

// RedisBoard stores one sorted set per game. Improvements are published on
// UpdatesChannel, and Run relays that channel to local subscribers, so every
// instance sees every other instance's updates.
type RedisBoard struct {
	client *redis.Client
	hub    *hub
	ready  chan struct{}
}

// NewRedisBoard wraps client. Call Run to start delivering updates.
func NewRedisBoard(client *redis.Client) *RedisBoard {
	return &RedisBoard{
		client: client,
		hub:    newHub(),
		ready:  make(chan struct{}),
	}
}

func gameKey(gameID string) string {
	return keyPrefix + gameID
}

func (b *RedisBoard) Record(ctx context.Context, gameID, userID string, score int) (bool, error) {
	changed, err := b.client.ZAddArgs(ctx, gameKey(gameID), redis.ZAddArgs{
		GT:      true,
		Ch:      true,
		Members: []redis.Z{{Score: float64(score), Member: userID}},
	}).Result()
	if err != nil {
		return false, fmt.Errorf("zadd %s: %w", gameID, err)
	}
	if changed == 0 {
		return false, nil
	}

	payload, err := json.Marshal(Update{GameID: gameID, UserID: userID, Score: score})
	if err != nil {
		return true, fmt.Errorf("encode update: %w", err)
	}
	if err := b.client.Publish(ctx, UpdatesChannel, payload).Err(); err != nil {
		return true, fmt.Errorf("publish update: %w", err)
	}
	return true, nil
}

func (b *RedisBoard) Top(ctx context.Context, gameID string, n int) ([]Entry, error) {
	if n <= 0 {
		n = DefaultTop
	}
	zs, err := b.client.ZRevRangeWithScores(ctx, gameKey(gameID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", gameID, err)
	}
	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		entries = append(entries, Entry{UserID: member, Score: int(z.Score)})
	}
	return rank(entries), nil
}

func (b *RedisBoard) Subscribe(gameID string) (<-chan Update, func()) {
	return b.hub.subscribe(gameID)
}

// Ready is closed once Run holds an active subscription.
func (b *RedisBoard) Ready() <-chan struct{} {
	return b.ready
}

// Run relays UpdatesChannel to local subscribers until ctx is cancelled.
func (b *RedisBoard) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, UpdatesChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", UpdatesChannel, err)
	}
	close(b.ready)

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var u Update
			if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
				log.Printf("leaderboard: bad update payload: %v", err)
				continue
			}
			b.hub.publish(u)
		}
	}
}
