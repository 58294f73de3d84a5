package leaderboard

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
)

// WSHandler streams a game's leaderboard over a websocket: one snapshot
// message, then one update message per improvement.
type WSHandler struct {
	board    Board
	upgrader websocket.Upgrader
}

// NewWSHandler serves board.
func NewWSHandler(board Board) *WSHandler {
	return &WSHandler{
		board: board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// Snapshot is the payload of the first message on a connection.
type Snapshot struct {
	GameID  string  `json:"gameId"`
	Entries []Entry `json:"entries"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}
	limit := DefaultTop
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Subscribe before reading the snapshot so no improvement falls between them.
	updates, cancel := h.board.Subscribe(gameID)
	defer cancel()

	entries, err := h.board.Top(r.Context(), gameID, limit)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "snapshot", Payload: Snapshot{GameID: gameID, Entries: entries}}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case u, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "update", Payload: u}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// The feed is one-way; reading only detects the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
