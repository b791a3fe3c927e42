// Package live pushes subscription snapshots to clients over websockets.
// Every frame is the full current view state, never a diff, so a client can
// render any frame in isolation and a dropped frame costs nothing once the
// next one arrives.
package live

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AmitLevy9/DailyBite/internal/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Session cookies authenticate the socket; the API serves first-party
	// mobile clients, not arbitrary browser origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type statePayload[T any] struct {
	Loading bool `json:"loading"`
	Items   []T  `json:"items"`
}

// Stream upgrades the request and forwards subscription snapshots as JSON
// view-state frames until either side disconnects. The subscription is
// closed exactly once on the way out.
func Stream[T any](w http.ResponseWriter, r *http.Request, sub *realtime.Subscription[T]) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Close()
		log.Printf("[LIVE] upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer sub.Close()

	// Read pump: the client sends nothing meaningful, but reading drives
	// pong handling and close detection.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	reducer := realtime.NewReducer[T]()
	if err := writeState(conn, reducer.Current()); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case items, ok := <-sub.Updates():
			if !ok {
				return
			}
			if err := writeState(conn, reducer.Apply(items)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-sub.Done():
			return
		}
	}
}

func writeState[T any](conn *websocket.Conn, state realtime.State[T]) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(statePayload[T]{Loading: state.Loading, Items: state.Items})
}

// StreamDoc is Stream for single-document subscriptions. Frames carry the
// current value directly; null means the document does not exist.
func StreamDoc[T any](w http.ResponseWriter, r *http.Request, sub *realtime.DocSubscription[T]) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Close()
		log.Printf("[LIVE] upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer sub.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case value, ok := <-sub.Updates():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(value); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-sub.Done():
			return
		}
	}
}
