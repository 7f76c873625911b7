/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time side of the API.

    It keeps a registry of connected clients and fans every message sent to
    'Broadcast' out to all of them. The server publishes travel progress,
    encounters and combat rounds here so a client can animate a journey
    without polling.

    Architecture:
    - Hub: One per server, run in its own goroutine.
    - Client: One browser connection.
    - ServeWs: Upgrades a GET request to a WebSocket and greets the client.
*/

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event types pushed over the socket.
const (
	EventState       = "state"
	EventDeparted    = "departed"
	EventEncounter   = "encounter"
	EventCombatRound = "combat_round"
	EventArrived     = "arrived"
	EventGameOver    = "game_over"
	EventSaved       = "saved"
)

// Message defines the standard JSON envelope for all real-time communication.
type Message struct {
	Type    string `json:"type"`    // One of the Event* constants
	Payload any    `json:"payload"` // The event data
	Sender  string `json:"sender"`  // "system" for server events
}

// Client represents a single connected browser tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	// Broadcast carries encoded messages for every client.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
	done       chan struct{} // Closed when Run returns

	log zerolog.Logger
}

// NewHub creates a Hub. Start it with `go hub.Run(ctx)`.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled, closing
// every client's outbound channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug().Int("clients", len(h.clients)).Msg("WS: client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full: the client hung or disconnected.
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish encodes an event and queues it for every client. It never blocks;
// when the queue is full the event is dropped.
func (h *Hub) Publish(msgType string, payload any) {
	if h == nil {
		return
	}
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Sender: "system"})
	if err != nil {
		h.log.Error().Err(err).Str("type", msgType).Msg("WS: failed to encode event")
		return
	}
	select {
	case h.Broadcast <- data:
	default:
		h.log.Warn().Str("type", msgType).Msg("WS: broadcast queue full, event dropped")
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request, sends hello (an encoded Message) to the new
// client alone and then registers it for broadcasts.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, hello []byte) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Error().Err(err).Msg("WS: upgrade failed")
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	if hello != nil {
		client.send <- hello
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so close frames are seen. Clients only
// listen; anything they send is discarded.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn().Err(err).Msg("WS: read error")
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
