package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to division rooms.
const (
	EventProposalCreated = "PROPOSAL_CREATED"
	EventProposalUpdated = "PROPOSAL_UPDATED"
	EventMatchCreated    = "MATCH_CREATED"
	EventMatchCompleted  = "MATCH_COMPLETED"
)

// Event is the wire format pushed to dashboard clients.
type Event struct {
	Type     string      `json:"type"`
	Division string      `json:"division,omitempty"`
	Payload  interface{} `json:"payload"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	division string

	mu       sync.Mutex
	isClosed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, division string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		division: division,
	}
}

// Hub fans lifecycle events out to websocket clients, one room per division.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.division]; !ok {
				h.rooms[client.division] = make(map[*Client]bool)
			}
			h.rooms[client.division][client] = true
			h.logger.Info("live client registered",
				slog.String("division", client.division),
				slog.Int("clients", len(h.rooms[client.division])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.division]; ok {
				if _, okClient := room[client]; okClient {
					client.closeSend()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.division)
					}
					h.logger.Info("live client unregistered", slog.String("division", client.division))
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register enqueues a client for the hub loop.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// BroadcastToDivision pushes an event to every client watching the division.
// A slow client's backlog is dropped rather than blocking the caller.
func (h *Hub) BroadcastToDivision(division string, eventType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[division]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(Event{Type: eventType, Division: division, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal live event",
			slog.String("type", eventType), slog.Any("error", err))
		return
	}

	for client := range room {
		client.mu.Lock()
		if client.isClosed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.send <- messageBytes:
		default:
			h.logger.Warn("live client send buffer full, dropping event",
				slog.String("division", division))
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isClosed {
		close(c.send)
		c.isClosed = true
	}
}

// ReadPump drains and discards client messages, keeping the pong deadline
// fresh until the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush anything queued behind the first message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
