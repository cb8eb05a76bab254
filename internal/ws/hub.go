// Package ws implements the Connection Registry (C6) and Message
// Dispatcher (C7): the bidirectional channel surface that ferries frames
// between connected players and their room's Coordinator.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Hub maintains every open connection, keyed by room then player, and
// implements game.Broadcaster so the Coordinator can reach it without
// depending on the websocket package.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[models.PlayerID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	direct     chan directMessage
}

type broadcastMessage struct {
	RoomID string
	Msg    models.WSMessage
}

type directMessage struct {
	RoomID   string
	PlayerID models.PlayerID
	Msg      models.WSMessage
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[models.PlayerID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage, 256),
		direct:     make(chan directMessage, 256),
	}
}

// Run drives the hub's single-threaded event loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("ws: hub shutting down")
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case m := <-h.broadcast:
			h.dispatchBroadcast(m)
		case m := <-h.direct:
			h.dispatchDirect(m)
		}
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.RoomID] == nil {
		h.rooms[c.RoomID] = map[models.PlayerID]*Client{}
	}
	h.rooms[c.RoomID][c.PlayerID] = c
	log.Printf("ws: player %s connected to room %s", c.PlayerID, c.RoomID)
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.rooms[c.RoomID]; ok {
		if existing, ok := clients[c.PlayerID]; ok && existing == c {
			delete(clients, c.PlayerID)
			close(c.send)
		}
		if len(clients) == 0 {
			delete(h.rooms, c.RoomID)
		}
	}
	if c.onDisconnect != nil {
		c.onDisconnect(c.PlayerID)
	}
	log.Printf("ws: player %s disconnected from room %s", c.PlayerID, c.RoomID)
}

func (h *Hub) dispatchBroadcast(m broadcastMessage) {
	payload, err := json.Marshal(m.Msg)
	if err != nil {
		log.Printf("ws: marshal broadcast %s: %v", m.Msg.Type, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for playerID, c := range h.rooms[m.RoomID] {
		select {
		case c.send <- payload:
		default:
			log.Printf("ws: dropping broadcast %s for slow player %s", m.Msg.Type, playerID)
		}
	}
}

func (h *Hub) dispatchDirect(m directMessage) {
	payload, err := json.Marshal(m.Msg)
	if err != nil {
		log.Printf("ws: marshal direct %s: %v", m.Msg.Type, err)
		return
	}
	h.mu.RLock()
	c, ok := h.rooms[m.RoomID][m.PlayerID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
		log.Printf("ws: dropping direct %s for slow player %s", m.Msg.Type, m.PlayerID)
	}
}

// Broadcast implements game.Broadcaster.
func (h *Hub) Broadcast(roomID string, msg models.WSMessage) {
	h.broadcast <- broadcastMessage{RoomID: roomID, Msg: msg}
}

// SendTo implements game.Broadcaster.
func (h *Hub) SendTo(roomID string, playerID models.PlayerID, msg models.WSMessage) {
	h.direct <- directMessage{RoomID: roomID, PlayerID: playerID, Msg: msg}
}

// Client is one connected player's channel. onMessage/onDisconnect are set
// by the dispatcher that owns routing inbound frames to the game package.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	RoomID   string
	PlayerID models.PlayerID

	onMessage    func(playerID models.PlayerID, msg models.WSMessage)
	onDisconnect func(playerID models.PlayerID)
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID string, playerID models.PlayerID, onMessage func(models.PlayerID, models.WSMessage), onDisconnect func(models.PlayerID)) *Client {
	return &Client{
		hub: hub, conn: conn, send: make(chan []byte, 256),
		RoomID: roomID, PlayerID: playerID,
		onMessage: onMessage, onDisconnect: onDisconnect,
	}
}

// Register enrolls the client with the hub's event loop.
func (c *Client) Register() {
	c.hub.register <- c
}

// Deliver queues raw frames (used for the on-connect snapshot, ahead of
// the hub's own channel machinery).
func (c *Client) Deliver(msg models.WSMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// ReadPump pumps inbound frames to onMessage until the connection closes.
// Malformed frames are logged and dropped (a Protocol error per the error
// handling design); the connection itself is never closed for them.
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
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: read error for %s: %v", c.PlayerID, err)
			}
			break
		}

		var msg models.WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("ws: malformed frame from %s: %v", c.PlayerID, err)
			continue
		}
		if c.onMessage != nil {
			c.onMessage(c.PlayerID, msg)
		}
	}
}

// WritePump pumps queued frames to the socket, coalescing anything queued
// since the last write and keeping the connection alive with pings.
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

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
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
