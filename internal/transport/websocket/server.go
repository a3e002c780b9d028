package websocket

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow any origin; the dashboard is served from a separate host.
		return true
	},
}

// Hub fans events out to every connected dashboard client. Clients do
// not send application messages; the read pump only services pings.
type Hub struct {
	connections map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection

	broadcast chan *Message

	mu sync.RWMutex
}

type Connection struct {
	ws   *websocket.Conn
	send chan *Message
	hub  *Hub
}

// Message is a push event. Collection is set for data-change events so
// clients know which resource to refetch.
type Message struct {
	Type       string      `json:"type"`
	Collection string      `json:"collection,omitempty"`
	Data       interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *Message, 256),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// On shutdown: close underlying websocket connections so the
			// read/write pumps receive errors and unregister themselves.
			h.mu.RLock()
			var conns []*Connection
			for c := range h.connections {
				conns = append(conns, c)
			}
			h.mu.RUnlock()

			// Close websockets outside the lock so unregister logic can acquire mu.
			for _, c := range conns {
				_ = c.ws.Close()
			}

			return
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, exists := h.connections[conn]; exists {
				delete(h.connections, conn)
				close(conn.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.connections {
				select {
				case conn.send <- message:
				default:
					close(conn.send)
					delete(h.connections, conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Broadcast(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		log.Printf("[WS] broadcast channel full, dropping %q message", message.Type)
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade error: %v", err)
		return
	}

	conn := &Connection{
		ws:   ws,
		send: make(chan *Message, 256),
		hub:  h,
	}

	h.register <- conn

	go conn.writePump()
	go conn.readPump()
}

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10
)

func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] read error: %v", err)
			}
			break
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.ws.WriteJSON(message); err != nil {
				log.Printf("[WS] write error: %v", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
