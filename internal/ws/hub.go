package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope pushed to connected clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans resolver tick updates out to websocket subscribers. Clients
// only listen; anything they send besides PING is ignored.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan *Message
}

func NewHub() *Hub {
	hub := &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return hub
}

// HandleWebSocket upgrades the connection and parks it in the hub until
// the client disconnects.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Failed to upgrade connection: %v", err)
		return
	}

	h.register <- conn

	defer func() {
		h.unregister <- conn
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Read error: %v", err)
			}
			break
		}

		if msg.Type == "PING" {
			conn.WriteJSON(Message{
				Type: "PONG",
				Data: gin.H{"timestamp": time.Now().Unix()},
			})
		}
	}
}

// BroadcastTick publishes one resolver tick to every subscriber.
func (h *Hub) BroadcastTick(date string, reading int64, resolved int) {
	h.broadcast <- &Message{
		Type: "TICK",
		Data: gin.H{
			"date":       date,
			"deathCount": reading,
			"resolved":   resolved,
			"timestamp":  time.Now().Unix(),
		},
	}
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
			log.Printf("[WS] Client connected (%d total)", len(h.clients))

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				log.Printf("[WS] Client disconnected (%d total)", len(h.clients))
			}

		case message := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteJSON(message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}
