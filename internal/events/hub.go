package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans events out to connected WebSocket subscribers.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	config     *Config
	logger     *zap.Logger

	mu    sync.RWMutex
	stats Stats
}

// NewHub creates an event hub. Call Run in a goroutine to start it.
func NewHub(config *Config, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		config:     config,
		logger:     logger,
	}
}

// Run processes registration and broadcast requests until the process exits.
func (h *Hub) Run() {
	h.logger.Info("Starting event hub", zap.String("component", "events"))

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.stats.TotalConnections++
	h.stats.ActiveConnections++
	h.mu.Unlock()

	h.logger.Info("Subscriber connected",
		zap.String("component", "events"),
		zap.String("client_id", client.ID),
		zap.String("client_ip", client.IP))

	h.Publish(EventTypeConnection, ConnectionEvent{Action: "connected", ClientID: client.ID})
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.Send)
		h.stats.ActiveConnections--
	}
	h.mu.Unlock()

	if !ok {
		return
	}

	h.logger.Info("Subscriber disconnected",
		zap.String("component", "events"),
		zap.String("client_id", client.ID))

	h.Publish(EventTypeConnection, ConnectionEvent{Action: "disconnected", ClientID: client.ID})
}

func (h *Hub) fanOut(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stats.TotalBroadcasts++
	for client := range h.clients {
		if !client.wants(event.Type) {
			continue
		}
		select {
		case client.Send <- event:
			h.stats.TotalMessages++
		default:
			// Slow consumer, drop the connection.
			h.logger.Warn("Subscriber send buffer full, closing connection",
				zap.String("component", "events"),
				zap.String("client_id", client.ID))
			delete(h.clients, client)
			close(client.Send)
			h.stats.ActiveConnections--
		}
	}
}

// Publish queues an event for broadcast if its category is enabled.
// The hub never blocks callers; events are dropped when the queue is full.
func (h *Hub) Publish(t EventType, data interface{}) {
	if !h.enabled(t) {
		return
	}

	event := Event{Type: t, Timestamp: time.Now(), Data: data}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("Broadcast queue full, dropping event",
			zap.String("component", "events"),
			zap.String("event_type", string(t)))
	}
}

func (h *Hub) enabled(t EventType) bool {
	if h.config == nil || !h.config.Enabled {
		return false
	}
	switch t {
	case EventTypeDetection:
		return h.config.BroadcastDetections
	case EventTypeRunProgress:
		return h.config.BroadcastRunProgress
	case EventTypeSystem:
		return h.config.BroadcastSystem
	case EventTypeConnection:
		return h.config.BroadcastConnections
	}
	return false
}

// HandleWebSocket upgrades the request and registers the subscriber.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection",
			zap.String("component", "events"),
			zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.NewString(),
		Conn:        conn,
		Send:        make(chan Event, 256),
		ConnectedAt: time.Now(),
		IP:          clientIP(r),
	}

	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(client *Client) {
	defer func() {
		h.unregister <- client
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.String("component", "events"),
					zap.String("client_id", client.ID),
					zap.Error(err))
			}
			return
		}
		h.handleMessage(client, msg)
	}
}

func (h *Hub) handleMessage(client *Client, msg ClientMessage) {
	switch msg.Type {
	case "subscribe":
		sub := &Subscription{}
		if data, ok := msg.Data.(map[string]interface{}); ok {
			if raw, ok := data["events"].([]interface{}); ok {
				for _, e := range raw {
					if s, ok := e.(string); ok {
						sub.Events = append(sub.Events, EventType(s))
					}
				}
			}
		}
		client.Subscription = sub
		h.logger.Info("Subscription updated",
			zap.String("component", "events"),
			zap.String("client_id", client.ID))
	case "ping":
		select {
		case client.Send <- Event{Type: "pong", Timestamp: time.Now()}:
		default:
		}
	}
}

// GetStats returns a snapshot of hub counters.
func (h *Hub) GetStats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := h.stats
	stats.ActiveConnections = int64(len(h.clients))
	return stats
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
