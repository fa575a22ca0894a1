package events

import (
	"time"

	"github.com/gorilla/websocket"
)

// EventType identifies the category of a broadcast event.
type EventType string

const (
	EventTypeDetection   EventType = "detection"
	EventTypeRunProgress EventType = "run_progress"
	EventTypeSystem      EventType = "system"
	EventTypeConnection  EventType = "connection"
)

// Event is the envelope sent to WebSocket subscribers.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// DetectionEvent reports a confirmed PII replacement. Only the type and
// location are broadcast, never the matched value.
type DetectionEvent struct {
	RunID    string `json:"run_id,omitempty"`
	PIIType  string `json:"pii_type"`
	Column   string `json:"column,omitempty"`
	Row      int    `json:"row,omitempty"`
	Strategy string `json:"strategy"`
	Outcome  string `json:"outcome"`
}

// RunProgressEvent reports dataset run lifecycle and progress.
type RunProgressEvent struct {
	RunID        string `json:"run_id"`
	FileName     string `json:"file_name,omitempty"`
	Phase        string `json:"phase"` // started, processing, completed, failed
	CellsDone    int    `json:"cells_done,omitempty"`
	CellsTotal   int    `json:"cells_total,omitempty"`
	Replacements int    `json:"replacements,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SystemEvent reports service-level status changes.
type SystemEvent struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ConnectionEvent reports WebSocket client connects and disconnects.
type ConnectionEvent struct {
	Action   string `json:"action"`
	ClientID string `json:"client_id"`
}

// ClientMessage is an inbound message from a subscriber.
type ClientMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Subscription restricts which event types a client receives.
// An empty Events list means all types.
type Subscription struct {
	Events []EventType `json:"events"`
}

// Client is one connected WebSocket subscriber.
type Client struct {
	ID           string
	Conn         *websocket.Conn
	Send         chan Event
	ConnectedAt  time.Time
	IP           string
	Subscription *Subscription
}

// wants reports whether the client's subscription covers the event type.
func (c *Client) wants(t EventType) bool {
	if c.Subscription == nil || len(c.Subscription.Events) == 0 {
		return true
	}
	for _, et := range c.Subscription.Events {
		if et == t {
			return true
		}
	}
	return false
}

// Config gates which event categories are broadcast at all.
type Config struct {
	Enabled              bool `yaml:"enabled" mapstructure:"enabled"`
	BroadcastDetections  bool `yaml:"broadcast_detections" mapstructure:"broadcast_detections"`
	BroadcastRunProgress bool `yaml:"broadcast_run_progress" mapstructure:"broadcast_run_progress"`
	BroadcastSystem      bool `yaml:"broadcast_system" mapstructure:"broadcast_system"`
	BroadcastConnections bool `yaml:"broadcast_connections" mapstructure:"broadcast_connections"`
}

// Stats tracks hub counters.
type Stats struct {
	TotalConnections  int64 `json:"total_connections"`
	ActiveConnections int64 `json:"active_connections"`
	TotalBroadcasts   int64 `json:"total_broadcasts"`
	TotalMessages     int64 `json:"total_messages"`
}
