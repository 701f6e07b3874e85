package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketMessage is the envelope for all messages on the live feed.
type WebSocketMessage struct {
	Type      string      `json:"type"` // "monitor", "snapshot", "error"
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// MonitorPayload is the periodic live-feed frame: current monitor
// state plus snapshot store and scheduler status.
type MonitorPayload struct {
	Monitor       MonitorState `json:"monitor"`
	SnapshotCount int          `json:"snapshot_count"`
	Selection     Selection    `json:"selection"`
	Schedule      string       `json:"schedule"`
	ScheduleLive  bool         `json:"schedule_live"`
}

// ClientConnection represents a connected WebSocket client.
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
}

// WebSocketHub manages connected live-feed clients and pushes monitor
// state once per second.
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	mu         sync.RWMutex
	done       chan bool
}

var wsHub *WebSocketHub

// InitWebSocketHub initializes and starts the hub.
func InitWebSocketHub() *WebSocketHub {
	wsHub = &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan bool),
	}
	go wsHub.run()
	return wsHub
}

// GetWebSocketHub returns the hub.
func GetWebSocketHub() *WebSocketHub {
	return wsHub
}

func (h *WebSocketHub) run() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s (total: %d)", client.ID, total)

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s (total: %d)", clientID, total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()

		case <-ticker.C:
			payload := gatherMonitorPayload()
			data, err := json.Marshal(payload)
			if err != nil {
				log.Printf("[WS] Error marshaling monitor payload: %v", err)
				continue
			}

			msg := WebSocketMessage{
				Type:      "monitor",
				Timestamp: time.Now(),
				Data:      json.RawMessage(data),
			}

			select {
			case h.broadcast <- msg:
			default:
			}
		}
	}
}

// gatherMonitorPayload assembles the periodic feed frame.
func gatherMonitorPayload() MonitorPayload {
	payload := MonitorPayload{
		Monitor: GetLiveMonitor().State(),
	}
	if store := GetSnapshotStore(); store != nil {
		payload.SnapshotCount = store.Count()
		payload.Selection = store.CurrentSelection()
	}
	if sched := GetScheduler(); sched != nil {
		payload.Schedule = string(sched.Interval())
		payload.ScheduleLive = sched.Active()
	}
	return payload
}

// Register adds a new client to the hub.
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WebSocketHub) Unregister(clientID string) {
	h.unregister <- clientID
}

// Broadcast sends a message to all connected clients.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// NotifySnapshot pushes a snapshot lifecycle event ("captured",
// "deleted", "cleared") to all clients.
func NotifySnapshot(event string, data interface{}) {
	if wsHub == nil {
		return
	}
	wsHub.Broadcast(WebSocketMessage{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"event":   event,
			"payload": data,
		},
	})
}

// StopWebSocketHub gracefully stops the hub.
func StopWebSocketHub() {
	if wsHub != nil {
		wsHub.done <- true
	}
}
