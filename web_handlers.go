package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	. "github.com/elijahnyp/audio_controller/util"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // monitor server is trusted-network only
	},
}

// WebSocketMessage wraps every payload pushed over /ws.
type WebSocketMessage struct {
	Data interface{} `json:"data"`
	Type string      `json:"type"`
}

// WSHub tracks connected websocket clients and fans state updates out
// to them.
type WSHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

var wsHub = &WSHub{clients: make(map[*websocket.Conn]bool)}

func (h *WSHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *WSHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Broadcast pushes a status message to every connected client, dropping
// clients whose writes fail.
func (h *WSHub) Broadcast(data interface{}) {
	msg := WebSocketMessage{Type: "status", Data: data}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(msg); err != nil {
			Logger.Debug().Msgf("dropping websocket client: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ServeWebSocket upgrades the connection, sends the current status, and
// keeps the client registered until it disconnects.
func ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger.Warn().Msgf("websocket upgrade failed: %v", err)
		return
	}
	wsHub.add(conn)
	if err := conn.WriteJSON(WebSocketMessage{Type: "status", Data: SystemStatus()}); err != nil {
		Logger.Debug().Msgf("initial websocket write failed: %v", err)
	}
	go func() {
		defer func() {
			wsHub.remove(conn)
			conn.Close()
		}()
		conn.SetReadDeadline(time.Time{})
		for {
			// Clients don't send anything meaningful; reading just
			// detects the disconnect.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// APISystemStatus reports every amp's confirmed state as JSON.
func APISystemStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SystemStatus()); err != nil {
		Logger.Warn().Msgf("error encoding status: %v", err)
	}
}
