package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, local clients
	},
}

// broadcastInterval caps the landmark stream at roughly 15 FPS even when
// the pipeline runs faster.
const broadcastInterval = 66 * time.Millisecond

// LandmarksHandler streams recognized gestures and hand landmarks to
// WebSocket clients. The pipeline pushes frames in via Publish.
type LandmarksHandler struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
	lastSend time.Time
}

// NewLandmarksHandler creates an empty LandmarksHandler.
func NewLandmarksHandler() *LandmarksHandler {
	return &LandmarksHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client goes away.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Drain client messages to notice disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends the gesture label and landmarks to all connected
// clients, rate-limited to the broadcast interval. Hand may be nil when
// no hand is in frame.
func (h *LandmarksHandler) Publish(label string, hand *detector.Hand) {
	h.mu.Lock()
	if len(h.clients) == 0 || time.Since(h.lastSend) < broadcastInterval {
		h.mu.Unlock()
		return
	}
	h.lastSend = time.Now()
	h.mu.Unlock()

	payload := map[string]any{
		"gesture":   label,
		"timestamp": time.Now().UnixMilli(),
	}
	if hand != nil {
		payload["hand"] = hand
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("websocket write error: %v", err)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *LandmarksHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
