package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lunchwheel/internal/common"
	"github.com/ternarybob/lunchwheel/internal/interfaces"
	"github.com/ternarybob/lunchwheel/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // The popup connects from a chrome-extension:// origin
	},
}

// WSMessage is the envelope of every message sent to the popup
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Message types sent to the popup
const (
	MessageTypeStatus   = "status"
	MessageTypeWheel    = "wheel"
	MessageTypeProgress = "progress"
	MessageTypeNotice   = "notice"
)

// StatusUpdate is sent once when a popup connects
type StatusUpdate struct {
	Service          string `json:"service"`
	Version          string `json:"version"`
	ServerInstanceID string `json:"server_instance_id"` // Changes on restart so the popup can resync
}

// WheelState gives a newly connected popup the current wheel and overlay
type WheelState interface {
	Wheel() []models.WheelOption
	Progress() models.ProgressUpdate
}

// WebSocketHandler pushes wheel, progress and notice events to connected popups
type WebSocketHandler struct {
	logger           arbor.ILogger
	clients          map[*websocket.Conn]bool
	clientMutex      map[*websocket.Conn]*sync.Mutex
	mu               sync.RWMutex
	eventService     interfaces.EventService
	state            WheelState
	writeTimeout     time.Duration
	serverInstanceID string
}

func NewWebSocketHandler(eventService interfaces.EventService, state WheelState, logger arbor.ILogger, config *common.WebSocketConfig) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:           logger,
		clients:          make(map[*websocket.Conn]bool),
		clientMutex:      make(map[*websocket.Conn]*sync.Mutex),
		eventService:     eventService,
		state:            state,
		serverInstanceID: uuid.New().String(),
	}
	if config != nil {
		h.writeTimeout = config.WriteTimeout
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized with server instance ID")

	if eventService != nil {
		h.SubscribeToSurfaceEvents()
	}

	return h
}

// SubscribeToSurfaceEvents forwards surface events to every connected popup.
// Surface events are published synchronously, so frames reach clients in order.
func (h *WebSocketHandler) SubscribeToSurfaceEvents() {
	forward := map[interfaces.EventType]string{
		interfaces.EventWheel:    MessageTypeWheel,
		interfaces.EventProgress: MessageTypeProgress,
		interfaces.EventNotice:   MessageTypeNotice,
	}

	for eventType, msgType := range forward {
		msgType := msgType
		h.eventService.Subscribe(eventType, func(ctx context.Context, event interfaces.Event) error {
			h.broadcast(WSMessage{Type: msgType, Payload: event.Payload})
			return nil
		})
	}
}

// HandleWebSocket handles WebSocket connections
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = &sync.Mutex{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	h.sendInitialState(conn)

	// Handle client disconnection
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		clientCount := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", clientCount)
	}()

	// Read messages from client (keep connection alive)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

// ClientCount returns the number of connected popups
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// sendInitialState sends status, the current wheel and the overlay to a new client
func (h *WebSocketHandler) sendInitialState(conn *websocket.Conn) {
	h.send(conn, WSMessage{
		Type: MessageTypeStatus,
		Payload: StatusUpdate{
			Service:          "ONLINE",
			Version:          common.GetVersion(),
			ServerInstanceID: h.serverInstanceID,
		},
	})

	if h.state == nil {
		return
	}
	h.send(conn, WSMessage{Type: MessageTypeWheel, Payload: h.state.Wheel()})
	h.send(conn, WSMessage{Type: MessageTypeProgress, Payload: h.state.Progress()})
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal message")
		return
	}

	h.mu.RLock()
	mutex := h.clientMutex[conn]
	h.mu.RUnlock()

	if mutex != nil {
		if err := h.write(conn, mutex, data); err != nil {
			h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send message to client")
		}
	}
}

// broadcast sends msg to all connected clients
func (h *WebSocketHandler) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal broadcast message")
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
		mutexes = append(mutexes, h.clientMutex[conn])
	}
	h.mu.RUnlock()

	for i, conn := range clients {
		if err := h.write(conn, mutexes[i], data); err != nil {
			h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send message to client")
		}
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, mutex *sync.Mutex, data []byte) error {
	mutex.Lock()
	defer mutex.Unlock()

	if h.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
