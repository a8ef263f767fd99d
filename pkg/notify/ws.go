package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 4096
)

// StatusSource reads the current records of an identity
type StatusSource interface {
	GetUserRecords(ctx context.Context, identity string) (*bridge.UserRecords, error)
}

// WSHandler serves the live channel of one identity at /ws/{identity}
type WSHandler struct {
	hub        *Hub
	source     StatusSource
	upgrader   websocket.Upgrader
	sendBuffer int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewWSHandler creates the live channel handler
func NewWSHandler(hub *Hub, source StatusSource, sendBuffer int, timeout time.Duration, logger *zap.Logger) *WSHandler {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &WSHandler{
		hub:    hub,
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
		timeout:    timeout,
		logger:     logger.With(zap.String("component", "ws_handler")),
	}
}

// ServeHTTP upgrades the request and runs the channel until either side closes
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	if identity == "" {
		http.Error(w, "identity is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(identity, h.sendBuffer)
	h.hub.Register(client)

	h.logger.Info("Live channel opened",
		zap.String("identity", client.Identity()),
		zap.String("client_id", client.ID()))

	go h.writePump(conn, client)
	h.sendStatus(r.Context(), client)
	h.readPump(r.Context(), conn, client)
}

// readPump handles incoming control messages. Any read error ends the channel.
func (h *WSHandler) readPump(ctx context.Context, conn *websocket.Conn, client *Client) {
	defer func() {
		h.hub.Unregister(client)
		_ = conn.Close()
		h.logger.Info("Live channel closed",
			zap.String("identity", client.Identity()),
			zap.String("client_id", client.ID()))
	}()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("Live channel read failed", zap.String("client_id", client.ID()), zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.enqueue(client, Message{Type: KindError, Message: "Invalid JSON"})
			continue
		}

		switch msg.Type {
		case KindPing:
			h.enqueue(client, Message{Type: KindPong})
		case KindRequestStatusUpdate:
			h.sendStatus(ctx, client)
		default:
			h.logger.Debug("Ignoring live channel message",
				zap.String("client_id", client.ID()),
				zap.String("type", string(msg.Type)))
		}
	}
}

// writePump drains the client queue and keeps the connection alive with
// pings. It exits when the queue is closed or a write fails.
func (h *WSHandler) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Queue():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("Live channel write failed", zap.String("client_id", client.ID()), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// sendStatus queues every current record of the client's identity
func (h *WSHandler) sendStatus(ctx context.Context, client *Client) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	records, err := h.source.GetUserRecords(ctx, client.Identity())
	if err != nil {
		h.logger.Error("Failed to load status for live channel",
			zap.String("identity", client.Identity()),
			zap.Error(err))
		h.enqueue(client, Message{Type: KindError, Message: "Failed to load status"})
		return
	}
	for _, u := range StatusUpdates(records) {
		h.enqueue(client, u.Message())
	}
}

func (h *WSHandler) enqueue(client *Client, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode live channel message", zap.Error(err))
		return
	}
	if !client.Enqueue(payload) {
		h.logger.Warn("Dropping reply for slow client",
			zap.String("client_id", client.ID()),
			zap.String("type", string(msg.Type)))
	}
}
