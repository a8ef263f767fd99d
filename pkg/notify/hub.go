package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/internal/metrics"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
)

// Client is one open live channel. Messages are queued on a bounded buffer
// drained by the connection's writer.
type Client struct {
	id       string
	identity string

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewClient creates a client for the identity with a queue of the given size
func NewClient(identity string, buffer int) *Client {
	return &Client{
		id:       uuid.NewString(),
		identity: bridge.NormalizeIdentity(identity),
		send:     make(chan []byte, buffer),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) Identity() string { return c.identity }

// Queue returns the outgoing message queue. It is closed once the client is
// unregistered.
func (c *Client) Queue() <-chan []byte { return c.send }

// Enqueue adds a message without blocking. It reports false when the queue is
// full or the client is closed.
func (c *Client) Enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Hub is the registry of open channels per identity
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger.With(zap.String("component", "notify_hub")),
	}
}

// Register adds a client to its identity
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.identity]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.identity] = set
	}
	set[c] = struct{}{}
	metrics.ConnectedClients.Inc()

	h.logger.Debug("Client registered",
		zap.String("identity", c.identity),
		zap.String("client_id", c.id),
		zap.Int("identity_clients", len(set)))
}

// Unregister removes a client and closes its queue. The identity entry is
// removed with its last client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.identity]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.identity)
	}
	c.close()
	metrics.ConnectedClients.Dec()

	h.logger.Debug("Client unregistered",
		zap.String("identity", c.identity),
		zap.String("client_id", c.id))
}

// ClientCount returns the number of open channels of an identity
func (h *Hub) ClientCount(identity string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[bridge.NormalizeIdentity(identity)])
}

// Publish enqueues the update on every channel of its identity. An identity
// without channels is not an error; the update is dropped.
func (h *Hub) Publish(_ context.Context, u Update) error {
	payload, err := json.Marshal(u.Message())
	if err != nil {
		return fmt.Errorf("failed to encode %s update: %w", u.Kind, err)
	}

	identity := bridge.NormalizeIdentity(u.Identity)

	h.mu.RLock()
	defer h.mu.RUnlock()

	set := h.clients[identity]
	if len(set) == 0 {
		metrics.NotificationsDropped.WithLabelValues("no_client").Inc()
		return nil
	}
	for c := range set {
		if !c.Enqueue(payload) {
			metrics.NotificationsDropped.WithLabelValues("queue_full").Inc()
			h.logger.Warn("Dropping update for slow client",
				zap.String("identity", identity),
				zap.String("client_id", c.id),
				zap.String("kind", string(u.Kind)))
			continue
		}
		metrics.NotificationsSent.WithLabelValues(string(u.Kind)).Inc()
	}
	return nil
}
