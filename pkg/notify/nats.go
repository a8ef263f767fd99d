package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Connect opens a NATS connection that reconnects forever
func Connect(url string, timeout time.Duration, logger *zap.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Timeout(timeout),
		nats.ReconnectWait(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	logger.Info("Connected to NATS", zap.String("url", url))
	return conn, nil
}

// Subject returns the subject updates of a kind are published on
func Subject(prefix string, kind Kind) string {
	return prefix + "." + string(kind)
}

// NATSPublisher publishes updates to every API instance through NATS
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

func (p *NATSPublisher) Publish(_ context.Context, u Update) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode %s update: %w", u.Kind, err)
	}
	if err := p.conn.Publish(Subject(p.prefix, u.Kind), payload); err != nil {
		return fmt.Errorf("failed to publish %s update: %w", u.Kind, err)
	}
	return nil
}

// NATSRelay feeds updates published by other processes into a local
// publisher. Each API instance subscribes without a queue group so every
// instance sees every update.
type NATSRelay struct {
	conn   *nats.Conn
	prefix string
	target Publisher
	logger *zap.Logger
	sub    *nats.Subscription
}

func NewNATSRelay(conn *nats.Conn, prefix string, target Publisher, logger *zap.Logger) *NATSRelay {
	return &NATSRelay{
		conn:   conn,
		prefix: prefix,
		target: target,
		logger: logger.With(zap.String("component", "nats_relay")),
	}
}

// Start subscribes to all update subjects
func (r *NATSRelay) Start() error {
	sub, err := r.conn.Subscribe(r.prefix+".>", r.handle)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s.>: %w", r.prefix, err)
	}
	r.sub = sub
	r.logger.Info("Relaying live updates", zap.String("subject", r.prefix+".>"))
	return nil
}

// Stop removes the subscription
func (r *NATSRelay) Stop() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Unsubscribe()
}

func (r *NATSRelay) handle(msg *nats.Msg) {
	var u struct {
		Kind     Kind            `json:"kind"`
		Identity string          `json:"identity"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg.Data, &u); err != nil {
		r.logger.Warn("Discarding malformed update", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	if err := r.target.Publish(context.Background(), Update{Kind: u.Kind, Identity: u.Identity, Data: u.Data}); err != nil {
		r.logger.Warn("Failed to relay update", zap.String("kind", string(u.Kind)), zap.Error(err))
	}
}
