// Package notify delivers live record updates to connected clients. A Hub
// keeps the open channels of each identity; publishers hand it updates either
// in-process or through NATS when the producer runs in another process.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
)

// Kind is the type of a live channel message
type Kind string

const (
	KindDepositUpdate       Kind = "deposit_update"
	KindReturnIntentUpdate  Kind = "return_intent_update"
	KindReleaseUpdate       Kind = "release_transaction_update"
	KindGasPaymentUpdate    Kind = "gas_payment_update"
	KindPing                Kind = "ping"
	KindPong                Kind = "pong"
	KindRequestStatusUpdate Kind = "request_status_update"
	KindError               Kind = "error"
)

// Message is the wire format of the live channel
type Message struct {
	Type    Kind   `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Update is a changed record addressed to the identity that owns it
type Update struct {
	Kind     Kind   `json:"kind"`
	Identity string `json:"identity"`
	Data     any    `json:"data"`
}

// Message converts the update into its wire format
func (u Update) Message() Message {
	return Message{Type: u.Kind, Data: u.Data}
}

// Publisher delivers updates. Publishing never blocks on slow or absent
// clients; an undeliverable update is dropped.
type Publisher interface {
	Publish(ctx context.Context, u Update) error
}

func DepositUpdate(d *bridge.DepositIntent) Update {
	return Update{Kind: KindDepositUpdate, Identity: bridge.NormalizeIdentity(d.DestinationAddress), Data: d}
}

func GasPaymentUpdate(g *bridge.GasPaymentIntent) Update {
	return Update{Kind: KindGasPaymentUpdate, Identity: bridge.NormalizeIdentity(g.OwnerAddress), Data: g}
}

func ReturnIntentUpdate(r *bridge.ReturnIntent) Update {
	return Update{Kind: KindReturnIntentUpdate, Identity: bridge.NormalizeIdentity(r.SourceAddress), Data: r}
}

func ReleaseUpdate(r *bridge.ReleaseTransaction) Update {
	return Update{Kind: KindReleaseUpdate, Identity: bridge.NormalizeIdentity(r.SourceAddress), Data: r}
}

// StatusUpdates returns one update per record, in the order the live channel
// sends the initial status
func StatusUpdates(records *bridge.UserRecords) []Update {
	var out []Update
	for _, d := range records.Deposits {
		out = append(out, DepositUpdate(d))
	}
	for _, g := range records.GasPayments {
		out = append(out, GasPaymentUpdate(g))
	}
	for _, r := range records.Returns {
		out = append(out, ReturnIntentUpdate(r))
	}
	for _, r := range records.Releases {
		out = append(out, ReleaseUpdate(r))
	}
	return out
}

// LogPublisher records updates in the log and delivers nothing. It stands in
// when no fan-out transport is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, u Update) error {
	p.logger.Debug("Live update not delivered, no fan-out configured",
		zap.String("kind", string(u.Kind)),
		zap.String("identity", u.Identity))
	return nil
}

// MultiPublisher publishes every update to each publisher in turn
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, u Update) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, u); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
