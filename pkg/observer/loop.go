// Package observer watches both chains for deposits into bridge-issued
// addresses and advances their confirmation counts. Observers never move
// value; they only record what the chains show and wake the coordinator once
// something is confirmed.
package observer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/internal/metrics"
	"github.com/chainsafe/cascoin-bridge/pkg/notify"
)

const (
	chainCoin = "cascoin"
	chainEVM  = "polygon"
)

// Trigger wakes the execution coordinator early
type Trigger interface {
	Trigger()
}

type noopTrigger struct{}

func (noopTrigger) Trigger() {}

// poller runs a tick function on a fixed interval until stopped
type poller struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)
	logger   *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newPoller(name string, interval time.Duration, tick func(ctx context.Context), logger *zap.Logger) *poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &poller{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// run ticks once immediately and then on every interval. It returns nil on
// Stop and the context error on cancellation.
func (p *poller) run(ctx context.Context) error {
	p.logger.Info("Starting observer", zap.String("observer", p.name), zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stopCh:
			p.logger.Info("Observer stopped", zap.String("observer", p.name))
			return nil
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *poller) stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// advances reports whether a fresh confirmation count would change a record
func advances(current, required, observed int) bool {
	return observed > current || (observed == current && observed >= required)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func rpcFailed(logger *zap.Logger, chain, method string, err error, fields ...zap.Field) {
	metrics.RPCErrors.WithLabelValues(chain, method).Inc()
	logger.Warn("Chain RPC call failed",
		append(fields, zap.String("chain", chain), zap.String("method", method), zap.Error(err))...)
}

func storeFailed(logger *zap.Logger, component, op string, err error, fields ...zap.Field) {
	metrics.ErrorsTotal.WithLabelValues(component, "store").Inc()
	logger.Error("State store operation failed",
		append(fields, zap.String("operation", op), zap.Error(err))...)
}

func publish(ctx context.Context, pub notify.Publisher, u notify.Update, logger *zap.Logger) {
	if err := pub.Publish(ctx, u); err != nil {
		logger.Warn("Failed to publish update", zap.String("kind", string(u.Kind)), zap.Error(err))
	}
}
