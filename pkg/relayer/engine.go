// Package relayer runs the bridge loops of the relayer process: the chain
// observers, the execution coordinator and a periodic reconciliation summary.
package relayer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/internal/metrics"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
)

const defaultReconcileInterval = 5 * time.Minute

// Component is a long-running loop owned by the engine
type Component interface {
	Run(ctx context.Context) error
	Stop()
}

// Store is the read access the reconciliation summary needs
type Store interface {
	ListDepositIntents(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.DepositIntent, error)
	ListReleaseTransactions(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.ReleaseTransaction, error)
	ListGasPaymentIntents(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.GasPaymentIntent, error)
}

// HealthCheck reports whether a dependency of the relayer can serve requests
type HealthCheck func(ctx context.Context) error

type namedComponent struct {
	name string
	Component
}

type namedCheck struct {
	name  string
	check HealthCheck
}

// Engine orchestrates the bridge relayer operations
type Engine struct {
	config     *config.ExecutorConfig
	store      Store
	logger     *zap.Logger
	components []namedComponent
	checks     []namedCheck
	now        func() time.Time

	running  atomic.Bool
	started  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewEngine creates a new relayer engine
func NewEngine(cfg *config.ExecutorConfig, store Store, logger *zap.Logger) *Engine {
	return &Engine{
		config: cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
}

// Register adds a component. It must be called before Start.
func (e *Engine) Register(name string, c Component) {
	e.components = append(e.components, namedComponent{name: name, Component: c})
}

// Start launches every registered component and the reconciliation loop.
// It returns immediately; Stop waits for the loops to exit.
func (e *Engine) Start(ctx context.Context) error {
	if len(e.components) == 0 {
		return fmt.Errorf("no components registered")
	}
	if !e.started.CompareAndSwap(false, true) {
		return fmt.Errorf("relayer engine already started")
	}
	e.logger.Info("Starting relayer engine", zap.Int("components", len(e.components)))

	for _, c := range e.components {
		e.wg.Add(1)
		go func(c namedComponent) {
			defer e.wg.Done()
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.logger.Error("Component failed", zap.String("component", c.name), zap.Error(err))
				metrics.ErrorsTotal.WithLabelValues(c.name, "run").Inc()
			}
		}(c)
	}

	e.wg.Add(1)
	go e.reconcile(ctx)

	e.running.Store(true)
	e.logger.Info("Relayer engine started")
	return nil
}

// Stop stops every component and waits for them to return
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.logger.Info("Stopping relayer engine")
		e.running.Store(false)
		close(e.stopCh)
		for _, c := range e.components {
			c.Stop()
		}
		e.wg.Wait()
		e.logger.Info("Relayer engine stopped")
	})
}

// IsReady reports whether the engine has started and not been stopped
func (e *Engine) IsReady() bool {
	return e.running.Load()
}

// AddHealthCheck adds a dependency check to Ready. It must be called before Start.
func (e *Engine) AddHealthCheck(name string, check HealthCheck) {
	e.checks = append(e.checks, namedCheck{name: name, check: check})
}

// Ready returns nil when the engine is running and every health check passes
func (e *Engine) Ready(ctx context.Context) error {
	if !e.IsReady() {
		return errors.New("relayer engine is not running")
	}
	for _, c := range e.checks {
		if err := c.check(ctx); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}

// reconcile periodically publishes the pending record summary
func (e *Engine) reconcile(ctx context.Context) {
	defer e.wg.Done()

	interval := e.config.ReconcileInterval
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
			if err := e.RunReconciliation(ctx); err != nil {
				e.logger.Error("Reconciliation failed", zap.Error(err))
			}
		}
	}
}

// RunReconciliation counts non-terminal records and reports executions that
// have not finished within the stuck threshold. Such records need an operator:
// the chain action may have happened without its result being recorded.
func (e *Engine) RunReconciliation(ctx context.Context) error {
	inFlight := bridgestore.WithStatus(
		bridge.StatusPending,
		bridge.StatusPendingConfirmation,
		bridge.StatusConfirmed,
		bridge.StatusExecuting,
	)

	deposits, err := e.store.ListDepositIntents(ctx, inFlight)
	if err != nil {
		return fmt.Errorf("failed to list pending deposits: %w", err)
	}
	releases, err := e.store.ListReleaseTransactions(ctx, inFlight)
	if err != nil {
		return fmt.Errorf("failed to list pending releases: %w", err)
	}
	gas, err := e.store.ListGasPaymentIntents(ctx, bridgestore.WithStatus(bridge.StatusPending, bridge.StatusFunded))
	if err != nil {
		return fmt.Errorf("failed to list pending gas payments: %w", err)
	}
	expiredGas, err := e.store.ListGasPaymentIntents(ctx, bridgestore.WithStatus(bridge.StatusExpired))
	if err != nil {
		return fmt.Errorf("failed to list expired gas payments: %w", err)
	}
	expiredByDeposit := make(map[string]*bridge.GasPaymentIntent, len(expiredGas))
	for _, g := range expiredGas {
		expiredByDeposit[g.DepositIntentID] = g
	}

	depositCounts := map[bridge.Status]int{}
	var stuckDeposits, blockedOnGas int
	for _, d := range deposits {
		depositCounts[d.Status]++
		if e.stuck(d.Status, d.UpdatedAt) {
			stuckDeposits++
			e.logger.Warn("Deposit stuck in executing",
				zap.String("deposit_id", d.ID),
				zap.String("destination", d.DestinationAddress),
				zap.Time("since", d.UpdatedAt))
		}
		if g, ok := expiredByDeposit[d.ID]; ok && d.Status == bridge.StatusConfirmed && d.FeeModel == bridge.FeeModelDirect {
			blockedOnGas++
			e.logger.Warn("Deposit waiting on an expired gas payment",
				zap.String("deposit_id", d.ID),
				zap.String("gas_payment_id", g.ID),
				zap.String("destination", d.DestinationAddress),
				zap.Time("expired_at", g.UpdatedAt))
		}
	}

	releaseCounts := map[bridge.Status]int{}
	var stuckReleases int
	for _, r := range releases {
		releaseCounts[r.Status]++
		if e.stuck(r.Status, r.UpdatedAt) {
			stuckReleases++
			e.logger.Warn("Release stuck in executing",
				zap.String("release_id", r.ID),
				zap.String("return_intent_id", r.ReturnIntentID),
				zap.Time("since", r.UpdatedAt))
		}
	}

	gasCounts := map[bridge.Status]int{}
	for _, g := range gas {
		gasCounts[g.Status]++
	}

	setPending("deposit", depositCounts, bridge.StatusPending, bridge.StatusPendingConfirmation, bridge.StatusConfirmed, bridge.StatusExecuting)
	setPending("release", releaseCounts, bridge.StatusPending, bridge.StatusPendingConfirmation, bridge.StatusConfirmed, bridge.StatusExecuting)
	setPending("gas_payment", gasCounts, bridge.StatusPending, bridge.StatusFunded)
	metrics.StuckExecutions.WithLabelValues("deposit").Set(float64(stuckDeposits))
	metrics.StuckExecutions.WithLabelValues("release").Set(float64(stuckReleases))
	metrics.ExpiredGasDeposits.Set(float64(blockedOnGas))

	e.logger.Info("Reconciliation summary",
		zap.Int("deposits_in_flight", len(deposits)),
		zap.Int("releases_in_flight", len(releases)),
		zap.Int("gas_payments_open", len(gas)),
		zap.Int("stuck_deposits", stuckDeposits),
		zap.Int("stuck_releases", stuckReleases),
		zap.Int("deposits_blocked_on_gas", blockedOnGas))
	return nil
}

func (e *Engine) stuck(status bridge.Status, since time.Time) bool {
	return status == bridge.StatusExecuting &&
		e.config.StuckAfter > 0 &&
		e.now().Sub(since) > e.config.StuckAfter
}

func setPending(kind string, counts map[bridge.Status]int, statuses ...bridge.Status) {
	for _, s := range statuses {
		metrics.PendingRecords.WithLabelValues(kind, string(s)).Set(float64(counts[s]))
	}
}
