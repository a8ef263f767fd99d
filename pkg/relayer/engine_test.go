package relayer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
)

type fakeComponent struct {
	err     error
	runs    atomic.Int32
	stopped atomic.Bool

	once sync.Once
	done chan struct{}
}

func newFakeComponent(err error) *fakeComponent {
	return &fakeComponent{err: err, done: make(chan struct{})}
}

func (c *fakeComponent) Run(ctx context.Context) error {
	c.runs.Add(1)
	if c.err != nil {
		return c.err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return nil
	}
}

func (c *fakeComponent) Stop() {
	c.stopped.Store(true)
	c.once.Do(func() { close(c.done) })
}

type fakeStore struct {
	deposits []*bridge.DepositIntent
	releases []*bridge.ReleaseTransaction
	gas      []*bridge.GasPaymentIntent
	err      error
}

func (s *fakeStore) ListDepositIntents(context.Context, ...bridgestore.QueryOption) ([]*bridge.DepositIntent, error) {
	return s.deposits, s.err
}

func (s *fakeStore) ListReleaseTransactions(context.Context, ...bridgestore.QueryOption) ([]*bridge.ReleaseTransaction, error) {
	return s.releases, nil
}

func (s *fakeStore) ListGasPaymentIntents(_ context.Context, opts ...bridgestore.QueryOption) ([]*bridge.GasPaymentIntent, error) {
	q := &bridgestore.QueryOptions{}
	for _, o := range opts {
		o(q)
	}
	var out []*bridge.GasPaymentIntent
	for _, g := range s.gas {
		for _, st := range q.Statuses {
			if g.Status == st {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func testExecutorConfig() *config.ExecutorConfig {
	return &config.ExecutorConfig{
		ReconcileInterval: time.Hour,
		StuckAfter:        15 * time.Minute,
	}
}

func TestEngine_Start_NoComponents(t *testing.T) {
	e := NewEngine(testExecutorConfig(), &fakeStore{}, zap.NewNop())
	err := e.Start(context.Background())
	require.Error(t, err)
	assert.False(t, e.IsReady())
}

func TestEngine_StartStop(t *testing.T) {
	e := NewEngine(testExecutorConfig(), &fakeStore{}, zap.NewNop())
	a, b := newFakeComponent(nil), newFakeComponent(nil)
	e.Register("coin_observer", a)
	e.Register("coordinator", b)

	require.NoError(t, e.Start(context.Background()))
	assert.True(t, e.IsReady())
	require.Eventually(t, func() bool {
		return a.runs.Load() == 1 && b.runs.Load() == 1
	}, time.Second, 10*time.Millisecond)

	err := e.Start(context.Background())
	assert.EqualError(t, err, "relayer engine already started")

	e.Stop()
	assert.False(t, e.IsReady())
	assert.True(t, a.stopped.Load())
	assert.True(t, b.stopped.Load())

	// second stop is a no-op
	e.Stop()
}

func TestEngine_ReadyRunsHealthChecks(t *testing.T) {
	e := NewEngine(testExecutorConfig(), &fakeStore{}, zap.NewNop())
	e.Register("coordinator", newFakeComponent(nil))

	var coinErr error
	e.AddHealthCheck("cascoin", func(context.Context) error { return coinErr })
	e.AddHealthCheck("ethereum", func(context.Context) error { return nil })

	assert.EqualError(t, e.Ready(context.Background()), "relayer engine is not running")

	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()
	assert.NoError(t, e.Ready(context.Background()))

	coinErr = errors.New("node is in initial block download")
	err := e.Ready(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, coinErr)
	assert.Contains(t, err.Error(), "cascoin")
	assert.True(t, e.IsReady())
}

func TestEngine_FailingComponentDoesNotStopOthers(t *testing.T) {
	e := NewEngine(testExecutorConfig(), &fakeStore{}, zap.NewNop())
	failing := newFakeComponent(errors.New("node unreachable"))
	healthy := newFakeComponent(nil)
	e.Register("evm_observer", failing)
	e.Register("coordinator", healthy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, e.Start(ctx))

	require.Eventually(t, func() bool { return failing.runs.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.True(t, e.IsReady())
	assert.False(t, healthy.stopped.Load())

	cancel()
	e.Stop()
}

func TestEngine_RunReconciliation_ReportsStuckExecutions(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		deposits: []*bridge.DepositIntent{
			{ID: "dep-old", Status: bridge.StatusExecuting, UpdatedAt: now.Add(-time.Hour)},
			{ID: "dep-new", Status: bridge.StatusExecuting, UpdatedAt: now.Add(-time.Minute)},
			{ID: "dep-pending", Status: bridge.StatusPending, UpdatedAt: now.Add(-24 * time.Hour)},
		},
		releases: []*bridge.ReleaseTransaction{
			{ID: "rel-old", ReturnIntentID: "ret-1", Status: bridge.StatusExecuting, UpdatedAt: now.Add(-20 * time.Minute)},
			{ID: "rel-confirmed", ReturnIntentID: "ret-2", Status: bridge.StatusConfirmed, UpdatedAt: now.Add(-time.Hour)},
		},
		gas: []*bridge.GasPaymentIntent{
			{ID: "gas-1", Status: bridge.StatusPending},
		},
	}

	core, logs := observer.New(zapcore.InfoLevel)
	e := NewEngine(testExecutorConfig(), store, zap.New(core))
	e.now = func() time.Time { return now }

	require.NoError(t, e.RunReconciliation(context.Background()))

	stuckDeposits := logs.FilterMessage("Deposit stuck in executing").All()
	require.Len(t, stuckDeposits, 1)
	assert.Equal(t, "dep-old", stuckDeposits[0].ContextMap()["deposit_id"])

	stuckReleases := logs.FilterMessage("Release stuck in executing").All()
	require.Len(t, stuckReleases, 1)
	assert.Equal(t, "rel-old", stuckReleases[0].ContextMap()["release_id"])

	summary := logs.FilterMessage("Reconciliation summary").All()
	require.Len(t, summary, 1)
	fields := summary[0].ContextMap()
	assert.EqualValues(t, 3, fields["deposits_in_flight"])
	assert.EqualValues(t, 2, fields["releases_in_flight"])
	assert.EqualValues(t, 1, fields["gas_payments_open"])
	assert.EqualValues(t, 1, fields["stuck_deposits"])
	assert.EqualValues(t, 1, fields["stuck_releases"])
}

func TestEngine_RunReconciliation_ReportsDepositsBlockedOnExpiredGas(t *testing.T) {
	store := &fakeStore{
		deposits: []*bridge.DepositIntent{
			{ID: "dep-blocked", FeeModel: bridge.FeeModelDirect, Status: bridge.StatusConfirmed},
			{ID: "dep-funded", FeeModel: bridge.FeeModelDirect, Status: bridge.StatusConfirmed},
			{ID: "dep-early", FeeModel: bridge.FeeModelDirect, Status: bridge.StatusPending},
		},
		gas: []*bridge.GasPaymentIntent{
			{ID: "gas-expired", DepositIntentID: "dep-blocked", Status: bridge.StatusExpired},
			{ID: "gas-funded", DepositIntentID: "dep-funded", Status: bridge.StatusFunded},
			{ID: "gas-early", DepositIntentID: "dep-early", Status: bridge.StatusExpired},
		},
	}

	core, logs := observer.New(zapcore.InfoLevel)
	e := NewEngine(testExecutorConfig(), store, zap.New(core))

	require.NoError(t, e.RunReconciliation(context.Background()))

	blocked := logs.FilterMessage("Deposit waiting on an expired gas payment").All()
	require.Len(t, blocked, 1)
	assert.Equal(t, "dep-blocked", blocked[0].ContextMap()["deposit_id"])
	assert.Equal(t, "gas-expired", blocked[0].ContextMap()["gas_payment_id"])

	summary := logs.FilterMessage("Reconciliation summary").All()
	require.Len(t, summary, 1)
	assert.EqualValues(t, 1, summary[0].ContextMap()["deposits_blocked_on_gas"])
	assert.EqualValues(t, 1, summary[0].ContextMap()["gas_payments_open"])
}

func TestEngine_RunReconciliation_StuckDetectionDisabled(t *testing.T) {
	store := &fakeStore{
		deposits: []*bridge.DepositIntent{
			{ID: "dep-old", Status: bridge.StatusExecuting, UpdatedAt: time.Now().Add(-48 * time.Hour)},
		},
	}
	cfg := testExecutorConfig()
	cfg.StuckAfter = 0

	core, logs := observer.New(zapcore.WarnLevel)
	e := NewEngine(cfg, store, zap.New(core))

	require.NoError(t, e.RunReconciliation(context.Background()))
	assert.Zero(t, logs.Len())
}

func TestEngine_RunReconciliation_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	e := NewEngine(testExecutorConfig(), store, zap.NewNop())

	err := e.RunReconciliation(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list pending deposits")
}
