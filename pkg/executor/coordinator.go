// Package executor performs the value-moving actions of the bridge: minting
// wrapped tokens for confirmed deposits and burning and releasing coins for
// confirmed returns. Each record is claimed with a conditional status update
// before anything is sent, so an action runs at most once per record.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/internal/metrics"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
	"github.com/chainsafe/cascoin-bridge/pkg/ethereum"
	"github.com/chainsafe/cascoin-bridge/pkg/fees"
	"github.com/chainsafe/cascoin-bridge/pkg/notify"
)

// Store is the subset of the state store the coordinator reads and mutates
type Store interface {
	ListDepositIntents(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.DepositIntent, error)
	ClaimDeposit(ctx context.Context, id string) (*bridge.DepositIntent, error)
	CompleteDeposit(ctx context.Context, id, mintTxHash string, fee, net decimal.Decimal) (*bridge.DepositIntent, error)
	FailDeposit(ctx context.Context, id, reason string) (*bridge.DepositIntent, error)

	GetGasPaymentByDeposit(ctx context.Context, depositIntentID string) (*bridge.GasPaymentIntent, error)
	MarkGasSpent(ctx context.Context, id string) (*bridge.GasPaymentIntent, error)

	GetReturnIntent(ctx context.Context, id string) (*bridge.ReturnIntent, error)
	ListReleaseTransactions(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.ReleaseTransaction, error)
	ClaimRelease(ctx context.Context, id string) (*bridge.ReleaseTransaction, error)
	CompleteRelease(ctx context.Context, id string, result bridgestore.ReleaseResult) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error)
	FailRelease(ctx context.Context, id, burnTxHash, reason string) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error)
}

// TokenClient signs wrapped token operations and waits for their receipts
type TokenClient interface {
	Mint(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error)
	BurnFrom(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error)
	Decimals(ctx context.Context) (uint8, error)
}

// CoinSender pays out coins from the operator wallet
type CoinSender interface {
	SendToAddress(ctx context.Context, address string, amount decimal.Decimal) (string, error)
}

// Quoter prices a bridge operation
type Quoter interface {
	Quote(req fees.Request) (fees.Quote, error)
}

// Coordinator executes confirmed deposits and releases
type Coordinator struct {
	store     Store
	token     TokenClient
	coin      CoinSender
	quoter    Quoter
	publisher notify.Publisher
	cfg       *config.ExecutorConfig
	logger    *zap.Logger

	wake     chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCoordinator creates an execution coordinator
func NewCoordinator(
	cfg *config.ExecutorConfig,
	store Store,
	token TokenClient,
	coin CoinSender,
	quoter Quoter,
	publisher notify.Publisher,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		store:     store,
		token:     token,
		coin:      coin,
		quoter:    quoter,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "coordinator")),
		wake:      make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Trigger wakes Run early. It never blocks; pokes made while a cycle is
// already pending collapse into one.
func (c *Coordinator) Trigger() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Run executes cycles on every interval and on every Trigger until the
// context is canceled or Stop is called
func (c *Coordinator) Run(ctx context.Context) error {
	interval := c.cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	c.logger.Info("Starting execution coordinator", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Execution coordinator stopped")
			return nil
		case <-ticker.C:
			c.RunCycle(ctx)
		case <-c.wake:
			c.RunCycle(ctx)
		}
	}
}

// Stop ends Run
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

// RunCycle executes every confirmed deposit and release once. Token decimals
// are read before any record is claimed; when the read fails the cycle is
// skipped and the records stay confirmed.
func (c *Coordinator) RunCycle(ctx context.Context) {
	deposits, err := c.store.ListDepositIntents(ctx, bridgestore.WithStatus(bridge.StatusConfirmed))
	if err != nil {
		c.storeFailed("list_confirmed_deposits", err)
	}
	releases, err := c.store.ListReleaseTransactions(ctx, bridgestore.WithStatus(bridge.StatusConfirmed))
	if err != nil {
		c.storeFailed("list_confirmed_releases", err)
	}
	if len(deposits) == 0 && len(releases) == 0 {
		return
	}

	dctx, cancel := c.executionContext(ctx)
	decimals, err := c.token.Decimals(dctx)
	cancel()
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("coordinator", "rpc").Inc()
		c.logger.Warn("Failed to read token decimals, retrying next cycle",
			zap.Int("deposits", len(deposits)),
			zap.Int("releases", len(releases)),
			zap.Error(err))
		return
	}

	for _, d := range deposits {
		if ctx.Err() != nil {
			return
		}
		c.executeDeposit(ctx, d, int32(decimals))
	}
	for _, r := range releases {
		if ctx.Err() != nil {
			return
		}
		c.executeRelease(ctx, r, int32(decimals))
	}
}

func (c *Coordinator) executeDeposit(ctx context.Context, d *bridge.DepositIntent, decimals int32) {
	direction := string(bridge.DirectionCoinToWrapped)
	logger := c.logger.With(zap.String("deposit_id", d.ID))

	var gas *bridge.GasPaymentIntent
	if d.FeeModel == bridge.FeeModelDirect {
		g, err := c.store.GetGasPaymentByDeposit(ctx, d.ID)
		if err != nil && !errors.Is(err, bridgestore.ErrNotFound) {
			c.storeFailed("get_gas_payment", err, zap.String("deposit_id", d.ID))
			return
		}
		if g == nil || g.Status != bridge.StatusFunded {
			logger.Debug("Deposit waiting for gas payment")
			return
		}
		gas = g
	}

	claimed, err := c.store.ClaimDeposit(ctx, d.ID)
	if errors.Is(err, bridgestore.ErrStatusConflict) {
		metrics.ClaimConflicts.WithLabelValues(direction).Inc()
		logger.Debug("Deposit already claimed")
		return
	}
	if err != nil {
		c.storeFailed("claim_deposit", err, zap.String("deposit_id", d.ID))
		return
	}
	c.publish(ctx, notify.DepositUpdate(claimed))

	start := time.Now()
	txHash, quote, err := c.mint(ctx, claimed, decimals)
	metrics.ExecutionDuration.WithLabelValues(direction).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("Deposit execution failed", zap.Error(err))
		failed, ferr := c.store.FailDeposit(ctx, claimed.ID, err.Error())
		if ferr != nil {
			c.storeFailed("fail_deposit", ferr, zap.String("deposit_id", claimed.ID))
			return
		}
		metrics.ExecutionsTotal.WithLabelValues(direction, string(bridge.StatusFailed)).Inc()
		c.publish(ctx, notify.DepositUpdate(failed))
		return
	}

	completed, err := c.store.CompleteDeposit(ctx, claimed.ID, txHash, quote.TotalFees, quote.NetAmount)
	if err != nil {
		// the mint is on chain; the record stays executing for manual reconciliation
		logger.Error("Mint succeeded but completion could not be recorded",
			zap.String("mint_tx_hash", txHash),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("coordinator", "unrecorded_mint").Inc()
		return
	}
	metrics.ExecutionsTotal.WithLabelValues(direction, string(bridge.StatusCompleted)).Inc()
	metrics.ExecutionAmount.WithLabelValues(direction).Observe(quote.NetAmount.InexactFloat64())
	logger.Info("Deposit completed",
		zap.String("mint_tx_hash", txHash),
		zap.String("net_amount", quote.NetAmount.String()),
		zap.String("fee", quote.TotalFees.String()))
	c.publish(ctx, notify.DepositUpdate(completed))

	if gas != nil {
		spent, err := c.store.MarkGasSpent(ctx, gas.ID)
		if err != nil {
			c.storeFailed("mark_gas_spent", err, zap.String("gas_payment_id", gas.ID))
			return
		}
		metrics.GasPayments.WithLabelValues(string(bridge.StatusSpent)).Inc()
		c.publish(ctx, notify.GasPaymentUpdate(spent))
	}
}

// mint quotes the received amount and mints the net to the destination
func (c *Coordinator) mint(ctx context.Context, d *bridge.DepositIntent, decimals int32) (string, fees.Quote, error) {
	if d.ReceivedAmount == nil || !d.ReceivedAmount.IsPositive() {
		return "", fees.Quote{}, errors.New("received amount is missing")
	}
	if !common.IsHexAddress(d.DestinationAddress) {
		return "", fees.Quote{}, fmt.Errorf("invalid destination address %q", d.DestinationAddress)
	}

	quote, err := c.quoter.Quote(fees.Request{
		Amount:    *d.ReceivedAmount,
		Direction: bridge.DirectionCoinToWrapped,
		FeeModel:  d.FeeModel,
	})
	if err != nil {
		return "", fees.Quote{}, fmt.Errorf("failed to quote fees: %w", err)
	}
	if !quote.Valid {
		return "", quote, fmt.Errorf("fee quote rejected: %s", quote.Reason)
	}

	ctx, cancel := c.executionContext(ctx)
	defer cancel()

	receipt, err := c.token.Mint(ctx, common.HexToAddress(d.DestinationAddress), ethereum.ToBaseUnits(quote.NetAmount, decimals))
	if receipt != nil {
		metrics.GasUsed.WithLabelValues("mint").Observe(float64(receipt.GasUsed))
	}
	if err != nil {
		return "", quote, fmt.Errorf("failed to mint: %w", err)
	}
	return receipt.TxHash.Hex(), quote, nil
}

func (c *Coordinator) executeRelease(ctx context.Context, r *bridge.ReleaseTransaction, decimals int32) {
	direction := string(bridge.DirectionWrappedToCoin)
	logger := c.logger.With(zap.String("release_id", r.ID))

	claimed, err := c.store.ClaimRelease(ctx, r.ID)
	if errors.Is(err, bridgestore.ErrStatusConflict) {
		metrics.ClaimConflicts.WithLabelValues(direction).Inc()
		logger.Debug("Release already claimed")
		return
	}
	if err != nil {
		c.storeFailed("claim_release", err, zap.String("release_id", r.ID))
		return
	}
	c.publish(ctx, notify.ReleaseUpdate(claimed))

	start := time.Now()
	result, err := c.burnAndRelease(ctx, claimed, decimals)
	metrics.ExecutionDuration.WithLabelValues(direction).Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("Release execution failed", zap.String("burn_tx_hash", result.BurnTxHash), zap.Error(err))
		failed, intent, ferr := c.store.FailRelease(ctx, claimed.ID, result.BurnTxHash, err.Error())
		if ferr != nil {
			c.storeFailed("fail_release", ferr, zap.String("release_id", claimed.ID))
			return
		}
		metrics.ExecutionsTotal.WithLabelValues(direction, string(bridge.StatusFailed)).Inc()
		c.publish(ctx, notify.ReleaseUpdate(failed))
		c.publish(ctx, notify.ReturnIntentUpdate(intent))
		return
	}

	processed, intent, err := c.store.CompleteRelease(ctx, claimed.ID, result)
	if err != nil {
		logger.Error("Release succeeded but completion could not be recorded",
			zap.String("burn_tx_hash", result.BurnTxHash),
			zap.String("release_tx_hash", result.ReleaseTxHash),
			zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("coordinator", "unrecorded_release").Inc()
		return
	}
	metrics.ExecutionsTotal.WithLabelValues(direction, string(bridge.StatusProcessed)).Inc()
	metrics.ExecutionAmount.WithLabelValues(direction).Observe(result.Net.InexactFloat64())
	logger.Info("Release processed",
		zap.String("burn_tx_hash", result.BurnTxHash),
		zap.String("release_tx_hash", result.ReleaseTxHash),
		zap.String("net_amount", result.Net.String()))
	c.publish(ctx, notify.ReleaseUpdate(processed))
	c.publish(ctx, notify.ReturnIntentUpdate(intent))
}

// burnAndRelease burns the returned tokens and pays the net in coins. The
// result carries the burn hash even when the payout fails.
func (c *Coordinator) burnAndRelease(ctx context.Context, r *bridge.ReleaseTransaction, decimals int32) (bridgestore.ReleaseResult, error) {
	var result bridgestore.ReleaseResult

	if r.Amount == nil || !r.Amount.IsPositive() {
		return result, errors.New("returned amount is missing")
	}
	intent, err := c.store.GetReturnIntent(ctx, r.ReturnIntentID)
	if err != nil {
		return result, fmt.Errorf("failed to load return intent: %w", err)
	}

	quote, err := c.quoter.Quote(fees.Request{
		Amount:    *r.Amount,
		Direction: bridge.DirectionWrappedToCoin,
		FeeModel:  intent.FeeModel,
	})
	if err != nil {
		return result, fmt.Errorf("failed to quote fees: %w", err)
	}
	if !quote.Valid {
		return result, fmt.Errorf("fee quote rejected: %s", quote.Reason)
	}
	result.Fee = quote.TotalFees
	result.Net = quote.NetAmount

	ctx, cancel := c.executionContext(ctx)
	defer cancel()

	receipt, err := c.token.BurnFrom(ctx, common.HexToAddress(r.ToAddress), ethereum.ToBaseUnits(*r.Amount, decimals))
	if receipt != nil {
		metrics.GasUsed.WithLabelValues("burn").Observe(float64(receipt.GasUsed))
	}
	if err != nil {
		return result, fmt.Errorf("failed to burn: %w", err)
	}
	result.BurnTxHash = receipt.TxHash.Hex()

	txid, err := c.coin.SendToAddress(ctx, r.DestinationAddress, quote.NetAmount)
	if err != nil {
		return result, fmt.Errorf("failed to release coins: %w", err)
	}
	result.ReleaseTxHash = txid
	return result, nil
}

func (c *Coordinator) executionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.ExecutionTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.ExecutionTimeout)
}

func (c *Coordinator) publish(ctx context.Context, u notify.Update) {
	if err := c.publisher.Publish(ctx, u); err != nil {
		c.logger.Warn("Failed to publish update", zap.String("kind", string(u.Kind)), zap.Error(err))
	}
}

func (c *Coordinator) storeFailed(op string, err error, fields ...zap.Field) {
	metrics.ErrorsTotal.WithLabelValues("coordinator", "store").Inc()
	c.logger.Error("State store operation failed", append(fields, zap.String("operation", op), zap.Error(err))...)
}
