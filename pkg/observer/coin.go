package observer

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/internal/metrics"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/cascoin"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
	"github.com/chainsafe/cascoin-bridge/pkg/notify"
)

const maxUnspentConfirmations = 9999999

// CoinNode is the subset of the coin node RPC the observer reads
type CoinNode interface {
	ListUnspent(ctx context.Context, minConf, maxConf int, addresses []string) ([]cascoin.Unspent, error)
	GetTransaction(ctx context.Context, txid string) (*cascoin.Transaction, error)
}

// DepositStore is the subset of the state store the coin observer mutates
type DepositStore interface {
	ListDepositIntents(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.DepositIntent, error)
	RecordDepositSighting(ctx context.Context, id, txHash string, amount decimal.Decimal, confirmations int) (*bridge.DepositIntent, error)
	UpdateDepositConfirmations(ctx context.Context, id string, confirmations int) (*bridge.DepositIntent, error)
}

// CoinObserver tracks deposits into bridge-issued coin addresses
type CoinObserver struct {
	*poller
	node      CoinNode
	store     DepositStore
	publisher notify.Publisher
	trigger   Trigger
	cfg       *config.CascoinConfig
	logger    *zap.Logger
}

// NewCoinObserver creates a coin chain observer. A nil trigger is allowed.
func NewCoinObserver(
	cfg *config.CascoinConfig,
	node CoinNode,
	store DepositStore,
	publisher notify.Publisher,
	trigger Trigger,
	logger *zap.Logger,
) *CoinObserver {
	if trigger == nil {
		trigger = noopTrigger{}
	}
	o := &CoinObserver{
		node:      node,
		store:     store,
		publisher: publisher,
		trigger:   trigger,
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "coin_observer")),
	}
	o.poller = newPoller("coin", cfg.PollInterval, o.Tick, o.logger)
	return o
}

// Run blocks until the context is canceled or Stop is called
func (o *CoinObserver) Run(ctx context.Context) error {
	return o.run(ctx)
}

// Stop ends Run
func (o *CoinObserver) Stop() {
	o.stop()
}

// Tick performs one observation pass
func (o *CoinObserver) Tick(ctx context.Context) {
	confirmed := o.scanPending(ctx)
	if o.refreshConfirmations(ctx) {
		confirmed = true
	}
	if confirmed {
		o.trigger.Trigger()
	}
}

// scanPending looks for first sightings of pending deposits. It reports
// whether any deposit went straight to confirmed.
func (o *CoinObserver) scanPending(ctx context.Context) bool {
	pending, err := o.store.ListDepositIntents(ctx, bridgestore.WithStatus(bridge.StatusPending))
	if err != nil {
		storeFailed(o.logger, "coin_observer", "list_pending_deposits", err)
		return false
	}
	if len(pending) == 0 {
		return false
	}

	byAddress := make(map[string]*bridge.DepositIntent, len(pending))
	addresses := make([]string, 0, len(pending))
	for _, d := range pending {
		byAddress[d.DepositAddress] = d
		addresses = append(addresses, d.DepositAddress)
	}

	rctx, cancel := withTimeout(ctx, o.cfg.RPCTimeout)
	unspent, err := o.node.ListUnspent(rctx, 0, maxUnspentConfirmations, addresses)
	cancel()
	if err != nil {
		rpcFailed(o.logger, chainCoin, "listunspent", err, zap.Int("addresses", len(addresses)))
		return false
	}

	// one deposit per address: the most confirmed output wins
	best := make(map[string]cascoin.Unspent)
	for _, u := range unspent {
		if _, ok := byAddress[u.Address]; !ok {
			continue
		}
		if cur, ok := best[u.Address]; !ok || u.Confirmations > cur.Confirmations {
			best[u.Address] = u
		}
	}

	confirmed := false
	for addr, u := range best {
		intent := byAddress[addr]
		updated, err := o.store.RecordDepositSighting(ctx, intent.ID, u.TxID, u.Amount, int(u.Confirmations))
		if errors.Is(err, bridgestore.ErrStatusConflict) {
			continue
		}
		if err != nil {
			storeFailed(o.logger, "coin_observer", "record_deposit_sighting", err, zap.String("deposit_id", intent.ID))
			continue
		}

		metrics.SightingsTotal.WithLabelValues(chainCoin).Inc()
		o.logger.Info("Deposit sighted",
			zap.String("deposit_id", updated.ID),
			zap.String("tx_hash", u.TxID),
			zap.String("amount", u.Amount.String()),
			zap.Int("confirmations", updated.CurrentConfirmations),
			zap.String("status", string(updated.Status)))

		if updated.Status == bridge.StatusConfirmed {
			metrics.ConfirmationsReached.WithLabelValues(chainCoin).Inc()
			confirmed = true
		}
		publish(ctx, o.publisher, notify.DepositUpdate(updated), o.logger)
	}
	return confirmed
}

// refreshConfirmations advances sighted deposits. It reports whether any
// deposit reached confirmed.
func (o *CoinObserver) refreshConfirmations(ctx context.Context) bool {
	sighted, err := o.store.ListDepositIntents(ctx, bridgestore.WithStatus(bridge.StatusPendingConfirmation))
	if err != nil {
		storeFailed(o.logger, "coin_observer", "list_unconfirmed_deposits", err)
		return false
	}

	confirmed := false
	for _, d := range sighted {
		if d.DepositTxHash == "" {
			continue
		}

		rctx, cancel := withTimeout(ctx, o.cfg.RPCTimeout)
		tx, err := o.node.GetTransaction(rctx, d.DepositTxHash)
		cancel()
		if err != nil {
			rpcFailed(o.logger, chainCoin, "gettransaction", err, zap.String("deposit_id", d.ID))
			continue
		}
		if tx.Confirmations < 0 {
			o.logger.Warn("Deposit transaction is conflicted",
				zap.String("deposit_id", d.ID),
				zap.String("tx_hash", d.DepositTxHash),
				zap.Int64("confirmations", tx.Confirmations))
			continue
		}
		if !advances(d.CurrentConfirmations, d.RequiredConfirmations, int(tx.Confirmations)) {
			continue
		}

		updated, err := o.store.UpdateDepositConfirmations(ctx, d.ID, int(tx.Confirmations))
		if errors.Is(err, bridgestore.ErrStatusConflict) {
			continue
		}
		if err != nil {
			storeFailed(o.logger, "coin_observer", "update_deposit_confirmations", err, zap.String("deposit_id", d.ID))
			continue
		}

		if updated.Status == bridge.StatusConfirmed {
			metrics.ConfirmationsReached.WithLabelValues(chainCoin).Inc()
			o.logger.Info("Deposit confirmed",
				zap.String("deposit_id", updated.ID),
				zap.Int("confirmations", updated.CurrentConfirmations))
			confirmed = true
		}
		publish(ctx, o.publisher, notify.DepositUpdate(updated), o.logger)
	}
	return confirmed
}
