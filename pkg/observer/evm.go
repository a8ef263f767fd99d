package observer

import (
	"context"
	"errors"
	"math/big"
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
	"github.com/chainsafe/cascoin-bridge/pkg/notify"
)

// EVMNode is the subset of the EVM client the observer reads
type EVMNode interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterTransfers(ctx context.Context, from, to uint64, recipients []common.Address) ([]ethereum.TransferEvent, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	Decimals(ctx context.Context) (uint8, error)
}

// EVMStore is the subset of the state store the EVM observer mutates
type EVMStore interface {
	GetCursor(ctx context.Context, chain string) (uint64, bool, error)
	SaveCursor(ctx context.Context, chain string, block uint64) error
	ListReleaseTransactions(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.ReleaseTransaction, error)
	RecordReleaseSighting(ctx context.Context, id string, sighting bridgestore.ReleaseSighting) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error)
	UpdateReleaseConfirmations(ctx context.Context, id string, confirmations int) (*bridge.ReleaseTransaction, error)
	ListGasPaymentIntents(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.GasPaymentIntent, error)
	MarkGasFunded(ctx context.Context, id string, received decimal.Decimal) (*bridge.GasPaymentIntent, error)
	ExpireGasPayment(ctx context.Context, id string) (*bridge.GasPaymentIntent, error)
}

// EVMObserver tracks token transfers into return deposit addresses and
// funding of gas payment addresses
type EVMObserver struct {
	*poller
	node           EVMNode
	store          EVMStore
	publisher      notify.Publisher
	trigger        Trigger
	cfg            *config.EthereumConfig
	nativeDecimals int32
	now            func() time.Time
	logger         *zap.Logger
}

// NewEVMObserver creates an EVM chain observer. A nil trigger is allowed.
func NewEVMObserver(
	cfg *config.EthereumConfig,
	nativeDecimals int32,
	node EVMNode,
	store EVMStore,
	publisher notify.Publisher,
	trigger Trigger,
	logger *zap.Logger,
) *EVMObserver {
	if trigger == nil {
		trigger = noopTrigger{}
	}
	o := &EVMObserver{
		node:           node,
		store:          store,
		publisher:      publisher,
		trigger:        trigger,
		cfg:            cfg,
		nativeDecimals: nativeDecimals,
		now:            time.Now,
		logger:         logger.With(zap.String("component", "evm_observer")),
	}
	o.poller = newPoller("evm", cfg.PollInterval, o.Tick, o.logger)
	return o
}

// Run blocks until the context is canceled or Stop is called
func (o *EVMObserver) Run(ctx context.Context) error {
	return o.run(ctx)
}

// Stop ends Run
func (o *EVMObserver) Stop() {
	o.stop()
}

// Tick performs one observation pass
func (o *EVMObserver) Tick(ctx context.Context) {
	rctx, cancel := withTimeout(ctx, o.cfg.RPCTimeout)
	head, err := o.node.BlockNumber(rctx)
	cancel()
	if err != nil {
		rpcFailed(o.logger, chainEVM, "eth_blockNumber", err)
		return
	}

	confirmed := o.scanTransfers(ctx, head)
	if o.refreshConfirmations(ctx, head) {
		confirmed = true
	}
	if o.checkGasPayments(ctx) {
		confirmed = true
	}
	if confirmed {
		o.trigger.Trigger()
	}
}

// scanTransfers looks for token transfers into pending return deposit
// addresses over (cursor, head]. The cursor only moves past a chunk once it
// was scanned and every sighting in it was recorded.
func (o *EVMObserver) scanTransfers(ctx context.Context, head uint64) bool {
	pending, err := o.store.ListReleaseTransactions(ctx, bridgestore.WithStatus(bridge.StatusPending))
	if err != nil {
		storeFailed(o.logger, "evm_observer", "list_pending_releases", err)
		return false
	}

	cursor, ok, err := o.store.GetCursor(ctx, chainEVM)
	if err != nil {
		storeFailed(o.logger, "evm_observer", "get_cursor", err)
		return false
	}
	if !ok {
		cursor = 0
		if head > o.cfg.StartBlockLookback {
			cursor = head - o.cfg.StartBlockLookback
		}
	}
	if cursor >= head {
		return false
	}

	if len(pending) == 0 {
		o.saveCursor(ctx, head)
		return false
	}

	byAddress := make(map[common.Address]*bridge.ReleaseTransaction, len(pending))
	recipients := make([]common.Address, 0, len(pending))
	for _, r := range pending {
		addr := common.HexToAddress(r.ToAddress)
		byAddress[addr] = r
		recipients = append(recipients, addr)
	}

	rctx, cancel := withTimeout(ctx, o.cfg.RPCTimeout)
	decimals, err := o.node.Decimals(rctx)
	cancel()
	if err != nil {
		rpcFailed(o.logger, chainEVM, "decimals", err)
		return false
	}

	step := o.cfg.MaxBlockRange
	if step == 0 {
		step = 2000
	}

	confirmed := false
	for from := cursor + 1; from <= head; from += step {
		to := from + step - 1
		if to > head {
			to = head
		}

		rctx, cancel := withTimeout(ctx, o.cfg.RPCTimeout)
		events, err := o.node.FilterTransfers(rctx, from, to, recipients)
		cancel()
		if err != nil {
			rpcFailed(o.logger, chainEVM, "eth_getLogs", err, zap.Uint64("from", from), zap.Uint64("to", to))
			return confirmed
		}

		for _, ev := range events {
			release, ok := byAddress[ev.To]
			if !ok {
				continue
			}
			reached, err := o.recordSighting(ctx, release, ev, head, int32(decimals))
			if err != nil {
				// rescan this chunk next tick
				if from-1 > cursor {
					o.saveCursor(ctx, from-1)
				}
				return confirmed
			}
			if reached {
				confirmed = true
			}
			delete(byAddress, ev.To)
		}
	}

	o.saveCursor(ctx, head)
	return confirmed
}

func (o *EVMObserver) recordSighting(
	ctx context.Context,
	release *bridge.ReleaseTransaction,
	ev ethereum.TransferEvent,
	head uint64,
	decimals int32,
) (bool, error) {
	sighting := bridgestore.ReleaseSighting{
		TxHash:        ev.TxHash.Hex(),
		FromAddress:   ev.From.Hex(),
		Amount:        ethereum.FromBaseUnits(ev.Value, decimals),
		BlockNumber:   ev.BlockNumber,
		Confirmations: ethereum.Confirmations(head, ev.BlockNumber),
	}

	updated, intent, err := o.store.RecordReleaseSighting(ctx, release.ID, sighting)
	if errors.Is(err, bridgestore.ErrStatusConflict) {
		return false, nil
	}
	if err != nil {
		storeFailed(o.logger, "evm_observer", "record_release_sighting", err, zap.String("release_id", release.ID))
		return false, err
	}

	metrics.SightingsTotal.WithLabelValues(chainEVM).Inc()
	o.logger.Info("Return transfer sighted",
		zap.String("release_id", updated.ID),
		zap.String("tx_hash", sighting.TxHash),
		zap.String("from", sighting.FromAddress),
		zap.String("amount", sighting.Amount.String()),
		zap.Int("confirmations", updated.CurrentConfirmations))

	publish(ctx, o.publisher, notify.ReleaseUpdate(updated), o.logger)
	publish(ctx, o.publisher, notify.ReturnIntentUpdate(intent), o.logger)

	if updated.Status == bridge.StatusConfirmed {
		metrics.ConfirmationsReached.WithLabelValues(chainEVM).Inc()
		return true, nil
	}
	return false, nil
}

func (o *EVMObserver) saveCursor(ctx context.Context, block uint64) {
	if err := o.store.SaveCursor(ctx, chainEVM, block); err != nil {
		storeFailed(o.logger, "evm_observer", "save_cursor", err, zap.Uint64("block", block))
		return
	}
	metrics.LastProcessedBlock.WithLabelValues(chainEVM).Set(float64(block))
}

// refreshConfirmations advances sighted releases from their receipts
func (o *EVMObserver) refreshConfirmations(ctx context.Context, head uint64) bool {
	sighted, err := o.store.ListReleaseTransactions(ctx, bridgestore.WithStatus(bridge.StatusPendingConfirmation))
	if err != nil {
		storeFailed(o.logger, "evm_observer", "list_unconfirmed_releases", err)
		return false
	}

	confirmed := false
	for _, r := range sighted {
		if r.TxHash == "" {
			continue
		}

		rctx, cancel := withTimeout(ctx, o.cfg.RPCTimeout)
		receipt, err := o.node.TransactionReceipt(rctx, common.HexToHash(r.TxHash))
		cancel()
		if err != nil {
			rpcFailed(o.logger, chainEVM, "eth_getTransactionReceipt", err, zap.String("release_id", r.ID))
			continue
		}
		if receipt == nil || receipt.BlockNumber == nil {
			continue
		}

		confs := ethereum.Confirmations(head, receipt.BlockNumber.Uint64())
		if !advances(r.CurrentConfirmations, r.RequiredConfirmations, confs) {
			continue
		}

		updated, err := o.store.UpdateReleaseConfirmations(ctx, r.ID, confs)
		if errors.Is(err, bridgestore.ErrStatusConflict) {
			continue
		}
		if err != nil {
			storeFailed(o.logger, "evm_observer", "update_release_confirmations", err, zap.String("release_id", r.ID))
			continue
		}

		if updated.Status == bridge.StatusConfirmed {
			metrics.ConfirmationsReached.WithLabelValues(chainEVM).Inc()
			o.logger.Info("Return transfer confirmed",
				zap.String("release_id", updated.ID),
				zap.Int("confirmations", updated.CurrentConfirmations))
			confirmed = true
		}
		publish(ctx, o.publisher, notify.ReleaseUpdate(updated), o.logger)
	}
	return confirmed
}

// checkGasPayments marks pending gas payments funded once the gas address
// holds the required balance, or expired once their time to live has passed
func (o *EVMObserver) checkGasPayments(ctx context.Context) bool {
	pending, err := o.store.ListGasPaymentIntents(ctx, bridgestore.WithStatus(bridge.StatusPending))
	if err != nil {
		storeFailed(o.logger, "evm_observer", "list_pending_gas_payments", err)
		return false
	}

	funded := false
	for _, g := range pending {
		if !common.IsHexAddress(g.GasAddress) {
			o.logger.Warn("Gas payment has an invalid address", zap.String("gas_payment_id", g.ID))
			continue
		}

		rctx, cancel := withTimeout(ctx, o.cfg.RPCTimeout)
		balance, err := o.node.BalanceAt(rctx, common.HexToAddress(g.GasAddress))
		cancel()
		if err != nil {
			rpcFailed(o.logger, chainEVM, "eth_getBalance", err, zap.String("gas_payment_id", g.ID))
			continue
		}

		received := ethereum.FromBaseUnits(balance, o.nativeDecimals)
		if received.GreaterThanOrEqual(g.RequiredAmount) && received.IsPositive() {
			updated, err := o.store.MarkGasFunded(ctx, g.ID, received)
			if errors.Is(err, bridgestore.ErrStatusConflict) {
				continue
			}
			if err != nil {
				storeFailed(o.logger, "evm_observer", "mark_gas_funded", err, zap.String("gas_payment_id", g.ID))
				continue
			}
			metrics.GasPayments.WithLabelValues(string(bridge.StatusFunded)).Inc()
			o.logger.Info("Gas payment funded",
				zap.String("gas_payment_id", g.ID),
				zap.String("deposit_id", g.DepositIntentID),
				zap.String("received", received.String()))
			publish(ctx, o.publisher, notify.GasPaymentUpdate(updated), o.logger)
			funded = true
			continue
		}

		// updated_at of a pending intent is when it was issued or renewed
		if o.cfg.GasPaymentTTL > 0 && o.now().After(g.UpdatedAt.Add(o.cfg.GasPaymentTTL)) {
			updated, err := o.store.ExpireGasPayment(ctx, g.ID)
			if errors.Is(err, bridgestore.ErrStatusConflict) {
				continue
			}
			if err != nil {
				storeFailed(o.logger, "evm_observer", "expire_gas_payment", err, zap.String("gas_payment_id", g.ID))
				continue
			}
			metrics.GasPayments.WithLabelValues(string(bridge.StatusExpired)).Inc()
			o.logger.Info("Gas payment expired", zap.String("gas_payment_id", g.ID))
			publish(ctx, o.publisher, notify.GasPaymentUpdate(updated), o.logger)
		}
	}
	return funded
}
