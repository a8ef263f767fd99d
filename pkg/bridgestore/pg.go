package bridgestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the bridge store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

// NextIndex atomically allocates the next derivation index for a key purpose.
// The upsert takes a row lock, so concurrent callers are serialized and each
// receives a distinct value.
func (s *pgStore) NextIndex(ctx context.Context, purpose string) (int64, error) {
	var index int64
	err := s.db.NewRaw(
		`INSERT INTO key_indexes (purpose, next_index, updated_at) VALUES (?, 1, NOW())
		ON CONFLICT (purpose) DO UPDATE
		SET next_index = key_indexes.next_index + 1, updated_at = NOW()
		RETURNING next_index - 1`,
		purpose,
	).Scan(ctx, &index)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s index: %w", purpose, err)
	}
	return index, nil
}

func (s *pgStore) GetCursor(ctx context.Context, chain string) (uint64, bool, error) {
	dao := new(ChainCursorDao)
	err := s.db.NewSelect().Model(dao).Where("chain = ?", chain).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get %s cursor: %w", chain, err)
	}
	return uint64(dao.LastBlock), true, nil
}

func (s *pgStore) SaveCursor(ctx context.Context, chain string, block uint64) error {
	dao := &ChainCursorDao{Chain: chain, LastBlock: int64(block), UpdatedAt: time.Now().UTC()}
	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (chain) DO UPDATE").
		Set("last_block = EXCLUDED.last_block").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save %s cursor: %w", chain, err)
	}
	return nil
}

// =============================================================================
// DEPOSIT INTENTS
// =============================================================================

func (s *pgStore) CreateDepositIntent(ctx context.Context, intent *bridge.DepositIntent) error {
	if intent.ID == "" {
		intent.ID = uuid.NewString()
	}
	dao := toDepositIntentDao(intent)
	stamp(&dao.CreatedAt, &dao.UpdatedAt)

	if _, err := s.db.NewInsert().Model(dao).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create deposit intent: %w", insertErr(err))
	}
	intent.CreatedAt, intent.UpdatedAt = dao.CreatedAt, dao.UpdatedAt
	return nil
}

func (s *pgStore) GetDepositIntent(ctx context.Context, id string) (*bridge.DepositIntent, error) {
	dao := new(DepositIntentDao)
	if err := s.db.NewSelect().Model(dao).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, selectErr("deposit intent", err)
	}
	return toDepositIntent(dao), nil
}

func (s *pgStore) ListDepositIntents(ctx context.Context, opts ...QueryOption) ([]*bridge.DepositIntent, error) {
	var daos []DepositIntentDao
	query := s.db.NewSelect().Model(&daos)
	if err := listQuery(query, applyOptions(opts), "destination_address").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list deposit intents: %w", err)
	}
	out := make([]*bridge.DepositIntent, len(daos))
	for i := range daos {
		out[i] = toDepositIntent(&daos[i])
	}
	return out, nil
}

// RecordDepositSighting stores the first observation of the deposit
// transaction. received_amount is only ever written once.
func (s *pgStore) RecordDepositSighting(
	ctx context.Context,
	id, txHash string,
	amount decimal.Decimal,
	confirmations int,
) (*bridge.DepositIntent, error) {
	return updateDeposit(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return q.
			Set("deposit_tx_hash = ?", txHash).
			Set("received_amount = ?", amount.String()).
			Set("current_confirmations = GREATEST(current_confirmations, ?)", confirmations).
			Set(statusByThreshold, confirmations, string(bridge.StatusConfirmed), string(bridge.StatusPendingConfirmation)).
			Where("id = ?", id).
			Where("status = ?", string(bridge.StatusPending)).
			Where("received_amount IS NULL")
	})
}

// UpdateDepositConfirmations raises the confirmation count and moves the
// intent to confirmed once the threshold is met. A lower count is ignored.
func (s *pgStore) UpdateDepositConfirmations(ctx context.Context, id string, confirmations int) (*bridge.DepositIntent, error) {
	return updateDeposit(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return confirmationUpdate(q, id, confirmations)
	})
}

func (s *pgStore) ClaimDeposit(ctx context.Context, id string) (*bridge.DepositIntent, error) {
	return updateDeposit(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return transition(q, id, bridge.StatusConfirmed, bridge.StatusExecuting)
	})
}

func (s *pgStore) CompleteDeposit(ctx context.Context, id, mintTxHash string, fee, net decimal.Decimal) (*bridge.DepositIntent, error) {
	return updateDeposit(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return transition(q, id, bridge.StatusExecuting, bridge.StatusCompleted).
			Set("mint_tx_hash = ?", mintTxHash).
			Set("fee_amount = ?", fee.String()).
			Set("net_amount = ?", net.String())
	})
}

func (s *pgStore) FailDeposit(ctx context.Context, id, reason string) (*bridge.DepositIntent, error) {
	return updateDeposit(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return transition(q, id, bridge.StatusExecuting, bridge.StatusFailed).
			Set("failure_reason = ?", reason)
	})
}

func updateDeposit(ctx context.Context, db bun.IDB, build func(*bun.UpdateQuery) *bun.UpdateQuery) (*bridge.DepositIntent, error) {
	dao := new(DepositIntentDao)
	if err := execReturning(ctx, build(db.NewUpdate().Model(dao))); err != nil {
		return nil, err
	}
	return toDepositIntent(dao), nil
}

// =============================================================================
// GAS PAYMENT INTENTS
// =============================================================================

func (s *pgStore) CreateGasPaymentIntent(ctx context.Context, intent *bridge.GasPaymentIntent) error {
	if intent.ID == "" {
		intent.ID = uuid.NewString()
	}
	dao := toGasPaymentIntentDao(intent)
	stamp(&dao.CreatedAt, &dao.UpdatedAt)

	if _, err := s.db.NewInsert().Model(dao).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create gas payment intent: %w", insertErr(err))
	}
	intent.CreatedAt, intent.UpdatedAt = dao.CreatedAt, dao.UpdatedAt
	return nil
}

func (s *pgStore) GetGasPaymentIntent(ctx context.Context, id string) (*bridge.GasPaymentIntent, error) {
	dao := new(GasPaymentIntentDao)
	if err := s.db.NewSelect().Model(dao).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, selectErr("gas payment intent", err)
	}
	return toGasPaymentIntent(dao), nil
}

func (s *pgStore) GetGasPaymentByDeposit(ctx context.Context, depositIntentID string) (*bridge.GasPaymentIntent, error) {
	dao := new(GasPaymentIntentDao)
	if err := s.db.NewSelect().Model(dao).Where("deposit_intent_id = ?", depositIntentID).Scan(ctx); err != nil {
		return nil, selectErr("gas payment intent", err)
	}
	return toGasPaymentIntent(dao), nil
}

func (s *pgStore) ListGasPaymentIntents(ctx context.Context, opts ...QueryOption) ([]*bridge.GasPaymentIntent, error) {
	var daos []GasPaymentIntentDao
	query := s.db.NewSelect().Model(&daos)
	if err := listQuery(query, applyOptions(opts), "owner_address").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list gas payment intents: %w", err)
	}
	out := make([]*bridge.GasPaymentIntent, len(daos))
	for i := range daos {
		out[i] = toGasPaymentIntent(&daos[i])
	}
	return out, nil
}

func (s *pgStore) MarkGasFunded(ctx context.Context, id string, received decimal.Decimal) (*bridge.GasPaymentIntent, error) {
	return updateGasPayment(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return transition(q, id, bridge.StatusPending, bridge.StatusFunded).
			Set("received_amount = ?", received.String())
	})
}

func (s *pgStore) MarkGasSpent(ctx context.Context, id string) (*bridge.GasPaymentIntent, error) {
	return updateGasPayment(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return transition(q, id, bridge.StatusFunded, bridge.StatusSpent)
	})
}

func (s *pgStore) ExpireGasPayment(ctx context.Context, id string) (*bridge.GasPaymentIntent, error) {
	return updateGasPayment(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return transition(q, id, bridge.StatusPending, bridge.StatusExpired)
	})
}

func (s *pgStore) RenewGasPayment(ctx context.Context, id string, required decimal.Decimal) (*bridge.GasPaymentIntent, error) {
	return updateGasPayment(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return transition(q, id, bridge.StatusExpired, bridge.StatusPending).
			Set("required_amount = ?", required.String()).
			Set("received_amount = NULL")
	})
}

func updateGasPayment(ctx context.Context, db bun.IDB, build func(*bun.UpdateQuery) *bun.UpdateQuery) (*bridge.GasPaymentIntent, error) {
	dao := new(GasPaymentIntentDao)
	if err := execReturning(ctx, build(db.NewUpdate().Model(dao))); err != nil {
		return nil, err
	}
	return toGasPaymentIntent(dao), nil
}

// =============================================================================
// RETURN INTENTS AND RELEASE TRANSACTIONS
// =============================================================================

// CreateReturnIntent inserts a return intent and its release transaction in one transaction.
func (s *pgStore) CreateReturnIntent(ctx context.Context, intent *bridge.ReturnIntent, release *bridge.ReleaseTransaction) error {
	if intent.ID == "" {
		intent.ID = uuid.NewString()
	}
	if release.ID == "" {
		release.ID = uuid.NewString()
	}
	release.ReturnIntentID = intent.ID

	intentDao := toReturnIntentDao(intent)
	releaseDao := toReleaseTransactionDao(release)
	stamp(&intentDao.CreatedAt, &intentDao.UpdatedAt)
	releaseDao.CreatedAt, releaseDao.UpdatedAt = intentDao.CreatedAt, intentDao.UpdatedAt

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(intentDao).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create return intent: %w", insertErr(err))
		}
		if _, err := tx.NewInsert().Model(releaseDao).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create release transaction: %w", insertErr(err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	intent.CreatedAt, intent.UpdatedAt = intentDao.CreatedAt, intentDao.UpdatedAt
	release.CreatedAt, release.UpdatedAt = releaseDao.CreatedAt, releaseDao.UpdatedAt
	return nil
}

func (s *pgStore) GetReturnIntent(ctx context.Context, id string) (*bridge.ReturnIntent, error) {
	return getReturnIntent(ctx, s.db, id)
}

func getReturnIntent(ctx context.Context, db bun.IDB, id string) (*bridge.ReturnIntent, error) {
	dao := new(ReturnIntentDao)
	if err := db.NewSelect().Model(dao).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, selectErr("return intent", err)
	}
	return toReturnIntent(dao), nil
}

func (s *pgStore) ListReturnIntents(ctx context.Context, opts ...QueryOption) ([]*bridge.ReturnIntent, error) {
	var daos []ReturnIntentDao
	query := s.db.NewSelect().Model(&daos)
	if err := listQuery(query, applyOptions(opts), "source_address").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list return intents: %w", err)
	}
	out := make([]*bridge.ReturnIntent, len(daos))
	for i := range daos {
		out[i] = toReturnIntent(&daos[i])
	}
	return out, nil
}

func (s *pgStore) GetReleaseTransaction(ctx context.Context, id string) (*bridge.ReleaseTransaction, error) {
	dao := new(ReleaseTransactionDao)
	if err := s.db.NewSelect().Model(dao).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, selectErr("release transaction", err)
	}
	return toReleaseTransaction(dao), nil
}

func (s *pgStore) GetReleaseByReturnIntent(ctx context.Context, returnIntentID string) (*bridge.ReleaseTransaction, error) {
	dao := new(ReleaseTransactionDao)
	if err := s.db.NewSelect().Model(dao).Where("return_intent_id = ?", returnIntentID).Scan(ctx); err != nil {
		return nil, selectErr("release transaction", err)
	}
	return toReleaseTransaction(dao), nil
}

func (s *pgStore) ListReleaseTransactions(ctx context.Context, opts ...QueryOption) ([]*bridge.ReleaseTransaction, error) {
	var daos []ReleaseTransactionDao
	query := s.db.NewSelect().Model(&daos)
	if err := listQuery(query, applyOptions(opts), "source_address").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list release transactions: %w", err)
	}
	out := make([]*bridge.ReleaseTransaction, len(daos))
	for i := range daos {
		out[i] = toReleaseTransaction(&daos[i])
	}
	return out, nil
}

// RecordReleaseSighting stores the first observation of the user's token
// transfer and marks the owning return intent as deposit_detected.
func (s *pgStore) RecordReleaseSighting(
	ctx context.Context,
	id string,
	sighting ReleaseSighting,
) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error) {
	var (
		release *bridge.ReleaseTransaction
		intent  *bridge.ReturnIntent
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		release, err = updateRelease(ctx, tx, func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.
				Set("deposit_tx_hash = ?", sighting.TxHash).
				Set("from_address = ?", sighting.FromAddress).
				Set("amount = ?", sighting.Amount.String()).
				Set("block_number = ?", int64(sighting.BlockNumber)).
				Set("current_confirmations = GREATEST(current_confirmations, ?)", sighting.Confirmations).
				Set(statusByThreshold, sighting.Confirmations, string(bridge.StatusConfirmed), string(bridge.StatusPendingConfirmation)).
				Where("id = ?", id).
				Where("status = ?", string(bridge.StatusPending)).
				Where("amount IS NULL")
		})
		if err != nil {
			return err
		}
		intent, err = moveReturnIntent(ctx, tx, release.ReturnIntentID, bridge.StatusDepositDetected, bridge.StatusPending)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return release, intent, nil
}

func (s *pgStore) UpdateReleaseConfirmations(ctx context.Context, id string, confirmations int) (*bridge.ReleaseTransaction, error) {
	return updateRelease(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return confirmationUpdate(q, id, confirmations)
	})
}

func (s *pgStore) ClaimRelease(ctx context.Context, id string) (*bridge.ReleaseTransaction, error) {
	return updateRelease(ctx, s.db, func(q *bun.UpdateQuery) *bun.UpdateQuery {
		return transition(q, id, bridge.StatusConfirmed, bridge.StatusExecuting)
	})
}

// CompleteRelease records the burn and release hashes and closes the return intent.
func (s *pgStore) CompleteRelease(
	ctx context.Context,
	id string,
	result ReleaseResult,
) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error) {
	var (
		release *bridge.ReleaseTransaction
		intent  *bridge.ReturnIntent
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		release, err = updateRelease(ctx, tx, func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return transition(q, id, bridge.StatusExecuting, bridge.StatusProcessed).
				Set("burn_tx_hash = ?", result.BurnTxHash).
				Set("release_tx_hash = ?", result.ReleaseTxHash).
				Set("fee_amount = ?", result.Fee.String()).
				Set("net_amount = ?", result.Net.String())
		})
		if err != nil {
			return err
		}
		intent, err = moveReturnIntent(ctx, tx, release.ReturnIntentID, bridge.StatusCompleted,
			bridge.StatusPending, bridge.StatusDepositDetected)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return release, intent, nil
}

// FailRelease moves the release and its return intent to failed. burnTxHash
// is kept when the burn went through before the failure.
func (s *pgStore) FailRelease(
	ctx context.Context,
	id, burnTxHash, reason string,
) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error) {
	var (
		release *bridge.ReleaseTransaction
		intent  *bridge.ReturnIntent
	)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		release, err = updateRelease(ctx, tx, func(q *bun.UpdateQuery) *bun.UpdateQuery {
			q = transition(q, id, bridge.StatusExecuting, bridge.StatusFailed).
				Set("failure_reason = ?", reason)
			if burnTxHash != "" {
				q = q.Set("burn_tx_hash = ?", burnTxHash)
			}
			return q
		})
		if err != nil {
			return err
		}
		intent, err = moveReturnIntent(ctx, tx, release.ReturnIntentID, bridge.StatusFailed,
			bridge.StatusPending, bridge.StatusDepositDetected)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return release, intent, nil
}

func updateRelease(ctx context.Context, db bun.IDB, build func(*bun.UpdateQuery) *bun.UpdateQuery) (*bridge.ReleaseTransaction, error) {
	dao := new(ReleaseTransactionDao)
	if err := execReturning(ctx, build(db.NewUpdate().Model(dao))); err != nil {
		return nil, err
	}
	return toReleaseTransaction(dao), nil
}

// moveReturnIntent transitions the return intent when it is in one of the
// given statuses. When it is not, the current record is returned unchanged.
func moveReturnIntent(
	ctx context.Context,
	db bun.IDB,
	id string,
	to bridge.Status,
	from ...bridge.Status,
) (*bridge.ReturnIntent, error) {
	dao := new(ReturnIntentDao)
	err := execReturning(ctx, db.NewUpdate().
		Model(dao).
		Set("status = ?", string(to)).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Where("status IN (?)", bun.In(statusStrings(from))))
	if errors.Is(err, ErrStatusConflict) {
		return getReturnIntent(ctx, db, id)
	}
	if err != nil {
		return nil, err
	}
	return toReturnIntent(dao), nil
}

// =============================================================================
// USER STATUS
// =============================================================================

// GetUserRecords returns every record owned by the identity
func (s *pgStore) GetUserRecords(ctx context.Context, identity string) (*bridge.UserRecords, error) {
	var (
		records = new(bridge.UserRecords)
		err     error
	)
	if records.Deposits, err = s.ListDepositIntents(ctx, WithOwner(identity)); err != nil {
		return nil, err
	}
	if records.GasPayments, err = s.ListGasPaymentIntents(ctx, WithOwner(identity)); err != nil {
		return nil, err
	}
	if records.Returns, err = s.ListReturnIntents(ctx, WithOwner(identity)); err != nil {
		return nil, err
	}
	if records.Releases, err = s.ListReleaseTransactions(ctx, WithOwner(identity)); err != nil {
		return nil, err
	}
	return records, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// statusByThreshold sets confirmed once the confirmation count meets the record's threshold.
const statusByThreshold = "status = CASE WHEN ? >= required_confirmations THEN ? ELSE ? END"

// transition is the compare-and-set on status shared by every state change.
func transition(q *bun.UpdateQuery, id string, from, to bridge.Status) *bun.UpdateQuery {
	return q.
		Set("status = ?", string(to)).
		Where("id = ?", id).
		Where("status = ?", string(from))
}

// confirmationUpdate only ever raises current_confirmations. An equal count
// still matches when it meets the threshold so a record never stays stuck
// one transition short.
func confirmationUpdate(q *bun.UpdateQuery, id string, confirmations int) *bun.UpdateQuery {
	return q.
		Set("current_confirmations = ?", confirmations).
		Set(statusByThreshold, confirmations, string(bridge.StatusConfirmed), string(bridge.StatusPendingConfirmation)).
		Where("id = ?", id).
		Where("status = ?", string(bridge.StatusPendingConfirmation)).
		Where("current_confirmations <= ?", confirmations).
		Where("current_confirmations < ? OR ? >= required_confirmations", confirmations, confirmations)
}

// execReturning runs a conditional update that scans the updated row back
// into its model. No matching row means the expected prior state did not hold.
func execReturning(ctx context.Context, q *bun.UpdateQuery) error {
	res, err := q.Set("updated_at = NOW()").Returning("*").Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStatusConflict
		}
		return fmt.Errorf("failed to update record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrStatusConflict
	}
	return nil
}

func listQuery(q *bun.SelectQuery, opts *QueryOptions, ownerColumn string) *bun.SelectQuery {
	if len(opts.Statuses) > 0 {
		q = q.Where("status IN (?)", bun.In(statusStrings(opts.Statuses)))
	}
	if opts.Owner != nil {
		q = q.Where("? = ?", bun.Ident(ownerColumn), *opts.Owner)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	return q.Order("created_at ASC")
}

func statusStrings(statuses []bridge.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func selectErr(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}

func insertErr(err error) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	}
	return err
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	*created, *updated = now, now
}
