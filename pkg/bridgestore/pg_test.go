package bridgestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/pgutil"
	mghelper "github.com/chainsafe/cascoin-bridge/pkg/pgutil/migrations"
)

const (
	alice = "0x1111111111111111111111111111111111111111"
	bob   = "0x2222222222222222222222222222222222222222"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	err := mghelper.CreateSchema(ctx, db,
		&DepositIntentDao{},
		&GasPaymentIntentDao{},
		&ReturnIntentDao{},
		&ReleaseTransactionDao{},
		&KeyIndexDao{},
		&ChainCursorDao{},
	)
	require.NoError(t, err)

	return ctx, NewStore(db)
}

func newDeposit(owner string, index int64) *bridge.DepositIntent {
	return &bridge.DepositIntent{
		DestinationAddress:    owner,
		DepositAddress:        fmt.Sprintf("CdepositAddr%04d", index),
		DerivationIndex:       index,
		RequestedAmount:       decimal.RequireFromString("10"),
		FeeModel:              bridge.FeeModelDeducted,
		Status:                bridge.StatusPending,
		RequiredConfirmations: bridge.DefaultRequiredConfirmations,
	}
}

func newReturn(owner string, index int64) (*bridge.ReturnIntent, *bridge.ReleaseTransaction) {
	deposit := fmt.Sprintf("0x%040d", index+1)
	intent := &bridge.ReturnIntent{
		SourceAddress:      owner,
		DestinationAddress: "CdestinationAddress0001",
		RequestedAmount:    decimal.RequireFromString("5"),
		FeeModel:           bridge.FeeModelDeducted,
		DepositAddress:     deposit,
		DerivationIndex:    index,
		Status:             bridge.StatusPending,
	}
	release := &bridge.ReleaseTransaction{
		SourceAddress:         owner,
		ToAddress:             deposit,
		DestinationAddress:    intent.DestinationAddress,
		Status:                bridge.StatusPending,
		RequiredConfirmations: bridge.DefaultRequiredConfirmations,
	}
	return intent, release
}

func TestNextIndex_ConcurrentDistinctAndIncreasing(t *testing.T) {
	ctx, s := setupStore(t)

	const workers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		indexes []int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, err := s.NextIndex(ctx, "deposit")
			assert.NoError(t, err)
			second, err := s.NextIndex(ctx, "deposit")
			assert.NoError(t, err)
			assert.Greater(t, second, first)

			mu.Lock()
			indexes = append(indexes, first, second)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(indexes, func(i, j int) bool { return indexes[i] < indexes[j] })
	require.Len(t, indexes, 2*workers)
	for i, idx := range indexes {
		assert.Equal(t, int64(i), idx, "indexes must be distinct with no gaps")
	}

	// purposes are independent counters
	gas, err := s.NextIndex(ctx, "gas")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gas)
}

func TestDeposit_ConfirmationLifecycle(t *testing.T) {
	ctx, s := setupStore(t)

	in := newDeposit(alice, 1)
	require.NoError(t, s.CreateDepositIntent(ctx, in))
	require.NotEmpty(t, in.ID)

	got, err := s.RecordDepositSighting(ctx, in.ID, "txid-1", decimal.RequireFromString("10.5"), 3)
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusPendingConfirmation, got.Status)
	assert.Equal(t, 3, got.CurrentConfirmations)
	require.NotNil(t, got.ReceivedAmount)
	assert.True(t, got.ReceivedAmount.Equal(decimal.RequireFromString("10.5")))

	// received_amount is set once
	_, err = s.RecordDepositSighting(ctx, in.ID, "txid-2", decimal.RequireFromString("99"), 4)
	assert.ErrorIs(t, err, ErrStatusConflict)

	got, err = s.UpdateDepositConfirmations(ctx, in.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got.CurrentConfirmations)

	// never decreases
	_, err = s.UpdateDepositConfirmations(ctx, in.ID, 4)
	assert.ErrorIs(t, err, ErrStatusConflict)
	got, err = s.GetDepositIntent(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.CurrentConfirmations)
	assert.Equal(t, "txid-1", got.DepositTxHash)

	got, err = s.UpdateDepositConfirmations(ctx, in.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusConfirmed, got.Status)

	// confirmed records no longer take confirmation updates
	_, err = s.UpdateDepositConfirmations(ctx, in.ID, 13)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestDeposit_SightingAtThresholdConfirmsImmediately(t *testing.T) {
	ctx, s := setupStore(t)

	in := newDeposit(alice, 2)
	require.NoError(t, s.CreateDepositIntent(ctx, in))

	got, err := s.RecordDepositSighting(ctx, in.ID, "txid", decimal.RequireFromString("10"), 20)
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusConfirmed, got.Status)
	assert.Equal(t, 20, got.CurrentConfirmations)
}

func TestDeposit_ClaimIsExclusive(t *testing.T) {
	ctx, s := setupStore(t)

	in := newDeposit(alice, 3)
	require.NoError(t, s.CreateDepositIntent(ctx, in))
	_, err := s.RecordDepositSighting(ctx, in.ID, "txid", decimal.RequireFromString("10"), 12)
	require.NoError(t, err)

	const racers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ClaimDeposit(ctx, in.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, ErrStatusConflict):
				conflicts++
			default:
				t.Errorf("unexpected claim error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, racers-1, conflicts)

	got, err := s.CompleteDeposit(ctx, in.ID, "0xmint", decimal.RequireFromString("0.25"), decimal.RequireFromString("9.75"))
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusCompleted, got.Status)
	assert.Equal(t, "0xmint", got.MintTxHash)
	require.NotNil(t, got.NetAmount)
	assert.True(t, got.NetAmount.Equal(decimal.RequireFromString("9.75")))

	_, err = s.FailDeposit(ctx, in.ID, "too late")
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestDeposit_FailAndNotFound(t *testing.T) {
	ctx, s := setupStore(t)

	in := newDeposit(bob, 4)
	require.NoError(t, s.CreateDepositIntent(ctx, in))

	_, err := s.FailDeposit(ctx, in.ID, "not executing")
	assert.ErrorIs(t, err, ErrStatusConflict)

	_, err = s.RecordDepositSighting(ctx, in.ID, "txid", decimal.RequireFromString("10"), 12)
	require.NoError(t, err)
	_, err = s.ClaimDeposit(ctx, in.ID)
	require.NoError(t, err)

	got, err := s.FailDeposit(ctx, in.ID, "mint reverted")
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusFailed, got.Status)
	assert.Equal(t, "mint reverted", got.FailureReason)

	_, err = s.GetDepositIntent(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	dup := newDeposit(bob, 4)
	err = s.CreateDepositIntent(ctx, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGasPayment_Lifecycle(t *testing.T) {
	ctx, s := setupStore(t)

	dep := newDeposit(alice, 5)
	dep.FeeModel = bridge.FeeModelDirect
	require.NoError(t, s.CreateDepositIntent(ctx, dep))

	gas := &bridge.GasPaymentIntent{
		DepositIntentID: dep.ID,
		OwnerAddress:    alice,
		GasAddress:      "0x3333333333333333333333333333333333333333",
		DerivationIndex: 0,
		RequiredAmount:  decimal.RequireFromString("0.0198"),
		Status:          bridge.StatusPending,
	}
	require.NoError(t, s.CreateGasPaymentIntent(ctx, gas))

	again := *gas
	again.ID = ""
	again.GasAddress = "0x4444444444444444444444444444444444444444"
	again.DerivationIndex = 1
	assert.ErrorIs(t, s.CreateGasPaymentIntent(ctx, &again), ErrAlreadyExists)

	byDeposit, err := s.GetGasPaymentByDeposit(ctx, dep.ID)
	require.NoError(t, err)
	assert.Equal(t, gas.ID, byDeposit.ID)

	_, err = s.MarkGasSpent(ctx, gas.ID)
	assert.ErrorIs(t, err, ErrStatusConflict)

	funded, err := s.MarkGasFunded(ctx, gas.ID, decimal.RequireFromString("0.02"))
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusFunded, funded.Status)

	_, err = s.ExpireGasPayment(ctx, gas.ID)
	assert.ErrorIs(t, err, ErrStatusConflict)

	spent, err := s.MarkGasSpent(ctx, gas.ID)
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusSpent, spent.Status)
}

func TestGasPayment_RenewExpired(t *testing.T) {
	ctx, s := setupStore(t)

	dep := newDeposit(alice, 5)
	dep.FeeModel = bridge.FeeModelDirect
	require.NoError(t, s.CreateDepositIntent(ctx, dep))

	gas := &bridge.GasPaymentIntent{
		DepositIntentID: dep.ID,
		OwnerAddress:    alice,
		GasAddress:      "0x5555555555555555555555555555555555555555",
		DerivationIndex: 3,
		RequiredAmount:  decimal.RequireFromString("0.0198"),
		Status:          bridge.StatusPending,
	}
	require.NoError(t, s.CreateGasPaymentIntent(ctx, gas))

	_, err := s.RenewGasPayment(ctx, gas.ID, decimal.RequireFromString("0.03"))
	assert.ErrorIs(t, err, ErrStatusConflict, "only expired intents can be renewed")

	expired, err := s.ExpireGasPayment(ctx, gas.ID)
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusExpired, expired.Status)

	renewed, err := s.RenewGasPayment(ctx, gas.ID, decimal.RequireFromString("0.03"))
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusPending, renewed.Status)
	assert.Equal(t, gas.GasAddress, renewed.GasAddress)
	assert.Equal(t, int64(3), renewed.DerivationIndex)
	assert.True(t, renewed.RequiredAmount.Equal(decimal.RequireFromString("0.03")))
	assert.Nil(t, renewed.ReceivedAmount)
	assert.False(t, renewed.UpdatedAt.Before(expired.UpdatedAt))

	_, err = s.RenewGasPayment(ctx, gas.ID, decimal.RequireFromString("0.03"))
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestReturn_ReleaseLifecycle(t *testing.T) {
	ctx, s := setupStore(t)

	intent, release := newReturn(alice, 1)
	require.NoError(t, s.CreateReturnIntent(ctx, intent, release))
	assert.Equal(t, intent.ID, release.ReturnIntentID)

	rel, ri, err := s.RecordReleaseSighting(ctx, release.ID, ReleaseSighting{
		TxHash:        "0xtransfer",
		FromAddress:   alice,
		Amount:        decimal.RequireFromString("5"),
		BlockNumber:   100,
		Confirmations: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusPendingConfirmation, rel.Status)
	assert.Equal(t, uint64(100), rel.BlockNumber)
	assert.Equal(t, bridge.StatusDepositDetected, ri.Status)

	rel, err = s.UpdateReleaseConfirmations(ctx, release.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusConfirmed, rel.Status)

	_, err = s.ClaimRelease(ctx, release.ID)
	require.NoError(t, err)
	_, err = s.ClaimRelease(ctx, release.ID)
	assert.ErrorIs(t, err, ErrStatusConflict)

	rel, ri, err = s.CompleteRelease(ctx, release.ID, ReleaseResult{
		BurnTxHash:    "0xburn",
		ReleaseTxHash: "cas-release",
		Fee:           decimal.RequireFromString("0.125"),
		Net:           decimal.RequireFromString("4.875"),
	})
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusProcessed, rel.Status)
	assert.Equal(t, "cas-release", rel.ReleaseTxHash)
	assert.Equal(t, bridge.StatusCompleted, ri.Status)

	fetched, err := s.GetReleaseByReturnIntent(ctx, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, "0xburn", fetched.BurnTxHash)
}

func TestReturn_FailKeepsBurnHash(t *testing.T) {
	ctx, s := setupStore(t)

	intent, release := newReturn(bob, 2)
	require.NoError(t, s.CreateReturnIntent(ctx, intent, release))
	_, _, err := s.RecordReleaseSighting(ctx, release.ID, ReleaseSighting{
		TxHash: "0xtransfer", FromAddress: bob, Amount: decimal.RequireFromString("5"), BlockNumber: 7, Confirmations: 12,
	})
	require.NoError(t, err)
	_, err = s.ClaimRelease(ctx, release.ID)
	require.NoError(t, err)

	rel, ri, err := s.FailRelease(ctx, release.ID, "0xburn", "sendtoaddress failed")
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusFailed, rel.Status)
	assert.Equal(t, "0xburn", rel.BurnTxHash)
	assert.Equal(t, bridge.StatusFailed, ri.Status)
}

func TestCursor(t *testing.T) {
	ctx, s := setupStore(t)

	_, ok, err := s.GetCursor(ctx, "polygon")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveCursor(ctx, "polygon", 100))
	require.NoError(t, s.SaveCursor(ctx, "polygon", 250))

	block, ok, err := s.GetCursor(ctx, "polygon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(250), block)
}

func TestGetUserRecords_AndListFilters(t *testing.T) {
	ctx, s := setupStore(t)

	require.NoError(t, s.CreateDepositIntent(ctx, newDeposit(alice, 10)))
	require.NoError(t, s.CreateDepositIntent(ctx, newDeposit(alice, 11)))
	require.NoError(t, s.CreateDepositIntent(ctx, newDeposit(bob, 12)))
	intent, release := newReturn(alice, 3)
	require.NoError(t, s.CreateReturnIntent(ctx, intent, release))

	records, err := s.GetUserRecords(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, records.Deposits, 2)
	assert.Len(t, records.Returns, 1)
	assert.Len(t, records.Releases, 1)
	assert.Empty(t, records.GasPayments)

	pending, err := s.ListDepositIntents(ctx, WithStatus(bridge.StatusPending), WithLimit(2))
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	confirmed, err := s.ListDepositIntents(ctx, WithStatus(bridge.StatusConfirmed))
	require.NoError(t, err)
	assert.Empty(t, confirmed)
}
