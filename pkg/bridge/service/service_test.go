package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/creasty/defaults"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/cascoin-bridge/pkg/app/errors"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge/service"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge/service/mocks"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
	"github.com/chainsafe/cascoin-bridge/pkg/fees"
	"github.com/chainsafe/cascoin-bridge/pkg/keys"
)

const (
	testSeedHex    = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	testIdentity   = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	coinVersion    = byte(28)
	tokenContract  = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
	evmConfirmReqs = 20
)

type fixture struct {
	store   *mocks.Store
	node    *mocks.CoinNode
	deriver *keys.Deriver
	engine  *fees.Engine
	svc     service.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	deriver, err := keys.NewDeriverFromHex(testSeedHex)
	require.NoError(t, err)

	feeCfg := &config.FeeConfig{}
	require.NoError(t, defaults.Set(feeCfg))
	params, err := fees.ParamsFromConfig(feeCfg)
	require.NoError(t, err)
	engine := fees.NewEngine(params)

	f := &fixture{
		store:   mocks.NewStore(t),
		node:    mocks.NewCoinNode(t),
		deriver: deriver,
		engine:  engine,
	}
	f.svc = service.NewService(
		&config.CascoinConfig{AddressVersion: coinVersion, ConfirmationsRequired: 12},
		&config.EthereumConfig{
			TokenContract:         tokenContract,
			ChainID:               137,
			ConfirmationsRequired: evmConfirmReqs,
			GasPaymentTTL:         time.Hour,
		},
		f.store, deriver, f.node, engine, zap.NewNop(),
	)
	return f
}

func (f *fixture) derive(t *testing.T, purpose keys.Purpose, index int64) *keys.DerivedKey {
	t.Helper()
	key, err := f.deriver.Derive(purpose, index)
	require.NoError(t, err)
	return key
}

func TestCreateDeposit_DerivesImportsAndStores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	expected := f.derive(t, keys.PurposeDeposit, 7).CoinAddress(coinVersion)

	f.store.EXPECT().NextIndex(ctx, "deposit").Return(int64(7), nil).Once()
	f.node.EXPECT().ImportAddress(ctx, expected, testIdentity).Return(nil).Once()
	f.store.EXPECT().
		CreateDepositIntent(ctx, mock.AnythingOfType("*bridge.DepositIntent")).
		Run(func(_ context.Context, intent *bridge.DepositIntent) {
			intent.ID = "dep-1"
		}).
		Return(nil).Once()

	resp, err := f.svc.CreateDeposit(ctx, &service.CreateDepositRequest{
		DestinationAddress: strings.ToLower(testIdentity),
		Amount:             decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	d := resp.Deposit
	assert.Equal(t, "dep-1", d.ID)
	assert.Equal(t, testIdentity, d.DestinationAddress)
	assert.Equal(t, expected, d.DepositAddress)
	assert.Equal(t, int64(7), d.DerivationIndex)
	assert.Equal(t, bridge.FeeModelDeducted, d.FeeModel)
	assert.Equal(t, bridge.StatusPending, d.Status)
	assert.Equal(t, 12, d.RequiredConfirmations)

	require.NotNil(t, resp.Quote)
	assert.True(t, resp.Quote.Valid)
	assert.Equal(t, "97.5", resp.Quote.NetAmount.String())
}

func TestCreateDeposit_RejectsBeforeTouchingStore(t *testing.T) {
	tests := []struct {
		name    string
		req     service.CreateDepositRequest
		message string
	}{
		{
			name:    "invalid destination",
			req:     service.CreateDepositRequest{DestinationAddress: "not-an-address", Amount: decimal.NewFromInt(10)},
			message: "destination_address must be an EVM address",
		},
		{
			name:    "missing destination",
			req:     service.CreateDepositRequest{Amount: decimal.NewFromInt(10)},
			message: "destination_address is required",
		},
		{
			name: "unknown fee model",
			req: service.CreateDepositRequest{
				DestinationAddress: testIdentity,
				Amount:             decimal.NewFromInt(10),
				FeeModel:           "free",
			},
			message: "fee_model must be one of: direct_payment deducted",
		},
		{
			name:    "below minimum",
			req:     service.CreateDepositRequest{DestinationAddress: testIdentity, Amount: decimal.RequireFromString("0.5")},
			message: "amount 0.5 is below the minimum bridge amount of 1",
		},
		{
			name:    "zero amount",
			req:     service.CreateDepositRequest{DestinationAddress: testIdentity},
			message: "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.CreateDeposit(context.Background(), &tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))

			var svcErr *apperrors.ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tt.message, svcErr.Message)
		})
	}
}

func TestCreateDeposit_CoinNodeDownIsUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.store.EXPECT().NextIndex(ctx, "deposit").Return(int64(0), nil).Once()
	f.node.EXPECT().ImportAddress(ctx, mock.Anything, testIdentity).
		Return(errors.New("cascoin rpc request failed: importaddress: connection refused")).Once()

	_, err := f.svc.CreateDeposit(ctx, &service.CreateDepositRequest{
		DestinationAddress: testIdentity,
		Amount:             decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CategoryRecovering))

	var svcErr *apperrors.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, 503, svcErr.StatusCode())
}

func directDeposit() *bridge.DepositIntent {
	return &bridge.DepositIntent{
		ID:                 "dep-1",
		DestinationAddress: testIdentity,
		RequestedAmount:    decimal.NewFromInt(100),
		FeeModel:           bridge.FeeModelDirect,
		Status:             bridge.StatusPending,
	}
}

func TestCreateGasPayment_CreatesWithQuotedNativeGas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	quote, err := f.engine.Quote(fees.Request{
		Amount:    decimal.NewFromInt(100),
		Direction: bridge.DirectionCoinToWrapped,
		FeeModel:  bridge.FeeModelDirect,
	})
	require.NoError(t, err)
	gasAddr := f.derive(t, keys.PurposeGas, 3).EVMAddress().Hex()

	f.store.EXPECT().GetDepositIntent(ctx, "dep-1").Return(directDeposit(), nil).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").
		Return(nil, fmt.Errorf("gas payment intent: %w", bridgestore.ErrNotFound)).Once()
	f.store.EXPECT().NextIndex(ctx, "gas").Return(int64(3), nil).Once()
	f.store.EXPECT().
		CreateGasPaymentIntent(ctx, mock.MatchedBy(func(g *bridge.GasPaymentIntent) bool {
			return g.DepositIntentID == "dep-1" && g.GasAddress == gasAddr
		})).
		Return(nil).Once()

	gas, err := f.svc.CreateGasPayment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Equal(t, testIdentity, gas.OwnerAddress)
	assert.Equal(t, int64(3), gas.DerivationIndex)
	assert.Equal(t, bridge.StatusPending, gas.Status)
	assert.True(t, gas.RequiredAmount.Equal(quote.GasFeeRequired))
	assert.True(t, gas.RequiredAmount.IsPositive())
}

func TestCreateGasPayment_ReturnsExisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := &bridge.GasPaymentIntent{ID: "gas-1", DepositIntentID: "dep-1"}

	f.store.EXPECT().GetDepositIntent(ctx, "dep-1").Return(directDeposit(), nil).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").Return(existing, nil).Once()

	gas, err := f.svc.CreateGasPayment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Same(t, existing, gas)
}

func TestCreateGasPayment_RenewsExpiredForConfirmedDeposit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	quote, err := f.engine.Quote(fees.Request{
		Amount:    decimal.NewFromInt(100),
		Direction: bridge.DirectionCoinToWrapped,
		FeeModel:  bridge.FeeModelDirect,
	})
	require.NoError(t, err)

	deposit := directDeposit()
	deposit.Status = bridge.StatusConfirmed
	expired := &bridge.GasPaymentIntent{
		ID:              "gas-1",
		DepositIntentID: "dep-1",
		GasAddress:      "0x00000000000000000000000000000000000000bb",
		Status:          bridge.StatusExpired,
	}
	renewed := *expired
	renewed.Status = bridge.StatusPending
	renewed.RequiredAmount = quote.GasFeeRequired

	f.store.EXPECT().GetDepositIntent(ctx, "dep-1").Return(deposit, nil).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").Return(expired, nil).Once()
	f.store.EXPECT().
		RenewGasPayment(ctx, "gas-1", mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(quote.GasFeeRequired)
		})).
		Return(&renewed, nil).Once()

	gas, err := f.svc.CreateGasPayment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Equal(t, bridge.StatusPending, gas.Status)
	assert.Equal(t, expired.GasAddress, gas.GasAddress)
}

func TestCreateGasPayment_ConcurrentRenewalReturnsCurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	expired := &bridge.GasPaymentIntent{ID: "gas-1", DepositIntentID: "dep-1", Status: bridge.StatusExpired}
	current := &bridge.GasPaymentIntent{ID: "gas-1", DepositIntentID: "dep-1", Status: bridge.StatusPending}

	f.store.EXPECT().GetDepositIntent(ctx, "dep-1").Return(directDeposit(), nil).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").Return(expired, nil).Once()
	f.store.EXPECT().RenewGasPayment(ctx, "gas-1", mock.Anything).Return(nil, bridgestore.ErrStatusConflict).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").Return(current, nil).Once()

	gas, err := f.svc.CreateGasPayment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Same(t, current, gas)
}

func TestCreateGasPayment_ExpiredForClosedDepositNotRenewed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deposit := directDeposit()
	deposit.Status = bridge.StatusFailed
	expired := &bridge.GasPaymentIntent{ID: "gas-1", DepositIntentID: "dep-1", Status: bridge.StatusExpired}

	f.store.EXPECT().GetDepositIntent(ctx, "dep-1").Return(deposit, nil).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").Return(expired, nil).Once()

	gas, err := f.svc.CreateGasPayment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Same(t, expired, gas)
}

func TestCreateGasPayment_LosesInsertRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	winner := &bridge.GasPaymentIntent{ID: "gas-winner", DepositIntentID: "dep-1"}

	f.store.EXPECT().GetDepositIntent(ctx, "dep-1").Return(directDeposit(), nil).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").Return(nil, bridgestore.ErrNotFound).Once()
	f.store.EXPECT().NextIndex(ctx, "gas").Return(int64(4), nil).Once()
	f.store.EXPECT().CreateGasPaymentIntent(ctx, mock.Anything).
		Return(fmt.Errorf("failed to create gas payment intent: %w", bridgestore.ErrAlreadyExists)).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").Return(winner, nil).Once()

	gas, err := f.svc.CreateGasPayment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Equal(t, "gas-winner", gas.ID)
}

func TestCreateGasPayment_DeductedDepositRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deposit := directDeposit()
	deposit.FeeModel = bridge.FeeModelDeducted

	f.store.EXPECT().GetDepositIntent(ctx, "dep-1").Return(deposit, nil).Once()

	_, err := f.svc.CreateGasPayment(ctx, "dep-1")
	require.ErrorIs(t, err, service.ErrGasNotApplicable)
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestCreateGasPayment_UnknownDeposit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.store.EXPECT().GetDepositIntent(ctx, "missing").
		Return(nil, fmt.Errorf("deposit intent: %w", bridgestore.ErrNotFound)).Once()

	_, err := f.svc.CreateGasPayment(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))
}

func TestCreateReturn_StoresIntentAndRelease(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	coinDest := f.derive(t, keys.PurposeDeposit, 99).CoinAddress(coinVersion)
	depositAddr := f.derive(t, keys.PurposeReturn, 2).EVMAddress().Hex()

	f.store.EXPECT().NextIndex(ctx, "return").Return(int64(2), nil).Once()
	f.store.EXPECT().
		CreateReturnIntent(ctx, mock.AnythingOfType("*bridge.ReturnIntent"), mock.AnythingOfType("*bridge.ReleaseTransaction")).
		Return(nil).Once()

	resp, err := f.svc.CreateReturn(ctx, &service.CreateReturnRequest{
		SourceAddress:      strings.ToLower(testIdentity),
		DestinationAddress: coinDest,
		Amount:             decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	assert.Equal(t, testIdentity, resp.Return.SourceAddress)
	assert.Equal(t, depositAddr, resp.Return.DepositAddress)
	assert.Equal(t, coinDest, resp.Return.DestinationAddress)
	assert.Equal(t, bridge.StatusPending, resp.Return.Status)

	assert.Equal(t, depositAddr, resp.Release.ToAddress)
	assert.Equal(t, testIdentity, resp.Release.SourceAddress)
	assert.Equal(t, coinDest, resp.Release.DestinationAddress)
	assert.Equal(t, evmConfirmReqs, resp.Release.RequiredConfirmations)
	assert.Equal(t, "39", resp.Quote.NetAmount.String())
}

func TestCreateReturn_RejectsBadCoinDestination(t *testing.T) {
	f := newFixture(t)
	wrongVersion := f.derive(t, keys.PurposeDeposit, 1).CoinAddress(0)

	for _, dest := range []string{"", "1111", wrongVersion, testIdentity} {
		_, err := f.svc.CreateReturn(context.Background(), &service.CreateReturnRequest{
			SourceAddress:      testIdentity,
			DestinationAddress: dest,
			Amount:             decimal.NewFromInt(40),
		})
		assert.True(t, apperrors.Is(err, apperrors.CategoryDataError), "destination %q", dest)
	}
}

func TestGetDeposit_IncludesGasPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gas := &bridge.GasPaymentIntent{ID: "gas-1", DepositIntentID: "dep-1", Status: bridge.StatusFunded}

	f.store.EXPECT().GetDepositIntent(ctx, "dep-1").Return(directDeposit(), nil).Once()
	f.store.EXPECT().GetGasPaymentByDeposit(ctx, "dep-1").Return(gas, nil).Once()

	resp, err := f.svc.GetDeposit(ctx, "dep-1")
	require.NoError(t, err)
	assert.Equal(t, "dep-1", resp.Deposit.ID)
	assert.Equal(t, gas, resp.GasPayment)
	assert.Nil(t, resp.Quote)
}

func TestGetReturn_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.store.EXPECT().GetReturnIntent(ctx, "nope").Return(nil, bridgestore.ErrNotFound).Once()

	_, err := f.svc.GetReturn(ctx, "nope")
	require.ErrorIs(t, err, service.ErrReturnNotFound)
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))
}

func TestGetStatus_NormalizesIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	records := &bridge.UserRecords{Deposits: []*bridge.DepositIntent{directDeposit()}}

	f.store.EXPECT().GetUserRecords(ctx, testIdentity).Return(records, nil).Once()

	got, err := f.svc.GetStatus(ctx, strings.ToLower(testIdentity))
	require.NoError(t, err)
	assert.Same(t, records, got)
}

func TestEstimateFees(t *testing.T) {
	f := newFixture(t)

	q, err := f.svc.EstimateFees(context.Background(), &service.EstimateRequest{
		Amount:    decimal.NewFromInt(100),
		Direction: string(bridge.DirectionCoinToWrapped),
		FeeModel:  string(bridge.FeeModelDirect),
		PayWith:   "wcas",
	})
	require.NoError(t, err)
	assert.True(t, q.Valid)
	assert.Equal(t, "99.9", q.NetAmount.String())
	assert.Equal(t, fees.AssetWrapped, q.GasFeeAsset)

	// too small is still an answer, not an error
	q, err = f.svc.EstimateFees(context.Background(), &service.EstimateRequest{
		Amount:    decimal.RequireFromString("0.1"),
		Direction: string(bridge.DirectionWrappedToCoin),
	})
	require.NoError(t, err)
	assert.False(t, q.Valid)
	assert.NotEmpty(t, q.Reason)

	_, err = f.svc.EstimateFees(context.Background(), &service.EstimateRequest{
		Amount:    decimal.NewFromInt(10),
		Direction: "sideways",
	})
	assert.True(t, apperrors.Is(err, apperrors.CategoryDataError))
}

func TestGasOptions(t *testing.T) {
	f := newFixture(t)

	opts, err := f.svc.GasOptions(context.Background(), "MINT")
	require.NoError(t, err)
	assert.Equal(t, fees.OperationMint, opts.Operation)
	assert.Len(t, opts.Options, 3)

	_, err = f.svc.GasOptions(context.Background(), "teleport")
	assert.True(t, apperrors.Is(err, apperrors.CategoryResourceNotFound))
}

func TestBridgeConfig(t *testing.T) {
	f := newFixture(t)

	info, err := f.svc.BridgeConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tokenContract, info.TokenContract)
	assert.Equal(t, int64(137), info.ChainID)
	assert.Equal(t, 12, info.CoinConfirmations)
	assert.Equal(t, evmConfirmReqs, info.EVMConfirmations)
	assert.Equal(t, int64(3600), info.GasPaymentTTLSeconds)
	assert.Equal(t, "1", info.MinimumBridgeAmount.String())
}

func TestListFailed_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	checkOpts := func(opts []bridgestore.QueryOption) {
		q := &bridgestore.QueryOptions{}
		for _, o := range opts {
			o(q)
		}
		assert.Equal(t, []bridge.Status{bridge.StatusFailed}, q.Statuses)
		assert.Equal(t, 100, q.Limit)
	}

	failed := &bridge.DepositIntent{ID: "dep-9", Status: bridge.StatusFailed, FailureReason: "mint reverted"}
	f.store.EXPECT().ListDepositIntents(ctx, mock.Anything, mock.Anything).
		Run(func(_ context.Context, opts ...bridgestore.QueryOption) { checkOpts(opts) }).
		Return([]*bridge.DepositIntent{failed}, nil).Once()
	f.store.EXPECT().ListReleaseTransactions(ctx, mock.Anything, mock.Anything).
		Run(func(_ context.Context, opts ...bridgestore.QueryOption) { checkOpts(opts) }).
		Return(nil, nil).Once()

	got, err := f.svc.ListFailed(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got.Deposits, 1)
	assert.Empty(t, got.Releases)
}
