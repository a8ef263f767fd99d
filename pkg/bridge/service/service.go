package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/cascoin-bridge/pkg/app/errors"
	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
	"github.com/chainsafe/cascoin-bridge/pkg/fees"
	"github.com/chainsafe/cascoin-bridge/pkg/keys"
)

const defaultFailedLimit = 100

var (
	ErrDepositNotFound   = errors.New("deposit intent not found")
	ErrReturnNotFound    = errors.New("return intent not found")
	ErrGasNotApplicable  = errors.New("gas payment only applies to direct payment deposits")
	ErrDepositNotPending = errors.New("deposit intent is no longer waiting for gas")
)

// Store is the narrow data-access interface of the bridge API
//
//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter
type Store interface {
	NextIndex(ctx context.Context, purpose string) (int64, error)
	CreateDepositIntent(ctx context.Context, intent *bridge.DepositIntent) error
	GetDepositIntent(ctx context.Context, id string) (*bridge.DepositIntent, error)
	ListDepositIntents(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.DepositIntent, error)
	CreateGasPaymentIntent(ctx context.Context, intent *bridge.GasPaymentIntent) error
	GetGasPaymentByDeposit(ctx context.Context, depositIntentID string) (*bridge.GasPaymentIntent, error)
	RenewGasPayment(ctx context.Context, id string, required decimal.Decimal) (*bridge.GasPaymentIntent, error)
	CreateReturnIntent(ctx context.Context, intent *bridge.ReturnIntent, release *bridge.ReleaseTransaction) error
	GetReturnIntent(ctx context.Context, id string) (*bridge.ReturnIntent, error)
	GetReleaseByReturnIntent(ctx context.Context, returnIntentID string) (*bridge.ReleaseTransaction, error)
	ListReleaseTransactions(ctx context.Context, opts ...bridgestore.QueryOption) ([]*bridge.ReleaseTransaction, error)
	GetUserRecords(ctx context.Context, identity string) (*bridge.UserRecords, error)
}

// CoinNode registers deposit addresses with the coin node wallet
//
//go:generate mockery --name CoinNode --output mocks --outpkg mocks --filename mock_coin_node.go --with-expecter
type CoinNode interface {
	ImportAddress(ctx context.Context, address, label string) error
}

// KeyDeriver derives the one-time addresses handed out to users
type KeyDeriver interface {
	Derive(purpose keys.Purpose, index int64) (*keys.DerivedKey, error)
}

// FeeEngine quotes fees and exposes the fee schedule
type FeeEngine interface {
	Quote(req fees.Request) (fees.Quote, error)
	GasOptions(op fees.Operation) (fees.GasOptions, error)
	Schedule() fees.Schedule
	MinimumBridgeAmount() decimal.Decimal
}

// Service is the bridge API
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	CreateDeposit(ctx context.Context, req *CreateDepositRequest) (*DepositResponse, error)
	GetDeposit(ctx context.Context, id string) (*DepositResponse, error)
	CreateGasPayment(ctx context.Context, depositID string) (*bridge.GasPaymentIntent, error)
	CreateReturn(ctx context.Context, req *CreateReturnRequest) (*ReturnResponse, error)
	GetReturn(ctx context.Context, id string) (*ReturnResponse, error)
	GetStatus(ctx context.Context, identity string) (*bridge.UserRecords, error)
	EstimateFees(ctx context.Context, req *EstimateRequest) (*fees.Quote, error)
	FeeConfig(ctx context.Context) (*fees.Schedule, error)
	GasOptions(ctx context.Context, operation string) (*fees.GasOptions, error)
	BridgeConfig(ctx context.Context) (*BridgeInfo, error)
	ListFailed(ctx context.Context, limit int) (*FailedRecords, error)
}

type bridgeService struct {
	coinCfg  *config.CascoinConfig
	evmCfg   *config.EthereumConfig
	store    Store
	deriver  KeyDeriver
	node     CoinNode
	fees     FeeEngine
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new bridge API service
func NewService(
	coinCfg *config.CascoinConfig,
	evmCfg *config.EthereumConfig,
	store Store,
	deriver KeyDeriver,
	node CoinNode,
	engine FeeEngine,
	logger *zap.Logger,
) Service {
	return &bridgeService{
		coinCfg:  coinCfg,
		evmCfg:   evmCfg,
		store:    store,
		deriver:  deriver,
		node:     node,
		fees:     engine,
		validate: validator.New(),
		logger:   logger,
	}
}

// CreateDeposit quotes the request, derives a fresh coin address, registers it
// with the coin node and stores the intent. A node failure aborts the request
// before anything is written.
func (s *bridgeService) CreateDeposit(ctx context.Context, req *CreateDepositRequest) (*DepositResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, validationMessage(err))
	}
	model := feeModelOrDefault(req.FeeModel)

	quote, err := s.quote(fees.Request{Amount: req.Amount, Direction: bridge.DirectionCoinToWrapped, FeeModel: model})
	if err != nil {
		return nil, err
	}

	index, key, err := s.nextKey(ctx, keys.PurposeDeposit)
	if err != nil {
		return nil, err
	}
	destination := bridge.NormalizeIdentity(req.DestinationAddress)
	address := key.CoinAddress(s.coinCfg.AddressVersion)

	if err := s.node.ImportAddress(ctx, address, destination); err != nil {
		return nil, apperrors.UnavailableError(err, "coin node unavailable, try again later")
	}

	intent := &bridge.DepositIntent{
		DestinationAddress:    destination,
		DepositAddress:        address,
		DerivationIndex:       index,
		RequestedAmount:       req.Amount,
		FeeModel:              model,
		Status:                bridge.StatusPending,
		RequiredConfirmations: s.coinCfg.ConfirmationsRequired,
	}
	if err := s.store.CreateDepositIntent(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to save deposit intent: %w", err)
	}

	s.logger.Info("Deposit intent created",
		zap.String("deposit_id", intent.ID),
		zap.String("destination", destination),
		zap.String("deposit_address", address),
		zap.String("fee_model", string(model)))

	return &DepositResponse{Deposit: intent, Quote: &quote}, nil
}

func (s *bridgeService) GetDeposit(ctx context.Context, id string) (*DepositResponse, error) {
	intent, err := s.store.GetDepositIntent(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrDepositNotFound, "deposit intent not found")
	}

	resp := &DepositResponse{Deposit: intent}
	if intent.FeeModel != bridge.FeeModelDirect {
		return resp, nil
	}
	gas, err := s.store.GetGasPaymentByDeposit(ctx, id)
	switch {
	case err == nil:
		resp.GasPayment = gas
	case !errors.Is(err, bridgestore.ErrNotFound):
		return nil, fmt.Errorf("failed to get gas payment: %w", err)
	}
	return resp, nil
}

// CreateGasPayment returns the gas payment intent of a direct payment
// deposit, creating it on the first call. An expired intent of a deposit that
// is still open is renewed on the same gas address with a fresh quote.
func (s *bridgeService) CreateGasPayment(ctx context.Context, depositID string) (*bridge.GasPaymentIntent, error) {
	deposit, err := s.store.GetDepositIntent(ctx, depositID)
	if err != nil {
		return nil, notFound(err, ErrDepositNotFound, "deposit intent not found")
	}
	if deposit.FeeModel != bridge.FeeModelDirect {
		return nil, apperrors.BadRequestError(ErrGasNotApplicable, ErrGasNotApplicable.Error())
	}

	existing, err := s.store.GetGasPaymentByDeposit(ctx, depositID)
	if err != nil && !errors.Is(err, bridgestore.ErrNotFound) {
		return nil, fmt.Errorf("failed to get gas payment: %w", err)
	}
	if existing != nil && (existing.Status != bridge.StatusExpired || deposit.Status.IsTerminal()) {
		return existing, nil
	}
	if deposit.Status.IsTerminal() {
		return nil, apperrors.ConflictError(ErrDepositNotPending, ErrDepositNotPending.Error())
	}

	quote, err := s.quote(fees.Request{
		Amount:    deposit.RequestedAmount,
		Direction: bridge.DirectionCoinToWrapped,
		FeeModel:  bridge.FeeModelDirect,
		PayWith:   fees.AssetNative,
	})
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return s.renewGasPayment(ctx, existing, quote.GasFeeRequired)
	}

	index, key, err := s.nextKey(ctx, keys.PurposeGas)
	if err != nil {
		return nil, err
	}
	intent := &bridge.GasPaymentIntent{
		DepositIntentID: deposit.ID,
		OwnerAddress:    deposit.DestinationAddress,
		GasAddress:      key.EVMAddress().Hex(),
		DerivationIndex: index,
		RequiredAmount:  quote.GasFeeRequired,
		Status:          bridge.StatusPending,
	}
	if err := s.store.CreateGasPaymentIntent(ctx, intent); err != nil {
		if !errors.Is(err, bridgestore.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to save gas payment intent: %w", err)
		}
		// a concurrent request won the unique deposit_intent_id race
		existing, getErr := s.store.GetGasPaymentByDeposit(ctx, depositID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to get gas payment: %w", getErr)
		}
		return existing, nil
	}

	s.logger.Info("Gas payment intent created",
		zap.String("gas_payment_id", intent.ID),
		zap.String("deposit_id", deposit.ID),
		zap.String("gas_address", intent.GasAddress),
		zap.String("required", intent.RequiredAmount.String()))
	return intent, nil
}

func (s *bridgeService) renewGasPayment(ctx context.Context, expired *bridge.GasPaymentIntent, required decimal.Decimal) (*bridge.GasPaymentIntent, error) {
	renewed, err := s.store.RenewGasPayment(ctx, expired.ID, required)
	if errors.Is(err, bridgestore.ErrStatusConflict) {
		// renewed by a concurrent request
		current, getErr := s.store.GetGasPaymentByDeposit(ctx, expired.DepositIntentID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to get gas payment: %w", getErr)
		}
		return current, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to renew gas payment intent: %w", err)
	}

	s.logger.Info("Gas payment intent renewed",
		zap.String("gas_payment_id", renewed.ID),
		zap.String("deposit_id", renewed.DepositIntentID),
		zap.String("gas_address", renewed.GasAddress),
		zap.String("required", renewed.RequiredAmount.String()))
	return renewed, nil
}

// CreateReturn validates the coin destination, derives an EVM deposit address
// and stores the return intent together with its pending release
func (s *bridgeService) CreateReturn(ctx context.Context, req *CreateReturnRequest) (*ReturnResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, validationMessage(err))
	}
	if err := keys.ValidateCoinAddress(req.DestinationAddress, s.coinCfg.AddressVersion); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid cascoin destination address")
	}
	model := feeModelOrDefault(req.FeeModel)

	quote, err := s.quote(fees.Request{Amount: req.Amount, Direction: bridge.DirectionWrappedToCoin, FeeModel: model})
	if err != nil {
		return nil, err
	}

	index, key, err := s.nextKey(ctx, keys.PurposeReturn)
	if err != nil {
		return nil, err
	}
	source := bridge.NormalizeIdentity(req.SourceAddress)
	depositAddress := key.EVMAddress().Hex()

	intent := &bridge.ReturnIntent{
		SourceAddress:      source,
		DestinationAddress: req.DestinationAddress,
		RequestedAmount:    req.Amount,
		FeeModel:           model,
		DepositAddress:     depositAddress,
		DerivationIndex:    index,
		Status:             bridge.StatusPending,
	}
	release := &bridge.ReleaseTransaction{
		SourceAddress:         source,
		ToAddress:             depositAddress,
		DestinationAddress:    req.DestinationAddress,
		Status:                bridge.StatusPending,
		RequiredConfirmations: s.evmCfg.ConfirmationsRequired,
	}
	if err := s.store.CreateReturnIntent(ctx, intent, release); err != nil {
		return nil, fmt.Errorf("failed to save return intent: %w", err)
	}

	s.logger.Info("Return intent created",
		zap.String("return_id", intent.ID),
		zap.String("release_id", release.ID),
		zap.String("source", source),
		zap.String("deposit_address", depositAddress))

	return &ReturnResponse{Return: intent, Release: release, Quote: &quote}, nil
}

func (s *bridgeService) GetReturn(ctx context.Context, id string) (*ReturnResponse, error) {
	intent, err := s.store.GetReturnIntent(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrReturnNotFound, "return intent not found")
	}
	release, err := s.store.GetReleaseByReturnIntent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get release transaction: %w", err)
	}
	return &ReturnResponse{Return: intent, Release: release}, nil
}

func (s *bridgeService) GetStatus(ctx context.Context, identity string) (*bridge.UserRecords, error) {
	if strings.TrimSpace(identity) == "" {
		return nil, apperrors.BadRequestError(nil, "identity required")
	}
	records, err := s.store.GetUserRecords(ctx, bridge.NormalizeIdentity(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to load user records: %w", err)
	}
	return records, nil
}

func (s *bridgeService) EstimateFees(_ context.Context, req *EstimateRequest) (*fees.Quote, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, validationMessage(err))
	}
	direction, err := bridge.ParseDirection(req.Direction)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}
	payWith, err := fees.ParseAsset(req.PayWith)
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}

	quote, err := s.fees.Quote(fees.Request{
		Amount:      req.Amount,
		Direction:   direction,
		FeeModel:    feeModelOrDefault(bridge.FeeModel(req.FeeModel)),
		GasEstimate: req.GasEstimate,
		PayWith:     payWith,
	})
	if err != nil {
		return nil, apperrors.BadRequestError(err, err.Error())
	}
	// an invalid amount is still a successful estimate
	return &quote, nil
}

func (s *bridgeService) FeeConfig(context.Context) (*fees.Schedule, error) {
	schedule := s.fees.Schedule()
	return &schedule, nil
}

func (s *bridgeService) GasOptions(_ context.Context, operation string) (*fees.GasOptions, error) {
	opts, err := s.fees.GasOptions(fees.Operation(strings.ToLower(operation)))
	if err != nil {
		if errors.Is(err, fees.ErrUnknownOperation) {
			return nil, apperrors.ResourceNotFoundError(err, fmt.Sprintf("unknown operation %q", operation))
		}
		return nil, err
	}
	return &opts, nil
}

func (s *bridgeService) BridgeConfig(context.Context) (*BridgeInfo, error) {
	return &BridgeInfo{
		TokenContract:        s.evmCfg.TokenContract,
		ChainID:              s.evmCfg.ChainID,
		CoinConfirmations:    s.coinCfg.ConfirmationsRequired,
		EVMConfirmations:     s.evmCfg.ConfirmationsRequired,
		CoinAddressVersion:   s.coinCfg.AddressVersion,
		MinimumBridgeAmount:  s.fees.MinimumBridgeAmount(),
		FeeModels:            []bridge.FeeModel{bridge.FeeModelDirect, bridge.FeeModelDeducted},
		GasPaymentTTLSeconds: int64(s.evmCfg.GasPaymentTTL.Seconds()),
	}, nil
}

func (s *bridgeService) ListFailed(ctx context.Context, limit int) (*FailedRecords, error) {
	if limit <= 0 {
		limit = defaultFailedLimit
	}
	opts := []bridgestore.QueryOption{bridgestore.WithStatus(bridge.StatusFailed), bridgestore.WithLimit(limit)}

	deposits, err := s.store.ListDepositIntents(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed deposits: %w", err)
	}
	releases, err := s.store.ListReleaseTransactions(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed releases: %w", err)
	}
	return &FailedRecords{Deposits: deposits, Releases: releases}, nil
}

// quote maps engine rejections to client errors
func (s *bridgeService) quote(req fees.Request) (fees.Quote, error) {
	q, err := s.fees.Quote(req)
	if err != nil {
		return fees.Quote{}, apperrors.BadRequestError(err, err.Error())
	}
	if !q.Valid {
		return fees.Quote{}, apperrors.BadRequestError(nil, q.Reason)
	}
	return q, nil
}

func (s *bridgeService) nextKey(ctx context.Context, purpose keys.Purpose) (int64, *keys.DerivedKey, error) {
	index, err := s.store.NextIndex(ctx, string(purpose))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to allocate %s index: %w", purpose, err)
	}
	key, err := s.deriver.Derive(purpose, index)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to derive %s address: %w", purpose, err)
	}
	return index, key, nil
}

func feeModelOrDefault(m bridge.FeeModel) bridge.FeeModel {
	if m == "" {
		return bridge.FeeModelDeducted
	}
	return m
}

func notFound(err, sentinel error, message string) error {
	if errors.Is(err, bridgestore.ErrNotFound) {
		return apperrors.ResourceNotFoundError(sentinel, message)
	}
	return fmt.Errorf("failed to load record: %w", err)
}

// validationMessage names the first failing field in the JSON casing
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	field := jsonFieldNames[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "eth_addr":
		return field + " must be an EVM address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return field + " is invalid"
}

var jsonFieldNames = map[string]string{
	"DestinationAddress": "destination_address",
	"SourceAddress":      "source_address",
	"FeeModel":           "fee_model",
	"Direction":          "direction",
}
