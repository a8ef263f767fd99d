// Package fees computes bridge fee quotes. The engine holds no state beyond
// its parameters, so identical requests always produce identical quotes.
package fees

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
)

var (
	ErrUnknownDirection = errors.New("unknown bridge direction")
	ErrUnknownFeeModel  = errors.New("unknown fee model")
	ErrUnknownAsset     = errors.New("unknown payment asset")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Asset is a token a gas fee can be paid in
type Asset string

const (
	AssetNative  Asset = "native"
	AssetCoin    Asset = "cas"
	AssetWrapped Asset = "wcas"
)

// ParseAsset validates a pay-with token. An empty value means native.
func ParseAsset(s string) (Asset, error) {
	switch a := Asset(s); a {
	case "":
		return AssetNative, nil
	case AssetNative, AssetCoin, AssetWrapped:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAsset, s)
}

// Operation is an EVM operation with a known gas estimate
type Operation string

const (
	OperationMint     Operation = "mint"
	OperationBurn     Operation = "burn"
	OperationTransfer Operation = "transfer"
	OperationApprove  Operation = "approve"
)

// Params are the fee schedule and price inputs of the engine
type Params struct {
	DirectFeePct        decimal.Decimal
	DeductedFeePct      decimal.Decimal
	MinimumBridgeAmount decimal.Decimal
	GasPriceGwei        decimal.Decimal
	GasBufferPct        decimal.Decimal
	ConversionFeePct    decimal.Decimal
	NativeToCoinRate    decimal.Decimal
	NativeToWrappedRate decimal.Decimal
	CoinDecimals        int32
	WrappedDecimals     int32
	NativeDecimals      int32
	GasEstimates        map[Operation]uint64
	DefaultGasEstimate  uint64
}

// ParamsFromConfig converts the configured fee schedule into engine params
func ParamsFromConfig(cfg *config.FeeConfig) (Params, error) {
	p := Params{
		CoinDecimals:    cfg.CoinDecimals,
		WrappedDecimals: cfg.WrappedDecimals,
		NativeDecimals:  cfg.NativeDecimals,
		GasEstimates: map[Operation]uint64{
			OperationMint:     cfg.GasEstimates.Mint,
			OperationBurn:     cfg.GasEstimates.Burn,
			OperationTransfer: cfg.GasEstimates.Transfer,
			OperationApprove:  cfg.GasEstimates.Approve,
		},
		DefaultGasEstimate: cfg.GasEstimates.Default,
	}

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"direct_fee_percent", cfg.DirectFeePercent, &p.DirectFeePct},
		{"deducted_fee_percent", cfg.DeductedFeePercent, &p.DeductedFeePct},
		{"minimum_bridge_amount", cfg.MinimumBridgeAmount, &p.MinimumBridgeAmount},
		{"gas_price_gwei", cfg.GasPriceGwei, &p.GasPriceGwei},
		{"gas_buffer_percent", cfg.GasBufferPercent, &p.GasBufferPct},
		{"conversion_fee_percent", cfg.ConversionFeePct, &p.ConversionFeePct},
		{"native_to_coin_rate", cfg.NativeToCoinRate, &p.NativeToCoinRate},
		{"native_to_wrapped_rate", cfg.NativeToWrappedRate, &p.NativeToWrappedRate},
	}
	for _, f := range fields {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return Params{}, fmt.Errorf("invalid fees.%s %q: %w", f.name, f.raw, err)
		}
		*f.dst = v
	}
	return p, nil
}

// Request is the input of a fee quote
type Request struct {
	Amount    decimal.Decimal
	Direction bridge.Direction
	FeeModel  bridge.FeeModel
	// GasEstimate overrides the per-direction default when non-zero.
	GasEstimate uint64
	PayWith     Asset
}

// Quote is the fee breakdown for a bridge operation
type Quote struct {
	Amount         decimal.Decimal  `json:"amount"`
	Direction      bridge.Direction `json:"direction"`
	FeeModel       bridge.FeeModel  `json:"fee_model"`
	ServiceFee     decimal.Decimal  `json:"service_fee"`
	TotalFees      decimal.Decimal  `json:"total_fees"`
	NetAmount      decimal.Decimal  `json:"net_amount"`
	GasEstimate    uint64           `json:"gas_estimate,omitempty"`
	GasFeeWei      decimal.Decimal  `json:"gas_fee_wei"`
	GasFeeNative   decimal.Decimal  `json:"gas_fee_native"`
	GasFeeRequired decimal.Decimal  `json:"gas_fee_required"`
	GasFeeAsset    Asset            `json:"gas_fee_asset,omitempty"`
	Valid          bool             `json:"is_valid"`
	Reason         string           `json:"reason,omitempty"`
}

// GasOption is the cost of an EVM operation paid in one asset
type GasOption struct {
	Asset         Asset           `json:"asset"`
	Amount        decimal.Decimal `json:"amount"`
	ConversionFee decimal.Decimal `json:"conversion_fee"`
}

// GasOptions is the gas cost of an operation in every supported asset
type GasOptions struct {
	Operation   Operation       `json:"operation"`
	GasEstimate uint64          `json:"gas_estimate"`
	GasPrice    decimal.Decimal `json:"gas_price_gwei"`
	Options     []GasOption     `json:"options"`
}

// Schedule is the public fee configuration
type Schedule struct {
	DirectFeePercent    decimal.Decimal      `json:"direct_fee_percent"`
	DeductedFeePercent  decimal.Decimal      `json:"deducted_fee_percent"`
	MinimumBridgeAmount decimal.Decimal      `json:"minimum_bridge_amount"`
	GasPriceGwei        decimal.Decimal      `json:"gas_price_gwei"`
	GasBufferPercent    decimal.Decimal      `json:"gas_buffer_percent"`
	ConversionFeePct    decimal.Decimal      `json:"conversion_fee_percent"`
	NativeToCoinRate    decimal.Decimal      `json:"native_to_coin_rate"`
	NativeToWrappedRate decimal.Decimal      `json:"native_to_wrapped_rate"`
	GasEstimates        map[Operation]uint64 `json:"gas_estimates"`
	FeeModels           []bridge.FeeModel    `json:"fee_models"`
}

var (
	hundred = decimal.NewFromInt(100)
	gwei    = decimal.New(1, 9)
)

// Engine quotes bridge fees
type Engine struct {
	params Params
}

// NewEngine creates a new fee engine
func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// Quote computes the fees for a request. Invalid amounts yield a quote with
// Valid unset and a reason; unknown enums yield an error.
func (e *Engine) Quote(req Request) (Quote, error) {
	if _, err := bridge.ParseDirection(string(req.Direction)); err != nil {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownDirection, req.Direction)
	}
	if _, err := bridge.ParseFeeModel(string(req.FeeModel)); err != nil {
		return Quote{}, fmt.Errorf("%w: %q", ErrUnknownFeeModel, req.FeeModel)
	}
	payWith, err := ParseAsset(string(req.PayWith))
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Amount:    req.Amount,
		Direction: req.Direction,
		FeeModel:  req.FeeModel,
	}

	switch {
	case !req.Amount.IsPositive():
		q.Reason = "amount must be positive"
		return q, nil
	case req.Amount.LessThan(e.params.MinimumBridgeAmount):
		q.Reason = fmt.Sprintf("amount %s is below the minimum bridge amount of %s",
			req.Amount.String(), e.params.MinimumBridgeAmount.String())
		return q, nil
	}

	places := e.sourceDecimals(req.Direction)
	switch req.FeeModel {
	case bridge.FeeModelDirect:
		q.ServiceFee = percentOf(req.Amount, e.params.DirectFeePct).RoundBank(places)
		q.TotalFees = q.ServiceFee

		q.GasEstimate = req.GasEstimate
		if q.GasEstimate == 0 {
			q.GasEstimate = e.defaultEstimate(req.Direction)
		}
		q.GasFeeWei = e.gasFeeWei(q.GasEstimate)
		q.GasFeeNative = e.weiToNative(q.GasFeeWei)
		q.GasFeeAsset = payWith
		q.GasFeeRequired, _ = e.convert(q.GasFeeNative, payWith)
	case bridge.FeeModelDeducted:
		q.TotalFees = percentOf(req.Amount, e.params.DeductedFeePct).RoundBank(places)
		q.ServiceFee = q.TotalFees
	}

	q.NetAmount = req.Amount.Sub(q.TotalFees)
	if req.Direction == bridge.DirectionWrappedToCoin {
		// the net is paid out on the coin chain
		q.NetAmount = q.NetAmount.RoundBank(e.params.CoinDecimals)
		q.TotalFees = req.Amount.Sub(q.NetAmount)
	}
	if !q.NetAmount.IsPositive() {
		q.Reason = "amount does not cover the bridge fees"
		return q, nil
	}

	q.Valid = true
	return q, nil
}

// GasOptions returns the gas cost of an operation expressed in every asset
func (e *Engine) GasOptions(op Operation) (GasOptions, error) {
	estimate, ok := e.params.GasEstimates[op]
	if !ok {
		return GasOptions{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	native := e.weiToNative(e.gasFeeWei(estimate))
	out := GasOptions{
		Operation:   op,
		GasEstimate: estimate,
		GasPrice:    e.params.GasPriceGwei,
	}
	for _, asset := range []Asset{AssetNative, AssetCoin, AssetWrapped} {
		amount, conversionFee := e.convert(native, asset)
		out.Options = append(out.Options, GasOption{Asset: asset, Amount: amount, ConversionFee: conversionFee})
	}
	return out, nil
}

// Schedule returns the public fee configuration
func (e *Engine) Schedule() Schedule {
	estimates := make(map[Operation]uint64, len(e.params.GasEstimates))
	for op, v := range e.params.GasEstimates {
		estimates[op] = v
	}
	return Schedule{
		DirectFeePercent:    e.params.DirectFeePct,
		DeductedFeePercent:  e.params.DeductedFeePct,
		MinimumBridgeAmount: e.params.MinimumBridgeAmount,
		GasPriceGwei:        e.params.GasPriceGwei,
		GasBufferPercent:    e.params.GasBufferPct,
		ConversionFeePct:    e.params.ConversionFeePct,
		NativeToCoinRate:    e.params.NativeToCoinRate,
		NativeToWrappedRate: e.params.NativeToWrappedRate,
		GasEstimates:        estimates,
		FeeModels:           []bridge.FeeModel{bridge.FeeModelDirect, bridge.FeeModelDeducted},
	}
}

// MinimumBridgeAmount returns the smallest amount accepted by Quote
func (e *Engine) MinimumBridgeAmount() decimal.Decimal {
	return e.params.MinimumBridgeAmount
}

func (e *Engine) sourceDecimals(d bridge.Direction) int32 {
	if d == bridge.DirectionWrappedToCoin {
		return e.params.WrappedDecimals
	}
	return e.params.CoinDecimals
}

func (e *Engine) defaultEstimate(d bridge.Direction) uint64 {
	op := OperationMint
	if d == bridge.DirectionWrappedToCoin {
		op = OperationBurn
	}
	if v, ok := e.params.GasEstimates[op]; ok && v > 0 {
		return v
	}
	return e.params.DefaultGasEstimate
}

// gasFeeWei is estimate × price × (1 + buffer/100), in whole wei.
func (e *Engine) gasFeeWei(estimate uint64) decimal.Decimal {
	buffer := decimal.NewFromInt(1).Add(e.params.GasBufferPct.Div(hundred))
	return decimal.NewFromUint64(estimate).
		Mul(e.params.GasPriceGwei.Mul(gwei)).
		Mul(buffer).
		RoundBank(0)
}

func (e *Engine) weiToNative(wei decimal.Decimal) decimal.Decimal {
	return wei.Shift(-e.params.NativeDecimals).RoundBank(e.params.NativeDecimals)
}

// convert prices a native amount in another asset. Conversions out of the
// native token carry the conversion fee, which is also returned.
func (e *Engine) convert(native decimal.Decimal, to Asset) (decimal.Decimal, decimal.Decimal) {
	var (
		rate   decimal.Decimal
		places int32
	)
	switch to {
	case AssetCoin:
		rate, places = e.params.NativeToCoinRate, e.params.CoinDecimals
	case AssetWrapped:
		rate, places = e.params.NativeToWrappedRate, e.params.WrappedDecimals
	default:
		return native, decimal.Zero
	}
	base := native.Mul(rate)
	fee := percentOf(base, e.params.ConversionFeePct)
	return base.Add(fee).RoundBank(places), fee.RoundBank(places)
}

func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}
