package service

import (
	"github.com/shopspring/decimal"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/fees"
)

// CreateDepositRequest asks for a coin deposit address that mints to DestinationAddress
type CreateDepositRequest struct {
	DestinationAddress string          `json:"destination_address" validate:"required,eth_addr"`
	Amount             decimal.Decimal `json:"amount"`
	FeeModel           bridge.FeeModel `json:"fee_model" validate:"omitempty,oneof=direct_payment deducted"`
}

// CreateReturnRequest asks for an EVM deposit address that releases coins to DestinationAddress
type CreateReturnRequest struct {
	SourceAddress      string          `json:"source_address" validate:"required,eth_addr"`
	DestinationAddress string          `json:"destination_address" validate:"required"`
	Amount             decimal.Decimal `json:"amount"`
	FeeModel           bridge.FeeModel `json:"fee_model" validate:"omitempty,oneof=direct_payment deducted"`
}

// EstimateRequest is the body of a fee estimate
type EstimateRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction" validate:"required"`
	FeeModel    string          `json:"fee_model"`
	PayWith     string          `json:"pay_with"`
	GasEstimate uint64          `json:"gas_estimate"`
}

// DepositResponse is a deposit intent with its gas payment and, on creation, its quote
type DepositResponse struct {
	Deposit    *bridge.DepositIntent    `json:"deposit"`
	GasPayment *bridge.GasPaymentIntent `json:"gas_payment,omitempty"`
	Quote      *fees.Quote              `json:"quote,omitempty"`
}

// ReturnResponse is a return intent with its release transaction
type ReturnResponse struct {
	Return  *bridge.ReturnIntent       `json:"return"`
	Release *bridge.ReleaseTransaction `json:"release"`
	Quote   *fees.Quote                `json:"quote,omitempty"`
}

// BridgeInfo is the public bridge configuration
type BridgeInfo struct {
	TokenContract        string            `json:"token_contract"`
	ChainID              int64             `json:"chain_id"`
	CoinConfirmations    int               `json:"coin_confirmations"`
	EVMConfirmations     int               `json:"evm_confirmations"`
	CoinAddressVersion   byte              `json:"coin_address_version"`
	MinimumBridgeAmount  decimal.Decimal   `json:"minimum_bridge_amount"`
	FeeModels            []bridge.FeeModel `json:"fee_models"`
	GasPaymentTTLSeconds int64             `json:"gas_payment_ttl_seconds"`
}

// FailedRecords lists the records that need operator attention
type FailedRecords struct {
	Deposits []*bridge.DepositIntent      `json:"deposits"`
	Releases []*bridge.ReleaseTransaction `json:"releases"`
}
