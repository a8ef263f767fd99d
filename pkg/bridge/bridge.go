// Package bridge holds the domain model of the Cascoin <-> EVM bridge: the
// intents users create through the API and the records the observers and the
// execution coordinator move through their state machines.
package bridge

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// DefaultRequiredConfirmations is used when a record does not carry its own threshold.
const DefaultRequiredConfirmations = 12

// Direction identifies which way value moves
type Direction string

const (
	DirectionCoinToWrapped Direction = "cas_to_wcas"
	DirectionWrappedToCoin Direction = "wcas_to_cas"
)

// ParseDirection validates a direction token
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionCoinToWrapped, DirectionWrappedToCoin:
		return d, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// FeeModel selects how fees are charged
type FeeModel string

const (
	// FeeModelDirect charges a small service fee and collects network gas separately.
	FeeModelDirect FeeModel = "direct_payment"
	// FeeModelDeducted takes all fees out of the bridged amount.
	FeeModelDeducted FeeModel = "deducted"
)

// ParseFeeModel validates a fee model token
func ParseFeeModel(s string) (FeeModel, error) {
	switch m := FeeModel(s); m {
	case FeeModelDirect, FeeModelDeducted:
		return m, nil
	}
	return "", fmt.Errorf("unknown fee model %q", s)
}

// Status is the lifecycle state of a tracked record
type Status string

const (
	StatusPending             Status = "pending"
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
	StatusExecuting           Status = "executing"
	StatusCompleted           Status = "completed"
	StatusProcessed           Status = "processed"
	StatusFailed              Status = "failed"

	// return intent only
	StatusDepositDetected Status = "deposit_detected"

	// gas payment intent only
	StatusFunded  Status = "funded"
	StatusSpent   Status = "spent"
	StatusExpired Status = "expired"
)

// IsTerminal reports whether no component will move the record any further
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusProcessed, StatusFailed, StatusSpent, StatusExpired:
		return true
	}
	return false
}

// DepositIntent is a request to move coins onto the EVM chain as wrapped tokens.
// DestinationAddress is the owning identity.
type DepositIntent struct {
	ID                    string           `json:"id"`
	DestinationAddress    string           `json:"destination_address"`
	DepositAddress        string           `json:"deposit_address"`
	DerivationIndex       int64            `json:"derivation_index"`
	RequestedAmount       decimal.Decimal  `json:"requested_amount"`
	FeeModel              FeeModel         `json:"fee_model"`
	Status                Status           `json:"status"`
	CurrentConfirmations  int              `json:"current_confirmations"`
	RequiredConfirmations int              `json:"required_confirmations"`
	DepositTxHash         string           `json:"deposit_tx_hash,omitempty"`
	ReceivedAmount        *decimal.Decimal `json:"received_amount,omitempty"`
	MintTxHash            string           `json:"mint_tx_hash,omitempty"`
	FeeAmount             *decimal.Decimal `json:"fee_amount,omitempty"`
	NetAmount             *decimal.Decimal `json:"net_amount,omitempty"`
	FailureReason         string           `json:"failure_reason,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// GasPaymentIntent collects EVM gas from the user for a direct-payment deposit
type GasPaymentIntent struct {
	ID              string           `json:"id"`
	DepositIntentID string           `json:"deposit_intent_id"`
	OwnerAddress    string           `json:"owner_address"`
	GasAddress      string           `json:"gas_address"`
	DerivationIndex int64            `json:"derivation_index"`
	RequiredAmount  decimal.Decimal  `json:"required_amount"`
	ReceivedAmount  *decimal.Decimal `json:"received_amount,omitempty"`
	Status          Status           `json:"status"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ReturnIntent is a request to move wrapped tokens back to the coin chain.
// SourceAddress is the owning identity.
type ReturnIntent struct {
	ID                 string          `json:"id"`
	SourceAddress      string          `json:"source_address"`
	DestinationAddress string          `json:"destination_address"`
	RequestedAmount    decimal.Decimal `json:"requested_amount"`
	FeeModel           FeeModel        `json:"fee_model"`
	DepositAddress     string          `json:"deposit_address"`
	DerivationIndex    int64           `json:"derivation_index"`
	Status             Status          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ReleaseTransaction tracks the wrapped-token transfer into a return intent's
// deposit address and the resulting burn and coin release. SourceAddress is
// copied from the return intent; FromAddress is the observed sender.
type ReleaseTransaction struct {
	ID                    string           `json:"id"`
	ReturnIntentID        string           `json:"return_intent_id"`
	SourceAddress         string           `json:"source_address"`
	FromAddress           string           `json:"from_address,omitempty"`
	ToAddress             string           `json:"to_address"`
	DestinationAddress    string           `json:"destination_address"`
	Status                Status           `json:"status"`
	TxHash                string           `json:"tx_hash,omitempty"`
	Amount                *decimal.Decimal `json:"amount,omitempty"`
	BlockNumber           uint64           `json:"block_number,omitempty"`
	CurrentConfirmations  int              `json:"current_confirmations"`
	RequiredConfirmations int              `json:"required_confirmations"`
	BurnTxHash            string           `json:"burn_tx_hash,omitempty"`
	ReleaseTxHash         string           `json:"release_tx_hash,omitempty"`
	FeeAmount             *decimal.Decimal `json:"fee_amount,omitempty"`
	NetAmount             *decimal.Decimal `json:"net_amount,omitempty"`
	FailureReason         string           `json:"failure_reason,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// UserRecords is everything the bridge tracks for one identity
type UserRecords struct {
	Deposits    []*DepositIntent      `json:"deposits"`
	GasPayments []*GasPaymentIntent   `json:"gas_payments"`
	Returns     []*ReturnIntent       `json:"returns"`
	Releases    []*ReleaseTransaction `json:"releases"`
}

// NormalizeIdentity returns the checksummed form of an EVM address so that
// records and live channels match regardless of the caller's casing.
// Anything that is not an EVM address is returned unchanged.
func NormalizeIdentity(identity string) string {
	if !common.IsHexAddress(identity) {
		return identity
	}
	return common.HexToAddress(identity).Hex()
}
