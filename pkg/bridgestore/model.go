package bridgestore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
)

// DepositIntentDao maps to the 'deposit_intents' table.
type DepositIntentDao struct {
	bun.BaseModel         `bun:"table:deposit_intents,alias:di"`
	ID                    string    `bun:"id,pk,type:uuid"`
	DestinationAddress    string    `bun:"destination_address,notnull,type:varchar(42)"`
	DepositAddress        string    `bun:"deposit_address,unique,notnull,type:varchar(64)"`
	DerivationIndex       int64     `bun:"derivation_index,unique,notnull"`
	RequestedAmount       string    `bun:"requested_amount,notnull,type:numeric(38,18)"`
	FeeModel              string    `bun:"fee_model,notnull,type:varchar(32)"`
	Status                string    `bun:"status,notnull,type:varchar(32)"`
	CurrentConfirmations  int       `bun:"current_confirmations,notnull,default:0"`
	RequiredConfirmations int       `bun:"required_confirmations,notnull,default:12"`
	DepositTxHash         *string   `bun:"deposit_tx_hash,type:varchar(128)"`
	ReceivedAmount        *string   `bun:"received_amount,type:numeric(38,18)"`
	MintTxHash            *string   `bun:"mint_tx_hash,type:varchar(66)"`
	FeeAmount             *string   `bun:"fee_amount,type:numeric(38,18)"`
	NetAmount             *string   `bun:"net_amount,type:numeric(38,18)"`
	FailureReason         *string   `bun:"failure_reason,type:text"`
	CreatedAt             time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt             time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// GasPaymentIntentDao maps to the 'gas_payment_intents' table.
type GasPaymentIntentDao struct {
	bun.BaseModel   `bun:"table:gas_payment_intents,alias:gp"`
	ID              string    `bun:"id,pk,type:uuid"`
	DepositIntentID string    `bun:"deposit_intent_id,unique,notnull,type:uuid"`
	OwnerAddress    string    `bun:"owner_address,notnull,type:varchar(42)"`
	GasAddress      string    `bun:"gas_address,unique,notnull,type:varchar(42)"`
	DerivationIndex int64     `bun:"derivation_index,unique,notnull"`
	RequiredAmount  string    `bun:"required_amount,notnull,type:numeric(38,18)"`
	ReceivedAmount  *string   `bun:"received_amount,type:numeric(38,18)"`
	Status          string    `bun:"status,notnull,type:varchar(32)"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ReturnIntentDao maps to the 'return_intents' table.
type ReturnIntentDao struct {
	bun.BaseModel      `bun:"table:return_intents,alias:ri"`
	ID                 string    `bun:"id,pk,type:uuid"`
	SourceAddress      string    `bun:"source_address,notnull,type:varchar(42)"`
	DestinationAddress string    `bun:"destination_address,notnull,type:varchar(64)"`
	RequestedAmount    string    `bun:"requested_amount,notnull,type:numeric(38,18)"`
	FeeModel           string    `bun:"fee_model,notnull,type:varchar(32)"`
	DepositAddress     string    `bun:"deposit_address,unique,notnull,type:varchar(42)"`
	DerivationIndex    int64     `bun:"derivation_index,unique,notnull"`
	Status             string    `bun:"status,notnull,type:varchar(32)"`
	CreatedAt          time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ReleaseTransactionDao maps to the 'release_transactions' table.
type ReleaseTransactionDao struct {
	bun.BaseModel         `bun:"table:release_transactions,alias:rt"`
	ID                    string    `bun:"id,pk,type:uuid"`
	ReturnIntentID        string    `bun:"return_intent_id,unique,notnull,type:uuid"`
	SourceAddress         string    `bun:"source_address,notnull,type:varchar(42)"`
	FromAddress           *string   `bun:"from_address,type:varchar(42)"`
	ToAddress             string    `bun:"to_address,notnull,type:varchar(42)"`
	DestinationAddress    string    `bun:"destination_address,notnull,type:varchar(64)"`
	Status                string    `bun:"status,notnull,type:varchar(32)"`
	TxHash                *string   `bun:"deposit_tx_hash,type:varchar(66)"`
	Amount                *string   `bun:"amount,type:numeric(38,18)"`
	BlockNumber           *int64    `bun:"block_number"`
	CurrentConfirmations  int       `bun:"current_confirmations,notnull,default:0"`
	RequiredConfirmations int       `bun:"required_confirmations,notnull,default:12"`
	BurnTxHash            *string   `bun:"burn_tx_hash,type:varchar(66)"`
	ReleaseTxHash         *string   `bun:"release_tx_hash,type:varchar(128)"`
	FeeAmount             *string   `bun:"fee_amount,type:numeric(38,18)"`
	NetAmount             *string   `bun:"net_amount,type:numeric(38,18)"`
	FailureReason         *string   `bun:"failure_reason,type:text"`
	CreatedAt             time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt             time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// KeyIndexDao maps to the 'key_indexes' table, one allocation counter per key purpose.
type KeyIndexDao struct {
	bun.BaseModel `bun:"table:key_indexes,alias:ki"`
	Purpose       string    `bun:"purpose,pk,type:varchar(32)"`
	NextIndex     int64     `bun:"next_index,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ChainCursorDao maps to the 'chain_cursors' table.
type ChainCursorDao struct {
	bun.BaseModel `bun:"table:chain_cursors,alias:cc"`
	Chain         string    `bun:"chain,pk,type:varchar(32)"`
	LastBlock     int64     `bun:"last_block,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func toDepositIntentDao(in *bridge.DepositIntent) *DepositIntentDao {
	return &DepositIntentDao{
		ID:                    in.ID,
		DestinationAddress:    in.DestinationAddress,
		DepositAddress:        in.DepositAddress,
		DerivationIndex:       in.DerivationIndex,
		RequestedAmount:       in.RequestedAmount.String(),
		FeeModel:              string(in.FeeModel),
		Status:                string(in.Status),
		CurrentConfirmations:  in.CurrentConfirmations,
		RequiredConfirmations: in.RequiredConfirmations,
		DepositTxHash:         optString(in.DepositTxHash),
		ReceivedAmount:        optDecimalString(in.ReceivedAmount),
		MintTxHash:            optString(in.MintTxHash),
		FeeAmount:             optDecimalString(in.FeeAmount),
		NetAmount:             optDecimalString(in.NetAmount),
		FailureReason:         optString(in.FailureReason),
	}
}

func toDepositIntent(dao *DepositIntentDao) *bridge.DepositIntent {
	return &bridge.DepositIntent{
		ID:                    dao.ID,
		DestinationAddress:    dao.DestinationAddress,
		DepositAddress:        dao.DepositAddress,
		DerivationIndex:       dao.DerivationIndex,
		RequestedAmount:       mustDecimal(dao.RequestedAmount),
		FeeModel:              bridge.FeeModel(dao.FeeModel),
		Status:                bridge.Status(dao.Status),
		CurrentConfirmations:  dao.CurrentConfirmations,
		RequiredConfirmations: dao.RequiredConfirmations,
		DepositTxHash:         deref(dao.DepositTxHash),
		ReceivedAmount:        optDecimal(dao.ReceivedAmount),
		MintTxHash:            deref(dao.MintTxHash),
		FeeAmount:             optDecimal(dao.FeeAmount),
		NetAmount:             optDecimal(dao.NetAmount),
		FailureReason:         deref(dao.FailureReason),
		CreatedAt:             dao.CreatedAt,
		UpdatedAt:             dao.UpdatedAt,
	}
}

func toGasPaymentIntentDao(in *bridge.GasPaymentIntent) *GasPaymentIntentDao {
	return &GasPaymentIntentDao{
		ID:              in.ID,
		DepositIntentID: in.DepositIntentID,
		OwnerAddress:    in.OwnerAddress,
		GasAddress:      in.GasAddress,
		DerivationIndex: in.DerivationIndex,
		RequiredAmount:  in.RequiredAmount.String(),
		ReceivedAmount:  optDecimalString(in.ReceivedAmount),
		Status:          string(in.Status),
	}
}

func toGasPaymentIntent(dao *GasPaymentIntentDao) *bridge.GasPaymentIntent {
	return &bridge.GasPaymentIntent{
		ID:              dao.ID,
		DepositIntentID: dao.DepositIntentID,
		OwnerAddress:    dao.OwnerAddress,
		GasAddress:      dao.GasAddress,
		DerivationIndex: dao.DerivationIndex,
		RequiredAmount:  mustDecimal(dao.RequiredAmount),
		ReceivedAmount:  optDecimal(dao.ReceivedAmount),
		Status:          bridge.Status(dao.Status),
		CreatedAt:       dao.CreatedAt,
		UpdatedAt:       dao.UpdatedAt,
	}
}

func toReturnIntentDao(in *bridge.ReturnIntent) *ReturnIntentDao {
	return &ReturnIntentDao{
		ID:                 in.ID,
		SourceAddress:      in.SourceAddress,
		DestinationAddress: in.DestinationAddress,
		RequestedAmount:    in.RequestedAmount.String(),
		FeeModel:           string(in.FeeModel),
		DepositAddress:     in.DepositAddress,
		DerivationIndex:    in.DerivationIndex,
		Status:             string(in.Status),
	}
}

func toReturnIntent(dao *ReturnIntentDao) *bridge.ReturnIntent {
	return &bridge.ReturnIntent{
		ID:                 dao.ID,
		SourceAddress:      dao.SourceAddress,
		DestinationAddress: dao.DestinationAddress,
		RequestedAmount:    mustDecimal(dao.RequestedAmount),
		FeeModel:           bridge.FeeModel(dao.FeeModel),
		DepositAddress:     dao.DepositAddress,
		DerivationIndex:    dao.DerivationIndex,
		Status:             bridge.Status(dao.Status),
		CreatedAt:          dao.CreatedAt,
		UpdatedAt:          dao.UpdatedAt,
	}
}

func toReleaseTransactionDao(in *bridge.ReleaseTransaction) *ReleaseTransactionDao {
	dao := &ReleaseTransactionDao{
		ID:                    in.ID,
		ReturnIntentID:        in.ReturnIntentID,
		SourceAddress:         in.SourceAddress,
		FromAddress:           optString(in.FromAddress),
		ToAddress:             in.ToAddress,
		DestinationAddress:    in.DestinationAddress,
		Status:                string(in.Status),
		TxHash:                optString(in.TxHash),
		Amount:                optDecimalString(in.Amount),
		CurrentConfirmations:  in.CurrentConfirmations,
		RequiredConfirmations: in.RequiredConfirmations,
		BurnTxHash:            optString(in.BurnTxHash),
		ReleaseTxHash:         optString(in.ReleaseTxHash),
		FeeAmount:             optDecimalString(in.FeeAmount),
		NetAmount:             optDecimalString(in.NetAmount),
		FailureReason:         optString(in.FailureReason),
	}
	if in.BlockNumber > 0 {
		block := int64(in.BlockNumber)
		dao.BlockNumber = &block
	}
	return dao
}

func toReleaseTransaction(dao *ReleaseTransactionDao) *bridge.ReleaseTransaction {
	rel := &bridge.ReleaseTransaction{
		ID:                    dao.ID,
		ReturnIntentID:        dao.ReturnIntentID,
		SourceAddress:         dao.SourceAddress,
		FromAddress:           deref(dao.FromAddress),
		ToAddress:             dao.ToAddress,
		DestinationAddress:    dao.DestinationAddress,
		Status:                bridge.Status(dao.Status),
		TxHash:                deref(dao.TxHash),
		Amount:                optDecimal(dao.Amount),
		CurrentConfirmations:  dao.CurrentConfirmations,
		RequiredConfirmations: dao.RequiredConfirmations,
		BurnTxHash:            deref(dao.BurnTxHash),
		ReleaseTxHash:         deref(dao.ReleaseTxHash),
		FeeAmount:             optDecimal(dao.FeeAmount),
		NetAmount:             optDecimal(dao.NetAmount),
		FailureReason:         deref(dao.FailureReason),
		CreatedAt:             dao.CreatedAt,
		UpdatedAt:             dao.UpdatedAt,
	}
	if dao.BlockNumber != nil {
		rel.BlockNumber = uint64(*dao.BlockNumber)
	}
	return rel
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optDecimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func optDecimal(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d := mustDecimal(*s)
	return &d
}

// mustDecimal parses a numeric column. Postgres only hands back valid numerics.
func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
