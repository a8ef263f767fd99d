// Package bridgestore is the Postgres-backed state store of the bridge. Every
// status change it performs is a conditional update keyed on the expected
// prior status, so concurrent writers can never both win a transition.
package bridgestore

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
)

var (
	// ErrNotFound is returned when a lookup finds no matching record.
	ErrNotFound = errors.New("record not found")
	// ErrStatusConflict is returned when a conditional update matched no row:
	// the record is not in the expected prior state.
	ErrStatusConflict = errors.New("record is not in the expected status")
	// ErrAlreadyExists is returned when a unique constraint rejects an insert.
	ErrAlreadyExists = errors.New("record already exists")
)

// Store defines the full persistence surface of the bridge
type Store interface {
	IndexAllocator
	CursorStore
	DepositStore
	GasPaymentStore
	ReturnStore
	GetUserRecords(ctx context.Context, identity string) (*bridge.UserRecords, error)
}

// IndexAllocator hands out derivation indexes
type IndexAllocator interface {
	NextIndex(ctx context.Context, purpose string) (int64, error)
}

// CursorStore persists chain scan positions
type CursorStore interface {
	GetCursor(ctx context.Context, chain string) (uint64, bool, error)
	SaveCursor(ctx context.Context, chain string, block uint64) error
}

// DepositStore persists deposit intents
type DepositStore interface {
	CreateDepositIntent(ctx context.Context, intent *bridge.DepositIntent) error
	GetDepositIntent(ctx context.Context, id string) (*bridge.DepositIntent, error)
	ListDepositIntents(ctx context.Context, opts ...QueryOption) ([]*bridge.DepositIntent, error)
	RecordDepositSighting(ctx context.Context, id, txHash string, amount decimal.Decimal, confirmations int) (*bridge.DepositIntent, error)
	UpdateDepositConfirmations(ctx context.Context, id string, confirmations int) (*bridge.DepositIntent, error)
	ClaimDeposit(ctx context.Context, id string) (*bridge.DepositIntent, error)
	CompleteDeposit(ctx context.Context, id, mintTxHash string, fee, net decimal.Decimal) (*bridge.DepositIntent, error)
	FailDeposit(ctx context.Context, id, reason string) (*bridge.DepositIntent, error)
}

// GasPaymentStore persists gas payment intents
type GasPaymentStore interface {
	CreateGasPaymentIntent(ctx context.Context, intent *bridge.GasPaymentIntent) error
	GetGasPaymentIntent(ctx context.Context, id string) (*bridge.GasPaymentIntent, error)
	GetGasPaymentByDeposit(ctx context.Context, depositIntentID string) (*bridge.GasPaymentIntent, error)
	ListGasPaymentIntents(ctx context.Context, opts ...QueryOption) ([]*bridge.GasPaymentIntent, error)
	MarkGasFunded(ctx context.Context, id string, received decimal.Decimal) (*bridge.GasPaymentIntent, error)
	MarkGasSpent(ctx context.Context, id string) (*bridge.GasPaymentIntent, error)
	ExpireGasPayment(ctx context.Context, id string) (*bridge.GasPaymentIntent, error)
	// RenewGasPayment reopens an expired intent on the same gas address with
	// a new required amount. Its time to live restarts from the renewal.
	RenewGasPayment(ctx context.Context, id string, required decimal.Decimal) (*bridge.GasPaymentIntent, error)
}

// ReturnStore persists return intents and their release transactions
type ReturnStore interface {
	CreateReturnIntent(ctx context.Context, intent *bridge.ReturnIntent, release *bridge.ReleaseTransaction) error
	GetReturnIntent(ctx context.Context, id string) (*bridge.ReturnIntent, error)
	ListReturnIntents(ctx context.Context, opts ...QueryOption) ([]*bridge.ReturnIntent, error)
	GetReleaseTransaction(ctx context.Context, id string) (*bridge.ReleaseTransaction, error)
	GetReleaseByReturnIntent(ctx context.Context, returnIntentID string) (*bridge.ReleaseTransaction, error)
	ListReleaseTransactions(ctx context.Context, opts ...QueryOption) ([]*bridge.ReleaseTransaction, error)
	RecordReleaseSighting(ctx context.Context, id string, sighting ReleaseSighting) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error)
	UpdateReleaseConfirmations(ctx context.Context, id string, confirmations int) (*bridge.ReleaseTransaction, error)
	ClaimRelease(ctx context.Context, id string) (*bridge.ReleaseTransaction, error)
	CompleteRelease(ctx context.Context, id string, result ReleaseResult) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error)
	FailRelease(ctx context.Context, id, burnTxHash, reason string) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error)
}

// ReleaseSighting is the first observation of a token transfer into a return deposit address
type ReleaseSighting struct {
	TxHash        string
	FromAddress   string
	Amount        decimal.Decimal
	BlockNumber   uint64
	Confirmations int
}

// ReleaseResult is the outcome of a successful burn and coin release
type ReleaseResult struct {
	BurnTxHash    string
	ReleaseTxHash string
	Fee           decimal.Decimal
	Net           decimal.Decimal
}

// QueryOptions defines filters for list queries
type QueryOptions struct {
	Statuses []bridge.Status
	Owner    *string
	Limit    int
}

// QueryOption is a functional option for list queries
type QueryOption func(*QueryOptions)

// WithStatus restricts results to the given statuses
func WithStatus(statuses ...bridge.Status) QueryOption {
	return func(opts *QueryOptions) {
		opts.Statuses = append(opts.Statuses, statuses...)
	}
}

// WithOwner restricts results to records owned by the identity
func WithOwner(identity string) QueryOption {
	return func(opts *QueryOptions) {
		opts.Owner = &identity
	}
}

// WithLimit caps the number of results
func WithLimit(limit int) QueryOption {
	return func(opts *QueryOptions) {
		opts.Limit = limit
	}
}

func applyOptions(opts []QueryOption) *QueryOptions {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
