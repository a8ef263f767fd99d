package observer

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"github.com/chainsafe/cascoin-bridge/pkg/bridge"
	"github.com/chainsafe/cascoin-bridge/pkg/bridgestore"
	"github.com/chainsafe/cascoin-bridge/pkg/cascoin"
	"github.com/chainsafe/cascoin-bridge/pkg/ethereum"
	"github.com/chainsafe/cascoin-bridge/pkg/notify"
)

type MockCoinNode struct {
	ListUnspentFunc    func(ctx context.Context, minConf, maxConf int, addresses []string) ([]cascoin.Unspent, error)
	GetTransactionFunc func(ctx context.Context, txid string) (*cascoin.Transaction, error)
}

func (m *MockCoinNode) ListUnspent(ctx context.Context, minConf, maxConf int, addresses []string) ([]cascoin.Unspent, error) {
	if m.ListUnspentFunc != nil {
		return m.ListUnspentFunc(ctx, minConf, maxConf, addresses)
	}
	return nil, nil
}

func (m *MockCoinNode) GetTransaction(ctx context.Context, txid string) (*cascoin.Transaction, error) {
	if m.GetTransactionFunc != nil {
		return m.GetTransactionFunc(ctx, txid)
	}
	return &cascoin.Transaction{TxID: txid}, nil
}

type MockEVMNode struct {
	BlockNumberFunc        func(ctx context.Context) (uint64, error)
	FilterTransfersFunc    func(ctx context.Context, from, to uint64, recipients []common.Address) ([]ethereum.TransferEvent, error)
	TransactionReceiptFunc func(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BalanceAtFunc          func(ctx context.Context, account common.Address) (*big.Int, error)
}

func (m *MockEVMNode) BlockNumber(ctx context.Context) (uint64, error) {
	if m.BlockNumberFunc != nil {
		return m.BlockNumberFunc(ctx)
	}
	return 0, nil
}

func (m *MockEVMNode) FilterTransfers(ctx context.Context, from, to uint64, recipients []common.Address) ([]ethereum.TransferEvent, error) {
	if m.FilterTransfersFunc != nil {
		return m.FilterTransfersFunc(ctx, from, to, recipients)
	}
	return nil, nil
}

func (m *MockEVMNode) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if m.TransactionReceiptFunc != nil {
		return m.TransactionReceiptFunc(ctx, txHash)
	}
	return nil, nil
}

func (m *MockEVMNode) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	if m.BalanceAtFunc != nil {
		return m.BalanceAtFunc(ctx, account)
	}
	return big.NewInt(0), nil
}

func (m *MockEVMNode) Decimals(context.Context) (uint8, error) {
	return 18, nil
}

// memStore is an in-memory state store that applies the same conditional
// transitions as the Postgres store
type memStore struct {
	mu       sync.Mutex
	deposits map[string]*bridge.DepositIntent
	returns  map[string]*bridge.ReturnIntent
	releases map[string]*bridge.ReleaseTransaction
	gas      map[string]*bridge.GasPaymentIntent
	cursors  map[string]uint64
}

func newMemStore() *memStore {
	return &memStore{
		deposits: map[string]*bridge.DepositIntent{},
		returns:  map[string]*bridge.ReturnIntent{},
		releases: map[string]*bridge.ReleaseTransaction{},
		gas:      map[string]*bridge.GasPaymentIntent{},
		cursors:  map[string]uint64{},
	}
}

func hasStatus(opts []bridgestore.QueryOption, s bridge.Status) bool {
	q := &bridgestore.QueryOptions{}
	for _, o := range opts {
		o(q)
	}
	if len(q.Statuses) == 0 {
		return true
	}
	for _, st := range q.Statuses {
		if st == s {
			return true
		}
	}
	return false
}

func statusFor(confirmations, required int) bridge.Status {
	if confirmations >= required {
		return bridge.StatusConfirmed
	}
	return bridge.StatusPendingConfirmation
}

func (s *memStore) ListDepositIntents(_ context.Context, opts ...bridgestore.QueryOption) ([]*bridge.DepositIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*bridge.DepositIntent
	for _, d := range s.deposits {
		if hasStatus(opts, d.Status) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) RecordDepositSighting(_ context.Context, id, txHash string, amount decimal.Decimal, confirmations int) (*bridge.DepositIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deposits[id]
	if !ok || d.Status != bridge.StatusPending || d.ReceivedAmount != nil {
		return nil, bridgestore.ErrStatusConflict
	}
	d.DepositTxHash = txHash
	d.ReceivedAmount = &amount
	d.CurrentConfirmations = confirmations
	d.Status = statusFor(confirmations, d.RequiredConfirmations)
	cp := *d
	return &cp, nil
}

func (s *memStore) UpdateDepositConfirmations(_ context.Context, id string, confirmations int) (*bridge.DepositIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deposits[id]
	if !ok || d.Status != bridge.StatusPendingConfirmation || d.CurrentConfirmations > confirmations {
		return nil, bridgestore.ErrStatusConflict
	}
	d.CurrentConfirmations = confirmations
	d.Status = statusFor(confirmations, d.RequiredConfirmations)
	cp := *d
	return &cp, nil
}

func (s *memStore) GetCursor(_ context.Context, chain string) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.cursors[chain]
	return b, ok, nil
}

func (s *memStore) SaveCursor(_ context.Context, chain string, block uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[chain] = block
	return nil
}

func (s *memStore) ListReleaseTransactions(_ context.Context, opts ...bridgestore.QueryOption) ([]*bridge.ReleaseTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*bridge.ReleaseTransaction
	for _, r := range s.releases {
		if hasStatus(opts, r.Status) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) RecordReleaseSighting(_ context.Context, id string, sg bridgestore.ReleaseSighting) (*bridge.ReleaseTransaction, *bridge.ReturnIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.releases[id]
	if !ok || r.Status != bridge.StatusPending || r.Amount != nil {
		return nil, nil, bridgestore.ErrStatusConflict
	}
	intent := s.returns[r.ReturnIntentID]
	if intent == nil || intent.Status != bridge.StatusPending {
		return nil, nil, bridgestore.ErrStatusConflict
	}
	amount := sg.Amount
	r.TxHash = sg.TxHash
	r.FromAddress = sg.FromAddress
	r.Amount = &amount
	r.BlockNumber = sg.BlockNumber
	r.CurrentConfirmations = sg.Confirmations
	r.Status = statusFor(sg.Confirmations, r.RequiredConfirmations)
	intent.Status = bridge.StatusDepositDetected
	rc, ic := *r, *intent
	return &rc, &ic, nil
}

func (s *memStore) UpdateReleaseConfirmations(_ context.Context, id string, confirmations int) (*bridge.ReleaseTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.releases[id]
	if !ok || r.Status != bridge.StatusPendingConfirmation || r.CurrentConfirmations > confirmations {
		return nil, bridgestore.ErrStatusConflict
	}
	r.CurrentConfirmations = confirmations
	r.Status = statusFor(confirmations, r.RequiredConfirmations)
	cp := *r
	return &cp, nil
}

func (s *memStore) ListGasPaymentIntents(_ context.Context, opts ...bridgestore.QueryOption) ([]*bridge.GasPaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*bridge.GasPaymentIntent
	for _, g := range s.gas {
		if hasStatus(opts, g.Status) {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) MarkGasFunded(_ context.Context, id string, received decimal.Decimal) (*bridge.GasPaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gas[id]
	if !ok || g.Status != bridge.StatusPending {
		return nil, bridgestore.ErrStatusConflict
	}
	g.ReceivedAmount = &received
	g.Status = bridge.StatusFunded
	cp := *g
	return &cp, nil
}

func (s *memStore) ExpireGasPayment(_ context.Context, id string) (*bridge.GasPaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gas[id]
	if !ok || g.Status != bridge.StatusPending {
		return nil, bridgestore.ErrStatusConflict
	}
	g.Status = bridge.StatusExpired
	cp := *g
	return &cp, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates []notify.Update
}

func (p *recordingPublisher) Publish(_ context.Context, u notify.Update) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
	return nil
}

func (p *recordingPublisher) kinds() []notify.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Kind, 0, len(p.updates))
	for _, u := range p.updates {
		out = append(out, u.Kind)
	}
	return out
}

type countingTrigger struct {
	mu    sync.Mutex
	count int
}

func (c *countingTrigger) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

func (c *countingTrigger) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
