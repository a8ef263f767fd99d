// Package cascoin is a JSON-RPC client for the coin chain node. The node
// speaks the bitcoin-core wallet RPC dialect over HTTP POST.
package cascoin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/decred/dcrd/rpcclient/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/pkg/config"
)

var (
	// ErrRequestFailed wraps every failed node call, transport or RPC level
	ErrRequestFailed = errors.New("cascoin rpc request failed")
	// ErrNodeSyncing is returned by Ready while the node is in initial block download
	ErrNodeSyncing = errors.New("cascoin node is in initial block download")
)

// Unspent is one entry of listunspent
type Unspent struct {
	TxID          string          `json:"txid"`
	Vout          uint32          `json:"vout"`
	Address       string          `json:"address"`
	Amount        decimal.Decimal `json:"amount"`
	Confirmations int64           `json:"confirmations"`
}

// Transaction is the subset of gettransaction the bridge reads
type Transaction struct {
	TxID          string          `json:"txid"`
	Amount        decimal.Decimal `json:"amount"`
	Confirmations int64           `json:"confirmations"`
	BlockHash     string          `json:"blockhash"`
	Time          int64           `json:"time"`
}

// BlockchainInfo is the subset of getblockchaininfo used for readiness
type BlockchainInfo struct {
	Chain                string  `json:"chain"`
	Blocks               int64   `json:"blocks"`
	Headers              int64   `json:"headers"`
	VerificationProgress float64 `json:"verificationprogress"`
	InitialBlockDownload bool    `json:"initialblockdownload"`
}

type rawRequester interface {
	RawRequest(ctx context.Context, method string, params []json.RawMessage) (json.RawMessage, error)
	Shutdown()
}

// Client wraps the node RPC
type Client struct {
	rpc     rawRequester
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a new coin node client
func NewClient(cfg *config.CascoinConfig, logger *zap.Logger) (*Client, error) {
	rpc, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         cfg.RPCHost,
		User:         cfg.RPCUser,
		Pass:         cfg.RPCPassword,
		HTTPPostMode: true,
		DisableTLS:   cfg.DisableTLS,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cascoin rpc client (host=%s): %w", cfg.RPCHost, err)
	}

	logger.Info("Cascoin RPC client configured", zap.String("host", cfg.RPCHost))
	return &Client{
		rpc:     rpc,
		timeout: cfg.RPCTimeout,
		logger:  logger,
	}, nil
}

// Close shuts down the underlying RPC client
func (c *Client) Close() {
	c.rpc.Shutdown()
}

// ListUnspent returns wallet outputs paying to the given addresses
func (c *Client) ListUnspent(ctx context.Context, minConf, maxConf int, addresses []string) ([]Unspent, error) {
	var out []Unspent
	if len(addresses) == 0 {
		return out, nil
	}
	if err := c.call(ctx, "listunspent", &out, minConf, maxConf, addresses); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTransaction returns a wallet transaction, including watch-only ones
func (c *Client) GetTransaction(ctx context.Context, txid string) (*Transaction, error) {
	var tx Transaction
	if err := c.call(ctx, "gettransaction", &tx, txid, true); err != nil {
		return nil, err
	}
	return &tx, nil
}

// SendToAddress pays amount coins from the node wallet and returns the txid
func (c *Client) SendToAddress(ctx context.Context, address string, amount decimal.Decimal) (string, error) {
	var txid string
	// the node expects a JSON number, never a quoted string
	if err := c.call(ctx, "sendtoaddress", &txid, address, json.RawMessage(amount.StringFixed(8))); err != nil {
		return "", err
	}
	return txid, nil
}

// ImportAddress adds a watch-only address to the node wallet without a rescan
func (c *Client) ImportAddress(ctx context.Context, address, label string) error {
	return c.call(ctx, "importaddress", nil, address, label, false)
}

// GetBlockchainInfo returns the node's chain state
func (c *Client) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	var info BlockchainInfo
	if err := c.call(ctx, "getblockchaininfo", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Ready fails when the node is unreachable or still syncing
func (c *Client) Ready(ctx context.Context) error {
	info, err := c.GetBlockchainInfo(ctx)
	if err != nil {
		return err
	}
	if info.InitialBlockDownload {
		return fmt.Errorf("%w (blocks=%d headers=%d)", ErrNodeSyncing, info.Blocks, info.Headers)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, result any, params ...any) error {
	raw := make([]json.RawMessage, len(params))
	for i, p := range params {
		if m, ok := p.(json.RawMessage); ok {
			raw[i] = m
			continue
		}
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode %s param %d: %w", method, i, err)
		}
		raw[i] = b
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.rpc.RawRequest(ctx, method, raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRequestFailed, method, err)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}
