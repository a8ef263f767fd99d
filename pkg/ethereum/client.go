package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/chainsafe/cascoin-bridge/pkg/config"
	"github.com/chainsafe/cascoin-bridge/pkg/ethereum/contracts"
)

var (
	// ErrReadOnly is returned by signing calls on a client without an operator key
	ErrReadOnly = errors.New("ethereum client has no operator key")
	// ErrTransactionReverted is returned when a mined transaction has status 0
	ErrTransactionReverted = errors.New("transaction reverted")
)

// Client represents an Ethereum client bound to the wrapped token contract
type Client struct {
	config     *config.EthereumConfig
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	address    common.Address
	logger     *zap.Logger

	token *contracts.WrappedToken

	// serializes nonce selection and submission
	sendMu sync.Mutex

	decimalsMu     sync.Mutex
	decimals       uint8
	decimalsLoaded bool
}

// NewClient creates a new Ethereum client. Without an operator key the client
// can only read chain state.
func NewClient(ctx context.Context, cfg *config.EthereumConfig, logger *zap.Logger) (*Client, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum RPC: %w", err)
	}

	tokenAddress := common.HexToAddress(cfg.TokenContract)
	token, err := contracts.NewWrappedToken(tokenAddress, client)
	if err != nil {
		return nil, fmt.Errorf("failed to load token contract: %w", err)
	}

	c := &Client{
		config: cfg,
		client: client,
		token:  token,
		logger: logger,
	}

	if cfg.OperatorPrivateKey != "" {
		c.privateKey, err = crypto.HexToECDSA(strings.TrimPrefix(cfg.OperatorPrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}
		c.address = crypto.PubkeyToAddress(c.privateKey.PublicKey)
	}

	logger.Info("Connected to Ethereum",
		zap.Int64("chain_id", cfg.ChainID),
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("token_contract", c.TokenAddress().Hex()),
		zap.String("operator_address", c.address.Hex()))

	return c, nil
}

// Close closes the Ethereum client
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// TokenAddress returns the wrapped token contract address
func (c *Client) TokenAddress() common.Address {
	return c.token.Address()
}

// GetTransactor returns a transaction signer
func (c *Client) GetTransactor(ctx context.Context) (*bind.TransactOpts, error) {
	if c.privateKey == nil {
		return nil, ErrReadOnly
	}
	chainID := big.NewInt(c.config.ChainID)

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx

	nonce, err := c.client.PendingNonceAt(ctx, c.address)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.GasLimit = c.config.GasLimit

	// Set gas price if configured
	if c.config.MaxGasPrice != "" {
		maxGasPrice, ok := new(big.Int).SetString(c.config.MaxGasPrice, 10)
		if !ok {
			return nil, fmt.Errorf("invalid max gas price %q", c.config.MaxGasPrice)
		}

		gasPrice, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}

		if gasPrice.Cmp(maxGasPrice) > 0 {
			c.logger.Warn("Suggested gas price exceeds maximum",
				zap.String("suggested", gasPrice.String()),
				zap.String("max", maxGasPrice.String()))
			auth.GasPrice = maxGasPrice
		} else {
			auth.GasPrice = gasPrice
		}
	}

	return auth, nil
}

// BlockNumber gets the latest block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return n, nil
}

// FilterTransfers returns token Transfer events in [from, to] whose recipient
// is one of the given addresses
func (c *Client) FilterTransfers(ctx context.Context, from, to uint64, recipients []common.Address) ([]TransferEvent, error) {
	if len(recipients) == 0 {
		return nil, nil
	}
	toTopics := make([]common.Hash, len(recipients))
	for i, addr := range recipients {
		toTopics[i] = common.BytesToHash(addr.Bytes())
	}

	logs, err := c.client.FilterLogs(ctx, geth.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{c.token.Address()},
		Topics:    [][]common.Hash{{c.token.TransferTopic()}, nil, toTopics},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter transfer logs [%d, %d]: %w", from, to, err)
	}

	events := make([]TransferEvent, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		ev, err := c.token.ParseTransfer(l)
		if err != nil {
			c.logger.Warn("Skipping undecodable transfer log",
				zap.String("tx_hash", l.TxHash.Hex()),
				zap.Error(err))
			continue
		}
		events = append(events, TransferEvent{
			From:        ev.From,
			To:          ev.To,
			Value:       ev.Value,
			BlockNumber: l.BlockNumber,
			TxHash:      l.TxHash,
			LogIndex:    l.Index,
		})
	}
	return events, nil
}

// TransactionReceipt returns the receipt of a mined transaction, or nil when
// the transaction is not yet mined
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if errors.Is(err, geth.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

// BalanceAt returns the native balance of an account at the latest block
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", account.Hex(), err)
	}
	return balance, nil
}

// Decimals returns the token decimals. Only a successful read is cached.
func (c *Client) Decimals(ctx context.Context) (uint8, error) {
	c.decimalsMu.Lock()
	defer c.decimalsMu.Unlock()
	if c.decimalsLoaded {
		return c.decimals, nil
	}

	d, err := c.token.Decimals(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, fmt.Errorf("failed to read token decimals: %w", err)
	}
	c.decimals, c.decimalsLoaded = d, true
	return d, nil
}

// Mint mints amount base units to the recipient and waits for the receipt
func (c *Client) Mint(ctx context.Context, to common.Address, amount *big.Int) (*types.Receipt, error) {
	c.logger.Info("Submitting mint",
		zap.String("recipient", to.Hex()),
		zap.String("amount", amount.String()))

	return c.sendAndWait(ctx, "mint", func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.token.Mint(opts, to, amount)
	})
}

// BurnFrom burns amount base units held by from and waits for the receipt
func (c *Client) BurnFrom(ctx context.Context, from common.Address, amount *big.Int) (*types.Receipt, error) {
	c.logger.Info("Submitting burnFrom",
		zap.String("holder", from.Hex()),
		zap.String("amount", amount.String()))

	return c.sendAndWait(ctx, "burnFrom", func(opts *bind.TransactOpts) (*types.Transaction, error) {
		return c.token.BurnFrom(opts, from, amount)
	})
}

func (c *Client) sendAndWait(
	ctx context.Context,
	method string,
	send func(*bind.TransactOpts) (*types.Transaction, error),
) (*types.Receipt, error) {
	c.sendMu.Lock()
	auth, err := c.GetTransactor(ctx)
	if err != nil {
		c.sendMu.Unlock()
		return nil, err
	}
	tx, err := send(auth)
	c.sendMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s transaction: %w", method, err)
	}

	c.logger.Info("Transaction submitted",
		zap.String("method", method),
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("nonce", tx.Nonce()))

	receipt, err := bind.WaitMined(ctx, c.client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s transaction %s: %w", method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s %s", ErrTransactionReverted, method, tx.Hash().Hex())
	}
	return receipt, nil
}
