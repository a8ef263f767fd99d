// Package contracts holds the bindings of the bridged token contract.
package contracts

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// WrappedTokenABI is the subset of the wrapped token ABI the bridge uses:
// ERC-20 reads, the Transfer event and the operator-only mint and burnFrom.
const WrappedTokenABI = `[
	{"anonymous":false,"inputs":[
		{"indexed":true,"internalType":"address","name":"from","type":"address"},
		{"indexed":true,"internalType":"address","name":"to","type":"address"},
		{"indexed":false,"internalType":"uint256","name":"value","type":"uint256"}],
	 "name":"Transfer","type":"event"},
	{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"mint","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"internalType":"address","name":"from","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"burnFrom","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var errNotTransfer = errors.New("log is not a Transfer event")

// WrappedTokenTransfer is a decoded Transfer event
type WrappedTokenTransfer struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Raw   types.Log
}

// WrappedToken is a bound instance of the wrapped token contract
type WrappedToken struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

// NewWrappedToken binds the token contract deployed at address
func NewWrappedToken(address common.Address, backend bind.ContractBackend) (*WrappedToken, error) {
	parsed, err := abi.JSON(strings.NewReader(WrappedTokenABI))
	if err != nil {
		return nil, fmt.Errorf("parse wrapped token abi: %w", err)
	}
	return &WrappedToken{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

// Address returns the contract address
func (t *WrappedToken) Address() common.Address {
	return t.address
}

// TransferTopic returns the event id of Transfer
func (t *WrappedToken) TransferTopic() common.Hash {
	return t.abi.Events["Transfer"].ID
}

func (t *WrappedToken) Decimals(opts *bind.CallOpts) (uint8, error) {
	var out []any
	if err := t.contract.Call(opts, &out, "decimals"); err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (t *WrappedToken) BalanceOf(opts *bind.CallOpts, account common.Address) (*big.Int, error) {
	var out []any
	if err := t.contract.Call(opts, &out, "balanceOf", account); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (t *WrappedToken) Mint(opts *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.contract.Transact(opts, "mint", to, amount)
}

func (t *WrappedToken) BurnFrom(opts *bind.TransactOpts, from common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.contract.Transact(opts, "burnFrom", from, amount)
}

// ParseTransfer decodes a raw log emitted by the contract
func (t *WrappedToken) ParseTransfer(log types.Log) (*WrappedTokenTransfer, error) {
	if len(log.Topics) != 3 || log.Topics[0] != t.TransferTopic() {
		return nil, errNotTransfer
	}
	event := &WrappedTokenTransfer{Raw: log}
	if err := t.contract.UnpackLog(event, "Transfer", log); err != nil {
		return nil, fmt.Errorf("unpack Transfer log: %w", err)
	}
	return event, nil
}
