package ethereum

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransferEvent represents a wrapped token Transfer observed on chain
type TransferEvent struct {
	From        common.Address
	To          common.Address
	Value       *big.Int
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
}
