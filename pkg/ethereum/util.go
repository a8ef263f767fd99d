package ethereum

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToBaseUnits scales a token amount to its integer on-chain representation.
// Digits beyond the token precision are truncated.
func ToBaseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

// FromBaseUnits scales an on-chain integer amount to a token amount
func FromBaseUnits(value *big.Int, decimals int32) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -decimals)
}

// Confirmations counts the inclusion block itself, so a transaction in the
// head block has one confirmation
func Confirmations(head, block uint64) int {
	if block == 0 || head < block {
		return 0
	}
	return int(head-block) + 1
}
