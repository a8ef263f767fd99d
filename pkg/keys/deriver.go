// Package keys derives the bridge's one-time addresses from a master seed.
// Every deposit, gas payment and return intent gets its own secp256k1 key,
// derived from (seed, purpose, index) with HKDF-SHA256, so no per-address
// secret ever needs to be stored.
package keys

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/hkdf"
)

// MaxIndex is the largest derivation index handed out.
const MaxIndex = 1<<31 - 1

// maxAttempts bounds the retries for a derived scalar outside the curve order.
const maxAttempts = 16

// Purpose separates the derivation namespaces of the different address kinds.
type Purpose string

const (
	PurposeDeposit Purpose = "deposit"
	PurposeGas     Purpose = "gas"
	PurposeReturn  Purpose = "return"
)

var (
	ErrExhaustedKeyspace = errors.New("derivation keyspace exhausted")
	ErrInvalidSeed       = errors.New("master seed must be at least 32 bytes")
)

// DerivedKey is the signing material for one derived address
type DerivedKey struct {
	Purpose    Purpose
	Index      int64
	PrivateKey *ecdsa.PrivateKey
}

// PublicKey returns the 33-byte compressed public key
func (k *DerivedKey) PublicKey() []byte {
	return crypto.CompressPubkey(&k.PrivateKey.PublicKey)
}

// EVMAddress returns the EVM address controlled by the key
func (k *DerivedKey) EVMAddress() common.Address {
	return crypto.PubkeyToAddress(k.PrivateKey.PublicKey)
}

// CoinAddress returns the P2PKH coin address controlled by the key
func (k *DerivedKey) CoinAddress(version byte) string {
	return EncodeP2PKH(k.PublicKey(), version)
}

// Deriver derives keys from a master seed. It holds no mutable state.
type Deriver struct {
	seed []byte
}

// NewDeriver creates a deriver for the given seed
func NewDeriver(seed []byte) (*Deriver, error) {
	if len(seed) < 32 {
		return nil, ErrInvalidSeed
	}
	s := make([]byte, len(seed))
	copy(s, seed)
	return &Deriver{seed: s}, nil
}

// NewDeriverFromHex creates a deriver from a hex encoded seed
func NewDeriverFromHex(seedHex string) (*Deriver, error) {
	seed, err := hex.DecodeString(strings.TrimPrefix(seedHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode master seed: %w", err)
	}
	return NewDeriver(seed)
}

// Derive returns the key for (purpose, index). The result depends only on
// the seed and the arguments.
func (d *Deriver) Derive(purpose Purpose, index int64) (*DerivedKey, error) {
	if index < 0 || index > MaxIndex {
		return nil, ErrExhaustedKeyspace
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		info := fmt.Appendf(nil, "cascoin-bridge/%s/%d/%d", purpose, index, attempt)
		reader := hkdf.New(sha256.New, d.seed, nil, info)

		scalar := make([]byte, 32)
		if _, err := io.ReadFull(reader, scalar); err != nil {
			return nil, fmt.Errorf("failed to derive key seed: %w", err)
		}

		// ToECDSA rejects zero and values at or above the curve order.
		privateKey, err := crypto.ToECDSA(scalar)
		if err != nil {
			continue
		}
		return &DerivedKey{Purpose: purpose, Index: index, PrivateKey: privateKey}, nil
	}

	return nil, fmt.Errorf("failed to derive a valid key for %s/%d", purpose, index)
}
