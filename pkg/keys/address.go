package keys

import (
	"crypto/sha256"
	"fmt"
	"slices"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // hash160 is part of the address format
)

// Hash160 returns RIPEMD160(SHA256(b))
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	_, _ = h.Write(sum[:])
	return h.Sum(nil)
}

// EncodeP2PKH encodes a compressed public key as a base58check pay-to-pubkey-hash address
func EncodeP2PKH(pubKey []byte, version byte) string {
	return base58.CheckEncode(Hash160(pubKey), version)
}

// ValidateCoinAddress checks the base58check encoding, payload size and version byte
func ValidateCoinAddress(address string, versions ...byte) error {
	payload, version, err := base58.CheckDecode(address)
	if err != nil {
		return fmt.Errorf("invalid coin address %q: %w", address, err)
	}
	if len(payload) != ripemd160.Size {
		return fmt.Errorf("invalid coin address %q: payload is %d bytes", address, len(payload))
	}
	if len(versions) > 0 && !slices.Contains(versions, version) {
		return fmt.Errorf("invalid coin address %q: unexpected version %d", address, version)
	}
	return nil
}
