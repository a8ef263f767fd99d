package keys

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeedHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func testDeriver(t *testing.T) *Deriver {
	t.Helper()
	d, err := NewDeriverFromHex(testSeedHex)
	require.NoError(t, err)
	return d
}

func TestDerive_Deterministic(t *testing.T) {
	d := testDeriver(t)

	k1, err := d.Derive(PurposeDeposit, 7)
	require.NoError(t, err)
	k2, err := d.Derive(PurposeDeposit, 7)
	require.NoError(t, err)

	assert.Equal(t, crypto.FromECDSA(k1.PrivateKey), crypto.FromECDSA(k2.PrivateKey))
	assert.Equal(t, k1.EVMAddress(), k2.EVMAddress())
	assert.Equal(t, k1.CoinAddress(28), k2.CoinAddress(28))
	assert.Len(t, k1.PublicKey(), 33)
}

func TestDerive_DistinctPerIndexAndPurpose(t *testing.T) {
	d := testDeriver(t)
	seen := make(map[string]struct{})

	for _, purpose := range []Purpose{PurposeDeposit, PurposeGas, PurposeReturn} {
		for i := int64(0); i < 20; i++ {
			k, err := d.Derive(purpose, i)
			require.NoError(t, err)
			addr := k.EVMAddress().Hex()
			_, dup := seen[addr]
			require.False(t, dup, "duplicate address for %s/%d", purpose, i)
			seen[addr] = struct{}{}
		}
	}
}

func TestDerive_DifferentSeeds(t *testing.T) {
	other := make([]byte, 32)
	other[0] = 0xff
	d2, err := NewDeriver(other)
	require.NoError(t, err)

	k1, err := testDeriver(t).Derive(PurposeDeposit, 0)
	require.NoError(t, err)
	k2, err := d2.Derive(PurposeDeposit, 0)
	require.NoError(t, err)

	assert.NotEqual(t, k1.EVMAddress(), k2.EVMAddress())
}

func TestDerive_ExhaustedKeyspace(t *testing.T) {
	d := testDeriver(t)

	_, err := d.Derive(PurposeDeposit, MaxIndex)
	require.NoError(t, err)

	_, err = d.Derive(PurposeDeposit, MaxIndex+1)
	assert.ErrorIs(t, err, ErrExhaustedKeyspace)

	_, err = d.Derive(PurposeDeposit, -1)
	assert.ErrorIs(t, err, ErrExhaustedKeyspace)
}

func TestNewDeriver_ShortSeed(t *testing.T) {
	_, err := NewDeriver(make([]byte, 16))
	assert.ErrorIs(t, err, ErrInvalidSeed)

	_, err = NewDeriverFromHex("zz")
	assert.Error(t, err)
}

func TestCoinAddress_Format(t *testing.T) {
	k, err := testDeriver(t).Derive(PurposeDeposit, 1)
	require.NoError(t, err)

	addr := k.CoinAddress(28)
	payload, version, err := base58.CheckDecode(addr)
	require.NoError(t, err)
	assert.Equal(t, byte(28), version)
	assert.Equal(t, Hash160(k.PublicKey()), payload)

	require.NoError(t, ValidateCoinAddress(addr, 28))
	assert.Error(t, ValidateCoinAddress(addr, 0))
	assert.Error(t, ValidateCoinAddress("not-a-coin-address"))
}

func TestHash160_KnownVector(t *testing.T) {
	// hash160 of the generator point's compressed encoding
	pub := []byte{
		0x02, 0x79, 0xbe, 0x66, 0x7e, 0xf9, 0xdc, 0xbb, 0xac, 0x55, 0xa0, 0x62, 0x95, 0xce, 0x87, 0x0b, 0x07,
		0x02, 0x9b, 0xfc, 0xdb, 0x2d, 0xce, 0x28, 0xd9, 0x59, 0xf2, 0x81, 0x5b, 0x16, 0xf8, 0x17, 0x98,
	}
	assert.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6", hex.EncodeToString(Hash160(pub)))
	assert.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", EncodeP2PKH(pub, 0))
}
