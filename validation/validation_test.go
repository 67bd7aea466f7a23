// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package validation

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressRoundTrip(t *testing.T) {
	assert := assert.New(t)

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	assert.NoError(err)

	addr, err := AddressFromPublicKey(pub)
	assert.NoError(err)
	assert.Contains(addr, HRP+"1")
	assert.NoError(ValidateAddress(addr))
}

func TestValidateAddressRejects(t *testing.T) {
	assert := assert.New(t)

	assert.Error(ValidateAddress(""))
	assert.Error(ValidateAddress("notbech32"))
	// valid bech32, wrong HRP
	assert.Error(ValidateAddress("avax1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqklv0qy"))
	// corrupted checksum
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	assert.NoError(err)
	addr, err := AddressFromPublicKey(pub)
	assert.NoError(err)
	assert.Error(ValidateAddress(addr[:len(addr)-1] + "x"))
}

func TestAddressFromPublicKeyLen(t *testing.T) {
	_, err := AddressFromPublicKey([]byte{1, 2, 3})
	assert.ErrorIs(t, err, errBadPublicKeyLen)
}

func TestVerifySignature(t *testing.T) {
	assert := assert.New(t)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	assert.NoError(err)

	msg := []byte("transfer 100 MEME")
	sig := ed25519.Sign(priv, msg)

	assert.True(VerifySignature(msg, sig, pub))
	assert.False(VerifySignature([]byte("transfer 101 MEME"), sig, pub))
	assert.False(VerifySignature(msg, sig[:10], pub))
	assert.False(VerifySignature(msg, sig, pub[:10]))
}

func TestParseAmount(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		in       string
		decimals uint8
		want     uint64
	}{
		{"1.234567", 6, 1234567},
		{"1", 6, 1000000},
		{"0.123456", 6, 123456},
		{"0.5", 2, 50},
		{"42", 0, 42},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in, tt.decimals)
		assert.NoError(err, tt.in)
		assert.Equal(tt.want, got, tt.in)
	}

	_, err := ParseAmount("1.2345678", 6)
	assert.ErrorIs(err, errTooManyDecimals)
	_, err = ParseAmount("invalid", 6)
	assert.Error(err)
	_, err = ParseAmount("", 6)
	assert.Error(err)
	_, err = ParseAmount("1.", 6)
	assert.Error(err)
	_, err = ParseAmount("99999999999999999999", 6)
	assert.Error(err)
}

func TestFormatAmount(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("1.234567", FormatAmount(1234567, 6))
	assert.Equal("1", FormatAmount(1000000, 6))
	assert.Equal("0.123456", FormatAmount(123456, 6))
	assert.Equal("42", FormatAmount(42, 0))
}

func TestValidateTimestamp(t *testing.T) {
	assert := assert.New(t)

	now := int64(1_700_000_000)
	assert.NoError(ValidateTimestamp(now, now, 600, 60))
	assert.NoError(ValidateTimestamp(now-600, now, 600, 60))
	assert.ErrorIs(ValidateTimestamp(now-601, now, 600, 60), errStaleTimestamp)
	assert.ErrorIs(ValidateTimestamp(now+61, now, 600, 60), errFutureTimestamp)
}
