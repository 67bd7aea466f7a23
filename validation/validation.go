// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validation holds the stateless checks shared by every module:
// address format, signature verification, and amount normalization. Nothing
// here touches state; every function is safe for concurrent use.
package validation

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/utils/formatting/address"
	"github.com/ava-labs/avalanchego/utils/hashing"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

const (
	// HRP is the bech32 human-readable part of every chain address.
	HRP = "meme"

	// AddressByteLen is the length of the ripemd160(sha256(pubkey)) payload.
	AddressByteLen = 20

	// MaxDecimals bounds token precision so 10^decimals fits a uint64 with
	// headroom for supplies.
	MaxDecimals = 18
)

var (
	errBadPublicKeyLen = errors.New("wrong public key length")
	errBadAddressLen   = errors.New("wrong address payload length")
	errBadHRP          = errors.New("wrong address prefix")
	errBadAmount       = errors.New("invalid amount string")
	errTooManyDecimals = errors.New("too many decimal places")
	errAmountOverflow  = errors.New("amount overflows uint64")
	errBadDecimals     = errors.New("unsupported decimal precision")
	errStaleTimestamp  = errors.New("timestamp too old")
	errFutureTimestamp = errors.New("timestamp too far in the future")
)

// AddressFromPublicKey derives the canonical bech32 address of an ed25519
// public key.
func AddressFromPublicKey(pub []byte) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", errBadPublicKeyLen
	}
	return address.FormatBech32(HRP, hashing.PubkeyBytesToAddress(pub))
}

// ValidateAddress checks the checksummed, human-readable address format.
func ValidateAddress(addr string) error {
	hrp, payload, err := address.ParseBech32(addr)
	if err != nil {
		return err
	}
	if hrp != HRP {
		return fmt.Errorf("%w: want %q, got %q", errBadHRP, HRP, hrp)
	}
	if len(payload) != AddressByteLen {
		return fmt.Errorf("%w: %d", errBadAddressLen, len(payload))
	}
	return nil
}

// VerifySignature reports whether [sig] is a valid ed25519 signature of
// [msg] by [pub]. Malformed inputs verify as false rather than erroring so
// callers have a single rejection path.
func VerifySignature(msg, sig, pub []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}

// ParseAmount normalizes a decimal string like "1.25" into base units at the
// given precision. Rejects malformed strings, excess decimal places, and
// values that overflow uint64.
func ParseAmount(s string, decimals uint8) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, errBadDecimals
	}
	if s == "" {
		return 0, errBadAmount
	}

	wholeStr, fracStr, hasFrac := strings.Cut(s, ".")
	if wholeStr == "" || (hasFrac && fracStr == "") {
		return 0, errBadAmount
	}

	whole, err := strconv.ParseUint(wholeStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errBadAmount, s)
	}

	scale := pow10(decimals)
	units, err := safemath.Mul64(whole, scale)
	if err != nil {
		return 0, errAmountOverflow
	}
	if !hasFrac {
		return units, nil
	}

	if uint8(len(fracStr)) > decimals {
		return 0, errTooManyDecimals
	}
	frac, err := strconv.ParseUint(fracStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errBadAmount, s)
	}
	frac *= pow10(decimals - uint8(len(fracStr)))

	return safemath.Add64(units, frac)
}

// FormatAmount renders base units back into a decimal string. Inverse of
// ParseAmount up to trailing zeros.
func FormatAmount(amount uint64, decimals uint8) string {
	if decimals == 0 || decimals > MaxDecimals {
		return strconv.FormatUint(amount, 10)
	}
	scale := pow10(decimals)
	whole := amount / scale
	frac := amount % scale
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	return fmt.Sprintf("%d.%0*d", whole, decimals, frac)
}

// ValidateTimestamp rejects timestamps outside [now-maxAge, now+maxSkew].
func ValidateTimestamp(ts, now, maxAge, maxSkew int64) error {
	if ts < now-maxAge {
		return errStaleTimestamp
	}
	if ts > now+maxSkew {
		return errFutureTimestamp
	}
	return nil
}

func pow10(n uint8) uint64 {
	p := uint64(1)
	for i := uint8(0); i < n; i++ {
		p *= 10
	}
	return p
}
