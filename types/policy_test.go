// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyTaxMath(t *testing.T) {
	assert := assert.New(t)

	p := &AntiRugPolicy{BuyTaxPercentage: 10, SellTaxPercentage: 5}
	assert.Equal(uint64(10), p.SellTax(200))
	assert.Equal(uint64(20), p.BuyTax(200))
	assert.Zero(p.SellTax(0))

	// Truncation, never rounding up.
	assert.Equal(uint64(0), p.SellTax(19))
	assert.Equal(uint64(1), p.SellTax(20))

	// No intermediate overflow at the top of the range.
	full := &AntiRugPolicy{SellTaxPercentage: 100}
	assert.Equal(uint64(math.MaxUint64), full.SellTax(math.MaxUint64))
}

func TestPolicyMaxWallet(t *testing.T) {
	assert := assert.New(t)

	p := &AntiRugPolicy{MaxWalletPercentage: 10}
	assert.Equal(uint64(100), p.MaxWalletAmount(1000))

	// Zero disables the cap.
	disabled := &AntiRugPolicy{}
	assert.Equal(uint64(1000), disabled.MaxWalletAmount(1000))
}

func TestPolicyLockWindow(t *testing.T) {
	assert := assert.New(t)

	unlocked := &AntiRugPolicy{}
	assert.False(unlocked.LockActive(0))
	assert.False(unlocked.LockActive(100))

	p := &AntiRugPolicy{
		LockStartHeight:    10,
		LockDurationBlocks: 100,
		LockedPercentage:   50,
	}
	assert.True(p.LockActive(10))
	assert.True(p.LockActive(109))
	assert.False(p.LockActive(110))
	assert.Equal(uint64(500), p.LockedAmount(1000))
}
