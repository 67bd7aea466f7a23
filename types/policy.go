// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "math/bits"

// AntiRugPolicy is the bundle of tax, lock, and concentration parameters
// attached to a fungible token at creation. The numeric bounds are immutable
// after creation except [LockStartHeight] and [LockedPercentage], which
// transition exactly once from zero when liquidity is locked.
type AntiRugPolicy struct {
	// MaxWalletPercentage caps any single wallet at this share of total
	// supply. Zero disables the cap.
	MaxWalletPercentage uint8 `serialize:"true" json:"maxWalletPercentage"`
	// BuyTaxPercentage is charged when the sender is the token's liquidity
	// pool account.
	BuyTaxPercentage uint8 `serialize:"true" json:"buyTaxPercentage"`
	// SellTaxPercentage is charged on every other transfer.
	SellTaxPercentage uint8 `serialize:"true" json:"sellTaxPercentage"`
	// LiquidityLockedPercentage is the ceiling a lock_liquidity operation may
	// request.
	LiquidityLockedPercentage uint8 `serialize:"true" json:"liquidityLockedPercentage"`
	// LockDurationBlocks is the lock window length in block heights.
	LockDurationBlocks uint64 `serialize:"true" json:"lockDurationBlocks"`

	// LockStartHeight is the height at which liquidity was locked.
	// Zero means no lock has been set.
	LockStartHeight uint64 `serialize:"true" json:"lockStartHeight"`
	// LockedPercentage is the share of total supply locked. Zero until a
	// lock event.
	LockedPercentage uint8 `serialize:"true" json:"lockedPercentage"`
}

// percentOf returns amount * pct / 100 without intermediate overflow.
// The result always fits in a uint64 for pct <= 100.
func percentOf(amount uint64, pct uint8) uint64 {
	hi, lo := bits.Mul64(amount, uint64(pct))
	q, _ := bits.Div64(hi, lo, 100)
	return q
}

// BuyTax returns the tax withheld when [amount] is acquired from the pool.
func (p *AntiRugPolicy) BuyTax(amount uint64) uint64 {
	return percentOf(amount, p.BuyTaxPercentage)
}

// SellTax returns the tax withheld on an ordinary transfer of [amount].
func (p *AntiRugPolicy) SellTax(amount uint64) uint64 {
	return percentOf(amount, p.SellTaxPercentage)
}

// MaxWalletAmount returns the largest balance a wallet may hold, given
// [totalSupply]. Returns totalSupply when the cap is disabled.
func (p *AntiRugPolicy) MaxWalletAmount(totalSupply uint64) uint64 {
	if p.MaxWalletPercentage == 0 {
		return totalSupply
	}
	return percentOf(totalSupply, p.MaxWalletPercentage)
}

// LockedAmount returns the non-transferable allocation while the lock is
// active.
func (p *AntiRugPolicy) LockedAmount(totalSupply uint64) uint64 {
	return percentOf(totalSupply, p.LockedPercentage)
}

// LockActive reports whether the liquidity lock is in force at [height].
func (p *AntiRugPolicy) LockActive(height uint64) bool {
	return p.LockStartHeight != 0 && height < p.LockStartHeight+p.LockDurationBlocks
}
