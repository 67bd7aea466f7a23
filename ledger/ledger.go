// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger is the fungible token module. Every token carries an
// anti-rug policy enforced here on each transfer: tax withheld to the chain
// treasury, a max-wallet concentration cap, and a one-shot liquidity lock on
// the creator's allocation. Operations validate fully before mutating, so a
// rejected transfer leaves every balance untouched.
package ledger

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/utils/formatting/address"
	"github.com/ava-labs/avalanchego/utils/hashing"

	safemath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/storage"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/validation"
)

const maxSymbolLen = 10

var (
	// Key prefixes owned by this module.
	tokenPrefix   = []byte("token")
	balancePrefix = []byte("balance")

	// treasurySeed derives the chain-wide treasury address. No key exists for
	// it, so withheld tax can never be spent by anyone.
	treasurySeed = []byte("memechain/treasury/v1")

	// TreasuryAddress receives all withheld tax.
	TreasuryAddress string
)

func init() {
	addr, err := address.FormatBech32(validation.HRP, hashing.PubkeyBytesToAddress(treasurySeed))
	if err != nil {
		panic(err)
	}
	TreasuryAddress = addr
}

// Token is a registered fungible token. Everything except the lock fields of
// [Policy] is immutable after create_token.
type Token struct {
	Symbol      string              `serialize:"true" json:"symbol"`
	Name        string              `serialize:"true" json:"name"`
	TotalSupply uint64              `serialize:"true" json:"totalSupply"`
	Decimals    uint8               `serialize:"true" json:"decimals"`
	Creator     string              `serialize:"true" json:"creator"`
	PoolAddress string              `serialize:"true" json:"poolAddress"`
	Policy      types.AntiRugPolicy `serialize:"true" json:"policy"`
}

// TransferReceipt reports what a transfer actually moved, for event emission.
type TransferReceipt struct {
	Symbol string
	From   string
	To     string
	Amount uint64
	Tax    uint64
	Net    uint64
	Buy    bool
}

// Ledger executes fungible token operations against one database view.
type Ledger struct {
	tokens     database.Database
	balances   database.Database
	taxCeiling uint8
}

// New returns a Ledger over [db]. [taxCeiling] bounds the combined buy and
// sell tax a token may declare at creation.
func New(db database.Database, taxCeiling uint8) *Ledger {
	return &Ledger{
		tokens:     prefixdb.New(tokenPrefix, db),
		balances:   prefixdb.New(balancePrefix, db),
		taxCeiling: taxCeiling,
	}
}

// CreateToken registers a token and credits its entire supply to the sender.
// The anti-rug policy is fixed here for the token's lifetime.
func (l *Ledger) CreateToken(sender string, tx *types.CreateTokenTx) (*Token, error) {
	if err := validateSymbol(tx.Symbol); err != nil {
		return nil, err
	}
	has, err := l.tokens.Has([]byte(tx.Symbol))
	if err != nil {
		return nil, err
	}
	if has {
		return nil, fmt.Errorf("%w: %s", types.ErrSymbolTaken, tx.Symbol)
	}
	if tx.Supply == 0 {
		return nil, fmt.Errorf("%w: supply must be positive", types.ErrInvalidSupply)
	}
	if tx.Decimals > validation.MaxDecimals {
		return nil, fmt.Errorf("%w: at most %d decimals", types.ErrInvalidSupply, validation.MaxDecimals)
	}
	if err := validatePolicy(&tx.Policy, l.taxCeiling); err != nil {
		return nil, err
	}
	if tx.PoolAddress != "" {
		if err := validation.ValidateAddress(tx.PoolAddress); err != nil {
			return nil, fmt.Errorf("%w: pool: %s", types.ErrInvalidAddress, err)
		}
	}

	token := &Token{
		Symbol:      tx.Symbol,
		Name:        tx.Name,
		TotalSupply: tx.Supply,
		Decimals:    tx.Decimals,
		Creator:     sender,
		PoolAddress: tx.PoolAddress,
		Policy:      tx.Policy,
	}
	if err := l.putToken(token); err != nil {
		return nil, err
	}
	return token, l.setBalance(token.Symbol, sender, tx.Supply)
}

// Transfer moves [tx.Amount] gross from the sender to [tx.To]. Tax is
// withheld to the treasury; the recipient is credited with the net. The
// sender pays the buy tax when it is the token's pool account, otherwise the
// sell tax.
func (l *Ledger) Transfer(height uint64, sender string, tx *types.TransferTokenTx) (*TransferReceipt, error) {
	token, err := l.GetToken(tx.Symbol)
	if err != nil {
		return nil, err
	}
	if tx.Amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", types.ErrInvalidAmount)
	}
	if err := validation.ValidateAddress(tx.To); err != nil {
		return nil, fmt.Errorf("%w: recipient: %s", types.ErrInvalidAddress, err)
	}

	fromBalance, err := l.Balance(tx.Symbol, sender)
	if err != nil {
		return nil, err
	}
	if fromBalance < tx.Amount {
		return nil, fmt.Errorf("%w: have %d, want %d", types.ErrInsufficientBalance, fromBalance, tx.Amount)
	}

	// While the liquidity lock is in force, the creator's balance may not dip
	// below the locked allocation.
	if sender == token.Creator && token.Policy.LockActive(height) {
		if fromBalance-tx.Amount < token.Policy.LockedAmount(token.TotalSupply) {
			return nil, fmt.Errorf("%w: until height %d", types.ErrLiquidityLocked,
				token.Policy.LockStartHeight+token.Policy.LockDurationBlocks)
		}
	}

	buy := token.PoolAddress != "" && sender == token.PoolAddress
	var tax uint64
	if buy {
		tax = token.Policy.BuyTax(tx.Amount)
	} else {
		tax = token.Policy.SellTax(tx.Amount)
	}
	net := tx.Amount - tax

	// Max-wallet caps the recipient's post-transfer balance. Treasury and the
	// pool are exempt so tax routing and pool funding always succeed.
	if tx.To != TreasuryAddress && tx.To != token.PoolAddress {
		toBalance, err := l.Balance(tx.Symbol, tx.To)
		if err != nil {
			return nil, err
		}
		if tx.To == sender {
			toBalance = fromBalance - tx.Amount
		}
		projected, err := safemath.Add64(toBalance, net)
		if err != nil {
			return nil, fmt.Errorf("%w: balance overflow", types.ErrInvalidAmount)
		}
		if projected > token.Policy.MaxWalletAmount(token.TotalSupply) {
			return nil, fmt.Errorf("%w: %d exceeds cap of %d", types.ErrWalletLimitExceeded,
				projected, token.Policy.MaxWalletAmount(token.TotalSupply))
		}
	}

	// Validation is complete; mutate sequentially. Credits read the balance
	// back so a self-transfer observes its own debit.
	if err := l.setBalance(tx.Symbol, sender, fromBalance-tx.Amount); err != nil {
		return nil, err
	}
	if err := l.credit(tx.Symbol, tx.To, net); err != nil {
		return nil, err
	}
	if tax > 0 {
		if err := l.credit(tx.Symbol, TreasuryAddress, tax); err != nil {
			return nil, err
		}
	}

	return &TransferReceipt{
		Symbol: tx.Symbol,
		From:   sender,
		To:     tx.To,
		Amount: tx.Amount,
		Tax:    tax,
		Net:    net,
		Buy:    buy,
	}, nil
}

// LockLiquidity starts the one-shot liquidity lock: [tx.Percentage] of total
// supply becomes non-transferable out of the creator's balance for
// [tx.DurationBlocks] blocks starting at [height]. Creator-only, and only
// once per token.
func (l *Ledger) LockLiquidity(height uint64, sender string, tx *types.LockLiquidityTx) (*Token, error) {
	token, err := l.GetToken(tx.Symbol)
	if err != nil {
		return nil, err
	}
	if sender != token.Creator {
		return nil, fmt.Errorf("%w: only the token creator may lock liquidity", types.ErrUnauthorized)
	}
	if token.Policy.LockStartHeight != 0 {
		return nil, fmt.Errorf("%w: since height %d", types.ErrAlreadyLocked, token.Policy.LockStartHeight)
	}
	if tx.Percentage == 0 || tx.Percentage > token.Policy.LiquidityLockedPercentage {
		return nil, fmt.Errorf("%w: must be in 1-%d", types.ErrInvalidPercentage,
			token.Policy.LiquidityLockedPercentage)
	}
	if tx.DurationBlocks == 0 {
		return nil, fmt.Errorf("%w: lock duration must be positive", types.ErrInvalidPercentage)
	}

	// The lock binds the creator's balance, so it must cover the allocation
	// at lock time.
	token.Policy.LockedPercentage = tx.Percentage
	locked := token.Policy.LockedAmount(token.TotalSupply)
	balance, err := l.Balance(tx.Symbol, sender)
	if err != nil {
		return nil, err
	}
	if balance < locked {
		return nil, fmt.Errorf("%w: have %d, lock needs %d", types.ErrInsufficientBalance, balance, locked)
	}

	token.Policy.LockStartHeight = height
	token.Policy.LockDurationBlocks = tx.DurationBlocks
	return token, l.putToken(token)
}

// GetToken fetches a token by symbol.
func (l *Ledger) GetToken(symbol string) (*Token, error) {
	b, err := l.tokens.Get([]byte(symbol))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownToken, symbol)
	}
	if err != nil {
		return nil, err
	}
	token := &Token{}
	if _, err := types.Codec.Unmarshal(b, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Tokens lists every registered token in symbol order.
func (l *Ledger) Tokens() ([]*Token, error) {
	it := l.tokens.NewIterator()
	defer it.Release()

	tokens := []*Token(nil)
	for it.Next() {
		token := &Token{}
		if _, err := types.Codec.Unmarshal(it.Value(), token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, it.Error()
}

// Balance returns [addr]'s balance of [symbol]. Missing entries read as zero.
func (l *Ledger) Balance(symbol, addr string) (uint64, error) {
	b, err := l.balances.Get(balanceKey(symbol, addr))
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return storage.UnpackUint64(b)
}

// SumBalances totals every balance of [symbol], the treasury included.
// Always equals the token's total supply.
func (l *Ledger) SumBalances(symbol string) (uint64, error) {
	it := l.balances.NewIteratorWithPrefix(append([]byte(symbol), 0x00))
	defer it.Release()

	var sum uint64
	for it.Next() {
		n, err := storage.UnpackUint64(it.Value())
		if err != nil {
			return 0, err
		}
		sum, err = safemath.Add64(sum, n)
		if err != nil {
			return 0, err
		}
	}
	return sum, it.Error()
}

func (l *Ledger) credit(symbol, addr string, amount uint64) error {
	balance, err := l.Balance(symbol, addr)
	if err != nil {
		return err
	}
	balance, err = safemath.Add64(balance, amount)
	if err != nil {
		return err
	}
	return l.setBalance(symbol, addr, balance)
}

func (l *Ledger) setBalance(symbol, addr string, amount uint64) error {
	key := balanceKey(symbol, addr)
	if amount == 0 {
		return l.balances.Delete(key)
	}
	return l.balances.Put(key, storage.PackUint64(amount))
}

func (l *Ledger) putToken(token *Token) error {
	b, err := types.Codec.Marshal(types.CodecVersion, token)
	if err != nil {
		return err
	}
	return l.tokens.Put([]byte(token.Symbol), b)
}

// balanceKey is symbol || 0x00 || address. Symbols are uppercase alphanumeric
// so the separator is unambiguous.
func balanceKey(symbol, addr string) []byte {
	key := make([]byte, 0, len(symbol)+1+len(addr))
	key = append(key, symbol...)
	key = append(key, 0x00)
	return append(key, addr...)
}

func validateSymbol(symbol string) error {
	if len(symbol) == 0 || len(symbol) > maxSymbolLen {
		return fmt.Errorf("%w: must be 1-%d characters", types.ErrInvalidSymbol, maxSymbolLen)
	}
	for _, c := range symbol {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return fmt.Errorf("%w: %q", types.ErrInvalidSymbol, symbol)
		}
	}
	return nil
}

func validatePolicy(p *types.AntiRugPolicy, taxCeiling uint8) error {
	for _, pct := range []uint8{
		p.MaxWalletPercentage,
		p.BuyTaxPercentage,
		p.SellTaxPercentage,
		p.LiquidityLockedPercentage,
	} {
		if pct > 100 {
			return fmt.Errorf("%w: percentage %d out of range", types.ErrInvalidPolicy, pct)
		}
	}
	if p.BuyTaxPercentage+p.SellTaxPercentage > taxCeiling {
		return fmt.Errorf("%w: combined tax exceeds ceiling of %d%%", types.ErrInvalidPolicy, taxCeiling)
	}
	// Lock state is written by lock_liquidity, never declared at creation.
	if p.LockStartHeight != 0 || p.LockedPercentage != 0 {
		return fmt.Errorf("%w: lock fields must be zero at creation", types.ErrInvalidPolicy)
	}
	return nil
}
