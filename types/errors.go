// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "errors"

// ErrorCode is the stable, replica-independent code surfaced to the
// consensus and API boundaries for a rejected transaction.
type ErrorCode string

const (
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeNotOwner            ErrorCode = "NOT_OWNER"
	CodeItemBurned          ErrorCode = "ITEM_BURNED"
	CodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	CodeWalletLimitExceeded ErrorCode = "WALLET_LIMIT_EXCEEDED"
	CodeLiquidityLocked     ErrorCode = "LIQUIDITY_LOCKED"
	CodeInvalidMetadata     ErrorCode = "INVALID_METADATA"
	CodeInvalidPolicy       ErrorCode = "INVALID_POLICY"
	CodeInvalidSupply       ErrorCode = "INVALID_SUPPLY"
	CodeInvalidPercentage   ErrorCode = "INVALID_PERCENTAGE"
	CodeUnknownToken        ErrorCode = "UNKNOWN_TOKEN"
	CodeUnknownCollection   ErrorCode = "UNKNOWN_COLLECTION"
	CodeUnknownItem         ErrorCode = "UNKNOWN_ITEM"
	CodeSymbolTaken         ErrorCode = "SYMBOL_TAKEN"
	CodeAlreadyLocked       ErrorCode = "ALREADY_LOCKED"
	CodeInvalidSymbol       ErrorCode = "INVALID_SYMBOL"
	CodeInvalidSignature    ErrorCode = "INVALID_SIGNATURE"
	CodeInvalidAddress      ErrorCode = "INVALID_ADDRESS"
	CodeInvalidAmount       ErrorCode = "INVALID_AMOUNT"
)

// Rejection errors. All are recoverable at transaction granularity: the
// offending transaction is marked rejected and the block continues. Any
// error that is not in this taxonomy is treated as fatal by the dispatcher.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotOwner            = errors.New("not the current owner")
	ErrItemBurned          = errors.New("item is burned")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWalletLimitExceeded = errors.New("transfer exceeds max wallet limit")
	ErrLiquidityLocked     = errors.New("liquidity is locked")
	ErrInvalidMetadata     = errors.New("invalid metadata")
	ErrInvalidPolicy       = errors.New("invalid anti-rug policy")
	ErrInvalidSupply       = errors.New("invalid supply")
	ErrInvalidPercentage   = errors.New("invalid percentage")
	ErrUnknownToken        = errors.New("unknown token")
	ErrUnknownCollection   = errors.New("unknown collection")
	ErrUnknownItem         = errors.New("unknown item")
	ErrSymbolTaken         = errors.New("symbol already taken")
	ErrAlreadyLocked       = errors.New("liquidity lock already set")
	ErrInvalidSymbol       = errors.New("invalid token symbol")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// rejections maps sentinel errors to their codes. A slice keeps the lookup
// order deterministic, though the sentinels are disjoint anyway.
var rejections = []struct {
	err  error
	code ErrorCode
}{
	{ErrUnauthorized, CodeUnauthorized},
	{ErrNotOwner, CodeNotOwner},
	{ErrItemBurned, CodeItemBurned},
	{ErrInsufficientBalance, CodeInsufficientBalance},
	{ErrWalletLimitExceeded, CodeWalletLimitExceeded},
	{ErrLiquidityLocked, CodeLiquidityLocked},
	{ErrInvalidMetadata, CodeInvalidMetadata},
	{ErrInvalidPolicy, CodeInvalidPolicy},
	{ErrInvalidSupply, CodeInvalidSupply},
	{ErrInvalidPercentage, CodeInvalidPercentage},
	{ErrUnknownToken, CodeUnknownToken},
	{ErrUnknownCollection, CodeUnknownCollection},
	{ErrUnknownItem, CodeUnknownItem},
	{ErrSymbolTaken, CodeSymbolTaken},
	{ErrAlreadyLocked, CodeAlreadyLocked},
	{ErrInvalidSymbol, CodeInvalidSymbol},
	{ErrInvalidSignature, CodeInvalidSignature},
	{ErrInvalidAddress, CodeInvalidAddress},
	{ErrInvalidAmount, CodeInvalidAmount},
}

// CodeOf returns the rejection code for [err]. The second return value is
// false if [err] is not a rejection error, i.e. it must be treated as fatal.
func CodeOf(err error) (ErrorCode, bool) {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.code, true
		}
	}
	return "", false
}
