// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"crypto/ed25519"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/validation"
)

// Module names used to route transactions.
const (
	ModuleRegistry = "registry"
	ModuleLedger   = "ledger"
)

// UnsignedTx is the closed set of operations the dispatcher routes. The set
// is fixed at compile time; each variant names the module that executes it.
type UnsignedTx interface {
	// Module returns the name of the module owning this operation.
	Module() string
	// Op returns the operation tag, used in logs and API payloads.
	Op() string
}

// Transaction is a signed operation. [Signature] is an ed25519 signature by
// [PublicKey] over the canonical codec encoding of [Unsigned]; the sender
// address is derived from [PublicKey], so an operation can only ever act on
// behalf of the key that signed it.
type Transaction struct {
	Unsigned  UnsignedTx                  `serialize:"true" json:"unsigned"`
	PublicKey [ed25519.PublicKeySize]byte `serialize:"true" json:"publicKey"`
	Signature [ed25519.SignatureSize]byte `serialize:"true" json:"signature"`
}

// UnsignedBytes returns the canonical encoding the signature covers.
func (tx *Transaction) UnsignedBytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, &tx.Unsigned)
}

// Bytes returns the canonical encoding of the full signed transaction.
func (tx *Transaction) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, tx)
}

// ID is the hash of the signed transaction bytes.
func (tx *Transaction) ID() (ids.ID, error) {
	b, err := tx.Bytes()
	if err != nil {
		return ids.Empty, err
	}
	return hashing.ComputeHash256Array(b), nil
}

// Sign fills in [PublicKey] and [Signature] using [key].
func (tx *Transaction) Sign(key ed25519.PrivateKey) error {
	unsignedBytes, err := tx.UnsignedBytes()
	if err != nil {
		return fmt.Errorf("couldn't marshal unsigned tx: %w", err)
	}
	copy(tx.PublicKey[:], key.Public().(ed25519.PublicKey))
	copy(tx.Signature[:], ed25519.Sign(key, unsignedBytes))
	return nil
}

// VerifySignature checks the transaction signature. It is stateless and
// mandatory before dispatch.
func (tx *Transaction) VerifySignature() error {
	unsignedBytes, err := tx.UnsignedBytes()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	if !validation.VerifySignature(unsignedBytes, tx.Signature[:], tx.PublicKey[:]) {
		return ErrInvalidSignature
	}
	return nil
}

// Sender returns the bech32 address derived from the signer's public key.
func (tx *Transaction) Sender() (string, error) {
	addr, err := validation.AddressFromPublicKey(tx.PublicKey[:])
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	return addr, nil
}

// ParseTransaction decodes a signed transaction from its canonical bytes.
func ParseTransaction(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	version, err := Codec.Unmarshal(b, tx)
	if err != nil {
		return nil, err
	}
	if version != CodecVersion {
		return nil, errWrongCodecVersion
	}
	return tx, nil
}

// CreateCollectionTx registers a new NFT collection owned by the sender.
type CreateCollectionTx struct {
	Name        string `serialize:"true" json:"name"`
	Description string `serialize:"true" json:"description"`
	// Metadata is an arbitrary JSON document, bounded by the chain's
	// configured metadata size.
	Metadata []byte `serialize:"true" json:"metadata"`
}

func (*CreateCollectionTx) Module() string { return ModuleRegistry }
func (*CreateCollectionTx) Op() string     { return "create_collection" }

// MintTx mints a new item in an existing collection. Only the collection
// creator may mint.
type MintTx struct {
	CollectionID uint64 `serialize:"true" json:"collectionID"`
	Recipient    string `serialize:"true" json:"recipient"`
	Metadata     []byte `serialize:"true" json:"metadata"`
}

func (*MintTx) Module() string { return ModuleRegistry }
func (*MintTx) Op() string     { return "mint" }

// TransferItemTx reassigns ownership of an item from the sender to [To].
type TransferItemTx struct {
	CollectionID uint64 `serialize:"true" json:"collectionID"`
	ItemID       uint64 `serialize:"true" json:"itemID"`
	To           string `serialize:"true" json:"to"`
}

func (*TransferItemTx) Module() string { return ModuleRegistry }
func (*TransferItemTx) Op() string     { return "transfer_item" }

// BurnItemTx tombstones an item owned by the sender. Terminal: the item keeps
// its id forever and can never be transferred or re-minted.
type BurnItemTx struct {
	CollectionID uint64 `serialize:"true" json:"collectionID"`
	ItemID       uint64 `serialize:"true" json:"itemID"`
}

func (*BurnItemTx) Module() string { return ModuleRegistry }
func (*BurnItemTx) Op() string     { return "burn_item" }

// CreateTokenTx creates a fungible token with an embedded anti-rug policy and
// credits the full initial supply to the sender.
type CreateTokenTx struct {
	Name     string        `serialize:"true" json:"name"`
	Symbol   string        `serialize:"true" json:"symbol"`
	Supply   uint64        `serialize:"true" json:"supply"`
	Decimals uint8         `serialize:"true" json:"decimals"`
	Policy   AntiRugPolicy `serialize:"true" json:"policy"`
	// PoolAddress optionally designates a liquidity pool account. Transfers
	// whose sender is the pool pay the buy tax instead of the sell tax.
	// Empty means no pool: the sell tax governs every transfer.
	PoolAddress string `serialize:"true" json:"poolAddress"`
}

func (*CreateTokenTx) Module() string { return ModuleLedger }
func (*CreateTokenTx) Op() string     { return "create_token" }

// TransferTokenTx moves [Amount] (gross) from the sender to [To], with tax
// withheld to the treasury per the token's policy.
type TransferTokenTx struct {
	Symbol string `serialize:"true" json:"symbol"`
	To     string `serialize:"true" json:"to"`
	Amount uint64 `serialize:"true" json:"amount"`
}

func (*TransferTokenTx) Module() string { return ModuleLedger }
func (*TransferTokenTx) Op() string     { return "transfer_token" }

// LockLiquidityTx starts the one-shot liquidity lock for a token the sender
// created.
type LockLiquidityTx struct {
	Symbol         string `serialize:"true" json:"symbol"`
	Percentage     uint8  `serialize:"true" json:"percentage"`
	DurationBlocks uint64 `serialize:"true" json:"durationBlocks"`
}

func (*LockLiquidityTx) Module() string { return ModuleLedger }
func (*LockLiquidityTx) Op() string     { return "lock_liquidity" }
