// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package memechainvm

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
)

// StaticService serves chain-independent helpers: genesis construction and
// transaction encoding for external signers.
type StaticService struct{}

func CreateStaticService() *StaticService { return &StaticService{} }

type BuildGenesisArgs struct {
	Timestamp cjson.Uint64 `json:"timestamp"`
}

type BuildGenesisReply struct {
	// Bytes is the hex-encoded genesis block.
	Bytes string `json:"bytes"`
}

// BuildGenesis returns the genesis bytes to put in the chain's genesis
// config: an empty block at height zero.
func (*StaticService) BuildGenesis(_ *http.Request, args *BuildGenesisArgs, reply *BuildGenesisReply) error {
	b, err := BuildGenesisBytes(int64(args.Timestamp))
	if err != nil {
		return err
	}
	reply.Bytes, err = formatting.Encode(formatting.Hex, b)
	return err
}

type EncodeUnsignedTxArgs struct {
	// Op names the operation, e.g. "create_token" or "transfer_item".
	Op string `json:"op"`
	// Payload is the operation's JSON document.
	Payload json.RawMessage `json:"payload"`
}

type EncodeUnsignedTxReply struct {
	// Bytes is the hex-encoded canonical unsigned transaction. This is the
	// exact message an ed25519 signer must sign.
	Bytes string `json:"bytes"`
}

// EncodeUnsignedTx converts an operation's JSON form into the canonical
// bytes covered by the transaction signature.
func (*StaticService) EncodeUnsignedTx(_ *http.Request, args *EncodeUnsignedTxArgs, reply *EncodeUnsignedTxReply) error {
	utx, err := unsignedTxFor(args.Op)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(args.Payload, utx); err != nil {
		return fmt.Errorf("failed to parse %s payload: %w", args.Op, err)
	}
	b, err := types.Codec.Marshal(types.CodecVersion, &utx)
	if err != nil {
		return err
	}
	reply.Bytes, err = formatting.Encode(formatting.Hex, b)
	return err
}

type EncodeTxArgs struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
	// PublicKey is the hex-encoded ed25519 public key of the signer.
	PublicKey string `json:"publicKey"`
	// Signature is the hex-encoded ed25519 signature over the unsigned bytes.
	Signature string `json:"signature"`
}

type EncodeTxReply struct {
	// Bytes is the hex-encoded signed transaction, ready for proposeTx.
	Bytes string `json:"bytes"`
	TxID  ids.ID `json:"txID"`
}

// EncodeTx assembles a full signed transaction from an operation payload and
// an externally produced signature.
func (*StaticService) EncodeTx(_ *http.Request, args *EncodeTxArgs, reply *EncodeTxReply) error {
	utx, err := unsignedTxFor(args.Op)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(args.Payload, utx); err != nil {
		return fmt.Errorf("failed to parse %s payload: %w", args.Op, err)
	}

	tx := &types.Transaction{Unsigned: utx}
	publicKey, err := formatting.Decode(formatting.Hex, args.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to decode public key: %w", err)
	}
	signature, err := formatting.Decode(formatting.Hex, args.Signature)
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}
	if len(publicKey) != len(tx.PublicKey) {
		return fmt.Errorf("public key must be %d bytes, got %d", len(tx.PublicKey), len(publicKey))
	}
	if len(signature) != len(tx.Signature) {
		return fmt.Errorf("signature must be %d bytes, got %d", len(tx.Signature), len(signature))
	}
	copy(tx.PublicKey[:], publicKey)
	copy(tx.Signature[:], signature)

	if err := tx.VerifySignature(); err != nil {
		return err
	}
	b, err := tx.Bytes()
	if err != nil {
		return err
	}
	txID, err := tx.ID()
	if err != nil {
		return err
	}
	reply.TxID = txID
	reply.Bytes, err = formatting.Encode(formatting.Hex, b)
	return err
}

func unsignedTxFor(op string) (types.UnsignedTx, error) {
	switch op {
	case "create_collection":
		return &types.CreateCollectionTx{}, nil
	case "mint":
		return &types.MintTx{}, nil
	case "transfer_item":
		return &types.TransferItemTx{}, nil
	case "burn_item":
		return &types.BurnItemTx{}, nil
	case "create_token":
		return &types.CreateTokenTx{}, nil
	case "transfer_token":
		return &types.TransferTokenTx{}, nil
	case "lock_liquidity":
		return &types.LockLiquidityTx{}, nil
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}
