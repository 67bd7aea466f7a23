// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"errors"

	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	// CodecVersion is the current default codec version
	CodecVersion = 0
)

var (
	// Codec does serialization and deserialization for every wire and stored
	// object on the chain: transactions, blocks, and module records. The
	// registration order below is part of the wire format and must never be
	// reordered.
	Codec codec.Manager

	errWrongCodecVersion = errors.New("wrong codec version")
)

func init() {
	c := linearcodec.NewDefault()
	Codec = codec.NewDefaultManager()

	errs := wrappers.Errs{}
	errs.Add(
		c.RegisterType(&CreateCollectionTx{}),
		c.RegisterType(&MintTx{}),
		c.RegisterType(&TransferItemTx{}),
		c.RegisterType(&BurnItemTx{}),
		c.RegisterType(&CreateTokenTx{}),
		c.RegisterType(&TransferTokenTx{}),
		c.RegisterType(&LockLiquidityTx{}),
	)
	errs.Add(
		Codec.RegisterCodec(CodecVersion, c),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}
