// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package memechainvm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/snow/choices"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
)

// BuildGenesisBytes returns the canonical bytes of a genesis block: height
// zero, no parent, no transactions.
func BuildGenesisBytes(timestamp int64) ([]byte, error) {
	blk := &Block{
		PrntID: ids.Empty,
		Hght:   0,
		Tmstmp: timestamp,
	}
	return types.Codec.Marshal(types.CodecVersion, blk)
}

// initGenesis parses and accepts the genesis block on first boot. On
// subsequent boots it only checks that [genesisBytes] matches the block
// already on disk.
func (vm *VM) initGenesis(genesisBytes []byte) error {
	blkIntf, err := vm.ParseBlock(context.Background(), genesisBytes)
	if err != nil {
		return fmt.Errorf("failed to parse genesis block: %w", err)
	}
	genesis, ok := blkIntf.(*Block)
	if !ok {
		return errUnexpectedBlockType
	}
	if genesis.Hght != 0 {
		return fmt.Errorf("genesis block must have height 0, got %d", genesis.Hght)
	}
	if genesis.PrntID != ids.Empty {
		return fmt.Errorf("genesis block must have an empty parent, got %s", genesis.PrntID)
	}
	if len(genesis.Txs) != 0 {
		return fmt.Errorf("genesis block must carry no transactions, got %d", len(genesis.Txs))
	}

	storedID, err := vm.state.GetBlockIDAtHeight(0)
	switch {
	case err == nil && storedID == genesis.id:
		return nil
	case err == nil:
		return fmt.Errorf("genesis mismatch: disk has %s, config has %s", storedID, genesis.id)
	case errors.Is(err, database.ErrNotFound):
		if genesis.status != choices.Accepted {
			if err := genesis.Accept(context.Background()); err != nil {
				return fmt.Errorf("failed to accept genesis block: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("failed to look up genesis block: %w", err)
	}
}
