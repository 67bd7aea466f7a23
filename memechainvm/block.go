// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package memechainvm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/snow/choices"
	"github.com/ava-labs/avalanchego/snow/consensus/snowman"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
)

var (
	errWrongHeight       = errors.New("block height is not one more than its parent's")
	errTimestampTooEarly = errors.New("block timestamp is earlier than its parent's")
	errTimestampTooLate  = errors.New("block timestamp is too far in the future")
	errTooManyTxs        = errors.New("block exceeds the transaction limit")
	errStateRootMismatch = errors.New("block state root does not match execution")

	_ snowman.Block = (*Block)(nil)
)

// Block carries an ordered batch of signed transactions and the state root
// the proposer claims the batch produces. Results and events are not in the
// block; every replica re-derives them by executing the transactions.
type Block struct {
	PrntID    ids.ID               `serialize:"true" json:"parentID"`
	Hght      uint64               `serialize:"true" json:"height"`
	Tmstmp    int64                `serialize:"true" json:"timestamp"`
	Txs       []*types.Transaction `serialize:"true" json:"txs"`
	StateRoot ids.ID               `serialize:"true" json:"stateRoot"`

	id     ids.ID
	bytes  []byte
	status choices.Status
	vm     *VM
}

func (b *Block) ID() ids.ID            { return b.id }
func (b *Block) Parent() ids.ID        { return b.PrntID }
func (b *Block) Height() uint64        { return b.Hght }
func (b *Block) Timestamp() time.Time  { return time.Unix(b.Tmstmp, 0) }
func (b *Block) Bytes() []byte         { return b.bytes }
func (b *Block) Status() choices.Status { return b.status }

// initialize fills the fields not covered by the codec.
func (b *Block) initialize(bytes []byte, status choices.Status, vm *VM) {
	b.bytes = bytes
	b.id = hashing.ComputeHash256Array(bytes)
	b.status = status
	b.vm = vm
}

// Verify checks the block against its parent and, when the parent is the
// last accepted block, executes the transactions on scratch state to confirm
// the proposer's state root. Blocks deeper in a processing chain defer that
// check to their own Accept.
func (b *Block) Verify(context.Context) error {
	parent, err := b.vm.getBlock(b.PrntID)
	if err != nil {
		return fmt.Errorf("failed to get parent block %s: %w", b.PrntID, err)
	}
	if b.Hght != parent.Hght+1 {
		return fmt.Errorf("%w: parent %d, block %d", errWrongHeight, parent.Hght, b.Hght)
	}
	if b.Tmstmp < parent.Tmstmp {
		return fmt.Errorf("%w: parent %d, block %d", errTimestampTooEarly, parent.Tmstmp, b.Tmstmp)
	}
	if b.Timestamp().After(b.vm.clock.Time().Add(futureBlockLimit)) {
		return fmt.Errorf("%w: %s", errTimestampTooLate, b.Timestamp())
	}
	if len(b.Txs) > b.vm.config.MaxBlockTxs {
		return fmt.Errorf("%w: %d > %d", errTooManyTxs, len(b.Txs), b.vm.config.MaxBlockTxs)
	}

	if b.PrntID == b.vm.lastAcceptedID {
		result, err := b.vm.dispatcher.ExecuteBlock(b.Hght, b.Txs)
		if err != nil {
			return err
		}
		result.Abandon()
		if result.StateRoot != b.StateRoot {
			return fmt.Errorf("%w: claimed %s, executed %s", errStateRootMismatch, b.StateRoot, result.StateRoot)
		}
	}

	b.vm.verifiedBlocks[b.id] = b
	return nil
}

// Accept executes the block on top of the last accepted state and commits
// block bytes, the accepted pointer, and all module state in one atomic
// batch. A state root mismatch here is fatal: the node cannot continue past
// a block it cannot reproduce.
func (b *Block) Accept(context.Context) error {
	vm := b.vm
	defer vm.baseDB.Abort()

	if b.Hght > 0 {
		result, err := vm.dispatcher.ExecuteBlock(b.Hght, b.Txs)
		if err != nil {
			return err
		}
		if result.StateRoot != b.StateRoot {
			result.Abandon()
			return fmt.Errorf("%w: accepting %s: claimed %s, executed %s",
				errStateRootMismatch, b.id, b.StateRoot, result.StateRoot)
		}
		if err := result.Apply(vm.store); err != nil {
			return err
		}
		vm.blockResults.Put(b.id, result.Results)
	}

	if err := vm.state.PutBlock(b); err != nil {
		return fmt.Errorf("failed to put block %s: %w", b.id, err)
	}
	if err := vm.state.SetLastAccepted(b.id); err != nil {
		return fmt.Errorf("failed to set last accepted to %s: %w", b.id, err)
	}
	if err := vm.baseDB.Commit(); err != nil {
		return fmt.Errorf("failed to commit block %s: %w", b.id, err)
	}

	b.status = choices.Accepted
	vm.lastAcceptedID = b.id
	delete(vm.verifiedBlocks, b.id)

	vm.log.Info("accepted block",
		"id", b.id,
		"height", b.Hght,
		"txs", len(b.Txs),
		"stateRoot", b.StateRoot,
	)
	return nil
}

// Reject drops the block. Nothing was applied during Verify, so there is no
// state to clean up.
func (b *Block) Reject(context.Context) error {
	b.status = choices.Rejected
	delete(b.vm.verifiedBlocks, b.id)
	return nil
}
