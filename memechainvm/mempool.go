// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package memechainvm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/snow/engine/common"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
)

var errMempoolFull = errors.New("mempool is full")

type mempool struct {
	toEngine chan<- common.Message
	txs      chan *types.Transaction
	size     int
}

func newMempool(toEngine chan<- common.Message, size int) *mempool {
	return &mempool{
		toEngine: toEngine,
		txs:      make(chan *types.Transaction, size),
		size:     size,
	}
}

// Add queues [tx] and signals the consensus engine that a block is buildable.
func (m *mempool) Add(tx *types.Transaction) error {
	select {
	case m.txs <- tx:
	default:
		return fmt.Errorf("%w: %d pending", errMempoolFull, m.size)
	}
	m.SignalPending()
	return nil
}

// Drain pops up to [max] pending transactions in arrival order.
func (m *mempool) Drain(max int) []*types.Transaction {
	txs := []*types.Transaction(nil)
	for len(txs) < max {
		select {
		case tx := <-m.txs:
			txs = append(txs, tx)
		default:
			return txs
		}
	}
	return txs
}

func (m *mempool) Len() int {
	return len(m.txs)
}

// SignalPending notifies the consensus engine without blocking.
func (m *mempool) SignalPending() {
	select {
	case m.toEngine <- common.PendingTxs:
	default:
	}
}
