// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine executes blocks: it routes each transaction to its module,
// fences rejected transactions behind per-transaction views, and produces the
// block's state root and per-transaction results. Execution is deterministic;
// every replica derives the same results from the same block.
package engine

import (
	"fmt"
	"strconv"

	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/ledger"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/registry"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/storage"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/validation"
)

// Dispatcher executes blocks against a Store. It holds no mutable state of
// its own; all state lives in the store and the staged views.
type Dispatcher struct {
	store           *storage.Store
	maxMetadataSize int
	taxCeiling      uint8
	log             log15.Logger
	metrics         *metrics
}

func New(
	store *storage.Store,
	maxMetadataSize int,
	taxCeiling uint8,
	log log15.Logger,
	registerer prometheus.Registerer,
) (*Dispatcher, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		store:           store,
		maxMetadataSize: maxMetadataSize,
		taxCeiling:      taxCeiling,
		log:             log,
		metrics:         m,
	}, nil
}

// BlockResult is the outcome of executing one block: the post-state root, one
// result per transaction in order, and the staged view holding the block's
// writes. The caller either Applies the view toward a commit or Abandons it.
type BlockResult struct {
	Height    uint64
	StateRoot ids.ID
	Results   []*types.TxResult

	view *versiondb.Database
}

// Apply folds the block's writes into the store's pending batch.
func (r *BlockResult) Apply(store *storage.Store) error {
	return store.Apply(r.view)
}

// Abandon discards the block's writes.
func (r *BlockResult) Abandon() {
	r.view.Abort()
}

// ExecuteBlock runs [txs] in order at [height] on top of the last committed
// state. A rejected transaction is recorded and skipped; the block continues.
// Only a storage fault returns an error, and then nothing has been applied.
func (d *Dispatcher) ExecuteBlock(height uint64, txs []*types.Transaction) (*BlockResult, error) {
	view := d.store.NewView()

	results := make([]*types.TxResult, 0, len(txs))
	for _, tx := range txs {
		result, err := d.executeTx(view, height, tx)
		if err != nil {
			view.Abort()
			d.metrics.blocksFailed.Inc()
			return nil, err
		}
		if result.Committed {
			d.metrics.txsApplied.Inc()
		} else {
			d.metrics.txsRejected.Inc()
			d.log.Debug("transaction rejected",
				"height", height,
				"txID", result.TxID,
				"op", result.Op,
				"code", result.ErrorCode,
			)
		}
		results = append(results, result)
	}

	root, err := storage.Root(view)
	if err != nil {
		view.Abort()
		d.metrics.blocksFailed.Inc()
		return nil, err
	}

	d.metrics.blocksExecuted.Inc()
	return &BlockResult{
		Height:    height,
		StateRoot: root,
		Results:   results,
		view:      view,
	}, nil
}

// executeTx runs one transaction inside its own nested view. On rejection the
// nested view is aborted, so a failed transaction structurally cannot leave
// partial writes in the block. Returns an error only for faults that must
// abort the whole block.
func (d *Dispatcher) executeTx(blockView *versiondb.Database, height uint64, tx *types.Transaction) (*types.TxResult, error) {
	txID, err := tx.ID()
	if err != nil {
		return nil, fmt.Errorf("%w: hashing transaction: %s", storage.ErrStorageFault, err)
	}
	result := &types.TxResult{
		TxID: txID,
		Op:   tx.Unsigned.Op(),
	}

	reject := func(err error) (*types.TxResult, error) {
		code, ok := types.CodeOf(err)
		if !ok {
			return nil, err
		}
		result.ErrorCode = code
		result.Error = err.Error()
		return result, nil
	}

	if err := tx.VerifySignature(); err != nil {
		return reject(err)
	}
	sender, err := tx.Sender()
	if err != nil {
		return reject(err)
	}

	txView := versiondb.New(blockView)
	events, err := d.dispatch(txView, height, sender, tx.Unsigned)
	if err != nil {
		txView.Abort()
		return reject(err)
	}
	if err := txView.Commit(); err != nil {
		return nil, fmt.Errorf("%w: folding transaction view: %s", storage.ErrStorageFault, err)
	}

	result.Committed = true
	result.Events = events
	return result, nil
}

func (d *Dispatcher) dispatch(db *versiondb.Database, height uint64, sender string, utx types.UnsignedTx) ([]types.Event, error) {
	r := registry.New(db, d.maxMetadataSize)
	l := ledger.New(db, d.taxCeiling)

	switch tx := utx.(type) {
	case *types.CreateCollectionTx:
		collection, err := r.CreateCollection(sender, tx)
		if err != nil {
			return nil, err
		}
		return []types.Event{{
			Type: "collection_created",
			Attributes: map[string]string{
				"collectionID": strconv.FormatUint(collection.ID, 10),
				"name":         collection.Name,
				"creator":      collection.Creator,
			},
		}}, nil

	case *types.MintTx:
		item, err := r.Mint(sender, tx)
		if err != nil {
			return nil, err
		}
		return []types.Event{{
			Type:       "item_minted",
			Attributes: itemAttributes(item.CollectionID, item.ItemID, "owner", item.Owner),
		}}, nil

	case *types.TransferItemTx:
		item, err := r.TransferItem(sender, tx)
		if err != nil {
			return nil, err
		}
		return []types.Event{{
			Type:       "item_transferred",
			Attributes: itemAttributes(item.CollectionID, item.ItemID, "to", item.Owner),
		}}, nil

	case *types.BurnItemTx:
		item, err := r.BurnItem(sender, tx)
		if err != nil {
			return nil, err
		}
		return []types.Event{{
			Type:       "item_burned",
			Attributes: itemAttributes(item.CollectionID, item.ItemID, "by", sender),
		}}, nil

	case *types.CreateTokenTx:
		token, err := l.CreateToken(sender, tx)
		if err != nil {
			return nil, err
		}
		return []types.Event{{
			Type: "token_created",
			Attributes: map[string]string{
				"symbol":  token.Symbol,
				"supply":  validation.FormatAmount(token.TotalSupply, token.Decimals),
				"creator": token.Creator,
			},
		}}, nil

	case *types.TransferTokenTx:
		receipt, err := l.Transfer(height, sender, tx)
		if err != nil {
			return nil, err
		}
		side := "sell"
		if receipt.Buy {
			side = "buy"
		}
		return []types.Event{{
			Type: "token_transferred",
			Attributes: map[string]string{
				"symbol": receipt.Symbol,
				"from":   receipt.From,
				"to":     receipt.To,
				"amount": strconv.FormatUint(receipt.Amount, 10),
				"tax":    strconv.FormatUint(receipt.Tax, 10),
				"net":    strconv.FormatUint(receipt.Net, 10),
				"side":   side,
			},
		}}, nil

	case *types.LockLiquidityTx:
		token, err := l.LockLiquidity(height, sender, tx)
		if err != nil {
			return nil, err
		}
		return []types.Event{{
			Type: "liquidity_locked",
			Attributes: map[string]string{
				"symbol":     token.Symbol,
				"percentage": strconv.FormatUint(uint64(token.Policy.LockedPercentage), 10),
				"until":      strconv.FormatUint(token.Policy.LockStartHeight+token.Policy.LockDurationBlocks, 10),
			},
		}}, nil

	default:
		// Unreachable for codec-decoded transactions; loud failure if a new
		// variant is registered without a dispatch case.
		return nil, fmt.Errorf("no dispatch case for operation %T", utx)
	}
}

func itemAttributes(collectionID, itemID uint64, key, value string) map[string]string {
	return map[string]string{
		"collectionID": strconv.FormatUint(collectionID, 10),
		"itemID":       strconv.FormatUint(itemID, 10),
		key:            value,
	}
}
