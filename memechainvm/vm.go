// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

// Package memechainvm adapts the chain to the consensus engine. The engine
// owns ordering and finality; this package owns block storage, the mempool,
// the API surface, and handing ordered blocks to the execution engine.
package memechainvm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database/manager"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/snow"
	"github.com/ava-labs/avalanchego/snow/choices"
	"github.com/ava-labs/avalanchego/snow/consensus/snowman"
	"github.com/ava-labs/avalanchego/snow/engine/common"
	"github.com/ava-labs/avalanchego/snow/engine/snowman/block"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/avalanchego/version"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/engine"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/storage"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
)

const (
	Name = "memechainvm"

	resultCacheSize  = 1024
	futureBlockLimit = time.Minute
)

var (
	Version = &version.Semantic{
		Major: 1,
		Minor: 0,
		Patch: 0,
	}

	// Database prefixes on the shared versiondb.
	blockPrefix    = []byte("block")
	heightPrefix   = []byte("height")
	acceptedPrefix = []byte("accepted")
	statePrefix    = []byte("state")

	errNoPendingTxs         = errors.New("no pending transactions")
	errParentNotAccepted    = errors.New("can only build on the last accepted block")
	errUnexpectedBlockType  = errors.New("unexpected block type")

	_ block.ChainVM              = (*VM)(nil)
	_ block.HeightIndexedChainVM = (*VM)(nil)
)

// VM implements the snowman ChainVM interface on top of the execution
// engine. It is deterministic below BuildBlock: the engine decides which
// blocks exist and in what order; the VM only derives state from them.
type VM struct {
	chainCtx *snow.Context
	log      log15.Logger
	clock    mockable.Clock
	config   Config

	// baseDB is the single serialization point: block metadata and module
	// state share it so an accept is one atomic batch.
	baseDB *versiondb.Database
	state  *blockState
	store  *storage.Store

	dispatcher *engine.Dispatcher
	mempool    *mempool

	preferred      ids.ID
	lastAcceptedID ids.ID

	// verifiedBlocks holds processing blocks between Verify and a decision.
	verifiedBlocks map[ids.ID]*Block
	// blockResults caches per-transaction results of recently accepted
	// blocks. Results are derivable by re-execution; the cache only serves
	// the API.
	blockResults cache.Cacher[ids.ID, interface{}]
}

func (vm *VM) Initialize(
	_ context.Context,
	chainCtx *snow.Context,
	dbManager manager.Manager,
	genesisBytes []byte,
	_ []byte,
	configBytes []byte,
	toEngine chan<- common.Message,
	_ []*common.Fx,
	_ common.AppSender,
) error {
	vm.chainCtx = chainCtx
	vm.log = log15.New("vm", Name)

	config, err := ParseConfig(configBytes)
	if err != nil {
		return err
	}
	vm.config = config

	vm.baseDB = versiondb.New(dbManager.Current().Database)
	vm.state = newBlockState(vm.baseDB)
	vm.store = storage.New(vm.baseDB, statePrefix)

	registerer := prometheus.NewRegistry()
	vm.dispatcher, err = engine.New(
		vm.store,
		config.MaxMetadataSize,
		config.TaxCeilingPct,
		vm.log,
		registerer,
	)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	if err := chainCtx.Metrics.Register(registerer); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	vm.mempool = newMempool(toEngine, config.MempoolSize)
	vm.verifiedBlocks = make(map[ids.ID]*Block)
	vm.blockResults = &cache.LRU[ids.ID, interface{}]{Size: resultCacheSize}

	if err := vm.initGenesis(genesisBytes); err != nil {
		return err
	}

	lastAccepted, err := vm.state.GetLastAccepted()
	if err != nil {
		return fmt.Errorf("failed to get last accepted block: %w", err)
	}
	vm.lastAcceptedID = lastAccepted
	vm.preferred = lastAccepted

	vm.log.Info("initialized vm",
		"lastAccepted", lastAccepted,
		"maxMetadataSize", config.MaxMetadataSize,
		"taxCeilingPct", config.TaxCeilingPct,
	)
	return nil
}

// BuildBlock drains the mempool into a block on top of the last accepted
// block, executing the batch once to fill in the state root.
func (vm *VM) BuildBlock(ctx context.Context) (snowman.Block, error) {
	if vm.preferred != vm.lastAcceptedID {
		// A block is still processing; signal again once it settles.
		vm.mempool.SignalPending()
		return nil, errParentNotAccepted
	}

	txs := vm.mempool.Drain(vm.config.MaxBlockTxs)
	if len(txs) == 0 {
		return nil, errNoPendingTxs
	}
	if vm.mempool.Len() > 0 {
		defer vm.mempool.SignalPending()
	}

	parent, err := vm.getBlock(vm.lastAcceptedID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last accepted block: %w", err)
	}

	result, err := vm.dispatcher.ExecuteBlock(parent.Hght+1, txs)
	if err != nil {
		return nil, err
	}
	result.Abandon()

	blk, err := vm.newBlock(parent, txs, result.StateRoot)
	if err != nil {
		return nil, err
	}
	if err := blk.Verify(ctx); err != nil {
		return nil, err
	}

	vm.log.Debug("built block", "id", blk.id, "height", blk.Hght, "txs", len(txs))
	return blk, nil
}

func (vm *VM) newBlock(parent *Block, txs []*types.Transaction, stateRoot ids.ID) (*Block, error) {
	timestamp := vm.clock.Time().Unix()
	if timestamp < parent.Tmstmp {
		timestamp = parent.Tmstmp
	}
	blk := &Block{
		PrntID:    parent.id,
		Hght:      parent.Hght + 1,
		Tmstmp:    timestamp,
		Txs:       txs,
		StateRoot: stateRoot,
	}
	bytes, err := types.Codec.Marshal(types.CodecVersion, blk)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal block: %w", err)
	}
	blk.initialize(bytes, choices.Processing, vm)
	return blk, nil
}

func (vm *VM) ParseBlock(_ context.Context, b []byte) (snowman.Block, error) {
	blk := &Block{}
	version, err := types.Codec.Unmarshal(b, blk)
	if err != nil {
		return nil, err
	}
	if version != types.CodecVersion {
		return nil, fmt.Errorf("block has unknown codec version %d", version)
	}
	blk.initialize(b, choices.Processing, vm)

	// Prefer the canonical copy if the block is already known.
	if known, err := vm.getBlock(blk.id); err == nil {
		return known, nil
	}
	return blk, nil
}

func (vm *VM) GetBlock(_ context.Context, blkID ids.ID) (snowman.Block, error) {
	return vm.getBlock(blkID)
}

func (vm *VM) getBlock(blkID ids.ID) (*Block, error) {
	if blk, ok := vm.verifiedBlocks[blkID]; ok {
		return blk, nil
	}
	blk, err := vm.state.GetBlock(blkID)
	if err != nil {
		return nil, err
	}
	// Only decided blocks are persisted.
	blk.vm = vm
	blk.status = choices.Accepted
	return blk, nil
}

func (vm *VM) SetPreference(_ context.Context, blkID ids.ID) error {
	vm.preferred = blkID
	return nil
}

func (vm *VM) LastAccepted(context.Context) (ids.ID, error) {
	return vm.lastAcceptedID, nil
}

func (vm *VM) VerifyHeightIndex(context.Context) error {
	return nil
}

func (vm *VM) GetBlockIDAtHeight(_ context.Context, height uint64) (ids.ID, error) {
	return vm.state.GetBlockIDAtHeight(height)
}

// CreateHandlers exposes the chain API at the VM's endpoint root.
func (vm *VM) CreateHandlers(context.Context) (map[string]*common.HTTPHandler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := server.RegisterService(&Service{vm: vm}, Name); err != nil {
		return nil, err
	}
	return map[string]*common.HTTPHandler{
		"": {LockOptions: common.WriteLock, Handler: server},
	}, nil
}

func (vm *VM) CreateStaticHandlers(context.Context) (map[string]*common.HTTPHandler, error) {
	server := rpc.NewServer()
	codec := cjson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := server.RegisterService(CreateStaticService(), Name); err != nil {
		return nil, err
	}
	return map[string]*common.HTTPHandler{
		"": {LockOptions: common.WriteLock, Handler: server},
	}, nil
}

func (vm *VM) HealthCheck(context.Context) (interface{}, error) {
	return nil, nil
}

func (vm *VM) SetState(_ context.Context, state snow.State) error {
	vm.log.Debug("state transition", "state", state)
	return nil
}

func (vm *VM) Shutdown(context.Context) error {
	if vm.baseDB == nil {
		return nil
	}
	vm.baseDB.Abort()
	return vm.baseDB.Close()
}

func (vm *VM) Version(context.Context) (string, error) {
	return Version.String(), nil
}

func (vm *VM) Connected(context.Context, ids.NodeID, *version.Application) error {
	return nil
}

func (vm *VM) Disconnected(context.Context, ids.NodeID) error {
	return nil
}

// The chain has no app-specific or cross-chain messages.

func (vm *VM) AppGossip(context.Context, ids.NodeID, []byte) error {
	return nil
}

func (vm *VM) AppRequest(context.Context, ids.NodeID, uint32, time.Time, []byte) error {
	return nil
}

func (vm *VM) AppResponse(context.Context, ids.NodeID, uint32, []byte) error {
	return nil
}

func (vm *VM) AppRequestFailed(context.Context, ids.NodeID, uint32) error {
	return nil
}

func (vm *VM) CrossChainAppRequest(context.Context, ids.ID, uint32, time.Time, []byte) error {
	return nil
}

func (vm *VM) CrossChainAppResponse(context.Context, ids.ID, uint32, []byte) error {
	return nil
}

func (vm *VM) CrossChainAppRequestFailed(context.Context, ids.ID, uint32) error {
	return nil
}
