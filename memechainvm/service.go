// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package memechainvm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/api"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/ledger"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/registry"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/validation"
)

var errNoResults = errors.New("no results available for block")

// Service is the chain's JSON-RPC API. Queries read the last committed
// state; proposed transactions take effect only once a block containing them
// is accepted.
type Service struct{ vm *VM }

func (s *Service) registry() *registry.Registry {
	return registry.New(s.vm.store.Committed(), s.vm.config.MaxMetadataSize)
}

func (s *Service) ledger() *ledger.Ledger {
	return ledger.New(s.vm.store.Committed(), s.vm.config.TaxCeilingPct)
}

type ProposeTxArgs struct {
	// Tx is the hex-encoded signed transaction.
	Tx string `json:"tx"`
}

type ProposeTxReply struct {
	TxID ids.ID `json:"txID"`
}

// ProposeTx submits a signed transaction to the mempool. Admission checks
// the signature only; full validation happens at execution.
func (s *Service) ProposeTx(_ *http.Request, args *ProposeTxArgs, reply *ProposeTxReply) error {
	txBytes, err := formatting.Decode(formatting.Hex, args.Tx)
	if err != nil {
		return fmt.Errorf("failed to decode transaction hex: %w", err)
	}
	tx, err := types.ParseTransaction(txBytes)
	if err != nil {
		return fmt.Errorf("failed to parse transaction: %w", err)
	}
	if err := tx.VerifySignature(); err != nil {
		return err
	}
	txID, err := tx.ID()
	if err != nil {
		return err
	}
	if err := s.vm.mempool.Add(tx); err != nil {
		return err
	}
	reply.TxID = txID
	return nil
}

type GetBlockArgs struct {
	// ID of the block to fetch. Empty fetches the last accepted block.
	ID ids.ID `json:"id"`
}

type GetBlockReply struct {
	ID        ids.ID               `json:"id"`
	ParentID  ids.ID               `json:"parentID"`
	Height    cjson.Uint64         `json:"height"`
	Timestamp cjson.Uint64         `json:"timestamp"`
	StateRoot ids.ID               `json:"stateRoot"`
	Txs       []*types.Transaction `json:"txs"`
}

func (s *Service) GetBlock(_ *http.Request, args *GetBlockArgs, reply *GetBlockReply) error {
	blkID := args.ID
	if blkID == ids.Empty {
		blkID = s.vm.lastAcceptedID
	}
	blk, err := s.vm.getBlock(blkID)
	if err != nil {
		return err
	}
	reply.ID = blk.id
	reply.ParentID = blk.PrntID
	reply.Height = cjson.Uint64(blk.Hght)
	reply.Timestamp = cjson.Uint64(blk.Tmstmp)
	reply.StateRoot = blk.StateRoot
	reply.Txs = blk.Txs
	return nil
}

type GetBlockResultsArgs struct {
	ID ids.ID `json:"id"`
}

type GetBlockResultsReply struct {
	Results []*types.TxResult `json:"results"`
}

// GetBlockResults returns the per-transaction outcomes of a recently
// accepted block. Results are derived at accept time and cached; they are
// not part of consensus state.
func (s *Service) GetBlockResults(_ *http.Request, args *GetBlockResultsArgs, reply *GetBlockResultsReply) error {
	blkID := args.ID
	if blkID == ids.Empty {
		blkID = s.vm.lastAcceptedID
	}
	resultsIntf, ok := s.vm.blockResults.Get(blkID)
	if !ok {
		return fmt.Errorf("%w: %s", errNoResults, blkID)
	}
	reply.Results = resultsIntf.([]*types.TxResult)
	return nil
}

type GetBalanceArgs struct {
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
}

type GetBalanceReply struct {
	Balance cjson.Uint64 `json:"balance"`
	// Formatted is the balance rendered at the token's decimal precision.
	Formatted string `json:"formatted"`
}

func (s *Service) GetBalance(_ *http.Request, args *GetBalanceArgs, reply *GetBalanceReply) error {
	l := s.ledger()
	token, err := l.GetToken(args.Symbol)
	if err != nil {
		return err
	}
	balance, err := l.Balance(args.Symbol, args.Address)
	if err != nil {
		return err
	}
	reply.Balance = cjson.Uint64(balance)
	reply.Formatted = validation.FormatAmount(balance, token.Decimals)
	return nil
}

type GetTokenArgs struct {
	Symbol string `json:"symbol"`
}

type GetTokenReply struct {
	Token *ledger.Token `json:"token"`
}

func (s *Service) GetToken(_ *http.Request, args *GetTokenArgs, reply *GetTokenReply) error {
	token, err := s.ledger().GetToken(args.Symbol)
	if err != nil {
		return err
	}
	reply.Token = token
	return nil
}

type ListTokensReply struct {
	Tokens []*ledger.Token `json:"tokens"`
}

func (s *Service) ListTokens(_ *http.Request, _ *struct{}, reply *ListTokensReply) error {
	tokens, err := s.ledger().Tokens()
	if err != nil {
		return err
	}
	reply.Tokens = tokens
	return nil
}

type GetCollectionArgs struct {
	CollectionID cjson.Uint64 `json:"collectionID"`
}

type GetCollectionReply struct {
	Collection *registry.Collection `json:"collection"`
}

func (s *Service) GetCollection(_ *http.Request, args *GetCollectionArgs, reply *GetCollectionReply) error {
	collection, err := s.registry().GetCollection(uint64(args.CollectionID))
	if err != nil {
		return err
	}
	reply.Collection = collection
	return nil
}

type GetItemArgs struct {
	CollectionID cjson.Uint64 `json:"collectionID"`
	ItemID       cjson.Uint64 `json:"itemID"`
}

type GetItemReply struct {
	Item *registry.Item `json:"item"`
}

func (s *Service) GetItem(_ *http.Request, args *GetItemArgs, reply *GetItemReply) error {
	item, err := s.registry().GetItem(uint64(args.CollectionID), uint64(args.ItemID))
	if err != nil {
		return err
	}
	reply.Item = item
	return nil
}

type ListItemsByCollectionArgs struct {
	CollectionID cjson.Uint64 `json:"collectionID"`
}

type ListItemsReply struct {
	Items []*registry.Item `json:"items"`
}

func (s *Service) ListItemsByCollection(_ *http.Request, args *ListItemsByCollectionArgs, reply *ListItemsReply) error {
	items, err := s.registry().ItemsByCollection(uint64(args.CollectionID))
	if err != nil {
		return err
	}
	reply.Items = items
	return nil
}

type ListItemsByOwnerArgs struct {
	Owner string `json:"owner"`
}

func (s *Service) ListItemsByOwner(_ *http.Request, args *ListItemsByOwnerArgs, reply *ListItemsReply) error {
	items, err := s.registry().ItemsByOwner(args.Owner)
	if err != nil {
		return err
	}
	reply.Items = items
	return nil
}

type GetTreasuryReply struct {
	Address string `json:"address"`
}

// GetTreasury returns the chain-wide treasury address that accumulates
// withheld tax.
func (s *Service) GetTreasury(_ *http.Request, _ *struct{}, reply *GetTreasuryReply) error {
	reply.Address = ledger.TreasuryAddress
	return nil
}

// Health is a trivial liveness probe for API monitors.
func (s *Service) Health(_ *http.Request, _ *struct{}, _ *api.EmptyReply) error {
	return nil
}
