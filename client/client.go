// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

// Package client is a Go client for the chain's JSON-RPC API.
package client

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/rpc"

	cjson "github.com/ava-labs/avalanchego/utils/json"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/ledger"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/memechainvm"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/registry"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
)

// Client defines the chain's client operations.
type Client interface {
	// ProposeTx signs [utx] with [key] and submits it to the mempool.
	ProposeTx(ctx context.Context, key ed25519.PrivateKey, utx types.UnsignedTx) (ids.ID, error)

	// GetBlock fetches a block. An empty ID fetches the last accepted block.
	GetBlock(ctx context.Context, blkID ids.ID) (*memechainvm.GetBlockReply, error)

	// GetBlockResults fetches the per-transaction outcomes of a block.
	GetBlockResults(ctx context.Context, blkID ids.ID) ([]*types.TxResult, error)

	// GetBalance fetches [address]'s balance of [symbol].
	GetBalance(ctx context.Context, symbol, address string) (uint64, string, error)

	// GetToken fetches a token by symbol.
	GetToken(ctx context.Context, symbol string) (*ledger.Token, error)

	// ListTokens fetches every registered token.
	ListTokens(ctx context.Context) ([]*ledger.Token, error)

	// GetCollection fetches a collection by id.
	GetCollection(ctx context.Context, collectionID uint64) (*registry.Collection, error)

	// GetItem fetches an item by (collection id, item id).
	GetItem(ctx context.Context, collectionID, itemID uint64) (*registry.Item, error)

	// ListItemsByCollection fetches every item of a collection.
	ListItemsByCollection(ctx context.Context, collectionID uint64) ([]*registry.Item, error)

	// ListItemsByOwner fetches every live item owned by [owner].
	ListItemsByOwner(ctx context.Context, owner string) ([]*registry.Item, error)

	// GetTreasury fetches the chain-wide treasury address.
	GetTreasury(ctx context.Context) (string, error)
}

// New creates a client for the chain served at [uri].
func New(uri string) Client {
	return &client{req: rpc.NewEndpointRequester(uri)}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) ProposeTx(ctx context.Context, key ed25519.PrivateKey, utx types.UnsignedTx) (ids.ID, error) {
	tx := &types.Transaction{Unsigned: utx}
	if err := tx.Sign(key); err != nil {
		return ids.Empty, fmt.Errorf("failed to sign transaction: %w", err)
	}
	txBytes, err := tx.Bytes()
	if err != nil {
		return ids.Empty, err
	}
	txHex, err := formatting.Encode(formatting.Hex, txBytes)
	if err != nil {
		return ids.Empty, err
	}

	resp := new(memechainvm.ProposeTxReply)
	err = cli.req.SendRequest(ctx,
		"memechainvm.proposeTx",
		&memechainvm.ProposeTxArgs{Tx: txHex},
		resp,
	)
	if err != nil {
		return ids.Empty, err
	}
	return resp.TxID, nil
}

func (cli *client) GetBlock(ctx context.Context, blkID ids.ID) (*memechainvm.GetBlockReply, error) {
	resp := new(memechainvm.GetBlockReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.getBlock",
		&memechainvm.GetBlockArgs{ID: blkID},
		resp,
	)
	return resp, err
}

func (cli *client) GetBlockResults(ctx context.Context, blkID ids.ID) ([]*types.TxResult, error) {
	resp := new(memechainvm.GetBlockResultsReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.getBlockResults",
		&memechainvm.GetBlockResultsArgs{ID: blkID},
		resp,
	)
	return resp.Results, err
}

func (cli *client) GetBalance(ctx context.Context, symbol, address string) (uint64, string, error) {
	resp := new(memechainvm.GetBalanceReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.getBalance",
		&memechainvm.GetBalanceArgs{Symbol: symbol, Address: address},
		resp,
	)
	return uint64(resp.Balance), resp.Formatted, err
}

func (cli *client) GetToken(ctx context.Context, symbol string) (*ledger.Token, error) {
	resp := new(memechainvm.GetTokenReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.getToken",
		&memechainvm.GetTokenArgs{Symbol: symbol},
		resp,
	)
	return resp.Token, err
}

func (cli *client) ListTokens(ctx context.Context) ([]*ledger.Token, error) {
	resp := new(memechainvm.ListTokensReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.listTokens",
		&struct{}{},
		resp,
	)
	return resp.Tokens, err
}

func (cli *client) GetCollection(ctx context.Context, collectionID uint64) (*registry.Collection, error) {
	resp := new(memechainvm.GetCollectionReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.getCollection",
		&memechainvm.GetCollectionArgs{CollectionID: cjson.Uint64(collectionID)},
		resp,
	)
	return resp.Collection, err
}

func (cli *client) GetItem(ctx context.Context, collectionID, itemID uint64) (*registry.Item, error) {
	resp := new(memechainvm.GetItemReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.getItem",
		&memechainvm.GetItemArgs{
			CollectionID: cjson.Uint64(collectionID),
			ItemID:       cjson.Uint64(itemID),
		},
		resp,
	)
	return resp.Item, err
}

func (cli *client) ListItemsByCollection(ctx context.Context, collectionID uint64) ([]*registry.Item, error) {
	resp := new(memechainvm.ListItemsReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.listItemsByCollection",
		&memechainvm.ListItemsByCollectionArgs{CollectionID: cjson.Uint64(collectionID)},
		resp,
	)
	return resp.Items, err
}

func (cli *client) ListItemsByOwner(ctx context.Context, owner string) ([]*registry.Item, error) {
	resp := new(memechainvm.ListItemsReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.listItemsByOwner",
		&memechainvm.ListItemsByOwnerArgs{Owner: owner},
		resp,
	)
	return resp.Items, err
}

func (cli *client) GetTreasury(ctx context.Context) (string, error) {
	resp := new(memechainvm.GetTreasuryReply)
	err := cli.req.SendRequest(ctx,
		"memechainvm.getTreasury",
		&struct{}{},
		resp,
	)
	return resp.Address, err
}
