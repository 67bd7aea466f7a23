// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry is the asset registry module: NFT collections and the
// items minted into them. It owns the "collection" and "item" key prefixes
// and nothing else. All operations validate fully before the first write, so
// a rejected operation leaves its view untouched.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/storage"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/validation"
)

const maxNameLen = 128

var (
	// Key prefixes owned by this module. No other module may write them.
	collectionPrefix = []byte("collection")
	itemPrefix       = []byte("item")

	// lastCollectionIDKey is a singleton inside the collection prefix. It
	// cannot collide with collection records, which use 8-byte keys.
	lastCollectionIDKey = []byte("last")
)

// Collection is a registered NFT collection. Never deleted once created.
type Collection struct {
	ID          uint64 `serialize:"true" json:"id"`
	Name        string `serialize:"true" json:"name"`
	Description string `serialize:"true" json:"description"`
	Metadata    []byte `serialize:"true" json:"metadata,omitempty"`
	Creator     string `serialize:"true" json:"creator"`
	// ItemCounter is the number of items ever minted. Item ids are allocated
	// from it and never reused, even after a burn.
	ItemCounter uint64 `serialize:"true" json:"itemCounter"`
}

// Item is a single collectible, identified by (collection id, item id).
// Burn is a tombstone: the record stays so historical queries remain
// consistent, but the owner is cleared and the id is retired forever.
type Item struct {
	CollectionID uint64 `serialize:"true" json:"collectionID"`
	ItemID       uint64 `serialize:"true" json:"itemID"`
	Owner        string `serialize:"true" json:"owner"`
	Metadata     []byte `serialize:"true" json:"metadata,omitempty"`
	Burned       bool   `serialize:"true" json:"burned"`
}

// Registry executes asset registry operations against one database view.
// Construct a fresh Registry per staged view; the struct itself is just the
// prefixed handles plus config.
type Registry struct {
	collections     database.Database
	items           database.Database
	maxMetadataSize int
}

func New(db database.Database, maxMetadataSize int) *Registry {
	return &Registry{
		collections:     prefixdb.New(collectionPrefix, db),
		items:           prefixdb.New(itemPrefix, db),
		maxMetadataSize: maxMetadataSize,
	}
}

// CreateCollection allocates a fresh collection id and persists the
// collection with its item counter at zero.
func (r *Registry) CreateCollection(sender string, tx *types.CreateCollectionTx) (*Collection, error) {
	if tx.Name == "" || len(tx.Name) > maxNameLen {
		return nil, fmt.Errorf("%w: collection name must be 1-%d bytes", types.ErrInvalidMetadata, maxNameLen)
	}
	if err := r.checkMetadata(tx.Metadata); err != nil {
		return nil, err
	}

	lastID, err := r.lastCollectionID()
	if err != nil {
		return nil, err
	}

	collection := &Collection{
		ID:          lastID + 1,
		Name:        tx.Name,
		Description: tx.Description,
		Metadata:    tx.Metadata,
		Creator:     sender,
	}
	if err := r.collections.Put(lastCollectionIDKey, storage.PackUint64(collection.ID)); err != nil {
		return nil, err
	}
	return collection, r.putCollection(collection)
}

// Mint creates a new item in [tx.CollectionID] owned by [tx.Recipient].
// Minting is creator-only.
func (r *Registry) Mint(sender string, tx *types.MintTx) (*Item, error) {
	collection, err := r.GetCollection(tx.CollectionID)
	if err != nil {
		return nil, err
	}
	if collection.Creator != sender {
		return nil, fmt.Errorf("%w: only the collection creator may mint", types.ErrUnauthorized)
	}
	if err := validation.ValidateAddress(tx.Recipient); err != nil {
		return nil, fmt.Errorf("%w: recipient: %s", types.ErrInvalidAddress, err)
	}
	if err := r.checkMetadata(tx.Metadata); err != nil {
		return nil, err
	}

	collection.ItemCounter++
	item := &Item{
		CollectionID: collection.ID,
		ItemID:       collection.ItemCounter,
		Owner:        tx.Recipient,
		Metadata:     tx.Metadata,
	}
	if err := r.putCollection(collection); err != nil {
		return nil, err
	}
	return item, r.putItem(item)
}

// TransferItem reassigns ownership from the sender to [tx.To].
func (r *Registry) TransferItem(sender string, tx *types.TransferItemTx) (*Item, error) {
	item, err := r.GetItem(tx.CollectionID, tx.ItemID)
	if err != nil {
		return nil, err
	}
	if item.Burned {
		return nil, fmt.Errorf("%w: item %d/%d", types.ErrItemBurned, tx.CollectionID, tx.ItemID)
	}
	if item.Owner != sender {
		return nil, fmt.Errorf("%w: item %d/%d", types.ErrNotOwner, tx.CollectionID, tx.ItemID)
	}
	if err := validation.ValidateAddress(tx.To); err != nil {
		return nil, fmt.Errorf("%w: recipient: %s", types.ErrInvalidAddress, err)
	}

	item.Owner = tx.To
	return item, r.putItem(item)
}

// BurnItem tombstones an item: burned flag set, owner cleared. Terminal and
// irreversible. A burned item has no owner, so a second burn fails NotOwner.
func (r *Registry) BurnItem(sender string, tx *types.BurnItemTx) (*Item, error) {
	item, err := r.GetItem(tx.CollectionID, tx.ItemID)
	if err != nil {
		return nil, err
	}
	if item.Owner != sender {
		return nil, fmt.Errorf("%w: item %d/%d", types.ErrNotOwner, tx.CollectionID, tx.ItemID)
	}

	item.Burned = true
	item.Owner = ""
	return item, r.putItem(item)
}

// GetCollection fetches one collection by id.
func (r *Registry) GetCollection(id uint64) (*Collection, error) {
	b, err := r.collections.Get(storage.PackUint64(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownCollection, id)
	}
	if err != nil {
		return nil, err
	}
	collection := &Collection{}
	if _, err := types.Codec.Unmarshal(b, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// GetItem fetches one item by (collection id, item id).
func (r *Registry) GetItem(collectionID, itemID uint64) (*Item, error) {
	b, err := r.items.Get(itemKey(collectionID, itemID))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d/%d", types.ErrUnknownItem, collectionID, itemID)
	}
	if err != nil {
		return nil, err
	}
	item := &Item{}
	if _, err := types.Codec.Unmarshal(b, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ItemsByCollection lists every item of a collection, burned ones included,
// in item id order.
func (r *Registry) ItemsByCollection(collectionID uint64) ([]*Item, error) {
	it := r.items.NewIteratorWithPrefix(storage.PackUint64(collectionID))
	defer it.Release()
	return collectItems(it, func(*Item) bool { return true })
}

// ItemsByOwner lists every live item owned by [owner], ordered by
// (collection id, item id).
func (r *Registry) ItemsByOwner(owner string) ([]*Item, error) {
	it := r.items.NewIterator()
	defer it.Release()
	return collectItems(it, func(item *Item) bool { return item.Owner == owner })
}

func collectItems(it database.Iterator, keep func(*Item) bool) ([]*Item, error) {
	items := []*Item(nil)
	for it.Next() {
		item := &Item{}
		if _, err := types.Codec.Unmarshal(it.Value(), item); err != nil {
			return nil, err
		}
		if keep(item) {
			items = append(items, item)
		}
	}
	return items, it.Error()
}

func (r *Registry) checkMetadata(metadata []byte) error {
	if len(metadata) > r.maxMetadataSize {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", types.ErrInvalidMetadata, len(metadata), r.maxMetadataSize)
	}
	if len(metadata) > 0 && !json.Valid(metadata) {
		return fmt.Errorf("%w: metadata is not valid JSON", types.ErrInvalidMetadata)
	}
	return nil
}

func (r *Registry) lastCollectionID() (uint64, error) {
	b, err := r.collections.Get(lastCollectionIDKey)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return storage.UnpackUint64(b)
}

func (r *Registry) putCollection(collection *Collection) error {
	b, err := types.Codec.Marshal(types.CodecVersion, collection)
	if err != nil {
		return err
	}
	return r.collections.Put(storage.PackUint64(collection.ID), b)
}

func (r *Registry) putItem(item *Item) error {
	b, err := types.Codec.Marshal(types.CodecVersion, item)
	if err != nil {
		return err
	}
	return r.items.Put(itemKey(item.CollectionID, item.ItemID), b)
}

func itemKey(collectionID, itemID uint64) []byte {
	return append(storage.PackUint64(collectionID), storage.PackUint64(itemID)...)
}
