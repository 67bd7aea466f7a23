// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/assert"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
	"github.com/Dipraise1/MEMEBLOCKCHAIN/validation"
)

const testMaxMetadataSize = 1024

func newTestRegistry() *Registry {
	return New(memdb.New(), testMaxMetadataSize)
}

func newAddress(t *testing.T) string {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	assert.NoError(t, err)
	addr, err := validation.AddressFromPublicKey(pub)
	assert.NoError(t, err)
	return addr
}

func TestCreateCollectionAssignsMonotonicIDs(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry()
	creator := newAddress(t)

	first, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "Doge Punks"})
	assert.NoError(err)
	assert.Equal(uint64(1), first.ID)
	assert.Equal(creator, first.Creator)
	assert.Zero(first.ItemCounter)

	second, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "Pepe Rares"})
	assert.NoError(err)
	assert.Equal(uint64(2), second.ID)

	got, err := r.GetCollection(1)
	assert.NoError(err)
	assert.Equal("Doge Punks", got.Name)
}

func TestCreateCollectionRejectsBadMetadata(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry()
	creator := newAddress(t)

	_, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: ""})
	assert.ErrorIs(err, types.ErrInvalidMetadata)

	_, err = r.CreateCollection(creator, &types.CreateCollectionTx{
		Name:     "x",
		Metadata: []byte("{not json"),
	})
	assert.ErrorIs(err, types.ErrInvalidMetadata)

	_, err = r.CreateCollection(creator, &types.CreateCollectionTx{
		Name:     "x",
		Metadata: []byte(`{"pad":"` + strings.Repeat("a", testMaxMetadataSize) + `"}`),
	})
	assert.ErrorIs(err, types.ErrInvalidMetadata)
}

func TestMint(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry()
	creator := newAddress(t)
	holder := newAddress(t)

	collection, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "c"})
	assert.NoError(err)

	item, err := r.Mint(creator, &types.MintTx{
		CollectionID: collection.ID,
		Recipient:    holder,
		Metadata:     []byte(`{"rarity":"legendary"}`),
	})
	assert.NoError(err)
	assert.Equal(uint64(1), item.ItemID)
	assert.Equal(holder, item.Owner)
	assert.False(item.Burned)

	// Item ids keep counting within the collection.
	item, err = r.Mint(creator, &types.MintTx{CollectionID: collection.ID, Recipient: holder})
	assert.NoError(err)
	assert.Equal(uint64(2), item.ItemID)

	got, err := r.GetCollection(collection.ID)
	assert.NoError(err)
	assert.Equal(uint64(2), got.ItemCounter)
}

func TestMintRejections(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry()
	creator := newAddress(t)
	other := newAddress(t)

	collection, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "c"})
	assert.NoError(err)

	_, err = r.Mint(creator, &types.MintTx{CollectionID: 99, Recipient: other})
	assert.ErrorIs(err, types.ErrUnknownCollection)

	_, err = r.Mint(other, &types.MintTx{CollectionID: collection.ID, Recipient: other})
	assert.ErrorIs(err, types.ErrUnauthorized)

	_, err = r.Mint(creator, &types.MintTx{CollectionID: collection.ID, Recipient: "nonsense"})
	assert.ErrorIs(err, types.ErrInvalidAddress)

	_, err = r.Mint(creator, &types.MintTx{
		CollectionID: collection.ID,
		Recipient:    other,
		Metadata:     []byte("not json"),
	})
	assert.ErrorIs(err, types.ErrInvalidMetadata)

	// None of the rejected mints advanced the counter.
	got, err := r.GetCollection(collection.ID)
	assert.NoError(err)
	assert.Zero(got.ItemCounter)
}

func TestTransferItem(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry()
	creator := newAddress(t)
	alice := newAddress(t)
	bob := newAddress(t)

	collection, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "c"})
	assert.NoError(err)
	item, err := r.Mint(creator, &types.MintTx{CollectionID: collection.ID, Recipient: alice})
	assert.NoError(err)

	_, err = r.TransferItem(bob, &types.TransferItemTx{
		CollectionID: collection.ID,
		ItemID:       item.ItemID,
		To:           bob,
	})
	assert.ErrorIs(err, types.ErrNotOwner)

	moved, err := r.TransferItem(alice, &types.TransferItemTx{
		CollectionID: collection.ID,
		ItemID:       item.ItemID,
		To:           bob,
	})
	assert.NoError(err)
	assert.Equal(bob, moved.Owner)

	got, err := r.GetItem(collection.ID, item.ItemID)
	assert.NoError(err)
	assert.Equal(bob, got.Owner)

	_, err = r.TransferItem(alice, &types.TransferItemTx{
		CollectionID: collection.ID,
		ItemID:       42,
		To:           bob,
	})
	assert.ErrorIs(err, types.ErrUnknownItem)
}

func TestBurnIsTerminal(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry()
	creator := newAddress(t)
	alice := newAddress(t)

	collection, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "c"})
	assert.NoError(err)
	item, err := r.Mint(creator, &types.MintTx{CollectionID: collection.ID, Recipient: alice})
	assert.NoError(err)

	burned, err := r.BurnItem(alice, &types.BurnItemTx{CollectionID: collection.ID, ItemID: item.ItemID})
	assert.NoError(err)
	assert.True(burned.Burned)
	assert.Empty(burned.Owner)

	// The record survives as a tombstone.
	got, err := r.GetItem(collection.ID, item.ItemID)
	assert.NoError(err)
	assert.True(got.Burned)

	// No transfer and no second burn, by anyone.
	_, err = r.TransferItem(alice, &types.TransferItemTx{
		CollectionID: collection.ID,
		ItemID:       item.ItemID,
		To:           creator,
	})
	assert.ErrorIs(err, types.ErrItemBurned)
	_, err = r.BurnItem(alice, &types.BurnItemTx{CollectionID: collection.ID, ItemID: item.ItemID})
	assert.ErrorIs(err, types.ErrNotOwner)

	// The id is never reused: the next mint continues the sequence.
	next, err := r.Mint(creator, &types.MintTx{CollectionID: collection.ID, Recipient: alice})
	assert.NoError(err)
	assert.Equal(item.ItemID+1, next.ItemID)
}

func TestItemsByCollection(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry()
	creator := newAddress(t)
	alice := newAddress(t)

	a, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "a"})
	assert.NoError(err)
	b, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "b"})
	assert.NoError(err)

	for i := 0; i < 3; i++ {
		_, err = r.Mint(creator, &types.MintTx{CollectionID: a.ID, Recipient: alice})
		assert.NoError(err)
	}
	_, err = r.Mint(creator, &types.MintTx{CollectionID: b.ID, Recipient: alice})
	assert.NoError(err)

	items, err := r.ItemsByCollection(a.ID)
	assert.NoError(err)
	assert.Len(items, 3)
	for i, item := range items {
		assert.Equal(a.ID, item.CollectionID)
		assert.Equal(uint64(i+1), item.ItemID)
	}

	items, err = r.ItemsByCollection(999)
	assert.NoError(err)
	assert.Empty(items)
}

func TestItemsByOwnerSkipsBurnedAndTransferred(t *testing.T) {
	assert := assert.New(t)
	r := newTestRegistry()
	creator := newAddress(t)
	alice := newAddress(t)
	bob := newAddress(t)

	collection, err := r.CreateCollection(creator, &types.CreateCollectionTx{Name: "c"})
	assert.NoError(err)
	for i := 0; i < 3; i++ {
		_, err = r.Mint(creator, &types.MintTx{CollectionID: collection.ID, Recipient: alice})
		assert.NoError(err)
	}

	_, err = r.TransferItem(alice, &types.TransferItemTx{CollectionID: collection.ID, ItemID: 1, To: bob})
	assert.NoError(err)
	_, err = r.BurnItem(alice, &types.BurnItemTx{CollectionID: collection.ID, ItemID: 2})
	assert.NoError(err)

	items, err := r.ItemsByOwner(alice)
	assert.NoError(err)
	assert.Len(items, 1)
	assert.Equal(uint64(3), items[0].ItemID)

	items, err = r.ItemsByOwner(bob)
	assert.NoError(err)
	assert.Len(items, 1)
	assert.Equal(uint64(1), items[0].ItemID)
}
