// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/stretchr/testify/assert"
)

var testPrefix = []byte("state")

func newTestStore() (*versiondb.Database, *Store) {
	base := versiondb.New(memdb.New())
	return base, New(base, testPrefix)
}

func TestViewIsolation(t *testing.T) {
	assert := assert.New(t)
	_, store := newTestStore()

	view := store.NewView()
	assert.NoError(view.Put([]byte("k"), []byte("v")))

	// Staged writes are private to the view.
	has, err := store.Committed().Has([]byte("k"))
	assert.NoError(err)
	assert.False(has)

	assert.NoError(store.Apply(view))
	assert.NoError(store.Commit())

	got, err := store.Committed().Get([]byte("k"))
	assert.NoError(err)
	assert.Equal([]byte("v"), got)
}

func TestAbortedViewLeavesNoTrace(t *testing.T) {
	assert := assert.New(t)
	_, store := newTestStore()

	before, err := store.Root()
	assert.NoError(err)

	view := store.NewView()
	assert.NoError(view.Put([]byte("k"), []byte("v")))
	view.Abort()

	after, err := store.Root()
	assert.NoError(err)
	assert.Equal(before, after)
}

func TestRootDeterministic(t *testing.T) {
	assert := assert.New(t)

	write := func(store *Store, order [][2]string) {
		view := store.NewView()
		for _, kv := range order {
			assert.NoError(view.Put([]byte(kv[0]), []byte(kv[1])))
		}
		assert.NoError(store.Apply(view))
		assert.NoError(store.Commit())
	}

	_, a := newTestStore()
	_, b := newTestStore()
	write(a, [][2]string{{"x", "1"}, {"y", "2"}, {"z", "3"}})
	write(b, [][2]string{{"z", "3"}, {"x", "1"}, {"y", "2"}})

	rootA, err := a.Root()
	assert.NoError(err)
	rootB, err := b.Root()
	assert.NoError(err)
	assert.Equal(rootA, rootB)
}

func TestRootChangesWithContent(t *testing.T) {
	assert := assert.New(t)
	_, store := newTestStore()

	empty, err := store.Root()
	assert.NoError(err)

	view := store.NewView()
	assert.NoError(view.Put([]byte("k"), []byte("v")))
	assert.NoError(store.Apply(view))
	assert.NoError(store.Commit())

	after, err := store.Root()
	assert.NoError(err)
	assert.NotEqual(empty, after)
}

func TestViewReadsItsOwnWrites(t *testing.T) {
	assert := assert.New(t)
	_, store := newTestStore()

	view := store.NewView()
	assert.NoError(view.Put([]byte("k"), []byte("1")))
	got, err := view.Get([]byte("k"))
	assert.NoError(err)
	assert.Equal([]byte("1"), got)

	assert.NoError(view.Delete([]byte("k")))
	_, err = view.Get([]byte("k"))
	assert.ErrorIs(err, database.ErrNotFound)
}

func TestCommitFaultLeavesStateIntact(t *testing.T) {
	assert := assert.New(t)

	inner := memdb.New()
	faulty := &faultyDB{Database: inner}
	base := versiondb.New(faulty)
	store := New(base, testPrefix)

	// Establish some committed state.
	view := store.NewView()
	assert.NoError(view.Put([]byte("k"), []byte("v1")))
	assert.NoError(store.Apply(view))
	assert.NoError(store.Commit())

	before, err := store.Root()
	assert.NoError(err)

	// The next batch commit fails mid-flight.
	faulty.fail = true
	view = store.NewView()
	assert.NoError(view.Put([]byte("k"), []byte("v2")))
	assert.NoError(view.Put([]byte("k2"), []byte("v2")))
	assert.NoError(store.Apply(view))
	err = store.Commit()
	assert.ErrorIs(err, ErrStorageFault)

	// No partial writes are observable; the prior root is unchanged.
	faulty.fail = false
	after, err := store.Root()
	assert.NoError(err)
	assert.Equal(before, after)

	got, err := store.Committed().Get([]byte("k"))
	assert.NoError(err)
	assert.Equal([]byte("v1"), got)
	has, err := store.Committed().Has([]byte("k2"))
	assert.NoError(err)
	assert.False(has)
}

func TestPackUnpackUint64(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []uint64{0, 1, 255, 1 << 40, ^uint64(0)} {
		got, err := UnpackUint64(PackUint64(n))
		assert.NoError(err)
		assert.Equal(n, got)
	}
	_, err := UnpackUint64([]byte{1, 2, 3})
	assert.Error(err)
}

// faultyDB simulates an unrecoverable I/O fault on batch writes.
type faultyDB struct {
	database.Database
	fail bool
}

var errSimulatedFault = errors.New("simulated disk fault")

func (db *faultyDB) NewBatch() database.Batch {
	return &faultyBatch{Batch: db.Database.NewBatch(), db: db}
}

type faultyBatch struct {
	database.Batch
	db *faultyDB
}

func (b *faultyBatch) Write() error {
	if b.db.fail {
		return errSimulatedFault
	}
	return b.Batch.Write()
}
