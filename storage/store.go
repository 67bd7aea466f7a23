// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage is the versioned key-value store underneath the modules.
// It layers staged, abortable views (versiondb) over a shared base so that a
// block's mutations are invisible until the single atomic batch commit, and
// it computes the deterministic state commitment used as the block's state
// root.
package storage

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// ErrStorageFault wraps unrecoverable I/O errors. A storage fault is fatal
// to the node: continuing with an uncertain state root risks divergence from
// other replicas.
var ErrStorageFault = errors.New("storage fault")

// Store owns one prefixed region of the node's database. Writes reach the
// region only through staged views; the base versiondb is the sole
// serialization point, so either every operation of a batch becomes visible
// or none do.
type Store struct {
	base *versiondb.Database
	db   database.Database
}

// New returns a Store over the [prefix] region of [base]. The caller keeps
// ownership of [base] and of flushing it; this lets block metadata and module
// state commit in one batch.
func New(base *versiondb.Database, prefix []byte) *Store {
	return &Store{
		base: base,
		db:   prefixdb.New(prefix, base),
	}
}

// Committed returns the region as of the last commit. External reads (the
// query boundary) go through this; staged views are never exposed.
func (s *Store) Committed() database.Database {
	return s.db
}

// NewView returns a staged, abortable overlay of the region. Reads through
// the view observe committed state plus the view's own writes, which gives
// in-block sequential visibility when one view spans a whole block.
func (s *Store) NewView() *versiondb.Database {
	return versiondb.New(s.db)
}

// Apply folds a staged view's operations into the base as pending writes.
// Nothing is durable until Commit.
func (s *Store) Apply(view *versiondb.Database) error {
	if err := view.Commit(); err != nil {
		s.base.Abort()
		return fmt.Errorf("%w: applying staged view: %s", ErrStorageFault, err)
	}
	return nil
}

// Commit flushes everything pending on the base database in one atomic
// batch. On failure the pending operations are discarded and the prior
// committed state remains fully intact.
func (s *Store) Commit() error {
	if err := s.base.Commit(); err != nil {
		s.base.Abort()
		return fmt.Errorf("%w: committing batch: %s", ErrStorageFault, err)
	}
	return nil
}

// Abort discards everything pending on the base database.
func (s *Store) Abort() {
	s.base.Abort()
}

// Root returns the current commitment over the region, including any pending
// writes on the base.
func (s *Store) Root() (ids.ID, error) {
	return Root(s.db)
}

// Root computes the deterministic digest of the full key space of [db]:
// SHA-256 over length-prefixed (key, value) pairs in lexicographic key
// order. Identical key spaces yield identical roots on every replica.
func Root(db database.Database) (ids.ID, error) {
	it := db.NewIterator()
	defer it.Release()

	h := sha256.New()
	lenBuf := make([]byte, wrappers.LongLen)
	for it.Next() {
		k, v := it.Key(), it.Value()
		binary.BigEndian.PutUint64(lenBuf, uint64(len(k)))
		h.Write(lenBuf)
		h.Write(k)
		binary.BigEndian.PutUint64(lenBuf, uint64(len(v)))
		h.Write(lenBuf)
		h.Write(v)
	}
	if err := it.Error(); err != nil {
		return ids.Empty, fmt.Errorf("%w: iterating state: %s", ErrStorageFault, err)
	}
	return ids.ToID(h.Sum(nil))
}

// PackUint64 encodes [n] big-endian, the canonical fixed-width key and value
// encoding for counters and balances.
func PackUint64(n uint64) []byte {
	b := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// UnpackUint64 decodes a big-endian uint64 written by PackUint64.
func UnpackUint64(b []byte) (uint64, error) {
	if len(b) != wrappers.LongLen {
		return 0, fmt.Errorf("expected %d bytes, got %d", wrappers.LongLen, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}
