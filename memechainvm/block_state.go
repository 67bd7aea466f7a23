// (c) 2024, MemeChain developers. All rights reserved.
// See the file LICENSE for licensing terms.

package memechainvm

import (
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/Dipraise1/MEMEBLOCKCHAIN/types"
)

const blockCacheSize = 2048

var lastAcceptedKey = []byte("lastAccepted")

// blockState stores accepted blocks: bytes by ID, an ID-by-height index, and
// the last accepted pointer. All writes land on the VM's shared versiondb, so
// they commit atomically with module state.
type blockState struct {
	blkCache cache.Cacher[ids.ID, interface{}]

	blockDB    database.Database
	heightDB   database.Database
	acceptedDB database.Database
}

func newBlockState(db database.Database) *blockState {
	return &blockState{
		blkCache:   &cache.LRU[ids.ID, interface{}]{Size: blockCacheSize},
		blockDB:    prefixdb.New(blockPrefix, db),
		heightDB:   prefixdb.New(heightPrefix, db),
		acceptedDB: prefixdb.New(acceptedPrefix, db),
	}
}

// GetBlock returns the stored block bytes parsed into a Block. The caller
// fills in the runtime fields.
func (s *blockState) GetBlock(blkID ids.ID) (*Block, error) {
	if blkIntf, cached := s.blkCache.Get(blkID); cached {
		if blkIntf == nil {
			return nil, database.ErrNotFound
		}
		return blkIntf.(*Block), nil
	}

	blkBytes, err := s.blockDB.Get(blkID[:])
	if err == database.ErrNotFound {
		s.blkCache.Put(blkID, nil)
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	blk := &Block{}
	version, err := types.Codec.Unmarshal(blkBytes, blk)
	if err != nil {
		return nil, err
	}
	if version != types.CodecVersion {
		return nil, fmt.Errorf("block %s has unknown codec version %d", blkID, version)
	}

	blk.bytes = blkBytes
	blk.id = blkID
	s.blkCache.Put(blkID, blk)
	return blk, nil
}

func (s *blockState) PutBlock(blk *Block) error {
	if err := s.blockDB.Put(blk.id[:], blk.bytes); err != nil {
		return err
	}
	if err := s.heightDB.Put(heightKey(blk.Hght), blk.id[:]); err != nil {
		return err
	}
	s.blkCache.Put(blk.id, blk)
	return nil
}

func (s *blockState) GetBlockIDAtHeight(height uint64) (ids.ID, error) {
	blkIDBytes, err := s.heightDB.Get(heightKey(height))
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(blkIDBytes)
}

func (s *blockState) GetLastAccepted() (ids.ID, error) {
	blkIDBytes, err := s.acceptedDB.Get(lastAcceptedKey)
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(blkIDBytes)
}

func (s *blockState) SetLastAccepted(blkID ids.ID) error {
	return s.acceptedDB.Put(lastAcceptedKey, blkID[:])
}

func heightKey(height uint64) []byte {
	b := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(b, height)
	return b
}
