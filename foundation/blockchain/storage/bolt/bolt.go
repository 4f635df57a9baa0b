// Package bolt implements the ability to read and write blocks to a BoltDB
// file.
package bolt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	boltdb "go.etcd.io/bbolt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// ErrNotFound is returned when a block number is not in the file.
var ErrNotFound = errors.New("block not found")

// blocksBucket is the bucket holding every block keyed by number.
var blocksBucket = []byte("blocks")

// Bolt represents the storage implementation for reading and storing blocks
// in a single BoltDB file. This implements the database.Storage interface.
type Bolt struct {
	db *boltdb.DB
}

// New opens or creates the BoltDB file at the specified path.
func New(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := boltdb.Open(path, 0600, &boltdb.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt: %w", err)
	}

	err = db.Update(func(tx *boltdb.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blocksBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close releases the file lock and closes the file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Write stores the block under its number. A block that already exists is
// never overwritten.
func (b *Bolt) Write(blockData database.BlockData) error {
	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	key := blockKey(blockData.Number)

	return b.db.Update(func(tx *boltdb.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(blocksBucket)
		if err != nil {
			return err
		}

		if bkt.Get(key) != nil {
			return fmt.Errorf("block %d already exists", blockData.Number)
		}

		return bkt.Put(key, data)
	})
}

// GetBlock returns the block stored at the specified number.
func (b *Bolt) GetBlock(num uint64) (database.BlockData, error) {
	var blockData database.BlockData

	err := b.db.View(func(tx *boltdb.Tx) error {
		bkt := tx.Bucket(blocksBucket)
		if bkt == nil {
			return ErrNotFound
		}

		// The value is only valid for the life of the transaction so it
		// is decoded in here.
		val := bkt.Get(blockKey(num))
		if val == nil {
			return ErrNotFound
		}

		return json.Unmarshal(val, &blockData)
	})
	if err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block number 0.
func (b *Bolt) ForEach() database.Iterator {
	return &boltIterator{store: b}
}

// Reset removes every block from the file.
func (b *Bolt) Reset() error {
	return b.db.Update(func(tx *boltdb.Tx) error {
		if err := tx.DeleteBucket(blocksBucket); err != nil && !errors.Is(err, boltdb.ErrBucketNotFound) {
			return err
		}

		_, err := tx.CreateBucket(blocksBucket)
		return err
	})
}

// blockKey builds the big endian key for the block number.
func blockKey(num uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, num)
	return key
}

// =============================================================================

// boltIterator walks the blocks in number order. This implements the
// database Iterator interface.
type boltIterator struct {
	store   *Bolt
	current uint64
	eoc     bool
}

// Next retrieves the next block from the file.
func (bi *boltIterator) Next() (database.BlockData, error) {
	if bi.eoc {
		return database.BlockData{}, nil
	}

	blockData, err := bi.store.GetBlock(bi.current)
	if errors.Is(err, ErrNotFound) {
		bi.eoc = true
		return database.BlockData{}, nil
	}
	if err != nil {
		return database.BlockData{}, err
	}

	bi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (bi *boltIterator) Done() bool {
	return bi.eoc
}
