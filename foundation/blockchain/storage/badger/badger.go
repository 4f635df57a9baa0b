// Package badger implements the ability to read and write blocks to a
// BadgerDB key-value store.
package badger

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	badgerdb "github.com/dgraph-io/badger/v3"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// ErrNotFound is returned when a block number is not in the store.
var ErrNotFound = errors.New("block not found")

// keyPrefix namespaces the block keys inside the store.
var keyPrefix = []byte("blk:")

// Config represents the settings for opening the store. An empty Path or
// InMemory set to true keeps everything in memory.
type Config struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

// Badger represents the storage implementation for reading and storing
// blocks in BadgerDB. Each block is stored under a key built from its
// number so keys sort in chain order. This implements the database.Storage
// interface.
type Badger struct {
	db *badgerdb.DB
}

// New opens the store described by the config.
func New(cfg Config) (*Badger, error) {
	var opts badgerdb.Options

	switch {
	case cfg.InMemory || cfg.Path == "":
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	default:
		if err := os.MkdirAll(cfg.Path, 0700); err != nil {
			return nil, err
		}
		opts = badgerdb.DefaultOptions(cfg.Path).WithSyncWrites(cfg.SyncWrites)
	}

	db, err := badgerdb.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}

	return &Badger{db: db}, nil
}

// Close flushes and closes the store.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Write stores the block under its number. A block that already exists is
// never overwritten.
func (b *Badger) Write(blockData database.BlockData) error {
	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	key := blockKey(blockData.Number)

	return b.db.Update(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return fmt.Errorf("block %d already exists", blockData.Number)
		case !errors.Is(err, badgerdb.ErrKeyNotFound):
			return err
		}

		return txn.Set(key, data)
	})
}

// GetBlock returns the block stored at the specified number.
func (b *Badger) GetBlock(num uint64) (database.BlockData, error) {
	var blockData database.BlockData

	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(blockKey(num))
		if err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &blockData)
		})
	})
	if err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block number 0.
func (b *Badger) ForEach() database.Iterator {
	return &badgerIterator{store: b}
}

// Reset removes every block from the store.
func (b *Badger) Reset() error {
	return b.db.DropPrefix(keyPrefix)
}

// blockKey builds the big endian key for the block number.
func blockKey(num uint64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], num)
	return key
}

// =============================================================================

// badgerIterator walks the blocks in number order. This implements the
// database Iterator interface.
type badgerIterator struct {
	store   *Badger
	current uint64
	eoc     bool
}

// Next retrieves the next block from the store.
func (bi *badgerIterator) Next() (database.BlockData, error) {
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
func (bi *badgerIterator) Done() bool {
	return bi.eoc
}
