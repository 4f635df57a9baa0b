// Package memory implements the ability to read and write blocks to memory
// using a slice.
package memory

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Memory represents the storage implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []database.BlockData
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Write appends the block to the slice. Blocks must be written in chain
// order starting with the genesis block at number 0.
func (m *Memory) Write(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uint64(len(m.blocks)) != blockData.Number {
		return fmt.Errorf("block is out of order, got %d, exp %d", blockData.Number, len(m.blocks))
	}

	m.blocks = append(m.blocks, blockData)

	return nil
}

// GetBlock returns the block stored at the specified number.
func (m *Memory) GetBlock(num uint64) (database.BlockData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num >= uint64(len(m.blocks)) {
		return database.BlockData{}, false
	}

	return m.blocks[num], true
}

// Update replaces the block stored at the specified number. It exists so
// tools and tests can simulate tampering with a stored chain.
func (m *Memory) Update(blockData database.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if blockData.Number >= uint64(len(m.blocks)) {
		return fmt.Errorf("block %d does not exist", blockData.Number)
	}

	m.blocks[blockData.Number] = blockData
	return nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block number 0.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the blockchain in memory.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the blocks in memory. This implements the database
// Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from memory.
func (mi *memoryIterator) Next() (database.BlockData, error) {
	if mi.eoc {
		return database.BlockData{}, nil
	}

	blockData, exists := mi.storage.GetBlock(mi.current)
	if !exists {
		mi.eoc = true
		return database.BlockData{}, nil
	}

	mi.current++

	return blockData, nil
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
