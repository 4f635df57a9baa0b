package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Stats is a summary of the chain.
type Stats struct {
	Blocks       int     `json:"blocks"`
	Difficulty   uint    `json:"difficulty"`
	Workers      int     `json:"workers"`
	GenesisHash  string  `json:"genesis_hash"`
	LatestHash   string  `json:"latest_hash"`
	FirstTime    int64   `json:"first_timestamp"`
	LatestTime   int64   `json:"latest_timestamp"`
	AverageNonce float64 `json:"average_nonce"`
}

// Difficulty returns the difficulty every block must satisfy.
func (s *State) Difficulty() uint {
	return s.difficulty
}

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Size returns the number of blocks in the chain.
func (s *State) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blocks)
}

// LatestBlock returns a copy of the last block in the chain.
func (s *State) LatestBlock() (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.blocks) == 0 {
		return database.Block{}, ErrChainEmpty
	}

	return s.blocks[len(s.blocks)-1], nil
}

// Block returns a copy of the block at the specified index.
func (s *State) Block(index int) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.blocks) {
		return database.Block{}, ErrBlockNotFound
	}

	return s.blocks[index], nil
}

// Blocks returns a copy of the blocks in chain order.
func (s *State) Blocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := make([]database.Block, len(s.blocks))
	copy(blocks, s.blocks)

	return blocks
}

// Stats returns a summary of the chain.
func (s *State) Stats() Stats {
	blocks := s.Blocks()

	workers := 0
	if s.pool != nil {
		workers = s.pool.Workers()
	}

	stats := Stats{
		Blocks:     len(blocks),
		Difficulty: s.difficulty,
		Workers:    workers,
	}

	if len(blocks) == 0 {
		return stats
	}

	var nonces float64
	for _, block := range blocks {
		nonces += float64(block.Nonce())
	}

	stats.GenesisHash = blocks[0].Hash()
	stats.LatestHash = blocks[len(blocks)-1].Hash()
	stats.FirstTime = blocks[0].TimeStamp()
	stats.LatestTime = blocks[len(blocks)-1].TimeStamp()
	stats.AverageNonce = nonces / float64(len(blocks))

	return stats
}

// Export produces a human readable JSON document of the chain.
func (s *State) Export() ([]byte, error) {
	return database.Marshal(s.Blocks())
}
