package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// CreateGenesis mines and appends the genesis block. It fails with
// ErrChainNotEmpty if the chain already has blocks.
func (s *State) CreateGenesis(ctx context.Context) (database.Block, error) {
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	if s.Size() != 0 {
		return database.Block{}, ErrChainNotEmpty
	}

	s.evHandler("state: CreateGenesis: started")
	defer s.evHandler("state: CreateGenesis: completed")

	block, err := database.NewGenesisBlock(s.genesis.Content)
	if err != nil {
		return database.Block{}, err
	}

	if err := s.commit(ctx, &block, 0); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// Append builds a block with the specified content, linked to the latest
// block, mines it and adds it to the chain. It returns the block and the
// index it was committed at. The chain is left unchanged if mining or the
// write to storage fails.
func (s *State) Append(ctx context.Context, content string) (database.Block, int, error) {
	if strings.TrimSpace(content) == "" {
		return database.Block{}, 0, database.ErrEmptyContent
	}

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	latest, err := s.LatestBlock()
	if err != nil {
		return database.Block{}, 0, err
	}

	s.evHandler("state: Append: started: prevBlk[%s]", latest.Hash())
	defer s.evHandler("state: Append: completed")

	block, err := database.NewBlock(content, latest.Hash())
	if err != nil {
		return database.Block{}, 0, err
	}

	index := s.Size()
	if err := s.commit(ctx, &block, uint64(index)); err != nil {
		return database.Block{}, 0, err
	}

	return block, index, nil
}

// =============================================================================

// commit mines the block, writes it to storage and adds it to the chain.
// The caller must hold appendMu.
func (s *State) commit(ctx context.Context, block *database.Block, number uint64) error {
	if err := s.mine(ctx, block); err != nil {
		return err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.evHandler("state: commit: write to storage: blk[%d]: hash[%s]", number, block.Hash())

	if err := s.storage.Write(database.NewBlockData(*block, number, s.difficulty)); err != nil {
		return fmt.Errorf("writing block[%d]: %w", number, err)
	}

	s.mu.Lock()
	s.blocks = append(s.blocks, *block)
	s.mu.Unlock()

	return nil
}

// mine solves the proof of work with the configured miner.
func (s *State) mine(ctx context.Context, block *database.Block) error {
	start := time.Now()

	if s.pool == nil {
		if err := block.PerformPOW(ctx, s.difficulty, s.evHandler); err != nil {
			return err
		}
		s.recorder.BlockMined(ModeSequential, time.Since(start))
		return nil
	}

	if _, err := s.pool.Mine(ctx, block, s.difficulty); err != nil {
		return err
	}
	s.recorder.BlockMined(ModeConcurrent, time.Since(start))

	return nil
}
