// Package state is the core API for the chain and implements the rules for
// creating, appending and validating blocks.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/mining"
	"github.com/ardanlabs/powchain/foundation/validate"
)

// Set of errors returned by the state.
var (
	ErrChainEmpty    = errors.New("chain has no blocks")
	ErrChainNotEmpty = errors.New("chain already has a genesis block")
	ErrBlockNotFound = errors.New("block not found")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler = database.EventHandler

// Recorder represents the behavior required to record chain metrics.
type Recorder interface {
	BlockMined(mode string, duration time.Duration)
	ChainValidated(valid bool)
}

// Mining modes reported to the recorder.
const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
)

// =============================================================================

// Config represents the configuration required to start the chain. A Workers
// value of 0 mines on the calling goroutine, any other value mines with a
// pool of that many workers.
type Config struct {
	Difficulty uint             `json:"difficulty" validate:"min=1,max=10"`
	Workers    int              `json:"workers" validate:"gte=0"`
	Grace      time.Duration    `json:"grace" validate:"gte=0"`
	Genesis    genesis.Genesis  `json:"genesis" validate:"-"`
	Storage    database.Storage `json:"storage" validate:"required"`
	EvHandler  EventHandler     `json:"-"`
	Recorder   Recorder         `json:"-"`
}

// State manages the chain held in memory and its storage.
type State struct {
	difficulty uint
	genesis    genesis.Genesis
	evHandler  EventHandler
	recorder   Recorder
	storage    database.Storage
	pool       *mining.Pool

	// appendMu serializes appends so mining does not hold the lock
	// protecting the blocks.
	appendMu sync.Mutex
	mu       sync.RWMutex
	blocks   []database.Block
}

// New constructs the chain. Blocks found in storage are reconstructed
// without running the proof of work. If storage is empty the genesis block
// is mined and written.
func New(ctx context.Context, cfg Config) (*State, error) {
	if err := validate.Check(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	gen := cfg.Genesis
	if gen.Content == "" {
		gen = genesis.Default()
	}

	var pool *mining.Pool
	if cfg.Workers > 0 {
		var err error
		pool, err = mining.New(mining.Config{
			Workers:   cfg.Workers,
			Grace:     cfg.Grace,
			EvHandler: ev,
		})
		if err != nil {
			return nil, err
		}
	}

	state := State{
		difficulty: cfg.Difficulty,
		genesis:    gen,
		evHandler:  ev,
		recorder:   recorder,
		storage:    cfg.Storage,
		pool:       pool,
	}

	if err := state.load(); err != nil {
		return nil, err
	}

	if len(state.blocks) == 0 {
		if _, err := state.CreateGenesis(ctx); err != nil {
			return nil, err
		}
	}

	return &state, nil
}

// Shutdown cleanly brings the chain down.
func (s *State) Shutdown() error {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	// Wait for any append in flight.
	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	return s.storage.Close()
}

// load reads the blocks held in storage into memory.
func (s *State) load() error {
	blocksData, err := database.ReadAll(s.storage)
	if err != nil {
		return fmt.Errorf("reading storage: %w", err)
	}

	blocks := make([]database.Block, 0, len(blocksData))
	for _, blockData := range blocksData {
		block, err := database.ToBlock(blockData)
		if err != nil {
			return fmt.Errorf("block[%d]: %w", blockData.Number, err)
		}

		if blockData.Difficulty != s.difficulty {
			s.evHandler("state: load: WARNING: block[%d] mined at difficulty[%d], chain difficulty[%d]", blockData.Number, blockData.Difficulty, s.difficulty)
		}

		blocks = append(blocks, block)
	}

	s.evHandler("state: load: blocks[%d]", len(blocks))

	s.mu.Lock()
	s.blocks = blocks
	s.mu.Unlock()

	return nil
}

// =============================================================================

type nopRecorder struct{}

func (nopRecorder) BlockMined(string, time.Duration) {}
func (nopRecorder) ChainValidated(bool)              {}
