// Package mining provides a pool of goroutines that search disjoint nonce
// ranges in parallel to solve the proof of work puzzle for a block.
package mining

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Set of errors returned by the pool.
var (
	ErrInvalidWorkers    = errors.New("worker count must be greater than 0")
	ErrMiningInterrupted = errors.New("mining was interrupted")
	ErrNoSolution        = database.ErrNonceExhausted
)

// DefaultGrace is how long the pool waits for workers to stop once a
// mining operation is over before giving up on them.
const DefaultGrace = 5 * time.Second

// pollInterval is how many nonces a worker tries between checks of the
// cancellation context. The solution flag is checked on every nonce.
const pollInterval = 4096

// =============================================================================

// Config represents the configuration required to construct a pool.
type Config struct {
	Workers   int
	Grace     time.Duration
	EvHandler database.EventHandler
}

// Pool mines blocks by splitting the nonce space across a fixed number of
// workers. The workers only exist for the duration of a call to Mine.
type Pool struct {
	workers   int
	grace     time.Duration
	evHandler database.EventHandler
}

// New constructs a pool for mining blocks.
func New(cfg Config) (*Pool, error) {
	if cfg.Workers <= 0 {
		return nil, ErrInvalidWorkers
	}

	grace := cfg.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	p := Pool{
		workers:   cfg.Workers,
		grace:     grace,
		evHandler: ev,
	}

	return &p, nil
}

// Workers returns the number of workers started for each mining operation.
func (p *Pool) Workers() int {
	return p.workers
}

// solution is the state shared between the workers of one mining operation.
// The flag is flipped at most once and only the worker that flips it stores
// its nonce and closes the solved channel.
type solution struct {
	found  atomic.Bool
	nonce  atomic.Uint64
	solved chan struct{}
}

// commit records the nonce if no other worker got there first.
func (s *solution) commit(nonce uint64) bool {
	if !s.found.CompareAndSwap(false, true) {
		return false
	}

	s.nonce.Store(nonce)
	close(s.solved)

	return true
}

// Mine searches for a nonce that solves the puzzle for the block at the
// specified difficulty. Which valid nonce is returned depends on which
// worker gets there first. The block is changed only after the search is
// over, when the winning nonce is applied.
func (p *Pool) Mine(ctx context.Context, block *database.Block, difficulty uint) (uint64, error) {
	if err := database.ValidateDifficulty(difficulty); err != nil {
		return 0, err
	}

	p.evHandler("mining: Mine: MINING: started: workers[%d]: difficulty[%d]", p.workers, difficulty)
	defer p.evHandler("mining: Mine: MINING: completed")

	start := time.Now()

	// Create a context so the workers can be told to stop.
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sol := solution{
		solved: make(chan struct{}),
	}

	// The workers get their own copy of the block so they can never observe
	// the nonce being applied at the end of the operation.
	blk := *block

	var wg sync.WaitGroup
	for id, r := range Partition(p.workers) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.search(wctx, id, blk, difficulty, r, &sol)
		}()
	}

	// This channel is closed if every worker returns without a solution.
	exhausted := make(chan struct{})
	go func() {
		wg.Wait()
		close(exhausted)
	}()

	select {
	case <-sol.solved:

	case <-ctx.Done():
		p.evHandler("mining: Mine: MINING: CANCELLED")
		cancel()
		p.shutdown(exhausted)
		return 0, fmt.Errorf("%w: %w", ErrMiningInterrupted, ctx.Err())

	case <-exhausted:

		// A worker could have committed right before returning.
		if !sol.found.Load() {
			return 0, ErrNoSolution
		}
	}

	cancel()
	p.shutdown(exhausted)

	nonce := sol.nonce.Load()
	block.ApplyNonce(nonce)

	p.evHandler("mining: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", block.PrevHash(), block.Hash())
	p.evHandler("mining: Mine: MINING: nonce[%d]: duration[%v]", nonce, time.Since(start))

	return nonce, nil
}

// search walks the range in increasing order until a solution is found by
// this or another worker, the context is cancelled or the range runs out.
func (p *Pool) search(ctx context.Context, id int, block database.Block, difficulty uint, r Range, sol *solution) {
	var attempts uint64
	for nonce := r.Start; ; nonce++ {
		if sol.found.Load() {
			return
		}

		attempts++
		if attempts%pollInterval == 0 && ctx.Err() != nil {
			return
		}

		if database.IsHashSolved(difficulty, block.ComputeHashWithNonce(nonce)) {
			if sol.commit(nonce) {
				p.evHandler("mining: search: MINING: worker[%d]: found nonce[%d]: attempts[%d]", id, nonce, attempts)
			}
			return
		}

		if nonce == r.End {
			p.evHandler("mining: search: MINING: worker[%d]: range exhausted", id)
			return
		}
	}
}

// shutdown waits a bounded amount of time for the workers to return. The
// workers have already been cancelled, so any still running will stop at
// their next poll without our help.
func (p *Pool) shutdown(done <-chan struct{}) {
	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	select {
	case <-done:
		p.evHandler("mining: shutdown: MINING: workers stopped")
	case <-timer.C:
		p.evHandler("mining: shutdown: MINING: WARNING: workers did not stop within %v, forced termination", p.grace)
	}
}
