package database

import (
	"context"
	"math"
	"time"
)

// EventHandler defines a function that is called when events occur while
// mining or validating blocks.
type EventHandler func(v string, args ...any)

// PerformPOW does the work of mining to find a valid hash for the block.
// The nonce is incremented by 1 starting from the current nonce until the
// hash has a difficulty number of leading 0's, so the smallest qualifying
// nonce is always found. Pointer semantics are being used since a nonce is
// being discovered. The block is only changed once a solution is found.
func (b *Block) PerformPOW(ctx context.Context, difficulty uint, ev EventHandler) error {
	if err := ValidateDifficulty(difficulty); err != nil {
		return err
	}

	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("database: PerformPOW: MINING: started: difficulty[%d]", difficulty)
	defer ev("database: PerformPOW: MINING: completed")

	start := time.Now()
	nonce := b.nonce

	var attempts uint64
	for {
		attempts++

		if difficulty >= 5 && attempts%100_000 == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", attempts)
		}

		// Did we get asked to stop trying to solve the problem.
		if attempts%4096 == 0 && ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.ComputeHashWithNonce(nonce)
		if IsHashSolved(difficulty, hash) {
			break
		}

		if nonce == math.MaxUint64 {
			return ErrNonceExhausted
		}
		nonce++
	}

	b.ApplyNonce(nonce)

	ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.prevHash, b.hash)
	ev("database: PerformPOW: MINING: nonce[%d]: attempts[%d]: duration[%v]", b.nonce, attempts, time.Since(start))

	return nil
}
