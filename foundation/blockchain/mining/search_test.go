package mining

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// recorder keeps every event the pool reports.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) handler(v string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(v, args...))
}

func (r *recorder) contains(s string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, evt := range r.events {
		if strings.Contains(evt, s) {
			return true
		}
	}
	return false
}

// =============================================================================

func Test_Search(t *testing.T) {
	t.Log("Given the need for workers to search their nonce range.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the range holds no solution.", testID)
		{
			pool, err := New(Config{Workers: 1})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a pool: %v", failed, testID, err)
			}

			b, _ := database.NewBlock("data", signature.RootHash)
			sol := solution{solved: make(chan struct{})}

			pool.search(context.Background(), 0, b, database.MaxDifficulty, Range{Start: 0, End: 15}, &sol)

			if sol.found.Load() {
				t.Fatalf("\t%s\tTest %d:\tShould not find a difficulty %d solution in 16 nonces.", failed, testID, database.MaxDifficulty)
			}
			t.Logf("\t%s\tTest %d:\tShould return once the range is exhausted.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen two workers commit a solution.", testID)
		{
			sol := solution{solved: make(chan struct{})}

			if !sol.commit(7) {
				t.Fatalf("\t%s\tTest %d:\tShould accept the first solution.", failed, testID)
			}
			if sol.commit(9) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a second solution.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould accept only the first solution.", success, testID)

			select {
			case <-sol.solved:
			default:
				t.Fatalf("\t%s\tTest %d:\tShould signal the solution.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould signal the solution.", success, testID)

			if n := sol.nonce.Load(); n != 7 {
				t.Fatalf("\t%s\tTest %d:\tShould keep the first nonce, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the first nonce.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen another worker already found a solution.", testID)
		{
			pool, _ := New(Config{Workers: 1})
			b, _ := database.NewBlock("data", signature.RootHash)

			sol := solution{solved: make(chan struct{})}
			sol.commit(1)

			// At difficulty 0 every nonce solves, so a worker that ignored the
			// flag would try to commit and the stored nonce would still be 1.
			pool.search(context.Background(), 0, b, 0, Range{Start: 100, End: 200}, &sol)

			if n := sol.nonce.Load(); n != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not replace the committed nonce, got %d.", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould stop without searching.", success, testID)
		}
	}
}

func Test_Shutdown(t *testing.T) {
	t.Log("Given the need to stop the workers after mining.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the workers stop in time.", testID)
		{
			var rec recorder
			pool, _ := New(Config{Workers: 2, Grace: time.Second, EvHandler: rec.handler})

			done := make(chan struct{})
			close(done)

			pool.shutdown(done)

			if !rec.contains("workers stopped") || rec.contains("forced termination") {
				t.Fatalf("\t%s\tTest %d:\tShould report a graceful stop, got %v.", failed, testID, rec.events)
			}
			t.Logf("\t%s\tTest %d:\tShould report a graceful stop.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the workers never stop.", testID)
		{
			const grace = 20 * time.Millisecond

			var rec recorder
			pool, _ := New(Config{Workers: 2, Grace: grace, EvHandler: rec.handler})

			// This channel is never closed.
			done := make(chan struct{})

			start := time.Now()
			pool.shutdown(done)
			elapsed := time.Since(start)

			if elapsed < grace || elapsed > grace+2*time.Second {
				t.Fatalf("\t%s\tTest %d:\tShould return after the grace period, took %v.", failed, testID, elapsed)
			}
			t.Logf("\t%s\tTest %d:\tShould return after the grace period.", success, testID)

			if !rec.contains("forced termination") {
				t.Fatalf("\t%s\tTest %d:\tShould report the forced termination, got %v.", failed, testID, rec.events)
			}
			t.Logf("\t%s\tTest %d:\tShould report the forced termination.", success, testID)
		}
	}
}
