package mining_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/mining"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Partition(t *testing.T) {
	t.Log("Given the need to split the nonce space across workers.")
	{
		for testID, workers := range []int{1, 2, 3, 4, 7, 16, 64} {
			t.Logf("\tTest %d:\tWhen using %d workers.", testID, workers)
			{
				ranges := mining.Partition(workers)
				if len(ranges) != workers {
					t.Fatalf("\t%s\tTest %d:\tShould get %d ranges, got %d.", failed, testID, workers, len(ranges))
				}
				t.Logf("\t%s\tTest %d:\tShould get %d ranges.", success, testID, workers)

				if ranges[0].Start != 0 {
					t.Fatalf("\t%s\tTest %d:\tShould start at nonce 0, got %d.", failed, testID, ranges[0].Start)
				}
				if ranges[workers-1].End != mining.MaxNonce {
					t.Fatalf("\t%s\tTest %d:\tShould end at MaxNonce, got %d.", failed, testID, ranges[workers-1].End)
				}
				t.Logf("\t%s\tTest %d:\tShould cover both ends of the nonce space.", success, testID)

				for i := 1; i < workers; i++ {
					if ranges[i].Start != ranges[i-1].End+1 {
						t.Fatalf("\t%s\tTest %d:\tShould have no gap or overlap between range %d and %d: %+v %+v", failed, testID, i-1, i, ranges[i-1], ranges[i])
					}
					if ranges[i].Start > ranges[i].End {
						t.Fatalf("\t%s\tTest %d:\tShould have a non empty range %d: %+v", failed, testID, i, ranges[i])
					}
				}
				t.Logf("\t%s\tTest %d:\tShould have contiguous ranges.", success, testID)

				size := ranges[0].Size()
				for i := 0; i < workers-1; i++ {
					if ranges[i].Size() != size {
						t.Fatalf("\t%s\tTest %d:\tShould have equal sized ranges, range %d has %d exp %d.", failed, testID, i, ranges[i].Size(), size)
					}
				}
				if workers > 1 && ranges[workers-1].Size() < size {
					t.Fatalf("\t%s\tTest %d:\tShould let the last range absorb the remainder.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould have equal sized ranges.", success, testID)
			}
		}

		if mining.Partition(0) != nil {
			t.Fatalf("\t%s\tShould get no ranges for 0 workers.", failed)
		}
	}
}

func Test_Mine(t *testing.T) {
	type table struct {
		name       string
		workers    int
		difficulty uint
	}

	tt := []table{
		{name: "single", workers: 1, difficulty: 2},
		{name: "pair", workers: 2, difficulty: 3},
		{name: "many", workers: 8, difficulty: 3},
	}

	t.Log("Given the need to mine blocks concurrently.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen mining with %d workers at difficulty %d.", testID, tst.workers, tst.difficulty)
			{
				f := func(t *testing.T) {
					var events atomic.Int64
					ev := func(v string, args ...any) { events.Add(1) }

					pool, err := mining.New(mining.Config{Workers: tst.workers, EvHandler: ev})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct a pool: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to construct a pool.", success, testID)

					b, err := database.NewBlock("Transaction with concurrent mining", signature.RootHash)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct block: %v", failed, testID, err)
					}

					nonce, err := pool.Mine(context.Background(), &b, tst.difficulty)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine block: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine block.", success, testID)

					if b.Nonce() != nonce {
						t.Fatalf("\t%s\tTest %d:\tShould apply the winning nonce, got %d exp %d.", failed, testID, b.Nonce(), nonce)
					}
					t.Logf("\t%s\tTest %d:\tShould apply the winning nonce.", success, testID)

					if !database.IsHashSolved(tst.difficulty, b.Hash()) || b.Hash() != b.ComputeHash() {
						t.Fatalf("\t%s\tTest %d:\tShould have a valid solved hash, got %s.", failed, testID, b.Hash())
					}
					t.Logf("\t%s\tTest %d:\tShould have a valid solved hash.", success, testID)

					if b.Status() != database.StatusMined {
						t.Fatalf("\t%s\tTest %d:\tShould mark the block mined, got %s.", failed, testID, b.Status())
					}
					t.Logf("\t%s\tTest %d:\tShould mark the block mined.", success, testID)

					if events.Load() == 0 {
						t.Fatalf("\t%s\tTest %d:\tShould report mining events.", failed, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_MineErrors(t *testing.T) {
	t.Log("Given the need to reject bad mining requests.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the worker count is not positive.", testID)
		{
			for _, workers := range []int{0, -1} {
				if _, err := mining.New(mining.Config{Workers: workers}); !errors.Is(err, mining.ErrInvalidWorkers) {
					t.Fatalf("\t%s\tTest %d:\tShould get ErrInvalidWorkers for %d, got %v.", failed, testID, workers, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrInvalidWorkers.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the difficulty is too high.", testID)
		{
			pool, _ := mining.New(mining.Config{Workers: 2})
			b, _ := database.NewBlock("data", signature.RootHash)

			if _, err := pool.Mine(context.Background(), &b, database.MaxDifficulty+1); !errors.Is(err, database.ErrInvalidDifficulty) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrInvalidDifficulty, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrInvalidDifficulty.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining is interrupted.", testID)
		{
			pool, _ := mining.New(mining.Config{Workers: 4, Grace: time.Second})
			b, _ := database.NewBlock("data", signature.RootHash)
			hash := b.Hash()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err := pool.Mine(ctx, &b, database.MaxDifficulty)
			if !errors.Is(err, mining.ErrMiningInterrupted) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrMiningInterrupted, got %v.", failed, testID, err)
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("\t%s\tTest %d:\tShould wrap the context error, got %v.", failed, testID, err)
			}
			if errors.Is(err, mining.ErrNoSolution) {
				t.Fatalf("\t%s\tTest %d:\tShould not report the interruption as no solution.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrMiningInterrupted.", success, testID)

			if b.Nonce() != 0 || b.Hash() != hash || b.Status() != database.StatusConstructed {
				t.Fatalf("\t%s\tTest %d:\tShould leave the block untouched.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the block untouched.", success, testID)
		}
	}
}
