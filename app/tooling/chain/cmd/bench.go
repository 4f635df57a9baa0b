package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/badger"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/memory"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare sequential and concurrent mining of the same content.",
	RunE:  benchRun,
}

var benchBlocks int

// ErrInvalidBlocks is returned when the benchmark is asked to mine no blocks.
var ErrInvalidBlocks = errors.New("blocks must be at least 1")

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVarP(&benchBlocks, "blocks", "b", 3, "Blocks to mine in each run.")
}

type benchRunConfig struct {
	name    string
	workers int
	storage func() (database.Storage, error)
}

func benchRun(cmd *cobra.Command, args []string) error {
	if benchBlocks < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBlocks, benchBlocks)
	}

	w := cmd.OutOrStdout()

	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return fmt.Errorf("loading genesis: %w", err)
	}

	d := difficulty
	if d == 0 {
		d = gen.Difficulty
	}

	n := workers
	if n == 0 {
		n = runtime.NumCPU()
	}

	inMemory := func() (database.Storage, error) { return memory.New() }
	persistent := func() (database.Storage, error) { return badger.New(badger.Config{InMemory: true}) }

	runs := []benchRunConfig{
		{name: "sequential", workers: 0, storage: inMemory},
		{name: fmt.Sprintf("concurrent[%d]", n), workers: n, storage: inMemory},
		{name: fmt.Sprintf("persistent[%d]", n), workers: n, storage: persistent},
	}

	fmt.Fprintln(w, "=== MINING BENCHMARK ===")
	fmt.Fprintf(w, "Difficulty: %d  Blocks: %d\n\n", d, benchBlocks)

	for _, run := range runs {
		elapsed, err := benchOne(cmd.Context(), run, d, gen)
		if err != nil {
			return fmt.Errorf("%s: %w", run.name, err)
		}

		fmt.Fprintf(w, "%-16s %12v  %12v/block\n", run.name, elapsed.Round(time.Millisecond), (elapsed / time.Duration(benchBlocks)).Round(time.Microsecond))
	}

	fmt.Fprintln(w, "\nAll runs completed successfully! \u2713")

	return nil
}

func benchOne(ctx context.Context, run benchRunConfig, d uint, gen genesis.Genesis) (time.Duration, error) {
	strg, err := run.storage()
	if err != nil {
		return 0, err
	}

	st, err := state.New(ctx, state.Config{
		Difficulty: d,
		Workers:    run.workers,
		Genesis:    gen,
		Storage:    strg,
		EvHandler:  evHandler(),
	})
	if err != nil {
		strg.Close()
		return 0, err
	}
	defer st.Shutdown()

	start := time.Now()
	for i := range benchBlocks {
		if _, _, err := st.Append(ctx, fmt.Sprintf("Benchmark transaction %d", i+1)); err != nil {
			return 0, err
		}
	}
	elapsed := time.Since(start)

	if valid, violation := st.Validate(); !valid {
		return 0, violation
	}

	return elapsed, nil
}
