// Package cmd contains the chain tooling commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage"
	"github.com/ardanlabs/powchain/foundation/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	difficulty  uint
	workers     int
	storageKind string
	storagePath string
	genesisPath string
	verbose     bool
)

// log is only constructed when verbose output is requested.
var log *zap.SugaredLogger

func init() {
	rootCmd.PersistentFlags().UintVarP(&difficulty, "difficulty", "d", 0, "Leading zeros required in a block hash, 0 uses the genesis file.")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Number of mining workers, 0 mines on a single goroutine.")
	rootCmd.PersistentFlags().StringVarP(&storageKind, "storage", "s", storage.KindMemory, fmt.Sprintf("Storage kind, one of %v.", storage.Kinds))
	rootCmd.PersistentFlags().StringVarP(&storagePath, "path", "p", "zblock/blocks", "Path to the storage.")
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "zblock/genesis.json", "Path to the genesis file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log mining events.")
}

var rootCmd = &cobra.Command{
	Use:           "chain",
	Short:         "Mine, inspect and validate a proof of work chain.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			log = nil
			return nil
		}

		var err error
		log, err = logger.New("CHAIN", "stderr")
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

// Execute runs the command specified on the command line.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================

// evHandler adapts the logger to the events produced by the chain.
func evHandler() state.EventHandler {
	if log == nil {
		return nil
	}

	return func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
	}
}

// openState constructs the chain using the persistent flags.
func openState(ctx context.Context) (*state.State, error) {
	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return nil, fmt.Errorf("loading genesis: %w", err)
	}

	d := difficulty
	if d == 0 {
		d = gen.Difficulty
	}

	strg, err := storage.Open(storage.Config{Kind: storageKind, Path: storagePath})
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	st, err := state.New(ctx, state.Config{
		Difficulty: d,
		Workers:    workers,
		Genesis:    gen,
		Storage:    strg,
		EvHandler:  evHandler(),
	})
	if err != nil {
		strg.Close()
		return nil, err
	}

	return st, nil
}

// printStats writes a summary of the chain.
func printStats(w io.Writer, st *state.State) {
	stats := st.Stats()

	fmt.Fprintln(w, "=== CHAIN STATISTICS ===")
	fmt.Fprintf(w, "Total blocks: %d\n", stats.Blocks)
	fmt.Fprintf(w, "Mining difficulty: %d\n", stats.Difficulty)
	fmt.Fprintf(w, "Mining workers: %d\n", stats.Workers)
	fmt.Fprintf(w, "Average nonce: %.0f\n", stats.AverageNonce)
	fmt.Fprintf(w, "Latest block hash: %s\n", stats.LatestHash)
	fmt.Fprintf(w, "Genesis block hash: %s\n", stats.GenesisHash)
	fmt.Fprint(w, "========================\n\n")
}

// printBlock writes the details of a single block.
func printBlock(w io.Writer, index int, st *state.State) error {
	blk, err := st.Block(index)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Block #%d:\n", index)
	fmt.Fprintf(w, "  Content: %s\n", blk.Content())
	fmt.Fprintf(w, "  Hash: %s\n", blk.Hash())
	fmt.Fprintf(w, "  Previous Hash: %s\n", blk.PrevHash())
	fmt.Fprintf(w, "  Nonce: %d\n", blk.Nonce())
	fmt.Fprintf(w, "  Timestamp: %d\n", blk.TimeStamp())
	fmt.Fprintf(w, "  Status: %s\n\n", blk.Status())

	return nil
}

// printValidation writes the result of validating the chain and returns
// the violation when the chain is invalid.
func printValidation(w io.Writer, st *state.State) error {
	fmt.Fprintln(w, "=== CHAIN VALIDATION ===")
	defer fmt.Fprint(w, "========================\n\n")

	valid, violation := st.Validate()
	if !valid {
		fmt.Fprintf(w, "Chain integrity check: \u2717 INVALID\n%s\n", violation)
		return violation
	}

	fmt.Fprintln(w, "Chain integrity check: \u2713 VALID")
	fmt.Fprintln(w, "All blocks are properly linked and mined!")

	return nil
}
