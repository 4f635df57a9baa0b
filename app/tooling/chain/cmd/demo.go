package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Append a set of sample transfers and report on the chain.",
	RunE:  demoRun,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

// transfers is the sample content appended by the demo.
var transfers = []string{
	"Alice sends 50 coins to Bob",
	"Bob sends 25 coins to Charlie",
	"Charlie sends 10 coins to David",
	"David sends 5 coins back to Alice",
}

func demoRun(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "    PROOF OF WORK CHAIN DEMONSTRATION   ")
	fmt.Fprint(w, "========================================\n\n")

	st, err := openState(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Shutdown()

	fmt.Fprint(w, "Adding sample transactions to the chain...\n\n")

	for _, content := range transfers {
		if _, _, err := st.Append(cmd.Context(), content); err != nil {
			return fmt.Errorf("appending %q: %w", content, err)
		}
	}

	printStats(w, st)

	if err := printValidation(w, st); err != nil {
		return err
	}

	fmt.Fprintln(w, "=== BLOCK DETAILS ===")
	for i := range st.Size() {
		if err := printBlock(w, i, st); err != nil {
			return err
		}
	}

	data, err := st.Export()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "=== COMPLETE CHAIN (JSON) ===")
	fmt.Fprintln(w, string(data))

	return nil
}
