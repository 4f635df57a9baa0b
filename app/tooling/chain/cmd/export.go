package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the chain as JSON.",
	RunE:  exportRun,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openState(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Shutdown()

	data, err := st.Export()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}
