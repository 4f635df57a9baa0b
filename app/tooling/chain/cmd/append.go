package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var appendCmd = &cobra.Command{
	Use:   "append <content>",
	Short: "Mine a block with the content and append it to the chain.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  appendRun,
}

func init() {
	rootCmd.AddCommand(appendCmd)
}

func appendRun(cmd *cobra.Command, args []string) error {
	st, err := openState(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Shutdown()

	if _, _, err := st.Append(cmd.Context(), strings.Join(args, " ")); err != nil {
		return err
	}

	return printBlock(cmd.OutOrStdout(), st.Size()-1, st)
}
