package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mrdocs/internal/serialize"
)

var checkCmd = &cobra.Command{
	Use:   "check <store>",
	Short: "Validate a persisted symbol store without serving lookups",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening symbol store: %w", err)
	}
	defer f.Close()

	store, err := serialize.Read(f)
	if err != nil {
		return fmt.Errorf("reading symbol store: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d symbols\n", store.Len())
	return nil
}
