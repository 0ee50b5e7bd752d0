package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mrdocs/internal/lookup"
	"mrdocs/internal/serialize"
	"mrdocs/internal/symbolid"
)

var serveLookupCmd = &cobra.Command{
	Use:   "serve-lookup <store>",
	Short: "Resolve qualified names against a persisted symbol store, one per stdin line",
	Long: `serve-lookup reads a persisted symbol store and then, for each line of
stdin of the form "<context-id> <name>", resolves name within that context
using the core's C++-aware lookup engine and prints the resolved id or an
error, one result per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runServeLookup,
}

func init() {
	rootCmd.AddCommand(serveLookupCmd)
}

func runServeLookup(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening symbol store: %w", err)
	}
	store, err := serialize.Read(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading symbol store: %w", err)
	}

	engine := lookup.NewEngine(store)
	out := cmd.OutOrStdout()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ctxID, name, ok := splitQuery(line)
		if !ok {
			fmt.Fprintf(out, "error: malformed query %q\n", line)
			continue
		}
		resolved, err := engine.Resolve(ctxID, name)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err.Error())
			continue
		}
		fmt.Fprintln(out, resolved.String())
	}
	return scanner.Err()
}

func splitQuery(line string) (symbolid.ID, string, bool) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) != 2 {
		return symbolid.Invalid, "", false
	}
	ctxID, err := symbolid.Parse(parts[0])
	if err != nil {
		return symbolid.Invalid, "", false
	}
	return ctxID, parts[1], true
}
