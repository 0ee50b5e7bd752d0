package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mrdocs/internal/config"
	"mrdocs/internal/corpus"
	"mrdocs/internal/finalizer"
	"mrdocs/internal/frontend"
	"mrdocs/internal/legible"
	"mrdocs/internal/logging"
	"mrdocs/internal/serialize"
	"mrdocs/internal/symbol"
)

var (
	buildCompileCommands string
	buildSCIPIndex        string
	buildOut              string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Extract and finalize a symbol store from a compilation database",
	Long: `Extract runs every entry of a clang-style compile_commands.json file through
the SCIP-backed front-end, merges the results into a symbol store, runs the five
finalizer passes in order, and writes the persisted symbol store to --out.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildCompileCommands, "compile-commands", "compile_commands.json", "path to the compilation database")
	buildCmd.Flags().StringVar(&buildSCIPIndex, "scip", "index.scip", "path to the SCIP index covering the same sources")
	buildCmd.Flags().StringVar(&buildOut, "out", "mrdocs.symbols", "output path for the persisted symbol store")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	repoRoot := "."
	cfg, err := config.Load(repoRoot)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.LogFormat),
		Level:  logging.LogLevel(cfg.LogLevel),
	})

	entries, err := loadCompilationDatabase(buildCompileCommands)
	if err != nil {
		return fmt.Errorf("loading compilation database: %w", err)
	}

	src, err := frontend.NewSCIPSource(buildSCIPIndex)
	if err != nil {
		return fmt.Errorf("loading SCIP index: %w", err)
	}

	store := corpus.NewStore()
	builder := corpus.NewBuilder(store, frontend.AsExtractor(src), func() corpus.VFS {
		return &frontend.FixtureVFS{}
	}, logger, corpus.BuilderConfig{
		ThreadCount:    cfg.ThreadCount,
		IgnoreFailures: cfg.IgnoreFailures,
		IncludeFiles:   cfg.IncludeFiles,
		ExcludeFiles:   cfg.ExcludeFiles,
		IncludeSymbols: cfg.IncludeSymbols,
		ExcludeSymbols: cfg.ExcludeSymbols,
	})

	if err := builder.Build(context.Background(), entries); err != nil {
		if !cfg.IgnoreFailures {
			return fmt.Errorf("extraction failed: %w", err)
		}
		logger.Warn("extraction reported failures; continuing because ignore-failures is set", map[string]interface{}{
			"error": err.Error(),
		})
	}

	orchConfig := finalizer.DefaultConfig()
	orchConfig.Overloads = cfg.Overloads
	switch cfg.InheritBaseMembers {
	case config.InheritAlways:
		orchConfig.InheritBaseMembers = finalizer.InheritAlways
	case config.InheritNonEmpty:
		orchConfig.InheritBaseMembers = finalizer.InheritNonEmpty
	default:
		orchConfig.InheritBaseMembers = finalizer.InheritNever
	}

	orch := finalizer.NewOrchestrator(store, orchConfig, logger)
	diags := orch.Run()
	if diags != nil && !diags.Empty() {
		for _, e := range diags.Errors() {
			logger.Warn("finalizer diagnostic", map[string]interface{}{"error": e.Error()})
		}
	}

	if cfg.WarnIfUndocumented {
		for _, sym := range store.Iterate() {
			if sym.ExtractionMode != symbol.Dependency && sym.Doc.Brief() == "" {
				logger.Warn("undocumented symbol", map[string]interface{}{"symbol": sym.Name, "id": sym.ID.String()})
			}
		}
	}

	if cfg.LegibleNames {
		alloc := legible.NewAllocator(store, cfg.LegibleNameDelimiter)
		alloc.Allocate()
	}

	out, err := os.Create(buildOut)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := serialize.Write(out, store); err != nil {
		return fmt.Errorf("writing symbol store: %w", err)
	}

	if err := config.WriteMetadata(".", config.Metadata{TranslationUnits: len(entries), FormatVersion: int(serialize.FormatVersion)}); err != nil {
		logger.Warn("failed to write metadata sidecar", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("build complete", map[string]interface{}{
		"symbols": store.Len(),
		"out":     buildOut,
	})
	return nil
}

type compileCommandEntry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
	Command   string   `json:"command"`
}

func loadCompilationDatabase(path string) ([]corpus.CompilationDatabaseEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []compileCommandEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	entries := make([]corpus.CompilationDatabaseEntry, 0, len(raw))
	for _, r := range raw {
		args := r.Arguments
		if len(args) == 0 && r.Command != "" {
			args = splitCommand(r.Command)
		}
		entries = append(entries, corpus.CompilationDatabaseEntry{File: r.File, Args: args})
	}
	return entries, nil
}

// splitCommand is a minimal whitespace tokenizer for the legacy
// "command" string form of compile_commands.json entries (clang also
// accepts a single shell-quoted string instead of an argv array).
func splitCommand(command string) []string {
	var args []string
	var cur []rune
	inQuote := rune(0)
	for _, r := range command {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				cur = append(cur, r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case r == ' ' || r == '\t':
			if len(cur) > 0 {
				args = append(args, string(cur))
				cur = nil
			}
		default:
			cur = append(cur, r)
		}
	}
	if len(cur) > 0 {
		args = append(args, string(cur))
	}
	return args
}
