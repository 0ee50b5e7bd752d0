package main

import (
	"mrdocs/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "mrdocs",
	Short:   "mrdocs - C++ documentation generator core",
	Long:    `mrdocs extracts symbol metadata from a compilation database, runs it through the reference, inheritance, overload, doc-comment, and sort finalizer passes, and serves C++-aware name lookups against the result.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("mrdocs version {{.Version}}\n")
}
