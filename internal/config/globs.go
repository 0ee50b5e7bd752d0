package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// GlobLists is the symbol/file include/exclude glob-pattern set, also
// accepted as a standalone YAML file (SPEC_FULL.md §B: "symbol/file
// glob-pattern include/exclude lists are also accepted in YAML form",
// the same way the teacher's federation detector reads YAML configs
// alongside its main JSON config).
type GlobLists struct {
	IncludeSymbols []string `yaml:"include-symbols"`
	ExcludeSymbols []string `yaml:"exclude-symbols"`
	IncludeFiles   []string `yaml:"include-files"`
	ExcludeFiles   []string `yaml:"exclude-files"`
}

// LoadGlobListsYAML reads a standalone YAML glob-list file and applies
// it onto cfg's pattern fields, overwriting whichever lists it sets.
func LoadGlobListsYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var g GlobLists
	if err := yaml.Unmarshal(data, &g); err != nil {
		return err
	}
	if g.IncludeSymbols != nil {
		cfg.IncludeSymbols = g.IncludeSymbols
	}
	if g.ExcludeSymbols != nil {
		cfg.ExcludeSymbols = g.ExcludeSymbols
	}
	if g.IncludeFiles != nil {
		cfg.IncludeFiles = g.IncludeFiles
	}
	if g.ExcludeFiles != nil {
		cfg.ExcludeFiles = g.ExcludeFiles
	}
	return nil
}
