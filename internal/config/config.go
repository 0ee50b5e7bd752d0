// Package config carries the option set spec §6 ("Consumed:
// Configuration") names, loadable from an on-disk TOML project file
// with environment-variable overrides, following the teacher's
// internal/config + spf13/viper pairing: viper resolves precedence
// (env > file > default), pelletier/go-toml/v2 is viper's TOML codec
// for the main project file, and BurntSushi/toml is used separately by
// Metadata for the narrower sidecar file the driver writes alongside a
// persisted symbol store (mirroring the teacher's two-TOML-role split
// between its main config and its index-metadata sidecar).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

func tomlMarshal(c *Config) ([]byte, error) {
	return toml.Marshal(c)
}

// ReferencedDeclarations controls whether symbols referenced but not
// defined in any extracted TU are kept, and under which extraction
// mode (spec §6).
type ReferencedDeclarations string

const (
	ReferencedNever     ReferencedDeclarations = "never"
	ReferencedDependency ReferencedDeclarations = "dependency"
	ReferencedAlways    ReferencedDeclarations = "always"
)

// InheritBaseMembers mirrors finalizer.InheritancePolicy as a config
// value; the driver translates it into the pass B policy it needs.
type InheritBaseMembers string

const (
	InheritNever    InheritBaseMembers = "never"
	InheritNonEmpty InheritBaseMembers = "non-empty"
	InheritAlways   InheritBaseMembers = "always"
)

// Config is the full option set spec §6 enumerates.
type Config struct {
	ExtractAll             bool                   `mapstructure:"extract-all" toml:"extract-all"`
	ReferencedDeclarations ReferencedDeclarations  `mapstructure:"referenced-declarations" toml:"referenced-declarations"`
	InheritBaseMembers     InheritBaseMembers      `mapstructure:"inherit-base-members" toml:"inherit-base-members"`
	Overloads              bool                   `mapstructure:"overloads" toml:"overloads"`
	MultiPage              bool                   `mapstructure:"multi-page" toml:"multi-page"`
	LegibleNames           bool                   `mapstructure:"legible-names" toml:"legible-names"`
	LegibleNameDelimiter   string                 `mapstructure:"legible-name-delimiter" toml:"legible-name-delimiter"`
	IgnoreFailures         bool                   `mapstructure:"ignore-failures" toml:"ignore-failures"`
	ThreadCount            int                    `mapstructure:"thread-count" toml:"thread-count"`
	WarnIfUndocumented     bool                   `mapstructure:"warn-if-undocumented" toml:"warn-if-undocumented"`

	// Symbol/file glob patterns for inclusion/exclusion (spec §6).
	IncludeSymbols []string `mapstructure:"include-symbols" toml:"include-symbols"`
	ExcludeSymbols []string `mapstructure:"exclude-symbols" toml:"exclude-symbols"`
	IncludeFiles   []string `mapstructure:"include-files" toml:"include-files"`
	ExcludeFiles   []string `mapstructure:"exclude-files" toml:"exclude-files"`

	LogLevel  string `mapstructure:"log-level" toml:"log-level"`
	LogFormat string `mapstructure:"log-format" toml:"log-format"`
}

// DefaultConfig returns spec §6's documented defaults: inheritance and
// extract-all off, overload grouping and legible names on, no glob
// filters, single-threaded extraction.
func DefaultConfig() *Config {
	return &Config{
		ExtractAll:             false,
		ReferencedDeclarations: ReferencedNever,
		InheritBaseMembers:     InheritNever,
		Overloads:              true,
		MultiPage:              true,
		LegibleNames:           true,
		LegibleNameDelimiter:   "/",
		IgnoreFailures:         false,
		ThreadCount:            1,
		WarnIfUndocumented:     false,
		LogLevel:               "info",
		LogFormat:              "human",
	}
}

// Load resolves a Config from, in increasing precedence: the built-in
// defaults, a `mrdocs.toml` project file under repoRoot (if present),
// and `MRDOCS_*`-prefixed environment variables (viper's automatic env
// binding), matching the teacher's env > file > default precedence.
func Load(repoRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("mrdocs")
	v.SetConfigType("toml")
	v.AddConfigPath(repoRoot)
	v.SetEnvPrefix("MRDOCS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading mrdocs.toml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("extract-all", d.ExtractAll)
	v.SetDefault("referenced-declarations", string(d.ReferencedDeclarations))
	v.SetDefault("inherit-base-members", string(d.InheritBaseMembers))
	v.SetDefault("overloads", d.Overloads)
	v.SetDefault("multi-page", d.MultiPage)
	v.SetDefault("legible-names", d.LegibleNames)
	v.SetDefault("legible-name-delimiter", d.LegibleNameDelimiter)
	v.SetDefault("ignore-failures", d.IgnoreFailures)
	v.SetDefault("thread-count", d.ThreadCount)
	v.SetDefault("warn-if-undocumented", d.WarnIfUndocumented)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
}

// Validate rejects option combinations spec §6 forbids or that would
// otherwise produce a nonsensical pipeline run.
func (c *Config) Validate() error {
	switch c.ReferencedDeclarations {
	case ReferencedNever, ReferencedDependency, ReferencedAlways:
	default:
		return &Error{Field: "referenced-declarations", Message: fmt.Sprintf("unknown value %q", c.ReferencedDeclarations)}
	}
	switch c.InheritBaseMembers {
	case InheritNever, InheritNonEmpty, InheritAlways:
	default:
		return &Error{Field: "inherit-base-members", Message: fmt.Sprintf("unknown value %q", c.InheritBaseMembers)}
	}
	if c.ThreadCount < 1 {
		return &Error{Field: "thread-count", Message: "must be >= 1"}
	}
	if c.LegibleNameDelimiter != "/" && c.LegibleNameDelimiter != "-" {
		return &Error{Field: "legible-name-delimiter", Message: "must be \"/\" or \"-\""}
	}
	return nil
}

// Error is a single field-scoped configuration error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// Save writes cfg to repoRoot/mrdocs.toml using pelletier/go-toml/v2,
// the same encoder viper reads the project file with.
func (c *Config) Save(repoRoot string) error {
	return writeTOML(filepath.Join(repoRoot, "mrdocs.toml"), c)
}

// writeTOML is split out so it can be swapped for a test double
// without touching Save's call sites.
var writeTOML = func(path string, c *Config) error {
	data, err := tomlMarshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
