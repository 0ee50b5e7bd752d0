package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const metadataFile = "mrdocs-meta.toml"

// MetadataVersion is bumped whenever Metadata's on-disk shape changes
// in a way older readers cannot tolerate.
const MetadataVersion = 1

// Metadata is the narrow sidecar file written next to a persisted
// symbol store (internal/serialize's output): the sidecar version, how
// many translation units the store covers, and the serialize format
// version. This is a distinct
// encoder (BurntSushi/toml) and a distinct file from the main project
// config (A.3), mirroring the teacher's separate index-metadata-vs-
// main-config file roles.
type Metadata struct {
	Version       int    `toml:"version"`
	TranslationUnits int `toml:"translation_units"`
	FormatVersion int    `toml:"format_version"`
}

// WriteMetadata writes a sidecar metadata file next to a persisted
// symbol store under dir.
func WriteMetadata(dir string, m Metadata) error {
	m.Version = MetadataVersion
	f, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return fmt.Errorf("creating metadata file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(m)
}

// ReadMetadata reads the sidecar file previously written by
// WriteMetadata, or returns nil with no error if it doesn't exist.
func ReadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}
	var m Metadata
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing metadata file: %w", err)
	}
	return &m, nil
}
