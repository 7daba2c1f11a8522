// Package config holds the CLI-level defaults that sit outside the
// core analysis: sidecar file names, listing formatting knobs. Modeled
// on a TOML-backed struct-of-structs with a DefaultConfig constructor,
// loaded from q3vmdis.toml in the current directory when present.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full set of CLI-level defaults.
type Config struct {
	Sidecar struct {
		Syscalls  string `toml:"syscalls"`
		HashMap   string `toml:"hashmap"`
		Symbols   string `toml:"symbols"`
		Functions string `toml:"functions"`
		Constants string `toml:"constants"`
		Comments  string `toml:"comments"`
	} `toml:"sidecar"`

	Listing struct {
		DataBytesPerLine int `toml:"data_bytes_per_line"`
		CommentColumn    int `toml:"comment_column"`
	} `toml:"listing"`
}

// DefaultConfig returns the configuration used when no q3vmdis.toml is
// present or a field is left unset in one that is.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Sidecar.Syscalls = "syscalls.asm"
	cfg.Sidecar.HashMap = "baseq3-functions.hmap"
	cfg.Sidecar.Symbols = "symbols.dat"
	cfg.Sidecar.Functions = "functions.dat"
	cfg.Sidecar.Constants = "constants.dat"
	cfg.Sidecar.Comments = "comments.dat"

	cfg.Listing.DataBytesPerLine = 4
	cfg.Listing.CommentColumn = 40

	return cfg
}

// Load reads path (typically "q3vmdis.toml") over top of the defaults.
// A missing file is not an error -- it returns DefaultConfig() as-is,
// matching the policy that absent optional inputs never fail the run.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
