// Package config holds the JSON-loadable knobs for the pipeline simulator:
// the quantities spec.md's Open Questions leave as implementer choices
// (load-use stall length, branch-stall window, the data-memory window, the
// program image's code base address).
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds simulation parameters. Unlike a variable-latency core, this
// pipeline is single-cycle per stage; these values are hazard-policy and
// memory-layout constants rather than latency numbers.
type Config struct {
	// LoadUseStallCycles is how long a consumer is held at ID when its
	// source is produced by a load still in flight. Default: 2.
	LoadUseStallCycles uint64 `json:"load_use_stall_cycles"`

	// BranchStallCycles is the length of the control-stall window armed
	// after a taken branch or jump resolves. Default: 8. The simulator counts
	// the window down each cycle; neither the statistics nor the trace read it.
	BranchStallCycles uint64 `json:"branch_stall_cycles"`

	// AddrLo and AddrHi bound the data-memory address window, inclusive.
	// Defaults: 600, 636.
	AddrLo uint32 `json:"addr_lo"`
	AddrHi uint32 `json:"addr_hi"`

	// CodeBase is the address of the first instruction word in the program
	// image. Default: 496.
	CodeBase uint32 `json:"code_base"`
}

// DefaultConfig returns a Config matching the resolved Open Questions of
// spec §9.
func DefaultConfig() *Config {
	return &Config{
		LoadUseStallCycles: 2,
		BranchStallCycles:  8,
		AddrLo:             600,
		AddrHi:             636,
		CodeBase:           496,
	}
}

// LoadConfig loads a Config from a JSON file, starting from defaults so a
// partial file only overrides the fields it names.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulator config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse simulator config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize simulator config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write simulator config file: %w", err)
	}

	return nil
}

// Validate checks that the configured window and stall parameters are
// usable.
func (c *Config) Validate() error {
	if c.AddrLo > c.AddrHi {
		return fmt.Errorf("addr_lo must be <= addr_hi")
	}
	if c.AddrLo%4 != 0 || c.AddrHi%4 != 0 {
		return fmt.Errorf("addr_lo and addr_hi must be word-aligned")
	}
	if c.CodeBase%4 != 0 {
		return fmt.Errorf("code_base must be word-aligned")
	}
	if c.LoadUseStallCycles == 0 {
		return fmt.Errorf("load_use_stall_cycles must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
