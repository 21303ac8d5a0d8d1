// Package config loads wlp4.toml, the project's small TOML configuration
// file. It configures two engineering choices the toolchain leaves
// adjustable: the code generator's stack-register window and the
// assembler's .word-label addressing mode.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// FileName is the configuration file olive-parsed CLIs look for alongside
// -config overrides.
const FileName = "wlp4.toml"

// AddressMode selects how the assembler resolves a label reference that
// lands in a 32-bit field (a ".word label" line, see pkg/asm's
// buildImmediate). ByteAddress matches the standard MIPS convention of
// shifting the instruction index left by two; InstructionIndex stores the
// raw, unshifted pc.
type AddressMode string

const (
	ByteAddress      AddressMode = "byte"
	InstructionIndex AddressMode = "instruction"
)

// Config holds the resolved, defaulted settings for one toolchain run.
type Config struct {
	MinReg      int
	MaxReg      int
	AddressMode AddressMode
}

// Default returns the built-in configuration applied when no wlp4.toml is
// found: the [8,10] stack-register window and byte-addressed .word labels
// chosen for this implementation (see DESIGN.md).
func Default() *Config {
	return &Config{MinReg: 8, MaxReg: 10, AddressMode: ByteAddress}
}

// tomlConfigFile represents wlp4.toml as it is encoded on disk.
type tomlConfigFile struct {
	Codegen   *tomlCodegen   `toml:"codegen"`
	Assembler *tomlAssembler `toml:"assembler"`
}

type tomlCodegen struct {
	MinReg int `toml:"min-reg"`
	MaxReg int `toml:"max-reg"`
}

type tomlAssembler struct {
	AddressMode string `toml:"address-mode"`
}

// Load reads and parses the TOML file at path, applying Default() for any
// field the file omits. A missing file is not an error: Load silently
// returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buf, tcf); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	if tcf.Codegen != nil {
		if tcf.Codegen.MinReg != 0 {
			cfg.MinReg = tcf.Codegen.MinReg
		}
		if tcf.Codegen.MaxReg != 0 {
			cfg.MaxReg = tcf.Codegen.MaxReg
		}
	}
	if tcf.Assembler != nil && tcf.Assembler.AddressMode != "" {
		switch AddressMode(tcf.Assembler.AddressMode) {
		case ByteAddress, InstructionIndex:
			cfg.AddressMode = AddressMode(tcf.Assembler.AddressMode)
		default:
			return nil, fmt.Errorf("config: %s: unknown address-mode %q", path, tcf.Assembler.AddressMode)
		}
	}

	if cfg.MinReg < 0 || cfg.MaxReg < cfg.MinReg {
		return nil, fmt.Errorf("config: %s: invalid register window [%d,%d]", path, cfg.MinReg, cfg.MaxReg)
	}
	return cfg, nil
}

// Resolve implements the five stage CLIs' -config flag resolution: an
// explicit path is used as given; an empty path falls back to FileName in
// the current directory.
func Resolve(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = FileName
	} else if !filepath.IsAbs(path) {
		path = filepath.Clean(path)
	}
	return Load(path)
}
