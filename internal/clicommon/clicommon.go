// Package clicommon holds the flag setup shared by the five WLP4 stage
// binaries and the combined driver. Every binary exposes the same three
// flags: "-v" for a stage-timing banner, "-a" to assemble (used only by
// cmd/wlp4c), and "-config" to override wlp4.toml's location.
package clicommon

import (
	"os"

	"github.com/ComedicChimera/olive"

	"wlp4/internal/config"
)

// Flags holds one binary's parsed command-line state. Assemble only matters
// to cmd/wlp4c, which is the sole binary that can meaningfully choose
// between emitting assembly text and emitting an assembled binary image;
// the single-stage binaries accept and ignore it.
type Flags struct {
	Verbose    bool
	ConfigPath string
	Assemble   bool
}

// Parse builds the standard CLI for a stage binary named name (used only in
// the usage banner olive prints), parses os.Args, and resolves wlp4.toml.
func Parse(name, description string) (*Flags, *config.Config, error) {
	cli := olive.NewCLI(name, description, false)
	cli.AddFlag("v", "v", "print stage timing to stderr")
	cli.AddFlag("a", "a", "also assemble the generated code to a binary image")
	cli.AddStringArg("config", "config", "path to wlp4.toml", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		return nil, nil, err
	}

	f := &Flags{Verbose: result.HasFlag("v"), Assemble: result.HasFlag("a")}
	if v, ok := result.Arguments["config"]; ok {
		f.ConfigPath = v.(string)
	}

	cfg, err := config.Resolve(f.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	return f, cfg, nil
}
