package clicommon

import (
	"os"
	"testing"

	"github.com/nalgeon/be"
)

// withArgs runs fn with os.Args replaced by args, restoring the original
// afterward; olive.ParseArgs reads directly from os.Args, so this is the
// seam a caller has to drive through.
func withArgs(args []string, fn func()) {
	orig := os.Args
	defer func() { os.Args = orig }()
	os.Args = args
	fn()
}

func TestParseDefaultsWithNoFlags(t *testing.T) {
	var flags *Flags
	var err error
	withArgs([]string{"wlp4scan"}, func() {
		flags, _, err = Parse("wlp4scan", "scan WLP4 source into tokens")
	})
	be.Err(t, err, nil)
	be.Equal(t, flags.Verbose, false)
	be.Equal(t, flags.Assemble, false)
	be.Equal(t, flags.ConfigPath, "")
}

func TestParseVerboseFlag(t *testing.T) {
	var flags *Flags
	var err error
	withArgs([]string{"wlp4scan", "-v"}, func() {
		flags, _, err = Parse("wlp4scan", "scan WLP4 source into tokens")
	})
	be.Err(t, err, nil)
	be.True(t, flags.Verbose)
}

func TestParseAssembleFlag(t *testing.T) {
	var flags *Flags
	var err error
	withArgs([]string{"wlp4c", "-a"}, func() {
		flags, _, err = Parse("wlp4c", "compile WLP4 source, optionally assembling it")
	})
	be.Err(t, err, nil)
	be.True(t, flags.Assemble)
}

func TestParseConfigPathFlag(t *testing.T) {
	var flags *Flags
	withArgs([]string{"wlp4gen", "-config", "custom.toml"}, func() {
		flags, _, _ = Parse("wlp4gen", "generate code from a type-annotated tree")
	})
	be.Equal(t, flags.ConfigPath, "custom.toml")
}

func TestParseResolvesDefaultConfigWhenFileMissing(t *testing.T) {
	var err error
	withArgs([]string{"wlp4scan"}, func() {
		_, cfg, e := Parse("wlp4scan", "scan WLP4 source into tokens")
		err = e
		if e == nil {
			be.Equal(t, cfg.MinReg, 8)
			be.Equal(t, cfg.MaxReg, 10)
		}
	})
	be.Err(t, err, nil)
}
