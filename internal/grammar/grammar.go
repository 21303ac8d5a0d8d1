// Package grammar embeds the WLP4 parser-table blob and loads it into a
// pkg/cfg.Table, a fixed data asset compiled into the binary rather than
// read from a path resolved at runtime.
package grammar

import (
	_ "embed"
	"fmt"

	"wlp4/pkg/cfg"
)

//go:embed wlp4.cfg
var blob string

// Load parses the embedded WLP4 parser-table blob once per call. Binaries
// that parse many programs in one process should cache the result.
func Load() (*cfg.Table, error) {
	table, err := cfg.Parse(blob)
	if err != nil {
		return nil, fmt.Errorf("grammar: %w", err)
	}
	return table, nil
}
