// Package compile wires the scan -> parse -> typecheck -> codegen ->
// assemble chain together into one convenience driver. It is purely
// additive: every stage remains independently usable through its own
// package and the cmd/wlp4* binaries that wrap them one at a time.
package compile

import (
	"fmt"
	"io"
	"strings"

	"wlp4/internal/config"
	"wlp4/pkg/asm"
	"wlp4/pkg/cfg"
	"wlp4/pkg/codegen"
	"wlp4/pkg/parser"
	"wlp4/pkg/parsetree"
	"wlp4/pkg/scanner"
	"wlp4/pkg/typecheck"
)

// Result holds every intermediate artifact a full compile produces.
type Result struct {
	Tree   *parsetree.Node
	Procs  typecheck.ProcTable
	Asm    string
	Binary []byte
}

// Pipeline scans, parses, type-checks, and generates code for src against
// table (the loaded WLP4 grammar, see pkg/cfg.Parse), using conf's
// stack-register window. When assemble is true, the generated assembly is
// also run through pkg/asm with conf's address mode and the result
// populated into Result.Binary.
func Pipeline(src io.Reader, table *cfg.Table, conf *config.Config, assemble bool) (*Result, error) {
	tokens, err := scanner.New().Scan(src)
	if err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}

	tree, err := parser.New(table).Parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	procs, err := typecheck.Annotate(tree)
	if err != nil {
		return nil, fmt.Errorf("type error: %w", err)
	}

	result := &Result{Tree: tree, Procs: procs, Asm: codegen.GenerateWithWindow(tree, procs, conf.MinReg, conf.MaxReg)}

	if assemble {
		binary, err := asm.AssembleWithMode(result.Asm, conf.AddressMode)
		if err != nil {
			return result, fmt.Errorf("assemble error: %w", err)
		}
		result.Binary = binary
	}
	return result, nil
}

// PipelineString is Pipeline for callers already holding source as a string.
func PipelineString(src string, table *cfg.Table, conf *config.Config, assemble bool) (*Result, error) {
	return Pipeline(strings.NewReader(src), table, conf, assemble)
}
