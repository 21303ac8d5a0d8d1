// Command wlp4c runs the full scan -> parse -> typecheck -> codegen chain,
// and optionally the assembler, over standard input in one process, using
// pkg/compile. It is the combined convenience driver alongside the five
// single-stage binaries (cmd/wlp4scan, cmd/wlp4parse, cmd/wlp4type,
// cmd/wlp4gen, cmd/wlp4asm).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"wlp4/internal/clicommon"
	"wlp4/internal/diag"
	"wlp4/internal/grammar"
	"wlp4/pkg/compile"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, conf, err := clicommon.Parse("wlp4c", "compile WLP4 source, optionally assembling the result")
	if err != nil {
		diag.Error("CLI", err)
		return 1
	}
	assemble := flags.Assemble

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		diag.Error("compile", err)
		return 1
	}

	table, err := grammar.Load()
	if err != nil {
		diag.Error("compile", err)
		return 1
	}

	sw := diag.Stage("compile", flags.Verbose)
	result, err := compile.PipelineString(string(src), table, conf, assemble)
	sw.Done()
	if err != nil {
		diag.Error("compile", err)
		return 1
	}

	w := bufio.NewWriter(os.Stdout)
	if assemble {
		_, err = w.Write(result.Binary)
	} else {
		_, err = fmt.Fprint(w, result.Asm)
	}
	if err != nil {
		diag.Error("compile", err)
		return 1
	}
	if err := w.Flush(); err != nil {
		diag.Error("compile", err)
		return 1
	}
	return 0
}
