// Command wlp4gen reads a type-annotated parse tree (cmd/wlp4type's output
// format) from standard input and writes MIPS assembly text to standard
// output. The wire format carries per-node types but not the procedure
// symbol table cmd/wlp4type built to produce them, so wlp4gen rebuilds it
// by re-annotating the tree it reads; re-annotation is idempotent and
// cannot fail on a tree that already type-checked once.
package main

import (
	"bufio"
	"fmt"
	"os"

	"wlp4/internal/clicommon"
	"wlp4/internal/diag"
	"wlp4/internal/grammar"
	"wlp4/pkg/codegen"
	"wlp4/pkg/parsetree"
	"wlp4/pkg/typecheck"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, conf, err := clicommon.Parse("wlp4gen", "generate MIPS assembly from a type-annotated WLP4 tree")
	if err != nil {
		diag.Error("CLI", err)
		return 1
	}

	table, err := grammar.Load()
	if err != nil {
		diag.Error("codegen", err)
		return 1
	}

	nonTerminals := table.NonTerminals()
	tree, err := parsetree.ReadTree(os.Stdin, func(name string) bool { return nonTerminals[name] })
	if err != nil {
		diag.Error("codegen", err)
		return 1
	}

	procs, err := typecheck.Annotate(tree)
	if err != nil {
		diag.Error("codegen", err)
		return 1
	}

	sw := diag.Stage("codegen", flags.Verbose)
	asm := codegen.GenerateWithWindow(tree, procs, conf.MinReg, conf.MaxReg)
	sw.Done()

	w := bufio.NewWriter(os.Stdout)
	fmt.Fprint(w, asm)
	if err := w.Flush(); err != nil {
		diag.Error("codegen", err)
		return 1
	}
	return 0
}
