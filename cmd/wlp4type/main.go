// Command wlp4type reads a parse tree's pre-order listing (cmd/wlp4parse's
// output format) from standard input, annotates every expression node with
// its WLP4 type, and writes the same listing back out with " : int"/
// " : int*" suffixes.
package main

import (
	"bufio"
	"fmt"
	"os"

	"wlp4/internal/clicommon"
	"wlp4/internal/diag"
	"wlp4/internal/grammar"
	"wlp4/pkg/parsetree"
	"wlp4/pkg/typecheck"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, _, err := clicommon.Parse("wlp4type", "annotate a WLP4 parse tree with types")
	if err != nil {
		diag.Error("CLI", err)
		return 1
	}

	table, err := grammar.Load()
	if err != nil {
		diag.Error("type", err)
		return 1
	}

	nonTerminals := table.NonTerminals()
	tree, err := parsetree.ReadTree(os.Stdin, func(name string) bool { return nonTerminals[name] })
	if err != nil {
		diag.Error("type", err)
		return 1
	}

	sw := diag.Stage("type", flags.Verbose)
	_, err = typecheck.Annotate(tree)
	sw.Done()
	if err != nil {
		diag.Error("type", err)
		return 1
	}

	w := bufio.NewWriter(os.Stdout)
	fmt.Fprint(w, tree.String())
	if err := w.Flush(); err != nil {
		diag.Error("type", err)
		return 1
	}
	return 0
}
