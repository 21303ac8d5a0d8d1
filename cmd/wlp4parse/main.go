// Command wlp4parse reads a scanner token stream (one "KIND lexeme" line
// per token) from standard input and writes the parse tree's pre-order
// listing to standard output.
package main

import (
	"bufio"
	"fmt"
	"os"

	"wlp4/internal/clicommon"
	"wlp4/internal/diag"
	"wlp4/internal/grammar"
	"wlp4/pkg/parser"
	"wlp4/pkg/token"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, _, err := clicommon.Parse("wlp4parse", "parse a WLP4 token stream into a parse tree")
	if err != nil {
		diag.Error("CLI", err)
		return 1
	}

	tokens, err := readTokens(os.Stdin)
	if err != nil {
		diag.Error("parse", err)
		return 1
	}

	table, err := grammar.Load()
	if err != nil {
		diag.Error("parse", err)
		return 1
	}

	sw := diag.Stage("parse", flags.Verbose)
	tree, err := parser.New(table).Parse(tokens)
	sw.Done()
	if err != nil {
		diag.Error("parse", err)
		return 1
	}

	w := bufio.NewWriter(os.Stdout)
	fmt.Fprint(w, tree.String())
	if err := w.Flush(); err != nil {
		diag.Error("parse", err)
		return 1
	}
	return 0
}

func readTokens(f *os.File) ([]token.Token, error) {
	var tokens []token.Token
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		tok, ok := token.ParseLine(line)
		if !ok {
			return nil, fmt.Errorf("ERROR: malformed token line - %q", line)
		}
		tokens = append(tokens, tok)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}
