// Command wlp4scan runs the WLP4 lexical scanner over standard input and
// writes one "KIND lexeme" line per token to standard output.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"wlp4/internal/clicommon"
	"wlp4/internal/diag"
	"wlp4/pkg/scanner"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, _, err := clicommon.Parse("wlp4scan", "scan WLP4 source into a token stream")
	if err != nil {
		diag.Error("CLI", err)
		return 1
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		diag.Error("scan", err)
		return 1
	}

	sw := diag.Stage("scan", flags.Verbose)
	tokens, err := scanner.New().Scan(bytes.NewReader(src))
	sw.Done()
	if err != nil {
		diag.Error("scan", err)
		return 1
	}

	w := bufio.NewWriter(os.Stdout)
	for _, tok := range tokens {
		fmt.Fprintln(w, tok.String())
	}
	if err := w.Flush(); err != nil {
		diag.Error("scan", err)
		return 1
	}
	return 0
}
