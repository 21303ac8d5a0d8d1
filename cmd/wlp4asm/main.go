// Command wlp4asm reads MIPS assembly text from standard input and writes
// the assembled big-endian binary image to standard output.
package main

import (
	"bufio"
	"io"
	"os"

	"wlp4/internal/clicommon"
	"wlp4/internal/diag"
	"wlp4/pkg/asm"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags, conf, err := clicommon.Parse("wlp4asm", "assemble MIPS assembly text into a binary image")
	if err != nil {
		diag.Error("CLI", err)
		return 1
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		diag.Error("assemble", err)
		return 1
	}

	sw := diag.Stage("assemble", flags.Verbose)
	binary, err := asm.AssembleWithMode(string(src), conf.AddressMode)
	sw.Done()
	if err != nil {
		diag.Error("assemble", err)
		return 1
	}

	w := bufio.NewWriter(os.Stdout)
	if _, err := w.Write(binary); err != nil {
		diag.Error("assemble", err)
		return 1
	}
	if err := w.Flush(); err != nil {
		diag.Error("assemble", err)
		return 1
	}
	return 0
}
