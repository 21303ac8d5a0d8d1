// Package diag routes the toolchain's stderr diagnostics through pterm.
// Successful runs stay silent on stderr; diag is only reached on the error
// path and for the optional -v stage-timing banner.
package diag

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
)

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorFG      = pterm.FgRed
	infoFG       = pterm.FgLightGreen
)

// Error prints the toolchain's single "ERROR: ..." line to stderr, tagged
// with the stage that produced it.
func Error(stage string, err error) {
	errorStyleBG.Println(" " + stage + " ")
	errorFG.Println(err.Error())
}

// Stage starts a named pipeline stage's timer. Done must be called on the
// returned Stopwatch once the stage finishes; it is a no-op unless verbose
// is true, so callers can unconditionally defer it.
func Stage(name string, verbose bool) *Stopwatch {
	sw := &Stopwatch{name: name, verbose: verbose}
	if verbose {
		sw.start = time.Now()
	}
	return sw
}

// Stopwatch tracks one stage's wall-clock time for the -v banner.
type Stopwatch struct {
	name    string
	verbose bool
	start   time.Time
}

// Done prints the stage's elapsed time, if verbose reporting is enabled.
func (sw *Stopwatch) Done() {
	if !sw.verbose {
		return
	}
	elapsed := time.Since(sw.start)
	infoFG.Println(fmt.Sprintf("%-10s %s", sw.name, elapsed))
}
