// Package cfg loads the context-free grammar and SLR(1) tables the parser
// drives from a textual blob: a ".CFG"-style section of productions,
// followed by ".TRANSITIONS", ".REDUCTIONS", and ".END" sections.
package cfg

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

const (
	dirCFG         = ".CFG"
	dirTransitions = ".TRANSITIONS"
	dirReductions  = ".REDUCTIONS"
	dirEnd         = ".END"
	dirEmpty       = ".EMPTY"
)

// Production is one numbered grammar rule lhs -> rhs. Productions are
// indexed by insertion order; that index is the identity used by the
// reductions table.
type Production struct {
	LHS string
	RHS []string
}

// Table holds the CFG plus the two dense tables the SLR(1) driver consults:
// Transitions maps (state, symbol) -> next state, and Reductions maps
// (state, lookahead terminal) -> production number.
type Table struct {
	Productions []Production
	Transitions map[int]map[string]int
	Reductions  map[int]map[string]int
	NumStates   int
}

// ProdRule returns production n's RHS.
func (t *Table) ProdRule(n int) []string {
	return t.Productions[n].RHS
}

// ProdLHS returns production n's left-hand non-terminal.
func (t *Table) ProdLHS(n int) string {
	return t.Productions[n].LHS
}

// NonTerminals returns the set of names that appear as a production's LHS,
// the predicate parsetree.ReadTree needs to tell an interior-node line from
// a leaf line in a textual tree listing.
func (t *Table) NonTerminals() map[string]bool {
	set := make(map[string]bool, len(t.Productions))
	for _, p := range t.Productions {
		set[p.LHS] = true
	}
	return set
}

// Parse reads a parser-table blob: a leading section of productions
// (optionally headed by ".CFG"), then ".TRANSITIONS", then ".REDUCTIONS",
// then ".END".
func Parse(blob string) (*Table, error) {
	t := &Table{
		Transitions: make(map[int]map[string]int),
		Reductions:  make(map[int]map[string]int),
	}

	sc := bufio.NewScanner(strings.NewReader(blob))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	line, ok := nextNonEmpty(sc)
	if ok && line == dirCFG {
		line, ok = nextNonEmpty(sc)
	}
	for ok && line != dirTransitions {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			line, ok = nextNonEmpty(sc)
			continue
		}
		lhs := fields[0]
		var rhs []string
		for _, w := range fields[1:] {
			if w != dirEmpty {
				rhs = append(rhs, w)
			}
		}
		t.Productions = append(t.Productions, Production{LHS: lhs, RHS: rhs})
		line, ok = nextNonEmpty(sc)
	}
	if !ok {
		return nil, fmt.Errorf("cfg: missing %s section", dirTransitions)
	}

	line, ok = nextNonEmpty(sc)
	for ok && line != dirReductions {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("cfg: malformed transition line %q", line)
		}
		from, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("cfg: bad state number %q: %w", fields[0], err)
		}
		sym := fields[1]
		to, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("cfg: bad state number %q: %w", fields[2], err)
		}
		if to+1 > t.NumStates {
			t.NumStates = to + 1
		}
		if from+1 > t.NumStates {
			t.NumStates = from + 1
		}
		if t.Transitions[from] == nil {
			t.Transitions[from] = make(map[string]int)
		}
		t.Transitions[from][sym] = to
		line, ok = nextNonEmpty(sc)
	}
	if !ok {
		return nil, fmt.Errorf("cfg: missing %s section", dirReductions)
	}

	line, ok = nextNonEmpty(sc)
	for ok && line != dirEnd {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("cfg: malformed reduction line %q", line)
		}
		state, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("cfg: bad state number %q: %w", fields[0], err)
		}
		rule, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("cfg: bad rule number %q: %w", fields[1], err)
		}
		lookahead := fields[2]
		if t.Reductions[state] == nil {
			t.Reductions[state] = make(map[string]int)
		}
		t.Reductions[state][lookahead] = rule
		line, ok = nextNonEmpty(sc)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cfg: reading blob: %w", err)
	}
	return t, nil
}

func nextNonEmpty(sc *bufio.Scanner) (string, bool) {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			return line, true
		}
	}
	return "", false
}
