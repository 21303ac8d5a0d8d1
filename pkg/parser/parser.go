// Package parser implements the table-driven SLR(1) bottom-up parser:
// a two-stack shift/reduce driver over a fixed parsing table.
package parser

import (
	"fmt"

	"wlp4/pkg/cfg"
	"wlp4/pkg/parsetree"
	"wlp4/pkg/token"
)

// startState is the parsing table's initial state, state 0.
const startState = 0

const (
	symBOF    = "BOF"
	symEOF    = "EOF"
	symAccept = ".ACCEPT"
)

// Error reports a shift failure at a 1-based position in the augmented
// input.
type Error struct {
	Position int
}

func (e *Error) Error() string {
	return fmt.Sprintf("ERROR at %d", e.Position)
}

// Parser drives the SLR(1) algorithm against a fixed table.
type Parser struct {
	table *cfg.Table
}

// New constructs a Parser over table, typically loaded once at process
// startup via cfg.Parse on the parser-table blob.
func New(table *cfg.Table) *Parser {
	return &Parser{table: table}
}

// augmentToken wraps name as a synthetic terminal with both kind and
// lexeme equal to name, the representation BOF/EOF/.ACCEPT tokens use.
func augmentToken(name string) token.Token {
	kind, ok := token.KindFromString(name)
	if !ok {
		kind = token.ILLEGAL
	}
	return token.Token{Kind: kind, Lexeme: name}
}

// Parse runs the two-stack SLR(1) loop over tokens, which must already be
// the raw scanner output (no BOF/EOF framing — Parse adds it). On success
// it returns the parse tree's root; on failure, an *Error naming the
// 1-based position of the offending token in the augmented input.
func (p *Parser) Parse(tokens []token.Token) (*parsetree.Node, error) {
	input := make([]token.Token, 0, len(tokens)+2)
	input = append(input, augmentToken(symBOF))
	input = append(input, tokens...)
	input = append(input, augmentToken(symEOF))

	var nodeStack []*parsetree.Node
	var stateStack []int

	nodeStack = append(nodeStack, parsetree.NewLeaf(input[0]))
	first, ok := p.table.Transitions[startState][input[0].Kind.String()]
	if !ok {
		return nil, &Error{Position: 0}
	}
	stateStack = append(stateStack, first)

	for k := 1; k < len(input); k++ {
		a := input[k]
		for {
			top := stateStack[len(stateStack)-1]
			rule, ok := p.table.Reductions[top][a.Kind.String()]
			if !ok {
				break
			}
			nodeStack, stateStack = p.reduce(nodeStack, stateStack, rule)
		}

		nodeStack = append(nodeStack, parsetree.NewLeaf(a))
		top := stateStack[len(stateStack)-1]
		next, ok := p.table.Transitions[top][a.Kind.String()]
		if !ok {
			return nil, &Error{Position: k}
		}
		stateStack = append(stateStack, next)
	}

	top := stateStack[len(stateStack)-1]
	if rule, ok := p.table.Reductions[top][symAccept]; ok {
		nodeStack, _ = p.reduce(nodeStack, stateStack, rule)
	}

	return nodeStack[0], nil
}

// reduce pops the production's RHS length worth of nodes/states, builds the
// new interior node, and pushes it with its goto state.
func (p *Parser) reduce(nodeStack []*parsetree.Node, stateStack []int, rule int) ([]*parsetree.Node, []int) {
	rhs := p.table.ProdRule(rule)
	lhs := p.table.ProdLHS(rule)
	n := len(rhs)

	children := make([]*parsetree.Node, n)
	for i := n - 1; i >= 0; i-- {
		children[i] = nodeStack[len(nodeStack)-1]
		nodeStack = nodeStack[:len(nodeStack)-1]
		stateStack = stateStack[:len(stateStack)-1]
	}
	newNode := parsetree.NewInterior(lhs, rhs, children)
	nodeStack = append(nodeStack, newNode)

	if len(stateStack) == 0 {
		// Stack fully collapsed (the final accepting reduction). No further
		// transition is taken from here, so the pushed state is never
		// consulted again; push the start state for stack-shape consistency.
		stateStack = append(stateStack, startState)
		return nodeStack, stateStack
	}
	gotoFrom := stateStack[len(stateStack)-1]
	next := p.table.Transitions[gotoFrom][lhs]
	stateStack = append(stateStack, next)
	return nodeStack, stateStack
}
