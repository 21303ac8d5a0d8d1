// Package parsetree defines the generic parse-tree node shared by the
// parser, type annotator, and code generator: a node is either a leaf
// token or an interior node carrying the matched production's RHS, its
// children, and an optional value type.
package parsetree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"wlp4/pkg/token"
)

// Type is a WLP4 value type: int, a one-level pointer, or absent (not yet
// annotated, or a node that carries no value).
type Type int

const (
	NoType Type = iota
	Int
	IntStar
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case IntStar:
		return "int*"
	default:
		return ""
	}
}

// Node is either a leaf (a scanned Token) or an interior node produced by a
// reduction (an LHS non-terminal name plus the matched production's RHS,
// kept for pre-order printing, and the child subtrees in left-to-right
// order). Interior and leaf nodes share one type, distinguished by IsLeaf.
type Node struct {
	Kind     string // LHS non-terminal name for interior nodes, or the token Kind's name for leaves
	Rule     []string // production RHS symbols, for printing; nil/empty for leaves or epsilon productions
	Children []*Node
	Type     Type

	// Leaf-only fields.
	IsLeaf bool
	Tok    token.Token
}

// NewLeaf wraps a scanned token as a leaf node.
func NewLeaf(tok token.Token) *Node {
	return &Node{Kind: tok.Kind.String(), IsLeaf: true, Tok: tok}
}

// NewInterior builds an interior node for a reduction of lhs -> rule,
// attaching children in left-to-right order.
func NewInterior(lhs string, rule []string, children []*Node) *Node {
	return &Node{Kind: lhs, Rule: rule, Children: children}
}

// Lexeme returns the leaf's scanned text, or "" for an interior node.
func (n *Node) Lexeme() string {
	if n.IsLeaf {
		return n.Tok.Lexeme
	}
	return ""
}

// Print renders the subtree rooted at n in pre-order, one line per node:
// "LHS rhs-symbols..." or "LHS .EMPTY" for interior nodes, "KIND lexeme"
// for leaves, each optionally suffixed with " : type" once annotated.
func (n *Node) Print(w *strings.Builder) {
	if n.IsLeaf {
		w.WriteString(n.Tok.String())
	} else {
		w.WriteString(n.Kind)
		if len(n.Rule) == 0 {
			w.WriteString(" .EMPTY")
		} else {
			for _, sym := range n.Rule {
				w.WriteByte(' ')
				w.WriteString(sym)
			}
		}
	}
	if n.Type != NoType {
		w.WriteString(" : ")
		w.WriteString(n.Type.String())
	}
	w.WriteByte('\n')
	for _, c := range n.Children {
		c.Print(w)
	}
}

// String returns the pre-order listing of the subtree rooted at n.
func (n *Node) String() string {
	var b strings.Builder
	n.Print(&b)
	return b.String()
}

// Child returns n's i-th child, or nil if n has fewer children.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// ReadTree parses a pre-order tree listing in the format Print writes (the
// wire format between cmd/wlp4parse, cmd/wlp4type and cmd/wlp4gen) back into
// a Node. isNonTerminal must report whether a Kind name is a grammar
// non-terminal, the only ambiguity String's format leaves implicit;
// cfg.Table.NonTerminals supplies it.
func ReadTree(r io.Reader, isNonTerminal func(name string) bool) (*Node, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	rd := &treeReader{sc: sc, isNonTerminal: isNonTerminal}
	return rd.next()
}

type treeReader struct {
	sc            *bufio.Scanner
	isNonTerminal func(string) bool
}

func (rd *treeReader) next() (*Node, error) {
	if !rd.sc.Scan() {
		if err := rd.sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}
	line, typ := splitType(rd.sc.Text())
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("parsetree: empty tree line")
	}
	kind := fields[0]

	if rd.isNonTerminal(kind) {
		var rule []string
		if !(len(fields) == 2 && fields[1] == ".EMPTY") {
			rule = fields[1:]
		}
		children := make([]*Node, len(rule))
		for i := range rule {
			child, err := rd.next()
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		node := NewInterior(kind, rule, children)
		node.Type = typ
		return node, nil
	}

	tokKind, ok := token.KindFromString(kind)
	if !ok {
		return nil, fmt.Errorf("parsetree: unknown token kind %q", kind)
	}
	lexeme := ""
	if len(fields) > 1 {
		lexeme = strings.Join(fields[1:], " ")
	}
	node := NewLeaf(token.Token{Kind: tokKind, Lexeme: lexeme})
	node.Type = typ
	return node, nil
}

// splitType strips the " : int"/" : int*" suffix Print appends once a node
// is annotated, returning the bare tree line and the recovered Type.
func splitType(line string) (string, Type) {
	if rest, ok := strings.CutSuffix(line, " : int*"); ok {
		return rest, IntStar
	}
	if rest, ok := strings.CutSuffix(line, " : int"); ok {
		return rest, Int
	}
	return line, NoType
}
