package parsetree

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"wlp4/pkg/token"
)

func nonTerminals(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestPrintLeaf(t *testing.T) {
	n := NewLeaf(token.Token{Kind: token.ID, Lexeme: "foo"})
	be.Equal(t, n.String(), "ID foo\n")
}

func TestPrintInteriorWithEmpty(t *testing.T) {
	n := NewInterior("dcls", nil, nil)
	be.Equal(t, n.String(), "dcls .EMPTY\n")
}

func TestPrintInteriorWithType(t *testing.T) {
	n := NewInterior("expr", []string{"term"}, []*Node{NewLeaf(token.Token{Kind: token.NUM, Lexeme: "5"})})
	n.Type = Int
	got := n.String()
	be.True(t, strings.HasPrefix(got, "expr term : int\n"))
}

func TestReadTreeRoundTrip(t *testing.T) {
	leafA := NewLeaf(token.Token{Kind: token.ID, Lexeme: "a"})
	leafB := NewLeaf(token.Token{Kind: token.NUM, Lexeme: "5"})
	tree := NewInterior("expr", []string{"ID", "NUM"}, []*Node{leafA, leafB})
	tree.Type = IntStar

	text := tree.String()
	isNT := nonTerminals("expr")
	got, err := ReadTree(strings.NewReader(text), isNT)
	be.Err(t, err, nil)

	be.Equal(t, got.Kind, "expr")
	be.Equal(t, got.Type, IntStar)
	be.Equal(t, len(got.Children), 2)
	be.Equal(t, got.Children[0].Tok.Lexeme, "a")
	be.Equal(t, got.Children[1].Tok.Lexeme, "5")
}

func TestReadTreeEmptyProduction(t *testing.T) {
	isNT := nonTerminals("dcls")
	got, err := ReadTree(strings.NewReader("dcls .EMPTY\n"), isNT)
	be.Err(t, err, nil)
	be.Equal(t, len(got.Children), 0)
}

func TestChildOutOfRange(t *testing.T) {
	n := NewInterior("dcls", nil, nil)
	be.Equal(t, n.Child(0), (*Node)(nil))
}
