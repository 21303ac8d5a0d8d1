package typecheck

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"wlp4/internal/grammar"
	"wlp4/pkg/parser"
	"wlp4/pkg/parsetree"
	"wlp4/pkg/scanner"
)

func buildTree(t *testing.T, src string) *parsetree.Node {
	t.Helper()
	table, err := grammar.Load()
	be.Err(t, err, nil)
	tokens, err := scanner.New().Scan(strings.NewReader(src))
	be.Err(t, err, nil)
	tree, err := parser.New(table).Parse(tokens)
	be.Err(t, err, nil)
	return tree
}

func TestAnnotateAssignsOffsets(t *testing.T) {
	tree := buildTree(t, "int wain(int a, int b) { return a; }")
	procs, err := Annotate(tree)
	be.Err(t, err, nil)
	wain := procs["wain"]
	be.Equal(t, wain.Locals["a"].Offset, 0)
	be.Equal(t, wain.Locals["b"].Offset, -4)
}

func TestAnnotatePointerParam(t *testing.T) {
	tree := buildTree(t, "int wain(int* a, int b) { return b; }")
	procs, err := Annotate(tree)
	be.Err(t, err, nil)
	be.Equal(t, procs["wain"].Locals["a"].Type, parsetree.IntStar)
}

func TestAnnotateRegistersWain(t *testing.T) {
	tree := buildTree(t, "int wain(int a, int b) { return a; }")
	procs, err := Annotate(tree)
	be.Err(t, err, nil)
	_, ok := procs["wain"]
	be.True(t, ok)
}

func TestAnnotateDuplicateDeclaration(t *testing.T) {
	tree := buildTree(t, "int wain(int a, int b) { int a = 1; return a; }")
	_, err := Annotate(tree)
	be.Equal(t, err.Error(), "ERROR: Variable a is already declared.")
}

func TestAnnotateUndeclaredVariable(t *testing.T) {
	tree := buildTree(t, "int wain(int a, int b) { return c; }")
	_, err := Annotate(tree)
	be.Equal(t, err.Error(), "ERROR: Undeclared variable c.")
}

func TestAnnotateSecondParamMustBeInt(t *testing.T) {
	tree := buildTree(t, "int wain(int a, int* b) { return a; }")
	_, err := Annotate(tree)
	be.Equal(t, err.Error(), "ERROR: The second parameter of wain is not int type.")
}

func TestAnnotatePointerArithmetic(t *testing.T) {
	tree := buildTree(t, "int wain(int a, int b) { int* p = NULL; p = p + a; return a; }")
	_, err := Annotate(tree)
	be.Err(t, err, nil)
}

func TestAnnotatePointerArithmeticTypeMismatch(t *testing.T) {
	tree := buildTree(t, "int wain(int a, int b) { int* p = NULL; int* q = NULL; q = p + q; return a; }")
	_, err := Annotate(tree)
	if err == nil {
		t.Fatalf("expected a type error adding two pointers")
	}
}

func TestAnnotateCallArityMismatch(t *testing.T) {
	tree := buildTree(t, "int f(int a) { return a; } int wain(int a, int b) { return f(); }")
	_, err := Annotate(tree)
	if err == nil {
		t.Fatalf("expected an arity-mismatch error")
	}
}

func TestAnnotateCannotCallWain(t *testing.T) {
	// "wain" always scans as the WAIN keyword, so a call to it cannot be
	// parsed from source; a parsed call's callee leaf is renamed instead, the
	// way a tree listing read back by cmd/wlp4type can carry it.
	tree := buildTree(t, "int wain(int a, int b) { return f(); }")
	// start -> procedures -> main; main's child 11 is the return expr, whose
	// expr -> term -> factor chain ends at the call's ID leaf.
	callee := tree.Child(1).Child(0).Child(11).Child(0).Child(0).Child(0)
	callee.Tok.Lexeme = "wain"
	_, err := Annotate(tree)
	be.Equal(t, err.Error(), "ERROR: Cannot call main procedure [wain].")
}
