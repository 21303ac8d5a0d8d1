// Package typecheck implements the WLP4 context-sensitive semantic
// analyzer: it walks a parse tree built by pkg/parser, builds the two-level
// ProcTable -> ProcData symbol table, and decorates every expression node
// with a parsetree.Type.
package typecheck

import (
	"fmt"

	"wlp4/pkg/parsetree"
)

// Local describes one procedure-local variable or parameter: its type and
// its fixed stack-frame offset relative to $29. Both wain's parameters and
// an ordinary procedure's parameters and locals share one rule: the first
// declared name always lands at offset 0, the next at -4, and so on.
type Local struct {
	Type   parsetree.Type
	Offset int
}

// ProcData is one procedure's signature and locals.
type ProcData struct {
	ID        string
	Signature []parsetree.Type
	Locals    map[string]*Local

	nextOffset int // next free slot, counting down by 4 from 0
}

func newProcData(id string, isWain bool) *ProcData {
	return &ProcData{ID: id, Locals: make(map[string]*Local)}
}

// declare registers a new local/parameter at the next sequential offset
// (0, -4, -8, ... in declaration order) and returns it.
func (p *ProcData) declare(name string, typ parsetree.Type) (*Local, error) {
	if _, ok := p.Locals[name]; ok {
		return nil, fmt.Errorf("ERROR: Variable %s is already declared.", name)
	}
	l := &Local{Type: typ, Offset: p.nextOffset}
	p.nextOffset -= 4
	p.Locals[name] = l
	return l, nil
}

// ProcTable maps procedure name -> ProcData, built while annotating.
type ProcTable map[string]*ProcData

// Error is a semantic error, its text prefixed "ERROR: ".
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errf(format string, args ...interface{}) *Error {
	return &Error{msg: "ERROR: " + fmt.Sprintf(format, args...)}
}

// annotator carries the in-progress ProcTable across the recursive walk.
type annotator struct {
	procs ProcTable
}

// Annotate walks root (the parser's output, rooted at "start"), builds the
// ProcTable, and decorates every expression node's Type in place. It
// returns the completed ProcTable, or the first semantic error encountered
// and a nil ProcTable; nodes annotated before the error keep their Type.
func Annotate(root *parsetree.Node) (ProcTable, error) {
	a := &annotator{procs: make(ProcTable)}
	if err := a.progLevel(root); err != nil {
		return nil, err
	}
	if _, ok := a.procs["wain"]; !ok {
		return nil, errf("Procedure wain is not declared.")
	}
	return a.procs, nil
}

func (a *annotator) progLevel(node *parsetree.Node) error {
	switch node.Kind {
	case "start":
		// start -> BOF procedures EOF
		return a.progLevel(node.Child(1))
	case "procedures":
		// procedures -> main | procedure procedures
		if err := a.proc(node.Child(0)); err != nil {
			return err
		}
		if len(node.Children) > 1 {
			return a.progLevel(node.Child(1))
		}
		return nil
	default:
		return errf("(FATAL) Not valid production rule - %s", node.Kind)
	}
}

func (a *annotator) proc(node *parsetree.Node) error {
	isMain := node.Kind == "main"
	procID := node.Child(1).Lexeme()

	if _, ok := a.procs[procID]; ok {
		return errf("Procedure %sis already declared.", procID)
	}
	table := newProcData(procID, isMain)
	a.procs[procID] = table

	var i int
	if isMain {
		// main -> INT WAIN LPAREN dcl COMMA dcl RPAREN LBRACE dcls statements RETURN expr SEMI RBRACE
		if _, err := a.dcl(node.Child(3), table, nil); err != nil {
			return err
		}
		bTyp, err := a.dcl(node.Child(5), table, nil)
		if err != nil {
			return err
		}
		if bTyp != parsetree.Int {
			return errf("The second parameter of wain is not int type.")
		}
		i = 8
	} else {
		// procedure -> INT ID LPAREN params RPAREN LBRACE dcls statements RETURN expr SEMI RBRACE
		if err := a.params(node.Child(3), table); err != nil {
			return err
		}
		i = 6
	}

	if err := a.dcls(node.Child(i), table); err != nil {
		return err
	}
	if err := a.stmts(node.Child(i+1), table); err != nil {
		return err
	}
	retType, err := a.expr(node.Child(i+3), table)
	if err != nil {
		return err
	}
	if retType != parsetree.Int {
		return errf("The return expression of [%s] is not int type.", procID)
	}
	return nil
}

func (a *annotator) params(node *parsetree.Node, table *ProcData) error {
	switch node.Kind {
	case "params":
		if len(node.Children) > 0 {
			return a.params(node.Child(0), table)
		}
		return nil
	case "paramlist":
		typ, err := a.dcl(node.Child(0), table, nil)
		if err != nil {
			return err
		}
		table.Signature = append(table.Signature, typ)
		if len(node.Children) > 1 {
			return a.params(node.Child(2), table)
		}
		return nil
	default:
		return errf("(FATAL) Not valid production rule - %s", node.Kind)
	}
}

func (a *annotator) dcls(node *parsetree.Node, table *ProcData) error {
	// dcls -> ε | dcls dcl BECOMES (NUM|NULL) SEMI
	if len(node.Children) == 0 {
		return nil
	}
	if err := a.dcls(node.Child(0), table); err != nil {
		return err
	}
	_, err := a.dcl(node.Child(1), table, node.Child(3))
	return err
}

func (a *annotator) dcl(node *parsetree.Node, table *ProcData, rvalue *parsetree.Node) (parsetree.Type, error) {
	typeNode := node.Child(0)
	idNode := node.Child(1)
	id := idNode.Lexeme()

	typ := parsetree.Int
	if len(typeNode.Children) != 1 {
		typ = parsetree.IntStar
	}

	if rvalue != nil {
		rvalType, err := a.token(rvalue, table)
		if err != nil {
			return parsetree.NoType, err
		}
		if rvalType != typ {
			return parsetree.NoType, errf("Expected type %s when initializing %s in [%s].", typ, id, table.ID)
		}
	}

	if _, err := table.declare(id, typ); err != nil {
		return parsetree.NoType, err
	}
	idNode.Type = typ
	return typ, nil
}

func (a *annotator) stmts(node *parsetree.Node, table *ProcData) error {
	if len(node.Children) == 0 {
		return nil
	}
	if err := a.stmts(node.Child(0), table); err != nil {
		return err
	}
	return a.stmt(node.Child(1), table)
}

func (a *annotator) stmt(node *parsetree.Node, table *ProcData) error {
	head := node.Child(0)
	switch head.Kind {
	case "lvalue":
		lvType, err := a.lvalue(head, table)
		if err != nil {
			return err
		}
		exprType, err := a.expr(node.Child(2), table)
		if err != nil {
			return err
		}
		if exprType != lvType {
			return errf("Expected same type in assignment variable and new value.")
		}
		return nil
	case "IF":
		if err := a.test(node.Child(2), table); err != nil {
			return err
		}
		if err := a.stmts(node.Child(5), table); err != nil {
			return err
		}
		return a.stmts(node.Child(9), table)
	case "WHILE":
		if err := a.test(node.Child(2), table); err != nil {
			return err
		}
		return a.stmts(node.Child(5), table)
	case "PRINTLN":
		typ, err := a.expr(node.Child(2), table)
		if err != nil {
			return err
		}
		if typ != parsetree.Int {
			return errf("Expected type %s in PRINTLN.", parsetree.Int)
		}
		return nil
	case "DELETE":
		typ, err := a.expr(node.Child(3), table)
		if err != nil {
			return err
		}
		if typ != parsetree.IntStar {
			return errf("Expected type %s in DELETE.", parsetree.IntStar)
		}
		return nil
	default:
		return errf("(FATAL) Not valid production rule - %s", node.Kind)
	}
}

func (a *annotator) test(node *parsetree.Node, table *ProcData) error {
	left, err := a.expr(node.Child(0), table)
	if err != nil {
		return err
	}
	right, err := a.expr(node.Child(2), table)
	if err != nil {
		return err
	}
	if left != right {
		return errf("Type mismatch in boolean expression.")
	}
	return nil
}

func (a *annotator) expr(node *parsetree.Node, table *ProcData) (parsetree.Type, error) {
	// expr -> term | expr (PLUS|MINUS) term
	termType, err := a.term(node.Children[len(node.Children)-1], table)
	if err != nil {
		return parsetree.NoType, err
	}
	if len(node.Children) == 1 {
		node.Type = termType
		return termType, nil
	}
	exprType, err := a.expr(node.Child(0), table)
	if err != nil {
		return parsetree.NoType, err
	}
	if termType == parsetree.Int {
		node.Type = exprType
	} else if node.Child(1).Kind == "PLUS" {
		if exprType != parsetree.Int {
			return parsetree.NoType, errf("Expected expression {%s + %s}, given {%s + %s}.", parsetree.Int, parsetree.IntStar, exprType, termType)
		}
		node.Type = parsetree.IntStar
	} else {
		if exprType != parsetree.IntStar {
			return parsetree.NoType, errf("Expected expression {%s - %s}, given {%s - %s}.", parsetree.IntStar, parsetree.IntStar, exprType, termType)
		}
		node.Type = parsetree.Int
	}
	return node.Type, nil
}

func (a *annotator) term(node *parsetree.Node, table *ProcData) (parsetree.Type, error) {
	typ, err := a.factor(node.Children[len(node.Children)-1], table)
	if err != nil {
		return parsetree.NoType, err
	}
	node.Type = typ
	if len(node.Children) > 1 {
		leftType, err := a.term(node.Child(0), table)
		if err != nil {
			return parsetree.NoType, err
		}
		if node.Type != parsetree.Int || leftType != parsetree.Int {
			return parsetree.NoType, errf("Expected multiple combined factors to all have type int.")
		}
	}
	return node.Type, nil
}

func (a *annotator) factor(node *parsetree.Node, table *ProcData) (parsetree.Type, error) {
	switch {
	case len(node.Children) == 1:
		typ, err := a.token(node.Child(0), table)
		if err != nil {
			return parsetree.NoType, err
		}
		node.Type = typ
		return typ, nil

	case node.Child(0).Kind == "ID":
		procID := node.Child(0).Lexeme()
		if procID == "wain" {
			return parsetree.NoType, errf("Cannot call main procedure [wain].")
		}
		if procID == table.ID {
			if _, ok := table.Locals[procID]; ok {
				return parsetree.NoType, errf("Cannot call recurse procedure [%s] since declared as a local variable already.", procID)
			}
		}
		callee, ok := a.procs[procID]
		if !ok {
			return parsetree.NoType, errf("Procedure [%s] called before declaration.", procID)
		}
		if node.Child(2).Kind == "arglist" {
			if err := a.args(node.Child(2), table, callee, 0); err != nil {
				return parsetree.NoType, err
			}
		} else if len(callee.Signature) != 0 {
			return parsetree.NoType, errf("Arity mismatch - expected no args in [%s].", procID)
		}
		node.Type = parsetree.Int
		return parsetree.Int, nil

	case len(node.Children) == 3:
		// factor -> LPAREN expr RPAREN
		typ, err := a.expr(node.Child(1), table)
		if err != nil {
			return parsetree.NoType, err
		}
		node.Type = typ
		return typ, nil

	case len(node.Children) == 5:
		// factor -> NEW INT LBRACK expr RBRACK
		typ, err := a.expr(node.Child(3), table)
		if err != nil {
			return parsetree.NoType, err
		}
		if typ != parsetree.Int {
			return parsetree.NoType, errf("Expected INT in array declaration size, given - %s.", parsetree.IntStar)
		}
		node.Type = parsetree.IntStar
		return parsetree.IntStar, nil

	case node.Child(0).Kind == "AMP":
		typ, err := a.lvalue(node.Child(1), table)
		if err != nil {
			return parsetree.NoType, err
		}
		if typ != parsetree.Int {
			return parsetree.NoType, errf("Expected int when referencing, given - %s.", parsetree.IntStar)
		}
		node.Type = parsetree.IntStar
		return parsetree.IntStar, nil

	case node.Child(0).Kind == "STAR":
		typ, err := a.factor(node.Child(1), table)
		if err != nil {
			return parsetree.NoType, err
		}
		if typ != parsetree.IntStar {
			return parsetree.NoType, errf("Expected int* when dereferencing, given - %s.", parsetree.Int)
		}
		node.Type = parsetree.Int
		return parsetree.Int, nil

	default:
		return parsetree.NoType, errf("(FATAL) Not valid production rule - %s", node.Kind)
	}
}

func (a *annotator) args(node *parsetree.Node, table *ProcData, callee *ProcData, idx int) error {
	if len(callee.Signature) == idx {
		return errf("Too many args for [%s].", callee.ID)
	}
	if len(node.Children) == 1 && idx != len(callee.Signature)-1 {
		return errf("Too few args for [%s].", callee.ID)
	}
	argType, err := a.expr(node.Child(0), table)
	if err != nil {
		return err
	}
	if argType != callee.Signature[idx] {
		return errf("Arity type mismatch when calling [%s].", callee.ID)
	}
	if len(node.Children) > 1 {
		return a.args(node.Child(2), table, callee, idx+1)
	}
	return nil
}

func (a *annotator) lvalue(node *parsetree.Node, table *ProcData) (parsetree.Type, error) {
	switch len(node.Children) {
	case 1:
		typ, err := a.token(node.Child(0), table)
		if err != nil {
			return parsetree.NoType, err
		}
		node.Type = typ
		return typ, nil
	case 2:
		// lvalue -> STAR factor
		typ, err := a.factor(node.Child(1), table)
		if err != nil {
			return parsetree.NoType, err
		}
		if typ != parsetree.IntStar {
			return parsetree.NoType, errf("Expected int* when dereferencing, given - %s.", parsetree.Int)
		}
		node.Type = parsetree.Int
		return parsetree.Int, nil
	case 3:
		// lvalue -> LPAREN lvalue RPAREN
		typ, err := a.lvalue(node.Child(1), table)
		if err != nil {
			return parsetree.NoType, err
		}
		node.Type = typ
		return typ, nil
	default:
		return parsetree.NoType, errf("(FATAL) Not valid production rule - %s", node.Kind)
	}
}

func (a *annotator) token(node *parsetree.Node, table *ProcData) (parsetree.Type, error) {
	switch node.Kind {
	case "NUM":
		node.Type = parsetree.Int
	case "NULL":
		node.Type = parsetree.IntStar
	case "ID":
		id := node.Lexeme()
		local, ok := table.Locals[id]
		if !ok {
			return parsetree.NoType, errf("Undeclared variable %s.", id)
		}
		node.Type = local.Type
	default:
		return parsetree.NoType, errf("(FATAL) Not valid expression token kind - %s", node.Kind)
	}
	return node.Type, nil
}
