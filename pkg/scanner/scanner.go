// Package scanner implements the WLP4 lexical scanner: a DFA driven by
// Simplified Maximal Munch, with keyword disambiguation and bounded-integer
// validation.
package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"wlp4/pkg/dfa"
	"wlp4/pkg/token"
)

// state names; the generated Token.Kind differs only for the states that
// need keyword or ZERO/NUM disambiguation, handled in classify.
const (
	stateStart      = "_START"
	stateWhitespace = "WHITESPACE"
	stateID         = "ID"
	stateZero       = "ZERO"
	stateNum        = "NUM"
	stateComment    = "COMMENT"
	stateNot        = "_NOT" // non-accepting: "!" awaiting "="
)

// Error is a scan-time failure.
type Error struct {
	Line int
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func unacceptedToken(line int, lex string) *Error {
	return &Error{Line: line, msg: fmt.Sprintf("ERROR: Unaccepted token attempt - %s", lex)}
}

func numberOutOfBounds(line int, lex string) *Error {
	return &Error{Line: line, msg: fmt.Sprintf("ERROR: Number out of bounds --> %s", lex)}
}

// maxInt32Literal is the largest lexeme a NUM token may carry: 2^31 - 1.
const maxInt32Literal = "2147483647"

// Scanner is the WLP4 DFA configured with every terminal's states and
// transitions, built once and reused across Scan calls.
type Scanner struct {
	dfa *dfa.DFA[string, byte]
}

// New builds the WLP4 scanning DFA, one configurator method per terminal
// family.
func New() *Scanner {
	d := dfa.New[string, byte](stateStart, false)
	s := &Scanner{dfa: d}
	s.whitespace()
	s.delimiters()
	s.relationals()
	s.opsAndPunctuation()
	s.numbers()
	s.identifiers()
	return s
}

func (s *Scanner) whitespace() {
	s.dfa.AddState(stateWhitespace, true)
	s.dfa.AddTransition(stateStart, ' ', stateWhitespace)
	s.dfa.AddTransition(stateStart, '\t', stateWhitespace)
	s.dfa.AddTransition(stateWhitespace, ' ', stateWhitespace)
	s.dfa.AddTransition(stateWhitespace, '\t', stateWhitespace)
}

func (s *Scanner) delimiters() {
	delims := []struct {
		sym  byte
		name string
	}{
		{'(', "LPAREN"}, {')', "RPAREN"},
		{'{', "LBRACE"}, {'}', "RBRACE"},
		{'[', "LBRACK"}, {']', "RBRACK"},
	}
	for _, d := range delims {
		s.dfa.AddState(d.name, true)
		s.dfa.AddTransition(stateStart, d.sym, d.name)
	}
}

func (s *Scanner) relationals() {
	for _, name := range []string{"BECOMES", "EQ", "LT", "LE", "GT", "GE", "NE"} {
		s.dfa.AddState(name, true)
	}
	s.dfa.AddState(stateNot, false)

	s.dfa.AddTransition(stateStart, '=', "BECOMES")
	s.dfa.AddTransition("BECOMES", '=', "EQ")

	s.dfa.AddTransition(stateStart, '<', "LT")
	s.dfa.AddTransition("LT", '=', "LE")

	s.dfa.AddTransition(stateStart, '>', "GT")
	s.dfa.AddTransition("GT", '=', "GE")

	s.dfa.AddTransition(stateStart, '!', stateNot)
	s.dfa.AddTransition(stateNot, '=', "NE")
}

func (s *Scanner) opsAndPunctuation() {
	for sym, name := range map[byte]string{
		'+': "PLUS", '-': "MINUS", '*': "STAR", '/': "SLASH",
		'%': "PCT", ',': "COMMA", ';': "SEMI", '&': "AMP",
	} {
		s.dfa.AddState(name, true)
		s.dfa.AddTransition(stateStart, sym, name)
	}
	s.dfa.AddState(stateComment, true)
	s.dfa.AddTransition("SLASH", '/', stateComment)
}

func (s *Scanner) numbers() {
	s.dfa.AddState(stateZero, true)
	s.dfa.AddState(stateNum, true)

	s.dfa.AddTransition(stateStart, '0', stateZero)
	for c := byte('1'); c <= '9'; c++ {
		s.dfa.AddTransition(stateStart, c, stateNum)
	}
	for c := byte('0'); c <= '9'; c++ {
		s.dfa.AddTransition(stateNum, c, stateNum)
	}
}

func (s *Scanner) identifiers() {
	s.dfa.AddState(stateID, true)
	for c, C := byte('a'), byte('A'); c <= 'z'; c, C = c+1, C+1 {
		s.dfa.AddTransition(stateStart, c, stateID)
		s.dfa.AddTransition(stateStart, C, stateID)
		s.dfa.AddTransition(stateID, c, stateID)
		s.dfa.AddTransition(stateID, C, stateID)
	}
	for d := byte('0'); d <= '9'; d++ {
		s.dfa.AddTransition(stateID, d, stateID)
	}
}

// classify turns an accepted (state, lexeme) pair into its final token
// Kind, applying ZERO->NUM and keyword disambiguation.
func classify(state, lex string) token.Kind {
	if state == stateZero {
		return token.NUM
	}
	if kw, ok := token.Keyword(lex); ok {
		return kw
	}
	kind, ok := token.KindFromString(state)
	if !ok {
		return token.ILLEGAL
	}
	return kind
}

// ScanLine runs Simplified Maximal Munch over one line of source and
// returns the tokens it contains (whitespace and comments discarded).
func (s *Scanner) ScanLine(line string, lineNo int) ([]token.Token, error) {
	var out []token.Token
	lex := strings.Builder{}
	cur := s.dfa.Start()
	i, k := 0, len(line)

	for {
		var next string
		var ok bool
		if i < k {
			next, ok = s.dfa.Transition(cur, line[i])
		}
		if !ok {
			if !s.dfa.Accepting(cur) {
				return nil, unacceptedToken(lineNo, lex.String())
			}
			lexeme := lex.String()
			switch cur {
			case stateComment:
				return out, nil
			case stateWhitespace:
				// discarded
			default:
				kind := classify(cur, lexeme)
				if kind == token.NUM && len(lexeme) > 9 {
					if len(lexeme) != len(maxInt32Literal) || lexeme > maxInt32Literal {
						return nil, numberOutOfBounds(lineNo, lexeme)
					}
				}
				out = append(out, token.Token{Kind: kind, Lexeme: lexeme, Line: lineNo})
			}
			if i == k {
				return out, nil
			}
			lex.Reset()
			cur = s.dfa.Start()
			continue
		}
		lex.WriteByte(line[i])
		i++
		cur = next
	}
}

// Scan reads every line from r and returns the concatenated token stream.
// The first scan error aborts and is returned with no partial token slice.
func (s *Scanner) Scan(r io.Reader) ([]token.Token, error) {
	var tokens []token.Token
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if len(line) == 0 {
			continue
		}
		lineTokens, err := s.ScanLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, lineTokens...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanner: reading input: %w", err)
	}
	return tokens, nil
}
