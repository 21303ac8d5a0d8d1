// Package asm implements the two-pass MIPS-like assembler: the first pass
// builds a label table, the second emits one big-endian word per
// instruction. Line scanning is delegated to pkg/asmscan.
package asm

import (
	"strconv"
	"strings"

	"wlp4/internal/config"
	"wlp4/pkg/asmscan"
	"wlp4/pkg/token"
)

// Error is an assembly-time failure. Its text is the original assembler's
// exact wording, including the tagged offending source line.
type Error struct {
	Line int
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(line int, base, lexeme string) *Error {
	msg := "ERROR: " + base
	if lexeme != "" {
		msg += " \"" + lexeme + "\""
	}
	return &Error{Line: line, msg: msg}
}

// tagLine appends the offending source line's tokens, space-separated, the
// way AssemblerException::tagLine does.
func tagLine(err *Error, tokLine []token.Token) *Error {
	var b strings.Builder
	b.WriteString(err.msg)
	b.WriteString("\n\t ==> ")
	for _, t := range tokLine {
		b.WriteString(t.Lexeme)
		b.WriteByte(' ')
	}
	return &Error{Line: err.Line, msg: b.String()}
}

// fieldSpec is one token position in an instruction's operand format: the
// expected token Kind and the bit offset its built value is shifted by
// before being OR'd into the instruction template.
type fieldSpec struct {
	kind   token.Kind
	offset int
}

type opcode struct {
	template int64
	format   []fieldSpec
}

// opTable maps a mnemonic's lexeme (including the leading "." for
// directives) to its bit template and operand format.
var opTable = map[string]opcode{
	".word": {0, []fieldSpec{{token.INT, 32}}},

	"add":  {0x20, rFormat3},
	"sub":  {0x22, rFormat3},
	"slt":  {0x2a, rFormat3},
	"sltu": {0x2b, rFormat3},

	"mult":  {0x18, rFormat2},
	"multu": {0x19, rFormat2},
	"div":   {0x1a, rFormat2},
	"divu":  {0x1b, rFormat2},

	"mfhi": {0x10, rFormat1},
	"mflo": {0x12, rFormat1},
	"lis":  {0x14, rFormat1},

	"jr":   {0x08, sFormat},
	"jalr": {0x09, sFormat},

	"beq": {0x10000000, iFormatBranch},
	"bne": {0x14000000, iFormatBranch},

	"lw": {0x8c000000, iFormatMem},
	"sw": {0xac000000, iFormatMem},
}

var (
	rFormat3      = []fieldSpec{{token.REG, 11}, {token.COMMA, 0}, {token.REG, 21}, {token.COMMA, 0}, {token.REG, 16}}
	rFormat2      = []fieldSpec{{token.REG, 21}, {token.COMMA, 0}, {token.REG, 16}}
	rFormat1      = []fieldSpec{{token.REG, 11}}
	sFormat       = []fieldSpec{{token.REG, 21}}
	iFormatBranch = []fieldSpec{{token.REG, 21}, {token.COMMA, 0}, {token.REG, 16}, {token.COMMA, 0}, {token.INT, 16}}
	iFormatMem    = []fieldSpec{{token.REG, 16}, {token.COMMA, 0}, {token.INT, 16}, {token.LPAREN, 0}, {token.REG, 21}, {token.RPAREN, 0}}
)

// Assembler holds the label table built by the first pass and consulted by
// the second.
type Assembler struct {
	symbolTable map[string]int64
	addressMode config.AddressMode
}

// NewAssembler returns an Assembler ready to assemble one program, using the
// default byte-addressed .word-label convention (see internal/config).
func NewAssembler() *Assembler {
	return NewAssemblerWithMode(config.ByteAddress)
}

// NewAssemblerWithMode is NewAssembler with an explicit .word-label
// addressing mode, the knob internal/config exposes as wlp4.toml's
// [assembler] section.
func NewAssemblerWithMode(mode config.AddressMode) *Assembler {
	return &Assembler{symbolTable: make(map[string]int64), addressMode: mode}
}

// Assemble is a convenience wrapper around NewAssembler().Assemble.
func Assemble(source string) ([]byte, error) {
	return NewAssembler().Assemble(source)
}

// AssembleWithMode is a convenience wrapper around
// NewAssemblerWithMode(mode).Assemble.
func AssembleWithMode(source string, mode config.AddressMode) ([]byte, error) {
	return NewAssemblerWithMode(mode).Assemble(source)
}

// Assemble runs both passes over source and returns the big-endian encoded
// program, 4 bytes per word. Label tables are reset on every call, matching
// the original's one-Assembler-per-program lifetime.
func (a *Assembler) Assemble(source string) ([]byte, error) {
	program, err := scanProgram(source)
	if err != nil {
		return nil, err
	}
	a.symbolTable = make(map[string]int64)
	if err := a.checkPass(program); err != nil {
		return nil, err
	}
	words, err := a.codeGenPass(program)
	if err != nil {
		return nil, err
	}
	return encodeWords(words), nil
}

func scanProgram(source string) ([][]token.Token, error) {
	lines := strings.Split(source, "\n")
	program := make([][]token.Token, len(lines))
	for i, line := range lines {
		toks, err := asmscan.ScanLine(line, i+1)
		if err != nil {
			return nil, err
		}
		program[i] = toks
	}
	return program, nil
}

// checkPass builds the label table: one entry per LABEL token, mapped to
// the instruction count ("pc") reached so far. pc only advances once per
// source line that carries an instruction (label-only lines don't count).
func (a *Assembler) checkPass(program [][]token.Token) error {
	var pc int64
	for _, tokLine := range program {
		hasInst := false
		for _, tok := range tokLine {
			if tok.Kind != token.LABEL {
				hasInst = true
				break
			}
			if _, exists := a.symbolTable[tok.Lexeme]; exists {
				return newError(tok.Line, "Label already declared -", tok.Lexeme)
			}
			a.symbolTable[tok.Lexeme] = pc
		}
		if hasInst {
			pc++
		}
	}
	return nil
}

// codeGenPass builds one 32-bit word per instruction-bearing line, in order.
func (a *Assembler) codeGenPass(program [][]token.Token) ([]int64, error) {
	var words []int64
	var pc int64
	for _, tokLine := range program {
		i := 0
		for i < len(tokLine) && tokLine[i].Kind == token.LABEL {
			i++
		}
		if i >= len(tokLine) {
			continue
		}
		pc++
		word, err := a.buildInstruction(tokLine, i, pc)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, nil
}

func (a *Assembler) buildInstruction(tokLine []token.Token, i int, pc int64) (int64, error) {
	opTok := tokLine[i]
	if opTok.Kind != token.WORD && opTok.Kind != token.ID {
		return 0, tagLine(newError(opTok.Line, "Not an operation -", opTok.Lexeme), tokLine)
	}

	op, ok := opTable[opTok.Lexeme]
	if !ok {
		return 0, tagLine(newError(opTok.Line, "Invalid MIPS instruction -", opTok.Lexeme), tokLine)
	}
	i++

	remaining := len(tokLine) - i
	if remaining < len(op.format) {
		return 0, tagLine(newError(opTok.Line, "Missing instruction operands", ""), tokLine)
	}
	if remaining > len(op.format) {
		return 0, tagLine(newError(opTok.Line, "Too many instruction operands", ""), tokLine)
	}

	inst := op.template
	for _, f := range op.format {
		v, err := a.buildToken(tokLine[i], f.kind, f.offset, pc)
		if err != nil {
			return 0, tagLine(err, tokLine)
		}
		inst |= v
		i++
	}
	return inst, nil
}

func (a *Assembler) buildToken(tok token.Token, kind token.Kind, offset int, pc int64) (int64, *Error) {
	if tok.Kind != kind {
		if !(kind == token.INT && (tok.Kind == token.HEXINT || tok.Kind == token.ID)) {
			return 0, newError(tok.Line, "Unexpected token found -", tok.Lexeme)
		}
	}

	switch kind {
	case token.REG:
		r, err := buildRegister(tok)
		if err != nil {
			return 0, err
		}
		return r << offset, nil
	case token.INT:
		return a.buildImmediate(tok, offset, pc)
	case token.COMMA, token.LPAREN, token.RPAREN:
		return 0, nil
	default:
		return 0, newError(tok.Line, "*SOMETHING* BROKE... -", tok.Lexeme)
	}
}

func buildRegister(tok token.Token) (int64, *Error) {
	reg, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil || reg < 0 || reg > 31 {
		return 0, newError(tok.Line, "Invalid register number -", tok.Lexeme)
	}
	return reg, nil
}

// buildImmediate resolves an INT/HEXINT literal or an ID label reference to
// its numeric value, then range-checks it against a bc-bit two's-complement
// mask. Label references use two conventions depending on bc: a 16-bit
// field (branch targets) holds the label's instruction offset from the
// following instruction; a 32-bit field (.word F<proc>, or other full-word
// label references) holds its byte address, or its raw instruction index
// when the Assembler's mode is config.InstructionIndex.
func (a *Assembler) buildImmediate(tok token.Token, bc int, pc int64) (int64, *Error) {
	var imm int64
	if tok.Kind == token.ID {
		addr, ok := a.symbolTable[tok.Lexeme+":"]
		if !ok {
			return 0, newError(tok.Line, "Label was not declared -", tok.Lexeme)
		}
		switch {
		case bc < 32:
			imm = addr - pc
		case a.addressMode == config.InstructionIndex:
			imm = addr
		default:
			imm = addr << 2
		}
	} else {
		v, err := parseNumber(tok)
		if err != nil {
			return 0, err
		}
		imm = v
	}

	var mask int64
	for i := 0; i < bc; i++ {
		mask = (mask << 1) + 1
	}
	if (imm < 0 && -imm > (mask>>1)+1) || imm > mask {
		return 0, newError(tok.Line, "Immediate is out of bounds -", tok.Lexeme)
	}
	return imm & mask, nil
}

func parseNumber(tok token.Token) (int64, *Error) {
	if tok.Kind == token.HEXINT {
		lex := strings.TrimPrefix(strings.TrimPrefix(tok.Lexeme, "0x"), "0X")
		v, err := strconv.ParseInt(lex, 16, 64)
		if err != nil {
			return 0, newError(tok.Line, "Unexpected token found -", tok.Lexeme)
		}
		return v, nil
	}
	v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return 0, newError(tok.Line, "Unexpected token found -", tok.Lexeme)
	}
	return v, nil
}

func encodeWords(words []int64) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = append(out, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	return out
}
