package asm

import (
	"reflect"
	"strings"
	"testing"

	"wlp4/internal/config"
)

// testEncodeWords is the test-local mirror of the package's big-endian word
// encoding, used to build "want" byte slices from readable hex words.
func testEncodeWords(words ...int64) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = append(out, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	return out
}

func TestAssembleRFormat(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"add", "add $3, $1, $2", testEncodeWords(0x221820)},
		{"sub", "sub $3, $1, $2", testEncodeWords(0x221822)},
		{"mult", "mult $5, $6", testEncodeWords(0xa60018)},
		{"mflo", "mflo $3", testEncodeWords(0x1812)},
		{"jr", "jr $31", testEncodeWords(0x3e00008)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Assemble(tc.src)
			if err != nil {
				t.Fatalf("Assemble(%q) error: %v", tc.src, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Assemble(%q) = %#v, want %#v", tc.src, got, tc.want)
			}
		})
	}
}

func TestAssembleDotWord(t *testing.T) {
	got, err := Assemble(".word 4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := testEncodeWords(4)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestAssembleLabelAndBranch(t *testing.T) {
	src := "lis $5\n.word 4\nloop: beq $0, $0, loop\n"
	got, err := Assemble(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// lis $5, .word 4, then beq $0,$0,loop where loop resolves to pc=2
	// (the beq instruction's own position, the only instruction on its
	// line) and the beq's own pc after increment is 3, giving offset -1.
	want := testEncodeWords(0x2814, 4, 0x1000ffff)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestAssembleMemFormat(t *testing.T) {
	got, err := Assemble("lw $3, 4($29)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := testEncodeWords(0x8fa30004)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantSub string
	}{
		{"unknown mnemonic", "frobnicate $1, $2", "Invalid MIPS instruction -"},
		{"not an operation", "$1, $2", "Not an operation -"},
		{"missing operands", "add $1, $2", "Missing instruction operands"},
		{"too many operands", "jr $1, $2", "Too many instruction operands"},
		{"bad register", "add $40, $1, $2", "Invalid register number -"},
		{"undeclared label", "beq $0, $0, nowhere", "Label was not declared -"},
		{"duplicate label", "here: add $0, $0, $0\nhere: add $0, $0, $0", "Label already declared -"},
		{"immediate out of bounds", ".word 99999999999", "Immediate is out of bounds -"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Assemble(tc.src)
			if err == nil {
				t.Fatalf("Assemble(%q): expected error, got nil", tc.src)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("Assemble(%q) error = %q, want substring %q", tc.src, err.Error(), tc.wantSub)
			}
		})
	}
}

func TestAssembleWithModeAddressesWordLabel(t *testing.T) {
	src := "add $0, $0, $0\nproc: sub $0, $0, $0\n.word proc\n"

	byteAddr, err := AssembleWithMode(src, config.ByteAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := testEncodeWords(0x20, 0x22, 4); !reflect.DeepEqual(byteAddr, want) {
		t.Errorf("byte-addressed: got %#v, want %#v", byteAddr, want)
	}

	idxAddr, err := AssembleWithMode(src, config.InstructionIndex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := testEncodeWords(0x20, 0x22, 1); !reflect.DeepEqual(idxAddr, want) {
		t.Errorf("instruction-indexed: got %#v, want %#v", idxAddr, want)
	}
}

func TestAssembleEmptyProgram(t *testing.T) {
	got, err := Assemble("\n\n# nothing but blank lines\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d bytes, want 0", len(got))
	}
}
