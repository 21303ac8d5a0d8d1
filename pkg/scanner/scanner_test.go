package scanner

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"wlp4/pkg/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := New().Scan(strings.NewReader(src))
	be.Err(t, err, nil)
	return toks
}

func TestScanKeywordsAndPunctuation(t *testing.T) {
	toks := scanAll(t, "int wain(int a, int b) { return a; }")
	be.Equal(t, toks[0].Kind, token.INT)
	be.Equal(t, toks[1].Kind, token.WAIN)
	be.Equal(t, toks[2].Kind, token.LPAREN)
}

func TestScanIdentifierNotKeyword(t *testing.T) {
	toks := scanAll(t, "waine")
	be.Equal(t, len(toks), 1)
	be.Equal(t, toks[0].Kind, token.ID)
	be.Equal(t, toks[0].Lexeme, "waine")
}

func TestScanZeroIsNum(t *testing.T) {
	toks := scanAll(t, "0")
	be.Equal(t, toks[0].Kind, token.NUM)
}

func TestScanMaximalMunchRelationals(t *testing.T) {
	toks := scanAll(t, "<= >= == !=")
	be.Equal(t, toks[0].Kind, token.LE)
	be.Equal(t, toks[1].Kind, token.GE)
	be.Equal(t, toks[2].Kind, token.EQ)
	be.Equal(t, toks[3].Kind, token.NE)
}

func TestScanCommentDiscarded(t *testing.T) {
	toks := scanAll(t, "int a; // trailing comment")
	be.Equal(t, len(toks), 3)
}

func TestScanNumberOutOfBounds(t *testing.T) {
	_, err := New().Scan(strings.NewReader("99999999999"))
	if err == nil {
		t.Fatalf("expected out-of-bounds error")
	}
}

func TestScanMaxInt32Accepted(t *testing.T) {
	toks := scanAll(t, "2147483647")
	be.Equal(t, toks[0].Kind, token.NUM)
}

func TestScanUnacceptedToken(t *testing.T) {
	_, err := New().Scan(strings.NewReader("@"))
	if err == nil {
		t.Fatalf("expected an unaccepted-token error")
	}
}

func TestScanLineNumberTracked(t *testing.T) {
	toks := scanAll(t, "int a;\nint b;")
	be.Equal(t, toks[0].Line, 1)
	be.Equal(t, toks[len(toks)-1].Line, 2)
}
