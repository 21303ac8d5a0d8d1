package token

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestKindStringRoundTrip(t *testing.T) {
	for k := ILLEGAL; k <= WORD; k++ {
		name := k.String()
		got, ok := KindFromString(name)
		be.True(t, ok)
		be.Equal(t, got, k)
	}
}

func TestKindFromStringUnknown(t *testing.T) {
	_, ok := KindFromString("NOT_A_KIND")
	be.True(t, !ok)
}

func TestKeyword(t *testing.T) {
	k, ok := Keyword("wain")
	be.True(t, ok)
	be.Equal(t, k, WAIN)

	_, ok = Keyword("notakeyword")
	be.True(t, !ok)
}

func TestTokenStringAndParseLine(t *testing.T) {
	tok := Token{Kind: ID, Lexeme: "foo", Line: 7}
	line := tok.String()
	be.Equal(t, line, "ID foo")

	parsed, ok := ParseLine(line)
	be.True(t, ok)
	be.Equal(t, parsed.Kind, ID)
	be.Equal(t, parsed.Lexeme, "foo")
}

func TestParseLineMalformed(t *testing.T) {
	_, ok := ParseLine("nospacehere")
	be.True(t, !ok)

	_, ok = ParseLine("BOGUSKIND x")
	be.True(t, !ok)
}
