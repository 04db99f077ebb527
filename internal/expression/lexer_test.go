package expression_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/arith-expression/internal/expression"
	"github.com/karupanerura/arith-expression/internal/types"
)

type lexedToken struct {
	Kind      string
	Text      string
	BeginsPos int
	EndsPos   int
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tokens, err := expression.Tokenize(" 12+(3 *-45)")
	if err != nil {
		t.Fatal(err)
	}

	got := make([]lexedToken, len(tokens))
	for i, tok := range tokens {
		got[i] = lexedToken{
			Kind:      tok.Kind().String(),
			Text:      tok.String(),
			BeginsPos: tok.BeginsPos(),
			EndsPos:   tok.EndsPos(),
		}
	}

	expected := []lexedToken{
		{Kind: "Literal", Text: "12", BeginsPos: 1, EndsPos: 3},
		{Kind: "Plus", Text: "+", BeginsPos: 3, EndsPos: 4},
		{Kind: "LParen", Text: "(", BeginsPos: 4, EndsPos: 5},
		{Kind: "Literal", Text: "3", BeginsPos: 5, EndsPos: 6},
		{Kind: "Star", Text: "*", BeginsPos: 7, EndsPos: 8},
		{Kind: "Minus", Text: "-", BeginsPos: 8, EndsPos: 9},
		{Kind: "Literal", Text: "45", BeginsPos: 9, EndsPos: 11},
		{Kind: "RParen", Text: ")", BeginsPos: 11, EndsPos: 12},
		{Kind: "EndOfInput", Text: "<EOF>", BeginsPos: 12, EndsPos: 12},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestTokenizeError(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source string
		tag    types.ErrorTag
		offset int
	}{
		{source: "1 % 2", tag: types.SyntaxErrorTag, offset: 2},
		{source: "abc", tag: types.SyntaxErrorTag, offset: 0},
		{source: "2 * 18446744073709551616", tag: types.ValueErrorTag, offset: 4},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			_, err := expression.Tokenize(tt.source)
			if err == nil {
				t.Fatal("should be tokenize error")
			}

			e, ok := err.(*types.Error)
			if !ok {
				t.Fatalf("expect *types.Error but got %T", err)
			}
			if e.Tag != tt.tag {
				t.Errorf("expect tag %s but got %s", tt.tag, e.Tag)
			}
			if e.Extra["offset"] != tt.offset {
				t.Errorf("expect offset %d but got %v", tt.offset, e.Extra["offset"])
			}
		})
	}
}

func TestTokenKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []expression.TokenKind{
		expression.LiteralKind,
		expression.PlusKind,
		expression.MinusKind,
		expression.StarKind,
		expression.LParenKind,
		expression.RParenKind,
		expression.EndOfInputKind,
	} {
		parsed, ok := expression.ParseTokenKind(kind.String())
		if !ok || parsed != kind {
			t.Errorf("ParseTokenKind(%q) = %v, %v", kind.String(), parsed, ok)
		}
	}

	if _, ok := expression.ParseTokenKind("Slash"); ok {
		t.Error("Slash should not be a token kind")
	}
}

func TestTokenValue(t *testing.T) {
	t.Parallel()

	if v, ok := expression.NewLiteralToken(-3).Value(); !ok || v != -3 {
		t.Errorf("literal value: got %d, %v", v, ok)
	}
	if _, ok := expression.NewToken(expression.StarKind).Value(); ok {
		t.Error("operator token should not carry a value")
	}
	if pos := expression.NewLiteralToken(1).BeginsPos(); pos != -1 {
		t.Errorf("hand-built token should have no position but got %d", pos)
	}

	defer func() {
		if recover() == nil {
			t.Error("NewToken(LiteralKind) should panic")
		}
	}()
	expression.NewToken(expression.LiteralKind)
}
