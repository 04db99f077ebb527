package expression

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

type TokenKind int

const (
	LiteralKind TokenKind = iota
	PlusKind
	MinusKind
	StarKind
	LParenKind
	RParenKind
	EndOfInputKind
)

var tokenKindNameMap = map[TokenKind]string{
	LiteralKind:    "Literal",
	PlusKind:       "Plus",
	MinusKind:      "Minus",
	StarKind:       "Star",
	LParenKind:     "LParen",
	RParenKind:     "RParen",
	EndOfInputKind: "EndOfInput",
}

var tokenKindByNameMap = lo.Invert(tokenKindNameMap)

func (k TokenKind) String() string {
	if name, ok := tokenKindNameMap[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// ParseTokenKind returns the kind named name, as printed by TokenKind.String.
func ParseTokenKind(name string) (TokenKind, bool) {
	k, ok := tokenKindByNameMap[name]
	return k, ok
}

var operatorTokenSymbolMap = map[TokenKind]string{
	PlusKind:   "+",
	MinusKind:  "-",
	StarKind:   "*",
	LParenKind: "(",
	RParenKind: ")",
}

// Token is an immutable lexical unit. The value is defined only for LiteralKind.
type Token struct {
	kind      TokenKind
	value     int64
	beginsPos int
	endsPos   int
}

func NewLiteralToken(value int64) Token {
	return Token{kind: LiteralKind, value: value, beginsPos: -1, endsPos: -1}
}

// NewToken builds a valueless token. LiteralKind needs a value, use NewLiteralToken.
func NewToken(kind TokenKind) Token {
	if _, ok := tokenKindNameMap[kind]; !ok || kind == LiteralKind {
		panic(fmt.Sprintf("invalid token kind for NewToken: %s", kind))
	}
	return Token{kind: kind, beginsPos: -1, endsPos: -1}
}

func EndOfInputToken() Token {
	return NewToken(EndOfInputKind)
}

func (t Token) withRange(beginsPos, endsPos int) Token {
	t.beginsPos = beginsPos
	t.endsPos = endsPos
	return t
}

func (t Token) Kind() TokenKind {
	return t.kind
}

func (t Token) Value() (int64, bool) {
	if t.kind != LiteralKind {
		return 0, false
	}
	return t.value, true
}

// BeginsPos is the byte offset in the source the token was lexed from, or -1.
func (t Token) BeginsPos() int {
	return t.beginsPos
}

func (t Token) EndsPos() int {
	return t.endsPos
}

func (t Token) String() string {
	switch t.kind {
	case LiteralKind:
		return strconv.FormatInt(t.value, 10)
	case EndOfInputKind:
		return "<EOF>"
	default:
		if sym, ok := operatorTokenSymbolMap[t.kind]; ok {
			return sym
		}
		return t.kind.String()
	}
}

// TokenStream is a read-only token sequence. Reads past the end yield EndOfInput.
type TokenStream struct {
	tokens []Token
}

func NewTokenStream(tokens ...Token) TokenStream {
	return TokenStream{tokens: append([]Token(nil), tokens...)}
}

func (s TokenStream) Len() int {
	return len(s.tokens)
}

func (s TokenStream) At(i int) Token {
	if i < 0 || i >= len(s.tokens) {
		return EndOfInputToken()
	}
	return s.tokens[i]
}

func (s TokenStream) Tokens() []Token {
	return append([]Token(nil), s.tokens...)
}
