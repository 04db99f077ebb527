package expression

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/karupanerura/arith-expression/internal/types"
)

type lexer struct {
	source string
	index  int
}

func newLexer(source string) *lexer {
	return &lexer{
		source: source,
		index:  0,
	}
}

var operatorTokenKindMap = map[byte]TokenKind{
	'+': PlusKind,
	'-': MinusKind,
	'*': StarKind,
	'(': LParenKind,
	')': RParenKind,
}

// Tokenize splits source into tokens terminated by an EndOfInput token.
func Tokenize(source string) ([]Token, error) {
	lex := newLexer(source)

	var tokens []Token
	for {
		tok, err := lex.consume()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	return append(tokens, EndOfInputToken().withRange(len(source), len(source))), nil
}

func (l *lexer) consume() (Token, error) {
	for l.index != len(l.source) {
		switch c := l.source[l.index]; c {
		case ' ', '\t', '\n', '\r':
			l.index++ // just skip white spaces
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return l.consumeNumericLiteral()
		default:
			kind, ok := operatorTokenKindMap[c]
			if !ok {
				return Token{}, &types.Error{
					Tag:   types.SyntaxErrorTag,
					Err:   fmt.Errorf("invalid character at %d: %q", l.index, c),
					Extra: map[string]any{"offset": l.index},
				}
			}
			l.index++
			return NewToken(kind).withRange(l.index-1, l.index), nil
		}
	}

	return Token{}, io.EOF
}

func (l *lexer) consumeNumericLiteral() (Token, error) {
	beginsPos := l.index
	for l.index != len(l.source) && '0' <= l.source[l.index] && l.source[l.index] <= '9' {
		l.index++
	}

	literal := l.source[beginsPos:l.index]
	v, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return Token{}, &types.Error{
			Tag:   types.ValueErrorTag,
			Err:   err,
			Extra: map[string]any{"offset": beginsPos},
		}
	}

	return NewLiteralToken(v).withRange(beginsPos, l.index), nil
}
