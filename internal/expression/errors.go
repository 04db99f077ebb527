package expression

import (
	"fmt"

	"github.com/karupanerura/arith-expression/internal/types"
)

// ParseError reports where and why a token stream could not be parsed.
// Index is the position of the offending token in the stream.
type ParseError struct {
	Tag   types.ErrorTag
	Index int
	Token Token

	// Open is the index of the unclosed LParen for UnmatchedParen, otherwise -1.
	Open int
}

var _ types.Exception = (*ParseError)(nil)

func (e *ParseError) Error() string {
	switch e.Tag {
	case types.EmptyInputTag:
		return fmt.Sprintf("%s: empty expression is not allowed", e.Tag)
	case types.UnmatchedParenTag:
		return fmt.Sprintf("%s: expected ) for ( at %d but got %s at %d", e.Tag, e.Open, e.Token, e.Index)
	case types.TrailingTokensTag:
		return fmt.Sprintf("%s: unexpected %s at %d after complete expression", e.Tag, e.Token, e.Index)
	default:
		return fmt.Sprintf("%s: invalid token %s at %d", e.Tag, e.Token, e.Index)
	}
}

func (e *ParseError) ErrorTag() types.ErrorTag {
	return e.Tag
}

func (e *ParseError) Exception() any {
	o := map[string]any{
		"tags":    []any{e.Tag},
		"message": e.Error(),
		"index":   e.Index,
		"token":   e.Token.String(),
	}
	if e.Open >= 0 {
		o["open"] = e.Open
	}
	if pos := e.Token.BeginsPos(); pos >= 0 {
		o["offset"] = pos
	}
	return o
}

func newParseError(tag types.ErrorTag, index int, tok Token) *ParseError {
	return &ParseError{Tag: tag, Index: index, Token: tok, Open: -1}
}
