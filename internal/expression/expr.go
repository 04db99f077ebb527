package expression

import (
	"fmt"
	"strings"
)

type Expr struct {
	Source string
	Expression
}

func (e *Expr) String() string {
	return e.Source
}

// Tree renders the parsed expression as an S-expression.
func (e *Expr) Tree() string {
	return e.Expression.String()
}

func ParseExpr(source string) (*Expr, error) {
	return parseExpr(source, parserDebugLog)
}

func ParseExprWithDebugOutput(source string) (*Expr, error) {
	return parseExpr(source, true)
}

func parseExpr(source string, debug bool) (*Expr, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, fmt.Errorf("expr=%q: %w", source, err)
	}

	p := &parser{tokens: NewTokenStream(tokens...), debug: debug}
	expression, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("expr=%q: %w", source, err)
	}

	return &Expr{
		Source:     source,
		Expression: expression,
	}, nil
}

func ExpandExprRecursive(value any) (any, error) {
	return expandExprRecursive(value, ParseExpr)
}

func ExpandExprRecursiveWithDebugOutput(value any) (any, error) {
	return expandExprRecursive(value, ParseExprWithDebugOutput)
}

func expandExprRecursive(value any, parseExpr func(string) (*Expr, error)) (any, error) {
	switch v := value.(type) {
	case string:
		return expandExpr(v, parseExpr)

	case map[string]any:
		result := make(map[string]any, len(v))
		for key, value := range v {
			var err error
			result[key], err = expandExprRecursive(value, parseExpr)
			if err != nil {
				return nil, fmt.Errorf("key=%q: %w", key, err)
			}
		}
		return result, nil

	case []any:
		result := make([]any, len(v))
		for i, value := range v {
			var err error
			result[i], err = expandExprRecursive(value, parseExpr)
			if err != nil {
				return nil, fmt.Errorf("index=%d: %w", i, err)
			}
		}
		return result, nil

	default:
		return value, nil
	}
}

// ExpandExpr parses str when it has the form ${...}; any other string is returned as is.
func ExpandExpr(str string) (any, error) {
	return expandExpr(str, ParseExpr)
}

func expandExpr(str string, parseExpr func(string) (*Expr, error)) (any, error) {
	if IsExpr(str) {
		return parseExpr(TrimExprParen(str))
	}

	return str, nil
}

func IsExpr(str string) bool {
	return strings.HasPrefix(str, "${") && strings.HasSuffix(str, "}")
}

func TrimExprParen(str string) string {
	return strings.TrimSuffix(strings.TrimPrefix(str, "${"), "}")
}
