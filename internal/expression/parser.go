package expression

import (
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"

	"github.com/karupanerura/arith-expression/internal/types"
)

var prefixOperatorBindingPowerMap = map[TokenKind]uint8{
	MinusKind: 3,
}

var infixOperatorBindingPowerMap = map[TokenKind]uint8{
	PlusKind:  1,
	MinusKind: 1,
	StarKind:  2,
}

var infixOperatorMap = map[TokenKind]Operator{
	PlusKind:  Add,
	MinusKind: Sub,
	StarKind:  Mul,
}

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("ARITH_EXPRESSION_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type parser struct {
	tokens TokenStream
	cursor int
	debug  bool
}

// Parse builds an expression tree from tokens by precedence climbing.
// The returned error is a *ParseError.
func Parse(tokens TokenStream) (Expression, error) {
	p := &parser{tokens: tokens, debug: parserDebugLog}
	return p.parse()
}

func ParseWithDebugOutput(tokens TokenStream) (Expression, error) {
	p := &parser{tokens: tokens, debug: true}
	return p.parse()
}

func (p *parser) parse() (Expression, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		if p.debug {
			log.Println("parse error: ", err)
		}
		return nil, err
	}

	if tok := p.peek(); tok.Kind() != EndOfInputKind {
		if p.debug {
			log.Println("not consumed token: ", tok)
		}
		return nil, newParseError(types.TrailingTokensTag, p.cursor, tok)
	}
	// tokens after an explicit EndOfInput are never read by the grammar
	if p.cursor+1 < p.tokens.Len() {
		return nil, newParseError(types.TrailingTokensTag, p.cursor+1, p.tokens.At(p.cursor+1))
	}

	if p.debug {
		pp.Println(p.tokens.Tokens())
		pp.Println(expr)
		log.Println(expr.String())
	}
	return expr, nil
}

func (p *parser) peek() Token {
	return p.tokens.At(p.cursor)
}

func (p *parser) advance() (Token, int) {
	tok, index := p.tokens.At(p.cursor), p.cursor
	if tok.Kind() != EndOfInputKind {
		p.cursor++
	}
	return tok, index
}

func (p *parser) parseExpression(minBP uint8) (Expression, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		bp, isInfixOP := infixOperatorBindingPowerMap[tok.Kind()]
		if !isInfixOP || bp < minBP {
			if p.debug {
				log.Println("stop at: ", tok, "minBP:", minBP, "left:", left)
			}
			return left, nil
		}
		p.advance()

		right, err := p.parseExpression(bp + 1)
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{
			Op:    infixOperatorMap[tok.Kind()],
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) parsePrimary() (Expression, error) {
	tok, index := p.advance()
	if p.debug {
		log.Println("primary token: ", tok, "at", index)
	}

	switch tok.Kind() {
	case LiteralKind:
		v, _ := tok.Value()
		return &LiteralExpr{Value: v}, nil

	case MinusKind:
		operand, err := p.parseExpression(prefixOperatorBindingPowerMap[MinusKind])
		if err != nil {
			return nil, err
		}
		return &UnaryMinusExpr{Operand: operand}, nil

	case LParenKind:
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}

		closeTok, closeIndex := p.advance()
		if closeTok.Kind() != RParenKind {
			err := newParseError(types.UnmatchedParenTag, closeIndex, closeTok)
			err.Open = index
			return nil, err
		}
		return inner, nil

	case EndOfInputKind:
		if index == 0 {
			return nil, newParseError(types.EmptyInputTag, index, tok)
		}
		return nil, newParseError(types.UnexpectedTokenTag, index, tok)

	case PlusKind, StarKind, RParenKind:
		return nil, newParseError(types.UnexpectedTokenTag, index, tok)

	default:
		return nil, newParseError(types.UnexpectedTokenTag, index, tok)
	}
}
