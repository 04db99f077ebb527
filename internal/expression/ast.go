package expression

import (
	"fmt"
	"strconv"
	"strings"
)

type Operator int

const (
	Add Operator = iota
	Sub
	Mul
)

var operatorSymbolMap = map[Operator]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
}

func (o Operator) String() string {
	if sym, ok := operatorSymbolMap[o]; ok {
		return sym
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Expression is a node of a parsed arithmetic expression tree.
type Expression interface {
	fmt.Stringer
	evaluate() int64
}

type LiteralExpr struct {
	Value int64
}

type UnaryMinusExpr struct {
	Operand Expression
}

type BinaryExpr struct {
	Op    Operator
	Left  Expression
	Right Expression
}

var (
	_ Expression = (*LiteralExpr)(nil)
	_ Expression = (*UnaryMinusExpr)(nil)
	_ Expression = (*BinaryExpr)(nil)
)

func (e *LiteralExpr) String() string {
	return strconv.FormatInt(e.Value, 10)
}

func (e *UnaryMinusExpr) String() string {
	return renderList("-", e.Operand)
}

func (e *BinaryExpr) String() string {
	return renderList(e.Op.String(), e.Left, e.Right)
}

func renderList(op string, operands ...Expression) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(op)
	for _, operand := range operands {
		b.WriteByte(' ')
		if operand == nil {
			b.WriteString("nil")
			continue
		}
		b.WriteString(operand.String())
	}
	b.WriteByte(')')
	return b.String()
}
