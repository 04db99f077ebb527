package expression

import (
	"fmt"
)

// Evaluate reduces e to a single integer. Arithmetic wraps on int64 overflow.
func Evaluate(e Expression) int64 {
	return e.evaluate()
}

func (e *LiteralExpr) evaluate() int64 {
	return e.Value
}

func (e *UnaryMinusExpr) evaluate() int64 {
	return -e.Operand.evaluate()
}

func (e *BinaryExpr) evaluate() int64 {
	left := e.Left.evaluate()
	right := e.Right.evaluate()

	switch e.Op {
	case Add:
		return left + right
	case Sub:
		return left - right
	case Mul:
		return left * right
	default:
		panic(fmt.Sprintf("should not reach here: unknown operator %s", e.Op))
	}
}

// EvaluateRecursive replaces every *Expr found in maps and slices with its value.
func EvaluateRecursive(value any) any {
	switch v := value.(type) {
	case *Expr:
		return Evaluate(v)

	case map[string]any:
		result := make(map[string]any, len(v))
		for key, value := range v {
			result[key] = EvaluateRecursive(value)
		}
		return result

	case []any:
		result := make([]any, len(v))
		for i, value := range v {
			result[i] = EvaluateRecursive(value)
		}
		return result

	default:
		return value
	}
}
