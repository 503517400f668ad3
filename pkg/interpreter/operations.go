package interpreter

import (
	"math/big"
	"strings"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/runtime"
)

var operatorVerbs = map[string]string{
	ast.OpAdd: "add",
	ast.OpSub: "subtract",
	ast.OpMul: "multiply",
	ast.OpDiv: "divide",
}

var operatorNames = map[string]string{
	ast.OpAdd: "addition",
	ast.OpSub: "subtraction",
	ast.OpMul: "multiplication",
	ast.OpDiv: "division",
	ast.OpAnd: "And",
	ast.OpOr:  "Or",
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.OpNeg:
		switch v := operand.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: new(big.Int).Neg(v.Val)}, nil
		case runtime.BoolValue:
			return nil, typeError("cannot negate boolean values")
		default:
			return nil, typeError("negation operator requires integer operands")
		}
	case ast.OpNot:
		if bv, ok := operand.(runtime.BoolValue); ok {
			return runtime.BoolValue{Val: !bv.Val}, nil
		}
		return nil, typeError("Not operator requires boolean operands")
	default:
		return nil, structuralError("unsupported unary operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	leftVal, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.OpAnd, ast.OpOr:
		lb, ok := leftVal.(runtime.BoolValue)
		if !ok {
			return nil, typeError("%s operator requires boolean operands", operatorNames[expr.Operator])
		}
		// and stops on false, or stops on true
		if lb.Val == (expr.Operator == ast.OpOr) {
			return lb, nil
		}
		rightVal, err := i.evaluateExpression(expr.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := rightVal.(runtime.BoolValue)
		if !ok {
			return nil, typeError("%s operator requires boolean operands", operatorNames[expr.Operator])
		}
		return rb, nil
	}
	rightVal, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr.Operator, leftVal, rightVal)
}

func applyBinaryOperator(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		return evaluateArithmetic(op, left, right)
	case ast.OpEq, ast.OpNeq:
		eq, ok := runtime.Equal(left, right)
		if !ok {
			return nil, typeError("Must compare using int, bool, Tune, or Note types")
		}
		if op == ast.OpNeq {
			eq = !eq
		}
		return runtime.BoolValue{Val: eq}, nil
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return evaluateComparison(op, left, right)
	default:
		return nil, structuralError("unsupported binary operator %s", op)
	}
}

func evaluateArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	_, lb := left.(runtime.BoolValue)
	_, rb := right.(runtime.BoolValue)
	if lb || rb {
		return nil, typeError("cannot %s boolean values", operatorVerbs[op])
	}
	l, lok := left.(runtime.IntegerValue)
	r, rok := right.(runtime.IntegerValue)
	if !lok || !rok {
		return nil, typeError("%s operator requires integer operands", operatorNames[op])
	}
	result := new(big.Int)
	switch op {
	case ast.OpAdd:
		result.Add(l.Val, r.Val)
	case ast.OpSub:
		result.Sub(l.Val, r.Val)
	case ast.OpMul:
		result.Mul(l.Val, r.Val)
	case ast.OpDiv:
		if r.Val.Sign() == 0 {
			return nil, newError(DivisionByZero, "division by zero")
		}
		result = floorDiv(l.Val, r.Val)
	}
	return runtime.IntegerValue{Val: result}, nil
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(a, b *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(a, b, new(big.Int))
	if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	return q
}

func evaluateComparison(op string, left, right runtime.Value) (runtime.Value, error) {
	l, lok := left.(runtime.IntegerValue)
	r, rok := right.(runtime.IntegerValue)
	if !lok || !rok {
		return nil, typeError("operand must be integer")
	}
	cmp := l.Val.Cmp(r.Val)
	var out bool
	switch op {
	case ast.OpLt:
		out = cmp < 0
	case ast.OpLte:
		out = cmp <= 0
	case ast.OpGt:
		out = cmp > 0
	case ast.OpGte:
		out = cmp >= 0
	}
	return runtime.BoolValue{Val: out}, nil
}

func parseInteger(text string) (*big.Int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	return new(big.Int).SetString(text, 10)
}
