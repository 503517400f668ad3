package ast

import "math/big"

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(big.NewInt(value))
}

func IntBig(value *big.Int) *IntegerLiteral {
	return NewIntegerLiteral(new(big.Int).Set(value))
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

// Operator helpers.

func Un(op string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Neg(operand Expression) *UnaryExpression { return Un(OpNeg, operand) }
func Not(operand Expression) *UnaryExpression { return Un(OpNot, operand) }
func Add(l, r Expression) *BinaryExpression   { return Bin(OpAdd, l, r) }
func Sub(l, r Expression) *BinaryExpression   { return Bin(OpSub, l, r) }
func Mul(l, r Expression) *BinaryExpression   { return Bin(OpMul, l, r) }
func Div(l, r Expression) *BinaryExpression   { return Bin(OpDiv, l, r) }
func And(l, r Expression) *BinaryExpression   { return Bin(OpAnd, l, r) }
func Or(l, r Expression) *BinaryExpression    { return Bin(OpOr, l, r) }
func Eq(l, r Expression) *BinaryExpression    { return Bin(OpEq, l, r) }
func Neq(l, r Expression) *BinaryExpression   { return Bin(OpNeq, l, r) }
func Lt(l, r Expression) *BinaryExpression    { return Bin(OpLt, l, r) }
func LtEq(l, r Expression) *BinaryExpression  { return Bin(OpLte, l, r) }
func Gt(l, r Expression) *BinaryExpression    { return Bin(OpGt, l, r) }
func GtEq(l, r Expression) *BinaryExpression  { return Bin(OpGte, l, r) }

// Binding, control flow and I/O helpers.

func Let(name string, value, body Expression) *LetExpression {
	return NewLetExpression(name, value, body)
}

func Fun(name, param string, body, scope Expression) *FunctionDefinition {
	return NewFunctionDefinition(name, param, body, scope)
}

func Call(callee, argument Expression) *FunctionCall {
	return NewFunctionCall(callee, argument)
}

func Assign(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(name, value)
}

// Seq chains expressions left to right; the last one supplies the result.
func Seq(first Expression, rest ...Expression) Expression {
	out := first
	for _, next := range rest {
		out = NewSequenceExpression(out, next)
	}
	return out
}

func Show(expr Expression) *ShowExpression {
	return NewShowExpression(expr)
}

func Read() *ReadExpression {
	return NewReadExpression()
}

func If(cond, then, otherwise Expression) *IfExpression {
	return NewIfExpression(cond, then, otherwise)
}

func Ifnz(cond, then, otherwise Expression) *IfNonZeroExpression {
	return NewIfNonZeroExpression(cond, then, otherwise)
}

// Music helpers.

func Note(pitch string, duration Expression) *NoteExpression {
	return NewNoteExpression(pitch, duration)
}

func Tune(instrument Expression, elements ...Expression) *TuneExpression {
	return NewTuneExpression(elements, instrument)
}

func Concat(left, right Expression) *ConcatTunesExpression {
	return NewConcatTunesExpression(left, right)
}

func Transpose(tune, steps Expression) *TransposeExpression {
	return NewTransposeExpression(tune, steps)
}

func Repeat(expr, count Expression) *RepeatExpression {
	return NewRepeatExpression(expr, count)
}

func Volume(note, level Expression) *VolumeExpression {
	return NewVolumeExpression(note, level)
}

func Track(tunes ...Expression) *TrackExpression {
	return NewTrackExpression(tunes)
}
