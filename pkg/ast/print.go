package ast

import (
	"fmt"
	"math/big"
	"strings"
)

// Format renders expr in the surface syntax accepted by the parser. Compound
// operands are parenthesised, so the output is unambiguous but not minimal.
func Format(expr Expression) string {
	var b strings.Builder
	writeExpression(&b, expr)
	return b.String()
}

func writeExpression(b *strings.Builder, expr Expression) {
	switch n := expr.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Identifier:
		b.WriteString(n.Name)
	case *IntegerLiteral:
		if n.Value == nil {
			b.WriteString("0")
		} else if n.Value.Sign() < 0 {
			fmt.Fprintf(b, "(-%s)", new(big.Int).Abs(n.Value).String())
		} else {
			b.WriteString(n.Value.String())
		}
	case *BooleanLiteral:
		fmt.Fprintf(b, "%t", n.Value)
	case *UnaryExpression:
		if n.Operator == OpNot {
			b.WriteString("not ")
		} else {
			b.WriteString(n.Operator)
		}
		writeOperand(b, n.Operand)
	case *BinaryExpression:
		writeOperand(b, n.Left)
		fmt.Fprintf(b, " %s ", n.Operator)
		writeOperand(b, n.Right)
	case *LetExpression:
		fmt.Fprintf(b, "let %s = ", n.Name)
		writeExpression(b, n.Value)
		b.WriteString(" in ")
		writeExpression(b, n.Body)
		b.WriteString(" end")
	case *FunctionDefinition:
		fmt.Fprintf(b, "letfun %s(%s) = ", n.Name, n.Param)
		writeExpression(b, n.Body)
		b.WriteString(" in ")
		writeExpression(b, n.Scope)
		b.WriteString(" end")
	case *FunctionCall:
		writeOperand(b, n.Callee)
		b.WriteString("(")
		writeExpression(b, n.Argument)
		b.WriteString(")")
	case *AssignmentExpression:
		fmt.Fprintf(b, "%s := ", n.Name)
		writeExpression(b, n.Value)
	case *SequenceExpression:
		writeExpression(b, n.First)
		b.WriteString("; ")
		writeExpression(b, n.Second)
	case *ShowExpression:
		b.WriteString("show ")
		writeOperand(b, n.Expression)
	case *ReadExpression:
		b.WriteString("read")
	case *IfExpression:
		writeConditional(b, "if", n.Condition, n.Then, n.Else)
	case *IfNonZeroExpression:
		writeConditional(b, "ifnz", n.Condition, n.Then, n.Else)
	case *NoteExpression:
		fmt.Fprintf(b, "note %s for ", n.Pitch)
		writeOperand(b, n.Duration)
		b.WriteString(" seconds")
	case *TuneExpression:
		b.WriteString("tune ")
		writeList(b, n.Elements)
		if n.Instrument != nil {
			b.WriteString(" instrument ")
			writeOperand(b, n.Instrument)
		}
	case *ConcatTunesExpression:
		writeOperand(b, n.Left)
		b.WriteString(" ++ ")
		writeOperand(b, n.Right)
	case *TransposeExpression:
		b.WriteString("transpose ")
		writeOperand(b, n.Tune)
		b.WriteString(" by ")
		writeOperand(b, n.Steps)
	case *RepeatExpression:
		b.WriteString("repeat ")
		writeOperand(b, n.Expression)
		b.WriteString(" times ")
		writeOperand(b, n.Count)
	case *VolumeExpression:
		b.WriteString("volume ")
		writeOperand(b, n.Note)
		b.WriteString(" at ")
		writeOperand(b, n.Level)
	case *TrackExpression:
		b.WriteString("track ")
		writeList(b, n.Tunes)
	default:
		fmt.Fprintf(b, "<%s>", expr.NodeType())
	}
}

func writeOperand(b *strings.Builder, expr Expression) {
	switch n := expr.(type) {
	case *Identifier, *BooleanLiteral, *ReadExpression, *FunctionCall:
		writeExpression(b, expr)
	case *IntegerLiteral:
		writeExpression(b, n)
	default:
		b.WriteString("(")
		writeExpression(b, expr)
		b.WriteString(")")
	}
}

func writeConditional(b *strings.Builder, keyword string, cond, then, otherwise Expression) {
	fmt.Fprintf(b, "%s ", keyword)
	writeExpression(b, cond)
	b.WriteString(" then ")
	writeExpression(b, then)
	b.WriteString(" else ")
	writeExpression(b, otherwise)
	b.WriteString(" end")
}

func writeList(b *strings.Builder, items []Expression) {
	b.WriteString("{")
	for idx, item := range items {
		if idx > 0 {
			b.WriteString(", ")
		}
		writeExpression(b, item)
	}
	b.WriteString("}")
}
