package interpreter

import (
	"fmt"
	"math/big"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/runtime"
)

// evaluateExpression dispatches on every expression form.
func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		if n.Value == nil {
			return runtime.Int(0), nil
		}
		return runtime.IntegerValue{Val: new(big.Int).Set(n.Value)}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.Identifier:
		cell, ok := env.Lookup(n.Name)
		if !ok {
			return nil, newError(UnboundName, "unbound Name: %s", n.Name)
		}
		return cell.Get(), nil
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.LetExpression:
		return i.evaluateLetExpression(n, env)
	case *ast.FunctionDefinition:
		return i.evaluateFunctionDefinition(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n, env)
	case *ast.SequenceExpression:
		if _, err := i.evaluateExpression(n.First, env); err != nil {
			return nil, err
		}
		return i.evaluateExpression(n.Second, env)
	case *ast.ShowExpression:
		return i.evaluateShowExpression(n, env)
	case *ast.ReadExpression:
		return i.evaluateReadExpression()
	case *ast.IfExpression:
		return i.evaluateIfExpression(n, env)
	case *ast.IfNonZeroExpression:
		return i.evaluateIfNonZeroExpression(n, env)
	case *ast.NoteExpression:
		return i.evaluateNoteExpression(n, env)
	case *ast.TuneExpression:
		return i.evaluateTuneExpression(n, env)
	case *ast.ConcatTunesExpression:
		return i.evaluateConcatTunes(n, env)
	case *ast.TransposeExpression:
		return i.evaluateTranspose(n, env)
	case *ast.RepeatExpression:
		return i.evaluateRepeat(n, env)
	case *ast.VolumeExpression:
		return i.evaluateVolume(n, env)
	case *ast.TrackExpression:
		return i.evaluateTrack(n, env)
	case nil:
		return nil, structuralError("missing expression")
	default:
		return nil, structuralError("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateLetExpression(expr *ast.LetExpression, env *runtime.Environment) (runtime.Value, error) {
	if expr.Name == "" {
		return nil, structuralError("Name cannot be empty")
	}
	val, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	return i.evaluateExpression(expr.Body, env.Extend(expr.Name, val))
}

func (i *Interpreter) evaluateFunctionDefinition(def *ast.FunctionDefinition, env *runtime.Environment) (runtime.Value, error) {
	if def.Name == "" {
		return nil, structuralError("Name cannot be empty")
	}
	fn := &runtime.FunctionValue{Name: def.Name, Param: def.Param, Body: def.Body, Closure: env}
	extended := env.Extend(def.Name, fn)
	fn.Closure = extended
	return i.evaluateExpression(def.Scope, extended)
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	calleeVal, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeVal.(*runtime.FunctionValue)
	if !ok {
		return nil, structuralError("Attempted to call a non-function")
	}
	arg, err := i.evaluateExpression(call.Argument, env)
	if err != nil {
		return nil, err
	}
	return i.invokeFunction(fn, arg)
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, arg runtime.Value) (runtime.Value, error) {
	if i.maxDepth > 0 && i.depth >= i.maxDepth {
		return nil, newError(ResourceExhausted, "maximum call depth %d exceeded in %s", i.maxDepth, fn.Name)
	}
	i.depth++
	defer func() { i.depth-- }()
	return i.evaluateExpression(fn.Body, fn.Closure.Extend(fn.Param, arg))
}

func (i *Interpreter) evaluateAssignment(assign *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	cell, ok := env.Lookup(assign.Name)
	if !ok {
		return nil, newError(UnboundName, "unbound name %s", assign.Name)
	}
	if _, isFn := cell.Get().(*runtime.FunctionValue); isFn {
		return nil, structuralError("cannot assign to function name %s", assign.Name)
	}
	val, err := i.evaluateExpression(assign.Value, env)
	if err != nil {
		return nil, err
	}
	cell.Set(val)
	return val, nil
}

func (i *Interpreter) evaluateShowExpression(show *ast.ShowExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(show.Expression, env)
	if err != nil {
		return nil, err
	}
	switch v := val.(type) {
	case runtime.IntegerValue, runtime.BoolValue:
		if _, err := fmt.Fprintln(i.out, v); err != nil {
			return nil, &Error{Kind: RenderFailure, Message: "show failed", Err: err}
		}
	case runtime.NoteValue, runtime.TuneValue, runtime.TrackValue:
		if i.renderer == nil {
			i.logger.Warn("no score renderer configured", "kind", v.Kind())
			break
		}
		if err := i.renderer.Render(v, i.defaultInstrument); err != nil {
			return nil, &Error{Kind: RenderFailure, Message: "rendering score failed", Err: err}
		}
	default:
		i.logger.Debug("show has no output for value", "kind", val.Kind())
	}
	return val, nil
}

func (i *Interpreter) evaluateReadExpression() (runtime.Value, error) {
	line, err := i.in.ReadLine(ReadPrompt)
	if err != nil {
		return nil, &Error{Kind: InputFormat, Message: "reading input failed", Err: err}
	}
	n, ok := parseInteger(line)
	if !ok {
		return nil, newError(InputFormat, "Expected an integer, got: %s", line)
	}
	return runtime.IntegerValue{Val: n}, nil
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression, env *runtime.Environment) (runtime.Value, error) {
	condVal, err := i.evaluateExpression(expr.Condition, env)
	if err != nil {
		return nil, err
	}
	cond, ok := condVal.(runtime.BoolValue)
	if !ok {
		return nil, typeError("If condition must be boolean")
	}
	if cond.Val {
		return i.evaluateExpression(expr.Then, env)
	}
	return i.evaluateExpression(expr.Else, env)
}

func (i *Interpreter) evaluateIfNonZeroExpression(expr *ast.IfNonZeroExpression, env *runtime.Environment) (runtime.Value, error) {
	condVal, err := i.evaluateExpression(expr.Condition, env)
	if err != nil {
		return nil, err
	}
	cond, ok := condVal.(runtime.IntegerValue)
	if !ok {
		return nil, typeError("Ifnz condition must be an int")
	}
	branch, label := expr.Else, "else"
	if cond.Val.Sign() != 0 {
		branch, label = expr.Then, "then"
	}
	val, err := i.evaluateExpression(branch, env)
	if err != nil {
		return nil, err
	}
	switch val.(type) {
	case runtime.IntegerValue, runtime.BoolValue:
		return val, nil
	default:
		return nil, typeError("Ifnz %s must be int or bool", label)
	}
}
