package ast

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Decode rebuilds an expression tree from its generic document form: maps
// keyed by the json field names of the node structs, each carrying "type".
func Decode(node map[string]any) (Expression, error) {
	typ, _ := node["type"].(string)
	switch NodeType(typ) {
	case NodeIdentifier:
		name, err := stringField(node, "name")
		if err != nil {
			return nil, err
		}
		return NewIdentifier(name), nil
	case NodeIntegerLiteral:
		val, err := parseBigInt(node["value"])
		if err != nil {
			return nil, err
		}
		return NewIntegerLiteral(val), nil
	case NodeBooleanLiteral:
		val, ok := node["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("BooleanLiteral value must be a boolean, got %T", node["value"])
		}
		return NewBooleanLiteral(val), nil
	case NodeUnaryExpression:
		op, err := stringField(node, "operator")
		if err != nil {
			return nil, err
		}
		if op != OpNeg && op != OpNot {
			return nil, fmt.Errorf("unsupported unary operator %q", op)
		}
		operand, err := childExpression(node, "operand")
		if err != nil {
			return nil, err
		}
		return NewUnaryExpression(op, operand), nil
	case NodeBinaryExpression:
		op, err := stringField(node, "operator")
		if err != nil {
			return nil, err
		}
		if !binaryOperators[op] {
			return nil, fmt.Errorf("unsupported binary operator %q", op)
		}
		left, right, err := childPair(node, "left", "right")
		if err != nil {
			return nil, err
		}
		return NewBinaryExpression(op, left, right), nil
	case NodeLetExpression:
		name, _ := node["name"].(string)
		value, body, err := childPair(node, "value", "body")
		if err != nil {
			return nil, err
		}
		return NewLetExpression(name, value, body), nil
	case NodeFunctionDefinition:
		name, err := stringField(node, "name")
		if err != nil {
			return nil, err
		}
		param, err := stringField(node, "param")
		if err != nil {
			return nil, err
		}
		body, scope, err := childPair(node, "body", "scope")
		if err != nil {
			return nil, err
		}
		return NewFunctionDefinition(name, param, body, scope), nil
	case NodeFunctionCall:
		callee, argument, err := childPair(node, "callee", "argument")
		if err != nil {
			return nil, err
		}
		return NewFunctionCall(callee, argument), nil
	case NodeAssignmentExpression:
		name, err := stringField(node, "name")
		if err != nil {
			return nil, err
		}
		value, err := childExpression(node, "value")
		if err != nil {
			return nil, err
		}
		return NewAssignmentExpression(name, value), nil
	case NodeSequenceExpression:
		first, second, err := childPair(node, "first", "second")
		if err != nil {
			return nil, err
		}
		return NewSequenceExpression(first, second), nil
	case NodeShowExpression:
		expr, err := childExpression(node, "expression")
		if err != nil {
			return nil, err
		}
		return NewShowExpression(expr), nil
	case NodeReadExpression:
		return NewReadExpression(), nil
	case NodeIfExpression, NodeIfNonZeroExpression:
		cond, err := childExpression(node, "condition")
		if err != nil {
			return nil, err
		}
		then, otherwise, err := childPair(node, "then", "else")
		if err != nil {
			return nil, err
		}
		if NodeType(typ) == NodeIfNonZeroExpression {
			return NewIfNonZeroExpression(cond, then, otherwise), nil
		}
		return NewIfExpression(cond, then, otherwise), nil
	case NodeNoteExpression:
		pitch, _ := node["pitch"].(string)
		duration, err := childExpression(node, "duration")
		if err != nil {
			return nil, err
		}
		return NewNoteExpression(pitch, duration), nil
	case NodeTuneExpression:
		elements, err := childList(node, "elements")
		if err != nil {
			return nil, err
		}
		var instrument Expression
		if _, ok := node["instrument"]; ok {
			instrument, err = childExpression(node, "instrument")
			if err != nil {
				return nil, err
			}
		} else {
			instrument = Int(1)
		}
		return NewTuneExpression(elements, instrument), nil
	case NodeConcatTunesExpression:
		left, right, err := childPair(node, "left", "right")
		if err != nil {
			return nil, err
		}
		return NewConcatTunesExpression(left, right), nil
	case NodeTransposeExpression:
		tune, steps, err := childPair(node, "tune", "steps")
		if err != nil {
			return nil, err
		}
		return NewTransposeExpression(tune, steps), nil
	case NodeRepeatExpression:
		expr, count, err := childPair(node, "expression", "count")
		if err != nil {
			return nil, err
		}
		return NewRepeatExpression(expr, count), nil
	case NodeVolumeExpression:
		note, level, err := childPair(node, "note", "level")
		if err != nil {
			return nil, err
		}
		return NewVolumeExpression(note, level), nil
	case NodeTrackExpression:
		tunes, err := childList(node, "tunes")
		if err != nil {
			return nil, err
		}
		return NewTrackExpression(tunes), nil
	case "":
		return nil, fmt.Errorf("node is missing its type")
	default:
		return nil, fmt.Errorf("unsupported node type %q", typ)
	}
}

var binaryOperators = map[string]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true,
	OpAnd: true, OpOr: true,
	OpEq: true, OpNeq: true, OpLt: true, OpLte: true, OpGt: true, OpGte: true,
}

func stringField(node map[string]any, key string) (string, error) {
	val, ok := node[key].(string)
	if !ok || val == "" {
		return "", fmt.Errorf("%s.%s must be a non-empty string", node["type"], key)
	}
	return val, nil
}

func childExpression(node map[string]any, key string) (Expression, error) {
	raw, ok := node[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s.%s must be a node, got %T", node["type"], key, node[key])
	}
	expr, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", node["type"], key, err)
	}
	return expr, nil
}

func childPair(node map[string]any, first, second string) (Expression, Expression, error) {
	a, err := childExpression(node, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := childExpression(node, second)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func childList(node map[string]any, key string) ([]Expression, error) {
	raw, ok := node[key].([]any)
	if !ok && node[key] != nil {
		return nil, fmt.Errorf("%s.%s must be a list, got %T", node["type"], key, node[key])
	}
	out := make([]Expression, 0, len(raw))
	for idx, item := range raw {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s.%s[%d] must be a node, got %T", node["type"], key, idx, item)
		}
		expr, err := Decode(child)
		if err != nil {
			return nil, fmt.Errorf("%s.%s[%d]: %w", node["type"], key, idx, err)
		}
		out = append(out, expr)
	}
	return out, nil
}

func parseBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("integer literal %v has a fractional part", v)
		}
		return big.NewInt(int64(v)), nil
	case json.Number:
		if bi, ok := new(big.Int).SetString(v.String(), 10); ok {
			return bi, nil
		}
	case string:
		if bi, ok := new(big.Int).SetString(v, 10); ok {
			return bi, nil
		}
	}
	return nil, fmt.Errorf("invalid integer literal %v", value)
}
