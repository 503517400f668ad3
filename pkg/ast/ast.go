package ast

import "math/big"

type NodeType string

const (
	NodeIdentifier            NodeType = "Identifier"
	NodeIntegerLiteral        NodeType = "IntegerLiteral"
	NodeBooleanLiteral        NodeType = "BooleanLiteral"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeLetExpression         NodeType = "LetExpression"
	NodeFunctionDefinition    NodeType = "FunctionDefinition"
	NodeFunctionCall          NodeType = "FunctionCall"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodeSequenceExpression    NodeType = "SequenceExpression"
	NodeShowExpression        NodeType = "ShowExpression"
	NodeReadExpression        NodeType = "ReadExpression"
	NodeIfExpression          NodeType = "IfExpression"
	NodeIfNonZeroExpression   NodeType = "IfNonZeroExpression"
	NodeNoteExpression        NodeType = "NoteExpression"
	NodeTuneExpression        NodeType = "TuneExpression"
	NodeConcatTunesExpression NodeType = "ConcatTunesExpression"
	NodeTransposeExpression   NodeType = "TransposeExpression"
	NodeRepeatExpression      NodeType = "RepeatExpression"
	NodeVolumeExpression      NodeType = "VolumeExpression"
	NodeTrackExpression       NodeType = "TrackExpression"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value *big.Int `json:"value"`
}

func NewIntegerLiteral(value *big.Int) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

// Operators

const (
	OpNeg = "-"
	OpNot = "not"

	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpAnd = "and"
	OpOr  = "or"
	OpEq  = "=="
	OpNeq = "!="
	OpLt  = "<"
	OpLte = "<="
	OpGt  = ">"
	OpGte = ">="
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// Bindings and functions

type LetExpression struct {
	nodeImpl
	expressionMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
	Body  Expression `json:"body"`
}

func NewLetExpression(name string, value, body Expression) *LetExpression {
	return &LetExpression{nodeImpl: newNodeImpl(NodeLetExpression), Name: name, Value: value, Body: body}
}

// FunctionDefinition binds Name to a one-parameter closure over Body and
// evaluates Scope with that binding visible.
type FunctionDefinition struct {
	nodeImpl
	expressionMarker

	Name  string     `json:"name"`
	Param string     `json:"param"`
	Body  Expression `json:"body"`
	Scope Expression `json:"scope"`
}

func NewFunctionDefinition(name, param string, body, scope Expression) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), Name: name, Param: param, Body: body, Scope: scope}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker

	Callee   Expression `json:"callee"`
	Argument Expression `json:"argument"`
}

func NewFunctionCall(callee, argument Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Argument: argument}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewAssignmentExpression(name string, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Name: name, Value: value}
}

// Control flow and I/O

type SequenceExpression struct {
	nodeImpl
	expressionMarker

	First  Expression `json:"first"`
	Second Expression `json:"second"`
}

func NewSequenceExpression(first, second Expression) *SequenceExpression {
	return &SequenceExpression{nodeImpl: newNodeImpl(NodeSequenceExpression), First: first, Second: second}
}

type ShowExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewShowExpression(expr Expression) *ShowExpression {
	return &ShowExpression{nodeImpl: newNodeImpl(NodeShowExpression), Expression: expr}
}

type ReadExpression struct {
	nodeImpl
	expressionMarker
}

func NewReadExpression() *ReadExpression {
	return &ReadExpression{nodeImpl: newNodeImpl(NodeReadExpression)}
}

type IfExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

func NewIfExpression(condition, then, otherwise Expression) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Condition: condition, Then: then, Else: otherwise}
}

// IfNonZeroExpression branches on an integer condition.
type IfNonZeroExpression struct {
	nodeImpl
	expressionMarker

	Condition Expression `json:"condition"`
	Then      Expression `json:"then"`
	Else      Expression `json:"else"`
}

func NewIfNonZeroExpression(condition, then, otherwise Expression) *IfNonZeroExpression {
	return &IfNonZeroExpression{nodeImpl: newNodeImpl(NodeIfNonZeroExpression), Condition: condition, Then: then, Else: otherwise}
}

// Music

type NoteExpression struct {
	nodeImpl
	expressionMarker

	Pitch    string     `json:"pitch"`
	Duration Expression `json:"duration"`
}

func NewNoteExpression(pitch string, duration Expression) *NoteExpression {
	return &NoteExpression{nodeImpl: newNodeImpl(NodeNoteExpression), Pitch: pitch, Duration: duration}
}

type TuneExpression struct {
	nodeImpl
	expressionMarker

	Elements   []Expression `json:"elements"`
	Instrument Expression   `json:"instrument"`
}

func NewTuneExpression(elements []Expression, instrument Expression) *TuneExpression {
	return &TuneExpression{nodeImpl: newNodeImpl(NodeTuneExpression), Elements: elements, Instrument: instrument}
}

type ConcatTunesExpression struct {
	nodeImpl
	expressionMarker

	Left  Expression `json:"left"`
	Right Expression `json:"right"`
}

func NewConcatTunesExpression(left, right Expression) *ConcatTunesExpression {
	return &ConcatTunesExpression{nodeImpl: newNodeImpl(NodeConcatTunesExpression), Left: left, Right: right}
}

type TransposeExpression struct {
	nodeImpl
	expressionMarker

	Tune  Expression `json:"tune"`
	Steps Expression `json:"steps"`
}

func NewTransposeExpression(tune, steps Expression) *TransposeExpression {
	return &TransposeExpression{nodeImpl: newNodeImpl(NodeTransposeExpression), Tune: tune, Steps: steps}
}

type RepeatExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
	Count      Expression `json:"count"`
}

func NewRepeatExpression(expr, count Expression) *RepeatExpression {
	return &RepeatExpression{nodeImpl: newNodeImpl(NodeRepeatExpression), Expression: expr, Count: count}
}

type VolumeExpression struct {
	nodeImpl
	expressionMarker

	Note  Expression `json:"note"`
	Level Expression `json:"level"`
}

func NewVolumeExpression(note, level Expression) *VolumeExpression {
	return &VolumeExpression{nodeImpl: newNodeImpl(NodeVolumeExpression), Note: note, Level: level}
}

type TrackExpression struct {
	nodeImpl
	expressionMarker

	Tunes []Expression `json:"tunes"`
}

func NewTrackExpression(tunes []Expression) *TrackExpression {
	return &TrackExpression{nodeImpl: newNodeImpl(NodeTrackExpression), Tunes: tunes}
}
