/*
Package parser reads tune programs.

	seq     := assign (';' assign)*
	assign  := IDENT ':=' assign | or
	or      := and ('or' and)*
	and     := not ('and' not)*
	not     := 'not' not | cmp
	cmp     := concat (('=='|'!='|'<='|'>='|'<'|'>') concat)?
	concat  := sum ('++' sum)*
	sum     := prod (('+'|'-') prod)*
	prod    := unary (('*'|'/') unary)*
	unary   := '-' unary | call
	call    := primary ('(' seq ')')*
	primary := INT | 'true' | 'false' | 'read' | '(' seq ')'
	         | 'let' IDENT '=' seq 'in' seq 'end'
	         | 'letfun' IDENT '(' IDENT ')' '=' seq 'in' seq 'end'
	         | 'if' seq 'then' seq 'else' seq 'end'
	         | 'ifnz' seq 'then' seq 'else' seq 'end'
	         | 'show' unary
	         | 'note' PITCH 'for' unary ('second'|'seconds')
	         | 'tune' '{' [seq (',' seq)*] '}' ['instrument' unary]
	         | 'transpose' unary 'by' unary
	         | 'repeat' unary 'times' unary
	         | 'volume' unary 'at' unary
	         | 'track' '{' seq (',' seq)* '}'
	         | IDENT

Line comments start with // and run to the end of the line.
*/
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"regexp"

	parsec "github.com/prataprc/goparsec"

	"tunelang/interpreter-go/pkg/ast"
)

// ErrEmpty is returned for input holding nothing but whitespace and comments.
var ErrEmpty = errors.New("parser: empty program")

// SyntaxError reports where parsing stopped.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
	Near   string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("syntax error at %d:%d: unexpected end of input", e.Line, e.Column)
	}
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Line, e.Column, e.Near)
}

var keywords = map[string]bool{
	"let": true, "letfun": true, "in": true, "end": true,
	"if": true, "ifnz": true, "then": true, "else": true,
	"and": true, "or": true, "not": true, "true": true, "false": true,
	"show": true, "read": true,
	"note": true, "for": true, "second": true, "seconds": true,
	"tune": true, "instrument": true, "transpose": true, "by": true,
	"repeat": true, "times": true, "volume": true, "at": true, "track": true,
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	return keywords[word]
}

// Parse parses a whole program into a single expression.
func Parse(src []byte) (ast.Expression, error) {
	text := stripComments(src)
	trimmed := bytes.TrimRight(text, " \t\r\n")
	if len(bytes.TrimSpace(trimmed)) == 0 {
		return nil, ErrEmpty
	}
	s := parsec.NewScanner(trimmed)
	root, rest := newGrammar()(s)
	expr, ok := expression(root)
	if !ok {
		return nil, syntaxError(trimmed, leadingSpace(trimmed))
	}
	if !rest.Endof() {
		return nil, syntaxError(trimmed, rest.GetCursor())
	}
	return expr, nil
}

// ParseString is Parse for string input.
func ParseString(src string) (ast.Expression, error) {
	return Parse([]byte(src))
}

func newGrammar() parsec.Parser {
	var seq, assign, not, unary parsec.Parser

	ident := parsec.OrdChoice(rejectKeywords, parsec.Token(`^[A-Za-z_][A-Za-z0-9_]*`, "IDENT"))
	integer := parsec.Token(`^[0-9]+`, "INT")
	pitch := parsec.Token(`^[A-Za-z]+#?`, "PITCH")
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	openB := parsec.Atom("{", "OPENB")
	closeB := parsec.Atom("}", "CLOSEB")
	equals := parsec.Atom("=", "EQUALS")
	list := parsec.Kleene(nil, &seq, parsec.Atom(",", "COMMA"))

	primary := parsec.OrdChoice(first,
		parsec.And(letNode, kw("let"), ident, equals, &seq, kw("in"), &seq, kw("end")),
		parsec.And(letfunNode, kw("letfun"), ident, openP, ident, closeP, equals, &seq, kw("in"), &seq, kw("end")),
		parsec.And(ifNode, kw("if"), &seq, kw("then"), &seq, kw("else"), &seq, kw("end")),
		parsec.And(ifnzNode, kw("ifnz"), &seq, kw("then"), &seq, kw("else"), &seq, kw("end")),
		parsec.And(showNode, kw("show"), &unary),
		parsec.And(readNode, kw("read")),
		parsec.And(noteNode, kw("note"), pitch, kw("for"), &unary, parsec.Token(`^seconds?\b`, "SECONDS")),
		parsec.And(tuneNode, kw("tune"), openB, list, closeB, parsec.Kleene(nil, parsec.And(nil, kw("instrument"), &unary))),
		parsec.And(binaryKeywordNode(ast.NewTransposeExpression), kw("transpose"), &unary, kw("by"), &unary),
		parsec.And(binaryKeywordNode(ast.NewRepeatExpression), kw("repeat"), &unary, kw("times"), &unary),
		parsec.And(binaryKeywordNode(ast.NewVolumeExpression), kw("volume"), &unary, kw("at"), &unary),
		parsec.And(trackNode, kw("track"), openB, list, closeB),
		parsec.And(boolNode(true), kw("true")),
		parsec.And(boolNode(false), kw("false")),
		parsec.And(intNode, integer),
		parsec.And(parenNode, openP, &seq, closeP),
		parsec.And(identNode, ident),
	)

	call := parsec.And(callNode, primary, parsec.Kleene(nil, parsec.And(nil, openP, &seq, closeP)))
	unary = parsec.OrdChoice(first, parsec.And(negNode, parsec.Atom("-", "MINUS"), &unary), call)
	prod := parsec.And(foldBinary, unary, parsec.Kleene(nil, parsec.And(nil, parsec.Token(`^[*/]`, "MULOP"), unary)))
	sum := parsec.And(foldBinary, prod, parsec.Kleene(nil, parsec.And(nil, parsec.Token(`^[+-]`, "ADDOP"), prod)))
	concat := parsec.And(foldConcat, sum, parsec.Kleene(nil, parsec.And(nil, parsec.Token(`^\+\+`, "CONCAT"), sum)))
	cmp := parsec.And(compareNode, concat, parsec.Kleene(nil, parsec.And(nil, parsec.Token(`^(==|!=|<=|>=|<|>)`, "CMPOP"), concat)))
	not = parsec.OrdChoice(first, parsec.And(notNode, kw("not"), &not), cmp)
	and := parsec.And(foldBinary, not, parsec.Kleene(nil, parsec.And(nil, kw("and"), not)))
	or := parsec.And(foldBinary, and, parsec.Kleene(nil, parsec.And(nil, kw("or"), and)))
	assign = parsec.OrdChoice(first, parsec.And(assignNode, ident, parsec.Atom(":=", "ASSIGN"), &assign), or)
	seq = parsec.And(foldSequence, assign, parsec.Kleene(nil, parsec.And(nil, parsec.Atom(";", "SEMI"), assign)))
	return seq
}

func kw(word string) parsec.Parser {
	return parsec.Token(`^`+word+`\b`, word)
}

//-----------------------------------------------------------------------------
// Node builders
//-----------------------------------------------------------------------------

func first(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func rejectKeywords(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term, ok := terminal(first(nodes))
	if !ok || keywords[term.Value] {
		return nil
	}
	return term
}

func letNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	name, _ := terminal(nodes[1])
	value, ok1 := expression(nodes[3])
	body, ok2 := expression(nodes[5])
	if name == nil || !ok1 || !ok2 {
		return nil
	}
	return ast.NewLetExpression(name.Value, value, body)
}

func letfunNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	name, _ := terminal(nodes[1])
	param, _ := terminal(nodes[3])
	body, ok1 := expression(nodes[6])
	scope, ok2 := expression(nodes[8])
	if name == nil || param == nil || !ok1 || !ok2 {
		return nil
	}
	return ast.NewFunctionDefinition(name.Value, param.Value, body, scope)
}

func conditional(nodes []parsec.ParsecNode) (ast.Expression, ast.Expression, ast.Expression, bool) {
	cond, ok1 := expression(nodes[1])
	then, ok2 := expression(nodes[3])
	otherwise, ok3 := expression(nodes[5])
	return cond, then, otherwise, ok1 && ok2 && ok3
}

func ifNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	cond, then, otherwise, ok := conditional(nodes)
	if !ok {
		return nil
	}
	return ast.NewIfExpression(cond, then, otherwise)
}

func ifnzNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	cond, then, otherwise, ok := conditional(nodes)
	if !ok {
		return nil
	}
	return ast.NewIfNonZeroExpression(cond, then, otherwise)
}

func showNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	operand, ok := expression(nodes[1])
	if !ok {
		return nil
	}
	return ast.NewShowExpression(operand)
}

func readNode([]parsec.ParsecNode) parsec.ParsecNode {
	return ast.NewReadExpression()
}

func noteNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	name, _ := terminal(nodes[1])
	duration, ok := expression(nodes[3])
	if name == nil || !ok {
		return nil
	}
	return ast.NewNoteExpression(name.Value, duration)
}

func tuneNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	elements := expressions(nodes[2])
	suffix := expressions(nodes[4])
	if len(suffix) > 1 {
		return nil
	}
	var instrument ast.Expression = ast.Int(1)
	if len(suffix) == 1 {
		instrument = suffix[0]
	}
	return ast.NewTuneExpression(elements, instrument)
}

func trackNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return ast.NewTrackExpression(expressions(nodes[2]))
}

func binaryKeywordNode[T ast.Expression](build func(a, b ast.Expression) T) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		a, ok1 := expression(nodes[1])
		b, ok2 := expression(nodes[3])
		if !ok1 || !ok2 {
			return nil
		}
		return build(a, b)
	}
}

func boolNode(value bool) parsec.Nodify {
	return func([]parsec.ParsecNode) parsec.ParsecNode {
		return ast.NewBooleanLiteral(value)
	}
}

func intNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term, ok := terminal(first(nodes))
	if !ok {
		return nil
	}
	n, ok := new(big.Int).SetString(term.Value, 10)
	if !ok {
		return nil
	}
	return ast.NewIntegerLiteral(n)
}

func parenNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	expr, ok := expression(nodes[1])
	if !ok {
		return nil
	}
	return expr
}

func identNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	term, ok := terminal(first(nodes))
	if !ok {
		return nil
	}
	return ast.NewIdentifier(term.Value)
}

func callNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	callee, ok := expression(nodes[0])
	if !ok {
		return nil
	}
	for _, arg := range expressions(nodes[1]) {
		callee = ast.NewFunctionCall(callee, arg)
	}
	return callee
}

func negNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	operand, ok := expression(nodes[1])
	if !ok {
		return nil
	}
	return ast.NewUnaryExpression(ast.OpNeg, operand)
}

func notNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	operand, ok := expression(nodes[1])
	if !ok {
		return nil
	}
	return ast.NewUnaryExpression(ast.OpNot, operand)
}

func assignNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	name, _ := terminal(nodes[0])
	value, ok := expression(nodes[2])
	if name == nil || !ok {
		return nil
	}
	return ast.NewAssignmentExpression(name.Value, value)
}

// foldBinary folds "operand (op operand)*" to the left.
func foldBinary(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return fold(nodes, func(op string, l, r ast.Expression) ast.Expression {
		return ast.NewBinaryExpression(op, l, r)
	})
}

func foldConcat(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return fold(nodes, func(_ string, l, r ast.Expression) ast.Expression {
		return ast.NewConcatTunesExpression(l, r)
	})
}

func foldSequence(nodes []parsec.ParsecNode) parsec.ParsecNode {
	return fold(nodes, func(_ string, l, r ast.Expression) ast.Expression {
		return ast.NewSequenceExpression(l, r)
	})
}

// compareNode accepts at most one comparison; they do not chain.
func compareNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(flatten(nodes[1:])) > 2 {
		return nil
	}
	return foldBinary(nodes)
}

func fold(nodes []parsec.ParsecNode, build func(op string, l, r ast.Expression) ast.Expression) parsec.ParsecNode {
	flat := flatten(nodes)
	if len(flat) == 0 || len(flat)%2 == 0 {
		return nil
	}
	acc, ok := expression(flat[0])
	if !ok {
		return nil
	}
	for idx := 1; idx < len(flat); idx += 2 {
		op, ok := terminal(flat[idx])
		if !ok {
			return nil
		}
		right, ok := expression(flat[idx+1])
		if !ok {
			return nil
		}
		acc = build(op.Value, acc, right)
	}
	return acc
}

//-----------------------------------------------------------------------------
// Node helpers
//-----------------------------------------------------------------------------

// flatten splices nested node lists produced by And and Kleene.
func flatten(nodes []parsec.ParsecNode) []parsec.ParsecNode {
	var out []parsec.ParsecNode
	for _, n := range nodes {
		switch node := n.(type) {
		case []parsec.ParsecNode:
			out = append(out, flatten(node)...)
		case nil:
		default:
			out = append(out, node)
		}
	}
	return out
}

func expression(node parsec.ParsecNode) (ast.Expression, bool) {
	switch n := node.(type) {
	case ast.Expression:
		return n, true
	case []parsec.ParsecNode:
		if len(n) == 1 {
			return expression(n[0])
		}
	}
	return nil, false
}

func expressions(node parsec.ParsecNode) []ast.Expression {
	var out []ast.Expression
	for _, n := range flatten([]parsec.ParsecNode{node}) {
		if expr, ok := n.(ast.Expression); ok {
			out = append(out, expr)
		}
	}
	return out
}

func terminal(node parsec.ParsecNode) (*parsec.Terminal, bool) {
	switch n := node.(type) {
	case *parsec.Terminal:
		return n, true
	case []parsec.ParsecNode:
		if len(n) == 1 {
			return terminal(n[0])
		}
	}
	return nil, false
}

//-----------------------------------------------------------------------------
// Interactive input
//-----------------------------------------------------------------------------

var lexeme = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*#?|[0-9]+|:=|\+\+|==|!=|<=|>=|\S`)

// continuations are tokens that cannot end a program.
var continuations = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "++": true, ":=": true, "=": true,
	";": true, ",": true, "<": true, ">": true, "<=": true, ">=": true, "==": true, "!=": true,
	"and": true, "or": true, "not": true, "in": true, "then": true, "else": true,
	"show": true, "note": true, "for": true, "tune": true, "instrument": true,
	"transpose": true, "by": true, "repeat": true, "times": true, "volume": true, "at": true,
	"track": true, "let": true, "letfun": true, "if": true, "ifnz": true,
}

// Incomplete reports whether src looks like the start of a longer program:
// it leaves a let, if or bracket open, or ends on an operator or keyword that
// needs an operand.
func Incomplete(src []byte) bool {
	tokens := lexeme.FindAllString(string(stripComments(src)), -1)
	if len(tokens) == 0 {
		return false
	}
	depth := 0
	for _, tok := range tokens {
		switch tok {
		case "let", "letfun", "if", "ifnz", "(", "{":
			depth++
		case "end", ")", "}":
			depth--
		}
	}
	return depth > 0 || continuations[tokens[len(tokens)-1]]
}

//-----------------------------------------------------------------------------
// Source helpers
//-----------------------------------------------------------------------------

// stripComments blanks out // comments, keeping byte offsets intact.
func stripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	for idx := 0; idx+1 < len(out); idx++ {
		if out[idx] != '/' || out[idx+1] != '/' {
			continue
		}
		for idx < len(out) && out[idx] != '\n' {
			out[idx] = ' '
			idx++
		}
	}
	return out
}

func leadingSpace(text []byte) int {
	return len(text) - len(bytes.TrimLeft(text, " \t\r\n"))
}

func syntaxError(text []byte, offset int) *SyntaxError {
	offset = min(max(offset, 0), len(text))
	offset += leadingSpace(text[offset:])
	line, col := 1, 1
	for _, b := range text[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	near := text[offset:]
	if idx := bytes.IndexByte(near, '\n'); idx >= 0 {
		near = near[:idx]
	}
	if len(near) > 20 {
		near = near[:20]
	}
	return &SyntaxError{Offset: offset, Line: line, Column: col, Near: string(near)}
}
