package interpreter

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/runtime"
)

// scriptedReader replays fixed lines and counts how often it was asked.
type scriptedReader struct {
	lines []string
	calls int
}

func (r *scriptedReader) ReadLine(string) (string, error) {
	r.calls++
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

type renderCall struct {
	value      runtime.Value
	instrument int
}

type recordingRenderer struct {
	calls []renderCall
	err   error
}

func (r *recordingRenderer) Render(value runtime.Value, defaultInstrument int) error {
	r.calls = append(r.calls, renderCall{value: value, instrument: defaultInstrument})
	return r.err
}

type harness struct {
	interp   *Interpreter
	out      *bytes.Buffer
	input    *scriptedReader
	renderer *recordingRenderer
}

func newHarness(lines ...string) *harness {
	h := &harness{
		out:      &bytes.Buffer{},
		input:    &scriptedReader{lines: lines},
		renderer: &recordingRenderer{},
	}
	h.interp = New(WithOutput(h.out), WithInput(h.input), WithRenderer(h.renderer))
	return h
}

func mustEvaluate(t *testing.T, interp *Interpreter, expr ast.Expression) runtime.Value {
	t.Helper()
	val, err := interp.Evaluate(expr)
	require.NoError(t, err, "evaluating %s", ast.Format(expr))
	return val
}

func mustFail(t *testing.T, interp *Interpreter, expr ast.Expression, kind ErrorKind) *Error {
	t.Helper()
	_, err := interp.Evaluate(expr)
	require.Error(t, err, "evaluating %s", ast.Format(expr))
	var evalErr *Error
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, kind, evalErr.Kind, "unexpected kind for %q", evalErr.Error())
	return evalErr
}

func intResult(t *testing.T, val runtime.Value) string {
	t.Helper()
	iv, ok := val.(runtime.IntegerValue)
	require.True(t, ok, "expected integer, got %#v", val)
	return iv.Val.String()
}

func boolResult(t *testing.T, val runtime.Value) bool {
	t.Helper()
	bv, ok := val.(runtime.BoolValue)
	require.True(t, ok, "expected bool, got %#v", val)
	return bv.Val
}

func tuneResult(t *testing.T, val runtime.Value) runtime.TuneValue {
	t.Helper()
	tv, ok := val.(runtime.TuneValue)
	require.True(t, ok, "expected tune, got %#v", val)
	return tv
}

func pitches(tune runtime.TuneValue) []string {
	out := make([]string, len(tune.Notes))
	for idx, note := range tune.Notes {
		out[idx] = note.Pitch
	}
	return out
}
