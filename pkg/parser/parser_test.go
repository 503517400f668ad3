package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunelang/interpreter-go/pkg/ast"
)

func TestParsePrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "1 + (2 * 3)"},
		{"1 - 2 - 3", "(1 - 2) - 3"},
		{"-x * 2", "(-x) * 2"},
		{"--4", "-(-4)"},
		{"a < b and not c or d", "((a < b) and (not c)) or d"},
		{"x := y := 3", "x := y := 3"},
		{"a ++ b ++ c", "(a ++ b) ++ c"},
		{"a + 1 == b", "(a + 1) == b"},
		{"f(1)(2)", "f(1)(2)"},
		{"show x; y", "show x; y"},
		{"(1; 2); 3", "1; 2; 3"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			expr, err := ParseString(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ast.Format(expr))
		})
	}
}

func TestParseBindingForms(t *testing.T) {
	expr, err := ParseString(`
		let x = 5 in
			letfun inc(n) = n + 1 in
				x := inc(x); x
			end
		end`)
	require.NoError(t, err)

	let, ok := expr.(*ast.LetExpression)
	require.True(t, ok)
	assert.Equal(t, "x", let.Name)
	fun, ok := let.Body.(*ast.FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, "inc", fun.Name)
	assert.Equal(t, "n", fun.Param)
	seq, ok := fun.Scope.(*ast.SequenceExpression)
	require.True(t, ok)
	assign, ok := seq.First.(*ast.AssignmentExpression)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name)
	assert.IsType(t, &ast.FunctionCall{}, assign.Value)
}

func TestParseConditionalsAndIO(t *testing.T) {
	expr, err := ParseString("if read > 3 then show 1 else ifnz 0 then true else false end end")
	require.NoError(t, err)
	cond, ok := expr.(*ast.IfExpression)
	require.True(t, ok)
	cmp, ok := cond.Condition.(*ast.BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, ast.OpGt, cmp.Operator)
	assert.IsType(t, &ast.ReadExpression{}, cmp.Left)
	assert.IsType(t, &ast.ShowExpression{}, cond.Then)
	assert.IsType(t, &ast.IfNonZeroExpression{}, cond.Else)
}

func TestParseMusic(t *testing.T) {
	expr, err := ParseString(`
		// two tunes on separate channels
		let t = tune {note C for 1 seconds, note C# for 2 second, note R for 1 seconds} instrument 41 in
			track {t, transpose t by -2 ++ repeat (volume note A for 1 seconds at 90) times 3}
		end`)
	require.NoError(t, err)

	let := expr.(*ast.LetExpression)
	tune, ok := let.Value.(*ast.TuneExpression)
	require.True(t, ok)
	require.Len(t, tune.Elements, 3)
	assert.Equal(t, "C#", tune.Elements[1].(*ast.NoteExpression).Pitch)
	assert.Equal(t, "R", tune.Elements[2].(*ast.NoteExpression).Pitch)
	assert.Equal(t, "41", ast.Format(tune.Instrument))

	track, ok := let.Body.(*ast.TrackExpression)
	require.True(t, ok)
	require.Len(t, track.Tunes, 2)
	concat, ok := track.Tunes[1].(*ast.ConcatTunesExpression)
	require.True(t, ok)
	assert.IsType(t, &ast.TransposeExpression{}, concat.Left)
	assert.IsType(t, &ast.RepeatExpression{}, concat.Right)
}

func TestParseTuneDefaultsInstrument(t *testing.T) {
	expr, err := ParseString("tune {}")
	require.NoError(t, err)
	tune := expr.(*ast.TuneExpression)
	assert.Empty(t, tune.Elements)
	assert.Equal(t, "1", ast.Format(tune.Instrument))
}

func TestParseInvalidPitchIsLeftToEvaluation(t *testing.T) {
	expr, err := ParseString("note H for 1 seconds")
	require.NoError(t, err)
	assert.Equal(t, "H", expr.(*ast.NoteExpression).Pitch)
}

func TestFormatRoundTrip(t *testing.T) {
	programs := []struct {
		name string
		expr ast.Expression
	}{
		{"arith", ast.Add(ast.Int(1), ast.Mul(ast.ID("x"), ast.Neg(ast.Int(4))))},
		{"let", ast.Let("x", ast.Int(2), ast.Seq(ast.Assign("x", ast.Add(ast.ID("x"), ast.Int(1))), ast.ID("x")))},
		{"fun", ast.Fun("f", "n", ast.If(ast.Lt(ast.ID("n"), ast.Int(1)), ast.Int(1), ast.Mul(ast.ID("n"), ast.Call(ast.ID("f"), ast.Sub(ast.ID("n"), ast.Int(1))))), ast.Call(ast.ID("f"), ast.Int(5)))},
		{"ifnz", ast.Ifnz(ast.Read(), ast.Show(ast.Bool(true)), ast.Not(ast.Bool(false)))},
		{"music", ast.Track(
			ast.Concat(ast.Tune(ast.Int(3), ast.Note("C", ast.Int(1))), ast.Transpose(ast.ID("t"), ast.Int(7))),
			ast.Repeat(ast.Volume(ast.Note("D#", ast.Int(2)), ast.Int(60)), ast.Int(2)),
		)},
	}
	for _, tc := range programs {
		t.Run(tc.name, func(t *testing.T) {
			src := ast.Format(tc.expr)
			parsed, err := ParseString(src)
			require.NoError(t, err, src)
			assert.Equal(t, src, ast.Format(parsed))
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := ParseString("  // nothing here\n ")
	assert.ErrorIs(t, err, ErrEmpty)

	cases := []struct {
		src  string
		line int
	}{
		{"1 +", 1},
		{"let x = 1 in x", 1},
		{"1;\n2 )", 2},
		{"a < b < c", 1},
		{"let = 3 in 4 end", 1},
		{"tune {} instrument 1 instrument 2", 1},
		{"1;", 1},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			_, err := ParseString(tc.src)
			var syntax *SyntaxError
			require.True(t, errors.As(err, &syntax), "got %v", err)
			assert.Equal(t, tc.line, syntax.Line)
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := ParseString("1 + 2\n  )")
	var syntax *SyntaxError
	require.ErrorAs(t, err, &syntax)
	assert.Equal(t, 2, syntax.Line)
	assert.Equal(t, 3, syntax.Column)
	assert.Equal(t, ")", syntax.Near)
	assert.Contains(t, err.Error(), "2:3")
}

func TestKeywordsAreNotIdentifiers(t *testing.T) {
	assert.True(t, IsKeyword("letfun"))
	assert.False(t, IsKeyword("letter"))

	expr, err := ParseString("letter + truex")
	require.NoError(t, err)
	assert.Equal(t, "letter + truex", ast.Format(expr))
}

func TestIncomplete(t *testing.T) {
	for _, src := range []string{
		"let x = 5 in",
		"letfun f(n) = n in f(2)",
		"1 +",
		"tune {note C for 1 seconds,",
		"if x then 1 else",
		"x := // pending\n",
	} {
		assert.True(t, Incomplete([]byte(src)), src)
	}
	for _, src := range []string{
		"",
		"1 + 2",
		"let x = 5 in x end",
		"1 )",
		"note C# for 1 seconds",
	} {
		assert.False(t, Incomplete([]byte(src)), src)
	}
}
