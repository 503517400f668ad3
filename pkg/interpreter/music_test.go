package interpreter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/runtime"
)

func TestNoteConstruction(t *testing.T) {
	interp := New()
	val := mustEvaluate(t, interp, ast.Note("C", ast.Add(ast.Int(1), ast.Int(2))))
	assert.Equal(t, runtime.NoteValue{Pitch: "C", Duration: 3, Volume: runtime.DefaultVolume}, val)

	err := mustFail(t, interp, ast.Note("H", ast.Int(1)), DomainRange)
	assert.Contains(t, err.Message, "Invalid note name: H. Must be one of [C, C#")
	err = mustFail(t, interp, ast.Note("C", ast.Int(0)), DomainRange)
	assert.Equal(t, "Note duration must be a positive integer", err.Message)
	mustFail(t, interp, ast.Note("C", ast.Bool(true)), DomainRange)

	rest := mustEvaluate(t, interp, ast.Note("R", ast.Int(2)))
	assert.True(t, rest.(runtime.NoteValue).IsRest())
}

func TestTuneFlattensNestedTunes(t *testing.T) {
	interp := New()
	inner := ast.Tune(ast.Int(5), ast.Note("A", ast.Int(1)), ast.Note("B", ast.Int(2)))
	outer := ast.Tune(ast.Int(3), ast.Note("C", ast.Int(1)), inner, ast.Note("D", ast.Int(1)))
	tune := tuneResult(t, mustEvaluate(t, interp, outer))
	assert.Equal(t, []string{"C", "A", "B", "D"}, pitches(tune))
	assert.Equal(t, 2, tune.Instrument)
	assert.Equal(t, int64(2), tune.Notes[2].Duration)
}

func TestTuneInstrumentRange(t *testing.T) {
	interp := New()
	note := ast.Note("C", ast.Int(1))
	assert.Equal(t, 0, tuneResult(t, mustEvaluate(t, interp, ast.Tune(ast.Int(1), note))).Instrument)
	assert.Equal(t, 127, tuneResult(t, mustEvaluate(t, interp, ast.Tune(ast.Int(128), note))).Instrument)

	err := mustFail(t, interp, ast.Tune(ast.Int(0), note), DomainRange)
	assert.Equal(t, "instrument must be between 1 - 128", err.Message)
	mustFail(t, interp, ast.Tune(ast.Int(129), note), DomainRange)
	err = mustFail(t, interp, ast.Tune(ast.Bool(true), note), TypeMismatch)
	assert.Equal(t, "Tune must be an integer expression for instruments", err.Message)
	err = mustFail(t, interp, ast.Tune(ast.Int(1), ast.Int(4)), TypeMismatch)
	assert.Equal(t, "Tunes must contain only Tune or Note objects", err.Message)
}

func TestTuneWithoutInstrumentUsesDefault(t *testing.T) {
	interp := New(WithDefaultInstrument(10))
	tune := tuneResult(t, mustEvaluate(t, interp, ast.NewTuneExpression([]ast.Expression{ast.Note("C", ast.Int(1))}, nil)))
	assert.Equal(t, 9, tune.Instrument)
}

func TestTuneElementsFromNames(t *testing.T) {
	interp := New()
	expr := ast.Let("n", ast.Note("E", ast.Int(1)),
		ast.Tune(ast.Int(1), ast.ID("n"), ast.Volume(ast.ID("n"), ast.Int(10)), ast.Repeat(ast.ID("n"), ast.Int(2))))
	tune := tuneResult(t, mustEvaluate(t, interp, expr))
	assert.Equal(t, []string{"E", "E", "E", "E"}, pitches(tune))
	assert.Equal(t, 10, tune.Notes[1].Volume)
}

func TestConcatTunes(t *testing.T) {
	interp := New()
	c := ast.Tune(ast.Int(1), ast.Note("C", ast.Int(1)), ast.Note("C", ast.Int(3)))
	d := ast.Tune(ast.Int(1), ast.Note("A", ast.Int(1)), ast.Note("B", ast.Int(2)))
	tune := tuneResult(t, mustEvaluate(t, interp, ast.Concat(c, d)))
	assert.Equal(t, []string{"C", "C", "A", "B"}, pitches(tune))
	assert.Equal(t, 0, tune.Instrument)

	summed := tuneResult(t, mustEvaluate(t, interp, ast.Concat(
		ast.Tune(ast.Int(3), ast.Note("C", ast.Int(1))),
		ast.Tune(ast.Int(5), ast.Note("D", ast.Int(1))),
	)))
	assert.Equal(t, 6, summed.Instrument)

	mustFail(t, interp, ast.Concat(
		ast.Tune(ast.Int(100), ast.Note("C", ast.Int(1))),
		ast.Tune(ast.Int(100), ast.Note("D", ast.Int(1))),
	), DomainRange)
	err := mustFail(t, interp, ast.Concat(c, ast.Note("C", ast.Int(1))), TypeMismatch)
	assert.Equal(t, "ConcatTunes must be two Tunes", err.Message)
}

func TestTranspose(t *testing.T) {
	interp := New()
	d := ast.Tune(ast.Int(1), ast.Note("A", ast.Int(1)), ast.Note("B", ast.Int(2)), ast.Note("R", ast.Int(1)))
	tune := tuneResult(t, mustEvaluate(t, interp, ast.Transpose(d, ast.Int(1))))
	assert.Equal(t, []string{"A#", "C", "R"}, pitches(tune))
	assert.Equal(t, int64(2), tune.Notes[1].Duration)

	down := tuneResult(t, mustEvaluate(t, interp, ast.Transpose(ast.Tune(ast.Int(1), ast.Note("C", ast.Int(1))), ast.Neg(ast.Int(1)))))
	assert.Equal(t, []string{"B"}, pitches(down))

	for _, name := range runtime.PitchNames() {
		octave := tuneResult(t, mustEvaluate(t, interp, ast.Transpose(ast.Tune(ast.Int(1), ast.Note(name, ast.Int(1))), ast.Int(12))))
		assert.Equal(t, []string{name}, pitches(octave))
	}

	loud := ast.Tune(ast.Int(1), ast.Volume(ast.Note("G", ast.Int(1)), ast.Int(30)))
	kept := tuneResult(t, mustEvaluate(t, interp, ast.Transpose(loud, ast.Int(-100))))
	assert.Equal(t, 30, kept.Notes[0].Volume)
	assert.Equal(t, "D#", kept.Notes[0].Pitch)

	err := mustFail(t, interp, ast.Transpose(ast.Note("C", ast.Int(1)), ast.Int(1)), TypeMismatch)
	assert.Equal(t, "Transpose can only tune up or down Tunes", err.Message)
	err = mustFail(t, interp, ast.Transpose(d, ast.Bool(true)), TypeMismatch)
	assert.Equal(t, "Transpose steps must be an integer", err.Message)
}

func TestRepeat(t *testing.T) {
	interp := New()
	tune := tuneResult(t, mustEvaluate(t, interp, ast.Repeat(ast.Tune(ast.Int(4), ast.Note("C", ast.Int(1))), ast.Int(3))))
	assert.Equal(t, []string{"C", "C", "C"}, pitches(tune))
	assert.Equal(t, 3, tune.Instrument)
	for _, note := range tune.Notes {
		assert.Equal(t, int64(1), note.Duration)
	}

	fromNote := tuneResult(t, mustEvaluate(t, interp, ast.Repeat(ast.Note("G", ast.Int(2)), ast.Int(2))))
	assert.Equal(t, []string{"G", "G"}, pitches(fromNote))
	assert.Equal(t, 0, fromNote.Instrument)

	nested := tuneResult(t, mustEvaluate(t, interp, ast.Repeat(ast.Repeat(ast.Note("A", ast.Int(1)), ast.Int(2)), ast.Int(2))))
	assert.Len(t, nested.Notes, 4)

	empty := tuneResult(t, mustEvaluate(t, interp, ast.Repeat(ast.Note("A", ast.Int(1)), ast.Int(0))))
	assert.Empty(t, empty.Notes)

	err := mustFail(t, interp, ast.Repeat(ast.Int(1), ast.Int(2)), DomainRange)
	assert.Equal(t, "Repeat contains invalid expression", err.Message)
	err = mustFail(t, interp, ast.Repeat(ast.Note("A", ast.Int(1)), ast.Bool(true)), TypeMismatch)
	assert.Equal(t, "Repeat expects an int for repetition", err.Message)
	mustFail(t, interp, ast.Repeat(ast.Note("A", ast.Int(1)), ast.Int(-1)), DomainRange)
	mustFail(t, interp, ast.Repeat(ast.Note("A", ast.Int(1)), ast.Int(1<<40)), ResourceExhausted)
}

func TestVolume(t *testing.T) {
	interp := New()
	val := mustEvaluate(t, interp, ast.Volume(ast.Note("F", ast.Int(2)), ast.Int(0)))
	assert.Equal(t, runtime.NoteValue{Pitch: "F", Duration: 2, Volume: 0}, val)

	err := mustFail(t, interp, ast.Volume(ast.Note("F", ast.Int(2)), ast.Int(128)), DomainRange)
	assert.Equal(t, "volume level must be between 0 and 127", err.Message)
	err = mustFail(t, interp, ast.Volume(ast.Tune(ast.Int(1)), ast.Int(1)), TypeMismatch)
	assert.Equal(t, "Volume expects a Note", err.Message)
	err = mustFail(t, interp, ast.Volume(ast.Note("F", ast.Int(2)), ast.Bool(false)), TypeMismatch)
	assert.Equal(t, "Volume expects an integer for its volume level", err.Message)
}

func TestTrackLength(t *testing.T) {
	interp := New()
	tune := ast.Tune(ast.Int(2), ast.Note("C", ast.Int(1)))

	err := mustFail(t, interp, ast.Track(), DomainRange)
	assert.Equal(t, "Track can only contain 1 - 16 individual tracks", err.Message)

	for _, n := range []int{1, 16} {
		tunes := make([]ast.Expression, n)
		for idx := range tunes {
			tunes[idx] = tune
		}
		val := mustEvaluate(t, interp, ast.Track(tunes...))
		track, ok := val.(runtime.TrackValue)
		require.True(t, ok)
		assert.Len(t, track.Tunes, n)
		assert.Equal(t, 1, track.Tunes[0].Instrument)
	}

	tooMany := make([]ast.Expression, 17)
	for idx := range tooMany {
		tooMany[idx] = tune
	}
	mustFail(t, interp, ast.Track(tooMany...), DomainRange)

	err = mustFail(t, interp, ast.Track(tune, ast.Note("C", ast.Int(1))), TypeMismatch)
	assert.Equal(t, "Track expects only Tune objects", err.Message)
}

func TestMusicOperandOrder(t *testing.T) {
	h := newHarness("2", "3")
	shifted := ast.Transpose(ast.Tune(ast.Read(), ast.Note("C", ast.Int(1))), ast.Read())
	tune := tuneResult(t, mustEvaluate(t, h.interp, shifted))
	assert.Equal(t, []string{"D"}, pitches(tune))
	assert.Equal(t, 2, tune.Instrument)

	h = newHarness("5")
	err := mustFail(t, h.interp, ast.Volume(ast.Int(1), ast.Read()), TypeMismatch)
	assert.Equal(t, "Volume expects a Note", err.Message)
	assert.Equal(t, 1, h.input.calls)

	h = newHarness()
	shown := make([]ast.Expression, 17)
	want := ""
	for idx := range shown {
		shown[idx] = ast.Show(ast.Int(int64(idx)))
		want += fmt.Sprintf("%d\n", idx)
	}
	err = mustFail(t, h.interp, ast.Track(shown...), DomainRange)
	assert.Equal(t, "Track can only contain 1 - 16 individual tracks", err.Message)
	assert.Equal(t, want, h.out.String())
}

func TestShowTrackUsesRenderer(t *testing.T) {
	h := newHarness()
	h.interp = New(WithOutput(h.out), WithRenderer(h.renderer), WithDefaultInstrument(3))
	val := mustEvaluate(t, h.interp, ast.Show(ast.Track(ast.Tune(ast.Int(1), ast.Note("C", ast.Int(1))))))
	require.Len(t, h.renderer.calls, 1)
	assert.Equal(t, val, h.renderer.calls[0].value)
	assert.Equal(t, 2, h.renderer.calls[0].instrument)
	assert.Empty(t, h.out.String())
}
