package interpreter

import (
	"math/big"
	"strings"

	"tunelang/interpreter-go/pkg/ast"
	"tunelang/interpreter-go/pkg/runtime"
)

var maxRepeat = big.NewInt(1 << 20)

func (i *Interpreter) evaluateNoteExpression(expr *ast.NoteExpression, env *runtime.Environment) (runtime.Value, error) {
	if !runtime.ValidPitch(expr.Pitch) {
		return nil, domainError("Invalid note name: %s. Must be one of [%s]", expr.Pitch, strings.Join(runtime.PitchNames(), ", "))
	}
	durVal, err := i.evaluateExpression(expr.Duration, env)
	if err != nil {
		return nil, err
	}
	dur, ok := durVal.(runtime.IntegerValue)
	if !ok || dur.Val.Sign() <= 0 {
		return nil, domainError("Note duration must be a positive integer")
	}
	if !dur.Val.IsInt64() {
		return nil, domainError("Note duration %s is too large", dur.Val)
	}
	return runtime.NoteValue{Pitch: expr.Pitch, Duration: dur.Val.Int64(), Volume: runtime.DefaultVolume}, nil
}

func (i *Interpreter) evaluateTuneExpression(expr *ast.TuneExpression, env *runtime.Environment) (runtime.Value, error) {
	instrument := i.defaultInstrument + 1
	if expr.Instrument != nil {
		instVal, err := i.evaluateExpression(expr.Instrument, env)
		if err != nil {
			return nil, err
		}
		inst, ok := instVal.(runtime.IntegerValue)
		if !ok {
			return nil, typeError("Tune must be an integer expression for instruments")
		}
		if !inRange(inst.Val, runtime.MinInstrument, runtime.MaxInstrument) {
			return nil, domainError("instrument must be between %d - %d", runtime.MinInstrument, runtime.MaxInstrument)
		}
		instrument = int(inst.Val.Int64())
	}
	var notes []runtime.NoteValue
	for _, element := range expr.Elements {
		val, err := i.evaluateExpression(element, env)
		if err != nil {
			return nil, err
		}
		switch v := val.(type) {
		case runtime.NoteValue:
			notes = append(notes, v)
		case runtime.TuneValue:
			// tunes never nest, so the inner notes are already flat
			notes = append(notes, v.Notes...)
		default:
			return nil, typeError("Tunes must contain only Tune or Note objects")
		}
	}
	return runtime.TuneValue{Notes: notes, Instrument: instrument - 1}, nil
}

func (i *Interpreter) evaluateConcatTunes(expr *ast.ConcatTunesExpression, env *runtime.Environment) (runtime.Value, error) {
	leftVal, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	rightVal, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	left, lok := leftVal.(runtime.TuneValue)
	right, rok := rightVal.(runtime.TuneValue)
	if !lok || !rok {
		return nil, typeError("ConcatTunes must be two Tunes")
	}
	instrument := left.Instrument + right.Instrument
	if instrument > runtime.MaxInstrument-1 {
		return nil, domainError("combined instrument %d is out of range 1 - %d", instrument+1, runtime.MaxInstrument)
	}
	notes := make([]runtime.NoteValue, 0, len(left.Notes)+len(right.Notes))
	notes = append(notes, left.Notes...)
	notes = append(notes, right.Notes...)
	return runtime.TuneValue{Notes: notes, Instrument: instrument}, nil
}

func (i *Interpreter) evaluateTranspose(expr *ast.TransposeExpression, env *runtime.Environment) (runtime.Value, error) {
	stepsVal, err := i.evaluateExpression(expr.Steps, env)
	if err != nil {
		return nil, err
	}
	steps, ok := stepsVal.(runtime.IntegerValue)
	if !ok {
		return nil, typeError("Transpose steps must be an integer")
	}
	tuneVal, err := i.evaluateExpression(expr.Tune, env)
	if err != nil {
		return nil, err
	}
	tune, ok := tuneVal.(runtime.TuneValue)
	if !ok {
		return nil, typeError("Transpose can only tune up or down Tunes")
	}
	// only the pitch class matters, so reduce before narrowing
	reduced := new(big.Int).Mod(steps.Val, big.NewInt(12))
	return tune.Transpose(reduced.Int64()), nil
}

func (i *Interpreter) evaluateRepeat(expr *ast.RepeatExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(expr.Expression, env)
	if err != nil {
		return nil, err
	}
	countVal, err := i.evaluateExpression(expr.Count, env)
	if err != nil {
		return nil, err
	}
	count, ok := countVal.(runtime.IntegerValue)
	if !ok {
		return nil, typeError("Repeat expects an int for repetition")
	}
	if count.Val.Sign() < 0 {
		return nil, domainError("Repeat count must not be negative")
	}
	if count.Val.Cmp(maxRepeat) > 0 {
		return nil, newError(ResourceExhausted, "Repeat count %s exceeds %s", count.Val, maxRepeat)
	}
	n := int(count.Val.Int64())
	switch v := val.(type) {
	case runtime.TuneValue:
		notes := make([]runtime.NoteValue, 0, len(v.Notes)*n)
		for range n {
			notes = append(notes, v.Notes...)
		}
		return runtime.TuneValue{Notes: notes, Instrument: v.Instrument}, nil
	case runtime.NoteValue:
		notes := make([]runtime.NoteValue, n)
		for idx := range notes {
			notes[idx] = v
		}
		return runtime.TuneValue{Notes: notes, Instrument: i.defaultInstrument}, nil
	default:
		return nil, domainError("Repeat contains invalid expression")
	}
}

func (i *Interpreter) evaluateVolume(expr *ast.VolumeExpression, env *runtime.Environment) (runtime.Value, error) {
	noteVal, err := i.evaluateExpression(expr.Note, env)
	if err != nil {
		return nil, err
	}
	levelVal, err := i.evaluateExpression(expr.Level, env)
	if err != nil {
		return nil, err
	}
	note, ok := noteVal.(runtime.NoteValue)
	if !ok {
		return nil, typeError("Volume expects a Note")
	}
	level, ok := levelVal.(runtime.IntegerValue)
	if !ok {
		return nil, typeError("Volume expects an integer for its volume level")
	}
	if !inRange(level.Val, 0, runtime.MaxVolume) {
		return nil, domainError("volume level must be between 0 and %d", runtime.MaxVolume)
	}
	note.Volume = int(level.Val.Int64())
	return note, nil
}

func (i *Interpreter) evaluateTrack(expr *ast.TrackExpression, env *runtime.Environment) (runtime.Value, error) {
	values := make([]runtime.Value, 0, len(expr.Tunes))
	for _, element := range expr.Tunes {
		val, err := i.evaluateExpression(element, env)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	if len(values) < 1 || len(values) > runtime.MaxTrackTunes {
		return nil, domainError("Track can only contain 1 - %d individual tracks", runtime.MaxTrackTunes)
	}
	tunes := make([]runtime.TuneValue, 0, len(values))
	for _, val := range values {
		tune, ok := val.(runtime.TuneValue)
		if !ok {
			return nil, typeError("Track expects only Tune objects")
		}
		tunes = append(tunes, tune)
	}
	return runtime.TrackValue{Tunes: tunes}, nil
}

func inRange(n *big.Int, lo, hi int64) bool {
	return n.Cmp(big.NewInt(lo)) >= 0 && n.Cmp(big.NewInt(hi)) <= 0
}
