package runtime

import (
	"fmt"
	"math/big"
	"strings"

	"tunelang/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindBool
	KindNote
	KindTune
	KindTrack
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBool:
		return "bool"
	case KindNote:
		return "note"
	case KindTune:
		return "tune"
	case KindTrack:
		return "track"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	String() string
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val *big.Int
}

func (v IntegerValue) Kind() Kind { return KindInteger }

func (v IntegerValue) String() string {
	if v.Val == nil {
		return "0"
	}
	return v.Val.String()
}

// Int wraps a machine integer.
func Int(n int64) IntegerValue {
	return IntegerValue{Val: big.NewInt(n)}
}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

func (v BoolValue) String() string {
	if v.Val {
		return "true"
	}
	return "false"
}

//-----------------------------------------------------------------------------
// Music
//-----------------------------------------------------------------------------

const (
	DefaultVolume     = 100
	MaxVolume         = 127
	MinInstrument     = 1
	MaxInstrument     = 128
	DefaultInstrument = 1
	MaxTrackTunes     = 16
)

// NoteValue is a single pitch (or rest) held for Duration seconds.
type NoteValue struct {
	Pitch    string
	Duration int64
	Volume   int
}

func (v NoteValue) Kind() Kind { return KindNote }

func (v NoteValue) IsRest() bool { return v.Pitch == RestPitch }

func (v NoteValue) String() string {
	return fmt.Sprintf("Note(Pitch: %s, Duration: %d, Volume: %d)", v.Pitch, v.Duration, v.Volume)
}

// TuneValue is a flat note sequence played by one instrument. Instrument is
// zero-based; the language exposes it as 1..128.
type TuneValue struct {
	Notes      []NoteValue
	Instrument int
}

func (v TuneValue) Kind() Kind { return KindTune }

func (v TuneValue) String() string {
	parts := make([]string, len(v.Notes))
	for idx, note := range v.Notes {
		parts[idx] = note.String()
	}
	return fmt.Sprintf("Tune[%s] (Instrument: %d)", strings.Join(parts, ", "), v.Instrument+1)
}

// TrackValue layers tunes onto independent channels.
type TrackValue struct {
	Tunes []TuneValue
}

func (v TrackValue) Kind() Kind { return KindTrack }

func (v TrackValue) String() string {
	parts := make([]string, len(v.Tunes))
	for idx, tune := range v.Tunes {
		parts[idx] = tune.String()
	}
	return fmt.Sprintf("Track(%s)", strings.Join(parts, ", "))
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a single-parameter closure. Closure is rebound after the
// function's own cell is in place so the body can refer to Name.
type FunctionValue struct {
	Name    string
	Param   string
	Body    ast.Expression
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) String() string {
	return fmt.Sprintf("<function %s(%s)>", v.Name, v.Param)
}

// Equal reports structural equality for the comparable kinds. The second
// result is false when the operands share a kind that has no equality.
func Equal(left, right Value) (bool, bool) {
	switch l := left.(type) {
	case IntegerValue:
		r, ok := right.(IntegerValue)
		if !ok {
			return false, true
		}
		return l.Val.Cmp(r.Val) == 0, true
	case BoolValue:
		r, ok := right.(BoolValue)
		if !ok {
			return false, true
		}
		return l.Val == r.Val, true
	case NoteValue:
		r, ok := right.(NoteValue)
		if !ok {
			return false, true
		}
		return l == r, true
	case TuneValue:
		r, ok := right.(TuneValue)
		if !ok {
			return false, true
		}
		if l.Instrument != r.Instrument || len(l.Notes) != len(r.Notes) {
			return false, true
		}
		for idx := range l.Notes {
			if l.Notes[idx] != r.Notes[idx] {
				return false, true
			}
		}
		return true, true
	}
	if left.Kind() != right.Kind() {
		return false, true
	}
	return false, false
}
