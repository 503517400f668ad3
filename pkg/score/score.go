// Package score lays evaluated music values out on a timeline and persists
// them as Standard MIDI Files.
package score

import (
	"fmt"

	"tunelang/interpreter-go/pkg/runtime"
)

// Event is one sounding note. Start and Duration are measured in beats.
type Event struct {
	Key      int
	Start    int64
	Duration int64
	Volume   int
}

// Part is the event list played on one channel by one program.
type Part struct {
	Channel int
	Program int
	Events  []Event
	// Length includes trailing rests.
	Length int64
}

// Score is a set of parts that start together.
type Score struct {
	Parts []Part
}

// Compile lays out a note, tune or track. defaultInstrument is zero-based and
// is used for a bare note.
func Compile(value runtime.Value, defaultInstrument int) (*Score, error) {
	switch v := value.(type) {
	case runtime.NoteValue:
		part, err := compilePart(0, defaultInstrument, []runtime.NoteValue{v})
		if err != nil {
			return nil, err
		}
		return &Score{Parts: []Part{part}}, nil
	case runtime.TuneValue:
		part, err := compilePart(0, v.Instrument, v.Notes)
		if err != nil {
			return nil, err
		}
		return &Score{Parts: []Part{part}}, nil
	case runtime.TrackValue:
		if len(v.Tunes) == 0 || len(v.Tunes) > runtime.MaxTrackTunes {
			return nil, fmt.Errorf("score: track has %d tunes, want 1 - %d", len(v.Tunes), runtime.MaxTrackTunes)
		}
		parts := make([]Part, 0, len(v.Tunes))
		for idx, tune := range v.Tunes {
			part, err := compilePart(idx, tune.Instrument, tune.Notes)
			if err != nil {
				return nil, fmt.Errorf("score: tune %d: %w", idx+1, err)
			}
			parts = append(parts, part)
		}
		return &Score{Parts: parts}, nil
	case nil:
		return nil, fmt.Errorf("score: nothing to render")
	default:
		return nil, fmt.Errorf("score: cannot render %s values", value.Kind())
	}
}

func compilePart(channel, program int, notes []runtime.NoteValue) (Part, error) {
	if program < 0 || program > runtime.MaxInstrument-1 {
		return Part{}, fmt.Errorf("program %d out of range", program)
	}
	part := Part{Channel: channel, Program: program}
	var clock int64
	for _, note := range notes {
		if note.Duration <= 0 {
			return Part{}, fmt.Errorf("note %s has non-positive duration %d", note.Pitch, note.Duration)
		}
		if note.IsRest() {
			clock += note.Duration
			continue
		}
		key, ok := runtime.MIDIKey(note.Pitch)
		if !ok {
			return Part{}, fmt.Errorf("unknown pitch %q", note.Pitch)
		}
		part.Events = append(part.Events, Event{Key: key, Start: clock, Duration: note.Duration, Volume: note.Volume})
		clock += note.Duration
	}
	part.Length = clock
	return part, nil
}

// Length returns the duration of the longest part in beats.
func (s *Score) Length() int64 {
	var longest int64
	for _, part := range s.Parts {
		longest = max(longest, part.Length)
	}
	return longest
}
