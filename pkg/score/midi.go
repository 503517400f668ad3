package score

import (
	"fmt"
	"io"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerBeat is the resolution of written files.
const TicksPerBeat = 960

// DefaultTempo plays one beat per second.
const DefaultTempo = 60

// WriteMIDI encodes sc as a format 1 Standard MIDI File, one track per part.
// The tempo meta event goes on the first track.
func WriteMIDI(w io.Writer, sc *Score, tempo float64) error {
	if tempo <= 0 {
		tempo = DefaultTempo
	}
	if len(sc.Parts) == 0 {
		return fmt.Errorf("score: no parts to write")
	}
	file := smf.New()
	file.TimeFormat = smf.MetricTicks(TicksPerBeat)

	for idx, part := range sc.Parts {
		if part.Channel < 0 || part.Channel > 15 {
			return fmt.Errorf("score: channel %d out of range", part.Channel)
		}
		ch := uint8(part.Channel)
		var tr smf.Track
		if idx == 0 {
			tr.Add(0, smf.MetaTempo(tempo))
		}
		tr.Add(0, midi.ProgramChange(ch, uint8(part.Program)))

		var cursor int64
		for _, ev := range part.Events {
			gap, err := beatsToTicks(ev.Start - cursor)
			if err != nil {
				return err
			}
			length, err := beatsToTicks(ev.Duration)
			if err != nil {
				return err
			}
			tr.Add(gap, midi.NoteOn(ch, uint8(ev.Key), uint8(ev.Volume)))
			tr.Add(length, midi.NoteOff(ch, uint8(ev.Key)))
			cursor = ev.Start + ev.Duration
		}
		tail, err := beatsToTicks(part.Length - cursor)
		if err != nil {
			return err
		}
		tr.Close(tail)
		if err := file.Add(tr); err != nil {
			return fmt.Errorf("score: add track %d: %w", idx+1, err)
		}
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("score: write midi: %w", err)
	}
	return nil
}

func beatsToTicks(beats int64) (uint32, error) {
	if beats < 0 || beats > math.MaxUint32/TicksPerBeat {
		return 0, fmt.Errorf("score: span of %d beats cannot be encoded", beats)
	}
	return uint32(beats * TicksPerBeat), nil
}
