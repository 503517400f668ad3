package runtime

// RestPitch marks a silent note.
const RestPitch = "R"

// pitchNames lists the pitch classes of the single octave starting at
// middle C, in semitone order.
var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// MiddleC is the MIDI key of the first entry in the pitch table.
const MiddleC = 60

// PitchNames returns the accepted note names, rest marker last.
func PitchNames() []string {
	out := make([]string, 0, len(pitchNames)+1)
	out = append(out, pitchNames[:]...)
	return append(out, RestPitch)
}

// ValidPitch reports whether name is a pitch class or the rest marker.
func ValidPitch(name string) bool {
	if name == RestPitch {
		return true
	}
	_, ok := pitchClass(name)
	return ok
}

func pitchClass(name string) (int, bool) {
	for idx, candidate := range pitchNames {
		if candidate == name {
			return idx, true
		}
	}
	return 0, false
}

// MIDIKey maps a pitch name onto the middle octave (C=60 .. B=71). Rests and
// unknown names report false.
func MIDIKey(name string) (int, bool) {
	idx, ok := pitchClass(name)
	if !ok {
		return 0, false
	}
	return MiddleC + idx, true
}

// TransposePitch shifts name by steps semitones, wrapping within the octave
// so the result keeps its pitch class mod 12. Rests are returned unchanged.
func TransposePitch(name string, steps int64) string {
	idx, ok := pitchClass(name)
	if !ok {
		return name
	}
	shifted := (int64(idx) + steps%12 + 12) % 12
	return pitchNames[shifted]
}

// Transpose shifts every sounding note of tune, keeping durations, volumes
// and the instrument.
func (v TuneValue) Transpose(steps int64) TuneValue {
	notes := make([]NoteValue, len(v.Notes))
	for idx, note := range v.Notes {
		if !note.IsRest() {
			note.Pitch = TransposePitch(note.Pitch, steps)
		}
		notes[idx] = note
	}
	return TuneValue{Notes: notes, Instrument: v.Instrument}
}
