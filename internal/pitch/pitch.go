package pitch

import "math"

const (
	A4Note    = 69
	A4Freq    = 440.0
	NoteCount = 128
)

// Frequency maps a MIDI note number to Hz in equal temperament around A4=440.
func Frequency(note int) float64 {
	return A4Freq * math.Exp2(float64(note-A4Note)/12)
}

// Valid reports whether note is a MIDI note number. Note events outside the
// range are ignored rather than folded into it.
func Valid(note int) bool {
	return note >= 0 && note < NoteCount
}
