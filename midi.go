package roog

import (
	"gitlab.com/gomidi/midi/v2"
)

// ProcessMIDI handles one raw MIDI message. Note-on (0x9n) starts the note and
// note-off (0x8n) releases it; velocity is accepted but does not shape the
// sound, and a note-on with velocity 0 still counts as a note-on. Unless the
// engine is in omni mode only channel 1 (status 0x90/0x80) is heard. Every
// other message, including short ones, is ignored.
func (e *Engine) ProcessMIDI(data []byte) {
	if len(data) < 3 {
		return
	}
	msg := midi.Message(data[:3])
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		if e.hears(channel) {
			e.NoteOn(int(key))
		}
	case msg.GetNoteOff(&channel, &key, &velocity):
		if e.hears(channel) {
			e.NoteOff(int(key))
		}
	}
}

func (e *Engine) hears(channel uint8) bool {
	return e.omni || channel == 0
}

// Support is the answer to a host capability query.
type Support int

const (
	SupportMaybe Support = iota
	SupportYes
	SupportNo
)

func (s Support) String() string {
	switch s {
	case SupportYes:
		return "yes"
	case SupportNo:
		return "no"
	default:
		return "maybe"
	}
}

// CanReceiveMIDIEvent is the only capability the engine claims.
const CanReceiveMIDIEvent = "receiveMidiEvent"

// CanDo answers a host capability query. Unknown capabilities are "maybe",
// never an error.
func (e *Engine) CanDo(capability string) Support {
	if capability == CanReceiveMIDIEvent {
		return SupportYes
	}
	return SupportMaybe
}
