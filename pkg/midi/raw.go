package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Codec to and from raw MIDI 1.0 bytes, used by the generator tooling and
// by tests that feed recorded byte streams through the pipeline. Not for
// the audio thread: gomidi messages are heap slices.

// EncodeRaw renders an event as MIDI 1.0 bytes. Kinds with no wire form
// report false.
func EncodeRaw(e Event) (gomidi.Message, bool) {
	switch e.Kind {
	case KindNoteOn:
		return gomidi.NoteOn(e.Channel, e.Key, e.ValueByte()), true
	case KindNoteOff:
		return gomidi.NoteOffVelocity(e.Channel, e.Key, e.ValueByte()), true
	case KindPolyPressure:
		return gomidi.PolyAfterTouch(e.Channel, e.Key, e.ValueByte()), true
	case KindControlChange:
		return gomidi.ControlChange(e.Channel, e.Key, e.ValueByte()), true
	case KindProgramChange:
		return gomidi.ProgramChange(e.Channel, e.Key), true
	case KindChannelPressure:
		return gomidi.AfterTouch(e.Channel, e.ValueByte()), true
	case KindPitchBend:
		v := int(BendTo14(e.Value)) - 8192
		return gomidi.Pitchbend(e.Channel, int16(v)), true
	case KindSysEx:
		return gomidi.SysEx(e.SysEx), true
	}
	return nil, false
}

// DecodeRaw parses one MIDI 1.0 message at the given frame offset.
// Running status is not handled; callers hand over complete messages.
// Note-ons with velocity zero come back as note-offs.
func DecodeRaw(msg gomidi.Message, frame int32) (Event, bool) {
	var ch, key, vel, ctrl, val, prog, pressure uint8
	var rel int16
	var abs uint16
	var data []byte

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return NoteOn(frame, ch, key, byteToUnit(vel)), true
	case msg.GetNoteEnd(&ch, &key):
		return NoteOff(frame, ch, key, 0), true
	case msg.GetPolyAfterTouch(&ch, &key, &pressure):
		return PolyPressure(frame, ch, key, byteToUnit(pressure)), true
	case msg.GetControlChange(&ch, &ctrl, &val):
		return ControlChange(frame, ch, ctrl, byteToUnit(val)), true
	case msg.GetProgramChange(&ch, &prog):
		return ProgramChange(frame, ch, prog), true
	case msg.GetAfterTouch(&ch, &pressure):
		return ChannelPressure(frame, ch, byteToUnit(pressure)), true
	case msg.GetPitchBend(&ch, &rel, &abs):
		return PitchBend(frame, ch, BendFrom14(abs)), true
	case msg.GetSysEx(&data):
		return Event{Frame: frame, Kind: KindSysEx, NoteID: -1, SysEx: data}, true
	}
	return Event{}, false
}
