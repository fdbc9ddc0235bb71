package midi

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestRawRoundTrip(t *testing.T) {
	events := []Event{
		NoteOn(0, 0, 60, byteToUnit(100)),
		PolyPressure(0, 2, 64, byteToUnit(50)),
		ControlChange(0, 1, 7, byteToUnit(90)),
		ProgramChange(0, 3, 12),
		ChannelPressure(0, 4, byteToUnit(70)),
		PitchBend(0, 5, 0.5),
	}
	for _, e := range events {
		msg, ok := EncodeRaw(e)
		if !ok {
			t.Fatalf("%v: encode failed", e.Kind)
		}
		back, ok := DecodeRaw(msg, 0)
		if !ok {
			t.Fatalf("%v: decode failed on %v", e.Kind, msg)
		}
		if back.Kind != e.Kind || back.Channel != e.Channel || back.Key != e.Key {
			t.Errorf("%v: round trip %+v != %+v", e.Kind, back, e)
		}
	}
}

func TestRawNoteOffForms(t *testing.T) {
	// A real note-off message.
	e, ok := DecodeRaw(gomidi.NoteOff(2, 60), 0)
	if !ok || e.Kind != KindNoteOff || e.Key != 60 {
		t.Errorf("note-off decoded as %+v", e)
	}

	// Velocity-zero note-on means note-off on the wire.
	e, ok = DecodeRaw(gomidi.NoteOn(2, 60, 0), 0)
	if !ok || e.Kind != KindNoteOff {
		t.Errorf("velocity-zero note-on decoded as %v, want note-off", e.Kind)
	}
}

func TestRawPitchBendWire(t *testing.T) {
	msg, ok := EncodeRaw(PitchBend(0, 0, 0))
	if !ok {
		t.Fatal("encode failed")
	}
	raw := []byte(msg)
	if len(raw) != 3 || raw[0] != 0xE0 || raw[1] != 0x00 || raw[2] != 0x40 {
		t.Errorf("center bend bytes = % x, want e0 00 40", raw)
	}
}

func TestRawSysEx(t *testing.T) {
	payload := []byte{0x7E, 0x7F, 0x06, 0x01}
	msg, ok := EncodeRaw(Event{Kind: KindSysEx, SysEx: payload})
	if !ok {
		t.Fatal("sysex encode failed")
	}
	e, ok := DecodeRaw(msg, 7)
	if !ok || e.Kind != KindSysEx || e.Frame != 7 {
		t.Fatalf("sysex decode: %+v", e)
	}
	if len(e.SysEx) == 0 {
		t.Error("sysex payload lost")
	}
}

func TestRawFrameCarried(t *testing.T) {
	msg, _ := EncodeRaw(NoteOn(0, 0, 40, 1))
	e, _ := DecodeRaw(msg, 123)
	if e.Frame != 123 {
		t.Errorf("frame = %d, want 123", e.Frame)
	}
}
