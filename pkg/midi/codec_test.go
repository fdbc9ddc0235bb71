package midi

import (
	"math"
	"testing"
)

func TestBend14Mapping(t *testing.T) {
	cases := []struct {
		bend float64
		wire uint16
	}{
		{0, 8192},
		{-1, 0},
		{1, 16383},
		{0.5, 12288},
		{-0.5, 4096},
	}
	for _, c := range cases {
		if got := BendTo14(c.bend); got != c.wire {
			t.Errorf("BendTo14(%g) = %d, want %d", c.bend, got, c.wire)
		}
	}
	if got := BendFrom14(8192); got != 0 {
		t.Errorf("BendFrom14(8192) = %g, want exactly 0", got)
	}
	if got := BendFrom14(0); got != -1 {
		t.Errorf("BendFrom14(0) = %g, want -1", got)
	}

	// Wire round trip is exact for every wire value.
	for v := uint16(0); v < 16384; v += 37 {
		if got := BendTo14(BendFrom14(v)); got != v {
			t.Fatalf("wire round trip %d -> %d", v, got)
		}
	}
}

func TestBendBytes(t *testing.T) {
	lsb, msb := BendBytes(0)
	if lsb != 0x00 || msb != 0x40 {
		t.Errorf("center bend bytes = %02x %02x, want 00 40", lsb, msb)
	}
	if got := BendFromBytes(lsb, msb); got != 0 {
		t.Errorf("recombined center = %g", got)
	}
}

func TestUMPRoundTrip(t *testing.T) {
	events := []Event{
		NoteOn(5, 3, 60, byteToUnit(100)),
		NoteOff(5, 3, 60, byteToUnit(64)),
		PolyPressure(0, 1, 72, byteToUnit(33)),
		ControlChange(9, 0, 74, byteToUnit(127)),
		ProgramChange(0, 15, 42),
		ChannelPressure(1, 7, byteToUnit(80)),
		PitchBend(2, 4, 0.25),
	}
	for _, e := range events {
		word, ok := EncodeUMP(e, 0)
		if !ok {
			t.Fatalf("%v: encode failed", e.Kind)
		}
		back, ok := DecodeUMP(word, e.Frame)
		if !ok {
			t.Fatalf("%v: decode failed", e.Kind)
		}
		if back.Kind != e.Kind || back.Channel != e.Channel || back.Key != e.Key {
			t.Errorf("%v: round trip %+v != %+v", e.Kind, back, e)
		}
		if math.Abs(back.Value-e.Value) > 1.0/127 {
			t.Errorf("%v: value %g -> %g", e.Kind, e.Value, back.Value)
		}
	}
}

func TestUMPWordLayout(t *testing.T) {
	word, ok := EncodeUMP(PitchBend(0, 2, 0), 5)
	if !ok {
		t.Fatal("encode failed")
	}
	want := uint32(0x2)<<28 | uint32(5)<<24 | uint32(0xE2)<<16 | uint32(0x00)<<8 | uint32(0x40)
	if got, _ := EncodeUMP(PitchBend(0, 2, 0), 5); got != want {
		t.Errorf("word = %08x, want %08x", got, want)
	}
	_ = word
}

func TestUMPRejectsOtherMessageTypes(t *testing.T) {
	// MT=4 is a MIDI 2.0 voice packet; a 32-bit decoder must not touch it.
	if _, ok := DecodeUMP(0x40903C64, 0); ok {
		t.Error("MT=4 word decoded as MT=2")
	}
	if _, ok := EncodeUMP(Event{Kind: KindSysEx}, 0); ok {
		t.Error("sysex should not encode as a single voice word")
	}
}

func TestUMPNoteOnZeroVelocity(t *testing.T) {
	word := uint32(0x2)<<28 | uint32(0x93)<<16 | uint32(60)<<8
	e, ok := DecodeUMP(word, 0)
	if !ok {
		t.Fatal("decode failed")
	}
	if e.Kind != KindNoteOff {
		t.Errorf("velocity-zero note-on decoded as %v, want note-off", e.Kind)
	}
}
