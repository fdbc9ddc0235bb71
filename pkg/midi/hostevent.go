package midi

import "unicode/utf8"

// HostEvent mirrors the VST3 event union after the cgo layer has read it
// out of host memory. The bridge fills one of the field groups depending
// on Type; this package turns it into an Event and back.
type HostEvent struct {
	BusIndex     int32
	SampleOffset int32
	PpqPosition  float64
	Flags        uint16
	Type         uint16

	// Note events.
	Channel  int16
	Pitch    int16
	Tuning   float32
	Velocity float32
	Length   int32
	NoteID   int32

	// Note expression events.
	ExprTypeID uint32
	ExprValue  float64

	// Chord and scale events. Root doubles as the chord root.
	Root     int16
	BassNote int16
	Mask     int16

	// UTF-16 text of chord, scale, and expression text events,
	// referencing host memory.
	Text []uint16

	// Data events.
	Data []byte

	// Legacy MIDI CC events.
	ControlNumber uint8
	CcValue       int8
	CcValue2      int8
}

// VST3 event type codes.
const (
	HostNoteOn          uint16 = 0
	HostNoteOff         uint16 = 1
	HostData            uint16 = 2
	HostPolyPressure    uint16 = 3
	HostNoteExprValue   uint16 = 4
	HostNoteExprText    uint16 = 5
	HostChord           uint16 = 6
	HostScale           uint16 = 7
	HostLegacyMIDICCOut uint16 = 65535
)

// Legacy controller numbers above the CC range.
const (
	legacyAfterTouch    = 128
	legacyPitchBend     = 129
	legacyProgramChange = 130
)

const hostDataTypeMIDISysEx = 0

// FromHost translates a host event. pool provides storage for SysEx and
// text payloads; pass nil to drop data events and carry text-bearing
// events without their text.
func FromHost(h HostEvent, pool *SysExPool) (Event, bool) {
	frame := h.SampleOffset
	ch := uint8(h.Channel) & 0x0F

	switch h.Type {
	case HostNoteOn:
		if h.Velocity <= 0 {
			e := NoteOff(frame, ch, uint8(h.Pitch), 0)
			e.NoteID = h.NoteID
			return e, true
		}
		e := NoteOn(frame, ch, uint8(h.Pitch), float64(h.Velocity))
		e.NoteID = h.NoteID
		return e, true

	case HostNoteOff:
		e := NoteOff(frame, ch, uint8(h.Pitch), float64(h.Velocity))
		e.NoteID = h.NoteID
		return e, true

	case HostPolyPressure:
		e := PolyPressure(frame, ch, uint8(h.Pitch), float64(h.Velocity))
		e.NoteID = h.NoteID
		return e, true

	case HostData:
		if pool == nil {
			return Event{}, false
		}
		stored := pool.Copy(h.Data)
		if stored == nil && len(h.Data) > 0 {
			return Event{}, false
		}
		return Event{Frame: frame, Kind: KindSysEx, NoteID: -1, SysEx: stored}, true

	case HostNoteExprValue:
		return NoteExpr(frame, h.NoteID, h.ExprTypeID, h.ExprValue), true

	case HostNoteExprText:
		return NoteExprText(frame, h.NoteID, h.ExprTypeID, textToPool(h.Text, pool)), true

	case HostChord:
		return Chord(frame, uint8(h.Root), uint8(h.BassNote), uint16(h.Mask), textToPool(h.Text, pool)), true

	case HostScale:
		return Scale(frame, uint8(h.Root), uint16(h.Mask), textToPool(h.Text, pool)), true

	case HostLegacyMIDICCOut:
		return fromLegacyCC(h, frame, ch)
	}
	return Event{}, false
}

// textToPool converts UTF-16 host text to UTF-8 in pool storage without
// allocating. Text that does not fit one pool slot is truncated.
func textToPool(units []uint16, pool *SysExPool) []byte {
	if len(units) == 0 || pool == nil {
		return nil
	}
	var buf [SysExSlotSize]byte
	n := 0
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if r >= 0xD800 && r < 0xDC00 && i+1 < len(units) {
			lo := rune(units[i+1])
			if lo >= 0xDC00 && lo < 0xE000 {
				r = 0x10000 + (r-0xD800)<<10 + (lo - 0xDC00)
				i++
			} else {
				r = utf8.RuneError
			}
		} else if r >= 0xD800 && r < 0xE000 {
			r = utf8.RuneError
		}
		if n+utf8.UTFMax > len(buf) {
			break
		}
		n += utf8.EncodeRune(buf[n:], r)
	}
	return pool.Copy(buf[:n])
}

func fromLegacyCC(h HostEvent, frame int32, ch uint8) (Event, bool) {
	switch {
	case h.ControlNumber <= 127:
		return ControlChange(frame, ch, h.ControlNumber, byteToUnit(uint8(h.CcValue))), true
	case h.ControlNumber == legacyAfterTouch:
		return ChannelPressure(frame, ch, byteToUnit(uint8(h.CcValue))), true
	case h.ControlNumber == legacyPitchBend:
		return PitchBend(frame, ch, BendFromBytes(uint8(h.CcValue), uint8(h.CcValue2))), true
	case h.ControlNumber == legacyProgramChange:
		return ProgramChange(frame, ch, uint8(h.CcValue)), true
	}
	return Event{}, false
}

// ToHost translates a plugin event for the host's output event list.
// Notes map to note events; everything else rides a legacy MIDI CC event,
// which is how VST3 hosts accept raw MIDI from a plugin.
func ToHost(e Event) (HostEvent, bool) {
	h := HostEvent{
		SampleOffset: e.Frame,
		Channel:      int16(e.Channel),
		NoteID:       e.NoteID,
	}
	switch e.Kind {
	case KindNoteOn:
		h.Type = HostNoteOn
		h.Pitch = int16(e.Key)
		h.Velocity = float32(e.Value)
	case KindNoteOff:
		h.Type = HostNoteOff
		h.Pitch = int16(e.Key)
		h.Velocity = float32(e.Value)
	case KindPolyPressure:
		h.Type = HostPolyPressure
		h.Pitch = int16(e.Key)
		h.Velocity = float32(e.Value)
	case KindControlChange:
		h.Type = HostLegacyMIDICCOut
		h.ControlNumber = e.Key
		h.CcValue = int8(e.ValueByte())
	case KindChannelPressure:
		h.Type = HostLegacyMIDICCOut
		h.ControlNumber = legacyAfterTouch
		h.CcValue = int8(e.ValueByte())
	case KindPitchBend:
		h.Type = HostLegacyMIDICCOut
		h.ControlNumber = legacyPitchBend
		lsb, msb := BendBytes(e.Value)
		h.CcValue = int8(lsb)
		h.CcValue2 = int8(msb)
	case KindProgramChange:
		h.Type = HostLegacyMIDICCOut
		h.ControlNumber = legacyProgramChange
		h.CcValue = int8(e.Key)
	case KindNoteExpr:
		h.Type = HostNoteExprValue
		h.ExprTypeID = e.ExprType
		h.ExprValue = e.Value
	case KindSysEx:
		h.Type = HostData
		h.Data = e.SysEx
	default:
		return HostEvent{}, false
	}
	return h, true
}
