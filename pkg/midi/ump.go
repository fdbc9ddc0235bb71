package midi

// Universal MIDI Packet codec for message type 2 (MIDI 1.0 channel voice
// inside UMP), the format AUv3 hosts deliver through
// MIDIEventListBlock. One packet is one 32-bit word:
//
//	[31:28] message type, 0x2
//	[27:24] group
//	[23:16] status byte (high nibble opcode, low nibble channel)
//	[15:8]  data 1
//	[7:0]   data 2

const umpTypeVoice1 = 0x2

const (
	statusNoteOff         = 0x80
	statusNoteOn          = 0x90
	statusPolyPressure    = 0xA0
	statusControlChange   = 0xB0
	statusProgramChange   = 0xC0
	statusChannelPressure = 0xD0
	statusPitchBend       = 0xE0
)

// EncodeUMP packs a channel voice event into an MT=2 word. SysEx and
// unknown kinds report false; they travel as multi-word MT=3 packets
// which the bridge handles separately.
func EncodeUMP(e Event, group uint8) (uint32, bool) {
	var status, d1, d2 uint8
	switch e.Kind {
	case KindNoteOn:
		status, d1, d2 = statusNoteOn, e.Key, e.ValueByte()
	case KindNoteOff:
		status, d1, d2 = statusNoteOff, e.Key, e.ValueByte()
	case KindPolyPressure:
		status, d1, d2 = statusPolyPressure, e.Key, e.ValueByte()
	case KindControlChange:
		status, d1, d2 = statusControlChange, e.Key, e.ValueByte()
	case KindProgramChange:
		status, d1 = statusProgramChange, e.Key
	case KindChannelPressure:
		status, d1 = statusChannelPressure, e.ValueByte()
	case KindPitchBend:
		lsb, msb := BendBytes(e.Value)
		status, d1, d2 = statusPitchBend, lsb, msb
	default:
		return 0, false
	}
	word := uint32(umpTypeVoice1)<<28 |
		uint32(group&0x0F)<<24 |
		uint32(status|e.Channel&0x0F)<<16 |
		uint32(d1&0x7F)<<8 |
		uint32(d2&0x7F)
	return word, true
}

// DecodeUMP unpacks an MT=2 word at the given frame offset. Words of any
// other message type report false.
func DecodeUMP(word uint32, frame int32) (Event, bool) {
	if word>>28 != umpTypeVoice1 {
		return Event{}, false
	}
	status := uint8(word >> 16)
	channel := status & 0x0F
	d1 := uint8(word>>8) & 0x7F
	d2 := uint8(word) & 0x7F

	switch status & 0xF0 {
	case statusNoteOn:
		if d2 == 0 {
			return NoteOff(frame, channel, d1, 0), true
		}
		return NoteOn(frame, channel, d1, byteToUnit(d2)), true
	case statusNoteOff:
		return NoteOff(frame, channel, d1, byteToUnit(d2)), true
	case statusPolyPressure:
		return PolyPressure(frame, channel, d1, byteToUnit(d2)), true
	case statusControlChange:
		return ControlChange(frame, channel, d1, byteToUnit(d2)), true
	case statusProgramChange:
		return ProgramChange(frame, channel, d1), true
	case statusChannelPressure:
		return ChannelPressure(frame, channel, byteToUnit(d1)), true
	case statusPitchBend:
		return PitchBend(frame, channel, BendFromBytes(d1, d2)), true
	}
	return Event{}, false
}
