// Package midi is the plugin-facing MIDI model: a flat event type that
// moves through pre-sized buffers on the audio thread, codecs to and from
// the host ABIs (VST3 event structs, Universal MIDI Packets, raw MIDI 1.0
// bytes), an RPN/NRPN assembler, and the controller-as-parameter bridge.
package midi

// Kind identifies what an Event carries.
type Kind uint8

const (
	KindNone Kind = iota
	KindNoteOn
	KindNoteOff
	KindPolyPressure
	KindControlChange
	KindProgramChange
	KindChannelPressure
	KindPitchBend
	KindSysEx
	KindNoteExpr
	KindNoteExprText
	KindChord
	KindScale
	KindRegisteredCtrl
	KindAssignableCtrl
)

var kindNames = [...]string{
	"none", "note-on", "note-off", "poly-pressure", "control-change",
	"program-change", "channel-pressure", "pitch-bend", "sysex",
	"note-expression", "note-expression-text", "chord", "scale",
	"registered-controller", "assignable-controller",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one MIDI event positioned inside a block. It is plain data
// with no indirection except the optional SysEx payload, so buffers of
// events never box and never touch the garbage collector mid-block.
//
// Value is normalized per kind: note velocity and pressure and controller
// values in [0,1], pitch bend in [-1,+1]. Key holds the note number,
// controller number, or program number.
type Event struct {
	// Frame is the sample offset of the event within its block.
	Frame   int32
	Kind    Kind
	Channel uint8
	Key     uint8
	Value   float64

	// NoteID is the host's note identifier, or -1 when the host does not
	// track note identity.
	NoteID int32

	// ExprType is the host's note expression type for KindNoteExpr and
	// KindNoteExprText events; Value carries the normalized expression
	// value unchanged.
	ExprType uint32

	// Mask is the pitch-class bitmask of a chord or scale event. Key
	// holds the root note and Bass the chord's bass note.
	Mask uint16
	Bass uint8

	// Number is the 14-bit parameter number of a registered or
	// assignable controller event.
	Number uint16

	// SysEx aliases pool or heap storage for KindSysEx events and is nil
	// otherwise.
	SysEx []byte

	// Text is the UTF-8 payload of chord, scale, and note expression
	// text events, aliasing pool storage like SysEx.
	Text []byte
}

// NoteOn builds a note-on with velocity in [0,1].
func NoteOn(frame int32, channel, key uint8, velocity float64) Event {
	return Event{Frame: frame, Kind: KindNoteOn, Channel: channel & 0x0F, Key: key & 0x7F, Value: clampUnit(velocity), NoteID: -1}
}

// NoteOff builds a note-off with release velocity in [0,1].
func NoteOff(frame int32, channel, key uint8, velocity float64) Event {
	return Event{Frame: frame, Kind: KindNoteOff, Channel: channel & 0x0F, Key: key & 0x7F, Value: clampUnit(velocity), NoteID: -1}
}

// ControlChange builds a CC event with the value in [0,1].
func ControlChange(frame int32, channel, controller uint8, value float64) Event {
	return Event{Frame: frame, Kind: KindControlChange, Channel: channel & 0x0F, Key: controller & 0x7F, Value: clampUnit(value), NoteID: -1}
}

// PitchBend builds a bend event with the value in [-1,+1].
func PitchBend(frame int32, channel uint8, bend float64) Event {
	if bend < -1 {
		bend = -1
	} else if bend > 1 {
		bend = 1
	}
	return Event{Frame: frame, Kind: KindPitchBend, Channel: channel & 0x0F, Value: bend, NoteID: -1}
}

// ProgramChange builds a program change event.
func ProgramChange(frame int32, channel, program uint8) Event {
	return Event{Frame: frame, Kind: KindProgramChange, Channel: channel & 0x0F, Key: program & 0x7F, NoteID: -1}
}

// ChannelPressure builds a channel aftertouch event with pressure in [0,1].
func ChannelPressure(frame int32, channel uint8, pressure float64) Event {
	return Event{Frame: frame, Kind: KindChannelPressure, Channel: channel & 0x0F, Value: clampUnit(pressure), NoteID: -1}
}

// NoteExpr builds a per-note expression event. The value stays in the
// host's normalized [0,1] range.
func NoteExpr(frame, noteID int32, exprType uint32, value float64) Event {
	return Event{Frame: frame, Kind: KindNoteExpr, Value: clampUnit(value), NoteID: noteID, ExprType: exprType}
}

// NoteExprText builds a per-note textual expression event, such as a
// lyric syllable. text must outlive the event's block.
func NoteExprText(frame, noteID int32, exprType uint32, text []byte) Event {
	return Event{Frame: frame, Kind: KindNoteExprText, NoteID: noteID, ExprType: exprType, Text: text}
}

// Chord builds a chord info event. mask is the pitch-class bitmask with
// bit 0 as the root's pitch class.
func Chord(frame int32, root, bass uint8, mask uint16, text []byte) Event {
	return Event{Frame: frame, Kind: KindChord, Key: root & 0x7F, Bass: bass & 0x7F, Mask: mask, NoteID: -1, Text: text}
}

// Scale builds a scale info event with the same mask convention as Chord.
func Scale(frame int32, root uint8, mask uint16, text []byte) Event {
	return Event{Frame: frame, Kind: KindScale, Key: root & 0x7F, Mask: mask, NoteID: -1, Text: text}
}

// RegisteredControl builds a high-resolution registered (RPN) controller
// event. number is 14-bit; value is normalized from the 14-bit data range
// to [0,1].
func RegisteredControl(frame int32, channel uint8, number uint16, value float64) Event {
	return Event{Frame: frame, Kind: KindRegisteredCtrl, Channel: channel & 0x0F, Number: number & 0x3FFF, Value: clampUnit(value), NoteID: -1}
}

// AssignableControl builds the non-registered (NRPN) counterpart of
// RegisteredControl.
func AssignableControl(frame int32, channel uint8, number uint16, value float64) Event {
	return Event{Frame: frame, Kind: KindAssignableCtrl, Channel: channel & 0x0F, Number: number & 0x3FFF, Value: clampUnit(value), NoteID: -1}
}

// PolyPressure builds a per-note aftertouch event with pressure in [0,1].
func PolyPressure(frame int32, channel, key uint8, pressure float64) Event {
	return Event{Frame: frame, Kind: KindPolyPressure, Channel: channel & 0x0F, Key: key & 0x7F, Value: clampUnit(pressure), NoteID: -1}
}

// ValueByte returns Value as a 7-bit data byte.
func (e Event) ValueByte() uint8 {
	return unitToByte(e.Value)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func unitToByte(v float64) uint8 {
	n := int(clampUnit(v)*127 + 0.5)
	return uint8(n)
}

func byteToUnit(b uint8) float64 {
	return float64(b&0x7F) / 127
}
