package vst3

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include "vst3/abi.h"

static Steinberg_int32 params_count(struct Steinberg_Vst_IParameterChanges* p) {
	return p->lpVtbl->getParameterCount(p);
}

static struct Steinberg_Vst_IParamValueQueue* params_queue(struct Steinberg_Vst_IParameterChanges* p, Steinberg_int32 i) {
	return p->lpVtbl->getParameterData(p, i);
}

static Steinberg_Vst_ParamID queue_id(struct Steinberg_Vst_IParamValueQueue* q) {
	return q->lpVtbl->getParameterId(q);
}

static Steinberg_int32 queue_count(struct Steinberg_Vst_IParamValueQueue* q) {
	return q->lpVtbl->getPointCount(q);
}

static Steinberg_tresult queue_point(struct Steinberg_Vst_IParamValueQueue* q, Steinberg_int32 i, Steinberg_int32* offset, Steinberg_Vst_ParamValue* value) {
	return q->lpVtbl->getPoint(q, i, offset, value);
}

static Steinberg_tresult params_add_point(struct Steinberg_Vst_IParameterChanges* p, Steinberg_Vst_ParamID id, Steinberg_int32 offset, Steinberg_Vst_ParamValue value) {
	Steinberg_int32 index = 0;
	struct Steinberg_Vst_IParamValueQueue* q = p->lpVtbl->addParameterData(p, &id, &index);
	if (q == NULL) {
		return Steinberg_kResultFalse;
	}
	return q->lpVtbl->addPoint(q, offset, value, &index);
}

static Steinberg_int32 events_count(struct Steinberg_Vst_IEventList* l) {
	return l->lpVtbl->getEventCount(l);
}

static Steinberg_tresult events_get(struct Steinberg_Vst_IEventList* l, Steinberg_int32 i, struct Steinberg_Vst_Event* e) {
	return l->lpVtbl->getEvent(l, i, e);
}

static Steinberg_tresult events_add(struct Steinberg_Vst_IEventList* l, struct Steinberg_Vst_Event* e) {
	return l->lpVtbl->addEvent(l, e);
}

static struct Steinberg_Vst_NoteOnEvent event_note_on(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.noteOn;
}

static struct Steinberg_Vst_NoteOffEvent event_note_off(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.noteOff;
}

static struct Steinberg_Vst_PolyPressureEvent event_poly_pressure(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.polyPressure;
}

static struct Steinberg_Vst_DataEvent event_data(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.data;
}

static struct Steinberg_Vst_NoteExpressionValueEvent event_note_expr(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.noteExpressionValue;
}

static struct Steinberg_Vst_NoteExpressionTextEvent event_note_expr_text(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.noteExpressionText;
}

static struct Steinberg_Vst_ChordEvent event_chord(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.chord;
}

static struct Steinberg_Vst_ScaleEvent event_scale(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.scale;
}

static struct Steinberg_Vst_LegacyMIDICCOutEvent event_legacy_cc(const struct Steinberg_Vst_Event* e) {
	return e->Steinberg_Vst_Event_event.midiCCOut;
}

static void event_set_note_on(struct Steinberg_Vst_Event* e, struct Steinberg_Vst_NoteOnEvent n) {
	e->Steinberg_Vst_Event_event.noteOn = n;
}

static void event_set_note_off(struct Steinberg_Vst_Event* e, struct Steinberg_Vst_NoteOffEvent n) {
	e->Steinberg_Vst_Event_event.noteOff = n;
}

static void event_set_legacy_cc(struct Steinberg_Vst_Event* e, struct Steinberg_Vst_LegacyMIDICCOutEvent n) {
	e->Steinberg_Vst_Event_event.midiCCOut = n;
}

static void event_set_note_expr(struct Steinberg_Vst_Event* e, struct Steinberg_Vst_NoteExpressionValueEvent n) {
	e->Steinberg_Vst_Event_event.noteExpressionValue = n;
}

static void event_set_data(struct Steinberg_Vst_Event* e, const uint8_t* bytes, Steinberg_uint32 size) {
	e->Steinberg_Vst_Event_event.data.type = Steinberg_Vst_DataEvent_DataTypes_kMidiSysEx;
	e->Steinberg_Vst_Event_event.data.bytes = bytes;
	e->Steinberg_Vst_Event_event.data.size = size;
}
*/
import "C"

import (
	"unsafe"

	"github.com/beamer-audio/beamer-go/pkg/framework/process"
	"github.com/beamer-audio/beamer-go/pkg/midi"
)

// ProcessData wraps one render call's worth of host buffers, events,
// and parameter changes. Accessors make no heap allocations.
type ProcessData struct {
	ptr *C.struct_Steinberg_Vst_ProcessData
}

// WrapProcessData views host process data. Returns a zero wrapper for a
// nil pointer.
func WrapProcessData(ptr unsafe.Pointer) ProcessData {
	return ProcessData{ptr: (*C.struct_Steinberg_Vst_ProcessData)(ptr)}
}

func (d ProcessData) Frames() int     { return int(d.ptr.numSamples) }
func (d ProcessData) SampleSize() int { return int(d.ptr.symbolicSampleSize) }
func (d ProcessData) NumInputs() int  { return int(d.ptr.numInputs) }
func (d ProcessData) NumOutputs() int { return int(d.ptr.numOutputs) }

func (d ProcessData) inputBus(bus int) *C.struct_Steinberg_Vst_AudioBusBuffers {
	buses := unsafe.Slice(d.ptr.inputs, d.ptr.numInputs)
	return &buses[bus]
}

func (d ProcessData) outputBus(bus int) *C.struct_Steinberg_Vst_AudioBusBuffers {
	buses := unsafe.Slice(d.ptr.outputs, d.ptr.numOutputs)
	return &buses[bus]
}

func channels32(b *C.struct_Steinberg_Vst_AudioBusBuffers, frames int, dst [][]float32) [][]float32 {
	dst = dst[:0]
	n := int(b.numChannels)
	ptrs := *(***C.float)(unsafe.Pointer(&b.Steinberg_Vst_AudioBusBuffers_buffers))
	if ptrs == nil {
		return dst
	}
	chans := unsafe.Slice(ptrs, n)
	for i := 0; i < n; i++ {
		if chans[i] == nil {
			dst = append(dst, nil)
			continue
		}
		dst = append(dst, unsafe.Slice((*float32)(unsafe.Pointer(chans[i])), frames))
	}
	return dst
}

func channels64(b *C.struct_Steinberg_Vst_AudioBusBuffers, frames int, dst [][]float64) [][]float64 {
	dst = dst[:0]
	n := int(b.numChannels)
	ptrs := *(***C.double)(unsafe.Pointer(&b.Steinberg_Vst_AudioBusBuffers_buffers))
	if ptrs == nil {
		return dst
	}
	chans := unsafe.Slice(ptrs, n)
	for i := 0; i < n; i++ {
		if chans[i] == nil {
			dst = append(dst, nil)
			continue
		}
		dst = append(dst, unsafe.Slice((*float64)(unsafe.Pointer(chans[i])), frames))
	}
	return dst
}

// InputChannels32 fills dst with non-owning channel views of an input
// bus. dst must have capacity for the bus width.
func (d ProcessData) InputChannels32(bus int, dst [][]float32) [][]float32 {
	return channels32(d.inputBus(bus), d.Frames(), dst)
}

// OutputChannels32 fills dst with channel views of an output bus.
func (d ProcessData) OutputChannels32(bus int, dst [][]float32) [][]float32 {
	return channels32(d.outputBus(bus), d.Frames(), dst)
}

// InputChannels64 is the 64-bit variant of InputChannels32.
func (d ProcessData) InputChannels64(bus int, dst [][]float64) [][]float64 {
	return channels64(d.inputBus(bus), d.Frames(), dst)
}

// OutputChannels64 is the 64-bit variant of OutputChannels32.
func (d ProcessData) OutputChannels64(bus int, dst [][]float64) [][]float64 {
	return channels64(d.outputBus(bus), d.Frames(), dst)
}

// Transport decodes the host process context. Fields whose validity
// flag is clear stay unknown.
func (d ProcessData) Transport() process.Transport {
	var t process.Transport
	ctx := d.ptr.processContext
	if ctx == nil {
		return t
	}
	state := uint32(ctx.state)
	t.Playing = state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kPlaying != 0
	t.Recording = state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kRecording != 0
	t.CycleActive = state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kCycleActive != 0
	t.SamplePos = int64(ctx.projectTimeSamples)
	if state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kTempoValid != 0 {
		t.Tempo = process.Some(float64(ctx.tempo))
	}
	if state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kProjectTimeMusicValid != 0 {
		t.PpqPos = process.Some(float64(ctx.projectTimeMusic))
	}
	if state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kBarPositionValid != 0 {
		t.BarStartPpq = process.Some(float64(ctx.barPositionMusic))
	}
	if state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kCycleValid != 0 {
		t.CycleStart = process.Some(float64(ctx.cycleStartMusic))
		t.CycleEnd = process.Some(float64(ctx.cycleEndMusic))
	}
	if state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kTimeSigValid != 0 {
		t.TimeSigNum = process.Some(int32(ctx.timeSigNumerator))
		t.TimeSigDenom = process.Some(int32(ctx.timeSigDenominator))
	}
	if state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kClockValid != 0 {
		t.SamplesToNextBeat = process.Some(int32(ctx.samplesToNextClock))
	}
	if state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kSmpteValid != 0 {
		t.SmpteOffset = process.Some(int32(ctx.smpteOffsetSubframes))
		t.SmpteFrameRate = process.Some(int32(ctx.frameRate.framesPerSecond))
	}
	if state&C.Steinberg_Vst_ProcessContext_StatesAndFlags_kSystemTimeValid != 0 {
		t.SystemTime = process.Some(int64(ctx.systemTime))
	}
	return t
}

// ParamQueues reports the number of changed parameters this block.
func (d ProcessData) ParamQueues() int {
	if d.ptr.inputParameterChanges == nil {
		return 0
	}
	return int(C.params_count(d.ptr.inputParameterChanges))
}

// ParamQueue resolves queue i to the ramp endpoint: the last point's
// value, stamped at that point's sample offset.
func (d ProcessData) ParamQueue(i int) (id uint32, value float64, frame int32, ok bool) {
	q := C.params_queue(d.ptr.inputParameterChanges, C.Steinberg_int32(i))
	if q == nil {
		return 0, 0, 0, false
	}
	n := C.queue_count(q)
	if n <= 0 {
		return 0, 0, 0, false
	}
	var offset C.Steinberg_int32
	var v C.Steinberg_Vst_ParamValue
	if C.queue_point(q, n-1, &offset, &v) != C.Steinberg_kResultOk {
		return 0, 0, 0, false
	}
	return uint32(C.queue_id(q)), float64(v), int32(offset), true
}

// AddOutputParamChange reports a plugin-driven parameter value, e.g. a
// meter, through the block's output change list. Returns false when the
// host supplied no output list or rejected the point.
func (d ProcessData) AddOutputParamChange(id uint32, frame int32, value float64) bool {
	if d.ptr.outputParameterChanges == nil {
		return false
	}
	return C.params_add_point(d.ptr.outputParameterChanges,
		C.Steinberg_Vst_ParamID(id), C.Steinberg_int32(frame),
		C.Steinberg_Vst_ParamValue(value)) == C.Steinberg_kResultOk
}

// EventCount reports the number of incoming host events.
func (d ProcessData) EventCount() int {
	if d.ptr.inputEvents == nil {
		return 0
	}
	return int(C.events_count(d.ptr.inputEvents))
}

// Event decodes incoming host event i. SysEx payloads reference host
// memory and must be copied before the call returns to the host.
func (d ProcessData) Event(i int) (midi.HostEvent, bool) {
	var ce C.struct_Steinberg_Vst_Event
	if C.events_get(d.ptr.inputEvents, C.Steinberg_int32(i), &ce) != C.Steinberg_kResultOk {
		return midi.HostEvent{}, false
	}
	h := midi.HostEvent{
		BusIndex:     int32(ce.busIndex),
		SampleOffset: int32(ce.sampleOffset),
		PpqPosition:  float64(ce.ppqPosition),
		Flags:        uint16(ce.flags),
		Type:         uint16(ce._type),
	}
	switch h.Type {
	case midi.HostNoteOn:
		n := C.event_note_on(&ce)
		h.Channel = int16(n.channel)
		h.Pitch = int16(n.pitch)
		h.Tuning = float32(n.tuning)
		h.Velocity = float32(n.velocity)
		h.Length = int32(n.length)
		h.NoteID = int32(n.noteId)
	case midi.HostNoteOff:
		n := C.event_note_off(&ce)
		h.Channel = int16(n.channel)
		h.Pitch = int16(n.pitch)
		h.Velocity = float32(n.velocity)
		h.Tuning = float32(n.tuning)
		h.NoteID = int32(n.noteId)
	case midi.HostPolyPressure:
		n := C.event_poly_pressure(&ce)
		h.Channel = int16(n.channel)
		h.Pitch = int16(n.pitch)
		h.Velocity = float32(n.pressure)
		h.NoteID = int32(n.noteId)
	case midi.HostData:
		n := C.event_data(&ce)
		if n.bytes != nil && n.size > 0 {
			h.Data = unsafe.Slice((*byte)(unsafe.Pointer(n.bytes)), int(n.size))
		}
	case midi.HostNoteExprValue:
		n := C.event_note_expr(&ce)
		h.ExprTypeID = uint32(n.typeId)
		h.NoteID = int32(n.noteId)
		h.ExprValue = float64(n.value)
	case midi.HostNoteExprText:
		n := C.event_note_expr_text(&ce)
		h.ExprTypeID = uint32(n.typeId)
		h.NoteID = int32(n.noteId)
		h.Text = hostText(n.text, int(n.textLen))
	case midi.HostChord:
		n := C.event_chord(&ce)
		h.Root = int16(n.root)
		h.BassNote = int16(n.bassNote)
		h.Mask = int16(n.mask)
		h.Text = hostText(n.text, int(n.textLen))
	case midi.HostScale:
		n := C.event_scale(&ce)
		h.Root = int16(n.root)
		h.Mask = int16(n.mask)
		h.Text = hostText(n.text, int(n.textLen))
	case midi.HostLegacyMIDICCOut:
		n := C.event_legacy_cc(&ce)
		h.ControlNumber = uint8(n.controlNumber)
		h.Channel = int16(n.channel)
		h.CcValue = int8(n.value)
		h.CcValue2 = int8(n.value2)
	}
	return h, true
}

// hostText views a host UTF-16 string. Like SysEx payloads it must be
// copied before the call returns to the host.
func hostText(p *C.Steinberg_char16, n int) []uint16 {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(p)), n)
}

// AddOutputEvent appends a translated event to the host output list.
func (d ProcessData) AddOutputEvent(h midi.HostEvent) bool {
	if d.ptr.outputEvents == nil {
		return false
	}
	var ce C.struct_Steinberg_Vst_Event
	ce.busIndex = C.Steinberg_int32(h.BusIndex)
	ce.sampleOffset = C.Steinberg_int32(h.SampleOffset)
	ce.ppqPosition = C.double(h.PpqPosition)
	ce.flags = C.uint16_t(h.Flags)
	ce._type = C.uint16_t(h.Type)
	switch h.Type {
	case midi.HostNoteOn:
		C.event_set_note_on(&ce, C.struct_Steinberg_Vst_NoteOnEvent{
			channel:  C.Steinberg_int16(h.Channel),
			pitch:    C.Steinberg_int16(h.Pitch),
			tuning:   C.float(h.Tuning),
			velocity: C.float(h.Velocity),
			length:   C.Steinberg_int32(h.Length),
			noteId:   C.Steinberg_int32(h.NoteID),
		})
	case midi.HostNoteOff:
		C.event_set_note_off(&ce, C.struct_Steinberg_Vst_NoteOffEvent{
			channel:  C.Steinberg_int16(h.Channel),
			pitch:    C.Steinberg_int16(h.Pitch),
			velocity: C.float(h.Velocity),
			noteId:   C.Steinberg_int32(h.NoteID),
			tuning:   C.float(h.Tuning),
		})
	case midi.HostNoteExprValue:
		C.event_set_note_expr(&ce, C.struct_Steinberg_Vst_NoteExpressionValueEvent{
			typeId: C.Steinberg_uint32(h.ExprTypeID),
			noteId: C.Steinberg_int32(h.NoteID),
			value:  C.double(h.ExprValue),
		})
	case midi.HostData:
		if len(h.Data) == 0 {
			return false
		}
		C.event_set_data(&ce, (*C.uint8_t)(unsafe.Pointer(&h.Data[0])), C.Steinberg_uint32(len(h.Data)))
	case midi.HostLegacyMIDICCOut:
		C.event_set_legacy_cc(&ce, C.struct_Steinberg_Vst_LegacyMIDICCOutEvent{
			controlNumber: C.uint8_t(h.ControlNumber),
			channel:       C.int8_t(h.Channel),
			value:         C.int8_t(h.CcValue),
			value2:        C.int8_t(h.CcValue2),
		})
	default:
		return false
	}
	return C.events_add(d.ptr.outputEvents, &ce) == C.Steinberg_kResultOk
}
