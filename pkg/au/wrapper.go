package au

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include <string.h>
#include "au/bridge.h"
*/
import "C"

import (
	"errors"
	"unsafe"

	"go.uber.org/zap"

	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
	"github.com/beamer-audio/beamer-go/pkg/framework/hostlog"
	"github.com/beamer-audio/beamer-go/pkg/framework/param"
	"github.com/beamer-audio/beamer-go/pkg/framework/process"
	"github.com/beamer-audio/beamer-go/pkg/framework/render"
)

//export BeamerAUCreate
func BeamerAUCreate() C.uintptr_t {
	w, err := newAUWrapper()
	if err != nil {
		hostlog.L().Error("audio unit creation failed", zap.Error(err))
		return 0
	}
	id := trackInstance(w)
	hostlog.L().Info("audio unit created", zap.Uintptr("instance", id))
	return C.uintptr_t(id)
}

//export BeamerAUDestroy
func BeamerAUDestroy(id C.uintptr_t) {
	w := dropInstance(uintptr(id))
	if w == nil {
		return
	}
	w.inst.Terminate()
	hostlog.L().Info("audio unit destroyed", zap.Uintptr("instance", uintptr(id)))
}

//export BeamerAUAllocateRenderResources
func BeamerAUAllocateRenderResources(id C.uintptr_t, sampleRate C.double, maxFrames C.int32_t) C.int32_t {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return 1
	}
	if err := w.inst.Prepare(float64(sampleRate), int(maxFrames)); err != nil {
		hostlog.L().Error("allocate render resources failed", zap.Error(err))
		return 1
	}
	w.layout = w.inst.Buses().Snapshot()
	w.inst.SetActive(true)
	return 0
}

//export BeamerAUDeallocateRenderResources
func BeamerAUDeallocateRenderResources(id C.uintptr_t) {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return
	}
	w.inst.SetActive(false)
	w.inst.Unprepare()
}

//export BeamerAUScheduleParameter
func BeamerAUScheduleParameter(id C.uintptr_t, address C.uint32_t, value C.double, frame C.int32_t) {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return
	}
	p := w.inst.Params().ByID(uint32(address))
	if p == nil {
		return
	}
	if len(w.changes) == cap(w.changes) {
		return
	}
	// AU parameter events carry plain values.
	w.changes = append(w.changes, render.ParamChange{
		ID:    uint32(address),
		Value: p.ToNormalized(float64(value)),
		Frame: int32(frame),
	})
}

//export BeamerAUAddUMP
func BeamerAUAddUMP(id C.uintptr_t, word C.uint32_t, frame C.int32_t) {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return
	}
	eng := w.inst.Engine()
	if eng == nil {
		return
	}
	eng.AddUMPWord(uint32(word), int32(frame))
}

//export BeamerAUAddRawMIDI
func BeamerAUAddRawMIDI(id C.uintptr_t, bytes *C.uint8_t, length, frame C.int32_t) {
	w := lookupInstance(uintptr(id))
	if w == nil || bytes == nil || length <= 0 {
		return
	}
	eng := w.inst.Engine()
	if eng == nil {
		return
	}
	eng.AddRawMIDI(unsafe.Slice((*byte)(bytes), int(length)), int32(frame))
}

//export BeamerAURender
func BeamerAURender(id C.uintptr_t, ctx *C.BeamerAURenderContext) C.int32_t {
	w := lookupInstance(uintptr(id))
	if w == nil || ctx == nil {
		return 1
	}
	eng := w.inst.Engine()
	if eng == nil {
		return 1
	}

	frames := int(ctx.frames)
	w.in = w.in[:0]
	w.out = w.out[:0]
	if ctx.in != nil && ctx.inChannels > 0 {
		chans := unsafe.Slice(ctx.in, int(ctx.inChannels))
		for _, p := range chans {
			w.in = append(w.in, unsafe.Slice((*float32)(unsafe.Pointer(p)), frames))
		}
	}
	if ctx.out != nil && ctx.outChannels > 0 {
		chans := unsafe.Slice(ctx.out, int(ctx.outChannels))
		for _, p := range chans {
			w.out = append(w.out, unsafe.Slice((*float32)(unsafe.Pointer(p)), frames))
		}
	}

	w.block = render.HostBlock{
		In:           w.in,
		Out:          w.out,
		Frames:       frames,
		Transport:    decodeTransport(ctx),
		Events:       eng.Events(),
		ParamChanges: w.changes,
	}

	err := w.inst.Process(&w.block)
	w.changes = w.changes[:0]

	// Effect units have no MIDI output path; anything the plugin
	// emitted is dropped, once with a warning.
	out := eng.MidiOut()
	if out.Len() > 0 {
		w.midiOutDropped.Trip()
		out.Clear()
	}

	if err != nil {
		if errors.Is(err, fwerr.ErrInvalidState) {
			for _, ch := range w.out {
				for i := range ch {
					ch[i] = 0
				}
			}
		}
		return 1
	}
	return 0
}

func decodeTransport(ctx *C.BeamerAURenderContext) process.Transport {
	var t process.Transport
	valid := uint32(ctx.transportValid)
	if valid&C.BeamerAUTransportPlaying != 0 {
		t.Playing = ctx.playing != 0
	}
	if valid&C.BeamerAUTransportSamplePos != 0 {
		t.SamplePos = int64(ctx.samplePos)
	}
	if valid&C.BeamerAUTransportTempo != 0 {
		t.Tempo = process.Some(float64(ctx.tempo))
	}
	if valid&C.BeamerAUTransportBeatPos != 0 {
		t.PpqPos = process.Some(float64(ctx.beatPos))
	}
	if valid&C.BeamerAUTransportBarStart != 0 {
		t.BarStartPpq = process.Some(float64(ctx.barStart))
	}
	if valid&C.BeamerAUTransportTimeSig != 0 {
		t.TimeSigNum = process.Some(int32(ctx.timeSigNum))
		t.TimeSigDenom = process.Some(int32(ctx.timeSigDenom))
	}
	if valid&C.BeamerAUTransportNextBeat != 0 {
		t.SamplesToNextBeat = process.Some(int32(ctx.samplesToNextBeat))
	}
	return t
}

//export BeamerAUParameterCount
func BeamerAUParameterCount(id C.uintptr_t) C.int32_t {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return 0
	}
	return C.int32_t(w.inst.Params().Count())
}

//export BeamerAUParameterInfo
func BeamerAUParameterInfo(id C.uintptr_t, index C.int32_t, out *C.BeamerAUParamInfo) C.int32_t {
	w := lookupInstance(uintptr(id))
	if w == nil || out == nil {
		return 1
	}
	p := w.inst.Params().ByIndex(int(index))
	if p == nil {
		return 1
	}
	info := p.Info()
	out.address = C.uint32_t(info.ID)
	putCString(unsafe.Pointer(&out.identifier[0]), len(out.identifier), info.Key)
	putCString(unsafe.Pointer(&out.name[0]), len(out.name), info.Name)
	putCString(unsafe.Pointer(&out.unitName[0]), len(out.unitName), info.Units)
	out.min = C.float(p.ToPlain(0))
	out.max = C.float(p.ToPlain(1))
	out.def = C.float(p.ToPlain(info.DefaultNormalized))
	out.stepCount = C.int32_t(info.StepCount)
	var flags C.int32_t
	if info.Flags&param.IsReadOnly == 0 {
		flags |= C.BeamerAUParamWritable
	}
	if info.Hidden() {
		flags |= C.BeamerAUParamHidden
	}
	if info.StepCount > 0 {
		flags |= C.BeamerAUParamDiscrete
	}
	out.flags = flags
	out.groupID = C.int32_t(info.GroupID)
	if g, ok := w.inst.Params().Groups().ByID(info.GroupID); ok {
		putCString(unsafe.Pointer(&out.groupName[0]), len(out.groupName), g.Name)
	} else {
		putCString(unsafe.Pointer(&out.groupName[0]), len(out.groupName), "")
	}
	return 0
}

//export BeamerAUGetParameter
func BeamerAUGetParameter(id C.uintptr_t, address C.uint32_t) C.double {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return 0
	}
	p := w.inst.Params().ByID(uint32(address))
	if p == nil {
		return 0
	}
	return C.double(p.ToPlain(p.Normalized()))
}

//export BeamerAUSetParameter
func BeamerAUSetParameter(id C.uintptr_t, address C.uint32_t, value C.double) {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return
	}
	p := w.inst.Params().ByID(uint32(address))
	if p == nil {
		return
	}
	p.SetNormalized(p.ToNormalized(float64(value)))
}

//export BeamerAUFormatParameter
func BeamerAUFormatParameter(id C.uintptr_t, address C.uint32_t, value C.double, buf *C.char, bufCap C.int32_t) C.int32_t {
	w := lookupInstance(uintptr(id))
	if w == nil || buf == nil || bufCap <= 0 {
		return 0
	}
	p := w.inst.Params().ByID(uint32(address))
	if p == nil {
		return 0
	}
	s := p.Format(p.ToNormalized(float64(value)))
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(bufCap))
	n := copy(dst, s)
	return C.int32_t(n)
}

//export BeamerAUCopyState
func BeamerAUCopyState(id C.uintptr_t, buf *C.uint8_t, bufCap C.int32_t) C.int32_t {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return 0
	}
	data, err := w.inst.StateData()
	if err != nil {
		hostlog.L().Warn("state save failed", zap.Error(err))
		return 0
	}
	if buf == nil || int(bufCap) < len(data) {
		return C.int32_t(-len(data))
	}
	dst := unsafe.Slice((*byte)(buf), int(bufCap))
	return C.int32_t(copy(dst, data))
}

//export BeamerAULoadState
func BeamerAULoadState(id C.uintptr_t, data *C.uint8_t, length C.int32_t) C.int32_t {
	w := lookupInstance(uintptr(id))
	if w == nil || length < 0 {
		return 1
	}
	var payload []byte
	if data != nil && length > 0 {
		payload = unsafe.Slice((*byte)(data), int(length))
	}
	if err := w.inst.SetStateData(payload); err != nil {
		return 1
	}
	return 0
}

//export BeamerAULatencySamples
func BeamerAULatencySamples(id C.uintptr_t) C.uint32_t {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return 0
	}
	return C.uint32_t(w.inst.LatencySamples())
}

//export BeamerAUTailSamples
func BeamerAUTailSamples(id C.uintptr_t) C.uint32_t {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return 0
	}
	return C.uint32_t(w.inst.TailSamples())
}

//export BeamerAUChannelCounts
func BeamerAUChannelCounts(id C.uintptr_t, inChannels, outChannels *C.int32_t) C.int32_t {
	w := lookupInstance(uintptr(id))
	if w == nil {
		return 1
	}
	lay := w.inst.Buses().Snapshot().Layout()
	if inChannels != nil {
		*inChannels = C.int32_t(lay.MainInputs)
	}
	if outChannels != nil {
		*outChannels = C.int32_t(lay.MainOutputs)
	}
	return 0
}

// DrainWarnings logs any latched render-thread warnings. Hosts with no
// natural idle hook can call it from deallocateRenderResources.
func DrainWarnings(id uintptr) {
	w := lookupInstance(id)
	if w == nil {
		return
	}
	w.midiOutDropped.Drain("effect unit has no MIDI output; emitted events dropped")
	if eng := w.inst.Engine(); eng != nil {
		eng.DrainWarnings()
	}
}

// putCString writes s into a fixed char field, truncating and always
// terminating.
func putCString(dst unsafe.Pointer, size int, s string) {
	buf := unsafe.Slice((*byte)(dst), size)
	n := copy(buf[:size-1], s)
	buf[n] = 0
}
