package plugin

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include "vst3/abi.h"
*/
import "C"

import (
	"errors"
	"unsafe"

	"go.uber.org/zap"

	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
	"github.com/beamer-audio/beamer-go/pkg/framework/hostlog"
	"github.com/beamer-audio/beamer-go/pkg/framework/render"
	"github.com/beamer-audio/beamer-go/pkg/midi"
	"github.com/beamer-audio/beamer-go/pkg/vst3"
)

//export GoSetBusArrangements
func GoSetBusArrangements(id C.uintptr_t, inputs *C.Steinberg_Vst_SpeakerArrangement, numIns C.int32_t, outputs *C.Steinberg_Vst_SpeakerArrangement, numOuts C.int32_t) C.Steinberg_tresult {
	defer recoverPanic("GoSetBusArrangements")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	cfg := w.inst.Buses().Snapshot()
	if int(numIns) != len(cfg.InputBuses) || int(numOuts) != len(cfg.OutputBuses) {
		return vst3.ResultFalse
	}
	if numIns > 0 {
		ins := unsafe.Slice((*uint64)(unsafe.Pointer(inputs)), int(numIns))
		for i, want := range cfg.InputBuses {
			if vst3.ArrangementChannels(ins[i]) != want {
				return vst3.ResultFalse
			}
		}
	}
	if numOuts > 0 {
		outs := unsafe.Slice((*uint64)(unsafe.Pointer(outputs)), int(numOuts))
		for i, want := range cfg.OutputBuses {
			if vst3.ArrangementChannels(outs[i]) != want {
				return vst3.ResultFalse
			}
		}
	}
	return vst3.ResultOk
}

//export GoGetBusArrangement
func GoGetBusArrangement(id C.uintptr_t, dir, index C.int32_t, arr *C.Steinberg_Vst_SpeakerArrangement) C.Steinberg_tresult {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	b := busByIndex(w, dir, index)
	if b == nil {
		return vst3.ResultInvalidArg
	}
	*arr = C.Steinberg_Vst_SpeakerArrangement(vst3.ArrangementFor(int(b.ChannelCount)))
	return vst3.ResultOk
}

//export GoCanProcessSampleSize
func GoCanProcessSampleSize(id C.uintptr_t, symbolicSampleSize C.int32_t) C.Steinberg_tresult {
	// 64-bit hosts are served through the conversion path when the
	// processor itself is 32-bit only.
	if symbolicSampleSize == vst3.Sample32 || symbolicSampleSize == vst3.Sample64 {
		return vst3.ResultOk
	}
	return vst3.ResultFalse
}

//export GoGetLatencySamples
func GoGetLatencySamples(id C.uintptr_t) C.uint32_t {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return 0
	}
	return C.uint32_t(w.inst.LatencySamples())
}

//export GoGetTailSamples
func GoGetTailSamples(id C.uintptr_t) C.uint32_t {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return 0
	}
	return C.uint32_t(w.inst.TailSamples())
}

//export GoSetupProcessing
func GoSetupProcessing(id C.uintptr_t, setup *C.struct_Steinberg_Vst_ProcessSetup) C.Steinberg_tresult {
	defer recoverPanic("GoSetupProcessing")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	w.double = setup.symbolicSampleSize == vst3.Sample64
	if err := w.inst.Prepare(float64(setup.sampleRate), int(setup.maxSamplesPerBlock)); err != nil {
		hostlog.L().Error("setup processing failed", zap.Error(err))
		return vst3.ResultFalse
	}
	w.layout = w.inst.Buses().Snapshot()
	return vst3.ResultOk
}

//export GoSetProcessing
func GoSetProcessing(id C.uintptr_t, state C.int16_t) C.Steinberg_tresult {
	if lookupComponent(uintptr(id)) == nil {
		return vst3.ResultFalse
	}
	return vst3.ResultOk
}

//export GoProcess
func GoProcess(id C.uintptr_t, data *C.struct_Steinberg_Vst_ProcessData) C.Steinberg_tresult {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	eng := w.inst.Engine()
	if eng == nil {
		return vst3.ResultFalse
	}
	d := vst3.WrapProcessData(unsafe.Pointer(data))

	w.changes = w.changes[:0]
	for i, n := 0, d.ParamQueues(); i < n; i++ {
		pid, value, frame, ok := d.ParamQueue(i)
		if !ok {
			continue
		}
		if len(w.changes) == cap(w.changes) {
			break
		}
		w.changes = append(w.changes, render.ParamChange{ID: pid, Value: value, Frame: frame})
	}

	frames := d.Frames()
	if frames == 0 {
		// Parameter flush call: apply changes, render nothing.
		w.block = render.HostBlock{ParamChanges: w.changes, Events: eng.Events()}
		_ = w.inst.Process(&w.block)
		return vst3.ResultOk
	}

	for i, n := 0, d.EventCount(); i < n; i++ {
		if h, ok := d.Event(i); ok {
			eng.AddHostEvent(h)
		}
	}

	w.block = render.HostBlock{
		Frames:       frames,
		Transport:    d.Transport(),
		Events:       eng.Events(),
		ParamChanges: w.changes,
	}
	if d.SampleSize() == vst3.Sample64 {
		if d.NumInputs() > 0 {
			w.in64 = d.InputChannels64(0, w.in64)
			w.block.In64 = w.in64
		}
		if d.NumOutputs() > 0 {
			w.out64 = d.OutputChannels64(0, w.out64)
			w.block.Out64 = w.out64
		}
		for b := 1; b < d.NumInputs() && b-1 < len(w.aux64); b++ {
			w.aux64[b-1] = d.InputChannels64(b, w.aux64[b-1])
		}
		w.block.AuxIn64 = w.aux64
		for b := 1; b < d.NumOutputs() && b-1 < len(w.auxOut64); b++ {
			w.auxOut64[b-1] = d.OutputChannels64(b, w.auxOut64[b-1])
		}
		w.block.AuxOut64 = w.auxOut64
	} else {
		if d.NumInputs() > 0 {
			w.in = d.InputChannels32(0, w.in)
			w.block.In = w.in
		}
		if d.NumOutputs() > 0 {
			w.out = d.OutputChannels32(0, w.out)
			w.block.Out = w.out
		}
		for b := 1; b < d.NumInputs() && b-1 < len(w.aux); b++ {
			w.aux[b-1] = d.InputChannels32(b, w.aux[b-1])
		}
		w.block.AuxIn = w.aux
		for b := 1; b < d.NumOutputs() && b-1 < len(w.auxOut); b++ {
			w.auxOut[b-1] = d.OutputChannels32(b, w.auxOut[b-1])
		}
		w.block.AuxOut = w.auxOut
	}

	err := w.inst.Process(&w.block)

	out := eng.MidiOut()
	for i, n := 0, out.Len(); i < n; i++ {
		if h, ok := midi.ToHost(*out.At(i)); ok {
			d.AddOutputEvent(h)
		}
	}
	out.Clear()

	w.flushReadonly(d)

	if err != nil {
		if errors.Is(err, fwerr.ErrInvalidState) {
			silenceBlock(&w.block)
			return vst3.ResultFalse
		}
		// Recoverable: silence was already written.
		return vst3.ResultOk
	}
	return vst3.ResultOk
}

func silenceBlock(b *render.HostBlock) {
	for _, ch := range b.Out {
		for i := range ch {
			ch[i] = 0
		}
	}
	for _, ch := range b.Out64 {
		for i := range ch {
			ch[i] = 0
		}
	}
	for _, bus := range b.AuxOut {
		for _, ch := range bus {
			for i := range ch {
				ch[i] = 0
			}
		}
	}
	for _, bus := range b.AuxOut64 {
		for _, ch := range bus {
			for i := range ch {
				ch[i] = 0
			}
		}
	}
}
