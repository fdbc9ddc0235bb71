package plugin

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include <string.h>
#include "vst3/abi.h"
*/
import "C"

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/beamer-audio/beamer-go/pkg/framework/bus"
	"github.com/beamer-audio/beamer-go/pkg/framework/hostlog"
	"github.com/beamer-audio/beamer-go/pkg/vst3"
)

// recoverPanic keeps author code from unwinding into the host. The
// panic is logged off the failing path; the callback reports failure
// through its normal return value.
func recoverPanic(where string) {
	if r := recover(); r != nil {
		hostlog.L().Error("panic crossed bridge boundary",
			zap.String("callback", where),
			zap.Any("panic", r))
	}
}

//export GoGetFactoryInfo
func GoGetFactoryInfo(info *C.struct_Steinberg_PFactoryInfo) {
	defer recoverPanic("GoGetFactoryInfo")
	_, pi, ok := registered()
	if !ok {
		return
	}
	vst3.PutASCII(unsafe.Pointer(&info.vendor[0]), len(info.vendor), pi.Vendor)
	vst3.PutASCII(unsafe.Pointer(&info.url[0]), len(info.url), pi.URL)
	vst3.PutASCII(unsafe.Pointer(&info.email[0]), len(info.email), pi.Email)
	info.flags = C.Steinberg_PFactoryInfo_FactoryFlags_kUnicode
}

//export GoCountClasses
func GoCountClasses() C.int32_t {
	_, _, ok := registered()
	if !ok {
		return 0
	}
	return 1
}

//export GoGetClassInfo
func GoGetClassInfo(index C.int32_t, info *C.struct_Steinberg_PClassInfo) {
	defer recoverPanic("GoGetClassInfo")
	_, pi, ok := registered()
	if !ok || index != 0 {
		return
	}
	uid := registry.uid
	C.memcpy(unsafe.Pointer(&info.cid[0]), unsafe.Pointer(&uid[0]), 16)
	info.cardinality = C.Steinberg_PClassInfo_ClassCardinality_kManyInstances
	vst3.PutASCII(unsafe.Pointer(&info.category[0]), len(info.category), "Audio Module Class")
	vst3.PutASCII(unsafe.Pointer(&info.name[0]), len(info.name), pi.Name)
}

//export GoCreateComponent
func GoCreateComponent(cid *C.char) C.uintptr_t {
	defer recoverPanic("GoCreateComponent")
	_, _, ok := registered()
	if !ok {
		return 0
	}
	req := C.GoBytes(unsafe.Pointer(cid), 16)
	uid := registry.uid
	for i := 0; i < 16; i++ {
		if req[i] != uid[i] {
			return 0
		}
	}
	w, err := newComponentWrapper()
	if err != nil {
		hostlog.L().Error("component creation failed", zap.Error(err))
		return 0
	}
	id := trackComponent(w)
	hostlog.L().Info("component created", zap.Uintptr("component", id))
	return C.uintptr_t(id)
}

//export GoReleaseComponent
func GoReleaseComponent(id C.uintptr_t) {
	defer recoverPanic("GoReleaseComponent")
	w := dropComponent(uintptr(id))
	if w == nil {
		return
	}
	w.inst.Terminate()
	w.release()
	hostlog.L().Info("component released", zap.Uintptr("component", uintptr(id)))
}

//export GoComponentInitialize
func GoComponentInitialize(id C.uintptr_t) C.Steinberg_tresult {
	if lookupComponent(uintptr(id)) == nil {
		return vst3.ResultFalse
	}
	return vst3.ResultOk
}

//export GoComponentTerminate
func GoComponentTerminate(id C.uintptr_t) C.Steinberg_tresult {
	defer recoverPanic("GoComponentTerminate")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	w.inst.Unprepare()
	w.release()
	return vst3.ResultOk
}

func busByIndex(w *componentWrapper, dir C.int32_t, index C.int32_t) *bus.Info {
	d := bus.DirectionInput
	if dir == vst3.DirOutput {
		d = bus.DirectionOutput
	}
	return w.inst.Buses().ByIndex(d, int32(index))
}

//export GoGetBusCount
func GoGetBusCount(id C.uintptr_t, mediaType, dir C.int32_t) C.int32_t {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return 0
	}
	switch mediaType {
	case vst3.MediaAudio:
		d := bus.DirectionInput
		if dir == vst3.DirOutput {
			d = bus.DirectionOutput
		}
		return C.int32_t(w.inst.Buses().Count(d))
	case vst3.MediaEvent:
		// One event bus each way: MIDI in, translated MIDI out.
		return 1
	}
	return 0
}

//export GoGetBusInfo
func GoGetBusInfo(id C.uintptr_t, mediaType, dir, index C.int32_t, info *C.struct_Steinberg_Vst_BusInfo) C.Steinberg_tresult {
	defer recoverPanic("GoGetBusInfo")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	info.mediaType = C.Steinberg_Vst_MediaType(mediaType)
	info.direction = C.Steinberg_Vst_BusDirection(dir)
	switch mediaType {
	case vst3.MediaAudio:
		b := busByIndex(w, dir, index)
		if b == nil {
			return vst3.ResultInvalidArg
		}
		info.channelCount = C.Steinberg_int32(b.ChannelCount)
		vst3.PutString128(unsafe.Pointer(&info.name[0]), b.Name)
		if b.BusType == bus.TypeMain {
			info.busType = vst3.BusMain
		} else {
			info.busType = vst3.BusAux
		}
		info.flags = vst3.BusFlagDefaultActive
		return vst3.ResultOk
	case vst3.MediaEvent:
		if index != 0 {
			return vst3.ResultInvalidArg
		}
		info.channelCount = 16
		if dir == vst3.DirInput {
			vst3.PutString128(unsafe.Pointer(&info.name[0]), "Event In")
		} else {
			vst3.PutString128(unsafe.Pointer(&info.name[0]), "Event Out")
		}
		info.busType = vst3.BusMain
		info.flags = vst3.BusFlagDefaultActive
		return vst3.ResultOk
	}
	return vst3.ResultInvalidArg
}

//export GoActivateBus
func GoActivateBus(id C.uintptr_t, mediaType, dir, index C.int32_t, state C.int16_t) C.Steinberg_tresult {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	if mediaType == vst3.MediaEvent {
		return vst3.ResultOk
	}
	d := bus.DirectionInput
	if dir == vst3.DirOutput {
		d = bus.DirectionOutput
	}
	if !w.inst.Buses().Activate(d, int32(index), state != 0) {
		return vst3.ResultInvalidArg
	}
	return vst3.ResultOk
}

//export GoSetActive
func GoSetActive(id C.uintptr_t, state C.int16_t) C.Steinberg_tresult {
	defer recoverPanic("GoSetActive")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	w.inst.SetActive(state != 0)
	return vst3.ResultOk
}

//export GoComponentSetState
func GoComponentSetState(id C.uintptr_t, stream *C.struct_Steinberg_IBStream) C.Steinberg_tresult {
	defer recoverPanic("GoComponentSetState")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	s := vst3.NewStream(unsafe.Pointer(stream))
	if s == nil {
		return vst3.ResultInvalidArg
	}
	data, err := s.ReadAll()
	if err != nil {
		return vst3.ResultFalse
	}
	if err := w.inst.SetStateData(data); err != nil {
		return vst3.ResultFalse
	}
	// Loaded values arrived outside the host's own edit path, so ask it
	// to re-read them.
	w.handler.Restart(vst3.RestartParamValuesChanged)
	return vst3.ResultOk
}

//export GoComponentGetState
func GoComponentGetState(id C.uintptr_t, stream *C.struct_Steinberg_IBStream) C.Steinberg_tresult {
	defer recoverPanic("GoComponentGetState")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	s := vst3.NewStream(unsafe.Pointer(stream))
	if s == nil {
		return vst3.ResultInvalidArg
	}
	data, err := w.inst.StateData()
	if err != nil {
		return vst3.ResultFalse
	}
	if err := s.WriteAll(data); err != nil {
		return vst3.ResultFalse
	}
	return vst3.ResultOk
}
