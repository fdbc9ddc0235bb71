package plugin

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include "vst3/abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/beamer-audio/beamer-go/pkg/framework/param"
	"github.com/beamer-audio/beamer-go/pkg/midi"
	"github.com/beamer-audio/beamer-go/pkg/vst3"
)

//export GoGetParameterCount
func GoGetParameterCount(id C.uintptr_t) C.int32_t {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return 0
	}
	return C.int32_t(w.inst.Params().Count())
}

func paramFlags(info *param.Info) C.Steinberg_int32 {
	var f C.Steinberg_int32
	if info.Automatable() {
		f |= C.Steinberg_Vst_ParameterInfo_ParameterFlags_kCanAutomate
	}
	if info.Flags&param.IsReadOnly != 0 {
		f |= C.Steinberg_Vst_ParameterInfo_ParameterFlags_kIsReadOnly
	}
	if info.Flags&param.IsList != 0 {
		f |= C.Steinberg_Vst_ParameterInfo_ParameterFlags_kIsList
	}
	if info.Hidden() {
		f |= C.Steinberg_Vst_ParameterInfo_ParameterFlags_kIsHidden
	}
	if info.Flags&param.IsBypass != 0 {
		f |= C.Steinberg_Vst_ParameterInfo_ParameterFlags_kIsBypass
	}
	return f
}

//export GoGetParameterInfo
func GoGetParameterInfo(id C.uintptr_t, index C.int32_t, out *C.struct_Steinberg_Vst_ParameterInfo) C.Steinberg_tresult {
	defer recoverPanic("GoGetParameterInfo")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	p := w.inst.Params().ByIndex(int(index))
	if p == nil {
		return vst3.ResultInvalidArg
	}
	info := p.Info()
	out.id = C.Steinberg_Vst_ParamID(info.ID)
	vst3.PutString128(unsafe.Pointer(&out.title[0]), info.Name)
	short := info.ShortName
	if short == "" {
		short = info.Name
	}
	vst3.PutString128(unsafe.Pointer(&out.shortTitle[0]), short)
	vst3.PutString128(unsafe.Pointer(&out.units[0]), info.Units)
	out.stepCount = C.Steinberg_int32(info.StepCount)
	out.defaultNormalizedValue = C.Steinberg_Vst_ParamValue(info.DefaultNormalized)
	out.unitId = C.Steinberg_Vst_UnitID(info.GroupID)
	out.flags = paramFlags(info)
	return vst3.ResultOk
}

//export GoGetParamStringByValue
func GoGetParamStringByValue(id C.uintptr_t, paramID C.uint32_t, value C.double, out *C.Steinberg_Vst_TChar) C.Steinberg_tresult {
	defer recoverPanic("GoGetParamStringByValue")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	p := w.inst.Params().ByID(uint32(paramID))
	if p == nil {
		return vst3.ResultInvalidArg
	}
	vst3.PutString128(unsafe.Pointer(out), p.Format(float64(value)))
	return vst3.ResultOk
}

//export GoGetParamValueByString
func GoGetParamValueByString(id C.uintptr_t, paramID C.uint32_t, in *C.Steinberg_Vst_TChar, value *C.double) C.Steinberg_tresult {
	defer recoverPanic("GoGetParamValueByString")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	p := w.inst.Params().ByID(uint32(paramID))
	if p == nil {
		return vst3.ResultInvalidArg
	}
	n, err := p.Parse(vst3.GetString128(unsafe.Pointer(in)))
	if err != nil {
		return vst3.ResultFalse
	}
	*value = C.double(n)
	return vst3.ResultOk
}

//export GoNormalizedParamToPlain
func GoNormalizedParamToPlain(id C.uintptr_t, paramID C.uint32_t, value C.double) C.double {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return value
	}
	p := w.inst.Params().ByID(uint32(paramID))
	if p == nil {
		return value
	}
	return C.double(p.ToPlain(float64(value)))
}

//export GoPlainParamToNormalized
func GoPlainParamToNormalized(id C.uintptr_t, paramID C.uint32_t, plain C.double) C.double {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return plain
	}
	p := w.inst.Params().ByID(uint32(paramID))
	if p == nil {
		return plain
	}
	return C.double(p.ToNormalized(float64(plain)))
}

//export GoGetParamNormalized
func GoGetParamNormalized(id C.uintptr_t, paramID C.uint32_t) C.double {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return 0
	}
	v, ok := w.inst.Params().GetNormalized(uint32(paramID))
	if !ok {
		return 0
	}
	return C.double(v)
}

//export GoSetParamNormalized
func GoSetParamNormalized(id C.uintptr_t, paramID C.uint32_t, value C.double) C.Steinberg_tresult {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	if !w.inst.Params().SetNormalized(uint32(paramID), float64(value)) {
		return vst3.ResultInvalidArg
	}
	return vst3.ResultOk
}

//export GoSetComponentHandler
func GoSetComponentHandler(id C.uintptr_t, handler *C.struct_Steinberg_Vst_IComponentHandler) C.Steinberg_tresult {
	defer recoverPanic("GoSetComponentHandler")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	w.handler.Release()
	w.handler = vst3.NewHandler(unsafe.Pointer(handler))
	return vst3.ResultOk
}

// VST3 midi mapping controller numbers beyond the 0..127 CC range.
const (
	ctrlAfterTouch = 128
	ctrlPitchBend  = 129
)

//export GoGetMidiControllerAssignment
func GoGetMidiControllerAssignment(id C.uintptr_t, busIndex C.int32_t, channel, ccNumber C.int16_t, paramID *C.uint32_t) C.Steinberg_tresult {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	bridge := w.inst.Bridge()
	if bridge == nil || busIndex != 0 {
		return vst3.ResultFalse
	}
	slot := int(ccNumber)
	switch ccNumber {
	case ctrlAfterTouch:
		slot = midi.CcSlotChannelPressure
	case ctrlPitchBend:
		slot = midi.CcSlotPitchBend
	}
	if slot < 0 || slot >= midi.CcSlotCount {
		return vst3.ResultFalse
	}
	pid := midi.CcParamID(int(channel), slot)
	if !bridge.Owns(pid) {
		return vst3.ResultFalse
	}
	*paramID = C.uint32_t(pid)
	return vst3.ResultOk
}

//export GoGetUnitCount
func GoGetUnitCount(id C.uintptr_t) C.int32_t {
	w := lookupComponent(uintptr(id))
	if w == nil {
		return 0
	}
	return C.int32_t(w.inst.Params().GroupCount())
}

//export GoGetUnitInfo
func GoGetUnitInfo(id C.uintptr_t, index C.int32_t, out *C.struct_Steinberg_Vst_UnitInfo) C.Steinberg_tresult {
	defer recoverPanic("GoGetUnitInfo")
	w := lookupComponent(uintptr(id))
	if w == nil {
		return vst3.ResultFalse
	}
	g, ok := w.inst.Params().GroupByIndex(int(index))
	if !ok {
		return vst3.ResultInvalidArg
	}
	out.id = C.Steinberg_Vst_UnitID(g.ID)
	if g.ID == param.RootGroupID {
		// The ABI marks the root's parent as "none", not itself.
		out.parentUnitId = -1
	} else {
		out.parentUnitId = C.Steinberg_Vst_UnitID(g.ParentID)
	}
	vst3.PutString128(unsafe.Pointer(&out.name[0]), g.Name)
	out.programListId = -1
	return vst3.ResultOk
}
