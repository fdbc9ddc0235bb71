package vst3

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include "vst3/abi.h"

static Steinberg_tresult handler_begin_edit(struct Steinberg_Vst_IComponentHandler* h, Steinberg_Vst_ParamID id) {
	return h->lpVtbl->beginEdit(h, id);
}

static Steinberg_tresult handler_perform_edit(struct Steinberg_Vst_IComponentHandler* h, Steinberg_Vst_ParamID id, Steinberg_Vst_ParamValue value) {
	return h->lpVtbl->performEdit(h, id, value);
}

static Steinberg_tresult handler_end_edit(struct Steinberg_Vst_IComponentHandler* h, Steinberg_Vst_ParamID id) {
	return h->lpVtbl->endEdit(h, id);
}

static Steinberg_tresult handler_restart(struct Steinberg_Vst_IComponentHandler* h, Steinberg_int32 flags) {
	return h->lpVtbl->restartComponent(h, flags);
}

static Steinberg_uint32 handler_add_ref(struct Steinberg_Vst_IComponentHandler* h) {
	return h->lpVtbl->addRef(h);
}

static Steinberg_uint32 handler_release(struct Steinberg_Vst_IComponentHandler* h) {
	return h->lpVtbl->release(h);
}
*/
import "C"

import "unsafe"

// Handler forwards parameter edit gestures back to the host.
type Handler struct {
	ptr *C.struct_Steinberg_Vst_IComponentHandler
}

// NewHandler retains a host component handler. Release must be called
// when the handler is replaced or the component terminates.
func NewHandler(ptr unsafe.Pointer) *Handler {
	if ptr == nil {
		return nil
	}
	h := &Handler{ptr: (*C.struct_Steinberg_Vst_IComponentHandler)(ptr)}
	C.handler_add_ref(h.ptr)
	return h
}

// Release drops the retained reference.
func (h *Handler) Release() {
	if h == nil || h.ptr == nil {
		return
	}
	C.handler_release(h.ptr)
	h.ptr = nil
}

// BeginEdit starts an automation gesture for a parameter.
func (h *Handler) BeginEdit(id uint32) {
	if h == nil || h.ptr == nil {
		return
	}
	C.handler_begin_edit(h.ptr, C.Steinberg_Vst_ParamID(id))
}

// PerformEdit reports a normalized value change within a gesture.
func (h *Handler) PerformEdit(id uint32, value float64) {
	if h == nil || h.ptr == nil {
		return
	}
	C.handler_perform_edit(h.ptr, C.Steinberg_Vst_ParamID(id), C.Steinberg_Vst_ParamValue(value))
}

// EndEdit finishes an automation gesture.
func (h *Handler) EndEdit(id uint32) {
	if h == nil || h.ptr == nil {
		return
	}
	C.handler_end_edit(h.ptr, C.Steinberg_Vst_ParamID(id))
}

// RestartComponent flags for Handler.Restart.
const (
	RestartParamValuesChanged = int32(1) << 2
	RestartLatencyChanged     = int32(1) << 3
)

// Restart asks the host to re-read the flagged component aspects, e.g.
// parameter values after a state load.
func (h *Handler) Restart(flags int32) {
	if h == nil || h.ptr == nil {
		return
	}
	C.handler_restart(h.ptr, C.Steinberg_int32(flags))
}
