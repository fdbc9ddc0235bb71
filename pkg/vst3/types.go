// Package vst3 holds Go-side views of the VST3 C ABI: result codes, bus
// and event constants, UTF-16 string marshaling, and call-through
// wrappers for the host interfaces the bridge consumes.
package vst3

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include "vst3/abi.h"
*/
import "C"

import (
	"unicode/utf16"
	"unsafe"
)

// Result codes returned across the ABI boundary.
const (
	ResultOk          = C.Steinberg_kResultOk
	ResultFalse       = C.Steinberg_kResultFalse
	ResultNoInterface = C.Steinberg_kNoInterface
	ResultInvalidArg  = C.Steinberg_kInvalidArgument
	ResultNotImpl     = C.Steinberg_kNotImplemented
	ResultInternal    = C.Steinberg_kInternalError
)

// Media types and bus directions.
const (
	MediaAudio = C.Steinberg_Vst_MediaTypes_kAudio
	MediaEvent = C.Steinberg_Vst_MediaTypes_kEvent

	DirInput  = C.Steinberg_Vst_BusDirections_kInput
	DirOutput = C.Steinberg_Vst_BusDirections_kOutput

	BusMain = C.Steinberg_Vst_BusTypes_kMain
	BusAux  = C.Steinberg_Vst_BusTypes_kAux

	BusFlagDefaultActive = C.Steinberg_Vst_BusInfo_BusFlags_kDefaultActive
)

// Symbolic sample sizes.
const (
	Sample32 = C.Steinberg_Vst_SymbolicSampleSizes_kSample32
	Sample64 = C.Steinberg_Vst_SymbolicSampleSizes_kSample64
)

// Speaker arrangements the bridge negotiates.
const (
	SpeakerMono   = uint64(C.Steinberg_Vst_SpeakerArr_kMono)
	SpeakerStereo = uint64(C.Steinberg_Vst_SpeakerArr_kStereo)
)

// ArrangementChannels reports the channel count of a speaker
// arrangement bitmask.
func ArrangementChannels(arr uint64) int {
	n := 0
	for arr != 0 {
		arr &= arr - 1
		n++
	}
	return n
}

// ArrangementFor returns the arrangement the bridge advertises for a
// bus of the given width. Widths beyond stereo report each channel as
// its own speaker bit.
func ArrangementFor(channels int) uint64 {
	switch channels {
	case 1:
		return SpeakerMono
	case 2:
		return SpeakerStereo
	default:
		if channels < 0 || channels > 64 {
			return 0
		}
		return (uint64(1) << uint(channels)) - 1
	}
}

// PutString128 writes s into a fixed 128-unit UTF-16 field, truncating
// to leave room for the terminator. dst crosses the package boundary as
// an unsafe.Pointer because cgo types do not.
func PutString128(dst unsafe.Pointer, s string) {
	out := utf16.Encode([]rune(s))
	if len(out) > 127 {
		out = out[:127]
	}
	buf := (*[128]uint16)(dst)
	for i, u := range out {
		buf[i] = u
	}
	buf[len(out)] = 0
}

// GetString128 reads a zero-terminated UTF-16 string from a 128-unit
// field.
func GetString128(src unsafe.Pointer) string {
	buf := (*[128]uint16)(src)
	units := make([]uint16, 0, 128)
	for _, c := range buf {
		if c == 0 {
			break
		}
		units = append(units, c)
	}
	return string(utf16.Decode(units))
}

// PutASCII copies s into a fixed-size char field, always terminating.
func PutASCII(dst unsafe.Pointer, size int, s string) {
	buf := unsafe.Slice((*byte)(dst), size)
	n := copy(buf[:size-1], s)
	buf[n] = 0
}
