package vst3

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include "vst3/abi.h"

static Steinberg_tresult stream_read(struct Steinberg_IBStream* s, void* buffer, Steinberg_int32 numBytes, Steinberg_int32* numRead) {
	return s->lpVtbl->read(s, buffer, numBytes, numRead);
}

static Steinberg_tresult stream_write(struct Steinberg_IBStream* s, void* buffer, Steinberg_int32 numBytes, Steinberg_int32* numWritten) {
	return s->lpVtbl->write(s, buffer, numBytes, numWritten);
}
*/
import "C"

import (
	"unsafe"

	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
)

const streamChunk = 4096

// Stream adapts a host IBStream to byte-slice reads and writes. State
// payloads are small, so transfers run in fixed chunks.
type Stream struct {
	ptr *C.struct_Steinberg_IBStream
}

// NewStream wraps a host stream pointer. Returns nil for a nil pointer.
func NewStream(ptr unsafe.Pointer) *Stream {
	if ptr == nil {
		return nil
	}
	return &Stream{ptr: (*C.struct_Steinberg_IBStream)(ptr)}
}

// ReadAll drains the stream from its current position.
func (s *Stream) ReadAll() ([]byte, error) {
	var out []byte
	buf := make([]byte, streamChunk)
	for {
		var n C.Steinberg_int32
		r := C.stream_read(s.ptr, unsafe.Pointer(&buf[0]), streamChunk, &n)
		if r != C.Steinberg_kResultOk && n <= 0 {
			break
		}
		if n <= 0 {
			break
		}
		out = append(out, buf[:n]...)
		if n < streamChunk {
			break
		}
	}
	return out, nil
}

// WriteAll writes data to the stream, failing on a short write.
func (s *Stream) WriteAll(data []byte) error {
	for len(data) > 0 {
		chunk := len(data)
		if chunk > streamChunk {
			chunk = streamChunk
		}
		var n C.Steinberg_int32
		r := C.stream_write(s.ptr, unsafe.Pointer(&data[0]), C.Steinberg_int32(chunk), &n)
		if r != C.Steinberg_kResultOk || int(n) != chunk {
			return fwerr.ErrStateFormat
		}
		data = data[chunk:]
	}
	return nil
}
