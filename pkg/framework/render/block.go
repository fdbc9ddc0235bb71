// Package render runs the per-block pipeline between a host bridge and a
// plugin processor. Bridges decode host memory into a HostBlock; the
// Engine owns everything else: parameter application, smoother sync, MIDI
// merging, transport continuity, buffer binding, and the call into the
// processor. Keeping the pipeline in pure Go keeps it testable without a
// host.
package render

import (
	"github.com/beamer-audio/beamer-go/pkg/framework/process"
	"github.com/beamer-audio/beamer-go/pkg/midi"
)

// ParamChange is one host parameter write for a block. Frame is the
// host's sample offset; values are applied at the block boundary and
// smoothed from there.
type ParamChange struct {
	ID    uint32
	Value float64
	Frame int32
}

// HostBlock is one block's worth of host data, decoded by a bridge into
// plain Go slices. The slices alias host memory; nothing here outlives
// the process call.
type HostBlock struct {
	// In and Out are the main bus channel pointers for the 32-bit path.
	In  [][]float32
	Out [][]float32

	// AuxIn and AuxOut hold channel pointers per auxiliary bus.
	AuxIn  [][][]float32
	AuxOut [][][]float32

	// In64 and Out64 replace In and Out when the host processes in
	// 64-bit. A block is one width or the other, never both.
	In64     [][]float64
	Out64    [][]float64
	AuxIn64  [][][]float64
	AuxOut64 [][][]float64

	Frames    int
	Transport process.Transport

	// Events is the block's incoming MIDI, already translated. Bridges
	// fill it through Engine.Events so pooled SysEx storage is used.
	Events *midi.Buffer

	// ParamChanges are the block's parameter writes in host order.
	ParamChanges []ParamChange
}

// Double reports whether the block carries 64-bit buffers.
func (b *HostBlock) Double() bool {
	return b.Out64 != nil
}
