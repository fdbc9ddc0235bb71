package process

import (
	"github.com/beamer-audio/beamer-go/pkg/framework/param"
	"github.com/beamer-audio/beamer-go/pkg/midi"
)

// Context carries everything a processor may touch during one block. It is
// built once at prepare time and rebound to host data per block; render
// code never allocates through it.
type Context[S Sample] struct {
	// In and Out are the main buses. In is nil for instruments.
	In  *Buffer[S]
	Out *Buffer[S]

	// AuxIn holds auxiliary input buses such as sidechains, in bus order.
	AuxIn []*Buffer[S]

	// AuxOut holds auxiliary output buses such as sends, in bus order.
	AuxOut []*Buffer[S]

	SampleRate float64
	Transport  Transport

	// Events holds the block's incoming MIDI, ordered by frame offset.
	Events *midi.Buffer

	// MidiOut collects MIDI the processor emits during the block.
	MidiOut *midi.Buffer

	Params param.Store

	// Cc exposes the latest bridged controller values for plugins that
	// read controllers ambient-style instead of consuming CC events.
	// Nil when the plugin declares no controllers.
	Cc *midi.CcState

	scratch *BufferStorage[S]
}

// NewContext builds a context with its own scratch pool. scratchChannels
// of length maxFrames are available per block via Work.
func NewContext[S Sample](params param.Store, sampleRate float64, scratchChannels, maxFrames int) *Context[S] {
	return &Context[S]{
		SampleRate: sampleRate,
		Params:     params,
		scratch:    NewBufferStorage[S](scratchChannels, maxFrames),
	}
}

// Frames returns the active frame count of the block.
func (c *Context[S]) Frames() int {
	if c.Out != nil {
		return c.Out.Frames()
	}
	if c.In != nil {
		return c.In.Frames()
	}
	return 0
}

// Work borrows a scratch channel for the rest of the block. Returns nil
// when the pool is exhausted.
func (c *Context[S]) Work() []S {
	buf := c.scratch.Acquire()
	if buf == nil {
		return nil
	}
	return buf[:c.Frames()]
}

// ResetScratch returns all borrowed scratch channels. Called by the
// render loop at each block boundary.
func (c *Context[S]) ResetScratch() {
	c.scratch.Reset()
}

// ParamPlain reads a parameter's current plain value by ID, or def when
// the ID is unknown.
func (c *Context[S]) ParamPlain(id uint32, def float64) float64 {
	p := c.Params.ByID(id)
	if p == nil {
		return def
	}
	return p.ToPlain(p.Normalized())
}
