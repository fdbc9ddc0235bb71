package render

import (
	"sync"
	"time"

	"github.com/beamer-audio/beamer-go/pkg/framework/bus"
	"github.com/beamer-audio/beamer-go/pkg/framework/debug"
	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
	"github.com/beamer-audio/beamer-go/pkg/framework/hostlog"
	"github.com/beamer-audio/beamer-go/pkg/framework/param"
	"github.com/beamer-audio/beamer-go/pkg/framework/plugin"
	"github.com/beamer-audio/beamer-go/pkg/framework/process"
	"github.com/beamer-audio/beamer-go/pkg/midi"
)

// scratchChannels is how many work buffers a processor can borrow per
// block.
const scratchChannels = 8

// Engine drives one prepared plugin instance. Construction allocates
// everything; Process allocates nothing.
//
// The state mutex serializes Process against state loads. Process never
// waits on it: a blocked render call outputs silence for that block
// instead of stalling the audio thread.
type Engine struct {
	proc   plugin.Processor
	dproc  plugin.DoubleProcessor
	params *param.Registry
	bridge *midi.CcBridge

	ctx   *process.Context[float32]
	ctx64 *process.Context[float64]

	events  midi.Buffer
	midiOut midi.Buffer
	sysex   midi.SysExPool
	rpn     midi.RpnTracker

	// conv backs the 64-bit path for processors without a native one.
	convIn     [][]float32
	convOut    [][]float32
	convAuxIn  [][][]float32
	convAuxOut [][][]float32

	floats []*param.Float

	mu sync.Mutex

	prevTransport process.Transport
	prevFrames    int
	havePrev      bool

	eventOverflow hostlog.OnceFlag
	renderError   hostlog.OnceFlag

	meter *debug.Meter
}

// New builds an engine for a prepared processor. layout is the bus
// snapshot taken at prepare time; maxFrames is the host's block size
// ceiling.
func New(proc plugin.Processor, params *param.Registry, bridge *midi.CcBridge, layout bus.CachedConfig, sampleRate float64, maxFrames int) *Engine {
	e := &Engine{
		proc:   proc,
		params: params,
		bridge: bridge,
	}
	e.dproc, _ = proc.(plugin.DoubleProcessor)

	l := layout.Layout()

	e.ctx = process.NewContext[float32](params, sampleRate, scratchChannels, maxFrames)
	e.ctx.In = &process.Buffer[float32]{}
	e.ctx.Out = &process.Buffer[float32]{}
	e.ctx.AuxIn = make([]*process.Buffer[float32], len(l.AuxInputs))
	for i := range e.ctx.AuxIn {
		e.ctx.AuxIn[i] = &process.Buffer[float32]{}
	}
	e.ctx.AuxOut = make([]*process.Buffer[float32], len(l.AuxOutputs))
	for i := range e.ctx.AuxOut {
		e.ctx.AuxOut[i] = &process.Buffer[float32]{}
	}
	e.ctx.Events = &e.events
	e.ctx.MidiOut = &e.midiOut
	if bridge != nil {
		e.ctx.Cc = bridge.State()
	}

	if e.dproc != nil {
		e.ctx64 = process.NewContext[float64](params, sampleRate, scratchChannels, maxFrames)
		e.ctx64.In = &process.Buffer[float64]{}
		e.ctx64.Out = &process.Buffer[float64]{}
		e.ctx64.AuxIn = make([]*process.Buffer[float64], len(l.AuxInputs))
		for i := range e.ctx64.AuxIn {
			e.ctx64.AuxIn[i] = &process.Buffer[float64]{}
		}
		e.ctx64.AuxOut = make([]*process.Buffer[float64], len(l.AuxOutputs))
		for i := range e.ctx64.AuxOut {
			e.ctx64.AuxOut[i] = &process.Buffer[float64]{}
		}
		e.ctx64.Events = &e.events
		e.ctx64.MidiOut = &e.midiOut
		e.ctx64.Cc = e.ctx.Cc
	} else {
		// Conversion storage covers every bus so a 64-bit host reaches
		// sidechains and sends through the narrowing path too.
		e.convIn = allocChannels(l.MainInputs, maxFrames)
		e.convOut = allocChannels(l.MainOutputs, maxFrames)
		e.convAuxIn = make([][][]float32, len(l.AuxInputs))
		for i, ch := range l.AuxInputs {
			e.convAuxIn[i] = allocChannels(ch, maxFrames)
		}
		e.convAuxOut = make([][][]float32, len(l.AuxOutputs))
		for i, ch := range l.AuxOutputs {
			e.convAuxOut[i] = allocChannels(ch, maxFrames)
		}
	}

	params.Each(func(p param.Param) {
		if f, ok := p.(*param.Float); ok {
			e.floats = append(e.floats, f)
		}
	})
	return e
}

func allocChannels(channels, frames int) [][]float32 {
	if channels == 0 {
		return nil
	}
	backing := make([]float32, channels*frames)
	out := make([][]float32, channels)
	for i := range out {
		out[i] = backing[i*frames : (i+1)*frames : (i+1)*frames]
	}
	return out
}

// Events returns the input event buffer for bridges to fill before
// Process. Cleared by Process.
func (e *Engine) Events() *midi.Buffer { return &e.events }

// MidiOut returns the events the processor emitted during the last
// Process call. Bridges read it after Process and before the next one.
func (e *Engine) MidiOut() *midi.Buffer { return &e.midiOut }

// AddHostEvent translates and buffers one VST3-style event, drawing
// SysEx storage from the engine pool.
func (e *Engine) AddHostEvent(h midi.HostEvent) {
	ev, ok := midi.FromHost(h, &e.sysex)
	if !ok {
		return
	}
	if !e.events.Add(ev) {
		e.eventOverflow.Trip()
	}
}

// AddRawMIDI translates and buffers one complete MIDI 1.0 message. The
// bytes may alias host memory; SysEx payloads are copied into the
// engine pool before the call returns.
func (e *Engine) AddRawMIDI(data []byte, frame int32) {
	ev, ok := midi.DecodeRaw(data, frame)
	if !ok {
		return
	}
	if ev.Kind == midi.KindSysEx {
		ev.SysEx = e.sysex.Copy(ev.SysEx)
		if ev.SysEx == nil {
			return
		}
	}
	if !e.events.Add(ev) {
		e.eventOverflow.Trip()
	}
}

// AddUMPWord translates and buffers one 32-bit Universal MIDI Packet.
func (e *Engine) AddUMPWord(word uint32, frame int32) {
	ev, ok := midi.DecodeUMP(word, frame)
	if !ok {
		return
	}
	if !e.events.Add(ev) {
		e.eventOverflow.Trip()
	}
}

// SetMeter attaches a block-time meter. Pass nil to detach. Set it
// before rendering starts; Process reads it without synchronization.
//
// Metering is opt-in diagnostics: with a meter attached every block pays
// for two clock reads on the render thread. Leave it detached in release
// builds.
func (e *Engine) SetMeter(m *debug.Meter) {
	e.meter = m
}

// WithStateLock runs fn while renders are excluded. Used by state loads
// and re-prepares; render calls during fn emit silence.
func (e *Engine) WithStateLock(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}

// Reset clears processor playback state and the engine's transport
// memory.
func (e *Engine) Reset() {
	e.proc.Reset()
	e.rpn.Reset()
	e.havePrev = false
}

// Process runs one block. On any failure the outputs carry silence and
// the error is fwerr.ErrProcessing; hosts keep calling, so the error is
// a per-block verdict, not a terminal state.
//
// Order matters: parameter events land before MIDI translation, MIDI
// translation before the processor call, and the lock is only taken once
// the lock-free stages are done.
func (e *Engine) Process(b *HostBlock) error {
	var start time.Time
	if e.meter != nil {
		start = time.Now()
		defer func() { e.meter.Record(time.Since(start)) }()
	}

	e.applyParamChanges(b.ParamChanges)
	if e.bridge != nil {
		for _, ev := range e.events.Events() {
			e.bridge.ApplyEvent(ev)
		}
		e.bridge.Drain(&e.events)
	}
	e.events.SortByFrame()

	if !e.mu.TryLock() {
		silence(b)
		e.events.Clear()
		e.sysex.Reset()
		return fwerr.ErrProcessing
	}
	defer e.mu.Unlock()
	defer e.endBlock(b)

	if e.havePrev && !b.Transport.ContinuesFrom(e.prevTransport, e.prevFrames) {
		e.proc.Reset()
		e.rpn.Reset()
	}
	e.assembleRpn()
	for _, f := range e.floats {
		f.SyncSmoother()
	}

	var err error
	if b.Double() {
		err = e.processDouble(b)
	} else {
		err = e.processSingle(b)
	}
	if err != nil {
		// No wrapping here: error construction would allocate on the
		// audio thread. The latched flag carries the report off-thread.
		silence(b)
		e.renderError.Trip()
		return fwerr.ErrProcessing
	}
	return nil
}

// assembleRpn folds multi-CC RPN and NRPN sequences into single
// high-resolution controller events, rewriting the buffer in place. The
// select and data CCs that make up a sequence are withheld from the
// processor; a completed sequence lands at the frame of the CC that
// finished it.
func (e *Engine) assembleRpn() {
	evs := e.events.Events()
	n := 0
	for i := range evs {
		ev := evs[i]
		if ev.Kind == midi.KindControlChange && midi.IsRpnController(ev.Key) {
			msg, done := e.rpn.Feed(ev.Channel, ev.Key, ev.ValueByte())
			if !done {
				continue
			}
			ev = msg.Event(ev.Frame)
		}
		evs[n] = ev
		n++
	}
	e.events.Truncate(n)
}

func (e *Engine) processSingle(b *HostBlock) error {
	e.ctx.In.Bind(b.In, b.Frames)
	e.ctx.Out.Bind(b.Out, b.Frames)
	for i := range e.ctx.AuxIn {
		if i < len(b.AuxIn) {
			e.ctx.AuxIn[i].Bind(b.AuxIn[i], b.Frames)
		}
	}
	for i := range e.ctx.AuxOut {
		if i < len(b.AuxOut) {
			e.ctx.AuxOut[i].Bind(b.AuxOut[i], b.Frames)
		}
	}
	e.ctx.Transport = b.Transport
	return e.proc.Process(e.ctx)
}

func (e *Engine) processDouble(b *HostBlock) error {
	if e.dproc != nil {
		e.ctx64.In.Bind(b.In64, b.Frames)
		e.ctx64.Out.Bind(b.Out64, b.Frames)
		for i := range e.ctx64.AuxIn {
			if i < len(b.AuxIn64) {
				e.ctx64.AuxIn[i].Bind(b.AuxIn64[i], b.Frames)
			}
		}
		for i := range e.ctx64.AuxOut {
			if i < len(b.AuxOut64) {
				e.ctx64.AuxOut[i].Bind(b.AuxOut64[i], b.Frames)
			}
		}
		e.ctx64.Transport = b.Transport
		return e.dproc.ProcessDouble(e.ctx64)
	}

	// No native 64-bit path: narrow, run the 32-bit processor, widen.
	process.Convert64To32(e.convIn, b.In64, b.Frames)
	e.ctx.In.Bind(e.convIn, b.Frames)
	e.ctx.Out.Bind(e.convOut[:len(b.Out64)], b.Frames)
	for i := range e.ctx.AuxIn {
		if i < len(b.AuxIn64) && i < len(e.convAuxIn) {
			process.Convert64To32(e.convAuxIn[i], b.AuxIn64[i], b.Frames)
			e.ctx.AuxIn[i].Bind(e.convAuxIn[i][:len(b.AuxIn64[i])], b.Frames)
		}
	}
	for i := range e.ctx.AuxOut {
		if i < len(b.AuxOut64) && i < len(e.convAuxOut) {
			e.ctx.AuxOut[i].Bind(e.convAuxOut[i][:len(b.AuxOut64[i])], b.Frames)
		}
	}
	e.ctx.Transport = b.Transport
	if err := e.proc.Process(e.ctx); err != nil {
		return err
	}
	process.Convert32To64(b.Out64, e.convOut[:len(b.Out64)], b.Frames)
	for i := range b.AuxOut64 {
		if i < len(e.convAuxOut) {
			process.Convert32To64(b.AuxOut64[i], e.convAuxOut[i][:len(b.AuxOut64[i])], b.Frames)
		}
	}
	return nil
}

// endBlock is the per-block epilogue: transport memory, buffer and pool
// reuse, and the deferred overflow report, which runs here rather than on
// the add path so logging never touches the audio thread mid-block.
func (e *Engine) endBlock(b *HostBlock) {
	e.prevTransport = b.Transport
	e.prevFrames = b.Frames
	e.havePrev = true
	e.events.Clear()
	e.sysex.Reset()
	e.ctx.ResetScratch()
	if e.ctx64 != nil {
		e.ctx64.ResetScratch()
	}
}

// DrainWarnings logs any latched render-thread conditions. Called off the
// audio thread, typically from bridge housekeeping.
func (e *Engine) DrainWarnings() {
	e.eventOverflow.Drain("midi event buffer overflow, events dropped")
	e.renderError.Drain("processor returned an error, block silenced")
}

func (e *Engine) applyParamChanges(changes []ParamChange) {
	for _, c := range changes {
		if e.bridge != nil && e.bridge.SetNormalized(c.ID, c.Value, c.Frame) {
			continue
		}
		e.params.SetNormalized(c.ID, c.Value)
	}
}

func silence(b *HostBlock) {
	if b.Double() {
		for _, ch := range b.Out64 {
			for i := 0; i < b.Frames && i < len(ch); i++ {
				ch[i] = 0
			}
		}
		for _, bus := range b.AuxOut64 {
			for _, ch := range bus {
				for i := 0; i < b.Frames && i < len(ch); i++ {
					ch[i] = 0
				}
			}
		}
		return
	}
	for _, ch := range b.Out {
		for i := 0; i < b.Frames && i < len(ch); i++ {
			ch[i] = 0
		}
	}
	for _, bus := range b.AuxOut {
		for _, ch := range bus {
			for i := 0; i < b.Frames && i < len(ch); i++ {
				ch[i] = 0
			}
		}
	}
}
