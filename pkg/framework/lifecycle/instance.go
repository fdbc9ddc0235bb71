// Package lifecycle owns one plugin instance's state machine. An
// instance is Unprepared until the host supplies a format, Prepared
// while it can render, and Transitioning for the instants in between.
// Both host bridges drive the same machine; neither carries lifecycle
// logic of its own.
package lifecycle

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/beamer-audio/beamer-go/pkg/framework/bus"
	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
	"github.com/beamer-audio/beamer-go/pkg/framework/hostlog"
	"github.com/beamer-audio/beamer-go/pkg/framework/param"
	"github.com/beamer-audio/beamer-go/pkg/framework/plugin"
	"github.com/beamer-audio/beamer-go/pkg/framework/render"
	"github.com/beamer-audio/beamer-go/pkg/midi"
)

// State of an instance.
type State int32

const (
	// Unprepared holds the plugin, its parameters, and any deferred
	// state payload. Parameters work; rendering does not.
	Unprepared State = iota
	// Prepared additionally holds a render engine sized for the host's
	// format.
	Prepared
	// Transitioning is the interstitial during prepare and unprepare.
	// Render calls observing it fail with ErrInvalidState.
	Transitioning
)

func (s State) String() string {
	switch s {
	case Unprepared:
		return "unprepared"
	case Prepared:
		return "prepared"
	case Transitioning:
		return "transitioning"
	}
	return "invalid"
}

// Instance binds one processor to one host instance.
//
// The mutex serializes host-thread operations: prepare, unprepare, and
// state load. Process never takes it; it reads the state and engine
// atomically and relies on the engine's own try-lock.
type Instance struct {
	mu sync.Mutex

	info   plugin.Info
	proc   plugin.Processor
	params *param.Registry
	bridge *midi.CcBridge

	state  atomic.Int32
	engine atomic.Pointer[render.Engine]

	deferred   []byte
	sampleRate float64
	maxFrames  int
	active     bool
}

// New builds an instance: validates identity, constructs the processor,
// and populates the parameter registry, including hidden controller
// parameters when the processor declares a MidiCcConfig.
func New(p plugin.Plugin) (*Instance, error) {
	info := p.Info()
	if err := info.Validate(); err != nil {
		return nil, err
	}
	proc := p.CreateProcessor()

	reg := param.NewRegistry()
	if err := proc.DeclareParams(reg); err != nil {
		return nil, fmt.Errorf("declare params for %s: %w", info.ID, err)
	}

	var bridge *midi.CcBridge
	if d, ok := proc.(plugin.MidiCcDeclarer); ok {
		cfg := d.MidiCcConfig()
		if !cfg.Empty() {
			bridge = midi.NewCcBridge(cfg)
			if err := reg.Add(bridge.Params()...); err != nil {
				return nil, fmt.Errorf("register controller params for %s: %w", info.ID, err)
			}
		}
	}
	reg.Seal()

	return &Instance{
		info:   info,
		proc:   proc,
		params: reg,
		bridge: bridge,
	}, nil
}

// Info returns the plugin identity.
func (i *Instance) Info() plugin.Info { return i.info }

// Params returns the registry. Legal in every state.
func (i *Instance) Params() *param.Registry { return i.params }

// Buses returns the processor's declared bus configuration.
func (i *Instance) Buses() *bus.Configuration { return i.proc.Buses() }

// Bridge returns the controller bridge, or nil.
func (i *Instance) Bridge() *midi.CcBridge { return i.bridge }

// State returns the current lifecycle state.
func (i *Instance) State() State { return State(i.state.Load()) }

// SampleRate returns the rate of the last successful Prepare.
func (i *Instance) SampleRate() float64 { return i.sampleRate }

// MaxFrames returns the block ceiling of the last successful Prepare.
func (i *Instance) MaxFrames() int { return i.maxFrames }

// Prepare moves the instance to Prepared for the given format. Calling
// it while already Prepared re-prepares, which hosts do on rate or block
// size changes. On failure the instance is left Unprepared and the error
// explains the rejected configuration.
func (i *Instance) Prepare(sampleRate float64, maxFrames int) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if sampleRate <= 0 || maxFrames <= 0 {
		return fmt.Errorf("%w: sample rate %g, max frames %d", fwerr.ErrHostContract, sampleRate, maxFrames)
	}

	i.state.Store(int32(Transitioning))
	i.engine.Store(nil)

	if err := i.proc.Prepare(sampleRate, maxFrames); err != nil {
		i.state.Store(int32(Unprepared))
		return fmt.Errorf("prepare %s at %g Hz / %d frames: %w", i.info.ID, sampleRate, maxFrames, err)
	}

	i.sampleRate = sampleRate
	i.maxFrames = maxFrames
	i.params.SetSampleRate(sampleRate)

	eng := render.New(i.proc, i.params, i.bridge, i.proc.Buses().Snapshot(), sampleRate, maxFrames)

	if i.deferred != nil {
		if err := i.loadInto(i.deferred); err != nil {
			hostlog.L().Warn("deferred state rejected",
				zap.String("plugin", i.info.ID), zap.Error(err))
		}
		i.deferred = nil
	}
	i.params.ResetSmoothers()
	i.proc.Reset()

	i.engine.Store(eng)
	i.state.Store(int32(Prepared))
	hostlog.L().Info("prepared",
		zap.String("plugin", i.info.ID),
		zap.Float64("sample_rate", sampleRate),
		zap.Int("max_frames", maxFrames))
	return nil
}

// Unprepare drops the prepared-only resources and returns to Unprepared.
// Parameter values survive; the engine does not.
func (i *Instance) Unprepare() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if State(i.state.Load()) == Unprepared {
		return
	}
	i.state.Store(int32(Transitioning))
	i.engine.Store(nil)
	i.state.Store(int32(Unprepared))
}

// SetActive mirrors the host's activation toggle. Deactivation resets
// playback state so reactivation starts clean.
func (i *Instance) SetActive(active bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active == active {
		return
	}
	i.active = active
	if !active {
		if eng := i.engine.Load(); eng != nil {
			eng.WithStateLock(func() { eng.Reset() })
		}
	}
}

// Terminate releases the processor. The instance is unusable afterwards.
func (i *Instance) Terminate() {
	i.Unprepare()
	i.proc.Release()
}

// Process renders one block. Legal only in Prepared; any other state
// yields silence and ErrInvalidState without touching the processor.
func (i *Instance) Process(b *render.HostBlock) error {
	if State(i.state.Load()) != Prepared {
		return fwerr.ErrInvalidState
	}
	eng := i.engine.Load()
	if eng == nil {
		return fwerr.ErrInvalidState
	}
	return eng.Process(b)
}

// Engine returns the current render engine, or nil outside Prepared.
// Bridges use it to stage MIDI before Process.
func (i *Instance) Engine() *render.Engine { return i.engine.Load() }

// StateData serializes the instance's persistent state: the parameter
// records, preceded by the processor's save hook when it has one.
func (i *Instance) StateData() ([]byte, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if h, ok := i.proc.(plugin.StateHooks); ok {
		if err := h.OnSaveState(); err != nil {
			return nil, err
		}
	}
	return i.params.StateBytes()
}

// SetStateData applies a serialized snapshot. In Unprepared the payload
// is kept verbatim and applied on the next Prepare. In Prepared it is
// validated first, then applied while renders are excluded; a malformed
// payload leaves current values untouched.
func (i *Instance) SetStateData(data []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	switch State(i.state.Load()) {
	case Unprepared:
		i.deferred = append([]byte(nil), data...)
		return nil
	case Prepared:
		if err := param.ValidateState(data); err != nil {
			hostlog.L().Warn("state rejected",
				zap.String("plugin", i.info.ID), zap.Error(err))
			return err
		}
		var err error
		eng := i.engine.Load()
		eng.WithStateLock(func() {
			err = i.loadInto(data)
			i.params.ResetSmoothers()
		})
		return err
	}
	return fwerr.ErrInvalidState
}

// LatencySamples returns the processor's reported latency.
func (i *Instance) LatencySamples() int32 {
	if r, ok := i.proc.(plugin.LatencyReporter); ok {
		return r.LatencySamples()
	}
	return 0
}

// TailSamples returns the processor's reported tail.
func (i *Instance) TailSamples() int32 {
	if r, ok := i.proc.(plugin.TailReporter); ok {
		return r.TailSamples()
	}
	return 0
}

func (i *Instance) loadInto(data []byte) error {
	if err := i.params.LoadStateBytes(data); err != nil {
		return err
	}
	if h, ok := i.proc.(plugin.StateHooks); ok {
		if err := h.OnLoadState(); err != nil {
			return err
		}
	}
	return nil
}
