// Package plugin defines the contract a plugin author implements once and
// both host bridges consume. A Plugin carries identity and builds
// Processors; a Processor declares its buses and parameters and renders
// blocks. Everything host-specific stays out of this package.
package plugin

import (
	"github.com/beamer-audio/beamer-go/pkg/framework/bus"
	"github.com/beamer-audio/beamer-go/pkg/framework/param"
	"github.com/beamer-audio/beamer-go/pkg/framework/process"
	"github.com/beamer-audio/beamer-go/pkg/midi"
)

// Plugin is the author's entry point, registered once at library load.
type Plugin interface {
	Info() Info

	// CreateProcessor builds a fresh processor per host instance.
	// Instances must not share mutable state.
	CreateProcessor() Processor
}

// Processor is the audio-side contract. Calls arrive in lifecycle order:
// Buses and DeclareParams once after construction, Prepare before any
// Process and again after a format change, Reset between Prepare and
// Process whenever playback state must clear, Release last.
//
// Process runs on the audio thread. It must not allocate, block, or call
// anything that does.
type Processor interface {
	Buses() *bus.Configuration

	// DeclareParams registers the processor's parameters. IDs are hashed
	// from keys; a duplicate hash surfaces here as an error.
	DeclareParams(reg *param.Registry) error

	Prepare(sampleRate float64, maxFrames int) error

	Process(ctx *process.Context[float32]) error

	// Reset clears voices, delay lines, and other playback state without
	// touching parameter values.
	Reset()

	Release()
}

// DoubleProcessor is implemented by processors with a native 64-bit
// path. Hosts that request double processing use it directly; for
// everyone else the framework converts around the 32-bit path.
type DoubleProcessor interface {
	ProcessDouble(ctx *process.Context[float64]) error
}

// MidiCcDeclarer exposes MIDI controllers as hidden parameters for hosts
// that deliver controllers through automation instead of events.
type MidiCcDeclarer interface {
	MidiCcConfig() midi.CcConfig
}

// StateHooks notifies a processor around state persistence. The saved
// format stays parameter records only; processors that derive internal
// state from parameters rebuild it in OnLoadState. Load order:
// parameter values first, then OnLoadState, then smoother reset.
type StateHooks interface {
	OnSaveState() error
	OnLoadState() error
}

// LatencyReporter overrides the default zero-sample latency report.
type LatencyReporter interface {
	LatencySamples() int32
}

// TailReporter overrides the default zero-sample tail report.
type TailReporter interface {
	TailSamples() int32
}

// Base supplies no-op defaults for the optional parts of Processor.
// Embed it and override what the plugin needs.
type Base struct {
	buses      *bus.Configuration
	sampleRate float64
	maxFrames  int
}

// NewBase wraps a bus configuration; nil means stereo in/out.
func NewBase(buses *bus.Configuration) Base {
	if buses == nil {
		buses = bus.NewStereo()
	}
	return Base{buses: buses}
}

// Buses implements Processor.
func (b *Base) Buses() *bus.Configuration { return b.buses }

// DeclareParams implements Processor with no parameters.
func (b *Base) DeclareParams(reg *param.Registry) error { return nil }

// Prepare records the format for SampleRate and MaxFrames.
func (b *Base) Prepare(sampleRate float64, maxFrames int) error {
	b.sampleRate = sampleRate
	b.maxFrames = maxFrames
	return nil
}

// Reset implements Processor as a no-op.
func (b *Base) Reset() {}

// Release implements Processor as a no-op.
func (b *Base) Release() {}

// SampleRate returns the rate from the last Prepare.
func (b *Base) SampleRate() float64 { return b.sampleRate }

// MaxFrames returns the block size ceiling from the last Prepare.
func (b *Base) MaxFrames() int { return b.maxFrames }
