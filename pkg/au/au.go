// Package au is the AUv3 entry point. The ObjC shim in bridge/auv3.m
// subclasses AUAudioUnit and forwards every decision here through the
// BeamerAU* C ABI; this package owns the registered plugin and the live
// instance table, mirroring the VST3 entry point in pkg/plugin.
package au

import (
	"sync"

	"go.uber.org/zap"

	"github.com/beamer-audio/beamer-go/pkg/framework/bus"
	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
	"github.com/beamer-audio/beamer-go/pkg/framework/hostlog"
	"github.com/beamer-audio/beamer-go/pkg/framework/lifecycle"
	fwplugin "github.com/beamer-audio/beamer-go/pkg/framework/plugin"
	"github.com/beamer-audio/beamer-go/pkg/framework/render"
)

var registry struct {
	mu        sync.Mutex
	plug      fwplugin.Plugin
	info      fwplugin.Info
	instances map[uintptr]*auWrapper
	nextID    uintptr
}

// Register installs the plugin the audio unit will expose. Write-once,
// like the VST3 factory.
func Register(p fwplugin.Plugin) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.plug != nil {
		return fwerr.ErrAlreadyRegistered
	}
	info := p.Info()
	if err := info.Validate(); err != nil {
		return err
	}
	registry.plug = p
	registry.info = info
	registry.instances = make(map[uintptr]*auWrapper)
	registry.nextID = 1
	hostlog.L().Info("audio unit registered",
		zap.String("id", info.ID),
		zap.String("name", info.Name))
	return nil
}

// MustRegister is Register for init functions.
func MustRegister(p fwplugin.Plugin) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

// auWrapper binds one AUAudioUnit to its lifecycle instance plus the
// per-block staging the render callback reuses. Events arrive staged
// (the shim walks Apple's event list before calling render), so the
// wrapper carries the pending parameter changes between those calls.
type auWrapper struct {
	inst    *lifecycle.Instance
	layout  bus.CachedConfig
	block   render.HostBlock
	changes []render.ParamChange
	in      [][]float32
	out     [][]float32

	midiOutDropped hostlog.OnceFlag
}

func newAUWrapper() (*auWrapper, error) {
	registry.mu.Lock()
	p := registry.plug
	registry.mu.Unlock()
	if p == nil {
		return nil, fwerr.ErrNotRegistered
	}
	inst, err := lifecycle.New(p)
	if err != nil {
		return nil, err
	}
	w := &auWrapper{inst: inst}
	w.layout = inst.Buses().Snapshot()
	lay := w.layout.Layout()
	w.changes = make([]render.ParamChange, 0, inst.Params().Count())
	w.in = make([][]float32, 0, lay.MainInputs)
	w.out = make([][]float32, 0, lay.MainOutputs)
	return w, nil
}

func trackInstance(w *auWrapper) uintptr {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	id := registry.nextID
	registry.nextID++
	registry.instances[id] = w
	return id
}

func lookupInstance(id uintptr) *auWrapper {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.instances[id]
}

func dropInstance(id uintptr) *auWrapper {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	w := registry.instances[id]
	delete(registry.instances, id)
	return w
}
