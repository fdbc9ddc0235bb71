// Package plugin is the VST3 entry point. It owns the exported factory
// and component callbacks the C bridge forwards to, and the registry of
// live component instances keyed by the opaque ids handed across the
// ABI.
//
// A plugin binary registers exactly one plugin in an init function:
//
//	func init() {
//		plugin.MustRegister(&myPlugin{})
//	}
//
// The host does the rest through the factory.
package plugin

import (
	"sync"

	"go.uber.org/zap"

	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
	"github.com/beamer-audio/beamer-go/pkg/framework/hostlog"
	"github.com/beamer-audio/beamer-go/pkg/framework/lifecycle"
	fwplugin "github.com/beamer-audio/beamer-go/pkg/framework/plugin"
)

var registry struct {
	mu         sync.Mutex
	plug       fwplugin.Plugin
	info       fwplugin.Info
	uid        [16]byte
	components map[uintptr]*componentWrapper
	nextID     uintptr
}

// Register installs the plugin the factory will expose. The slot is
// write-once: a second registration is an error, not a replacement.
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
	registry.uid = info.UID()
	registry.components = make(map[uintptr]*componentWrapper)
	registry.nextID = 1
	hostlog.L().Info("plugin registered",
		zap.String("id", info.ID),
		zap.String("name", info.Name),
		zap.String("uid", info.UIDString()))
	return nil
}

// MustRegister is Register for init functions.
func MustRegister(p fwplugin.Plugin) {
	if err := Register(p); err != nil {
		panic(err)
	}
}

func registered() (fwplugin.Plugin, fwplugin.Info, bool) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.plug, registry.info, registry.plug != nil
}

func trackComponent(w *componentWrapper) uintptr {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	id := registry.nextID
	registry.nextID++
	registry.components[id] = w
	return id
}

func lookupComponent(id uintptr) *componentWrapper {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.components[id]
}

func dropComponent(id uintptr) *componentWrapper {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	w := registry.components[id]
	delete(registry.components, id)
	return w
}

// newInstance builds the lifecycle instance for one host-created
// component.
func newInstance() (*lifecycle.Instance, error) {
	p, _, ok := registered()
	if !ok {
		return nil, fwerr.ErrNotRegistered
	}
	return lifecycle.New(p)
}
