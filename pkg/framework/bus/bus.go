// Package bus describes audio bus topology: the buses a plugin declares,
// the channel counts a host reports, and the layout derived from them at
// prepare time.
package bus

// Direction of a bus relative to the plugin.
type Direction int32

const (
	// DirectionInput is host-to-plugin audio.
	DirectionInput Direction = 0
	// DirectionOutput is plugin-to-host audio.
	DirectionOutput Direction = 1
)

// Type distinguishes the main bus from auxiliary buses (sidechains,
// additional outs).
type Type int32

const (
	// TypeMain is the main bus of a direction.
	TypeMain Type = 0
	// TypeAux is any other bus of a direction.
	TypeAux Type = 1
)

// Info describes one declared bus.
type Info struct {
	Direction    Direction
	BusType      Type
	ChannelCount int32
	Name         string
	Active       bool
}

// Configuration is the set of buses a plugin declares. Order within a
// direction is main first, then aux buses in declaration order.
type Configuration struct {
	buses []Info
}

// NewStereo declares the common 2-in/2-out effect topology.
func NewStereo() *Configuration {
	c := &Configuration{}
	c.AddInput("Stereo In", 2, TypeMain)
	c.AddOutput("Stereo Out", 2, TypeMain)
	return c
}

// NewMono declares a 1-in/1-out topology.
func NewMono() *Configuration {
	c := &Configuration{}
	c.AddInput("Mono In", 1, TypeMain)
	c.AddOutput("Mono Out", 1, TypeMain)
	return c
}

// NewInstrument declares an output-only stereo topology.
func NewInstrument() *Configuration {
	c := &Configuration{}
	c.AddOutput("Stereo Out", 2, TypeMain)
	return c
}

// AddInput appends an input bus and returns the configuration for
// chaining.
func (c *Configuration) AddInput(name string, channels int32, t Type) *Configuration {
	c.buses = append(c.buses, Info{Direction: DirectionInput, BusType: t, ChannelCount: channels, Name: name, Active: true})
	return c
}

// AddOutput appends an output bus.
func (c *Configuration) AddOutput(name string, channels int32, t Type) *Configuration {
	c.buses = append(c.buses, Info{Direction: DirectionOutput, BusType: t, ChannelCount: channels, Name: name, Active: true})
	return c
}

// WithSidechain appends a mono-or-stereo aux input named "Sidechain".
func (c *Configuration) WithSidechain(channels int32) *Configuration {
	return c.AddInput("Sidechain", channels, TypeAux)
}

// Count returns the number of buses in a direction.
func (c *Configuration) Count(dir Direction) int32 {
	n := int32(0)
	for _, b := range c.buses {
		if b.Direction == dir {
			n++
		}
	}
	return n
}

// ByIndex returns the index-th bus of a direction, main bus first.
func (c *Configuration) ByIndex(dir Direction, index int32) *Info {
	i := int32(0)
	for j := range c.buses {
		if c.buses[j].Direction != dir {
			continue
		}
		if i == index {
			return &c.buses[j]
		}
		i++
	}
	return nil
}

// Activate flips a bus's active state.
func (c *Configuration) Activate(dir Direction, index int32, active bool) bool {
	b := c.ByIndex(dir, index)
	if b == nil {
		return false
	}
	b.Active = active
	return true
}

// Snapshot captures the per-bus channel counts into a CachedConfig.
func (c *Configuration) Snapshot() CachedConfig {
	var cached CachedConfig
	for _, b := range c.buses {
		if b.Direction == DirectionInput {
			cached.InputBuses = append(cached.InputBuses, int(b.ChannelCount))
		} else {
			cached.OutputBuses = append(cached.OutputBuses, int(b.ChannelCount))
		}
	}
	return cached
}
