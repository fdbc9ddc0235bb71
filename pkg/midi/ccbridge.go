package midi

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/beamer-audio/beamer-go/pkg/framework/param"
)

type dirtyFlag struct {
	v atomic.Bool
}

func (f *dirtyFlag) set() { f.v.Store(true) }

func (f *dirtyFlag) take() bool { return f.v.Swap(false) }

// CcState holds the latest normalized value per (channel, slot) pair as
// atomics. Writers are the bridge's parameter path and the render
// thread's MIDI-in translation; readers are the render thread and the
// plugin, ambient-style through the process context.
type CcState struct {
	values [16 * CcSlotCount]atomic.Uint64
}

// Get returns the latest normalized value for a pair. Pitch bend is
// stored normalized, 0.5 meaning center.
func (s *CcState) Get(channel, slot int) float64 {
	if channel < 0 || channel > 15 || slot < 0 || slot >= CcSlotCount {
		return 0
	}
	return math.Float64frombits(s.values[channel*CcSlotCount+slot].Load())
}

func (s *CcState) set(channel, slot int, v float64) {
	if channel < 0 || channel > 15 || slot < 0 || slot >= CcSlotCount {
		return
	}
	s.values[channel*CcSlotCount+slot].Store(math.Float64bits(v))
}

// Hosts that strip MIDI controllers from the event stream deliver them as
// parameter automation instead. The bridge owns one hidden parameter per
// exposed (channel, controller slot) pair, receives host writes through
// the normal parameter path, and turns them back into events at the top
// of each block.

// Controller slots. 0 through 127 are the CC numbers; the three pseudo
// slots cover the channel messages hosts route the same way.
const (
	CcSlotChannelPressure = 128
	CcSlotPitchBend       = 129
	CcSlotProgramChange   = 130

	// CcSlotCount is slots per channel.
	CcSlotCount = 131
)

// CcParamBase is the start of the reserved parameter ID range for bridge
// parameters. IDs are assigned arithmetically, not hashed, so the range
// must stay clear of hashed key IDs; the registry rejects collisions.
const CcParamBase uint32 = 0xBEA30000

// CcParamID returns the parameter ID for a channel and slot.
func CcParamID(channel, slot int) uint32 {
	return CcParamBase + uint32(channel)*CcSlotCount + uint32(slot)
}

// CcParamSlot inverts CcParamID. ok is false for IDs outside the
// reserved range.
func CcParamSlot(id uint32) (channel, slot int, ok bool) {
	if id < CcParamBase {
		return 0, 0, false
	}
	off := id - CcParamBase
	channel = int(off / CcSlotCount)
	slot = int(off % CcSlotCount)
	if channel > 15 {
		return 0, 0, false
	}
	return channel, slot, true
}

// CcConfig declares which slots a plugin wants bridged, per channel.
type CcConfig struct {
	channels [16]ccChannelMask
}

type ccChannelMask struct {
	slots [CcSlotCount]bool
	any   bool
}

// Expose marks one (channel, slot) pair for bridging.
func (c *CcConfig) Expose(channel, slot int) *CcConfig {
	if channel >= 0 && channel < 16 && slot >= 0 && slot < CcSlotCount {
		c.channels[channel].slots[slot] = true
		c.channels[channel].any = true
	}
	return c
}

// ExposeCC bridges one controller number on a channel.
func (c *CcConfig) ExposeCC(channel int, controller uint8) *CcConfig {
	return c.Expose(channel, int(controller&0x7F))
}

// ExposePitchBend bridges pitch bend on a channel.
func (c *CcConfig) ExposePitchBend(channel int) *CcConfig {
	return c.Expose(channel, CcSlotPitchBend)
}

// ExposeChannelPressure bridges channel aftertouch on a channel.
func (c *CcConfig) ExposeChannelPressure(channel int) *CcConfig {
	return c.Expose(channel, CcSlotChannelPressure)
}

// ExposeProgramChange bridges program change on a channel.
func (c *CcConfig) ExposeProgramChange(channel int) *CcConfig {
	return c.Expose(channel, CcSlotProgramChange)
}

// Exposed reports whether a pair is bridged.
func (c *CcConfig) Exposed(channel, slot int) bool {
	if channel < 0 || channel > 15 || slot < 0 || slot >= CcSlotCount {
		return false
	}
	return c.channels[channel].slots[slot]
}

// Empty reports whether nothing is bridged.
func (c *CcConfig) Empty() bool {
	for i := range c.channels {
		if c.channels[i].any {
			return false
		}
	}
	return true
}

// CcBridge converts parameter writes in the reserved range into MIDI
// events. SetNormalized runs on whatever thread the host delivers
// parameter changes on; Drain runs on the audio thread. Both are lock
// free through the parameter atomics plus a dirty flag per slot.
type CcBridge struct {
	config CcConfig
	state  CcState
	params []param.Param
	slots  map[uint32]*ccSlot
	order  []*ccSlot
}

type ccSlot struct {
	channel uint8
	slot    int
	p       *param.Float
	frame   atomic.Int32
	dirty   dirtyFlag
}

// NewCcBridge builds the bridge and its hidden parameters.
func NewCcBridge(config CcConfig) *CcBridge {
	b := &CcBridge{
		config: config,
		slots:  make(map[uint32]*ccSlot),
	}
	for ch := 0; ch < 16; ch++ {
		if !config.channels[ch].any {
			continue
		}
		for slot := 0; slot < CcSlotCount; slot++ {
			if !config.channels[ch].slots[slot] {
				continue
			}
			id := CcParamID(ch, slot)
			p := param.NewFloat(ccSlotKey(ch, slot), ccSlotName(ch, slot)).
				WithID(id).
				Default(ccSlotDefault(slot)).
				Hidden().
				MustBuild()
			s := &ccSlot{channel: uint8(ch), slot: slot, p: p}
			b.params = append(b.params, p)
			b.slots[id] = s
			b.order = append(b.order, s)
			b.state.set(ch, slot, ccSlotDefault(slot))
		}
	}
	return b
}

// Params returns the hidden bridge parameters for registration.
func (b *CcBridge) Params() []param.Param {
	return b.params
}

// Owns reports whether an ID belongs to this bridge.
func (b *CcBridge) Owns(id uint32) bool {
	_, ok := b.slots[id]
	return ok
}

// State returns the shared controller state for ambient reads.
func (b *CcBridge) State() *CcState {
	return &b.state
}

// SetNormalized records a host write to a bridge parameter at a sample
// offset and marks the slot for the next Drain. Returns false for
// foreign IDs. Lock free; callable from any thread.
func (b *CcBridge) SetNormalized(id uint32, value float64, frame int32) bool {
	s, ok := b.slots[id]
	if !ok {
		return false
	}
	s.p.SetNormalized(value)
	b.state.set(int(s.channel), s.slot, s.p.Normalized())
	s.frame.Store(frame)
	s.dirty.set()
	return true
}

// ApplyEvent mirrors an incoming MIDI event into the controller state
// when its (channel, slot) pair is exposed. Events of other kinds pass
// through untouched. Called on the render thread; allocation free.
func (b *CcBridge) ApplyEvent(e Event) {
	var slot int
	var v float64
	switch e.Kind {
	case KindControlChange:
		slot, v = int(e.Key), e.Value
	case KindChannelPressure:
		slot, v = CcSlotChannelPressure, e.Value
	case KindPitchBend:
		slot, v = CcSlotPitchBend, (e.Value+1)/2
	case KindProgramChange:
		slot, v = CcSlotProgramChange, byteToUnit(e.Key)
	default:
		return
	}
	if b.config.Exposed(int(e.Channel), slot) {
		b.state.set(int(e.Channel), slot, v)
	}
}

// Drain emits one event per slot written since the previous Drain, each
// at the sample offset its parameter change carried, and clears the
// flags. Allocation free.
func (b *CcBridge) Drain(out *Buffer) {
	for _, s := range b.order {
		if !s.dirty.take() {
			continue
		}
		out.Add(s.event(s.frame.Load()))
	}
}

func (s *ccSlot) event(frame int32) Event {
	v := s.p.Normalized()
	switch s.slot {
	case CcSlotChannelPressure:
		return ChannelPressure(frame, s.channel, v)
	case CcSlotPitchBend:
		return PitchBend(frame, s.channel, v*2-1)
	case CcSlotProgramChange:
		return ProgramChange(frame, s.channel, unitToByte(v))
	default:
		return ControlChange(frame, s.channel, uint8(s.slot), v)
	}
}

func ccSlotKey(channel, slot int) string {
	return fmt.Sprintf("midicc/ch%02d/slot%03d", channel+1, slot)
}

func ccSlotName(channel, slot int) string {
	switch slot {
	case CcSlotChannelPressure:
		return fmt.Sprintf("Ch %d Pressure", channel+1)
	case CcSlotPitchBend:
		return fmt.Sprintf("Ch %d Pitch Bend", channel+1)
	case CcSlotProgramChange:
		return fmt.Sprintf("Ch %d Program", channel+1)
	default:
		return fmt.Sprintf("Ch %d CC %d", channel+1, slot)
	}
}

// ccSlotDefault centers pitch bend and zeroes everything else.
func ccSlotDefault(slot int) float64 {
	if slot == CcSlotPitchBend {
		return 0.5
	}
	return 0
}
