package midi

const (
	// SysExSlots is how many system-exclusive payloads one block can hold.
	SysExSlots = 16
	// SysExSlotSize is the largest payload a slot stores.
	SysExSlotSize = 512
)

// SysExPool hands out stable byte storage for system-exclusive payloads
// without allocating on the audio thread. Slot addresses never move, so
// Event.SysEx slices stay valid until the pool is reset at the next block
// boundary.
type SysExPool struct {
	slots [SysExSlots][SysExSlotSize]byte
	used  int
}

// Copy stores data in the next free slot and returns the pooled copy.
// Payloads that do not fit a slot, or arrive when the pool is exhausted,
// fall back to the oversize path; see Reset for lifetime rules.
func (p *SysExPool) Copy(data []byte) []byte {
	if len(data) > SysExSlotSize || p.used >= SysExSlots {
		return copyOversize(data)
	}
	slot := p.slots[p.used][:len(data)]
	copy(slot, data)
	p.used++
	return slot
}

// Reset returns all slots in constant time. Previously returned slices
// become invalid.
func (p *SysExPool) Reset() {
	p.used = 0
}

// Available returns how many slots remain free this block.
func (p *SysExPool) Available() int {
	return SysExSlots - p.used
}
