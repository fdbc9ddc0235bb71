package midi

// BufferCap is the fixed per-block event capacity. Events past capacity
// are dropped; a render loop can check Dropped to report the overflow off
// the audio thread.
const BufferCap = 256

// Buffer is a fixed-capacity event list reused across blocks. All
// operations are allocation free.
type Buffer struct {
	events  [BufferCap]Event
	n       int
	dropped int
}

// Add appends an event, keeping insertion order. Returns false and counts
// a drop when the buffer is full.
func (b *Buffer) Add(e Event) bool {
	if b.n >= BufferCap {
		b.dropped++
		return false
	}
	b.events[b.n] = e
	b.n++
	return true
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int { return b.n }

// At returns the i-th event in place.
func (b *Buffer) At(i int) *Event { return &b.events[i] }

// Events returns the buffered events as a slice over internal storage.
// Valid until the next Clear.
func (b *Buffer) Events() []Event { return b.events[:b.n] }

// Truncate shortens the buffer to its first n events. Callers that
// rewrite the buffer in place compact it and truncate the tail.
func (b *Buffer) Truncate(n int) {
	if n >= 0 && n < b.n {
		b.n = n
	}
}

// Dropped returns how many events were rejected since the last Clear.
func (b *Buffer) Dropped() int { return b.dropped }

// Clear empties the buffer in constant time.
func (b *Buffer) Clear() {
	b.n = 0
	b.dropped = 0
}

// SortByFrame restores frame order after out-of-order insertion, for
// example when parameter-driven events are merged with host events.
// Insertion sort, stable, no allocation; buffers are small and mostly
// ordered already.
func (b *Buffer) SortByFrame() {
	ev := b.events[:b.n]
	for i := 1; i < len(ev); i++ {
		for j := i; j > 0 && ev[j].Frame < ev[j-1].Frame; j-- {
			ev[j], ev[j-1] = ev[j-1], ev[j]
		}
	}
}
