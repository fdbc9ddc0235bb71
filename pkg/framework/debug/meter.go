package debug

import (
	"sync/atomic"
	"time"
)

// meterRing is how many recent block times a Meter retains.
const meterRing = 256

// Meter tracks how long render blocks take against the real-time budget.
// Record is wait-free; the read side may race a recording and see a
// slightly stale ring, which is fine for a diagnostic.
type Meter struct {
	budget atomic.Int64 // nanoseconds per block
	blocks atomic.Uint64
	over   atomic.Uint64
	maxNs  atomic.Int64

	ring [meterRing]atomic.Int64
	pos  atomic.Uint64
}

// SetFormat derives the per-block budget. Called at prepare time.
func (m *Meter) SetFormat(sampleRate float64, maxFrames int) {
	if sampleRate <= 0 || maxFrames <= 0 {
		m.budget.Store(0)
		return
	}
	m.budget.Store(int64(float64(maxFrames) / sampleRate * float64(time.Second)))
}

// Record notes one block's render duration.
func (m *Meter) Record(d time.Duration) {
	ns := int64(d)
	m.blocks.Add(1)
	if budget := m.budget.Load(); budget > 0 && ns > budget {
		m.over.Add(1)
	}
	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
	i := m.pos.Add(1) - 1
	m.ring[i%meterRing].Store(ns)
}

// Blocks returns how many blocks have been recorded.
func (m *Meter) Blocks() uint64 { return m.blocks.Load() }

// Overruns returns how many blocks exceeded the budget.
func (m *Meter) Overruns() uint64 { return m.over.Load() }

// Max returns the longest block seen since the last Reset.
func (m *Meter) Max() time.Duration { return time.Duration(m.maxNs.Load()) }

// Average returns the mean duration over the retained ring.
func (m *Meter) Average() time.Duration {
	n := m.pos.Load()
	if n == 0 {
		return 0
	}
	if n > meterRing {
		n = meterRing
	}
	var sum int64
	for i := uint64(0); i < n; i++ {
		sum += m.ring[i].Load()
	}
	return time.Duration(sum / int64(n))
}

// Load returns the average block time as a fraction of the budget, or 0
// when no budget is set.
func (m *Meter) Load() float64 {
	budget := m.budget.Load()
	if budget == 0 {
		return 0
	}
	return float64(m.Average()) / float64(budget)
}

// Reset clears all counters. Not synchronized against Record; call it
// while rendering is stopped.
func (m *Meter) Reset() {
	m.blocks.Store(0)
	m.over.Store(0)
	m.maxNs.Store(0)
	m.pos.Store(0)
	for i := range m.ring {
		m.ring[i].Store(0)
	}
}
