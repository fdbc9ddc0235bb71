// Package debug holds opt-in render diagnostics: buffer scanning for
// output defects and a block-time meter. Nothing here runs unless a
// bridge or test asks for it.
package debug

import "math"

// clipThreshold is the absolute level counted as clipping.
const clipThreshold = 0.99

// silenceRMS is the RMS below which a buffer counts as silent.
const silenceRMS = 0.0001

// BufferStats summarizes one channel of rendered audio.
type BufferStats struct {
	Peak    float32
	RMS     float32
	DC      float32
	Clipped int
	NaNs    int
	Infs    int
}

// Clean reports whether the buffer is free of NaN and Inf samples.
func (s BufferStats) Clean() bool { return s.NaNs == 0 && s.Infs == 0 }

// Silent reports whether the buffer is effectively silence.
func (s BufferStats) Silent() bool { return s.RMS < silenceRMS }

// Scan analyzes one channel. It allocates nothing and is safe to call
// from render-thread tests.
func Scan(buf []float32) BufferStats {
	var st BufferStats
	if len(buf) == 0 {
		return st
	}

	var sum, sumSquares float64
	for _, s := range buf {
		f := float64(s)
		if math.IsNaN(f) {
			st.NaNs++
			continue
		}
		if math.IsInf(f, 0) {
			st.Infs++
			continue
		}

		abs := s
		if abs < 0 {
			abs = -abs
		}
		if abs > st.Peak {
			st.Peak = abs
		}
		if abs >= clipThreshold {
			st.Clipped++
		}
		sum += f
		sumSquares += f * f
	}

	n := float64(len(buf))
	st.RMS = float32(math.Sqrt(sumSquares / n))
	st.DC = float32(sum / n)
	return st
}
