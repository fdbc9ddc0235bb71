package param

import (
	"math"
	"testing"
)

func TestSmoother(t *testing.T) {
	t.Run("Linear", func(t *testing.T) {
		// 10 ms at 1 kHz = exactly 10 samples.
		s := NewSmoother(SmoothLinear, 10)
		s.SetSampleRate(1000)
		s.Reset(0)
		s.SetTarget(1)

		for i := 0; i < 10; i++ {
			v := s.Next()
			want := float64(i+1) * 0.1
			if math.Abs(v-want) > 1e-9 {
				t.Fatalf("sample %d: got %g, want %g", i, v, want)
			}
		}
		if !s.Done() {
			t.Error("should have landed on target after 10 samples")
		}
		if s.Next() != 1 {
			t.Error("should stay at target")
		}
	})

	t.Run("Exponential", func(t *testing.T) {
		// One time constant covers ~63% of the distance.
		s := NewSmoother(SmoothExponential, 10)
		s.SetSampleRate(48000)
		s.Reset(0)
		s.SetTarget(1)

		samplesPerTau := 480
		var v float64
		for i := 0; i < samplesPerTau; i++ {
			v = s.Next()
		}
		if math.Abs(v-0.632) > 0.01 {
			t.Errorf("after one time constant: %g, want ~0.632", v)
		}
	})

	t.Run("ExponentialSnaps", func(t *testing.T) {
		s := NewSmoother(SmoothExponential, 1)
		s.SetSampleRate(48000)
		s.Reset(0)
		s.SetTarget(1)
		for i := 0; i < 48000; i++ {
			s.Next()
		}
		if !s.Done() {
			t.Error("exponential ramp never snapped to target")
		}
	})

	t.Run("Logarithmic", func(t *testing.T) {
		s := NewSmoother(SmoothLogarithmic, 5)
		s.SetSampleRate(48000)
		s.Reset(100)
		s.SetTarget(1000)

		prev := 100.0
		for i := 0; i < 2000; i++ {
			v := s.Next()
			if v < prev-1e-9 {
				t.Fatal("log ramp should be monotonic upward")
			}
			prev = v
		}
		if prev > 1000+1e-6 {
			t.Errorf("overshot target: %g", prev)
		}
	})

	t.Run("None", func(t *testing.T) {
		s := NewSmoother(SmoothNone, 0)
		s.SetSampleRate(48000)
		s.Reset(0.2)
		s.SetTarget(0.9)
		if s.Next() != 0.9 {
			t.Error("SmoothNone must snap")
		}
	})

	t.Run("SkipMatchesNext", func(t *testing.T) {
		styles := []SmoothStyle{SmoothLinear, SmoothExponential}
		for _, style := range styles {
			a := NewSmoother(style, 20)
			a.SetSampleRate(48000)
			a.Reset(0.1)
			a.SetTarget(0.8)
			b := NewSmoother(style, 20)
			b.SetSampleRate(48000)
			b.Reset(0.1)
			b.SetTarget(0.8)

			for i := 0; i < 333; i++ {
				a.Next()
			}
			b.Skip(333)
			if math.Abs(a.Current()-b.Current()) > 1e-9 {
				t.Errorf("style %v: Skip(333)=%g, 333×Next=%g", style, b.Current(), a.Current())
			}
		}
	})

	t.Run("Fill", func(t *testing.T) {
		s := NewSmoother(SmoothLinear, 10)
		s.SetSampleRate(1000)
		s.Reset(0)
		s.SetTarget(1)
		dst := make([]float64, 16)
		s.Fill(dst)
		if dst[9] != 1 || dst[15] != 1 {
			t.Errorf("ramp should complete within fill: %v", dst)
		}
		if dst[0] != 0.1 {
			t.Errorf("first sample = %g, want 0.1", dst[0])
		}
	})

	t.Run("ResetCancelsRamp", func(t *testing.T) {
		s := NewSmoother(SmoothLinear, 100)
		s.SetSampleRate(48000)
		s.Reset(0)
		s.SetTarget(1)
		s.Next()
		s.Reset(0.5)
		if !s.Done() || s.Current() != 0.5 {
			t.Error("Reset must land current and target together")
		}
	})
}
