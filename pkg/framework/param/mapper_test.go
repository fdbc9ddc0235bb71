package param

import (
	"math"
	"testing"
)

func checkRoundTrip(t *testing.T, m Mapper) {
	t.Helper()
	for _, n := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		back := m.Normalize(m.Denormalize(n))
		if math.Abs(back-n) > 1e-9 {
			t.Errorf("normalize(denormalize(%g)) = %g", n, back)
		}
	}
}

func TestLinearMapper(t *testing.T) {
	m := LinearMapper{Min: -60, Max: 12}
	checkRoundTrip(t, m)

	if got := m.Denormalize(0.5); math.Abs(got-(-24)) > 1e-9 {
		t.Errorf("midpoint of [-60,12] = %g, want -24", got)
	}
	if got := m.Normalize(-100); got != 0 {
		t.Errorf("below-range plain should clamp to 0, got %g", got)
	}
	if got := m.Normalize(100); got != 1 {
		t.Errorf("above-range plain should clamp to 1, got %g", got)
	}
}

func TestLogMapper(t *testing.T) {
	m, err := NewLogMapper(20, 20000)
	if err != nil {
		t.Fatal(err)
	}
	checkRoundTrip(t, m)

	if got := m.Denormalize(0); math.Abs(got-20) > 1e-9 {
		t.Errorf("Denormalize(0) = %g, want 20", got)
	}
	if got := m.Denormalize(1); math.Abs(got-20000) > 1e-6 {
		t.Errorf("Denormalize(1) = %g, want 20000", got)
	}
	// Geometric midpoint, not arithmetic.
	mid := m.Denormalize(0.5)
	if math.Abs(mid-math.Sqrt(20*20000)) > 1e-6 {
		t.Errorf("log midpoint = %g, want %g", mid, math.Sqrt(20*20000))
	}

	if _, err := NewLogMapper(0, 100); err == nil {
		t.Error("zero minimum must be rejected")
	}
	if _, err := NewLogMapper(-1, 100); err == nil {
		t.Error("negative minimum must be rejected")
	}
}

func TestLogOffsetMapper(t *testing.T) {
	m, err := NewLogOffsetMapper(-60, 12)
	if err != nil {
		t.Fatal(err)
	}
	checkRoundTrip(t, m)

	if got := m.Denormalize(0); math.Abs(got-(-60)) > 1e-9 {
		t.Errorf("Denormalize(0) = %g, want -60", got)
	}
	if got := m.Denormalize(1); math.Abs(got-12) > 1e-9 {
		t.Errorf("Denormalize(1) = %g, want 12", got)
	}
}

func TestPowMapper(t *testing.T) {
	m := PowMapper{Min: 0, Max: 10, Exponent: 2}
	checkRoundTrip(t, m)

	if got := m.Denormalize(0.5); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("square curve at 0.5 = %g, want 2.5", got)
	}
}
