package param

import (
	"fmt"
	"math"
)

// Mapper converts between a parameter's normalized value in [0,1] and its
// plain value in natural units. Implementations clamp at the endpoints and
// must round-trip: Normalize(Denormalize(x)) == x for x in [0,1] and the
// reverse over the mapper's valid plain domain.
type Mapper interface {
	// Denormalize converts a normalized value in [0,1] to a plain value.
	Denormalize(normalized float64) float64
	// Normalize converts a plain value to a normalized value in [0,1].
	Normalize(plain float64) float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// LinearMapper maps [0,1] linearly onto [Min,Max].
type LinearMapper struct {
	Min, Max float64
}

// Denormalize implements Mapper.
func (m LinearMapper) Denormalize(n float64) float64 {
	return m.Min + clamp01(n)*(m.Max-m.Min)
}

// Normalize implements Mapper.
func (m LinearMapper) Normalize(plain float64) float64 {
	if m.Max == m.Min {
		return 0
	}
	return clamp01((plain - m.Min) / (m.Max - m.Min))
}

// LogMapper maps [0,1] onto [Min,Max] with logarithmic spacing. Both
// endpoints must be strictly positive; frequency ranges are the usual
// client.
type LogMapper struct {
	Min, Max float64
}

// NewLogMapper validates the range and returns the mapper.
func NewLogMapper(min, max float64) (LogMapper, error) {
	if min <= 0 || max <= 0 {
		return LogMapper{}, fmt.Errorf("log mapper requires a strictly positive range, got [%g, %g]", min, max)
	}
	return LogMapper{Min: min, Max: max}, nil
}

// Denormalize implements Mapper.
func (m LogMapper) Denormalize(n float64) float64 {
	return m.Min * math.Pow(m.Max/m.Min, clamp01(n))
}

// Normalize implements Mapper.
func (m LogMapper) Normalize(plain float64) float64 {
	if plain <= m.Min {
		return 0
	}
	if plain >= m.Max {
		return 1
	}
	return math.Log(plain/m.Min) / math.Log(m.Max/m.Min)
}

// LogOffsetMapper behaves like LogMapper for ranges that touch or cross
// zero: the range is shifted into positive territory before the log
// transform and shifted back on the way out.
type LogOffsetMapper struct {
	Min, Max float64
	offset   float64
}

// NewLogOffsetMapper builds the mapper, deriving the shift that moves Min
// to +1 so the log transform stays defined over the whole range.
func NewLogOffsetMapper(min, max float64) (LogOffsetMapper, error) {
	if max <= min {
		return LogOffsetMapper{}, fmt.Errorf("log-offset mapper requires min < max, got [%g, %g]", min, max)
	}
	return LogOffsetMapper{Min: min, Max: max, offset: 1 - min}, nil
}

// Denormalize implements Mapper.
func (m LogOffsetMapper) Denormalize(n float64) float64 {
	lo := m.Min + m.offset
	hi := m.Max + m.offset
	return lo*math.Pow(hi/lo, clamp01(n)) - m.offset
}

// Normalize implements Mapper.
func (m LogOffsetMapper) Normalize(plain float64) float64 {
	lo := m.Min + m.offset
	hi := m.Max + m.offset
	p := plain + m.offset
	if p <= lo {
		return 0
	}
	if p >= hi {
		return 1
	}
	return math.Log(p/lo) / math.Log(hi/lo)
}

// PowMapper maps [0,1] onto [Min,Max] through a power curve. Exponent > 1
// gives finer resolution near Min, < 1 near Max.
type PowMapper struct {
	Min, Max float64
	Exponent float64
}

// Denormalize implements Mapper.
func (m PowMapper) Denormalize(n float64) float64 {
	return m.Min + math.Pow(clamp01(n), m.Exponent)*(m.Max-m.Min)
}

// Normalize implements Mapper.
func (m PowMapper) Normalize(plain float64) float64 {
	if m.Max == m.Min {
		return 0
	}
	t := clamp01((plain - m.Min) / (m.Max - m.Min))
	return math.Pow(t, 1/m.Exponent)
}
