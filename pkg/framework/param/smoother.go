package param

import "math"

// SmoothStyle selects the interpolation a Smoother applies between the
// current value and its target.
type SmoothStyle int

const (
	// SmoothNone snaps straight to the target.
	SmoothNone SmoothStyle = iota
	// SmoothLinear reaches the target in exactly TimeMs milliseconds.
	SmoothLinear
	// SmoothExponential is a one-pole low-pass with time constant TimeMs;
	// it covers ~63% of the remaining distance per time constant.
	SmoothExponential
	// SmoothLogarithmic is the exponential filter applied in log domain.
	// Only defined for strictly positive values; frequency-like parameters
	// are the intended use.
	SmoothLogarithmic
)

// snapEpsilon is the distance at which a smoother locks onto its target,
// both to terminate ramps and to keep denormals out of the filter state.
const snapEpsilon = 1e-8

// Smoother interpolates a plain parameter value over time to suppress
// zipper noise. Next, Skip and Fill mutate state and belong to the audio
// thread; configuration happens before the smoother is handed over.
type Smoother struct {
	style      SmoothStyle
	timeMs     float64
	sampleRate float64

	current float64
	target  float64

	step  float64 // linear increment per sample
	coeff float64 // one-pole feedback coefficient

	logCurrent float64
	logTarget  float64
}

// NewSmoother builds a smoother of the given style and time constant.
func NewSmoother(style SmoothStyle, timeMs float64) *Smoother {
	return &Smoother{style: style, timeMs: timeMs}
}

// SetSampleRate derives the per-sample coefficients. Must be called before
// the first Next, and again whenever the host changes rate.
func (s *Smoother) SetSampleRate(sr float64) {
	s.sampleRate = sr
	samples := s.timeMs * sr / 1000.0
	if samples < 1 {
		samples = 1
	}
	s.coeff = math.Exp(-1.0 / samples)
	s.retarget()
}

// Reset snaps current and target to v, cancelling any ramp in flight.
func (s *Smoother) Reset(v float64) {
	s.current = v
	s.target = v
	s.step = 0
	if s.style == SmoothLogarithmic && v > 0 {
		s.logCurrent = math.Log(v)
		s.logTarget = s.logCurrent
	}
}

// SetTarget starts a ramp toward v.
func (s *Smoother) SetTarget(v float64) {
	s.target = v
	s.retarget()
}

func (s *Smoother) retarget() {
	switch s.style {
	case SmoothNone:
		s.current = s.target
	case SmoothLinear:
		samples := s.timeMs * s.sampleRate / 1000.0
		if samples < 1 {
			samples = 1
		}
		s.step = (s.target - s.current) / samples
	case SmoothLogarithmic:
		cur := s.current
		tgt := s.target
		if cur <= 0 || tgt <= 0 {
			// Endpoint outside the log domain: degrade to a snap.
			s.current = s.target
			return
		}
		s.logCurrent = math.Log(cur)
		s.logTarget = math.Log(tgt)
	}
}

// Target returns the value the smoother is heading toward.
func (s *Smoother) Target() float64 { return s.target }

// Current returns the value without advancing.
func (s *Smoother) Current() float64 { return s.current }

// Done reports whether the ramp has settled on the target.
func (s *Smoother) Done() bool { return s.current == s.target }

// Next advances one sample and returns the new value.
func (s *Smoother) Next() float64 {
	if s.current == s.target {
		return s.current
	}
	switch s.style {
	case SmoothNone:
		s.current = s.target
	case SmoothLinear:
		s.current += s.step
		if (s.step > 0 && s.current >= s.target) || (s.step < 0 && s.current <= s.target) ||
			math.Abs(s.current-s.target) < snapEpsilon {
			s.current = s.target
		}
	case SmoothExponential:
		s.current = s.target + (s.current-s.target)*s.coeff
		if math.Abs(s.current-s.target) < snapEpsilon {
			s.current = s.target
		}
	case SmoothLogarithmic:
		s.logCurrent = s.logTarget + (s.logCurrent-s.logTarget)*s.coeff
		if math.Abs(s.logCurrent-s.logTarget) < snapEpsilon {
			s.logCurrent = s.logTarget
			s.current = s.target
		} else {
			s.current = math.Exp(s.logCurrent)
		}
	}
	return s.current
}

// Skip advances n samples in closed form, as if Next had been called n
// times. Used when a block needs only the end-of-block value.
func (s *Smoother) Skip(n int) float64 {
	if n <= 0 || s.current == s.target {
		return s.current
	}
	switch s.style {
	case SmoothNone:
		s.current = s.target
	case SmoothLinear:
		s.current += s.step * float64(n)
		if (s.step > 0 && s.current >= s.target) || (s.step < 0 && s.current <= s.target) ||
			math.Abs(s.current-s.target) < snapEpsilon {
			s.current = s.target
		}
	case SmoothExponential:
		s.current = s.target + (s.current-s.target)*math.Pow(s.coeff, float64(n))
		if math.Abs(s.current-s.target) < snapEpsilon {
			s.current = s.target
		}
	case SmoothLogarithmic:
		s.logCurrent = s.logTarget + (s.logCurrent-s.logTarget)*math.Pow(s.coeff, float64(n))
		if math.Abs(s.logCurrent-s.logTarget) < snapEpsilon {
			s.logCurrent = s.logTarget
			s.current = s.target
		} else {
			s.current = math.Exp(s.logCurrent)
		}
	}
	return s.current
}

// Fill writes one smoothed value per element of dst.
func (s *Smoother) Fill(dst []float64) {
	for i := range dst {
		dst[i] = s.Next()
	}
}

// Fill32 is Fill for single-precision destinations.
func (s *Smoother) Fill32(dst []float32) {
	for i := range dst {
		dst[i] = float32(s.Next())
	}
}
