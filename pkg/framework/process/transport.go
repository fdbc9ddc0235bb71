package process

// Opt is an optional value passed by value so transport snapshots never
// carry pointers onto the audio thread.
type Opt[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

// Or returns the value when present, otherwise def.
func (o Opt[T]) Or(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}

// Transport is the host timeline snapshot for one block. Fields the host
// did not report are left invalid rather than zeroed, since zero is a
// meaningful tempo and a meaningful position.
type Transport struct {
	Playing     bool
	Recording   bool
	CycleActive bool

	// SamplePos is the project position of the block's first frame.
	SamplePos int64

	Tempo        Opt[float64]
	PpqPos       Opt[float64]
	BarStartPpq  Opt[float64]
	CycleStart   Opt[float64]
	CycleEnd     Opt[float64]
	TimeSigNum   Opt[int32]
	TimeSigDenom Opt[int32]

	// SamplesToNextBeat counts from the block's first frame to the next
	// metrical boundary the host reports.
	SamplesToNextBeat Opt[int32]

	// SmpteOffset is in subframes (1/80th of a frame) at SmpteFrameRate.
	SmpteOffset    Opt[int32]
	SmpteFrameRate Opt[int32]

	// SystemTime is the host's wall clock in nanoseconds; it keeps running
	// while the project transport is stopped.
	SystemTime Opt[int64]
}

// ContinuesFrom reports whether this snapshot follows prev without a
// timeline jump, given the frame count of the previous block. A stopped
// transport never jumps.
func (t Transport) ContinuesFrom(prev Transport, prevFrames int) bool {
	if !t.Playing || !prev.Playing {
		return true
	}
	return t.SamplePos == prev.SamplePos+int64(prevFrames)
}
