package bus

// Layout is the channel topology negotiated with the host for one
// prepared instance: main bus channel counts plus any aux buses.
type Layout struct {
	MainInputs  int
	MainOutputs int
	AuxInputs   []int
	AuxOutputs  []int
}

// CachedConfig is the host-visible per-bus channel count snapshot taken
// when the instance is prepared. Index 0 of each slice is the main bus.
type CachedConfig struct {
	InputBuses  []int
	OutputBuses []int
}

// Layout derives the Layout view of a snapshot.
func (c CachedConfig) Layout() Layout {
	var l Layout
	if len(c.InputBuses) > 0 {
		l.MainInputs = c.InputBuses[0]
		l.AuxInputs = c.InputBuses[1:]
	}
	if len(c.OutputBuses) > 0 {
		l.MainOutputs = c.OutputBuses[0]
		l.AuxOutputs = c.OutputBuses[1:]
	}
	return l
}

// TotalInputChannels sums channel counts over all input buses.
func (c CachedConfig) TotalInputChannels() int {
	n := 0
	for _, ch := range c.InputBuses {
		n += ch
	}
	return n
}

// TotalOutputChannels sums channel counts over all output buses.
func (c CachedConfig) TotalOutputChannels() int {
	n := 0
	for _, ch := range c.OutputBuses {
		n += ch
	}
	return n
}

// MaxChannels returns the widest single bus in either direction, used to
// size per-channel scratch storage.
func (c CachedConfig) MaxChannels() int {
	m := 0
	for _, ch := range c.InputBuses {
		if ch > m {
			m = ch
		}
	}
	for _, ch := range c.OutputBuses {
		if ch > m {
			m = ch
		}
	}
	return m
}
