package bus

import "testing"

func TestStereoConfiguration(t *testing.T) {
	c := NewStereo()

	if got := c.Count(DirectionInput); got != 1 {
		t.Errorf("input count = %d, want 1", got)
	}
	if got := c.Count(DirectionOutput); got != 1 {
		t.Errorf("output count = %d, want 1", got)
	}

	in := c.ByIndex(DirectionInput, 0)
	if in == nil {
		t.Fatal("main input bus missing")
	}
	if in.ChannelCount != 2 || in.BusType != TypeMain {
		t.Errorf("main input = %+v, want stereo main", *in)
	}
	if !in.Active {
		t.Error("buses should start active")
	}
}

func TestInstrumentHasNoInputs(t *testing.T) {
	c := NewInstrument()
	if got := c.Count(DirectionInput); got != 0 {
		t.Errorf("input count = %d, want 0", got)
	}
	if c.ByIndex(DirectionInput, 0) != nil {
		t.Error("ByIndex on empty direction should return nil")
	}
}

func TestSidechainOrdering(t *testing.T) {
	c := NewStereo().WithSidechain(1)

	if got := c.Count(DirectionInput); got != 2 {
		t.Fatalf("input count = %d, want 2", got)
	}
	main := c.ByIndex(DirectionInput, 0)
	aux := c.ByIndex(DirectionInput, 1)
	if main.BusType != TypeMain {
		t.Error("bus 0 should be the main bus")
	}
	if aux.BusType != TypeAux || aux.ChannelCount != 1 || aux.Name != "Sidechain" {
		t.Errorf("aux bus = %+v, want mono sidechain", *aux)
	}
}

func TestActivate(t *testing.T) {
	c := NewStereo()
	if !c.Activate(DirectionInput, 0, false) {
		t.Fatal("Activate on existing bus failed")
	}
	if c.ByIndex(DirectionInput, 0).Active {
		t.Error("bus still active after deactivation")
	}
	if c.Activate(DirectionOutput, 5, false) {
		t.Error("Activate on missing bus should return false")
	}
}

func TestSnapshotAndLayout(t *testing.T) {
	c := NewStereo().WithSidechain(2)
	cached := c.Snapshot()

	if got := cached.TotalInputChannels(); got != 4 {
		t.Errorf("TotalInputChannels = %d, want 4", got)
	}
	if got := cached.TotalOutputChannels(); got != 2 {
		t.Errorf("TotalOutputChannels = %d, want 2", got)
	}
	if got := cached.MaxChannels(); got != 2 {
		t.Errorf("MaxChannels = %d, want 2", got)
	}

	l := cached.Layout()
	if l.MainInputs != 2 || l.MainOutputs != 2 {
		t.Errorf("main layout = %d in / %d out, want 2/2", l.MainInputs, l.MainOutputs)
	}
	if len(l.AuxInputs) != 1 || l.AuxInputs[0] != 2 {
		t.Errorf("aux inputs = %v, want [2]", l.AuxInputs)
	}
	if len(l.AuxOutputs) != 0 {
		t.Errorf("aux outputs = %v, want none", l.AuxOutputs)
	}
}

func TestEmptyCachedConfig(t *testing.T) {
	var c CachedConfig
	l := c.Layout()
	if l.MainInputs != 0 || l.MainOutputs != 0 {
		t.Errorf("empty layout = %+v, want zeroes", l)
	}
	if c.MaxChannels() != 0 {
		t.Error("MaxChannels on empty config should be 0")
	}
}
