package midi

import (
	"testing"

	"github.com/beamer-audio/beamer-go/pkg/framework/param"
)

func TestCcParamIDRoundTrip(t *testing.T) {
	for _, c := range []struct{ channel, slot int }{
		{0, 0}, {0, 127}, {0, CcSlotPitchBend}, {15, CcSlotProgramChange}, {7, 74},
	} {
		id := CcParamID(c.channel, c.slot)
		ch, slot, ok := CcParamSlot(id)
		if !ok || ch != c.channel || slot != c.slot {
			t.Errorf("round trip (%d,%d) -> %08x -> (%d,%d,%v)", c.channel, c.slot, id, ch, slot, ok)
		}
	}
	if _, _, ok := CcParamSlot(0x1000); ok {
		t.Error("ID below the reserved range accepted")
	}
	if _, _, ok := CcParamSlot(CcParamBase + 16*CcSlotCount); ok {
		t.Error("ID past channel 15 accepted")
	}
}

func TestCcBridgeParams(t *testing.T) {
	var cfg CcConfig
	cfg.ExposeCC(0, 74).ExposePitchBend(0).ExposeCC(1, 1)

	b := NewCcBridge(cfg)
	if len(b.Params()) != 3 {
		t.Fatalf("param count = %d, want 3", len(b.Params()))
	}
	for _, p := range b.Params() {
		if !p.Info().Hidden() {
			t.Errorf("%s: bridge parameter not hidden", p.Info().Key)
		}
		if !b.Owns(p.Info().ID) {
			t.Errorf("%s: bridge does not own its own ID", p.Info().Key)
		}
	}

	// Bridge params register cleanly alongside hashed-key params.
	reg := param.NewRegistry()
	reg.MustAdd(param.NewFloat("gain", "Gain").MustBuild())
	if err := reg.Add(b.Params()...); err != nil {
		t.Fatalf("registry rejected bridge params: %v", err)
	}
}

func TestCcBridgeDrain(t *testing.T) {
	var cfg CcConfig
	cfg.ExposeCC(2, 74).ExposePitchBend(3).ExposeProgramChange(0).ExposeChannelPressure(1)
	b := NewCcBridge(cfg)

	var out Buffer
	b.Drain(&out)
	if out.Len() != 0 {
		t.Fatal("Drain with no writes emitted events")
	}

	if !b.SetNormalized(CcParamID(2, 74), 1, 16) {
		t.Fatal("SetNormalized rejected an owned ID")
	}
	b.SetNormalized(CcParamID(3, CcSlotPitchBend), 1, 16)
	b.SetNormalized(CcParamID(0, CcSlotProgramChange), 10.0/127, 16)
	b.SetNormalized(CcParamID(1, CcSlotChannelPressure), 0.5, 16)
	if b.SetNormalized(0xDEAD, 0.5, 0) {
		t.Error("SetNormalized accepted a foreign ID")
	}

	b.Drain(&out)
	if out.Len() != 4 {
		t.Fatalf("drained %d events, want 4", out.Len())
	}
	byKind := map[Kind]Event{}
	for _, e := range out.Events() {
		if e.Frame != 16 {
			t.Errorf("event frame = %d, want 16 (host offset carried)", e.Frame)
		}
		byKind[e.Kind] = e
	}
	if e := byKind[KindControlChange]; e.Channel != 2 || e.Key != 74 || e.Value != 1 {
		t.Errorf("CC event = %+v", e)
	}
	if e := byKind[KindPitchBend]; e.Channel != 3 || e.Value != 1 {
		t.Errorf("bend event = %+v, want full-up bend", e)
	}
	if e := byKind[KindProgramChange]; e.Key != 10 {
		t.Errorf("program event = %+v, want program 10", e)
	}

	// State reflects the writes after the block.
	if got := b.State().Get(2, 74); got != 1 {
		t.Errorf("state (2,74) = %g, want 1", got)
	}

	// Flags clear after draining.
	out.Clear()
	b.Drain(&out)
	if out.Len() != 0 {
		t.Error("second Drain re-emitted stale events")
	}
}

func TestCcBridgeApplyEvent(t *testing.T) {
	var cfg CcConfig
	cfg.ExposeCC(0, 1).ExposePitchBend(0)
	b := NewCcBridge(cfg)

	b.ApplyEvent(ControlChange(0, 0, 1, 0.75))
	if got := b.State().Get(0, 1); got != 0.75 {
		t.Errorf("mod wheel state = %g, want 0.75", got)
	}

	b.ApplyEvent(PitchBend(0, 0, 1))
	if got := b.State().Get(0, CcSlotPitchBend); got != 1 {
		t.Errorf("bend state = %g, want 1 (normalized full up)", got)
	}

	// Unexposed pairs are left alone.
	b.ApplyEvent(ControlChange(0, 5, 1, 0.9))
	if got := b.State().Get(5, 1); got != 0 {
		t.Errorf("unexposed channel state = %g, want untouched 0", got)
	}

	// Notes never touch controller state.
	b.ApplyEvent(NoteOn(0, 0, 60, 1))
}

func TestCcBridgePitchBendCentered(t *testing.T) {
	var cfg CcConfig
	cfg.ExposePitchBend(0)
	b := NewCcBridge(cfg)

	id := CcParamID(0, CcSlotPitchBend)
	p := b.Params()[0]
	if p.Normalized() != 0.5 {
		t.Errorf("bend default normalized = %g, want 0.5 (centered)", p.Normalized())
	}

	var out Buffer
	b.SetNormalized(id, 0.5, 0)
	b.Drain(&out)
	if out.Len() != 1 || out.At(0).Value != 0 {
		t.Errorf("centered write produced %+v", out.At(0))
	}
}

func TestCcConfigEmpty(t *testing.T) {
	var cfg CcConfig
	if !cfg.Empty() {
		t.Error("fresh config should be empty")
	}
	cfg.ExposeCC(5, 11)
	if cfg.Empty() || !cfg.Exposed(5, 11) || cfg.Exposed(5, 12) {
		t.Error("Expose bookkeeping wrong")
	}
	if cfg.Exposed(-1, 0) || cfg.Exposed(0, CcSlotCount) {
		t.Error("out-of-range queries should be false")
	}
}
