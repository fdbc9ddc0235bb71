package lifecycle

import (
	"errors"
	"testing"

	"github.com/beamer-audio/beamer-go/pkg/framework/bus"
	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
	"github.com/beamer-audio/beamer-go/pkg/framework/param"
	"github.com/beamer-audio/beamer-go/pkg/framework/plugin"
	"github.com/beamer-audio/beamer-go/pkg/framework/process"
	"github.com/beamer-audio/beamer-go/pkg/framework/render"
	"github.com/beamer-audio/beamer-go/pkg/midi"
)

type testPlugin struct {
	proc *testProc
}

func (p *testPlugin) Info() plugin.Info {
	return plugin.Info{ID: "com.beamer.test.tone", Name: "Tone", Category: plugin.CategoryFx}
}

func (p *testPlugin) CreateProcessor() plugin.Processor { return p.proc }

type testProc struct {
	plugin.Base
	cutoff     *param.Float
	prepareErr error
	prepares   int
	resets     int
	releases   int
	loads      int
	wantCc     bool
}

func newTestPlugin() *testPlugin {
	return &testPlugin{proc: &testProc{
		Base:   plugin.NewBase(bus.NewStereo()),
		cutoff: param.NewFloat("cutoff", "Cutoff").LogRange(20, 20000).Default(1000).MustBuild(),
	}}
}

func (p *testProc) DeclareParams(reg *param.Registry) error { return reg.Add(p.cutoff) }

func (p *testProc) Prepare(sampleRate float64, maxFrames int) error {
	if p.prepareErr != nil {
		return p.prepareErr
	}
	p.prepares++
	return p.Base.Prepare(sampleRate, maxFrames)
}

func (p *testProc) Reset()   { p.resets++ }
func (p *testProc) Release() { p.releases++ }

func (p *testProc) OnSaveState() error { return nil }
func (p *testProc) OnLoadState() error { p.loads++; return nil }

func (p *testProc) MidiCcConfig() midi.CcConfig {
	var cfg midi.CcConfig
	if p.wantCc {
		cfg.ExposeCC(0, 1)
	}
	return cfg
}

func (p *testProc) Process(ctx *process.Context[float32]) error {
	for ch := 0; ch < ctx.Out.NumChannels(); ch++ {
		out := ctx.Out.Channel(ch)
		for i := range out {
			out[i] = 1
		}
	}
	return nil
}

func stereoBlock(frames int) *render.HostBlock {
	mk := func() [][]float32 {
		return [][]float32{make([]float32, frames), make([]float32, frames)}
	}
	return &render.HostBlock{In: mk(), Out: mk(), Frames: frames}
}

func TestNewStartsUnprepared(t *testing.T) {
	i, err := New(newTestPlugin())
	if err != nil {
		t.Fatal(err)
	}
	if i.State() != Unprepared {
		t.Errorf("state = %v, want unprepared", i.State())
	}
	if i.Params().Count() != 1 {
		t.Errorf("param count = %d, want 1", i.Params().Count())
	}
	if i.Bridge() != nil {
		t.Error("bridge present without a MidiCcConfig")
	}
}

func TestNewRejectsBadInfo(t *testing.T) {
	if _, err := New(&invalidPlugin{}); err == nil {
		t.Error("empty ID accepted")
	}
}

type invalidPlugin struct{}

func (*invalidPlugin) Info() plugin.Info { return plugin.Info{} }
func (*invalidPlugin) CreateProcessor() plugin.Processor {
	return &testProc{Base: plugin.NewBase(nil)}
}

func TestPrepareTransitions(t *testing.T) {
	tp := newTestPlugin()
	i, _ := New(tp)

	if err := i.Prepare(48000, 512); err != nil {
		t.Fatal(err)
	}
	if i.State() != Prepared || i.SampleRate() != 48000 || i.MaxFrames() != 512 {
		t.Errorf("after prepare: %v, %g Hz, %d frames", i.State(), i.SampleRate(), i.MaxFrames())
	}

	// Hosts re-prepare on format changes without unpreparing first.
	if err := i.Prepare(96000, 1024); err != nil {
		t.Fatal(err)
	}
	if tp.proc.prepares != 2 || i.SampleRate() != 96000 {
		t.Errorf("re-prepare: %d prepares, %g Hz", tp.proc.prepares, i.SampleRate())
	}

	i.Unprepare()
	if i.State() != Unprepared || i.Engine() != nil {
		t.Error("unprepare left prepared resources behind")
	}
}

func TestPrepareFailureLeavesUnprepared(t *testing.T) {
	tp := newTestPlugin()
	tp.proc.prepareErr = errors.New("unsupported layout")
	i, _ := New(tp)

	if err := i.Prepare(48000, 512); err == nil {
		t.Fatal("prepare should have failed")
	}
	if i.State() != Unprepared {
		t.Errorf("state after failed prepare = %v, want unprepared", i.State())
	}

	if err := i.Prepare(0, 512); !errors.Is(err, fwerr.ErrHostContract) {
		t.Errorf("zero sample rate: %v, want ErrHostContract", err)
	}
}

func TestProcessRequiresPrepared(t *testing.T) {
	i, _ := New(newTestPlugin())

	if err := i.Process(stereoBlock(64)); !errors.Is(err, fwerr.ErrInvalidState) {
		t.Errorf("render while unprepared: %v, want ErrInvalidState", err)
	}

	if err := i.Prepare(44100, 256); err != nil {
		t.Fatal(err)
	}
	b := stereoBlock(64)
	if err := i.Process(b); err != nil {
		t.Fatal(err)
	}
	if b.Out[0][0] != 1 {
		t.Error("processor output missing")
	}

	i.Unprepare()
	if err := i.Process(stereoBlock(64)); !errors.Is(err, fwerr.ErrInvalidState) {
		t.Errorf("render after unprepare: %v, want ErrInvalidState", err)
	}
}

func TestParamsLegalInEveryState(t *testing.T) {
	i, _ := New(newTestPlugin())
	id := param.HashID("cutoff")

	if !i.Params().SetNormalized(id, 0.7) {
		t.Fatal("set while unprepared failed")
	}
	i.Prepare(48000, 512)
	if v, _ := i.Params().GetNormalized(id); v != 0.7 {
		t.Errorf("value after prepare = %g, want 0.7 (survives transitions)", v)
	}
	if !i.Params().SetNormalized(id, 0.3) {
		t.Error("set while prepared failed")
	}
}

func TestDeferredStateAppliedOnPrepare(t *testing.T) {
	tp := newTestPlugin()
	i, _ := New(tp)
	id := param.HashID("cutoff")

	i.Params().SetNormalized(id, 0.25)
	snapshot, err := i.StateData()
	if err != nil {
		t.Fatal(err)
	}

	// Load into a fresh, unprepared instance: payload is deferred.
	tp2 := newTestPlugin()
	j, _ := New(tp2)
	if err := j.SetStateData(snapshot); err != nil {
		t.Fatal(err)
	}
	if v, _ := j.Params().GetNormalized(id); v == 0.25 {
		t.Error("deferred state applied before prepare")
	}

	if err := j.Prepare(48000, 512); err != nil {
		t.Fatal(err)
	}
	if v, _ := j.Params().GetNormalized(id); v != 0.25 {
		t.Errorf("value after prepare = %g, want deferred 0.25", v)
	}
	if tp2.proc.loads != 1 {
		t.Errorf("load hook ran %d times, want 1", tp2.proc.loads)
	}
}

func TestStateLoadWhilePrepared(t *testing.T) {
	tp := newTestPlugin()
	i, _ := New(tp)
	i.Prepare(48000, 512)
	id := param.HashID("cutoff")

	i.Params().SetNormalized(id, 0.9)
	snapshot, _ := i.StateData()
	i.Params().SetNormalized(id, 0.1)

	if err := i.SetStateData(snapshot); err != nil {
		t.Fatal(err)
	}
	if v, _ := i.Params().GetNormalized(id); v != 0.9 {
		t.Errorf("value after load = %g, want 0.9", v)
	}
	// No residual ramps across a state boundary.
	if s := tp.proc.cutoff.Smoother(); s != nil && !s.Done() {
		t.Error("smoother still ramping after state load")
	}

	// A truncated payload is rejected before any value changes.
	i.Params().SetNormalized(id, 0.5)
	if err := i.SetStateData(snapshot[:len(snapshot)-3]); !errors.Is(err, fwerr.ErrStateFormat) {
		t.Errorf("truncated payload: %v, want ErrStateFormat", err)
	}
	if v, _ := i.Params().GetNormalized(id); v != 0.5 {
		t.Errorf("value after rejected load = %g, want untouched 0.5", v)
	}
}

func TestCcBridgeWiredWhenDeclared(t *testing.T) {
	tp := newTestPlugin()
	tp.proc.wantCc = true
	i, err := New(tp)
	if err != nil {
		t.Fatal(err)
	}
	if i.Bridge() == nil {
		t.Fatal("bridge missing despite MidiCcConfig")
	}
	if i.Params().Count() != 2 {
		t.Errorf("param count = %d, want cutoff plus one hidden controller", i.Params().Count())
	}
	if i.Params().ByID(midi.CcParamID(0, 1)) == nil {
		t.Error("hidden controller param not registered")
	}
}

func TestDeactivateResetsProcessor(t *testing.T) {
	tp := newTestPlugin()
	i, _ := New(tp)
	i.Prepare(48000, 512)
	resets := tp.proc.resets

	i.SetActive(true)
	i.SetActive(false)
	if tp.proc.resets != resets+1 {
		t.Errorf("resets = %d, want one more than %d", tp.proc.resets, resets)
	}
}

func TestTerminateReleases(t *testing.T) {
	tp := newTestPlugin()
	i, _ := New(tp)
	i.Prepare(48000, 512)
	i.Terminate()
	if tp.proc.releases != 1 {
		t.Errorf("releases = %d, want 1", tp.proc.releases)
	}
	if i.State() != Unprepared {
		t.Error("terminate left instance prepared")
	}
}
