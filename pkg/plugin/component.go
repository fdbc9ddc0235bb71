package plugin

import (
	"github.com/beamer-audio/beamer-go/pkg/framework/bus"
	"github.com/beamer-audio/beamer-go/pkg/framework/lifecycle"
	"github.com/beamer-audio/beamer-go/pkg/framework/param"
	"github.com/beamer-audio/beamer-go/pkg/framework/render"
	"github.com/beamer-audio/beamer-go/pkg/vst3"
)

// componentWrapper binds one host component to its lifecycle instance
// plus the storage the process callback reuses every block. Everything
// here is sized at setup so the audio thread never grows a slice.
type componentWrapper struct {
	inst    *lifecycle.Instance
	handler *vst3.Handler

	layout bus.CachedConfig
	double bool

	block    render.HostBlock
	changes  []render.ParamChange
	in       [][]float32
	out      [][]float32
	in64     [][]float64
	out64    [][]float64
	aux      [][][]float32
	auxOut   [][][]float32
	aux64    [][][]float64
	auxOut64 [][][]float64

	// readonly holds meter-style parameters whose values flow back to
	// the host through output parameter changes; lastSent suppresses
	// repeats.
	readonly []param.Param
	lastSent []float64
}

func newComponentWrapper() (*componentWrapper, error) {
	inst, err := newInstance()
	if err != nil {
		return nil, err
	}
	w := &componentWrapper{inst: inst}
	w.layout = inst.Buses().Snapshot()
	lay := w.layout.Layout()

	w.changes = make([]render.ParamChange, 0, inst.Params().Count())
	w.in = make([][]float32, 0, lay.MainInputs)
	w.out = make([][]float32, 0, lay.MainOutputs)
	w.in64 = make([][]float64, 0, lay.MainInputs)
	w.out64 = make([][]float64, 0, lay.MainOutputs)
	w.aux = make([][][]float32, len(lay.AuxInputs))
	w.aux64 = make([][][]float64, len(lay.AuxInputs))
	for i, ch := range lay.AuxInputs {
		w.aux[i] = make([][]float32, 0, ch)
		w.aux64[i] = make([][]float64, 0, ch)
	}
	w.auxOut = make([][][]float32, len(lay.AuxOutputs))
	w.auxOut64 = make([][][]float64, len(lay.AuxOutputs))
	for i, ch := range lay.AuxOutputs {
		w.auxOut[i] = make([][]float32, 0, ch)
		w.auxOut64[i] = make([][]float64, 0, ch)
	}

	inst.Params().Each(func(p param.Param) {
		if p.Info().Flags&param.IsReadOnly != 0 {
			w.readonly = append(w.readonly, p)
			w.lastSent = append(w.lastSent, p.Normalized())
		}
	})
	return w, nil
}

// flushReadonly writes changed meter values into the host's output
// parameter change list. Called at the end of each processed block.
func (w *componentWrapper) flushReadonly(d vst3.ProcessData) {
	for i, p := range w.readonly {
		v := p.Normalized()
		if v == w.lastSent[i] {
			continue
		}
		if d.AddOutputParamChange(p.Info().ID, 0, v) {
			w.lastSent[i] = v
		}
	}
}

// release detaches host resources; the instance itself is torn down by
// terminate.
func (w *componentWrapper) release() {
	w.handler.Release()
	w.handler = nil
}
