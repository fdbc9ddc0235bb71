package param

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/beamer-audio/beamer-go/pkg/framework/fwerr"
)

func newTestRegistry(t *testing.T) (*Registry, *Float, *Float) {
	t.Helper()
	r := NewRegistry()
	r.SetGroups(NewGroupTable(
		Group{ID: 1, Name: "Tone", ParentID: RootGroupID},
	))
	gain := NewFloat("gain", "Gain").Range(-60, 12).Default(0).
		Smooth(SmoothLinear, 10).MustBuild()
	cutoff := NewFloat("cutoff", "Cutoff").LogRange(20, 20000).Default(1000).MustBuild()
	cutoff.Info().GroupID = 1
	r.MustAdd(gain, cutoff)
	r.SetSampleRate(48000)
	return r, gain, cutoff
}

func TestStateRoundTrip(t *testing.T) {
	r, gain, cutoff := newTestRegistry(t)

	gain.SetNormalized(0.5)
	cutoff.SetNormalized(0.75)
	blob, err := r.StateBytes()
	if err != nil {
		t.Fatal(err)
	}

	gain.SetNormalized(0)
	cutoff.SetNormalized(0)
	if err := r.LoadStateBytes(blob); err != nil {
		t.Fatal(err)
	}
	if gain.Normalized() != 0.5 || cutoff.Normalized() != 0.75 {
		t.Errorf("restored (%g, %g), want (0.5, 0.75)", gain.Normalized(), cutoff.Normalized())
	}
}

func TestStatePathsIncludeGroups(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	blob, err := r.StateBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(blob, []byte("Tone/cutoff")) {
		t.Error("grouped parameter path should be Tone/cutoff")
	}
	if !bytes.Contains(blob, []byte{4, 'g', 'a', 'i', 'n'}) {
		t.Error("root parameter path should be bare key with length prefix")
	}
}

func TestStateUnknownPathSkipped(t *testing.T) {
	r, gain, _ := newTestRegistry(t)
	gain.SetNormalized(0.25)

	var buf bytes.Buffer
	// A record for a parameter this plugin never had.
	path := "Removed/old"
	buf.WriteByte(byte(len(path)))
	buf.WriteString(path)
	var val [8]byte
	binary.LittleEndian.PutUint64(val[:], math.Float64bits(0.9))
	buf.Write(val[:])

	if err := r.LoadStateBytes(buf.Bytes()); err != nil {
		t.Fatalf("unknown path must be skipped, got %v", err)
	}
	if gain.Normalized() != 0.25 {
		t.Error("unrelated parameter was touched")
	}
}

func TestStateClampsOnLoad(t *testing.T) {
	r, gain, _ := newTestRegistry(t)

	var buf bytes.Buffer
	buf.WriteByte(4)
	buf.WriteString("gain")
	var val [8]byte
	binary.LittleEndian.PutUint64(val[:], math.Float64bits(3.5))
	buf.Write(val[:])

	if err := r.LoadStateBytes(buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if gain.Normalized() != 1 {
		t.Errorf("out-of-range value should clamp to 1, got %g", gain.Normalized())
	}
}

func TestStateTruncatedRecord(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	blob := []byte{10, 'p', 'a', 'r'} // promises 10 path bytes, delivers 3
	err := r.LoadStateBytes(blob)
	if !errors.Is(err, fwerr.ErrStateFormat) {
		t.Errorf("want ErrStateFormat, got %v", err)
	}
}

func TestSmootherResetAfterLoad(t *testing.T) {
	r, gain, _ := newTestRegistry(t)

	gain.SetNormalized(1)
	blob, _ := r.StateBytes()

	gain.SetNormalized(0)
	gain.SyncSmoother()
	gain.Smoother().Next()

	if err := r.LoadStateBytes(blob); err != nil {
		t.Fatal(err)
	}
	r.ResetSmoothers()

	s := gain.Smoother()
	if !s.Done() {
		t.Error("smoother must hold no residual ramp after a state load")
	}
	if math.Abs(s.Current()-gain.Plain()) > 1e-9 {
		t.Errorf("smoother current %g != plain %g", s.Current(), gain.Plain())
	}
}
