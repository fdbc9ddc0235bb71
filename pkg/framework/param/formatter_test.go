package param

import (
	"math"
	"testing"
)

func TestDecibelFormatter(t *testing.T) {
	f := DecibelFormatter{Floor: -60}

	if got := f.Format(-24); got != "-24.00 dB" {
		t.Errorf("Format(-24) = %q", got)
	}
	if got := f.Format(-60); got != "-60.00 dB" {
		t.Errorf("Format at floor = %q, want -60.00 dB", got)
	}
	if got := f.Format(-60.01); got != "-inf dB" {
		t.Errorf("Format below floor = %q, want -inf dB", got)
	}
	if v, err := f.Parse("-60 dB"); err != nil || v != -60 {
		t.Errorf("Parse(-60 dB) = %g, %v", v, err)
	}
	if v, err := f.Parse("-inf dB"); err != nil || v != -60 {
		t.Errorf("Parse(-inf dB) = %g, %v, want floor", v, err)
	}
}

func TestLinearGainFormatter(t *testing.T) {
	f := LinearGainFormatter{}
	if got := f.Format(1); got != "0.00 dB" {
		t.Errorf("unity gain = %q", got)
	}
	if got := f.Format(0); got != "-inf dB" {
		t.Errorf("zero gain = %q", got)
	}
	v, err := f.Parse("6.02 dB")
	if err != nil || math.Abs(v-2) > 0.01 {
		t.Errorf("Parse(6.02 dB) = %g, %v, want ~2", v, err)
	}
}

func TestFrequencyFormatter(t *testing.T) {
	f := FrequencyFormatter{}

	if got := f.Format(440); got != "440.0 Hz" {
		t.Errorf("Format(440) = %q", got)
	}
	if got := f.Format(1000); got != "1.00 kHz" {
		t.Errorf("Format(1000) = %q, kHz expected at 1000 and above", got)
	}
	if got := f.Format(12500); got != "12.50 kHz" {
		t.Errorf("Format(12500) = %q", got)
	}

	for _, s := range []string{"440.0 Hz", "1.00 kHz", "12.50 kHz"} {
		v, err := f.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if f.Format(v) != s {
			t.Errorf("round trip of %q produced %q", s, f.Format(v))
		}
	}
}

func TestPanFormatter(t *testing.T) {
	f := PanFormatter{}

	cases := []struct {
		pan  float64
		want string
	}{
		{0, "C"},
		{-0.5, "L50"},
		{1, "R100"},
		{0.25, "R25"},
	}
	for _, c := range cases {
		if got := f.Format(c.pan); got != c.want {
			t.Errorf("Format(%g) = %q, want %q", c.pan, got, c.want)
		}
		v, err := f.Parse(c.want)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.want, err)
		}
		if math.Abs(v-c.pan) > 0.005 {
			t.Errorf("Parse(%q) = %g, want %g", c.want, v, c.pan)
		}
	}
}

func TestRatioFormatter(t *testing.T) {
	f := RatioFormatter{Ceiling: 1000}

	if got := f.Format(4); got != "4.0:1" {
		t.Errorf("Format(4) = %q", got)
	}
	if got := f.Format(101); got != "∞:1" {
		t.Errorf("ratios over 100 should render as ∞:1, got %q", got)
	}
	if v, err := f.Parse("∞:1"); err != nil || v != 1000 {
		t.Errorf("Parse(∞:1) = %g, %v", v, err)
	}
	if v, err := f.Parse("4.0:1"); err != nil || v != 4 {
		t.Errorf("Parse(4.0:1) = %g, %v", v, err)
	}
}

func TestPercentFormatter(t *testing.T) {
	f := PercentFormatter{}
	if got := f.Format(0.5); got != "50 %" {
		t.Errorf("Format(0.5) = %q", got)
	}
	if v, err := f.Parse("50 %"); err != nil || v != 0.5 {
		t.Errorf("Parse(50 %%) = %g, %v", v, err)
	}
}

func TestTimeFormatters(t *testing.T) {
	ms := MillisecondsFormatter{}
	if got := ms.Format(12.5); got != "12.5 ms" {
		t.Errorf("ms format = %q", got)
	}
	if v, err := ms.Parse("12.5 ms"); err != nil || v != 12.5 {
		t.Errorf("ms parse = %g, %v", v, err)
	}

	sec := SecondsFormatter{}
	if got := sec.Format(1.25); got != "1.25 s" {
		t.Errorf("s format = %q", got)
	}
	if v, err := sec.Parse("1.25 s"); err != nil || v != 1.25 {
		t.Errorf("s parse = %g, %v", v, err)
	}
}

func TestSemitonesFormatter(t *testing.T) {
	f := SemitonesFormatter{}
	if got := f.Format(7); got != "+7.0 st" {
		t.Errorf("Format(7) = %q", got)
	}
	if v, err := f.Parse("+7.0 st"); err != nil || v != 7 {
		t.Errorf("Parse = %g, %v", v, err)
	}
	if v, err := f.Parse("-12.0 st"); err != nil || v != -12 {
		t.Errorf("Parse = %g, %v", v, err)
	}
}

func TestOnOffFormatter(t *testing.T) {
	f := OnOffFormatter{}
	if f.Format(1) != "On" || f.Format(0) != "Off" {
		t.Error("toggle formatting broken")
	}
	if _, err := f.Parse("maybe"); err == nil {
		t.Error("junk input should fail to parse")
	}
}
