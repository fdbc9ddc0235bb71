package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Formatter renders a plain value as a display string (unit included) and
// parses such strings back. Parse must round-trip every well-formed output
// of Format within display precision.
type Formatter interface {
	Format(plain float64) string
	Parse(s string) (float64, error)
}

// PlainFormatter prints the value with a fixed number of decimals and an
// optional unit suffix.
type PlainFormatter struct {
	Decimals int
	Unit     string
}

// Format implements Formatter.
func (f PlainFormatter) Format(v float64) string {
	s := strconv.FormatFloat(v, 'f', f.Decimals, 64)
	if f.Unit == "" {
		return s
	}
	return s + " " + f.Unit
}

// Parse implements Formatter.
func (f PlainFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), f.Unit))
	return strconv.ParseFloat(s, 64)
}

// DecibelFormatter prints a plain dB value directly. Values below Floor
// render as "-inf dB" and parse back to Floor; the floor itself still
// prints numerically.
type DecibelFormatter struct {
	Floor float64 // typically the parameter's minimum
}

// Format implements Formatter.
func (f DecibelFormatter) Format(db float64) string {
	if db < f.Floor && f.Floor != 0 {
		return "-inf dB"
	}
	return fmt.Sprintf("%.2f dB", db)
}

// Parse implements Formatter.
func (f DecibelFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "-inf") || strings.Contains(s, "-∞") {
		return f.Floor, nil
	}
	s = strings.TrimSpace(strings.TrimSuffix(s, "dB"))
	return strconv.ParseFloat(s, 64)
}

// LinearGainFormatter displays a linear gain factor in decibels
// (20*log10), so a parameter can store the multiplier while the host shows
// dB. Zero or negative gain renders as "-inf dB".
type LinearGainFormatter struct{}

// Format implements Formatter.
func (LinearGainFormatter) Format(gain float64) string {
	if gain <= 0 {
		return "-inf dB"
	}
	return fmt.Sprintf("%.2f dB", 20*math.Log10(gain))
}

// Parse implements Formatter.
func (LinearGainFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "-inf") || strings.Contains(s, "-∞") {
		return 0, nil
	}
	db, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "dB")), 64)
	if err != nil {
		return 0, err
	}
	return math.Pow(10, db/20), nil
}

// FrequencyFormatter prints Hz, switching to kHz with two decimals at
// 1000 Hz and above.
type FrequencyFormatter struct{}

// Format implements Formatter.
func (FrequencyFormatter) Format(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}

// Parse implements Formatter.
func (FrequencyFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, "khz") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-3]), 64)
		if err != nil {
			return 0, err
		}
		return v * 1000, nil
	}
	if strings.HasSuffix(lower, "hz") {
		s = s[:len(s)-2]
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// MillisecondsFormatter prints a millisecond value.
type MillisecondsFormatter struct{}

// Format implements Formatter.
func (MillisecondsFormatter) Format(ms float64) string {
	return fmt.Sprintf("%.1f ms", ms)
}

// Parse implements Formatter.
func (MillisecondsFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "ms"))
	return strconv.ParseFloat(s, 64)
}

// SecondsFormatter prints a seconds value.
type SecondsFormatter struct{}

// Format implements Formatter.
func (SecondsFormatter) Format(sec float64) string {
	return fmt.Sprintf("%.2f s", sec)
}

// Parse implements Formatter.
func (SecondsFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ms") {
		s = s[:len(s)-1]
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// PercentFormatter prints a [0,1] fraction as a percentage.
type PercentFormatter struct{}

// Format implements Formatter.
func (PercentFormatter) Format(v float64) string {
	return fmt.Sprintf("%.0f %%", v*100)
}

// Parse implements Formatter.
func (PercentFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

// PanFormatter prints a [-1,+1] pan position: "C" at center, "L##"/"R##"
// elsewhere with ## the percentage toward that side.
type PanFormatter struct{}

// Format implements Formatter.
func (PanFormatter) Format(pan float64) string {
	if math.Abs(pan) < 0.005 {
		return "C"
	}
	if pan < 0 {
		return fmt.Sprintf("L%.0f", -pan*100)
	}
	return fmt.Sprintf("R%.0f", pan*100)
}

// Parse implements Formatter.
func (PanFormatter) Parse(s string) (float64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case s == "C" || s == "CENTER":
		return 0, nil
	case strings.HasPrefix(s, "L"):
		v, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return 0, err
		}
		return -v / 100, nil
	case strings.HasPrefix(s, "R"):
		v, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	return strconv.ParseFloat(s, 64)
}

// RatioFormatter prints compression-style ratios. Anything above 100
// renders as "∞:1" and parses back to the configured ceiling.
type RatioFormatter struct {
	Ceiling float64 // value "∞:1" parses to; 0 means 100
}

// Format implements Formatter.
func (f RatioFormatter) Format(v float64) string {
	if v > 100 {
		return "∞:1"
	}
	return fmt.Sprintf("%.1f:1", v)
}

// Parse implements Formatter.
func (f RatioFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "∞") || strings.HasPrefix(strings.ToLower(s), "inf") {
		if f.Ceiling > 0 {
			return f.Ceiling, nil
		}
		return 100, nil
	}
	s = strings.TrimSuffix(s, ":1")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// SemitonesFormatter prints pitch offsets in semitones with an explicit
// sign.
type SemitonesFormatter struct{}

// Format implements Formatter.
func (SemitonesFormatter) Format(st float64) string {
	return fmt.Sprintf("%+.1f st", st)
}

// Parse implements Formatter.
func (SemitonesFormatter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "st"))
	return strconv.ParseFloat(s, 64)
}

// OnOffFormatter renders toggles.
type OnOffFormatter struct{}

// Format implements Formatter.
func (OnOffFormatter) Format(v float64) string {
	if v > 0.5 {
		return "On"
	}
	return "Off"
}

// Parse implements Formatter.
func (OnOffFormatter) Parse(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "yes", "true", "1":
		return 1, nil
	case "off", "no", "false", "0":
		return 0, nil
	}
	return 0, fmt.Errorf("expected on or off, got %q", s)
}
