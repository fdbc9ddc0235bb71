package plugin

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// Categories hosts group plugins by.
const (
	CategoryFx         = "Fx"
	CategoryInstrument = "Instrument"
	CategoryAnalyzer   = "Analyzer"
	CategoryGenerator  = "Generator"
)

// Info is the plugin's identity as shown to hosts.
type Info struct {
	// ID is the reverse-DNS identifier, e.g. "com.example.flanger". All
	// host-facing class IDs derive from it, so it must never change once
	// a plugin has shipped.
	ID       string
	Name     string
	Version  string
	Vendor   string
	Category string
	Email    string
	URL      string
}

// UID derives the 16-byte class ID hosts use to match saved sessions to
// plugins. Name-based UUID (version 3) over the string ID, so the same
// ID always yields the same class ID on every platform.
func (i Info) UID() [16]byte {
	sum := md5.Sum([]byte(i.ID))
	sum[6] = sum[6]&0x0F | 0x30
	sum[8] = sum[8]&0x3F | 0x80
	return sum
}

// UIDString renders the class ID as 32 uppercase hex digits, the form
// VST3 bundle metadata wants.
func (i Info) UIDString() string {
	uid := i.UID()
	return strings.ToUpper(fmt.Sprintf("%x", uid[:]))
}

// Validate reports the first metadata problem, or nil.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("plugin info: empty ID")
	}
	if strings.ContainsAny(i.ID, " \t\n") {
		return fmt.Errorf("plugin info: ID %q contains whitespace", i.ID)
	}
	if i.Name == "" {
		return fmt.Errorf("plugin info: empty name")
	}
	if i.Category == "" {
		return fmt.Errorf("plugin info: empty category")
	}
	return nil
}
