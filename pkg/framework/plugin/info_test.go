package plugin

import "testing"

func TestUIDDeterministic(t *testing.T) {
	a := Info{ID: "com.beamer.examples.gain"}
	b := Info{ID: "com.beamer.examples.gain"}
	if a.UID() != b.UID() {
		t.Error("same ID produced different UIDs")
	}
	if a.UID() == (Info{ID: "com.beamer.examples.synth"}).UID() {
		t.Error("different IDs produced the same UID")
	}
}

func TestUIDWellFormed(t *testing.T) {
	uid := Info{ID: "com.beamer.test"}.UID()
	if uid[6]>>4 != 3 {
		t.Errorf("version nibble = %x, want 3 (name-based)", uid[6]>>4)
	}
	if uid[8]&0xC0 != 0x80 {
		t.Errorf("variant bits = %08b, want 10xxxxxx", uid[8])
	}
}

func TestUIDString(t *testing.T) {
	s := Info{ID: "com.beamer.test"}.UIDString()
	if len(s) != 32 {
		t.Fatalf("UIDString length = %d, want 32", len(s))
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			t.Fatalf("UIDString contains %q, want uppercase hex", c)
		}
	}
}

func TestValidate(t *testing.T) {
	good := Info{ID: "com.beamer.gain", Name: "Gain", Category: CategoryFx}
	if err := good.Validate(); err != nil {
		t.Errorf("valid info rejected: %v", err)
	}

	for _, bad := range []Info{
		{Name: "Gain", Category: CategoryFx},
		{ID: "com.beamer.gain", Category: CategoryFx},
		{ID: "com.beamer.gain", Name: "Gain"},
		{ID: "has space", Name: "Gain", Category: CategoryFx},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("%+v: expected a validation error", bad)
		}
	}
}
