package voice

import (
	"testing"

	"github.com/beamer-audio/beamer-go/pkg/midi"
)

type fakeVoice struct {
	active    bool
	note      uint8
	velocity  float64
	amplitude float64
	age       int64
	triggers  int
}

func (v *fakeVoice) Active() bool       { return v.active }
func (v *fakeVoice) Note() uint8        { return v.note }
func (v *fakeVoice) Amplitude() float64 { return v.amplitude }
func (v *fakeVoice) Age() int64         { return v.age }

func (v *fakeVoice) Trigger(note uint8, velocity float64) {
	v.note = note
	if velocity < 0 {
		// Legato pitch change, envelope keeps running.
		return
	}
	v.active = true
	v.velocity = velocity
	v.amplitude = velocity
	v.age = 0
	v.triggers++
}

func (v *fakeVoice) Release() { v.active = false }
func (v *fakeVoice) Stop()    { v.active = false; v.note = 0 }

func makeVoices(n int) ([]Voice, []*fakeVoice) {
	voices := make([]Voice, n)
	fakes := make([]*fakeVoice, n)
	for i := range voices {
		fv := &fakeVoice{}
		voices[i] = fv
		fakes[i] = fv
	}
	return voices, fakes
}

func TestAllocatorPoly(t *testing.T) {
	voices, fakes := makeVoices(4)
	a := NewAllocator(voices)

	a.NoteOn(60, 0.8)
	a.NoteOn(64, 0.8)
	a.NoteOn(67, 0.8)
	if got := a.ActiveCount(); got != 3 {
		t.Fatalf("ActiveCount = %d, want 3", got)
	}

	a.NoteOff(64)
	if got := a.ActiveCount(); got != 2 {
		t.Fatalf("ActiveCount after note off = %d, want 2", got)
	}

	// Retrigger reuses the voice already sounding the note.
	a.NoteOn(60, 0.5)
	var found *fakeVoice
	for _, fv := range fakes {
		if fv.active && fv.note == 60 {
			found = fv
			break
		}
	}
	if found == nil {
		t.Fatal("note 60 not sounding after retrigger")
	}
	if found.velocity != 0.5 {
		t.Fatalf("retrigger velocity = %v, want 0.5", found.velocity)
	}
	if got := a.ActiveCount(); got != 2 {
		t.Fatalf("retrigger changed voice count: %d", got)
	}
}

func TestAllocatorRoundRobinOrder(t *testing.T) {
	voices, fakes := makeVoices(4)
	a := NewAllocator(voices)

	a.NoteOn(60, 0.8)
	if !fakes[0].active || fakes[0].note != 60 {
		t.Fatalf("first note landed on %+v, want voice 0", fakes[0])
	}
	a.NoteOn(64, 0.8)
	a.NoteOn(67, 0.8)
	if fakes[1].note != 64 || fakes[2].note != 67 {
		t.Fatal("allocation should rotate through voices in index order")
	}

	// A freed earlier voice is skipped: rotation keeps moving forward so
	// releases spread across the pool.
	fakes[1].active = false
	a.NoteOn(72, 0.8)
	if !fakes[3].active || fakes[3].note != 72 {
		t.Fatalf("rotation should reach voice 3 next, got %+v", fakes[3])
	}

	a.Reset()
	a.NoteOn(48, 0.8)
	if fakes[0].note != 48 {
		t.Error("Reset should restart allocation at voice 0")
	}
}

func TestAllocatorMono(t *testing.T) {
	voices, fakes := makeVoices(4)
	a := NewAllocator(voices)
	a.SetMode(ModeMono)

	a.NoteOn(60, 0.8)
	a.NoteOn(64, 0.8)
	a.NoteOn(67, 0.8)

	if got := a.ActiveCount(); got != 1 {
		t.Fatalf("ActiveCount = %d, want 1", got)
	}
	if fakes[0].note != 67 {
		t.Fatalf("mono voice note = %d, want 67", fakes[0].note)
	}
	if fakes[0].triggers != 3 {
		t.Fatalf("mono retrigger count = %d, want 3", fakes[0].triggers)
	}

	// Releasing a stale note leaves the current one sounding.
	a.NoteOff(60)
	if got := a.ActiveCount(); got != 1 {
		t.Fatalf("stale note off stopped the voice")
	}
	a.NoteOff(67)
	if got := a.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount after release = %d, want 0", got)
	}
}

func TestAllocatorLegato(t *testing.T) {
	voices, fakes := makeVoices(2)
	a := NewAllocator(voices)
	a.SetMode(ModeLegato)

	a.NoteOn(60, 0.8)
	if !fakes[0].active || fakes[0].note != 60 {
		t.Fatal("first note did not trigger")
	}

	a.NoteOn(64, 0.8)
	if fakes[0].triggers != 1 {
		t.Fatalf("legato transition retriggered: %d triggers", fakes[0].triggers)
	}
	if fakes[0].note != 64 {
		t.Fatalf("legato voice note = %d, want 64", fakes[0].note)
	}
	if !a.Gliding() {
		t.Fatal("Gliding = false during legato transition")
	}
	if a.PreviousNote() != 60 {
		t.Fatalf("PreviousNote = %d, want 60", a.PreviousNote())
	}
}

func TestAllocatorUnison(t *testing.T) {
	voices, fakes := makeVoices(4)
	a := NewAllocator(voices)
	a.SetMode(ModeUnison)
	a.SetUnisonDetune(20)

	a.NoteOn(60, 0.8)
	for i, fv := range fakes {
		if !fv.active || fv.note != 60 {
			t.Fatalf("voice %d not stacked on note 60", i)
		}
	}

	if d := a.Detune(0); d != -10 {
		t.Fatalf("Detune(0) = %v, want -10", d)
	}
	if d := a.Detune(3); d != 10 {
		t.Fatalf("Detune(3) = %v, want 10", d)
	}

	a.NoteOff(60)
	if got := a.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount after unison release = %d, want 0", got)
	}
}

func TestAllocatorStealing(t *testing.T) {
	t.Run("oldest", func(t *testing.T) {
		voices, fakes := makeVoices(2)
		a := NewAllocator(voices)

		a.NoteOn(60, 0.8)
		a.NoteOn(64, 0.8)
		fakes[0].age = 1000
		fakes[1].age = 10

		a.NoteOn(67, 0.8)
		if fakes[0].note == 60 && fakes[0].active {
			t.Fatal("oldest voice was not stolen")
		}
		if got := a.ActiveCount(); got != 2 {
			t.Fatalf("ActiveCount = %d, want 2", got)
		}
	})

	t.Run("quietest", func(t *testing.T) {
		voices, fakes := makeVoices(2)
		a := NewAllocator(voices)
		a.SetSteal(StealQuietest)

		a.NoteOn(60, 0.9)
		a.NoteOn(64, 0.2)

		a.NoteOn(67, 0.8)
		if fakes[1].note != 67 {
			t.Fatalf("quietest voice kept note %d, want 67", fakes[1].note)
		}
	})

	t.Run("none", func(t *testing.T) {
		voices, _ := makeVoices(2)
		a := NewAllocator(voices)
		a.SetSteal(StealNone)

		a.NoteOn(60, 0.8)
		a.NoteOn(64, 0.8)
		a.NoteOn(67, 0.8)
		if got := a.ActiveCount(); got != 2 {
			t.Fatalf("StealNone grew the pool: %d voices", got)
		}
	})
}

func TestAllocatorSustainPedal(t *testing.T) {
	voices, _ := makeVoices(4)
	a := NewAllocator(voices)

	a.SetSustain(true)
	a.NoteOn(60, 0.8)
	a.NoteOn(64, 0.8)
	a.NoteOff(60)
	a.NoteOff(64)

	if got := a.ActiveCount(); got != 2 {
		t.Fatalf("pedal down released notes: %d active", got)
	}

	a.SetSustain(false)
	if got := a.ActiveCount(); got != 0 {
		t.Fatalf("pedal up left %d voices sounding", got)
	}
}

func TestAllocatorHandleEvent(t *testing.T) {
	voices, _ := makeVoices(2)
	a := NewAllocator(voices)

	a.HandleEvent(midi.NoteOn(0, 0, 60, 0.8))
	if got := a.ActiveCount(); got != 1 {
		t.Fatalf("ActiveCount = %d, want 1", got)
	}

	// Sustain pedal through the generic event path.
	a.HandleEvent(midi.ControlChange(0, 0, 64, 1))
	a.HandleEvent(midi.NoteOff(0, 0, 60, 0))
	if got := a.ActiveCount(); got != 1 {
		t.Fatal("note released while pedal held")
	}
	a.HandleEvent(midi.ControlChange(0, 0, 64, 0))
	if got := a.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount after pedal up = %d, want 0", got)
	}

	// Note-on with zero velocity counts as note-off.
	a.HandleEvent(midi.NoteOn(0, 0, 72, 0.8))
	a.HandleEvent(midi.NoteOn(0, 0, 72, 0))
	if got := a.ActiveCount(); got != 0 {
		t.Fatalf("zero-velocity note-on did not release: %d active", got)
	}
}
