// Package voice allocates synthesizer voices from incoming note events.
// The allocator owns which voice plays which note; rendering the voices
// stays with the plugin. All bookkeeping is fixed-size so HandleEvent is
// safe to call from the audio thread.
package voice

import "github.com/beamer-audio/beamer-go/pkg/midi"

// Mode selects how notes map onto voices.
type Mode int

const (
	// ModePoly gives each note its own voice.
	ModePoly Mode = iota
	// ModeMono plays one note at a time, retriggering on each note-on.
	ModeMono
	// ModeLegato is mono without retriggering while a note is held.
	ModeLegato
	// ModeUnison stacks every voice on the same note.
	ModeUnison
)

// Steal selects which voice gives way when all are busy.
type Steal int

const (
	StealOldest Steal = iota
	StealQuietest
	StealHighest
	StealLowest
	// StealNone drops new notes instead of stealing.
	StealNone
)

const ccSustain = 64

// Voice is the allocator's view of one synthesizer voice. Velocity is
// normalized to [0,1].
type Voice interface {
	Active() bool
	Note() uint8
	// Amplitude is the current output level, consulted by StealQuietest.
	Amplitude() float64
	// Age is how long the voice has been sounding, in samples.
	Age() int64

	// Trigger starts a note. A negative velocity asks for a legato
	// pitch change without restarting the envelope.
	Trigger(note uint8, velocity float64)
	Release()
	Stop()
}

// Allocator routes note events to a fixed set of voices.
type Allocator struct {
	voices    []Voice
	mode      Mode
	steal     Steal
	maxVoices int
	rr        int

	sustain   bool
	sustained [128]bool

	unisonDetune float64

	// currentNote and previousNote track mono and legato state; -1
	// means no note held.
	currentNote  int16
	previousNote int16
	gliding      bool
	glideTime    float64
}

// NewAllocator wraps the given voices in poly mode with oldest-first
// stealing.
func NewAllocator(voices []Voice) *Allocator {
	return &Allocator{
		voices:       voices,
		mode:         ModePoly,
		steal:        StealOldest,
		maxVoices:    len(voices),
		currentNote:  -1,
		previousNote: -1,
	}
}

// SetMode switches the allocation mode and stops everything sounding,
// since voice ownership does not survive a mode change.
func (a *Allocator) SetMode(mode Mode) {
	a.mode = mode
	a.Reset()
}

// SetSteal selects the stealing policy.
func (a *Allocator) SetSteal(s Steal) {
	a.steal = s
}

// SetMaxVoices caps the number of voices in use, clamped to [1, len(voices)].
func (a *Allocator) SetMaxVoices(n int) {
	if n > len(a.voices) {
		n = len(a.voices)
	}
	if n < 1 {
		n = 1
	}
	a.maxVoices = n
}

// SetUnisonDetune sets the total detune spread for unison mode, in cents.
func (a *Allocator) SetUnisonDetune(cents float64) {
	a.unisonDetune = cents
}

// SetGlideTime sets the glide time for mono and legato modes, in seconds.
func (a *Allocator) SetGlideTime(seconds float64) {
	a.glideTime = seconds
}

// GlideTime returns the configured glide time in seconds.
func (a *Allocator) GlideTime() float64 { return a.glideTime }

// Gliding reports whether a legato transition is in progress. The voice
// reads PreviousNote to know where the glide starts.
func (a *Allocator) Gliding() bool { return a.gliding }

// PreviousNote returns the note held before the current one, or -1.
func (a *Allocator) PreviousNote() int16 { return a.previousNote }

// Detune returns the detune in cents for voice i under unison mode,
// spread symmetrically around zero.
func (a *Allocator) Detune(i int) float64 {
	if a.maxVoices < 2 || a.unisonDetune == 0 {
		return 0
	}
	step := a.unisonDetune / float64(a.maxVoices-1)
	return -a.unisonDetune/2 + step*float64(i)
}

// HandleEvent routes one MIDI event. Note-on with zero velocity counts
// as note-off; sustain pedal is honored, other controllers are ignored.
func (a *Allocator) HandleEvent(e midi.Event) {
	switch e.Kind {
	case midi.KindNoteOn:
		if e.Value > 0 {
			a.NoteOn(e.Key, e.Value)
		} else {
			a.NoteOff(e.Key)
		}
	case midi.KindNoteOff:
		a.NoteOff(e.Key)
	case midi.KindControlChange:
		if e.Key == ccSustain {
			a.SetSustain(e.Value >= 0.5)
		}
	}
}

// NoteOn starts a note with velocity in [0,1].
func (a *Allocator) NoteOn(note uint8, velocity float64) {
	note &= 0x7F
	a.sustained[note] = false
	switch a.mode {
	case ModePoly:
		a.noteOnPoly(note, velocity)
	case ModeMono:
		a.noteOnMono(note, velocity)
	case ModeLegato:
		a.noteOnLegato(note, velocity)
	case ModeUnison:
		a.noteOnUnison(note, velocity)
	}
}

// NoteOff releases a note, or defers the release while the sustain
// pedal is down.
func (a *Allocator) NoteOff(note uint8) {
	note &= 0x7F
	if a.sustain {
		a.sustained[note] = true
		return
	}
	switch a.mode {
	case ModePoly:
		a.releaseNote(note)
	case ModeMono, ModeLegato:
		a.noteOffMono(note)
	case ModeUnison:
		a.noteOffUnison(note)
	}
}

// SetSustain sets the pedal state. Releasing the pedal releases every
// note that went up while it was down.
func (a *Allocator) SetSustain(on bool) {
	a.sustain = on
	if on {
		return
	}
	for note := range a.sustained {
		if a.sustained[note] {
			a.sustained[note] = false
			a.NoteOff(uint8(note))
		}
	}
}

// Reset stops all voices and clears pedal and mono state.
func (a *Allocator) Reset() {
	for _, v := range a.voices {
		v.Stop()
	}
	a.sustain = false
	a.sustained = [128]bool{}
	a.currentNote = -1
	a.previousNote = -1
	a.gliding = false
	a.rr = 0
}

// ActiveCount returns how many voices are currently sounding.
func (a *Allocator) ActiveCount() int {
	n := 0
	for _, v := range a.voices[:a.maxVoices] {
		if v.Active() {
			n++
		}
	}
	return n
}

func (a *Allocator) noteOnPoly(note uint8, velocity float64) {
	// Retrigger in place if the note is already sounding.
	for _, v := range a.voices[:a.maxVoices] {
		if v.Active() && v.Note() == note {
			v.Trigger(note, velocity)
			return
		}
	}

	idx := a.findFree()
	if idx == -1 {
		idx = a.stealVoice()
		if idx == -1 {
			return
		}
	}
	a.voices[idx].Trigger(note, velocity)
}

func (a *Allocator) releaseNote(note uint8) {
	for _, v := range a.voices[:a.maxVoices] {
		if v.Active() && v.Note() == note {
			v.Release()
		}
	}
}

func (a *Allocator) noteOnMono(note uint8, velocity float64) {
	for _, v := range a.voices[:a.maxVoices] {
		if v.Active() {
			v.Stop()
		}
	}
	a.previousNote = a.currentNote
	a.currentNote = int16(note)
	a.gliding = false
	a.voices[0].Trigger(note, velocity)
}

func (a *Allocator) noteOnLegato(note uint8, velocity float64) {
	if a.currentNote < 0 {
		a.noteOnMono(note, velocity)
		return
	}
	// Held transition: hand the new pitch to the sounding voice without
	// restarting its envelope.
	a.previousNote = a.currentNote
	a.currentNote = int16(note)
	a.gliding = true
	a.voices[0].Trigger(note, -1)
}

func (a *Allocator) noteOffMono(note uint8) {
	if int16(note) != a.currentNote {
		return
	}
	a.voices[0].Release()
	a.currentNote = -1
	a.gliding = false
}

func (a *Allocator) noteOnUnison(note uint8, velocity float64) {
	for _, v := range a.voices[:a.maxVoices] {
		v.Trigger(note, velocity)
	}
	a.currentNote = int16(note)
}

func (a *Allocator) noteOffUnison(note uint8) {
	if int16(note) != a.currentNote {
		return
	}
	for _, v := range a.voices[:a.maxVoices] {
		v.Release()
	}
	a.currentNote = -1
}

// findFree picks the next inactive voice round-robin so releases spread
// evenly across the pool.
func (a *Allocator) findFree() int {
	for i := 0; i < a.maxVoices; i++ {
		idx := (a.rr + i) % a.maxVoices
		if !a.voices[idx].Active() {
			a.rr = (idx + 1) % a.maxVoices
			return idx
		}
	}
	return -1
}

func (a *Allocator) stealVoice() int {
	if a.steal == StealNone {
		return -1
	}

	best := -1
	var bestScore float64
	for i := 0; i < a.maxVoices; i++ {
		if !a.voices[i].Active() {
			continue
		}
		var score float64
		switch a.steal {
		case StealOldest:
			score = float64(a.voices[i].Age())
		case StealQuietest:
			score = -a.voices[i].Amplitude()
		case StealHighest:
			score = float64(a.voices[i].Note())
		case StealLowest:
			score = -float64(a.voices[i].Note())
		}
		if best == -1 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best != -1 {
		a.voices[best].Stop()
	}
	return best
}
