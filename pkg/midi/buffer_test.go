package midi

import "testing"

func TestBufferCapacityAndDrop(t *testing.T) {
	var b Buffer
	for i := 0; i < BufferCap; i++ {
		if !b.Add(NoteOn(int32(i), 0, 60, 0.5)) {
			t.Fatalf("Add %d failed below capacity", i)
		}
	}
	if b.Add(NoteOn(0, 0, 61, 0.5)) {
		t.Error("Add past capacity should fail")
	}
	if b.Len() != BufferCap || b.Dropped() != 1 {
		t.Errorf("len %d dropped %d, want %d and 1", b.Len(), b.Dropped(), BufferCap)
	}

	b.Clear()
	if b.Len() != 0 || b.Dropped() != 0 {
		t.Error("Clear did not reset counters")
	}
}

func TestBufferSortByFrame(t *testing.T) {
	var b Buffer
	b.Add(NoteOn(100, 0, 60, 1))
	b.Add(NoteOn(10, 0, 61, 1))
	b.Add(NoteOn(10, 0, 62, 1))
	b.Add(NoteOn(0, 0, 63, 1))
	b.SortByFrame()

	frames := []int32{0, 10, 10, 100}
	keys := []uint8{63, 61, 62, 60}
	for i, e := range b.Events() {
		if e.Frame != frames[i] {
			t.Errorf("event %d frame = %d, want %d", i, e.Frame, frames[i])
		}
		if e.Key != keys[i] {
			t.Errorf("event %d key = %d, want %d (stable order)", i, e.Key, keys[i])
		}
	}
}

func TestBufferNoAlloc(t *testing.T) {
	var b Buffer
	e := ControlChange(0, 0, 74, 0.5)
	allocs := testing.AllocsPerRun(100, func() {
		b.Clear()
		for i := 0; i < 64; i++ {
			b.Add(e)
		}
		b.SortByFrame()
		_ = b.Events()
	})
	if allocs != 0 {
		t.Errorf("buffer cycling allocated %.1f times per run", allocs)
	}
}

func TestSysExPoolStableSlots(t *testing.T) {
	var p SysExPool
	var first []byte
	for i := 0; i < SysExSlots; i++ {
		payload := []byte{0xF0, byte(i), 0xF7}
		s := p.Copy(payload)
		if s == nil {
			t.Fatalf("slot %d unavailable below capacity", i)
		}
		if string(s) != string(payload) {
			t.Fatalf("slot %d content mismatch", i)
		}
		if i == 0 {
			first = s
		}
	}
	if p.Copy([]byte{0xF0, 0xF7}) != nil {
		t.Error("exhausted pool should reject payloads")
	}

	// Earlier slices survive later copies.
	if first[1] != 0 {
		t.Error("slot 0 was overwritten by later copies")
	}

	p.Reset()
	if p.Available() != SysExSlots {
		t.Error("Reset did not free slots")
	}
}

func TestSysExPoolOversize(t *testing.T) {
	var p SysExPool
	big := make([]byte, SysExSlotSize+1)
	if got := p.Copy(big); got != nil {
		t.Skip("built with sysexheap; oversize payloads heap-allocate")
	}
	if p.Available() != SysExSlots {
		t.Error("rejected payload consumed a slot")
	}
}
