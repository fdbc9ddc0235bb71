package process

// BufferStorage is a pool of scratch channels sized once at prepare time.
// Processors borrow channels for the duration of a block; Reset returns
// them all at the block boundary in constant time.
type BufferStorage[S Sample] struct {
	backing  []S
	channels [][]S
	used     int
}

// NewBufferStorage allocates count scratch channels of frames samples
// each, backed by one flat array.
func NewBufferStorage[S Sample](count, frames int) *BufferStorage[S] {
	if count < 0 {
		count = 0
	}
	if frames < 0 {
		frames = 0
	}
	s := &BufferStorage[S]{
		backing:  make([]S, count*frames),
		channels: make([][]S, count),
	}
	for i := 0; i < count; i++ {
		s.channels[i] = s.backing[i*frames : (i+1)*frames : (i+1)*frames]
	}
	return s
}

// Acquire borrows the next free scratch channel, or nil when the pool is
// exhausted. Contents are whatever the previous block left there.
func (s *BufferStorage[S]) Acquire() []S {
	if s.used >= len(s.channels) {
		return nil
	}
	ch := s.channels[s.used]
	s.used++
	return ch
}

// Reset returns every borrowed channel to the pool without touching the
// sample data.
func (s *BufferStorage[S]) Reset() {
	s.used = 0
}

// Count returns the total number of scratch channels.
func (s *BufferStorage[S]) Count() int {
	return len(s.channels)
}

// Available returns how many channels are still free this block.
func (s *BufferStorage[S]) Available() int {
	return len(s.channels) - s.used
}
