// Package process holds the audio-thread data structures: sample buffers,
// the transport snapshot, scratch storage, and the per-block context handed
// to plugin processors. Nothing in this package allocates after
// construction; everything a render call touches is sized up front.
package process

// Sample is the element type of an audio buffer. Hosts deliver 32-bit
// floats by default and 64-bit on request.
type Sample interface {
	~float32 | ~float64
}

// Buffer is a multi-channel audio buffer. It either owns its storage
// (NewBuffer) or wraps channel slices provided by the host (Bind). The
// active frame count can shrink below capacity without reallocation.
type Buffer[S Sample] struct {
	channels [][]S
	frames   int
	capacity int
}

// NewBuffer allocates an owned buffer with the given channel count and
// frame capacity. Storage is one flat backing array so channels stay
// cache-adjacent.
func NewBuffer[S Sample](channels, frames int) *Buffer[S] {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}
	backing := make([]S, channels*frames)
	b := &Buffer[S]{
		channels: make([][]S, channels),
		frames:   frames,
		capacity: frames,
	}
	for ch := 0; ch < channels; ch++ {
		b.channels[ch] = backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}
	return b
}

// Bind points the buffer at host-owned channel slices for the current
// block. No copies, no allocation.
func (b *Buffer[S]) Bind(data [][]S, frames int) {
	b.channels = data
	b.frames = frames
	b.capacity = frames
}

// NumChannels returns the channel count.
func (b *Buffer[S]) NumChannels() int {
	return len(b.channels)
}

// Frames returns the active frame count.
func (b *Buffer[S]) Frames() int {
	return b.frames
}

// SetFrames shrinks or restores the active frame count within capacity.
func (b *Buffer[S]) SetFrames(n int) {
	if n < 0 {
		n = 0
	}
	if n > b.capacity {
		n = b.capacity
	}
	b.frames = n
}

// Channel returns channel ch limited to the active frame count.
func (b *Buffer[S]) Channel(ch int) []S {
	return b.channels[ch][:b.frames]
}

// Clear zeroes the active region of every channel.
func (b *Buffer[S]) Clear() {
	for ch := range b.channels {
		s := b.channels[ch][:b.frames]
		for i := range s {
			s[i] = 0
		}
	}
}

// CopyFrom copies the active region of src into b, channel by channel.
// Extra channels on either side are left untouched.
func (b *Buffer[S]) CopyFrom(src *Buffer[S]) {
	n := b.frames
	if src.frames < n {
		n = src.frames
	}
	ch := len(b.channels)
	if len(src.channels) < ch {
		ch = len(src.channels)
	}
	for c := 0; c < ch; c++ {
		copy(b.channels[c][:n], src.channels[c][:n])
	}
}

// Convert32To64 widens a float32 block into a float64 block. Both sides
// must already have the required channel counts and frame capacity.
func Convert32To64(dst [][]float64, src [][]float32, frames int) {
	for ch := range src {
		d := dst[ch][:frames]
		s := src[ch][:frames]
		for i := range s {
			d[i] = float64(s[i])
		}
	}
}

// Convert64To32 narrows a float64 block into a float32 block.
func Convert64To32(dst [][]float32, src [][]float64, frames int) {
	for ch := range src {
		d := dst[ch][:frames]
		s := src[ch][:frames]
		for i := range s {
			d[i] = float32(s[i])
		}
	}
}
