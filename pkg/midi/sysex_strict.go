//go:build !sysexheap

package midi

// Strict mode drops payloads the pool cannot hold, keeping the audio
// thread free of allocation. Build with -tags sysexheap to accept
// oversize payloads at the cost of a heap copy.
func copyOversize(data []byte) []byte {
	_ = data
	return nil
}
