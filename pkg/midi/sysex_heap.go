//go:build sysexheap

package midi

// Heap mode accepts payloads that exceed the pool, trading a render-thread
// allocation for completeness. Useful when a host is known to batch large
// dumps through the audio path.
func copyOversize(data []byte) []byte {
	if data == nil {
		return nil
	}
	return append([]byte(nil), data...)
}
