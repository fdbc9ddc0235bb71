package param

// FNV-1a constants, 32-bit variant.
const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// HashID derives a parameter's runtime identifier from its stable string
// key using 32-bit FNV-1a. The same key always yields the same ID, which is
// what makes serialized state portable across builds.
func HashID(key string) uint32 {
	h := fnvOffsetBasis
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= fnvPrime
	}
	return h
}
