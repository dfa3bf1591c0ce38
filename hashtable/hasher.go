package hashtable

type Hasher[K any] func(key K) uint32

const (
	p0 uint32 = 31
	p1 uint32 = 54059
	p2 uint32 = 76963
)

// StringHash mixes every byte with two primes. Cheap, not cryptographic.
// Bytes are sign extended, so bytes >= 0x80 of UTF-8 text mix in as
// negative values.
func StringHash(s string) uint32 {
	h := p0
	for i := 0; i < len(s); i++ {
		h = (h * p1) ^ (uint32(int8(s[i])) * p2)
	}
	return h
}
