package hashtable

// Probe returns the next hash to try for key. hash is the current hash,
// index the bucket it landed on and attempt counts probes from 1.
// The caller reduces the result modulo the bucket count.
type Probe[K any] func(key K, hash, index, attempt uint32) uint32

// Linear steps to the neighbouring bucket.
func Linear[K any]() Probe[K] {
	return func(_ K, _, index, _ uint32) uint32 {
		return index + 1
	}
}

// Quadratic jumps attempt^2 buckets from the current one.
func Quadratic[K any]() Probe[K] {
	return func(_ K, _, index, attempt uint32) uint32 {
		return index + attempt*attempt
	}
}

// DoubleHash steps by a second hash of the key.
func DoubleHash[K any](h2 Hasher[K]) Probe[K] {
	return func(key K, hash, _, attempt uint32) uint32 {
		return hash + attempt*h2(key)
	}
}
