// Package hashtable is an open-addressing hash table with pluggable
// probing, used to compare probing strategies on dictionary data.
package hashtable

import (
	"iter"
	"math"
)

const (
	DEFAULT_INITIAL_SIZE = 10
	DEFAULT_MIN_LOAD     = 0.1
	DEFAULT_MAX_LOAD     = 0.7

	minBuckets = 4
)

type bucket[K comparable, V any] struct {
	key       K
	value     V
	used      bool // never reset, except by a rehash
	tombstone bool
}

type options struct {
	initial int
	minLoad float64
	maxLoad float64
}

type Option func(*options)

func WithInitialSize(n int) Option {
	return func(o *options) { o.initial = n }
}

// WithLoadFactors sets the shrink and grow thresholds.
func WithLoadFactors(min, max float64) Option {
	return func(o *options) {
		o.minLoad = min
		o.maxLoad = max
	}
}

// Table is not safe for concurrent use.
type Table[K comparable, V any] struct {
	buckets    []bucket[K, V]
	fill       int
	tombstones int

	hash  Hasher[K]
	probe Probe[K]
	opts  options
}

func New[K comparable, V any](hash Hasher[K], probe Probe[K], opts ...Option) *Table[K, V] {
	o := options{
		initial: DEFAULT_INITIAL_SIZE,
		minLoad: DEFAULT_MIN_LOAD,
		maxLoad: DEFAULT_MAX_LOAD,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.initial < minBuckets {
		o.initial = minBuckets
	}
	if o.maxLoad <= 0 || o.maxLoad >= 1 {
		o.maxLoad = DEFAULT_MAX_LOAD
	}
	if o.minLoad < 0 || o.minLoad >= o.maxLoad/2 {
		o.minLoad = o.maxLoad / 4
	}

	return &Table[K, V]{
		buckets: make([]bucket[K, V], o.initial),
		hash:    hash,
		probe:   probe,
		opts:    o,
	}
}

// Put inserts or overwrites key. It reports whether a previous value was replaced.
func (t *Table[K, V]) Put(key K, value V) bool {
	t.maybeGrow()

	index, found := t.find(key)
	b := &t.buckets[index]
	if found {
		b.value = value
		return true
	}

	b.key = key
	b.value = value
	b.used = true
	b.tombstone = false
	t.fill++
	return false
}

func (t *Table[K, V]) Get(key K) (V, bool) {
	var zero V
	if t.fill == 0 {
		return zero, false
	}
	index, found := t.find(key)
	if !found {
		return zero, false
	}
	return t.buckets[index].value, true
}

// Remove leaves a tombstone so later probe chains stay intact.
func (t *Table[K, V]) Remove(key K) bool {
	if t.fill == 0 {
		return false
	}
	index, found := t.find(key)
	if !found {
		return false
	}

	var zero bucket[K, V]
	t.buckets[index] = zero
	t.buckets[index].used = true
	t.buckets[index].tombstone = true
	t.fill--
	t.tombstones++

	t.maybeShrink()
	return true
}

func (t *Table[K, V]) Len() int {
	return t.fill
}

// Cap is the number of buckets.
func (t *Table[K, V]) Cap() int {
	return len(t.buckets)
}

// LoadFactor counts tombstones as occupied.
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.fill+t.tombstones) / float64(len(t.buckets))
}

// All yields live entries in bucket order.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range t.buckets {
			b := &t.buckets[i]
			if b.used && !b.tombstone {
				if !yield(b.key, b.value) {
					return
				}
			}
		}
	}
}

// find returns the bucket holding key, or the first unused bucket on its
// probe chain. After Cap() probes it falls back to a linear scan, since
// quadratic and double hashing may cycle without visiting every bucket.
func (t *Table[K, V]) find(key K) (int, bool) {
	n := uint32(len(t.buckets))
	hash := t.hash(key)
	index := hash % n

	for attempt := uint32(1); attempt <= n; attempt++ {
		b := &t.buckets[index]
		if !b.used {
			return int(index), false
		}
		if !b.tombstone && b.key == key {
			return int(index), true
		}
		hash = t.probe(key, hash, index, attempt)
		index = hash % n
	}

	for i := uint32(0); i < n; i++ {
		j := (index + i) % n
		b := &t.buckets[j]
		if !b.used {
			return int(j), false
		}
		if !b.tombstone && b.key == key {
			return int(j), true
		}
	}

	// unreachable while the load factor stays below 1
	panic("hashtable: no free bucket")
}

func (t *Table[K, V]) maybeGrow() {
	if t.LoadFactor() <= t.opts.maxLoad {
		return
	}
	// mostly tombstones: clean up in place instead of doubling
	if float64(t.fill) < float64(len(t.buckets))*t.opts.maxLoad/2 {
		t.rehash(len(t.buckets))
		return
	}
	t.rehash(len(t.buckets) * 2)
}

func (t *Table[K, V]) maybeShrink() {
	// live entries only, a remove turns an entry into a tombstone
	live := float64(t.fill) / float64(len(t.buckets))
	if len(t.buckets) <= t.opts.initial || live >= t.opts.minLoad {
		return
	}

	size := t.opts.initial
	if t.fill > 0 {
		half := len(t.buckets) / 2
		fit := int(math.Ceil(float64(t.fill)/t.opts.maxLoad)) + 1
		size = max(half, fit, t.opts.initial)
	}
	t.rehash(size)
}

func (t *Table[K, V]) rehash(size int) {
	old := t.buckets
	t.buckets = make([]bucket[K, V], size)
	t.fill = 0
	t.tombstones = 0

	for i := range old {
		b := &old[i]
		if b.used && !b.tombstone {
			index, _ := t.find(b.key)
			t.buckets[index] = bucket[K, V]{key: b.key, value: b.value, used: true}
			t.fill++
		}
	}
}
