// Package edgetable implements LockStripedEdgeTable: a concurrent
// mapping from a canonical (k'+1)-mer to a saturating multiplicity
// counter, generalized from the teacher's cuckoofilter package
// (cuckoofilter/cuckoofilter.go's bucketed, lockable counter table)
// into the per-bucket-mutex design spec.md §4.7 calls for.
package edgetable

import (
	"sync"

	"github.com/mudesheng/ga-iterate/edge"
	"github.com/mudesheng/ga-iterate/kmer"
)

// MaxMultiT is the saturating ceiling a stored counter may reach.
const MaxMultiT = edge.MaxMultiT

type bucket struct {
	mu sync.Mutex
	m  map[kmer.PackedKmer]uint16
}

// Table is the lock-striped edge table. Callers must canonicalize a
// key (kmer.Canonical) before every Increment or lookup, per spec.md
// §8 property 1.
type Table struct {
	buckets []*bucket
}

// New returns a Table with numBuckets stripes, each pre-sized for
// roughly expectedEntries/numBuckets keys. spec.md §4.7 recommends
// reserving capacity proportional to |CrusialKmerMap| x 10 up front.
func New(numBuckets, expectedEntries int) *Table {
	if numBuckets < 1 {
		numBuckets = 1
	}
	perBucket := expectedEntries/numBuckets + 1
	t := &Table{buckets: make([]*bucket, numBuckets)}
	for i := range t.buckets {
		t.buckets[i] = &bucket{m: make(map[kmer.PackedKmer]uint16, perBucket)}
	}
	return t
}

func (t *Table) bucketFor(key kmer.PackedKmer) *bucket {
	h := key.Hash() % uint64(len(t.buckets))
	return t.buckets[h]
}

// Increment saturate-increments the counter for the (already
// canonical) key, inserting it at count 1 if absent. This is the Go
// adaptation of spec.md §4.7's get_ref_with_lock/unlock contract: the
// bucket mutex is held only for the duration of the read-modify-write,
// never returned to the caller.
func (t *Table) Increment(key kmer.PackedKmer) {
	b := t.bucketFor(key)
	b.mu.Lock()
	if c, ok := b.m[key]; ok {
		if c < MaxMultiT {
			b.m[key] = c + 1
		}
	} else {
		b.m[key] = 1
	}
	b.mu.Unlock()
}

// Count returns the current counter for key, or 0 if absent.
func (t *Table) Count(key kmer.PackedKmer) uint16 {
	b := t.bucketFor(key)
	b.mu.Lock()
	c := b.m[key]
	b.mu.Unlock()
	return c
}

// Size returns the total number of distinct keys stored. Only
// meaningful once all workers have quiesced (spec.md §4.7).
func (t *Table) Size() int {
	n := 0
	for _, b := range t.buckets {
		b.mu.Lock()
		n += len(b.m)
		b.mu.Unlock()
	}
	return n
}

// ForEach calls fn once per stored (key, count) pair. Only meaningful
// once all workers have quiesced.
func (t *Table) ForEach(fn func(key kmer.PackedKmer, count uint16)) {
	for _, b := range t.buckets {
		b.mu.Lock()
		for k, c := range b.m {
			fn(k, c)
		}
		b.mu.Unlock()
	}
}
