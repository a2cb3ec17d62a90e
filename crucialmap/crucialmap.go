// Package crucialmap implements CrusialKmerMap: an immutable-after-build
// mapping from a canonical-length k-mer at a contig endpoint to a
// packed TailSpec describing the bases that follow it within that
// contig, generalized from the teacher's KmerBntBucket/GetNextKmer
// contig-scanning idiom (constructcf.go) into the lookup structure
// ReadPass probes against.
package crucialmap

import (
	"sync"

	"github.com/mudesheng/ga-iterate/bnt"
	"github.com/mudesheng/ga-iterate/cuckoofilter"
	"github.com/mudesheng/ga-iterate/kmer"
	"github.com/mudesheng/ga-iterate/utils"
)

// MaxTailLen is the largest number of successor bases a TailSpec can
// record: the step s is bounded at 29 (spec.md §3), which is exactly
// how many bases fit above TailSpec's low 6 length bits.
const MaxTailLen = 29

// TailSpec packs up to MaxTailLen successor bases plus their count
// into a single 64-bit word: base j occupies bits 2(31-j)..2(31-j)+1,
// and the low 6 bits hold the count.
type TailSpec uint64

// BuildTailSpec packs tail (length <= MaxTailLen) into a TailSpec.
func BuildTailSpec(tail []byte) TailSpec {
	if len(tail) > MaxTailLen {
		panic("crucialmap.BuildTailSpec: tail longer than MaxTailLen")
	}
	var t TailSpec
	for j, b := range tail {
		t |= TailSpec(b&bnt.BaseMask) << uint(2*(31-j))
	}
	t |= TailSpec(len(tail))
	return t
}

// Len returns the number of successor bases this TailSpec records.
func (t TailSpec) Len() int {
	return int(t & 0x3f)
}

// Base returns the 2-bit code of successor base j (0 <= j < Len()).
func (t TailSpec) Base(j int) byte {
	return byte((t >> uint(2*(31-j))) & bnt.BaseMask)
}

// Map is the CrusialKmerMap: PackedKmer(k) -> TailSpec, built only
// from primary contigs and read-only during ReadPass. A coarse mutex
// guards inserts, matching spec.md §4.2's "coarse mutex suffices;
// contig counts are modest" guidance.
//
// ReadPass probes this map once per read position per strand, so a
// negative answer is the overwhelmingly common case. filter is a
// cuckoofilter.Filter (adapted from the teacher's constructcf-era
// cuckoo filter, see cuckoofilter/cuckoofilter.go) used here as a
// cheap probabilistic pre-check: a miss in filter proves key is not
// in entries without taking mu, and only a filter hit falls through
// to the exact, mutex-guarded lookup.
type Map struct {
	mu      sync.Mutex
	entries map[kmer.PackedKmer]TailSpec
	filter  *cuckoofilter.Filter
}

// New returns an empty Map sized for an expected number of contigs
// (each contributes up to two entries).
func New(expectedContigs int) *Map {
	n := uint64(expectedContigs*2 + 1)
	return &Map{
		entries: make(map[kmer.PackedKmer]TailSpec, expectedContigs*2),
		filter:  cuckoofilter.New(n),
	}
}

// Insert stores key -> tail, overwriting any previous value at the
// same key (spec.md §3: "later insertions overwrite earlier ones...
// collisions are rare and benign").
func (m *Map) Insert(key kmer.PackedKmer, tail TailSpec) {
	m.mu.Lock()
	m.entries[key] = tail
	m.mu.Unlock()
	m.filter.Insert(key.Bytes())
}

// MightContain reports whether key could possibly be in the map,
// consulting only the cuckoo filter. A false result is definitive; a
// true result still requires Lookup to confirm, since the filter can
// false-positive.
func (m *Map) MightContain(key kmer.PackedKmer) bool {
	return m.filter.Lookup(key.Bytes())
}

// Lookup returns the tail stored for key, if any. It consults the
// cuckoo filter first so the common miss case never takes mu.
func (m *Map) Lookup(key kmer.PackedKmer) (TailSpec, bool) {
	if !m.MightContain(key) {
		return 0, false
	}
	m.mu.Lock()
	t, ok := m.entries[key]
	m.mu.Unlock()
	return t, ok
}

// Len returns the number of distinct keys currently stored.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// BuildFromContig inserts the two crucial k-mers implied by contig
// (2-bit coded bases) at k-mer size k with step s, per spec.md §4.2:
// the forward starting k-mer with its following-up-to-s-bases tail,
// and -- when the contig is longer than k -- the reverse complement
// of the ending k-mer with the symmetric tail taken from the bases
// preceding that window, complemented. Contigs shorter than k
// contribute nothing.
func (m *Map) BuildFromContig(contig []byte, k, s int) {
	l := len(contig)
	if l < k {
		return
	}

	fwdKmer := kmer.FromBases(contig[:k])
	fwdLen := utils.MinInt(s, l-k)
	m.Insert(fwdKmer, BuildTailSpec(contig[k:k+fwdLen]))

	if l == k {
		return
	}

	endKmer := kmer.FromBases(contig[l-k:]).ReverseComplement()
	tailLen := utils.MinInt(s, l-k)
	tail := make([]byte, tailLen)
	for j := 0; j < tailLen; j++ {
		tail[j] = bnt.Complement(contig[l-k-1-j])
	}
	m.Insert(endKmer, BuildTailSpec(tail))
}
