package seqpkg

import (
	"sync/atomic"

	"github.com/mudesheng/ga-iterate/bnt"
)

// ReadPackage is a batch of reads, bit-packed into a contiguous
// uint32 array the way the original C++ ReadPackage is: each read
// occupies exactly WordsPerRead words, so the batch's backing buffer
// can be dumped verbatim to the ".rr.pb" output (spec.md §6) without
// any further framing.
//
// Layout per read (WordsPerRead words): word 0 holds the read's
// actual length (the "known layout" spec.md §3 leaves to this
// implementation); the remaining words hold the 2-bit-coded bases,
// base 0 in the high bits of word 1.
type ReadPackage struct {
	MaxReadLen    int
	WordsPerRead  int
	PackedReads   []uint32
	NumOfReads    int
	isAligned     []uint64 // atomic bit-vector, one bit per read
	numAligned    int64    // atomic counter
}

const basesPerWord = 16 // 32 bits / 2 bits per base

// Init (re)configures the package for a given maximum read length and
// capacity, matching the original ReadPackage::init(max_read_len).
func (p *ReadPackage) Init(maxReadLen int) {
	p.MaxReadLen = maxReadLen
	p.WordsPerRead = 1 + (maxReadLen+basesPerWord-1)/basesPerWord
	p.PackedReads = make([]uint32, p.WordsPerRead*MaxBatchSize)
	p.isAligned = make([]uint64, (MaxBatchSize+63)/64)
	p.NumOfReads = 0
	p.numAligned = 0
}

// Clear resets the batch to empty, ready for the next producer fill,
// matching ReadReadsThread's `package.clear()`.
func (p *ReadPackage) Clear() {
	p.NumOfReads = 0
	p.numAligned = 0
	for i := range p.PackedReads {
		p.PackedReads[i] = 0
	}
	for i := range p.isAligned {
		p.isAligned[i] = 0
	}
}

// Add packs one read's bases into the next free slot. It reports
// whether the batch is now full.
func (p *ReadPackage) Add(seq []byte) (full bool) {
	i := p.NumOfReads
	base := i * p.WordsPerRead
	p.PackedReads[base] = uint32(len(seq))
	for j, b := range seq {
		word := base + 1 + j/basesPerWord
		shift := uint(15-(j%basesPerWord)) * 2
		p.PackedReads[word] |= uint32(b&bnt.BaseMask) << shift
	}
	p.NumOfReads++
	return p.NumOfReads >= MaxBatchSize
}

// Length returns read i's length.
func (p *ReadPackage) Length(i int) int {
	return int(p.PackedReads[i*p.WordsPerRead])
}

// CharAt returns the 2-bit code of base j of read i.
func (p *ReadPackage) CharAt(i, j int) byte {
	base := i * p.WordsPerRead
	word := base + 1 + j/basesPerWord
	shift := uint(15-(j%basesPerWord)) * 2
	return byte((p.PackedReads[word] >> shift) & bnt.BaseMask)
}

// ReadWords returns the raw WordsPerRead-word slice backing read i,
// for verbatim copy into the ".rr.pb" output file.
func (p *ReadPackage) ReadWords(i int) []uint32 {
	base := i * p.WordsPerRead
	return p.PackedReads[base : base+p.WordsPerRead]
}

// SetAligned atomically sets the is_aligned bit for read i and bumps
// the aligned-read counter exactly once per read, matching the
// original's `is_aligned.set(i); #pragma omp atomic ++num_aligned_reads`.
func (p *ReadPackage) SetAligned(i int) {
	word := i / 64
	bit := uint64(1) << (uint(i) % 64)
	for {
		old := atomic.LoadUint64(&p.isAligned[word])
		if old&bit != 0 {
			return // already set by a concurrent caller (shouldn't happen per-read, but keep idempotent)
		}
		if atomic.CompareAndSwapUint64(&p.isAligned[word], old, old|bit) {
			atomic.AddInt64(&p.numAligned, 1)
			return
		}
	}
}

// IsAligned reports whether read i's bit is set.
func (p *ReadPackage) IsAligned(i int) bool {
	word := i / 64
	bit := uint64(1) << (uint(i) % 64)
	return atomic.LoadUint64(&p.isAligned[word])&bit != 0
}

// NumAligned returns the number of reads marked aligned in this
// batch so far.
func (p *ReadPackage) NumAligned() int64 {
	return atomic.LoadInt64(&p.numAligned)
}
