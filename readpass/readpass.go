// Package readpass implements ReadPass: for each read it decides
// which positions are implied by crucial k-mers (AlignRead, spec.md
// §4.5), then walks the implied positions emitting length-(k'+1)
// edges into the lock-striped table (ExtendAndEmit, spec.md §4.6).
// Grounded on the teacher's per-read worker shape
// (constructcf.ParaConstructCF: one goroutine per batch, a shared
// concurrent sink) adapted from kmer-uniqueness counting into
// alignment-and-extension.
package readpass

import (
	"github.com/mudesheng/ga-iterate/bnt"
	"github.com/mudesheng/ga-iterate/crucialmap"
	"github.com/mudesheng/ga-iterate/edgetable"
	"github.com/mudesheng/ga-iterate/kmer"
	"github.com/mudesheng/ga-iterate/seqpkg"
)

// AlignRead computes the exist[] vector for read (2-bit coded),
// marking every position that is implied -- directly or via
// crucial-kmer tail matching -- by a contig endpoint, per spec.md
// §4.5.
func AlignRead(read []byte, k, s int, cm *crucialmap.Map) []bool {
	n := len(read)
	exist := make([]bool, n)
	if n < k {
		return exist
	}

	kk := kmer.FromBases(read[:k])
	revKmer := kk.ReverseComplement()
	lastMarkedPos := -1

	for curPos := 0; curPos+k <= n; {
		nextPos := curPos + 1
		if !exist[curPos] {
			if tail, ok := cm.Lookup(kk); ok {
				exist[curPos] = true
				jStar := 0
				for j := 0; j < tail.Len() && curPos+k+j < n; j++ {
					if read[curPos+k+j] != tail.Base(j) {
						break
					}
					exist[curPos+j+1] = true
					jStar++
				}
				lastMarkedPos = curPos + jStar
				nextPos = lastMarkedPos + 1
			} else if tail, ok := cm.Lookup(revKmer); ok {
				exist[curPos] = true
				for j := 0; j < tail.Len(); j++ {
					pos := curPos - 1 - j
					if pos <= lastMarkedPos {
						break
					}
					if bnt.Complement(read[pos]) != tail.Base(j) {
						break
					}
					exist[pos] = true
				}
			}
		}
		if nextPos+k > n {
			break
		}
		for curPos < nextPos {
			kk.ShiftAppend(read[curPos+k])
			revKmer.ShiftPreappend(bnt.Complement(read[curPos+k]))
			curPos++
		}
	}
	return exist
}

// ExtendAndEmit walks the implied positions and, wherever s+2
// consecutive positions are implied, reconstructs the (k'+1)-mer
// ending there and saturate-increments its canonical form in table,
// per spec.md §4.6. It reports whether at least one edge was
// emitted (the read's "aligned" outcome).
func ExtendAndEmit(read []byte, exist []bool, k, s int, table *edgetable.Table) bool {
	n := len(read)
	nextK := k + s
	if n < k {
		return false
	}

	aligned := false
	accExist := 0
	lastJ := -k
	var kk, revKmer kmer.PackedKmer

	for j := 0; j <= n-k; j++ {
		if exist[j] {
			accExist++
		} else {
			accExist = 0
		}
		if accExist < s+2 {
			continue
		}

		delta := j - lastJ
		switch {
		case delta < 8:
			for pos := lastJ + k; pos <= j+k-1; pos++ {
				kk.ShiftAppend(read[pos])
				revKmer.ShiftPreappend(bnt.Complement(read[pos]))
			}
		case delta < nextK+1:
			for pos := lastJ + k; pos <= j+k-1; pos++ {
				kk.ShiftAppend(read[pos])
			}
			revKmer = kk.ReverseComplement()
		default:
			kk = kmer.FromBases(read[j-s-1 : j+k])
			revKmer = kk.ReverseComplement()
		}

		key := kk
		if kmer.Less(revKmer, kk) {
			key = revKmer
		}
		table.Increment(key)
		aligned = true
		lastJ = j
	}
	return aligned
}

// ProcessRead runs the full alignment-and-extension pipeline for one
// read, reporting whether it contributed at least one edge.
func ProcessRead(read []byte, k, s int, cm *crucialmap.Map, table *edgetable.Table) bool {
	if len(read) < k+s+1 {
		return false
	}
	exist := AlignRead(read, k, s, cm)
	return ExtendAndEmit(read, exist, k, s, table)
}

// Batch runs ProcessRead over every read in a seqpkg.ReadPackage
// batch, marking each contributing read aligned per spec.md §4.6's
// closing step. Batches are the unit of concurrency dispatched by
// package pipeline's worker pool; reads within one batch are
// processed serially by whichever worker claims it.
func Batch(batch *seqpkg.ReadPackage, k, s int, cm *crucialmap.Map, table *edgetable.Table) {
	read := make([]byte, 0, batch.MaxReadLen)
	for i := 0; i < batch.NumOfReads; i++ {
		n := batch.Length(i)
		read = read[:0]
		for j := 0; j < n; j++ {
			read = append(read, batch.CharAt(i, j))
		}
		if ProcessRead(read, k, s, cm, table) {
			batch.SetAligned(i)
		}
	}
}
