// Package seqpkg holds the batch containers the double-buffered
// pipeline (package pipeline) fills and the contig/read passes
// consume: ContigPackage and ReadPackage, generalized from the
// teacher's ReadSeqBucket/KmerBntBucket (constructcf.go) into
// fixed-capacity batches of 2-bit-coded sequences.
package seqpkg

// MaxBatchSize caps how many records a single ContigPackage or
// ReadPackage batch holds, mirroring the teacher's fixed
// constructcf.ReadSeqSize buckets but sized for this core's larger
// per-iteration batches.
const MaxBatchSize = 4096

// ContigPackage is a batch of contigs: one 2-bit-coded base slice per
// contig (its length is the contig's length) and (when available) a
// per-contig multiplicity estimated at the previous k.
type ContigPackage struct {
	Seqs         [][]byte  // one 2-bit-coded slice per contig
	Multiplicity []float64 // parallel to Seqs; previous-k multiplicity
}

// Reset empties the package so it can be reused for the next batch,
// matching the teacher's reuse-the-bucket pattern in
// constructcf.ParaConstructCF (`var nrsb KmerBntBucket; wrsb = nrsb`).
func (p *ContigPackage) Reset() {
	p.Seqs = p.Seqs[:0]
	p.Multiplicity = p.Multiplicity[:0]
}

// Size returns the number of contigs currently buffered.
func (p *ContigPackage) Size() int {
	return len(p.Seqs)
}

// Add appends one contig and its multiplicity to the batch. It
// reports whether the batch is now full (>= MaxBatchSize).
func (p *ContigPackage) Add(seq []byte, multiplicity float64) (full bool) {
	p.Seqs = append(p.Seqs, seq)
	p.Multiplicity = append(p.Multiplicity, multiplicity)
	return len(p.Seqs) >= MaxBatchSize
}

// Length returns the base-pair length of contig i.
func (p *ContigPackage) Length(i int) int {
	return len(p.Seqs[i])
}

// CharAt returns the 2-bit code of base j of contig i.
func (p *ContigPackage) CharAt(i, j int) byte {
	return p.Seqs[i][j]
}
