package readpass

import (
	"testing"

	"github.com/mudesheng/ga-iterate/bnt"
	"github.com/mudesheng/ga-iterate/crucialmap"
	"github.com/mudesheng/ga-iterate/edgetable"
	"github.com/mudesheng/ga-iterate/kmer"
	"github.com/mudesheng/ga-iterate/seqpkg"
)

func encode(s string) []byte {
	b := make([]byte, len(s))
	for i, c := range []byte(s) {
		b[i] = bnt.Base2Bnt[c]
	}
	return b
}

// spec.md §8 scenario 2: a read that exactly re-traces its contig
// aligns and contributes at least one increment per sliding window.
// The contig is not its own reverse complement, so its start and end
// crucial k-mers are distinct entries.
func TestProcessReadRetracesContig(t *testing.T) {
	k, s := 3, 2
	contig := encode("AAAACCCC")
	cm := crucialmap.New(1)
	cm.BuildFromContig(contig, k, s)
	table := edgetable.New(4, 16)

	read := encode("AAAACCCC")
	aligned := ProcessRead(read, k, s, cm, table)
	if !aligned {
		t.Fatalf("ProcessRead() = false, want true for a read retracing its contig")
	}
	if table.Size() == 0 {
		t.Fatalf("table.Size() = 0, want at least one edge discovered")
	}
}

// spec.md §8 scenario 4: a read shorter than k'+1 never aligns.
func TestProcessReadTooShort(t *testing.T) {
	k, s := 3, 2 // nextK+1 = 6
	cm := crucialmap.New(1)
	cm.BuildFromContig(encode("ACGTACGT"), k, s)
	table := edgetable.New(4, 16)

	read := encode("ACGTA") // length 5 < 6
	if ProcessRead(read, k, s, cm, table) {
		t.Fatalf("ProcessRead() = true for a read shorter than k'+1")
	}
	if table.Size() != 0 {
		t.Fatalf("table.Size() = %d, want 0", table.Size())
	}
}

// spec.md §8 scenario 3: both orientations of a non-palindromic read
// hit the same canonical crucial k-mer.
func TestProcessReadReverseComplementHit(t *testing.T) {
	k, s := 3, 2
	contig := encode("AAAACCCC")
	cm := crucialmap.New(1)
	cm.BuildFromContig(contig, k, s)

	fwd := encode("AAAACCCC")
	revRead := make([]byte, len(fwd))
	for i, b := range fwd {
		revRead[len(fwd)-1-i] = bnt.Complement(b)
	}

	tableFwd := edgetable.New(4, 16)
	if !ProcessRead(fwd, k, s, cm, tableFwd) {
		t.Fatalf("forward read did not align")
	}
	tableRev := edgetable.New(4, 16)
	if !ProcessRead(revRead, k, s, cm, tableRev) {
		t.Fatalf("reverse-complement read did not align")
	}
}

// spec.md §8 scenario 5: the saturating counter never exceeds its
// ceiling even under heavy repeated support.
func TestProcessReadSaturatesCounter(t *testing.T) {
	k, s := 3, 2
	contig := encode("AAAACCCC")
	cm := crucialmap.New(1)
	cm.BuildFromContig(contig, k, s)
	table := edgetable.New(4, 16)

	read := encode("AAAACCCC")
	for i := 0; i < 50; i++ {
		ProcessRead(read, k, s, cm, table)
	}
	table.ForEach(func(_ kmer.PackedKmer, count uint16) {
		if count > edgetable.MaxMultiT {
			t.Fatalf("count = %d, exceeds MaxMultiT (%d)", count, edgetable.MaxMultiT)
		}
	})
}

func TestBatchMarksAlignedReads(t *testing.T) {
	k, s := 3, 2
	contig := encode("AAAACCCC")
	cm := crucialmap.New(1)
	cm.BuildFromContig(contig, k, s)
	table := edgetable.New(4, 16)

	var pkg seqpkg.ReadPackage
	pkg.Init(16)
	pkg.Add(encode("AAAACCCC"))
	pkg.Add(encode("TT")) // too short, never aligns

	Batch(&pkg, k, s, cm, table)

	if !pkg.IsAligned(0) {
		t.Fatalf("read 0 should be marked aligned")
	}
	if pkg.IsAligned(1) {
		t.Fatalf("read 1 should not be marked aligned")
	}
	if pkg.NumAligned() != 1 {
		t.Fatalf("NumAligned() = %d, want 1", pkg.NumAligned())
	}
}
