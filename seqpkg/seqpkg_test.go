package seqpkg

import (
	"testing"

	"github.com/mudesheng/ga-iterate/bnt"
)

func encode(s string) []byte {
	b := make([]byte, len(s))
	for i, c := range []byte(s) {
		b[i] = bnt.Base2Bnt[c]
	}
	return b
}

func TestContigPackageAddAndCharAt(t *testing.T) {
	var cp ContigPackage
	cp.Add(encode("ACGTACGT"), 10.0)
	cp.Add(encode("TTTT"), 2.5)

	if cp.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", cp.Size())
	}
	if cp.Length(0) != 8 {
		t.Fatalf("Length(0) = %d, want 8", cp.Length(0))
	}
	if cp.CharAt(0, 2) != bnt.BaseG {
		t.Fatalf("CharAt(0,2) = %d, want G", cp.CharAt(0, 2))
	}
	if cp.Multiplicity[1] != 2.5 {
		t.Fatalf("Multiplicity[1] = %v, want 2.5", cp.Multiplicity[1])
	}

	cp.Reset()
	if cp.Size() != 0 {
		t.Fatalf("Reset did not clear the package")
	}
}

func TestReadPackageAddAndCharAt(t *testing.T) {
	var rp ReadPackage
	rp.Init(20)
	rp.Add(encode("ACGTACGTAC"))
	rp.Add(encode("GGGGCCCC"))

	if rp.NumOfReads != 2 {
		t.Fatalf("NumOfReads = %d, want 2", rp.NumOfReads)
	}
	if rp.Length(0) != 10 {
		t.Fatalf("Length(0) = %d, want 10", rp.Length(0))
	}
	if rp.Length(1) != 8 {
		t.Fatalf("Length(1) = %d, want 8", rp.Length(1))
	}
	want := encode("ACGTACGTAC")
	for j, w := range want {
		if got := rp.CharAt(0, j); got != w {
			t.Errorf("CharAt(0,%d) = %d, want %d", j, got, w)
		}
	}
}

func TestReadPackageIsAligned(t *testing.T) {
	var rp ReadPackage
	rp.Init(20)
	rp.Add(encode("ACGTACGTAC"))
	rp.Add(encode("GGGGCCCC"))

	if rp.IsAligned(0) || rp.IsAligned(1) {
		t.Fatalf("freshly initialized package must have no aligned reads")
	}
	rp.SetAligned(1)
	if !rp.IsAligned(1) {
		t.Fatalf("SetAligned(1) did not take effect")
	}
	if rp.IsAligned(0) {
		t.Fatalf("SetAligned(1) incorrectly set bit 0")
	}
	if rp.NumAligned() != 1 {
		t.Fatalf("NumAligned() = %d, want 1", rp.NumAligned())
	}
	rp.SetAligned(1) // idempotent
	if rp.NumAligned() != 1 {
		t.Fatalf("NumAligned() must not double-count a repeated SetAligned")
	}
}

func TestReadPackageReadWordsVerbatim(t *testing.T) {
	var rp ReadPackage
	rp.Init(20)
	rp.Add(encode("ACGTACGTAC"))
	words := rp.ReadWords(0)
	if len(words) != rp.WordsPerRead {
		t.Fatalf("ReadWords length = %d, want %d", len(words), rp.WordsPerRead)
	}
	if words[0] != 10 {
		t.Fatalf("header word = %d, want length 10", words[0])
	}
}

func TestReadPackageClear(t *testing.T) {
	var rp ReadPackage
	rp.Init(10)
	rp.Add(encode("ACGT"))
	rp.SetAligned(0)
	rp.Clear()
	if rp.NumOfReads != 0 || rp.NumAligned() != 0 || rp.IsAligned(0) {
		t.Fatalf("Clear did not fully reset the package")
	}
}
