// Package kmer implements PackedKmer: a fixed-capacity, 2-bit-per-base
// packed k-mer, generalized from the teacher's KmerBnt
// (constructcf.KmerBnt, constructcf.GetNextKmer/GetPreviousKmer/
// ReverseComplet) into the shift_append/shift_preappend/resize API
// the iterative extension core needs.
package kmer

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/mudesheng/ga-iterate/bnt"
)

// NumUint64 is the number of 64-bit limbs backing every PackedKmer,
// giving a capacity of NumUint64*32 bases -- comfortably above any
// realistic k+s+1 (the CLI enforces k+s < MaxCapacity, see config).
const NumUint64 = 4

// MaxCapacity is the largest number of bases a PackedKmer can hold.
const MaxCapacity = NumUint64 * 32

// PackedKmer is a fixed-size bit-packed DNA k-mer. The bases occupy
// the low Len*2 bits of the conceptual NumUint64*64-bit big-endian
// integer formed by treating Limbs[0] as the most significant word
// and Limbs[NumUint64-1] as the least significant; bits at or above
// position Len*2 are always zero.
type PackedKmer struct {
	Limbs [NumUint64]uint64
	Len   int
}

// New builds a zero-length PackedKmer.
func New() PackedKmer {
	return PackedKmer{}
}

// FromBases packs the given 2-bit bases (most significant/first base
// first) into a new PackedKmer. Len is fixed at len(bases) up front,
// since ShiftAppend's maskToLen call clears every bit at or above
// Len*2 on every call -- leaving Len at its zero value until after
// the loop would mask away every base as it's written.
func FromBases(bases []byte) PackedKmer {
	if len(bases) > MaxCapacity {
		panic("kmer.FromBases: too many bases for a PackedKmer")
	}
	var k PackedKmer
	k.Len = len(bases)
	for _, b := range bases {
		k.ShiftAppend(b)
	}
	return k
}

// shiftLeft2 shifts the whole limb array left by 2 bits, across word
// boundaries, discarding the bits shifted out of Limbs[0].
func (k *PackedKmer) shiftLeft2() {
	carry := uint64(0)
	for i := NumUint64 - 1; i >= 0; i-- {
		nextCarry := k.Limbs[i] >> 62
		k.Limbs[i] = (k.Limbs[i] << 2) | carry
		carry = nextCarry
	}
}

// shiftRight2 shifts the whole limb array right by 2 bits, across
// word boundaries, discarding the bits shifted out of the last limb.
func (k *PackedKmer) shiftRight2() {
	carry := uint64(0)
	for i := 0; i < NumUint64; i++ {
		nextCarry := k.Limbs[i] << 62
		k.Limbs[i] = (k.Limbs[i] >> 2) | carry
		carry = nextCarry
	}
}

// maskToLen clears every bit at or above position Len*2, so that
// Len fully determines the significant content.
func (k *PackedKmer) maskToLen() {
	bits := k.Len * 2
	for i := NumUint64 - 1; i >= 0; i-- {
		if bits >= 64 {
			bits -= 64
			continue
		}
		if bits <= 0 {
			k.Limbs[i] = 0
			continue
		}
		k.Limbs[i] &= (uint64(1) << bits) - 1
		bits = 0
	}
}

// ShiftAppend left-shifts the k-mer by one base, dropping the
// leftmost (oldest) base, and appends base at the rightmost slot.
// Length is unchanged.
func (k *PackedKmer) ShiftAppend(base byte) {
	k.shiftLeft2()
	k.Limbs[NumUint64-1] |= uint64(base & bnt.BaseMask)
	k.maskToLen()
}

// ShiftPreappend right-shifts the k-mer by one base, dropping the
// rightmost (newest) base, and inserts base as the new leftmost
// base. Length is unchanged.
func (k *PackedKmer) ShiftPreappend(base byte) {
	k.shiftRight2()
	if k.Len > 0 {
		shift := uint(k.Len-1) * 2
		limb := NumUint64 - 1 - int(shift/64)
		bitInLimb := shift % 64
		k.Limbs[limb] |= uint64(base&bnt.BaseMask) << bitInLimb
	}
}

// Resize changes the logical length. Growing exposes previously
// unused (zero) high-order bases; shrinking zeroes every bit at or
// above the new length so hashing/equality stay well defined.
func (k *PackedKmer) Resize(newLen int) {
	k.Len = newLen
	k.maskToLen()
}

// GetBase returns the 2-bit base at logical position i (0 == first
// base of the k-mer).
func (k PackedKmer) GetBase(i int) byte {
	shift := uint(k.Len-1-i) * 2
	limb := NumUint64 - 1 - int(shift/64)
	bitInLimb := shift % 64
	return byte((k.Limbs[limb] >> bitInLimb) & bnt.BaseMask)
}

// ReverseComplement returns the reverse complement of k: base order
// reversed, each base complemented (b -> 3-b).
func (k PackedKmer) ReverseComplement() PackedKmer {
	var rc PackedKmer
	rc.Len = k.Len
	for i := 0; i < k.Len; i++ {
		b := bnt.Complement(k.GetBase(k.Len - 1 - i))
		rc.ShiftAppend(b)
	}
	return rc
}

// Cmp lexicographically compares a and b by base position, 0..len-1.
// k-mers of unequal length are ordered by length first, matching the
// way canonicalization in this module only ever compares a k-mer
// against its own (equal-length) reverse complement.
func Cmp(a, b PackedKmer) int {
	if a.Len != b.Len {
		if a.Len < b.Len {
			return -1
		}
		return 1
	}
	for i := 0; i < NumUint64; i++ {
		if a.Limbs[i] != b.Limbs[i] {
			if a.Limbs[i] < b.Limbs[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether a sorts strictly before b under Cmp.
func Less(a, b PackedKmer) bool {
	return Cmp(a, b) < 0
}

// Equal reports whether a and b represent the same k-mer.
func Equal(a, b PackedKmer) bool {
	return Cmp(a, b) == 0
}

// Canonical returns the lexicographically smaller of k and its
// reverse complement.
func Canonical(k PackedKmer) PackedKmer {
	rc := k.ReverseComplement()
	if Less(rc, k) {
		return rc
	}
	return k
}

// Bytes returns a fresh byte slice encoding the k-mer's limbs and
// length, suitable as a key for hash functions that take raw bytes
// (e.g. cuckoofilter.Filter.Insert/Lookup).
func (k PackedKmer) Bytes() []byte {
	buf := make([]byte, NumUint64*8+8)
	for i := 0; i < NumUint64; i++ {
		binary.LittleEndian.PutUint64(buf[i*8:], k.Limbs[i])
	}
	binary.LittleEndian.PutUint64(buf[NumUint64*8:], uint64(k.Len))
	return buf
}

// Hash returns a deterministic hash that agrees with Cmp's notion of
// equality: cespare/xxhash over Bytes(). (Package cuckoofilter hashes
// the same bytes with go-metro instead.)
func (k PackedKmer) Hash() uint64 {
	return xxhash.Sum64(k.Bytes())
}

// String renders the k-mer as an ACGT sequence, for debugging.
func (k PackedKmer) String() string {
	bs := make([]byte, k.Len)
	for i := 0; i < k.Len; i++ {
		bs[i] = bnt.BntBase2Char[k.GetBase(i)]
	}
	return string(bs)
}

// GoString supports %#v / fmt debugging.
func (k PackedKmer) GoString() string {
	return fmt.Sprintf("PackedKmer(%s)", k.String())
}
