// Package bnt holds the 2-bit DNA alphabet tables shared by every
// packed-kmer and packed-sequence type in this module.
package bnt

const (
	// NumBitsInBase is the width, in bits, of one packed base.
	NumBitsInBase = 2
	// NumBaseInUint64 is how many packed bases fit in one uint64 limb.
	NumBaseInUint64 = 64 / NumBitsInBase
	// BaseMask isolates a single packed base's low bits.
	BaseMask = (1 << NumBitsInBase) - 1

	// BaseA, BaseC, BaseG, BaseT are the canonical 2-bit codes.
	BaseA = 0
	BaseC = 1
	BaseG = 2
	BaseT = 3

	// BaseSentinel is used for any input byte outside {A,C,G,T}.
	//
	// This intentionally collides with BaseG: the original assembler's
	// dna_map[] initializes every entry to 2 and then overwrites
	// A/C/G/T, so unknown bytes decode as G. We reproduce that
	// bit-for-bit rather than silently fixing it, per the open
	// question this behavior was inherited from. A k-mer that crosses
	// a sentinel-coded position is therefore compared as if that
	// position held a real G.
	BaseSentinel = BaseG
)

// Base2Bnt maps an input byte to its 2-bit code. Non-ACGT bytes map
// to BaseSentinel.
var Base2Bnt [256]byte

// BntBase2Char is the inverse of Base2Bnt for the four real bases.
var BntBase2Char = [4]byte{'A', 'C', 'G', 'T'}

// BntRev is the reverse-complement of a 2-bit base: A<->T, C<->G.
var BntRev = [4]byte{BaseT, BaseG, BaseC, BaseA}

func init() {
	for i := range Base2Bnt {
		Base2Bnt[i] = BaseSentinel
	}
	Base2Bnt['A'] = BaseA
	Base2Bnt['a'] = BaseA
	Base2Bnt['C'] = BaseC
	Base2Bnt['c'] = BaseC
	Base2Bnt['G'] = BaseG
	Base2Bnt['g'] = BaseG
	Base2Bnt['T'] = BaseT
	Base2Bnt['t'] = BaseT
}

// Complement returns the complement of a single packed base.
func Complement(b byte) byte {
	return BntRev[b&BaseMask]
}
