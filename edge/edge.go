// Package edge implements EdgeWriter: serialization of a
// length-(k'+1) base sequence plus a saturating multiplicity into
// kWordsPerEdge little-endian uint32 words, per spec.md §3/§6.
//
// The bit layout is grounded in original_source/iterate_edges.cpp's
// packed_edge[] construction, adapted to the teacher's
// binary.Write(..., binary.LittleEndian, ...) convention
// (constructcf.go, cuckoofilter/cuckoofilter.go) instead of the
// original's native-endian fwrite. The packing loop there reads bases
// as CharAt(i, next_k-j): the LAST base of the window (logical
// position nextK) lands in the high bits of word 0, and the FIRST
// base (logical position 0) ends up in the lowest base slot of the
// last base-word, the base slot closest to the multiplicity field. SlideAppend relies on
// this ordering: shifting the whole record right by 2 bits discards
// position 0 off the bottom and makes room for a new position nextK
// at the top, exactly the outgoing/incoming pair a sliding window
// needs.
package edge

import (
	"fmt"
)

// BitsPerMultiT is the width of the saturating multiplicity field
// packed into the low bits of the last word.
const BitsPerMultiT = 16

// MaxMultiT is the saturating ceiling a multiplicity may reach:
// kMaxMulti_t = 2^BitsPerMultiT - 1.
const MaxMultiT = (1 << BitsPerMultiT) - 1

// WordsPerEdge returns kWordsPerEdge for a given next-k (k' = k+s):
// ceil(((k'+1)*2 + BitsPerMultiT) / 32).
func WordsPerEdge(nextK int) int {
	bits := (nextK+1)*2 + BitsPerMultiT
	return (bits + 31) / 32
}

// LastShift returns the left-shift, in bits, applied to the word
// holding the window's leading (position-0) base so that the
// multiplicity's BitsPerMultiT low bits are left free:
// ((16 - (k'+1) mod 16) mod 16) * 2.
func LastShift(nextK int) int {
	m := (nextK + 1) % 16
	if m == 0 {
		return 0
	}
	return (16 - m) * 2
}

// Pack serializes bases[0..nextK] (length nextK+1) plus multiplicity
// into a kWordsPerEdge-word record: position nextK (the last base)
// occupies the highest 2 bits of word 0, position 0 (the first base)
// ends up in the lowest base slot of the last filled base-word, and
// multiplicity is OR'd into the low BitsPerMultiT bits of the last
// word overall.
func Pack(bases []byte, nextK int, multiplicity uint16) []uint32 {
	if len(bases) != nextK+1 {
		panic(fmt.Sprintf("edge.Pack: len(bases)=%d, want %d", len(bases), nextK+1))
	}
	if multiplicity > MaxMultiT {
		panic("edge.Pack: multiplicity exceeds MaxMultiT")
	}
	words := make([]uint32, WordsPerEdge(nextK))
	w := uint32(0)
	endWord := 0
	for j := 0; j < nextK+1; j++ {
		w = (w << 2) | uint32(bases[nextK-j]&3)
		if (j+1)%16 == 0 {
			words[endWord] = w
			w = 0
			endWord++
		}
	}
	words[endWord] = w << uint(LastShift(nextK))
	words[len(words)-1] |= uint32(multiplicity)
	return words
}

// Unpack decodes a kWordsPerEdge-word record back into its bases and
// multiplicity, reversing Pack exactly (spec.md §8 property 3).
func Unpack(words []uint32, nextK int) (bases []byte, multiplicity uint16) {
	wpe := WordsPerEdge(nextK)
	if len(words) != wpe {
		panic(fmt.Sprintf("edge.Unpack: len(words)=%d, want %d", len(words), wpe))
	}
	multiplicity = uint16(words[wpe-1] & MaxMultiT)
	bases = make([]byte, nextK+1)
	tmp := make([]uint32, wpe)
	copy(tmp, words)
	tmp[wpe-1] &^= uint32(MaxMultiT)
	for slot := 0; slot <= nextK; slot++ {
		word := slot / 16
		posInWord := 15 - (slot % 16)
		b := byte((tmp[word] >> uint(posInWord*2)) & 3)
		bases[nextK-slot] = b
	}
	return bases, multiplicity
}

// SlideAppend advances a previously-written packed edge one position
// along its source sequence: drops the outgoing base (logical
// position 0) and appends incoming as the new logical position nextK,
// re-applying multiplicity. Matches the sliding-window update in
// original_source/iterate_edges.cpp's contig edge emission loop
// (packed_edge[next_k/16] &= ~(3<<...); shift right by 2 across words;
// OR incoming base into the high bits of word 0).
func SlideAppend(words []uint32, nextK int, incoming byte, multiplicity uint16) {
	wpe := WordsPerEdge(nextK)
	if len(words) != wpe {
		panic(fmt.Sprintf("edge.SlideAppend: len(words)=%d, want %d", len(words), wpe))
	}
	words[wpe-1] &^= uint32(MaxMultiT)
	// Clear the slot holding position 0 (the base about to be shifted
	// off the bottom) before shifting, mirroring the original's
	// explicit clear of packed_edge[next_k/16]'s bit field.
	words[nextK/16] &^= uint32(3) << uint((15-nextK%16)*2)
	for i := wpe - 1; i > 0; i-- {
		words[i] = (words[i] >> 2) | (words[i-1] << 30)
	}
	words[0] = (words[0] >> 2) | (uint32(incoming&3) << 30)
	words[wpe-1] |= uint32(multiplicity)
}
