// Package contigpass implements ContigPass: for primary contigs it
// builds the crucial-kmer entries a later ReadPass probes against,
// then -- for every contig, primary or additional -- re-emits the
// length-(k'+1) edges the contig implies with a multiplicity
// rescaled to k'+1, writing them straight to the edge file.
// Grounded on the teacher's ParaConstructCF worker shape
// (constructcf.go), adapted from per-kmer uniqueness counting into
// per-contig edge emission.
package contigpass

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/mudesheng/ga-iterate/crucialmap"
	"github.com/mudesheng/ga-iterate/edge"
	"github.com/mudesheng/ga-iterate/seqpkg"
	"github.com/mudesheng/ga-iterate/utils"
)

// RescaleMultiplicity computes mu_{k'+1}, the shared multiplicity
// every edge emitted from a contig of length l carries, from the
// contig's k-multiplicity muK, following spec.md §4.3 exactly. The
// caller must not call this for contigs shorter than nextK+1 bases
// (numNextK1 would be non-positive).
func RescaleMultiplicity(l, k, nextK int, muK float64) uint16 {
	numKmer := l - k + 1
	numNextK1 := l - (nextK + 1) + 1
	internalMax := utils.MinInt(nextK+1-k+1, numNextK1)
	numExternal := internalMax - 1
	numInternal := numKmer - 2*numExternal
	denom := float64(nextK + 1 - k + 1)
	expNumKmer := (float64(numExternal*(numExternal+1))/denom + float64(internalMax*numInternal)/denom) * muK
	mu := expNumKmer * float64(k) / (float64(nextK+1) * float64(numNextK1))
	rounded := math.RoundToEven(mu)
	switch {
	case rounded < 0:
		return 0
	case rounded > float64(edge.MaxMultiT):
		return edge.MaxMultiT
	default:
		return uint16(rounded)
	}
}

// WriteContigEdges packs and writes every length-(nextK+1) edge
// implied by contig (2-bit coded), sliding across it per spec.md
// §4.4, each edge carrying the same multiplicity mu. It reports how
// many edges were written. w is assumed already serialized by the
// caller -- spec.md §5 requires the edge file be written by only one
// thread at a time.
func WriteContigEdges(w io.Writer, contig []byte, nextK int, mu uint16) (emitted int, err error) {
	l := len(contig)
	if l < nextK+1 {
		return 0, nil
	}
	words := edge.Pack(contig[:nextK+1], nextK, mu)
	if err := writeWords(w, words); err != nil {
		return 0, fmt.Errorf("contigpass: write edge record: %w", err)
	}
	emitted = 1
	for p := 1; p+nextK < l; p++ {
		edge.SlideAppend(words, nextK, contig[p+nextK], mu)
		if err := writeWords(w, words); err != nil {
			return emitted, fmt.Errorf("contigpass: write edge record: %w", err)
		}
		emitted++
	}
	return emitted, nil
}

func writeWords(w io.Writer, words []uint32) error {
	return binary.Write(w, binary.LittleEndian, words)
}

// Batch runs one ContigPass over a single seqpkg.ContigPackage. When
// updateCrucialMap is true (the primary-contigs pass) every contig
// feeds crucialmap.Map.BuildFromContig before its edges are emitted;
// the additional-contigs pass sets updateCrucialMap false so the
// crucial map stays frozen, per spec.md §4.2. outMu serializes writes
// to w across concurrently running batches.
func Batch(batch *seqpkg.ContigPackage, k, s int, cm *crucialmap.Map, updateCrucialMap bool, w io.Writer, outMu *sync.Mutex) (emitted int, err error) {
	nextK := k + s
	for i, contig := range batch.Seqs {
		if updateCrucialMap {
			cm.BuildFromContig(contig, k, s)
		}
		if len(contig) < nextK+1 {
			continue
		}
		mu := RescaleMultiplicity(len(contig), k, nextK, batch.Multiplicity[i])
		outMu.Lock()
		n, werr := WriteContigEdges(w, contig, nextK, mu)
		outMu.Unlock()
		if werr != nil {
			return emitted, fmt.Errorf("contigpass: contig %d: %w", i, werr)
		}
		emitted += n
	}
	return emitted, nil
}
