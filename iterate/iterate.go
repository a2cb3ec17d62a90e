// Package iterate wires the engine's components together into one
// invocation per spec.md §2's control flow: initialize -> ContigPass
// (primary contigs) -> optional ContigPass (additional contigs,
// crucial map frozen) -> ReadPass -> flush the lock-striped table ->
// finalize. Grounded on ga.go's subcommand-handler shape
// (func(c cli.Command)) and constructcf.CCF's
// open-profile/parse/process/close sequencing, generalized from one
// monolithic function into a handful of focused helpers.
package iterate

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"sync"

	"github.com/mudesheng/ga-iterate/config"
	"github.com/mudesheng/ga-iterate/contigpass"
	"github.com/mudesheng/ga-iterate/crucialmap"
	"github.com/mudesheng/ga-iterate/edge"
	"github.com/mudesheng/ga-iterate/edgetable"
	"github.com/mudesheng/ga-iterate/ioreaders"
	"github.com/mudesheng/ga-iterate/kmer"
	"github.com/mudesheng/ga-iterate/pipeline"
	"github.com/mudesheng/ga-iterate/readpass"
	"github.com/mudesheng/ga-iterate/seqpkg"
)

// Run executes one full iterate invocation for the validated
// options opt.
func Run(opt config.Options) error {
	if opt.Cpuprofile != "" {
		f, err := os.Create(opt.Cpuprofile)
		if err != nil {
			return fmt.Errorf("iterate: create cpuprofile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("iterate: start cpuprofile: %w", err)
		}
		defer pprof.StopCPUProfile()
		defer f.Close()
	}

	edgesFp, err := os.Create(opt.Prefix + ".edges.0")
	if err != nil {
		return fmt.Errorf("iterate: create edges file: %w", err)
	}
	defer edgesFp.Close()
	edgesOut := bufio.NewWriterSize(edgesFp, 1<<20)
	defer edgesOut.Flush()

	nextK := opt.NextK()
	wordsPerEdge := edge.WordsPerEdge(nextK)
	header := [2]uint32{uint32(nextK), uint32(wordsPerEdge)}
	if err := binary.Write(edgesOut, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("iterate: write edges header: %w", err)
	}
	var edgesMu sync.Mutex

	cm := crucialmap.New(1 << 16)

	if err := runContigPass(opt.ContigFile, opt.MultiFile, opt.K, opt.S, cm, true, opt.NumCPU, edgesOut, &edgesMu); err != nil {
		return fmt.Errorf("iterate: primary contig pass: %w", err)
	}
	if opt.HasAdditionalContigs() {
		if err := runContigPass(opt.AddiContigFile, opt.AddiMultiFile, opt.K, opt.S, cm, false, opt.NumCPU, edgesOut, &edgesMu); err != nil {
			return fmt.Errorf("iterate: additional contig pass: %w", err)
		}
	}

	table := edgetable.New(1024, cm.Len()*10)

	rrFp, err := os.Create(opt.Prefix + ".rr.pb")
	if err != nil {
		return fmt.Errorf("iterate: create rr.pb file: %w", err)
	}
	defer rrFp.Close()
	rrOut := bufio.NewWriterSize(rrFp, 1<<20)
	defer rrOut.Flush()
	var rrMu sync.Mutex

	if err := runReadPass(opt, cm, table, rrOut, &rrMu); err != nil {
		return fmt.Errorf("iterate: read pass: %w", err)
	}

	flushed, err := flushEdgeTable(edgesOut, table, nextK)
	if err != nil {
		return fmt.Errorf("iterate: flush edge table: %w", err)
	}
	log.Printf("[iterate] wrote %d read-discovered edges\n", flushed)
	return nil
}

// detectFastxFormat infers fasta/fastq from a contig/multiplicity
// file name, ignoring any compression suffix OpenMaybeCompressed
// already stripped logically (the file itself is still compressed;
// only the inner record format is being guessed here), mirroring
// constructcf.GetReadsFileFormat's suffix-splitting idiom.
func detectFastxFormat(path string) string {
	p := path
	for _, suf := range []string{".br", ".zst", ".gz"} {
		if strings.HasSuffix(p, suf) {
			p = p[:len(p)-len(suf)]
			break
		}
	}
	if strings.HasSuffix(p, ".fa") || strings.HasSuffix(p, ".fasta") {
		return "fasta"
	}
	return "fastq"
}

// runContigPass drives one ContigPass over contigFile/multiFile,
// pumping seqpkg.ContigPackage batches through package pipeline's
// double-buffered producer/consumer.
func runContigPass(contigFile, multiFile string, k, s int, cm *crucialmap.Map, updateCrucialMap bool, numCPU int, w io.Writer, outMu *sync.Mutex) error {
	contigR, err := ioreaders.OpenMaybeCompressed(contigFile)
	if err != nil {
		return err
	}
	defer contigR.Close()
	multiR, err := ioreaders.OpenMaybeCompressed(multiFile)
	if err != nil {
		return err
	}
	defer multiR.Close()

	src, err := ioreaders.NewFastxSource(contigR, detectFastxFormat(contigFile))
	if err != nil {
		return err
	}
	mr := ioreaders.NewMultiplicityReader(multiR)

	var produceErr error
	produce := func() (interface{}, bool) {
		var batch seqpkg.ContigPackage
		for {
			rec, rerr := src.Next()
			if rerr != nil {
				if rerr != io.EOF {
					produceErr = fmt.Errorf("read contig: %w", rerr)
				}
				break
			}
			mu, merr := mr.Next()
			if merr != nil {
				produceErr = fmt.Errorf("multiplicity file shorter than contig file: %w", merr)
				break
			}
			if batch.Add(rec.Seq, mu) {
				break
			}
		}
		if batch.Size() == 0 {
			return nil, false
		}
		return &batch, true
	}

	var processErr error
	var errMu sync.Mutex
	process := func(v interface{}) {
		batch := v.(*seqpkg.ContigPackage)
		if _, err := contigpass.Batch(batch, k, s, cm, updateCrucialMap, w, outMu); err != nil {
			errMu.Lock()
			if processErr == nil {
				processErr = err
			}
			errMu.Unlock()
		}
	}
	pipeline.Run(produce, process, numCPU-1)

	if produceErr != nil {
		return produceErr
	}
	return processErr
}

// runReadPass drives ReadPass over opt's reads file, pumping
// seqpkg.ReadPackage batches through the same double-buffered
// pipeline, then writing each batch's aligned reads to w under
// outMu as soon as that batch's workers finish.
func runReadPass(opt config.Options, cm *crucialmap.Map, table *edgetable.Table, w io.Writer, outMu *sync.Mutex) error {
	r, err := ioreaders.OpenMaybeCompressed(opt.ReadsFile)
	if err != nil {
		return err
	}
	defer r.Close()

	var fastx *ioreaders.FastxSource
	var binSrc *ioreaders.BinarySource
	if opt.ReadsFormat == "binary" {
		binSrc = ioreaders.NewBinarySource(r)
	} else {
		fastx, err = ioreaders.NewFastxSource(r, opt.ReadsFormat)
		if err != nil {
			return err
		}
	}
	next := func() (ioreaders.Record, error) {
		if binSrc != nil {
			return binSrc.Next()
		}
		return fastx.Next()
	}

	var produceErr error
	produce := func() (interface{}, bool) {
		pkg := &seqpkg.ReadPackage{}
		pkg.Init(opt.MaxReadLen)
		for pkg.NumOfReads < seqpkg.MaxBatchSize {
			rec, rerr := next()
			if rerr != nil {
				if rerr != io.EOF {
					produceErr = fmt.Errorf("read %s record: %w", opt.ReadsFormat, rerr)
				}
				break
			}
			if len(rec.Seq) > opt.MaxReadLen {
				produceErr = fmt.Errorf("read %q length %d exceeds -l %d", rec.ID, len(rec.Seq), opt.MaxReadLen)
				break
			}
			if pkg.Add(rec.Seq) {
				break
			}
		}
		if pkg.NumOfReads == 0 {
			return nil, false
		}
		return pkg, true
	}

	var processErr error
	var errMu sync.Mutex
	process := func(v interface{}) {
		pkg := v.(*seqpkg.ReadPackage)
		readpass.Batch(pkg, opt.K, opt.S, cm, table)
		outMu.Lock()
		defer outMu.Unlock()
		for i := 0; i < pkg.NumOfReads; i++ {
			if !pkg.IsAligned(i) {
				continue
			}
			if err := binary.Write(w, binary.LittleEndian, pkg.ReadWords(i)); err != nil {
				errMu.Lock()
				if processErr == nil {
					processErr = fmt.Errorf("write aligned read: %w", err)
				}
				errMu.Unlock()
				return
			}
		}
	}
	pipeline.Run(produce, process, opt.NumCPU-1)

	if produceErr != nil {
		return produceErr
	}
	return processErr
}

// flushEdgeTable writes every edge the read pass discovered to w,
// per spec.md §5's "edge file ... first the contig-derived edges...
// then the read-discovered edges" ordering. Only meaningful once all
// ReadPass workers have quiesced.
func flushEdgeTable(w io.Writer, table *edgetable.Table, nextK int) (int, error) {
	count := 0
	var werr error
	table.ForEach(func(key kmer.PackedKmer, c uint16) {
		if werr != nil {
			return
		}
		bases := make([]byte, nextK+1)
		for i := range bases {
			bases[i] = key.GetBase(i)
		}
		words := edge.Pack(bases, nextK, c)
		if err := binary.Write(w, binary.LittleEndian, words); err != nil {
			werr = fmt.Errorf("write discovered edge: %w", err)
			return
		}
		count++
	})
	return count, werr
}
