// Package ioreaders opens the engine's input streams -- contigs,
// reads, multiplicities -- decompressing them transparently and
// translating raw bytes to 2-bit codes, generalized from the
// teacher's scattered open-a-file-then-wrap-it call sites
// (constructcf.GetReadSeqBucket's cbrotli.NewReaderSize,
// constructdbg/mapDBG.GetRawReads's fasta.NewReader over
// biogo/biogo, preprocess.go's zstd.NewReader) into one entry point
// the pipeline producer calls once per input file.
package ioreaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/google/brotli/go/cbrotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/mudesheng/ga-iterate/bnt"
)

// OpenMaybeCompressed opens path, or stdin when path == "-", and
// transparently wraps it with a decompressor chosen by suffix:
// ".br" -> cbrotli (the teacher's ReadBrFile2 pattern), ".zst" ->
// klauspost/compress/zstd (constructcf.go's zr/zstd.NewReader
// pattern), ".gz" -> klauspost/compress/gzip. Anything else is
// returned unwrapped. The caller owns the returned Close.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdin}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ioreaders: open %q: %w", path, err)
	}
	switch {
	case strings.HasSuffix(path, ".br"):
		br := cbrotli.NewReader(f)
		return closerFunc{Reader: br, closeFn: func() error { br.Close(); return f.Close() }}, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("ioreaders: zstd open %q: %w", path, err)
		}
		return closerFunc{Reader: zr, closeFn: func() error { zr.Close(); return f.Close() }}, nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("ioreaders: gzip open %q: %w", path, err)
		}
		return closerFunc{Reader: gz, closeFn: func() error { gz.Close(); return f.Close() }}, nil
	default:
		return f, nil
	}
}

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }

type closerFunc struct {
	io.Reader
	closeFn func() error
}

func (c closerFunc) Close() error { return c.closeFn() }

// Record is one sequence read off a FASTA/FASTQ/binary source,
// 2-bit coded through bnt.Base2Bnt the way
// constructdbg/mapDBG.go's GetRawReads and constructcf.go's
// Transform2BntByte do.
type Record struct {
	ID  string
	Seq []byte // 2-bit coded
}

// FastxSource reads FASTA or FASTQ records from an underlying
// stream, grounded on constructdbg/mapDBG.go's
// `fasta.NewReader(infile, linear.NewSeq("", nil, alphabet.DNA))`
// idiom, extended here to also accept FASTQ via biogo's fastq
// reader since this engine's -f flag allows either format.
type FastxSource struct {
	fastaReader *fasta.Reader
	fastqReader *fastq.Reader
	binary      bool
}

// NewFastxSource builds a source for format ("fasta" or "fastq")
// over r.
func NewFastxSource(r io.Reader, format string) (*FastxSource, error) {
	template := linear.NewSeq("", nil, alphabet.DNA)
	switch format {
	case "fasta":
		return &FastxSource{fastaReader: fasta.NewReader(r, template)}, nil
	case "fastq":
		return &FastxSource{fastqReader: fastq.NewReader(r, template)}, nil
	default:
		return nil, fmt.Errorf("ioreaders: unsupported fastx format %q", format)
	}
}

// Next returns the next record, or io.EOF when the stream is
// exhausted.
func (s *FastxSource) Next() (Record, error) {
	if s.fastaReader != nil {
		seq, err := s.fastaReader.Read()
		if err != nil {
			return Record{}, err
		}
		l := seq.(*linear.Seq)
		rec := Record{ID: l.Name(), Seq: make([]byte, len(l.Seq))}
		for i, c := range l.Seq {
			rec.Seq[i] = bnt.Base2Bnt[byte(c)]
		}
		return rec, nil
	}
	seq, err := s.fastqReader.Read()
	if err != nil {
		return Record{}, err
	}
	l := seq.(*linear.QSeq)
	rec := Record{ID: l.Name(), Seq: make([]byte, len(l.Seq))}
	for i, ql := range l.Seq {
		rec.Seq[i] = bnt.Base2Bnt[byte(ql.L)]
	}
	return rec, nil
}

// BinarySource reads the "binary" reads format: one record per
// line, "<id>\t<2-bit codes as ASCII digits '0'..'3', one per base>",
// produced by an upstream stage that has already base-called and
// 2-bit-coded its output. This keeps the CLI's -f binary contract
// self-contained without depending on the opaque ReadPackage
// on-disk layout spec.md §6 explicitly leaves unspecified.
type BinarySource struct {
	r *bufio.Reader
}

// NewBinarySource wraps r for binary-format reading.
func NewBinarySource(r io.Reader) *BinarySource {
	return &BinarySource{r: bufio.NewReaderSize(r, 1<<20)}
}

// Next returns the next record, or io.EOF when the stream is
// exhausted.
func (s *BinarySource) Next() (Record, error) {
	line, err := s.r.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return Record{}, err
	}
	line = trimNewline(line)
	idx := indexByte(line, '\t')
	if idx < 0 {
		return Record{}, fmt.Errorf("ioreaders: malformed binary record %q", line)
	}
	id := string(line[:idx])
	codes := line[idx+1:]
	seq := make([]byte, len(codes))
	for i, c := range codes {
		v, perr := strconv.Atoi(string(c))
		if perr != nil || v > 3 {
			return Record{}, fmt.Errorf("ioreaders: malformed binary base code %q", c)
		}
		seq[i] = byte(v)
	}
	return Record{ID: id, Seq: seq}, nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// MultiplicityReader reads one floating-point multiplicity per line,
// parallel to the contigs in the matching -c/-m or
// --addi_contig_file/--addi_multi_file pair, matching the teacher's
// one-value-per-line convention for auxiliary metadata files.
type MultiplicityReader struct {
	sc *bufio.Scanner
}

// NewMultiplicityReader wraps r for line-delimited multiplicity
// reading.
func NewMultiplicityReader(r io.Reader) *MultiplicityReader {
	return &MultiplicityReader{sc: bufio.NewScanner(r)}
}

// Next returns the next multiplicity value, or io.EOF once the
// stream is exhausted.
func (m *MultiplicityReader) Next() (float64, error) {
	if !m.sc.Scan() {
		if err := m.sc.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m.sc.Text()), 64)
	if err != nil {
		return 0, fmt.Errorf("ioreaders: malformed multiplicity %q: %w", m.sc.Text(), err)
	}
	return v, nil
}
