// Package config validates the CLI surface spec.md §6 describes and
// produces the Options value the rest of the engine is threaded
// through explicitly, replacing the teacher's process-global GAArgs/
// Options-on-cli.Command idiom (ga.go's GAArgs, constructcf.go's
// Options/checkArgs) with a single reshape step per spec.md §9
// ("Global state... Reshape as a configuration record").
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/ga-iterate/kmer"
)

// ErrCapacity is returned (wrapped) by Check when k+s would exceed
// the PackedKmer capacity -- spec.md §7's CapacityError.
var ErrCapacity = errors.New("config: k+s exceeds max kmer capacity")

// Options holds one validated iterate invocation's configuration.
type Options struct {
	ContigFile     string // -c
	MultiFile      string // -m
	AddiContigFile string // --addi_contig_file
	AddiMultiFile  string // --addi_multi_file
	ReadsFile      string // -r ("-" means stdin)
	ReadsFormat    string // -f: fasta|fastq|binary
	NumCPU         int    // -t
	K              int    // -k
	S              int    // -s
	Prefix         string // -o
	MaxReadLen     int    // -l
	Cpuprofile     string // --cpuprofile
}

// NextK returns k' = k + s.
func (o Options) NextK() int { return o.K + o.S }

// HasAdditionalContigs reports whether a second ContigPass over
// additional contigs was requested.
func (o Options) HasAdditionalContigs() bool { return o.AddiContigFile != "" }

// Define registers every flag this engine reads on an odin
// subcommand, the way ga.go's subcommand blocks do
// (ccf.DefineInt64Flag("S", 0, ...), etc.).
func Define(c *cli.SubCommand) {
	c.DefineStringFlag("c", "", "primary contigs file (FASTA/FASTQ, possibly gzipped)")
	c.DefineStringFlag("m", "", "primary contig multiplicities file")
	c.DefineStringFlag("addi_contig_file", "", "additional contigs file (triggers a second ContigPass)")
	c.DefineStringFlag("addi_multi_file", "", "additional contig multiplicities file")
	c.DefineStringFlag("r", "", "reads file ('-' for stdin), may be gzipped")
	c.DefineStringFlag("f", "fastq", "reads format: fasta|fastq|binary")
	c.DefineIntFlag("t", 0, "CPU threads; 0 = auto-detect")
	c.DefineIntFlag("k", 0, "current k-mer size")
	c.DefineIntFlag("s", 0, "step s, advancing to k' = k+s")
	c.DefineStringFlag("o", "", "output file prefix")
	c.DefineIntFlag("l", 0, "maximum read length")
	c.DefineStringFlag("cpuprofile", "", "write a CPU profile to this file")
}

// FromCommand extracts and validates Options from an odin
// cli.Command, matching the teacher's c.Flag(name).String()/
// c.Flag(name).Get().(int) access pattern (constructcf.checkArgs,
// utils.CheckGlobalArgs).
func FromCommand(c cli.Command) (Options, error) {
	var o Options
	o.ContigFile = c.Flag("c").String()
	o.MultiFile = c.Flag("m").String()
	o.AddiContigFile = c.Flag("addi_contig_file").String()
	o.AddiMultiFile = c.Flag("addi_multi_file").String()
	o.ReadsFile = c.Flag("r").String()
	o.ReadsFormat = c.Flag("f").String()
	o.Prefix = c.Flag("o").String()
	o.Cpuprofile = c.Flag("cpuprofile").String()

	var ok bool
	if o.NumCPU, ok = c.Flag("t").Get().(int); !ok {
		return o, fmt.Errorf("config: argument 't' set error: %v", c.Flag("t").String())
	}
	if o.K, ok = c.Flag("k").Get().(int); !ok {
		return o, fmt.Errorf("config: argument 'k' set error: %v", c.Flag("k").String())
	}
	if o.S, ok = c.Flag("s").Get().(int); !ok {
		return o, fmt.Errorf("config: argument 's' set error: %v", c.Flag("s").String())
	}
	if o.MaxReadLen, ok = c.Flag("l").Get().(int); !ok {
		return o, fmt.Errorf("config: argument 'l' set error: %v", c.Flag("l").String())
	}

	if err := o.Check(); err != nil {
		return o, err
	}
	return o, nil
}

// Check validates Options against spec.md §6/§7's preconditions,
// resolving NumCPU==0 to runtime.NumCPU() before checking the >=2
// hard precondition.
func (o *Options) Check() error {
	if o.ContigFile == "" {
		return errors.New("config: -c (primary contigs file) is required")
	}
	if o.MultiFile == "" {
		return errors.New("config: -m (primary multiplicities file) is required")
	}
	if o.AddiContigFile != "" && o.AddiMultiFile == "" {
		return errors.New("config: --addi_multi_file is required when --addi_contig_file is set")
	}
	if o.ReadsFile == "" {
		return errors.New("config: -r (reads file) is required")
	}
	switch o.ReadsFormat {
	case "fasta", "fastq", "binary":
	default:
		return fmt.Errorf("config: -f must be one of fasta|fastq|binary, got %q", o.ReadsFormat)
	}
	if o.NumCPU < 0 {
		return errors.New("config: -t must be >= 0")
	}
	if o.NumCPU == 0 {
		o.NumCPU = runtime.NumCPU()
	}
	if o.NumCPU < 2 {
		return fmt.Errorf("config: -t resolved to %d CPU threads, need >= 2", o.NumCPU)
	}
	if o.K <= 0 {
		return errors.New("config: -k must be > 0")
	}
	if o.S < 1 || o.S > 29 {
		return errors.New("config: -s must be in [1, 29]")
	}
	if o.K+o.S >= kmer.MaxCapacity {
		return fmt.Errorf("%w: k+s (%d) >= max_kmer_capacity (%d)", ErrCapacity, o.K+o.S, kmer.MaxCapacity)
	}
	if o.Prefix == "" {
		return errors.New("config: -o (output prefix) is required")
	}
	if o.MaxReadLen <= 0 {
		return errors.New("config: -l must be > 0")
	}
	return nil
}
