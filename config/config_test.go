package config

import (
	"errors"
	"testing"
)

func validOptions() Options {
	return Options{
		ContigFile:  "contigs.fa",
		MultiFile:   "contigs.multi",
		ReadsFile:   "reads.fq",
		ReadsFormat: "fastq",
		NumCPU:      4,
		K:           21,
		S:           8,
		Prefix:      "out",
		MaxReadLen:  150,
	}
}

func TestCheckAcceptsValidOptions(t *testing.T) {
	o := validOptions()
	if err := o.Check(); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}
	if o.NextK() != 29 {
		t.Fatalf("NextK() = %d, want 29", o.NextK())
	}
}

func TestCheckRequiresContigAndMultiFiles(t *testing.T) {
	o := validOptions()
	o.ContigFile = ""
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted a missing contig file")
	}
	o = validOptions()
	o.MultiFile = ""
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted a missing multiplicity file")
	}
}

func TestCheckAdditionalContigsRequireMultiFile(t *testing.T) {
	o := validOptions()
	o.AddiContigFile = "addi.fa"
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted --addi_contig_file without --addi_multi_file")
	}
	o.AddiMultiFile = "addi.multi"
	if err := o.Check(); err != nil {
		t.Fatalf("Check() = %v, want nil once addi_multi_file is set", err)
	}
	if !o.HasAdditionalContigs() {
		t.Fatalf("HasAdditionalContigs() = false, want true")
	}
}

func TestCheckRejectsUnknownReadsFormat(t *testing.T) {
	o := validOptions()
	o.ReadsFormat = "sam"
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted an unknown reads format")
	}
}

func TestCheckRejectsNegativeNumCPU(t *testing.T) {
	o := validOptions()
	o.NumCPU = -1
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted a negative -t")
	}
}

func TestCheckStepRange(t *testing.T) {
	o := validOptions()
	o.S = 0
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted s=0")
	}
	o = validOptions()
	o.S = 30
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted s=30")
	}
}

func TestCheckCapacityError(t *testing.T) {
	o := validOptions()
	o.K = 100
	o.S = 29
	err := o.Check()
	if err == nil {
		t.Fatalf("Check() accepted k+s >= MaxCapacity")
	}
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("Check() error = %v, want wrapping ErrCapacity", err)
	}
}

func TestCheckRequiresOutputPrefix(t *testing.T) {
	o := validOptions()
	o.Prefix = ""
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted a missing output prefix")
	}
}

func TestCheckRequiresPositiveMaxReadLen(t *testing.T) {
	o := validOptions()
	o.MaxReadLen = 0
	if err := o.Check(); err == nil {
		t.Fatalf("Check() accepted -l=0")
	}
}
