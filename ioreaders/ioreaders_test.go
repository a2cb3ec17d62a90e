package ioreaders

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/mudesheng/ga-iterate/bnt"
)

func TestNewFastxSourceRejectsUnknownFormat(t *testing.T) {
	if _, err := NewFastxSource(strings.NewReader(""), "sam"); err == nil {
		t.Fatalf("NewFastxSource accepted an unsupported format")
	}
}

func TestFastxSourceReadsFasta(t *testing.T) {
	data := ">r1\nACGT\n>r2\nTTTT\n"
	src, err := NewFastxSource(strings.NewReader(data), "fasta")
	if err != nil {
		t.Fatalf("NewFastxSource: %v", err)
	}
	var got []Record
	for {
		r, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	want := []byte{bnt.BaseA, bnt.BaseC, bnt.BaseG, bnt.BaseT}
	if !bytes.Equal(got[0].Seq, want) {
		t.Fatalf("got[0].Seq = %v, want %v", got[0].Seq, want)
	}
}

func TestBinarySourceRoundTrip(t *testing.T) {
	data := "r1\t0123\nr2\t3210\n"
	src := NewBinarySource(strings.NewReader(data))
	r1, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r1.ID != "r1" || !bytes.Equal(r1.Seq, []byte{0, 1, 2, 3}) {
		t.Fatalf("r1 = %+v", r1)
	}
	r2, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if r2.ID != "r2" || !bytes.Equal(r2.Seq, []byte{3, 2, 1, 0}) {
		t.Fatalf("r2 = %+v", r2)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("final Next() err = %v, want io.EOF", err)
	}
}

func TestBinarySourceRejectsMalformedRecord(t *testing.T) {
	src := NewBinarySource(strings.NewReader("no-tab-here\n"))
	if _, err := src.Next(); err == nil {
		t.Fatalf("Next() accepted a record with no tab separator")
	}
}

func TestMultiplicityReaderReadsValues(t *testing.T) {
	r := NewMultiplicityReader(strings.NewReader("1.5\n2\n3.25\n"))
	var got []float64
	for {
		v, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, v)
	}
	want := []float64{1.5, 2, 3.25}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMultiplicityReaderRejectsMalformedValue(t *testing.T) {
	r := NewMultiplicityReader(strings.NewReader("not-a-number\n"))
	if _, err := r.Next(); err == nil {
		t.Fatalf("Next() accepted a malformed multiplicity")
	}
}
