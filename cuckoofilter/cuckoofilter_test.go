package cuckoofilter

import "testing"

func TestInsertThenLookupHits(t *testing.T) {
	f := New(1024)
	keys := [][]byte{[]byte("ACGTACGT"), []byte("TTTTGGGG"), []byte("CCCCAAAA")}
	for _, k := range keys {
		if !f.Insert(k) {
			t.Fatalf("Insert(%s) = false", k)
		}
	}
	for _, k := range keys {
		if !f.Lookup(k) {
			t.Fatalf("Lookup(%s) = false after insert", k)
		}
	}
}

func TestLookupMissIsUsuallyFalse(t *testing.T) {
	f := New(1024)
	f.Insert([]byte("ACGTACGT"))
	if f.Lookup([]byte("ZZZZNOPE")) {
		t.Skip("cuckoo filter false positive on an untrained fixture; not a correctness failure")
	}
}

func TestInsertAbsorbsManyDistinctKeys(t *testing.T) {
	f := New(2000)
	for i := 0; i < 1000; i++ {
		key := []byte{byte(i), byte(i >> 8), byte(i >> 16), 0xAA}
		if !f.Insert(key) {
			t.Fatalf("Insert failed at key %d with filter sized for the load", i)
		}
	}
}

func TestRepeatedInsertIncrementsCountWithoutEviction(t *testing.T) {
	f := New(16)
	key := []byte("repeatme")
	for i := 0; i < int(maxCount)+3; i++ {
		if !f.Insert(key) {
			t.Fatalf("Insert #%d failed", i)
		}
	}
	if !f.Lookup(key) {
		t.Fatalf("Lookup = false after repeated inserts of the same key")
	}
}
