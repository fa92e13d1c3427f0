package features

import (
	"testing"

	"github.com/anglisano/nametag/ner/model"
)

func TestBaseLookupReservesWindowBand(t *testing.T) {
	b := &Base{}
	if err := b.Parse(2, nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	var total int32

	f1 := b.Lookup("alpha", &total)
	if f1 != 2 { // first band center sits at window (= 2) for the first allocation
		t.Fatalf("got center %d, want 2", f1)
	}
	if total != 5 { // 2*window+1
		t.Fatalf("got total %d, want 5", total)
	}

	f2 := b.Lookup("beta", &total)
	if f2 != 7 {
		t.Fatalf("got center %d, want 7", f2)
	}

	if again := b.Lookup("alpha", &total); again != f1 {
		t.Fatalf("repeated lookup changed id: got %d, want %d", again, f1)
	}
	if total != 10 {
		t.Fatalf("got total %d, want 10", total)
	}
}

func TestBaseLookupEmptyKeyIsWindowSentinelAndDoesNotAllocate(t *testing.T) {
	b := &Base{}
	_ = b.Parse(3, nil, nil, nil)
	var total int32
	b.Lookup("x", &total) // allocate something first
	before := total

	if got := b.Lookup("", &total); got != 3 {
		t.Fatalf("got %d, want window (3)", got)
	}
	if total != before {
		t.Fatalf("empty-key lookup allocated: before %d, after %d", before, total)
	}
}

func TestBaseSaveLoadRoundTrip(t *testing.T) {
	b := &Base{}
	_ = b.Parse(1, nil, nil, nil)
	var total int32
	b.Lookup("one", &total)
	b.Lookup("two", &total)
	b.Put("raw-entry", 999)

	enc := model.NewEncoder()
	b.Save(enc)

	loaded := &Base{}
	dec := model.NewDecoder(enc.Bytes())
	if err := loaded.Load(dec); err != nil {
		t.Fatal(err)
	}

	if loaded.Window != b.Window {
		t.Fatalf("window mismatch: got %d, want %d", loaded.Window, b.Window)
	}
	if loaded.Len() != b.Len() {
		t.Fatalf("entry count mismatch: got %d, want %d", loaded.Len(), b.Len())
	}
	for _, key := range b.order {
		gotV, ok := loaded.Get(key)
		if !ok {
			t.Fatalf("key %q missing after round trip", key)
		}
		wantV, _ := b.Get(key)
		if gotV != wantV {
			t.Fatalf("key %q: got %d, want %d", key, gotV, wantV)
		}
	}
}
