package stakereport

import (
	"path/filepath"
	"testing"

	"github.com/brainwerk/stakereport/date"
	"github.com/shopspring/decimal"
)

// roundTrip exercises the CacheStore contract against an implementation.
func roundTrip(t *testing.T, open func(path string) (CacheStore, error), file string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), file)

	store, err := open(path)
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}

	want := TxDetail{
		TxID:    "t1",
		Day:     date.MustParse("2017-01-05"),
		ValueIn: decimal.NewFromFloat(101.343),
		Fee:     decimal.NewFromFloat(0.0025),
		Ticket:  "",
	}
	if err := store.Put(want); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Put(detail("t2", "2017-01-06", 0.0146)); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	store, err = open(path)
	if err != nil {
		t.Fatalf("reopen store failed: %v", err)
	}
	defer store.Close()
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d entries, want 2", len(got))
	}
	d := got["t1"]
	if d.Day != want.Day || !d.Fee.Equal(want.Fee) || !d.ValueIn.Equal(want.ValueIn) {
		t.Errorf("Load()[t1] = %+v, want %+v", d, want)
	}
}

func TestJSONLStoreRoundTrip(t *testing.T) {
	roundTrip(t, func(path string) (CacheStore, error) { return OpenJSONLStore(path) }, "cache.jsonl")
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	roundTrip(t, func(path string) (CacheStore, error) { return OpenSQLiteStore(path) }, "cache.db")
}

func TestJSONLStoreLoadMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.jsonl")
	store, err := OpenJSONLStore(path)
	if err != nil {
		t.Fatalf("OpenJSONLStore() failed: %v", err)
	}
	defer store.Close()
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() of fresh store returned %d entries, want 0", len(got))
	}
}

func TestSQLiteStorePutOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() failed: %v", err)
	}
	defer store.Close()

	store.Put(detail("t1", "2017-01-05", 0.0146))
	store.Put(detail("t1", "2017-01-05", 0.0200))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Load() returned %d entries, want 1", len(got))
	}
	if !got["t1"].Fee.Equal(decimal.NewFromFloat(0.0200)) {
		t.Errorf("Fee = %s, want 0.02 (last write wins)", got["t1"].Fee)
	}
}
