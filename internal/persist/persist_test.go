package persist

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_MissingKeyNotAnError(t *testing.T) {
	s := openTemp(t)

	val, ok, err := s.Load("preferences")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || val != nil {
		t.Errorf("expected miss, got ok=%v val=%q", ok, val)
	}
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)

	if err := s.Save("experience_tier", []byte(`"expert"`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	val, ok, err := s.Load("experience_tier")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok || string(val) != `"expert"` {
		t.Errorf("expected round trip, got ok=%v val=%q", ok, val)
	}
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	s := openTemp(t)

	if err := s.Save("device_class", []byte(`"mobile"`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save("device_class", []byte(`"desktop"`)); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	val, ok, err := s.Load("device_class")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok || string(val) != `"desktop"` {
		t.Errorf("expected latest value, got ok=%v val=%q", ok, val)
	}
}
