package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get("min"); ok {
		t.Fatal("fresh store should be empty")
	}

	s.Set("min", "12")
	s.Set("max", "25")
	if err := s.Save(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := reopened.Get("min"); !ok || v != "12" {
		t.Errorf("min = %q (ok=%v), want 12", v, ok)
	}
	if v, ok := reopened.Get("max"); !ok || v != "25" {
		t.Errorf("max = %q (ok=%v), want 25", v, ok)
	}
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Error("missing file should yield empty store")
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("corrupt file should error")
	}
}
