package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, ok := store.Get(); ok {
		t.Fatal("fresh store should hold no token")
	}
	if err := store.Set("tok-123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if token, ok := store.Get(); !ok || token != "tok-123" {
		t.Fatalf("got %q, want tok-123", token)
	}

	// A second store over the same path sees the persisted token.
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if token, ok := reopened.Get(); !ok || token != "tok-123" {
		t.Fatalf("reopened store got %q, want tok-123", token)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file mode %o, want 600", perm)
	}
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Set("tok-123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Fatal("token survived Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("token file survived Clear: %v", err)
	}
	// Clearing an already-empty store is fine.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStoreRejectsEmptyToken(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Set("  "); err == nil {
		t.Fatal("expected error storing blank token")
	}
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()
	if _, ok := store.Get(); ok {
		t.Fatal("fresh store should hold no token")
	}
	_ = store.Set("tok")
	if token, ok := store.Get(); !ok || token != "tok" {
		t.Fatalf("got %q", token)
	}
	_ = store.Clear()
	if _, ok := store.Get(); ok {
		t.Fatal("token survived Clear")
	}
}
