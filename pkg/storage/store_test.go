package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	bunt, err := OpenBuntDB(filepath.Join(t.TempDir(), "client_test.db"))
	if err != nil {
		t.Fatalf("open buntdb: %v", err)
	}
	t.Cleanup(func() { bunt.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"buntdb": bunt,
	}
}

func TestStore_PutGetDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(KeyAccessToken); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			err := store.Put(map[string]string{
				KeyAccessToken: "tok123",
				KeyLoggedIn:    LoggedInValue,
			})
			if err != nil {
				t.Fatalf("put: %v", err)
			}

			for key, want := range map[string]string{KeyAccessToken: "tok123", KeyLoggedIn: "true"} {
				got, err := store.Get(key)
				if err != nil {
					t.Fatalf("get %s: %v", key, err)
				}
				if got != want {
					t.Fatalf("get %s = %q, want %q", key, got, want)
				}
			}

			if err := store.Delete(KeyAccessToken, KeyLoggedIn, "never-set"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(KeyLoggedIn); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected deleted key, got %v", err)
			}
		})
	}
}

func TestBuntDB_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	first, err := OpenBuntDB(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Put(map[string]string{KeyAccessToken: "tok"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	first.Close()

	second, err := OpenBuntDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if got, err := second.Get(KeyAccessToken); err != nil || got != "tok" {
		t.Fatalf("expected persisted token, got %q (%v)", got, err)
	}
}

func TestBuntDB_TTLExpires(t *testing.T) {
	store, err := OpenBuntDB(":memory:", WithTTL(10*time.Millisecond))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Put(map[string]string{KeyAccessToken: "tok"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := store.Get(KeyAccessToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired key, got %v", err)
	}
}

func TestMemory_CountsWrites(t *testing.T) {
	m := NewMemory()
	_ = m.Put(map[string]string{"a": "1", "b": "2"})
	if m.Writes() != 1 {
		t.Fatalf("expected one write, got %d", m.Writes())
	}
}
