package identitystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/GuyBernstein/Client-Server-File-Transfer/internal/config"
)

func TestStoreThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	id := uuid.New()

	if err := Store(dir, "alice", id, "dGVzdA=="); err != nil {
		t.Fatal(err)
	}

	loaded, ok, err := config.LoadIdentity(filepath.Join(dir, config.ClientInfoFile), filepath.Join(dir, config.KeyInfoFile))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected identity to be loadable after Store")
	}
	if loaded.Username != "alice" || loaded.ID != id || loaded.PrivateKeyB64 != "dGVzdA==" {
		t.Errorf("got %+v", loaded)
	}
}

func TestStoreOverwritesPriorFiles(t *testing.T) {
	dir := t.TempDir()
	id1, id2 := uuid.New(), uuid.New()
	if err := Store(dir, "alice", id1, "key1"); err != nil {
		t.Fatal(err)
	}
	if err := Store(dir, "bob", id2, "key2"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, config.ClientInfoFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "" {
		t.Fatal("expected non-empty me.info")
	}
	loaded, _, err := config.LoadIdentity(filepath.Join(dir, config.ClientInfoFile), filepath.Join(dir, config.KeyInfoFile))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Username != "bob" || loaded.ID != id2 {
		t.Errorf("expected second Store to win, got %+v", loaded)
	}
}
