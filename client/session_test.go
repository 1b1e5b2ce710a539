package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSessionStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileSessionStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	user := &User{ID: 1, Username: "admin", Role: RoleAdmin}
	if err := store.Save("token-123", user); err != nil {
		t.Fatal(err)
	}

	// A fresh store over the same directory sees the session.
	store2, err := NewFileSessionStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	token, restored, err := store2.Restore()
	if err != nil {
		t.Fatal(err)
	}
	if token != "token-123" {
		t.Errorf("token = %q", token)
	}
	if restored == nil || restored.Username != "admin" || restored.Role != RoleAdmin {
		t.Errorf("user = %+v", restored)
	}

	if err := store2.Clear(); err != nil {
		t.Fatal(err)
	}
	token, restored, err = store2.Restore()
	if err != nil || token != "" || restored != nil {
		t.Errorf("after clear: (%q, %+v, %v)", token, restored, err)
	}

	// Clearing an already empty store is fine.
	if err := store2.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestFileSessionStoreCorruptUserFile(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileSessionStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("token-123", &User{ID: 1, Username: "admin"}); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "user.json"), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	token, user, err := store.Restore()
	if err != nil || token != "" || user != nil {
		t.Errorf("corrupt session restored as (%q, %+v, %v), want empty", token, user, err)
	}
}

func TestFileSessionStoreMissingTokenMeansNoSession(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileSessionStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	token, user, err := store.Restore()
	if err != nil || token != "" || user != nil {
		t.Errorf("empty store restored as (%q, %+v, %v)", token, user, err)
	}
}

func TestClientRestoresSessionFromStore(t *testing.T) {
	store := NewMemorySessionStore()
	if err := store.Save("token-123", &User{ID: 1, Username: "admin", Role: RoleAdmin}); err != nil {
		t.Fatal(err)
	}

	c := New("http://localhost:8091", WithSessionStore(store))
	if !c.LoggedIn() {
		t.Error("client did not restore the stored session")
	}
	if user := c.CurrentUser(); user == nil || user.Username != "admin" {
		t.Errorf("current user = %+v", c.CurrentUser())
	}
}
