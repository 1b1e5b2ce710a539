package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	ref, err := store.Save(ctx, strings.NewReader("%PDF-1.4 content"), "Agreement.PDF")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(ref, ".pdf") {
		t.Errorf("ref = %q, want lower-cased .pdf suffix", ref)
	}
	if strings.Contains(ref, "Agreement") {
		t.Errorf("ref %q leaks the original filename", ref)
	}

	r, err := store.Open(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	content, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "%PDF-1.4 content" {
		t.Errorf("content = %q", content)
	}

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Open(ctx, ref); err == nil {
		t.Error("open succeeded after delete")
	}
}

func TestLocalStorageRejectsPathTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for _, ref := range []string{"../secret.pdf", "a/b.pdf", "/etc/passwd"} {
		if _, err := store.Open(ctx, ref); err == nil {
			t.Errorf("open(%q) succeeded", ref)
		}
		if err := store.Delete(ctx, ref); err == nil {
			t.Errorf("delete(%q) succeeded", ref)
		}
	}
}
