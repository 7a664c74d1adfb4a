package services

import (
	"errors"
	"testing"
)

func TestMediaStoreResolveRejectsTraversal(t *testing.T) {
	store, err := NewMediaStore(t.TempDir(), "https://cdn.example.com")
	if err != nil {
		t.Fatal(err)
	}
	for _, bad := range []string{"../etc/passwd", "posts/../../secret", ""} {
		if _, err := store.Resolve(bad); err == nil {
			t.Errorf("Resolve(%q) should fail", bad)
		}
	}
}

func TestMediaStoreResolveMissingFile(t *testing.T) {
	store, err := NewMediaStore(t.TempDir(), "https://cdn.example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Resolve("posts/does-not-exist.png"); !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestMediaStoreURLFor(t *testing.T) {
	store, err := NewMediaStore(t.TempDir(), "https://cdn.example.com/")
	if err != nil {
		t.Fatal(err)
	}
	url := store.URLFor("posts/abc.png")
	if url == nil || *url != "https://cdn.example.com/posts/abc.png" {
		t.Errorf("URLFor = %v", url)
	}
	if store.URLFor("") != nil {
		t.Error("empty blob must map to nil URL")
	}
}
