package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	ctx := context.Background()

	content := "pdf bytes here"
	if err := store.Put(ctx, "1_report.pdf", strings.NewReader(content), int64(len(content)), "application/pdf"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	rc, err := store.Get(ctx, "1_report.pdf")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if string(got) != content {
		t.Errorf("Get() = %q, want %q", got, content)
	}
}

func TestLocalStoreGetMissing(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}

	if _, err := store.Get(context.Background(), "absent.pdf"); err == nil {
		t.Error("Get() for missing key returned nil error")
	}
}

func TestLocalStoreConfinesKeysToBaseDir(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store, err := NewLocalStore(base)
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	ctx := context.Background()

	// Path components in the key collapse to the final element.
	if err := store.Put(ctx, "../escape.pdf", strings.NewReader("x"), 1, "application/pdf"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "escape.pdf")); err != nil {
		t.Errorf("object not written inside base dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(base), "escape.pdf")); err == nil {
		t.Error("object escaped the base dir")
	}
}

func TestNewLocalStoreCreatesDir(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "nested", "uploads")
	if _, err := NewLocalStore(base); err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		t.Errorf("base dir not created: %v", err)
	}
}
