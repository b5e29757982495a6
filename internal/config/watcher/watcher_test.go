package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchAndClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := filepath.Join(t.TempDir(), "quill.toml")
	if err := os.WriteFile(path, []byte("[editor]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	// Watching the same file twice is fine.
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch again: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWatchAfterClose(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := w.Watch(filepath.Join(t.TempDir(), "x.toml")); err != ErrWatcherClosed {
		t.Errorf("Watch after close = %v, want ErrWatcherClosed", err)
	}
}

func TestWriteDeliversEvent(t *testing.T) {
	w, err := New(WithDebounce(time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "quill.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	// A write to an unwatched sibling must not produce an event.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("a = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		if filepath.Base(ev.Path) != "quill.toml" {
			t.Errorf("event for %q, want quill.toml", ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}
}
