package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/term8/internal/cart"
)

func writeCart(t *testing.T, path, name string) {
	t.Helper()
	if err := cart.Save(path, cart.New(name, "function _draw() cls(1) end")); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func waitUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u := <-w.Updates():
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
		return Update{}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo"+cart.FileExtension)
	writeCart(t, path, "first")

	w, err := New(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	writeCart(t, path, "second")
	u := waitUpdate(t, w)
	if u.Err != nil {
		t.Fatalf("unexpected error: %v", u.Err)
	}
	if u.Cart.Name != "second" {
		t.Errorf("Name = %q, want second", u.Cart.Name)
	}
}

func TestWatcherReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken"+cart.FileExtension)
	writeCart(t, path, "ok")

	w, err := New(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("sprites:\n  99: [\"0\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	u := waitUpdate(t, w)
	if u.Err == nil {
		t.Error("expected a parse error")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine"+cart.FileExtension)
	writeCart(t, path, "mine")

	w, err := New(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	writeCart(t, filepath.Join(dir, "other"+cart.FileExtension), "other")

	select {
	case u := <-w.Updates():
		t.Errorf("unexpected update %+v", u)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPublishKeepsLatest(t *testing.T) {
	w := &Watcher{updates: make(chan Update, 1)}
	w.publish(Update{Cart: cart.New("old", "")})
	w.publish(Update{Cart: cart.New("new", "")})

	u := <-w.Updates()
	if u.Cart.Name != "new" {
		t.Errorf("got %q, want newest update", u.Cart.Name)
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope", "x.t8.yaml"), 0, nil); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestWatcherCloseReleasesReaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo"+cart.FileExtension)
	writeCart(t, path, "first")

	w, err := New(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	released := make(chan bool)
	go func() {
		_, ok := <-w.Updates()
		released <- ok
	}()

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case ok := <-released:
		if ok {
			t.Error("reader got an update instead of a closed channel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reader still blocked after Close")
	}

	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
