package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/term8/internal/cart"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndLoadCart(t *testing.T) {
	store := openTestStore(t)

	c := cart.New("Star Catcher", "function _draw() cls(1) end")
	c.Author = "tester"
	c.Sprites[0].SetPixel(2, 1, 11)
	c.Sprites[15].SetPixel(7, 7, 15)

	if err := store.SaveCart(c); err != nil {
		t.Fatalf("SaveCart() failed: %v", err)
	}

	got, err := store.LoadCart("Star Catcher")
	if err != nil {
		t.Fatalf("LoadCart() failed: %v", err)
	}
	if got.Code != c.Code || got.Author != "tester" {
		t.Errorf("unexpected cart %+v", got)
	}
	if *got.Sprites != *c.Sprites {
		t.Error("sprite bank did not survive the round trip")
	}
	if got.Sprites == c.Sprites {
		t.Error("LoadCart should return a fresh bank")
	}
}

func TestStoreSaveCartReplaces(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveCart(cart.New("demo", "a = 1")); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCart(cart.New("demo", "a = 2")); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadCart("demo")
	if err != nil {
		t.Fatal(err)
	}
	if got.Code != "a = 2" {
		t.Errorf("Code = %q, want replacement", got.Code)
	}

	list, err := store.ListCarts()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 cart, got %d", len(list))
	}
}

func TestStoreSaveCartRequiresName(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveCart(cart.New("  ", "")); err == nil {
		t.Error("expected error for unnamed cart")
	}
}

func TestStoreListCarts(t *testing.T) {
	store := openTestStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.SaveCart(cart.New(name, "")); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.ListCarts()
	if err != nil {
		t.Fatalf("ListCarts() failed: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(list) != len(want) {
		t.Fatalf("expected %d carts, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("list[%d] = %q, want %q", i, list[i].Name, name)
		}
	}
}

func TestStoreDeleteCart(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveCart(cart.New("gone", "")); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteCart("gone"); err != nil {
		t.Fatalf("DeleteCart() failed: %v", err)
	}
	if _, err := store.LoadCart("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadCart after delete = %v, want ErrNotFound", err)
	}
	if err := store.DeleteCart("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteCart = %v, want ErrNotFound", err)
	}
}

func TestStoreRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{Cart: "starcatcher", Outcome: "looping", Ticks: 600, Duration: 10 * time.Second},
		{Cart: "bounce", Outcome: "halted", Message: "Runtime Error: boom", Ticks: 3, Duration: 50 * time.Millisecond},
		{Cart: "starcatcher", Outcome: "compile-failed", Message: "syntax"},
	}
	for _, r := range runs {
		if _, err := store.RecordRun(r); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
	// Newest first
	if all[0].Outcome != "compile-failed" || all[2].Outcome != "looping" {
		t.Errorf("unexpected order: %+v", all)
	}
	if all[1].Message != "Runtime Error: boom" || all[1].Duration != 50*time.Millisecond {
		t.Errorf("unexpected run %+v", all[1])
	}

	star, err := store.RecentRuns("starcatcher", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(star) != 2 {
		t.Errorf("expected 2 starcatcher runs, got %d", len(star))
	}

	limited, err := store.RecentRuns("", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 run with limit, got %d", len(limited))
	}
}

func TestStoreCartStats(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []Run{
		{Cart: "starcatcher", Outcome: "looping", Ticks: 100},
		{Cart: "starcatcher", Outcome: "halted", Ticks: 20},
		{Cart: "starcatcher", Outcome: "looping", Ticks: 5},
		{Cart: "hello", Outcome: "looping", Ticks: 1},
	} {
		if _, err := store.RecordRun(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.GetCartStats("halted", "init-failed", "compile-failed")
	if err != nil {
		t.Fatalf("GetCartStats() failed: %v", err)
	}
	st := stats["starcatcher"]
	if st == nil {
		t.Fatal("missing starcatcher stats")
	}
	if st.Runs != 3 || st.Failures != 1 || st.TotalTicks != 125 {
		t.Errorf("unexpected stats %+v", st)
	}
	if stats["hello"].Runs != 1 {
		t.Errorf("unexpected hello stats %+v", stats["hello"])
	}
}

func TestSpriteEncoding(t *testing.T) {
	bank := &cart.SpriteBank{}
	bank[3].SetPixel(1, 2, 10)
	bank[15].SetPixel(7, 7, 15)

	encoded := encodeSprites(bank)
	if len(encoded) != cart.BankSize*cart.SpritePixels {
		t.Fatalf("encoded length %d", len(encoded))
	}
	decoded, err := decodeSprites(encoded)
	if err != nil {
		t.Fatalf("decodeSprites() failed: %v", err)
	}
	if *decoded != *bank {
		t.Error("decoded bank differs")
	}

	if _, err := decodeSprites("abc"); err == nil {
		t.Error("expected length error")
	}
	bad := []byte(encoded)
	bad[0] = 'z'
	if _, err := decodeSprites(string(bad)); err == nil {
		t.Error("expected digit error")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.term8/test.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".term8", "test.db")); err != nil {
		t.Errorf("Database not created under home: %v", err)
	}
}
