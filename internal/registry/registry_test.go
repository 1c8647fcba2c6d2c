package registry

import (
	"testing"

	"github.com/vovakirdan/term8/internal/cart"
)

func TestRegisterAndCreate(t *testing.T) {
	Register("registry-test", func() *cart.Cart {
		c := cart.New("Registry Test", "function _draw() cls() end")
		c.Author = "tests"
		return c
	})

	if !Exists("registry-test") {
		t.Fatal("expected cart to exist after Register")
	}

	var found bool
	for _, info := range List() {
		if info.ID == "registry-test" {
			found = true
			if info.Title != "Registry Test" || info.Author != "tests" {
				t.Errorf("unexpected info %+v", info)
			}
		}
	}
	if !found {
		t.Error("List() did not include registered cart")
	}

	a, err := Create("registry-test")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, _ := Create("registry-test")
	if a == b || a.Sprites == b.Sprites {
		t.Error("Create should return independent copies")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-cart"); err == nil {
		t.Error("expected error for unknown cart")
	}
	if Exists("no-such-cart") {
		t.Error("Exists reported an unknown cart")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func() *cart.Cart { return cart.New("dup", "") }
	Register("registry-dup", f)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("registry-dup", f)
}

func TestListSorted(t *testing.T) {
	Register("registry-zz", func() *cart.Cart { return cart.New("zz", "") })
	Register("registry-aa", func() *cart.Cart { return cart.New("aa", "") })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
}
