// Package hello is the smallest useful cart: it only defines _draw.
package hello

import (
	_ "embed"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/registry"
)

// ID is the registry name of the cart.
const ID = "hello"

//go:embed hello.t8.yaml
var source []byte

// New returns a fresh copy of the Hello cart.
func New() *cart.Cart {
	c, err := cart.Parse(source)
	if err != nil {
		panic("hello: embedded cart: " + err.Error())
	}
	return c
}

func init() {
	registry.Register(ID, New)
}
