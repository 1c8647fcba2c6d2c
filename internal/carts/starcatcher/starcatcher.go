// Package starcatcher is the default cart: move the alien with the arrows
// and collect stars.
package starcatcher

import (
	_ "embed"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/registry"
)

// ID is the registry name of the cart.
const ID = "starcatcher"

//go:embed starcatcher.t8.yaml
var source []byte

// New returns a fresh copy of Star Catcher.
func New() *cart.Cart {
	c, err := cart.Parse(source)
	if err != nil {
		panic("starcatcher: embedded cart: " + err.Error())
	}
	return c
}

func init() {
	registry.Register(ID, New)
}
