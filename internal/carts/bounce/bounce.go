// Package bounce is a small physics demo: a ball bounces around the screen
// and leaves a fading trail. Z kicks it upwards.
package bounce

import (
	_ "embed"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/registry"
)

// ID is the registry name of the cart.
const ID = "bounce"

//go:embed bounce.t8.yaml
var source []byte

// New returns a fresh copy of the Bounce cart.
func New() *cart.Cart {
	c, err := cart.Parse(source)
	if err != nil {
		panic("bounce: embedded cart: " + err.Error())
	}
	return c
}

func init() {
	registry.Register(ID, New)
}
