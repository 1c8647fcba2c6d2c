// Package assist talks to a text generation service that writes cart code
// and sprites from natural-language requests. Its results only ever reach
// a console as a new cart, through the normal load path.
package assist

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/vovakirdan/term8/internal/cart"
)

// CodeGenerator rewrites cart source according to an instruction.
type CodeGenerator interface {
	GenerateCode(ctx context.Context, instruction, current string) (string, error)
}

// SpriteGenerator draws an 8x8 sprite from a description.
type SpriteGenerator interface {
	GenerateSprite(ctx context.Context, description string) (cart.Sprite, error)
}

var fence = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z0-9_+-]*[ \t]*$\n?|```[A-Za-z0-9_+-]*")

// StripFences removes Markdown code fences, whatever language tag they
// carry, and trims surrounding whitespace.
func StripFences(text string) string {
	return strings.TrimSpace(fence.ReplaceAllString(text, ""))
}

// ParseSprite decodes a {"pixels": [...]} response. Anything other than
// exactly 64 integers in [0,15] yields a blank sprite and ok=false.
func ParseSprite(data []byte) (s cart.Sprite, ok bool) {
	var resp struct {
		Pixels []json.Number `json:"pixels"`
	}
	if err := json.Unmarshal([]byte(StripFences(string(data))), &resp); err != nil {
		return cart.Sprite{}, false
	}
	if len(resp.Pixels) != cart.SpritePixels {
		return cart.Sprite{}, false
	}
	px := make([]int, cart.SpritePixels)
	for i, n := range resp.Pixels {
		v, err := n.Int64()
		if err != nil {
			return cart.Sprite{}, false
		}
		px[i] = int(v)
	}
	return cart.SpriteFromInts(px)
}
