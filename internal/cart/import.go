package cart

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoders for ImportFile
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/term8/internal/core"
)

// maxImportColors leaves palette slot 0 for transparency.
const maxImportColors = core.PaletteSize - 1

// ImportSprite converts an arbitrary image into a sprite. The image is
// scaled to 8x8 with nearest-neighbour sampling, reduced to at most 15
// colours with a median-cut quantizer, then each colour is snapped to the
// nearest console palette entry. Pixels less than half opaque become 0.
func ImportSprite(src image.Image) Sprite {
	small := image.NewRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	xdraw.NearestNeighbor.Scale(small, small.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	q := quantize.MedianCutQuantizer{}
	reduced := q.Quantize(make(color.Palette, 0, maxImportColors), small)

	var s Sprite
	for y := 0; y < SpriteSize; y++ {
		for x := 0; x < SpriteSize; x++ {
			px := small.RGBAAt(x, y)
			if px.A < 0x80 {
				continue
			}
			var c color.Color = px
			if len(reduced) > 0 {
				c = reduced[reduced.Index(px)]
			}
			s[y*SpriteSize+x] = uint8(core.Palette.Index(c))
		}
	}
	return s
}

// ImportFile decodes an image file and converts it with ImportSprite.
func ImportFile(path string) (Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sprite{}, fmt.Errorf("cart: cannot open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Sprite{}, fmt.Errorf("cart: cannot decode %s: %w", path, err)
	}
	return ImportSprite(img), nil
}
