// Package gfx implements the drawing primitives scripts call each frame.
//
// Every operation except Cls is offset by the camera: a primitive asked to
// draw at world position (x, y) lands on screen at (x-camX, y-camY).
// Coordinates are floored before use; colours resolve through the palette
// with a non-negative modulo, so no argument can index outside it.
package gfx

import (
	"math"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/core"
)

// DefaultTextColor is the colour print uses when none is given.
const DefaultTextColor = core.ColorWhite

// API is a stateful drawing surface bound to one screen and one sprite bank.
// The camera offset lives for as long as the API instance.
type API struct {
	screen  *core.Screen
	sprites *cart.SpriteBank
	camX    int
	camY    int
}

// New creates a drawing API. The sprite bank is read on every Spr call and
// never copied, so edits made between frames show up on the next one.
func New(screen *core.Screen, sprites *cart.SpriteBank) *API {
	return &API{
		screen:  screen,
		sprites: sprites,
	}
}

// Screen returns the surface being drawn to.
func (a *API) Screen() *core.Screen {
	return a.screen
}

// Camera returns the current camera offset.
func (a *API) Camera() (x, y int) {
	return a.camX, a.camY
}

// Cls fills the whole screen with c, ignoring the camera.
func (a *API) Cls(c int) {
	a.screen.Clear(core.ColorIndex(c))
}

// SetCamera stores floor(x), floor(y) as the camera offset.
// Non-finite values reset that axis to 0.
func (a *API) SetCamera(x, y float64) {
	a.camX, _ = core.FloorInt(x)
	a.camY, _ = core.FloorInt(y)
}

// project converts a world coordinate to a screen pixel.
func (a *API) project(x, y float64) (int, int, bool) {
	sx, okx := core.FloorInt(x - float64(a.camX))
	sy, oky := core.FloorInt(y - float64(a.camY))
	return sx, sy, okx && oky
}

// Pset draws a single pixel.
func (a *API) Pset(x, y float64, c int) {
	sx, sy, ok := a.project(x, y)
	if !ok {
		return
	}
	a.screen.Set(sx, sy, core.ColorIndex(c))
}

// Rect fills a w by h rectangle with its top-left corner at (x, y).
// Non-positive sizes draw nothing.
func (a *API) Rect(x, y, w, h float64, c int) {
	sx, sy, ok := a.project(x, y)
	if !ok {
		return
	}
	iw, okw := core.FloorInt(w)
	ih, okh := core.FloorInt(h)
	if !okw || !okh {
		return
	}
	a.screen.DrawRect(core.NewRect(sx, sy, iw, ih), core.ColorIndex(c))
}

// Line draws a one pixel wide line between two points (Bresenham). The
// segment is clipped to the screen first, so far-off endpoints cost no more
// than visible ones.
func (a *API) Line(x0, y0, x1, y1 float64, c int) {
	ax, ay, ok0 := a.project(x0, y0)
	bx, by, ok1 := a.project(x1, y1)
	if !ok0 || !ok1 {
		return
	}
	ax, ay, bx, by, ok := clipLine(ax, ay, bx, by, a.screen.Bounds())
	if !ok {
		return
	}
	col := core.ColorIndex(c)

	dx := core.Abs(bx - ax)
	dy := -core.Abs(by - ay)
	stepX, stepY := 1, 1
	if ax > bx {
		stepX = -1
	}
	if ay > by {
		stepY = -1
	}
	err := dx + dy
	for {
		a.screen.Set(ax, ay, col)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ax += stepX
		}
		if e2 <= dx {
			err += dx
			ay += stepY
		}
	}
}

// clipLine clips a segment to the pixels of r (Liang-Barsky). Segments
// already inside r come back unchanged.
func clipLine(x0, y0, x1, y1 int, r core.Rect) (int, int, int, int, bool) {
	if r.Contains(x0, y0) && r.Contains(x1, y1) {
		return x0, y0, x1, y1, true
	}
	fx, fy := float64(x0), float64(y0)
	dx, dy := float64(x1)-fx, float64(y1)-fy
	minX, maxX := float64(r.X), float64(r.Right()-1)
	minY, maxY := float64(r.Y), float64(r.Bottom()-1)

	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, fx - minX},
		{dx, maxX - fx},
		{-dy, fy - minY},
		{dy, maxY - fy},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}

	clampX := func(v float64) int { return core.Clamp(int(math.Round(v)), r.X, r.Right()-1) }
	clampY := func(v float64) int { return core.Clamp(int(math.Round(v)), r.Y, r.Bottom()-1) }
	return clampX(fx + t0*dx), clampY(fy + t0*dy), clampX(fx + t1*dx), clampY(fy + t1*dy), true
}

// Circ draws a circle outline of radius r centred on (x, y).
func (a *API) Circ(x, y, r float64, c int) {
	a.circle(x, y, r, c, false)
}

// Circfill draws a filled circle of radius r centred on (x, y).
func (a *API) Circfill(x, y, r float64, c int) {
	a.circle(x, y, r, c, true)
}

// circle draws the pixels of a midpoint circle row by row, visiting only
// the screen rows the circle crosses. A radius of 0 draws the centre pixel;
// negative radii draw nothing.
func (a *API) circle(x, y, r float64, c int, fill bool) {
	cx, cy, ok := a.project(x, y)
	if !ok {
		return
	}
	rad, ok := core.FloorInt(r)
	if !ok || rad < 0 {
		return
	}
	bounds := a.screen.Bounds()
	if !core.NewRect(cx-rad, cy-rad, 2*rad+1, 2*rad+1).Intersects(bounds) {
		return
	}
	col := core.ColorIndex(c)
	o := newOctant(rad)

	top := core.Clamp(cy-rad, bounds.Y, bounds.Bottom()-1)
	bottom := core.Clamp(cy+rad, bounds.Y, bounds.Bottom()-1)
	for sy := top; sy <= bottom; sy++ {
		v := core.Abs(sy - cy)
		if fill {
			h := o.span(v)
			a.screen.DrawHLine(cx-h, sy, 2*h+1, col)
			continue
		}
		if v <= o.last {
			px := o.x(v)
			a.screen.Set(cx+px, sy, col)
			a.screen.Set(cx-px, sy, col)
		}
		// Columns 0..last that reach exactly this row.
		lo, hi := o.reach(v+1)+1, o.reach(v)
		if lo <= hi {
			a.screen.DrawHLine(cx+lo, sy, hi-lo+1, col)
			a.screen.DrawHLine(cx-hi, sy, hi-lo+1, col)
		}
	}
}

// octant is the first octant of a midpoint circle in closed form. For row
// k = 0..last the midpoint walk plots column x(k), the largest x with
// (x-1/2)^2 + k^2 < r^2; the other octants are its mirror images.
type octant struct {
	r2   int
	last int
}

func newOctant(r int) octant {
	o := octant{r2: r * r}
	k := int(float64(r) / math.Sqrt2)
	for k > 0 && 2*k*k-k >= o.r2 {
		k--
	}
	for 2*(k+1)*(k+1)-(k+1) < o.r2 {
		k++
	}
	o.last = k
	return o
}

// x returns the column plotted on row k, for k <= last.
func (o octant) x(k int) int {
	q := o.r2 - k*k
	s := isqrt(q)
	if s*s+s < q {
		return s + 1
	}
	return s
}

// reach returns the last row k <= last whose column is at least v, or -1.
func (o octant) reach(v int) int {
	if v <= 0 {
		return o.last
	}
	q := o.r2 - v*v + v
	if q < 1 {
		return -1
	}
	return min(isqrt(q-1), o.last)
}

// span returns the half width of a filled circle v rows from its centre.
func (o octant) span(v int) int {
	if v <= o.last {
		return o.x(v)
	}
	return o.reach(v)
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	s := int(math.Sqrt(float64(n)))
	for s*s > n {
		s--
	}
	for (s+1)*(s+1) <= n {
		s++
	}
	return s
}

// Spr blits sprite floor(id) mod 16 with its top-left corner at (x, y).
// Pixels with value 0 are transparent. A nil bank or non-finite id is a no-op.
func (a *API) Spr(id, x, y float64) {
	if a.sprites == nil {
		return
	}
	n, ok := core.FloorInt(id)
	if !ok {
		return
	}
	sx, sy, ok := a.project(x, y)
	if !ok {
		return
	}

	s := a.sprites.Sprite(n)
	for i, v := range s {
		if core.Color(v) == core.Transparent {
			continue
		}
		a.screen.Set(sx+i%cart.SpriteSize, sy+i/cart.SpriteSize, core.ColorIndex(int(v)))
	}
}
