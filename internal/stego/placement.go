package stego

import "image"

// MaxPlacementAttempts bounds the random placement search.
const MaxPlacementAttempts = 100

// Placement is the chosen footprint of the resized embed inside the QR
// raster.
type Placement struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`

	// Attempts is the number of candidates drawn.
	Attempts int `json:"attempts"`

	// Exhausted is set when no candidate passed the safe-zone check and the
	// last draw was clamped into range instead.
	Exhausted bool `json:"exhausted"`
}

// Rect returns the footprint as an image rectangle.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.W, p.Y+p.H)
}

// FindPlacement samples top-left corners for a w x h embed, x from xs and y
// from ys, and returns the first one accepted by g.IsSafeZone. After
// MaxPlacementAttempts rejections the last candidate is clamped into the
// raster and returned with Exhausted set; that fallback may overlap a finder
// pattern.
//
// w and h must not exceed the raster size.
func FindPlacement(g Geometry, w, h int, xs, ys IntSource) Placement {
	spanX := g.Width - w
	spanY := g.Height - h

	var x, y int
	for attempt := 1; attempt <= MaxPlacementAttempts; attempt++ {
		x = xs.IntN(spanX + 1)
		y = ys.IntN(spanY + 1)
		if g.IsSafeZone(x, y, w, h) {
			return Placement{X: x, Y: y, W: w, H: h, Attempts: attempt}
		}
	}

	x = minInt(spanX, maxInt(0, x))
	y = minInt(spanY, maxInt(0, y))
	return Placement{X: x, Y: y, W: w, H: h, Attempts: MaxPlacementAttempts, Exhausted: true}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
