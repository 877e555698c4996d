package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
)

// OverlayResult contains an annotated copy of an image.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Outline is one rectangle to draw on an overlay.
type Outline struct {
	Rect image.Rectangle

	// Color is used for the border. Fill, when its alpha is non-zero, is
	// composited over the inside.
	Color color.RGBA
	Fill  color.RGBA

	// Label, if set, is drawn just inside the top-left corner. Only digits
	// and commas are rendered.
	Label string
}

// Annotate draws outlines over a copy of img, in order, and returns it as a
// base64 PNG.
func Annotate(img image.Image, outlines []Outline) (*OverlayResult, error) {
	bounds := img.Bounds()

	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	for _, o := range outlines {
		r := o.Rect.Add(bounds.Min).Intersect(bounds)
		if r.Empty() {
			continue
		}
		if o.Fill.A > 0 {
			draw.Draw(result, r, &image.Uniform{o.Fill}, image.Point{}, draw.Over)
		}

		// Border
		for x := r.Min.X; x < r.Max.X; x++ {
			result.Set(x, r.Min.Y, o.Color)
			result.Set(x, r.Max.Y-1, o.Color)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			result.Set(r.Min.X, y, o.Color)
			result.Set(r.Max.X-1, y, o.Color)
		}

		if o.Label != "" {
			drawLabel(result, r.Min.X+2, r.Min.Y+2, o.Label, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, result); err != nil {
		return nil, err
	}

	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// drawLabel draws text in a 3x5 pixel font on a dark box at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	// Simple 3x5 pixel font for digits and comma
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
	}

	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	// Draw background
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.Set(px, py, bg)
			}
		}
	}

	// Draw text
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.Set(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
