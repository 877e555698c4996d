package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Raster is an in-memory pixel buffer with 3 (opaque) or 4 (transparent)
// 8-bit channels per pixel, stored row-major in R,G,B[,A] order.
//
// Rasters are plain values owned by whoever created them. Operations in this
// module never alias a caller's Pix slice; use Clone before mutating a raster
// that someone else may still read.
type Raster struct {
	// Width is the raster width in pixels.
	Width int

	// Height is the raster height in pixels.
	Height int

	// Channels is 3 for opaque RGB data or 4 for RGBA with straight alpha.
	Channels int

	// Pix holds Width*Height*Channels bytes, row-major.
	Pix []uint8
}

// NewRaster allocates a zeroed raster.
func NewRaster(width, height, channels int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("invalid channel count %d: must be 3 or 4", channels)
	}
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// RasterFromImage converts any decoded image into a Raster. Images that report
// themselves as fully opaque become 3-channel rasters; everything else keeps
// its alpha channel as a 4th channel with non-premultiplied values.
func RasterFromImage(img image.Image) *Raster {
	channels := 4
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		channels = 3
	}
	return rasterFromNRGBA(imaging.Clone(img), channels)
}

// RasterFromImageRGB converts an image into a 3-channel raster, discarding any
// alpha channel without compositing (the stored color values are kept as-is).
func RasterFromImageRGB(img image.Image) *Raster {
	return rasterFromNRGBA(imaging.Clone(img), 3)
}

func rasterFromNRGBA(src *image.NRGBA, channels int) *Raster {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	r := &Raster{
		Width:    w,
		Height:   h,
		Channels: channels,
		Pix:      make([]uint8, w*h*channels),
	}
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			copy(r.Pix[(y*w+x)*channels:], row[x*4:x*4+channels])
		}
	}
	return r
}

// HasAlpha reports whether the raster carries a per-pixel alpha channel.
func (r *Raster) HasAlpha() bool {
	return r.Channels == 4
}

// Bounds returns the raster rectangle anchored at the origin.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// PixOffset returns the index of the first channel of pixel (x, y) in Pix.
func (r *Raster) PixOffset(x, y int) int {
	return (y*r.Width + x) * r.Channels
}

// Alpha returns the alpha of pixel (x, y) normalized to [0,1]. Opaque
// rasters always return 1.
func (r *Raster) Alpha(x, y int) float64 {
	if r.Channels != 4 {
		return 1
	}
	return float64(r.Pix[r.PixOffset(x, y)+3]) / 255.0
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Channels: r.Channels, Pix: pix}
}

// Image converts the raster back into an *image.NRGBA suitable for encoding.
// 3-channel rasters produce fully opaque pixels.
func (r *Raster) Image() *image.NRGBA {
	dst := image.NewNRGBA(r.Bounds())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := r.PixOffset(x, y)
			a := uint8(255)
			if r.Channels == 4 {
				a = r.Pix[i+3]
			}
			dst.SetNRGBA(x, y, color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: a})
		}
	}
	return dst
}

// MeanRGB returns the per-channel mean of the RGB values inside rect.
// The rectangle is intersected with the raster bounds first; an empty
// intersection yields zeros and ok=false.
func (r *Raster) MeanRGB(rect image.Rectangle) (mean [3]float64, ok bool) {
	rect = rect.Intersect(r.Bounds())
	if rect.Empty() {
		return mean, false
	}
	var sum [3]float64
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			i := r.PixOffset(x, y)
			sum[0] += float64(r.Pix[i])
			sum[1] += float64(r.Pix[i+1])
			sum[2] += float64(r.Pix[i+2])
		}
	}
	n := float64(rect.Dx() * rect.Dy())
	for c := range sum {
		mean[c] = sum[c] / n
	}
	return mean, true
}

// ClampByte rounds v to the nearest integer and clips it to [0,255].
func ClampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
