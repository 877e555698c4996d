package stego

import (
	"image"

	"github.com/ironsheep/qr-embed/internal/imaging"
)

// SampleBackground averages the one-pixel strips of qr just above, below,
// left of and right of the placement footprint. Strips that would fall
// outside the raster are pulled back onto its edge rows and columns, so a
// footprint touching the border samples its own outermost line there.
func SampleBackground(qr *imaging.Raster, p Placement) [3]float64 {
	top := maxInt(0, p.Y-1)
	bottom := minInt(qr.Height-1, p.Y+p.H)
	left := maxInt(0, p.X-1)
	right := minInt(qr.Width-1, p.X+p.W)

	strips := []image.Rectangle{
		image.Rect(p.X, top, p.X+p.W, top+1),
		image.Rect(p.X, bottom, p.X+p.W, bottom+1),
		image.Rect(left, p.Y, left+1, p.Y+p.H),
		image.Rect(right, p.Y, right+1, p.Y+p.H),
	}

	var sum [3]float64
	n := 0
	for _, s := range strips {
		mean, ok := qr.MeanRGB(s)
		if !ok {
			continue
		}
		for c := range sum {
			sum[c] += mean[c]
		}
		n++
	}
	if n == 0 {
		return sum
	}
	for c := range sum {
		sum[c] /= float64(n)
	}
	return sum
}

// Composite blends embed into a copy of qr at placement p and returns the
// copy. qr and embed are not modified.
//
// For every footprint pixel with mask weight m, embed color e, embed alpha a
// (1 for 3-channel embeds), background bg and existing QR color q:
//
//	out = a * ((1-m)*e + m*bg) + (1-a) * q
//
// Results are rounded and clipped to [0,255]. The QR alpha channel, if any,
// is left untouched.
func Composite(qr, embed *imaging.Raster, p Placement, mask *BlendMask, bg [3]float64) (*imaging.Raster, error) {
	if p.W != embed.Width || p.H != embed.Height {
		return nil, degenerateError("placement %dx%d does not match embed %dx%d", p.W, p.H, embed.Width, embed.Height)
	}
	if mask.Width != embed.Width || mask.Height != embed.Height {
		return nil, degenerateError("mask %dx%d does not match embed %dx%d", mask.Width, mask.Height, embed.Width, embed.Height)
	}
	if !p.Rect().In(qr.Bounds()) {
		return nil, degenerateError("placement %v outside QR raster %dx%d", p.Rect(), qr.Width, qr.Height)
	}

	out := qr.Clone()
	for j := 0; j < p.H; j++ {
		for i := 0; i < p.W; i++ {
			m := mask.At(i, j)
			a := embed.Alpha(i, j)
			ei := embed.PixOffset(i, j)
			oi := out.PixOffset(p.X+i, p.Y+j)
			for c := 0; c < 3; c++ {
				blended := (1-m)*float64(embed.Pix[ei+c]) + m*bg[c]
				out.Pix[oi+c] = imaging.ClampByte(a*blended + (1-a)*float64(out.Pix[oi+c]))
			}
		}
	}
	return out, nil
}

// rimColor is the mean color of the embed's outermost pixel ring.
func rimColor(embed *imaging.Raster) [3]float64 {
	w, h := embed.Width, embed.Height
	strips := []image.Rectangle{
		image.Rect(0, 0, w, 1),
		image.Rect(0, h-1, w, h),
		image.Rect(0, 0, 1, h),
		image.Rect(w-1, 0, w, h),
	}
	var sum [3]float64
	for _, s := range strips {
		mean, _ := embed.MeanRGB(s)
		for c := range sum {
			sum[c] += mean[c]
		}
	}
	for c := range sum {
		sum[c] /= float64(len(strips))
	}
	return sum
}

// Blend samples the background around p, builds a mask with a border of two
// modules and composites embed into a copy of qr. It returns the new raster
// and the background color used.
func Blend(qr, embed *imaging.Raster, p Placement, moduleSize, strength int) (*imaging.Raster, [3]float64, error) {
	bg := SampleBackground(qr, p)
	mask := BuildBlendMask(embed.Width, embed.Height, 2*moduleSize, strength)
	out, err := Composite(qr, embed, p, mask, bg)
	if err != nil {
		return nil, bg, err
	}
	return out, bg, nil
}
