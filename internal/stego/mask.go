package stego

import (
	"strconv"
	"strings"
)

// DefaultBlend is the edge blend strength used when none is given.
const DefaultBlend = 30

// BlendMask holds per-pixel weights toward the background color for the
// embed footprint. Values lie in [0,1]; 1 means fully background.
type BlendMask struct {
	Width  int
	Height int
	Values []float64
}

// At returns the mask value at (x, y).
func (m *BlendMask) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

// StrengthScale maps a blend strength percentage to a factor in [0,1].
func StrengthScale(strength int) float64 {
	s := float64(strength) / 100.0
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// ClampBlend clips a blend strength percentage to [0,100].
func ClampBlend(strength int) int {
	if strength < 0 {
		return 0
	}
	if strength > 100 {
		return 100
	}
	return strength
}

// ParseBlend reads a blend strength, falling back to DefaultBlend when s is
// empty or not an integer. The value is not clamped.
func ParseBlend(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultBlend
	}
	return v
}

// BuildBlendMask computes the mask for a w x h embed. Each pixel takes the
// strongest of four linear ramps running inward from the edges over
// borderWidth pixels (1 on the edge, 0 at borderWidth and beyond), scaled by
// StrengthScale(strength).
func BuildBlendMask(w, h, borderWidth, strength int) *BlendMask {
	if borderWidth < 1 {
		borderWidth = 1
	}
	scale := StrengthScale(strength)
	bw := float64(borderWidth)
	ramp := func(d int) float64 {
		return 1.0 - float64(minInt(d, borderWidth))/bw
	}

	m := &BlendMask{Width: w, Height: h, Values: make([]float64, w*h)}
	for i := 0; i < h; i++ {
		row := ramp(i)
		if b := ramp(h - 1 - i); b > row {
			row = b
		}
		for j := 0; j < w; j++ {
			v := row
			if l := ramp(j); l > v {
				v = l
			}
			if r := ramp(w - 1 - j); r > v {
				v = r
			}
			m.Values[i*w+j] = v * scale
		}
	}
	return m
}
