package stego

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// version1Modules is the module count across a version-1 QR symbol. Module
// size is estimated from it regardless of the real version, which only makes
// the exclusion zones larger for bigger symbols.
const version1Modules = 21

// Geometry holds the structural QR parameters derived from the raster size.
type Geometry struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	ModuleSize int `json:"module_size"`
	FinderSize int `json:"finder_size"`
	QuietZone  int `json:"quiet_zone"`
	TimingPos  int `json:"timing_pos"`
}

// NewGeometry derives module size and exclusion zones for a QR raster of the
// given size.
func NewGeometry(width, height int) Geometry {
	module := width / version1Modules
	if module < 1 {
		module = 1
	}
	finder := 7 * module
	quiet := 4 * module
	return Geometry{
		Width:      width,
		Height:     height,
		ModuleSize: module,
		FinderSize: finder,
		QuietZone:  quiet,
		TimingPos:  finder + quiet - module/2,
	}
}

// CornerReach is the distance from a finder corner inside which no embed may
// start.
func (g Geometry) CornerReach() int {
	return g.FinderSize + g.QuietZone
}

// TimingTolerance is the minimum distance kept from the timing lines.
func (g Geometry) TimingTolerance() int {
	return g.ModuleSize/2 + 1
}

// BorderWidth is the width of the edge ramp used by the blend mask.
func (g Geometry) BorderWidth() int {
	return 2 * g.ModuleSize
}

// IsSafeZone reports whether an embed of size w x h may be placed with its
// top-left corner at (x, y). It rejects starts near the three finder
// corners (top-left, top-right, bottom-left), starts on either timing line,
// and footprints that leave the raster.
func (g Geometry) IsSafeZone(x, y, w, h int) bool {
	reach := g.CornerReach()
	if (x < reach && y < reach) ||
		(x > g.Width-reach && y < reach) ||
		(x < reach && y > g.Height-reach) {
		return false
	}

	tol := g.TimingTolerance()
	if absInt(y-g.TimingPos) < tol || absInt(x-g.TimingPos) < tol {
		return false
	}

	return x+w <= g.Width && y+h <= g.Height
}

// ForbiddenStarts returns the regions in which IsSafeZone rejects a
// top-left corner: the three finder corners and a band along each timing
// line, clipped to the raster.
func (g Geometry) ForbiddenStarts() []image.Rectangle {
	reach := g.CornerReach()
	tol := g.TimingTolerance()
	bounds := image.Rect(0, 0, g.Width, g.Height)

	zones := []image.Rectangle{
		image.Rect(0, 0, reach, reach),
		image.Rect(g.Width-reach+1, 0, g.Width, reach),
		image.Rect(0, g.Height-reach+1, reach, g.Height),
		image.Rect(0, g.TimingPos-tol+1, g.Width, g.TimingPos+tol),
		image.Rect(g.TimingPos-tol+1, 0, g.TimingPos+tol, g.Height),
	}
	out := zones[:0]
	for _, z := range zones {
		if z = z.Intersect(bounds); !z.Empty() {
			out = append(out, z)
		}
	}
	return out
}

// ECLevel is a QR error-correction level.
type ECLevel int

const (
	ECUnknown ECLevel = iota
	ECLow
	ECMedium
	ECQuartile
	ECHigh
)

func (l ECLevel) String() string {
	switch l {
	case ECLow:
		return "L"
	case ECMedium:
		return "M"
	case ECQuartile:
		return "Q"
	case ECHigh:
		return "H"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (l ECLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *ECLevel) UnmarshalText(b []byte) error {
	v, err := ParseECLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseECLevel parses "L", "M", "Q", "H" (any case) or "" / "unknown" / "auto".
func ParseECLevel(s string) (ECLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "UNKNOWN", "AUTO":
		return ECUnknown, nil
	case "L":
		return ECLow, nil
	case "M":
		return ECMedium, nil
	case "Q":
		return ECQuartile, nil
	case "H":
		return ECHigh, nil
	}
	return ECUnknown, fmt.Errorf("unknown error correction level %q", s)
}

// Capacity is the largest embed side the QR raster is expected to tolerate.
type Capacity struct {
	Level  ECLevel `json:"level"`
	MaxDim int     `json:"max_dim"`
}

// NewCapacity computes the maximum embed side for a width x height QR raster
// at the given error-correction level:
//
//	L:            sqrt(0.07 * width * height)
//	M:            sqrt(0.15 * width * height)
//	Q, H, unknown: min(width, height) / 3
//
// The result never exceeds min(width, height).
func NewCapacity(width, height int, level ECLevel) Capacity {
	side := minInt(width, height)
	area := float64(width) * float64(height)

	var dim int
	switch level {
	case ECLow:
		dim = int(math.Sqrt(0.07 * area))
	case ECMedium:
		dim = int(math.Sqrt(0.15 * area))
	default:
		dim = side / 3
	}
	if dim > side {
		dim = side
	}
	return Capacity{Level: level, MaxDim: dim}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
