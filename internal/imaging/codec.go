package imaging

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Decode reads and decodes an image from r. Any format registered with the
// image package is accepted (PNG, JPEG, GIF, BMP, TIFF, WebP).
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Open decodes the image stored at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Save encodes img to path. The output format is chosen from the file
// extension; unknown extensions are rejected before the file is created.
func Save(img image.Image, path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported output format for %s: %w", path, err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// FitSize returns the largest size with the same aspect ratio as w x h whose
// sides do not exceed maxDim. Images already within the limit keep their
// size; they are never enlarged. Fractional results are truncated, so a
// very thin image can collapse to a zero side.
func FitSize(w, h, maxDim int) (int, int) {
	if maxDim < 0 {
		maxDim = 0
	}
	if w <= maxDim && h <= maxDim {
		return w, h
	}
	if w >= h {
		return maxDim, h * maxDim / w
	}
	return w * maxDim / h, maxDim
}

// FitWithin downscales img so neither side exceeds maxDim, using an area
// (box) filter. Images that already fit are returned unchanged. If the
// fitted size collapses to zero on either side, nil is returned.
func FitWithin(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxDim)
	if w <= 0 || h <= 0 {
		return nil
	}
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Box)
}
