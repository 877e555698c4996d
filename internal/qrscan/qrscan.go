// Package qrscan decodes rendered QR codes to learn their error-correction
// level, which sets how large an embedded image the code can tolerate.
package qrscan

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/ironsheep/qr-embed/internal/stego"
)

// ErrNotFound is returned when no preprocessing pass yields a decodable QR
// code.
var ErrNotFound = errors.New("no QR code found in image")

// thresholdLevel splits gray pixels into dark and light modules.
const thresholdLevel = 128

// Scan is a successfully decoded QR code.
type Scan struct {
	Text  string        `json:"text"`
	Level stego.ECLevel `json:"level"`
}

// Detector decodes QR codes with gozxing. It is safe for concurrent use.
type Detector struct {
	logger *log.Logger
}

// NewDetector creates a Detector. A nil logger discards output.
func NewDetector(logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Detector{logger: logger}
}

// Decode tries to read a QR code from img. Transparent areas are flattened
// onto white first. If the plain image does not decode, a binarized copy and
// then a copy with an added white margin are tried.
func (d *Detector) Decode(img image.Image) (*Scan, error) {
	flat := flatten(img)
	passes := []struct {
		name string
		img  func() image.Image
	}{
		{"plain", func() image.Image { return flat }},
		{"threshold", func() image.Image { return binarize(flat) }},
		{"padded", func() image.Image { return pad(binarize(flat)) }},
	}

	var lastErr error
	for _, p := range passes {
		scan, err := decode(p.img())
		if err == nil {
			d.logger.Printf("qrscan: decoded on %s pass, level %s", p.name, scan.Level)
			return scan, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrNotFound, lastErr)
}

// DetectLevel returns the error-correction level of the QR code in img, or
// stego.ECUnknown if it cannot be decoded.
func (d *Detector) DetectLevel(img image.Image) stego.ECLevel {
	scan, err := d.Decode(img)
	if err != nil {
		d.logger.Printf("qrscan: %v", err)
		return stego.ECUnknown
	}
	return scan.Level
}

func decode(img image.Image) (*Scan, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("creating bitmap: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return nil, err
	}

	level := stego.ECUnknown
	if v, ok := result.GetResultMetadata()[gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL]; ok {
		if parsed, err := stego.ParseECLevel(fmt.Sprint(v)); err == nil {
			level = parsed
		}
	}
	return &Scan{Text: result.GetText(), Level: level}, nil
}

func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func binarize(img image.Image) image.Image {
	return segment.Threshold(effect.Grayscale(img), thresholdLevel)
}

// pad surrounds img with a white margin of an eighth of its width, for
// renderings that were cropped without a quiet zone.
func pad(img image.Image) image.Image {
	b := img.Bounds()
	margin := b.Dx() / 8
	if margin < 4 {
		margin = 4
	}
	bg := imaging.New(b.Dx()+2*margin, b.Dy()+2*margin, color.White)
	return imaging.Paste(bg, img, image.Pt(margin, margin))
}
