package stego

import (
	"image"
	"io"
	"log"

	"github.com/ironsheep/qr-embed/internal/imaging"
)

// LevelDetector reports the error-correction level of a rendered QR code,
// or ECUnknown when it cannot be decoded.
type LevelDetector interface {
	DetectLevel(img image.Image) ECLevel
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithLogger sets the logger for progress and warning lines.
func WithLogger(l *log.Logger) Option {
	return func(e *Embedder) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDetector sets the detector used to read the QR error-correction
// level when no level is forced.
func WithDetector(d LevelDetector) Option {
	return func(e *Embedder) {
		e.detector = d
	}
}

// WithLevel forces the error-correction level and skips detection.
// ECUnknown restores detection.
func WithLevel(level ECLevel) Option {
	return func(e *Embedder) {
		e.level = level
	}
}

// Embedder hides an image inside a QR code raster.
//
// An Embedder holds configuration only; every call owns its own rasters and
// random streams, so one Embedder may serve concurrent calls.
type Embedder struct {
	logger   *log.Logger
	detector LevelDetector
	level    ECLevel
}

// New creates an Embedder. Without options it logs nothing, performs no
// level detection and sizes embeds for an unknown level.
func New(opts ...Option) *Embedder {
	e := &Embedder{
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan is everything decided before pixels are blended.
type Plan struct {
	Geometry  Geometry  `json:"geometry"`
	Capacity  Capacity  `json:"capacity"`
	Placement Placement `json:"placement"`

	// Seed is the seed string that produced Placement. For unseeded calls
	// it is the generated fallback.
	Seed         string `json:"seed"`
	SeedFallback bool   `json:"seed_fallback"`
	SeedHash     uint64 `json:"seed_hash"`

	qr    *imaging.Raster
	embed *imaging.Raster
}

// Result describes a finished embedding.
type Result struct {
	Plan

	// Blend is the strength actually applied, clipped to [0,100].
	Blend int `json:"blend"`

	// Background is the color sampled around the footprint.
	Background imaging.ColorResult `json:"background"`

	// EdgeContrast is the CIEDE2000 distance between Background and the
	// mean color of the embed's outer ring before blending.
	EdgeContrast float64 `json:"edge_contrast"`

	// Output is the composited raster, the same size as the QR input.
	Output *imaging.Raster `json:"-"`
}

// Plan sizes the embed for the QR's capacity and picks its placement
// without blending.
func (e *Embedder) Plan(qrImg, embedImg image.Image, seed string) (*Plan, error) {
	qr := imaging.RasterFromImageRGB(qrImg)
	geom := NewGeometry(qr.Width, qr.Height)

	level := e.level
	if level == ECUnknown && e.detector != nil {
		level = e.detector.DetectLevel(qrImg)
		e.logger.Printf("embed: detected error correction level %s", level)
	}
	capacity := NewCapacity(qr.Width, qr.Height, level)

	fitted := imaging.FitWithin(embedImg, capacity.MaxDim)
	if fitted == nil {
		b := embedImg.Bounds()
		return nil, degenerateError("embed %dx%d collapses to nothing at max dimension %d", b.Dx(), b.Dy(), capacity.MaxDim)
	}
	embed := imaging.RasterFromImage(fitted)
	if embed.Width > qr.Width || embed.Height > qr.Height {
		return nil, degenerateError("embed %dx%d larger than QR %dx%d", embed.Width, embed.Height, qr.Width, qr.Height)
	}

	state := ExpandSeed(seed)
	p := FindPlacement(geom, embed.Width, embed.Height, state.X, state.Y)
	if p.Exhausted {
		e.logger.Printf("embed: no safe placement in %d attempts, clamped to (%d,%d)", MaxPlacementAttempts, p.X, p.Y)
	}

	return &Plan{
		Geometry:     geom,
		Capacity:     capacity,
		Placement:    p,
		Seed:         state.Seed,
		SeedFallback: state.Fallback,
		SeedHash:     state.Hash,
		qr:           qr,
		embed:        embed,
	}, nil
}

// EmbedImage embeds embedImg into qrImg and returns the result in memory.
// Neither input is modified.
func (e *Embedder) EmbedImage(qrImg, embedImg image.Image, seed string, blend int) (*Result, error) {
	plan, err := e.Plan(qrImg, embedImg, seed)
	if err != nil {
		return nil, err
	}

	blend = ClampBlend(blend)
	out, bg, err := Blend(plan.qr, plan.embed, plan.Placement, plan.Geometry.ModuleSize, blend)
	if err != nil {
		return nil, err
	}

	e.logger.Printf("embed: %dx%d at (%d,%d) blend=%d seed_hash=%d",
		plan.Placement.W, plan.Placement.H, plan.Placement.X, plan.Placement.Y, blend, plan.SeedHash)

	return &Result{
		Plan:         *plan,
		Blend:        blend,
		Background:   imaging.DescribeRGB(bg),
		EdgeContrast: imaging.ColorDistance(bg, rimColor(plan.embed)),
		Output:       out,
	}, nil
}

// EmbedFile decodes the QR and embed images, embeds one into the other and
// writes the result to outputPath, whose extension selects the format.
// Nothing is written unless every earlier step succeeds.
func (e *Embedder) EmbedFile(qrPath, embedPath, outputPath, seed string, blend int) (*Result, error) {
	res, err := e.embedPaths(qrPath, embedPath, seed, blend)
	if err != nil {
		return nil, err
	}

	if err := imaging.Save(res.Output.Image(), outputPath); err != nil {
		return nil, encodeError(outputPath, err)
	}
	e.logger.Printf("embed: saved %s", outputPath)
	return res, nil
}

// EmbedTo is EmbedFile for a stream: the result is encoded as PNG to w.
func (e *Embedder) EmbedTo(w io.Writer, qrPath, embedPath, seed string, blend int) (*Result, error) {
	res, err := e.embedPaths(qrPath, embedPath, seed, blend)
	if err != nil {
		return nil, err
	}

	if err := imaging.EncodePNG(w, res.Output.Image()); err != nil {
		return nil, encodeError("", err)
	}
	return res, nil
}

func (e *Embedder) embedPaths(qrPath, embedPath, seed string, blend int) (*Result, error) {
	qrImg, err := imaging.Open(qrPath)
	if err != nil {
		return nil, decodeError(qrPath, err)
	}
	embedImg, err := imaging.Open(embedPath)
	if err != nil {
		return nil, decodeError(embedPath, err)
	}
	return e.EmbedImage(qrImg, embedImg, seed, blend)
}
