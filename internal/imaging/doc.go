// Package imaging is the raster layer of the QR embedder.
//
// It converts decoded images into Raster values (3 or 4 channels of 8-bit
// data, row-major), converts them back for encoding, and wraps the codec
// operations the embedder needs: decode, aspect-preserving downscale, and
// encode by file extension. Decoding and resampling are delegated to
// github.com/disintegration/imaging; BMP, TIFF and WebP decoders come from
// golang.org/x/image.
//
// The MCP server also uses ImageCache to decode each file once across tool
// calls, and Annotate to render placement previews.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rectangles use the
// image.Rectangle convention: Min is inclusive, Max is exclusive.
//
// # Color Representation
//
// Colors are reported as hex "#RRGGBB", 8-bit RGB/RGBA and HSL. Perceptual
// comparisons use CIEDE2000 via github.com/lucasb-eyer/go-colorful.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Raster values are not synchronized;
// each embedding call owns its own rasters.
package imaging
