// Package stego hides an image inside a rendered QR code without breaking
// the code's readability.
//
// An embedding call runs these steps:
//
//  1. Geometry: module size and exclusion zones are estimated from the QR
//     raster width (width/21, at least 1).
//  2. Capacity: the largest embed side is derived from the raster size and
//     the error-correction level (detected through a LevelDetector, forced
//     with WithLevel, or unknown).
//  3. Resize: the embed is downscaled, never enlarged, to fit that side.
//  4. Placement: a seed string is hashed into two random streams that draw
//     x and y until a corner lands clear of the finder patterns, quiet
//     zones and timing lines. After 100 misses the last draw is clamped
//     into the raster and used anyway.
//  5. Blend: the embed is alpha-composited into a copy of the QR raster,
//     fading toward the surrounding color near its edges.
//
// Identical inputs and seed produce byte-identical output. An empty seed
// is replaced with a random one, which Result.Seed reports.
//
// # Errors
//
// Failures are *EmbedError values wrapping ErrDecode, ErrGeometryDegenerate
// or ErrEncode. An exhausted placement search is not an error; it is
// reported through Placement.Exhausted.
package stego
