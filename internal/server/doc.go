// Package server implements the MCP (Model Context Protocol) server for QR
// code embedding.
//
// This package provides a JSON-RPC 2.0 server that exposes the embedder and
// its supporting analysis through the MCP protocol, so an MCP client can
// inspect a QR code, preview where an image would land and write the
// composited result.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Inspection:
//   - image_load: Load image and get metadata
//   - image_sample_color: Get color at pixel
//
// QR Analysis:
//   - qr_detect_level: Decode a QR code and report its error correction level
//   - qr_geometry: Module size, exclusion zones and embed capacity
//
// Embedding:
//   - qr_plan: Resolve size and placement for a seed without writing, with an
//     optional PNG preview of the rejected start regions and the footprint
//   - qr_embed: Embed an image and write the output file
//
// The level argument of qr_geometry, qr_plan and qr_embed accepts L, M, Q, H
// or auto. Auto decodes the QR code to find the level and falls back to the
// conservative unknown capacity when decoding fails.
//
// # Image Caching
//
// Images read by the inspection and planning tools are cached by path for
// the lifetime of the process. qr_embed reads its inputs from disk and evicts
// the output path from the cache after writing it.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
