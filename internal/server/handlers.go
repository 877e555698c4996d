package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/ironsheep/qr-embed/internal/imaging"
	"github.com/ironsheep/qr-embed/internal/qrscan"
	"github.com/ironsheep/qr-embed/internal/stego"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "qr_embed").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/qrscan/stego function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Inspection
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// QR Analysis
	case "qr_detect_level":
		return s.handleQRDetectLevel(args)
	case "qr_geometry":
		return s.handleQRGeometry(args)

	// Embedding
	case "qr_plan":
		return s.handleQRPlan(args)
	case "qr_embed":
		return s.handleQREmbed(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// embedderFor returns the shared embedder, or a one-off embedder when the
// caller forces a level.
func (s *Server) embedderFor(level string) (*stego.Embedder, error) {
	ec, err := stego.ParseECLevel(level)
	if err != nil {
		return nil, err
	}
	if ec == stego.ECUnknown {
		return s.embedder, nil
	}
	return stego.New(
		stego.WithLogger(log.Default()),
		stego.WithDetector(s.detector),
		stego.WithLevel(ec),
	), nil
}

// === Image Inspection Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === QR Analysis Handlers ===

type qrDetectLevelArgs struct {
	Path string `json:"path"`
}

// QRDetectLevelResult reports the outcome of decoding a QR code.
type QRDetectLevelResult struct {
	Decoded bool          `json:"decoded"`
	Level   stego.ECLevel `json:"level"`
	Text    string        `json:"text,omitempty"`
	Reason  string        `json:"reason,omitempty"`
}

func (s *Server) handleQRDetectLevel(args json.RawMessage) (interface{}, error) {
	var a qrDetectLevelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	scan, err := s.detector.Decode(img)
	if errors.Is(err, qrscan.ErrNotFound) {
		return &QRDetectLevelResult{Level: stego.ECUnknown, Reason: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &QRDetectLevelResult{Decoded: true, Level: scan.Level, Text: scan.Text}, nil
}

type qrGeometryArgs struct {
	Path  string `json:"path"`
	Level string `json:"level"`
}

// QRGeometryResult combines the estimated layout of a QR code with the
// largest embed it can carry.
type QRGeometryResult struct {
	Geometry      stego.Geometry `json:"geometry"`
	LevelDetected bool           `json:"level_detected"`
	Capacity      stego.Capacity `json:"capacity"`
}

func (s *Server) handleQRGeometry(args json.RawMessage) (interface{}, error) {
	var a qrGeometryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	level, err := stego.ParseECLevel(a.Level)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	detected := false
	if level == stego.ECUnknown {
		level = s.detector.DetectLevel(img)
		detected = level != stego.ECUnknown
	}

	return &QRGeometryResult{
		Geometry:      stego.NewGeometry(b.Dx(), b.Dy()),
		LevelDetected: detected,
		Capacity:      stego.NewCapacity(b.Dx(), b.Dy(), level),
	}, nil
}

// === Embedding Handlers ===

type qrPlanArgs struct {
	QRPath    string `json:"qr_path"`
	EmbedPath string `json:"embed_path"`
	Seed      string `json:"seed"`
	Level     string `json:"level"`
	Preview   bool   `json:"preview"`
}

// QRPlanResult is a placement plan, optionally with a rendered preview.
type QRPlanResult struct {
	*stego.Plan
	Preview *imaging.OverlayResult `json:"preview,omitempty"`
}

var (
	zoneBorder      = color.RGBA{255, 0, 0, 255}
	zoneFill        = color.RGBA{80, 0, 0, 80} // premultiplied
	footprintBorder = color.RGBA{0, 200, 0, 255}
)

func (s *Server) handleQRPlan(args json.RawMessage) (interface{}, error) {
	var a qrPlanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	embedder, err := s.embedderFor(a.Level)
	if err != nil {
		return nil, err
	}
	qr, err := s.cache.Load(a.QRPath)
	if err != nil {
		return nil, err
	}
	embed, err := s.cache.Load(a.EmbedPath)
	if err != nil {
		return nil, err
	}
	plan, err := embedder.Plan(qr, embed, a.Seed)
	if err != nil {
		return nil, err
	}
	if !a.Preview {
		return &QRPlanResult{Plan: plan}, nil
	}

	var outlines []imaging.Outline
	for _, r := range plan.Geometry.ForbiddenStarts() {
		outlines = append(outlines, imaging.Outline{Rect: r, Color: zoneBorder, Fill: zoneFill})
	}
	p := plan.Placement
	outlines = append(outlines, imaging.Outline{
		Rect:  p.Rect(),
		Color: footprintBorder,
		Label: fmt.Sprintf("%d,%d", p.X, p.Y),
	})
	preview, err := imaging.Annotate(qr, outlines)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return &QRPlanResult{Plan: plan, Preview: preview}, nil
}

type qrEmbedArgs struct {
	QRPath     string `json:"qr_path"`
	EmbedPath  string `json:"embed_path"`
	OutputPath string `json:"output_path"`
	Seed       string `json:"seed"`
	Blend      *int   `json:"blend"`
	Level      string `json:"level"`
}

// QREmbedResult is a finished embedding plus where it was written.
type QREmbedResult struct {
	*stego.Result
	OutputPath string `json:"output_path"`
}

func (s *Server) handleQREmbed(args json.RawMessage) (interface{}, error) {
	var a qrEmbedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}
	blend := stego.DefaultBlend
	if a.Blend != nil {
		blend = *a.Blend
	}
	embedder, err := s.embedderFor(a.Level)
	if err != nil {
		return nil, err
	}

	res, err := embedder.EmbedFile(a.QRPath, a.EmbedPath, a.OutputPath, a.Seed, blend)
	if err != nil {
		return nil, err
	}
	// A previous load of the output path is now stale.
	s.cache.Evict(a.OutputPath)

	return &QREmbedResult{Result: res, OutputPath: a.OutputPath}, nil
}
