package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Inspection
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, channel count and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate. Useful for checking an embedding result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// QR Analysis
		{
			Name:        "qr_detect_level",
			Description: "Decode a rendered QR code and report its error correction level (L, M, Q, H) and text. Returns level \"unknown\" when the code cannot be decoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the QR code image"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "qr_geometry",
			Description: "Report the estimated module size, finder/quiet/timing exclusion zones and the maximum embed size for a QR code image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the QR code image"),
					"level": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "L", "M", "Q", "H"},
						"description": "Error correction level. Default auto (detect from the image)",
						"default":     "auto",
					},
				},
				"required": []string{"path"},
			},
		},

		// Embedding
		{
			Name:        "qr_plan",
			Description: "Compute where an image would be embedded into a QR code for a given seed, without writing anything.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"qr_path":    pathProperty("Absolute path to the QR code image"),
					"embed_path": pathProperty("Absolute path to the image to embed"),
					"seed": map[string]interface{}{
						"type":        "string",
						"description": "Placement seed. Empty picks a random seed, reported in the result",
					},
					"level": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "L", "M", "Q", "H"},
						"description": "Error correction level. Default auto",
						"default":     "auto",
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Return a base64 PNG of the QR code with the rejected start regions shaded red and the planned footprint outlined green",
						"default":     false,
					},
				},
				"required": []string{"qr_path", "embed_path"},
			},
		},
		{
			Name:        "qr_embed",
			Description: "Embed an image into a QR code at a safe location with edge blending and write the result. The output format follows the file extension.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"qr_path":     pathProperty("Absolute path to the QR code image"),
					"embed_path":  pathProperty("Absolute path to the image to embed"),
					"output_path": pathProperty("Absolute path for the output image"),
					"seed": map[string]interface{}{
						"type":        "string",
						"description": "Placement seed. Same seed and inputs give identical output",
					},
					"blend": map[string]interface{}{
						"type":        "integer",
						"description": "Edge blend strength 0-100. Default 30",
						"default":     30,
						"minimum":     0,
						"maximum":     100,
					},
					"level": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"auto", "L", "M", "Q", "H"},
						"description": "Error correction level. Default auto",
						"default":     "auto",
					},
				},
				"required": []string{"qr_path", "embed_path", "output_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
