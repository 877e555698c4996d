// Package web is a small browser harness around the embedder: upload a QR
// code and an image, get the composited QR code back.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ironsheep/qr-embed/internal/stego"
)

// outputName is the published result inside the static directory.
const outputName = "output.png"

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Config holds the harness settings.
type Config struct {
	// Addr is the listen address, e.g. ":5000".
	Addr string

	// UploadDir holds uploads for the duration of one request.
	UploadDir string

	// StaticDir holds the published output image.
	StaticDir string

	// MaxUploadBytes is the per-file upload ceiling.
	MaxUploadBytes int64

	// Debug enables per-request debug lines.
	Debug bool
}

// ConfigFromEnv reads PORT, QR_EMBED_UPLOAD_DIR, QR_EMBED_STATIC_DIR,
// QR_EMBED_MAX_UPLOAD_MB and QR_EMBED_LOG_LEVEL. Unset or invalid values
// fall back to defaults.
func ConfigFromEnv() Config {
	cfg := Config{
		Addr:           ":5000",
		UploadDir:      "uploads",
		StaticDir:      "static",
		MaxUploadBytes: 2 << 20,
		Debug:          os.Getenv("QR_EMBED_LOG_LEVEL") == "debug",
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if dir := os.Getenv("QR_EMBED_UPLOAD_DIR"); dir != "" {
		cfg.UploadDir = dir
	}
	if dir := os.Getenv("QR_EMBED_STATIC_DIR"); dir != "" {
		cfg.StaticDir = dir
	}
	if mb, err := strconv.Atoi(os.Getenv("QR_EMBED_MAX_UPLOAD_MB")); err == nil && mb > 0 {
		cfg.MaxUploadBytes = int64(mb) << 20
	}
	return cfg
}

// Handler serves the harness routes.
type Handler struct {
	cfg      Config
	embedder *stego.Embedder
	logger   *log.Logger
}

// New creates a Handler and makes sure its directories exist. A nil logger
// discards debug output.
func New(cfg Config, embedder *stego.Embedder, logger *log.Logger) (*Handler, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	for _, dir := range []string{cfg.UploadDir, cfg.StaticDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return &Handler{cfg: cfg, embedder: embedder, logger: logger}, nil
}

// Router builds the gin engine with logging and recovery middleware.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(indexTemplate)
	r.MaxMultipartMemory = h.cfg.MaxUploadBytes

	r.Static("/static", h.cfg.StaticDir)
	r.GET("/", h.Index)
	r.POST("/", h.Embed)
	r.GET("/download", h.Download)
	r.GET("/healthz", h.Healthz)
	return r
}

// Index renders the upload form.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.page(stego.DefaultBlend, "", nil, ""))
}

// Embed handles the form submission.
func (h *Handler) Embed(c *gin.Context) {
	blend := stego.ParseBlend(c.PostForm("blend"))
	seed := c.PostForm("seed")
	h.logger.Printf("web: blend=%d seed=%q", blend, seed)

	qrFile, qrErr := c.FormFile("qr")
	embedFile, embedErr := c.FormFile("embed")
	if qrErr != nil || embedErr != nil {
		c.String(http.StatusBadRequest, "Both QR and image to embed are required")
		return
	}
	if qrFile.Size > h.cfg.MaxUploadBytes {
		c.String(http.StatusRequestEntityTooLarge, "QR code image is too large (limit %s).", h.limit())
		return
	}
	if embedFile.Size > h.cfg.MaxUploadBytes {
		c.String(http.StatusRequestEntityTooLarge, "Embed image is too large (limit %s).", h.limit())
		return
	}

	id := uuid.NewString()
	qrPath := filepath.Join(h.cfg.UploadDir, "qr_"+id)
	embedPath := filepath.Join(h.cfg.UploadDir, "embed_"+id)
	defer os.Remove(qrPath)
	defer os.Remove(embedPath)

	if err := c.SaveUploadedFile(qrFile, qrPath); err != nil {
		c.String(http.StatusInternalServerError, "Error: failed to save upload: %v", err)
		return
	}
	if err := c.SaveUploadedFile(embedFile, embedPath); err != nil {
		c.String(http.StatusInternalServerError, "Error: failed to save upload: %v", err)
		return
	}

	// Each request writes its own file, then publishes it with a rename so
	// concurrent requests never serve a half-written output.
	tmpOut := filepath.Join(h.cfg.StaticDir, "output_"+id+".png")
	res, err := h.embedder.EmbedFile(qrPath, embedPath, tmpOut, seed, blend)
	if err != nil {
		os.Remove(tmpOut)
		c.String(http.StatusInternalServerError, "Error: %v", err)
		return
	}
	if err := os.Rename(tmpOut, h.outputPath()); err != nil {
		os.Remove(tmpOut)
		c.String(http.StatusInternalServerError, "Error: failed to publish output: %v", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", h.page(res.Blend, seed, res, "/static/"+outputName+"?v="+id))
}

// Download serves the last published output as an attachment.
func (h *Handler) Download(c *gin.Context) {
	path := h.outputPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c.String(http.StatusNotFound, "No output yet")
		return
	}
	c.FileAttachment(path, outputName)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) page(blend int, seed string, res *stego.Result, imageURL string) gin.H {
	return gin.H{
		"Blend":       blend,
		"Seed":        seed,
		"MaxUploadMB": h.cfg.MaxUploadBytes >> 20,
		"Result":      res,
		"ImageURL":    imageURL,
	}
}

func (h *Handler) outputPath() string {
	return filepath.Join(h.cfg.StaticDir, outputName)
}

func (h *Handler) limit() string {
	if h.cfg.MaxUploadBytes >= 1<<20 {
		return fmt.Sprintf("%d MB", h.cfg.MaxUploadBytes>>20)
	}
	return fmt.Sprintf("%d bytes", h.cfg.MaxUploadBytes)
}
