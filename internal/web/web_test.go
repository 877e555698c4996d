package web

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ironsheep/qr-embed/internal/stego"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter returns a router backed by temp directories.
func newTestRouter(t *testing.T, maxBytes int64) (*gin.Engine, Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		UploadDir:      filepath.Join(dir, "uploads"),
		StaticDir:      filepath.Join(dir, "static"),
		MaxUploadBytes: maxBytes,
	}
	h, err := New(cfg, stego.New(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return h.Router(), cfg
}

func qrPNG(t *testing.T) []byte {
	t.Helper()
	b, err := qrcode.Encode("https://example.com/web", qrcode.Medium, 256)
	if err != nil {
		t.Fatalf("failed to encode QR code: %v", err)
	}
	return b
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a POST / with the given files and fields.
func multipartRequest(t *testing.T, files map[string][]byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	r, _ := newTestRouter(t, 2<<20)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `enctype="multipart/form-data"`) {
		t.Error("form missing from index page")
	}
	if strings.Contains(body, "/download") {
		t.Error("index page should not link a result before any upload")
	}
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t, 2<<20)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("got %d %q, want 200 ok", w.Code, w.Body.String())
	}
}

func TestEmbed_Success(t *testing.T) {
	r, cfg := newTestRouter(t, 2<<20)

	req := multipartRequest(t,
		map[string][]byte{"qr": qrPNG(t), "embed": solidPNG(t, 80, 80, color.RGBA{200, 30, 30, 255})},
		map[string]string{"seed": "abc", "blend": "45"},
	)
	w := serve(r, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `data-blend="45"`) {
		t.Error("result page does not report blend 45")
	}

	out, err := os.ReadFile(filepath.Join(cfg.StaticDir, outputName))
	if err != nil {
		t.Fatalf("output not published: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Errorf("output size: got %dx%d, want 256x256", b.Dx(), b.Dy())
	}

	uploads, _ := os.ReadDir(cfg.UploadDir)
	if len(uploads) != 0 {
		t.Errorf("uploads not cleaned up: %d files left", len(uploads))
	}
	static, _ := os.ReadDir(cfg.StaticDir)
	if len(static) != 1 {
		t.Errorf("static dir: got %d files, want only %s", len(static), outputName)
	}

	// The published output is served inline and as a download.
	w = serve(r, httptest.NewRequest(http.MethodGet, "/static/"+outputName, nil))
	if w.Code != http.StatusOK {
		t.Errorf("static output: got %d, want 200", w.Code)
	}
	w = serve(r, httptest.NewRequest(http.MethodGet, "/download", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("download: got %d, want 200", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition: got %q, want attachment", cd)
	}
}

func TestEmbed_BlendFallback(t *testing.T) {
	r, _ := newTestRouter(t, 2<<20)

	req := multipartRequest(t,
		map[string][]byte{"qr": qrPNG(t), "embed": solidPNG(t, 40, 40, color.Black)},
		map[string]string{"blend": "lots"},
	)
	w := serve(r, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `data-blend="30"`) {
		t.Error("non-integer blend should fall back to 30")
	}
}

func TestEmbed_MissingFile(t *testing.T) {
	r, _ := newTestRouter(t, 2<<20)

	req := multipartRequest(t, map[string][]byte{"qr": qrPNG(t)}, nil)
	w := serve(r, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestEmbed_TooLarge(t *testing.T) {
	qr := qrPNG(t)
	small := solidPNG(t, 4, 4, color.White)
	r, cfg := newTestRouter(t, int64(len(small))+1)

	req := multipartRequest(t, map[string][]byte{"qr": qr, "embed": small}, nil)
	w := serve(r, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", w.Code)
	}
	if _, err := os.Stat(filepath.Join(cfg.StaticDir, outputName)); !os.IsNotExist(err) {
		t.Error("output written for rejected upload")
	}
}

func TestEmbed_CoreFailure(t *testing.T) {
	r, cfg := newTestRouter(t, 2<<20)

	req := multipartRequest(t,
		map[string][]byte{"qr": []byte("not an image"), "embed": solidPNG(t, 10, 10, color.Black)},
		nil,
	)
	w := serve(r, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "Error: ") {
		t.Errorf("body: got %q, want error detail", w.Body.String())
	}
	static, _ := os.ReadDir(cfg.StaticDir)
	if len(static) != 0 {
		t.Errorf("static dir: got %d files, want none", len(static))
	}
}

func TestDownload_NoOutput(t *testing.T) {
	r, _ := newTestRouter(t, 2<<20)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/download", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("QR_EMBED_UPLOAD_DIR", "/tmp/up")
	t.Setenv("QR_EMBED_STATIC_DIR", "")
	t.Setenv("QR_EMBED_MAX_UPLOAD_MB", "5")
	t.Setenv("QR_EMBED_LOG_LEVEL", "debug")

	cfg := ConfigFromEnv()

	if cfg.Addr != ":8081" {
		t.Errorf("Addr: got %s, want :8081", cfg.Addr)
	}
	if cfg.UploadDir != "/tmp/up" {
		t.Errorf("UploadDir: got %s", cfg.UploadDir)
	}
	if cfg.StaticDir != "static" {
		t.Errorf("StaticDir: got %s, want static", cfg.StaticDir)
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Errorf("MaxUploadBytes: got %d, want %d", cfg.MaxUploadBytes, 5<<20)
	}
	if !cfg.Debug {
		t.Error("Debug should be set")
	}
}
