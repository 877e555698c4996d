package main

import (
	"io"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/qr-embed/internal/qrscan"
	"github.com/ironsheep/qr-embed/internal/stego"
	"github.com/ironsheep/qr-embed/internal/web"
)

// Version information - set by ldflags during build
var Version = "dev"

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := web.ConfigFromEnv()

	gin.SetMode(gin.ReleaseMode)
	debug := log.New(io.Discard, "", 0)
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
		debug = log.Default()
	}

	embedder := stego.New(
		stego.WithLogger(debug),
		stego.WithDetector(qrscan.NewDetector(debug)),
	)
	h, err := web.New(cfg, embedder, debug)
	if err != nil {
		log.Fatalf("Startup error: %v", err)
	}

	log.Printf("qr-embed-web %s listening on %s", Version, cfg.Addr)
	if err := h.Router().Run(cfg.Addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
