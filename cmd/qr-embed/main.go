package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"

	"github.com/ironsheep/qr-embed/internal/qrscan"
	"github.com/ironsheep/qr-embed/internal/stego"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	set := getopt.New()
	set.SetProgram("qr-embed")
	set.SetParameters("qr embed output [seed blend]")

	seed := set.StringLong("seed", 's', "", "placement seed; empty picks one at random", "seed")
	blend := set.IntLong("blend", 'b', stego.DefaultBlend, "edge blend strength, clamped to 0-100", "0-100")
	level := set.EnumLong("level", 'l',
		[]string{"auto", "L", "M", "Q", "H", "l", "m", "q", "h"}, "auto",
		"error correction level; auto decodes the QR code", "auto|L|M|Q|H")
	verbose := set.BoolLong("verbose", 'v', "log progress to standard error")
	help := set.BoolLong("help", 'h', "show this help")
	version := set.BoolLong("version", 'V', "print version information")

	if err := set.Getopt(args, nil); err != nil {
		fmt.Fprintln(stderr, err)
		set.PrintUsage(stderr)
		return 1
	}
	if *help {
		set.PrintUsage(stdout)
		fmt.Fprint(stdout, `
Embeds an image into a QR code away from the finder patterns and timing
lines, blending its edges into the surrounding modules. The output format
follows the output file extension; "-" writes PNG to standard output.
The same seed and inputs always produce the same output.
`)
		return 0
	}
	if *version {
		fmt.Fprintf(stdout, "qr-embed %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	}

	pos := set.Args()
	switch len(pos) {
	case 3:
	case 5:
		// Legacy order: qr embed output seed blend.
		if !set.IsSet("seed") {
			*seed = pos[3]
		}
		if !set.IsSet("blend") {
			*blend = stego.ParseBlend(pos[4])
		}
	default:
		set.PrintUsage(stderr)
		return 1
	}
	qrPath, embedPath, outputPath := pos[0], pos[1], pos[2]

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
	}

	ec, err := stego.ParseECLevel(*level)
	if err != nil {
		fmt.Fprintf(stderr, "qr-embed: %v\n", err)
		return 1
	}
	embedder := stego.New(
		stego.WithLogger(logger),
		stego.WithDetector(qrscan.NewDetector(logger)),
		stego.WithLevel(ec),
	)

	var res *stego.Result
	if outputPath == "-" {
		res, err = embedToWriter(embedder, qrPath, embedPath, *seed, *blend, stdout)
	} else {
		res, err = embedder.EmbedFile(qrPath, embedPath, outputPath, *seed, *blend)
	}
	if err != nil {
		fmt.Fprintf(stderr, "qr-embed: %v\n", err)
		return 1
	}

	if res.Placement.Exhausted {
		fmt.Fprintf(stderr, "qr-embed: warning: no safe placement found, embed may cover QR structure\n")
	}
	if *verbose {
		logger.Printf("embedded %dx%d at (%d,%d), level %s, blend %d, seed %q",
			res.Placement.W, res.Placement.H, res.Placement.X, res.Placement.Y,
			res.Capacity.Level, res.Blend, res.Seed)
	}
	return 0
}

// embedToWriter embeds and encodes the result as PNG to w. Writing binary
// data to a terminal is refused before any work is done.
func embedToWriter(e *stego.Embedder, qrPath, embedPath, seed string, blend int, w io.Writer) (*stego.Result, error) {
	if f, ok := w.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(f.Fd()) {
		return nil, fmt.Errorf("refusing to write PNG to a terminal")
	}
	return e.EmbedTo(w, qrPath, embedPath, seed, blend)
}
