// Command quad-rectify finds the document outline in each image given on the
// command line and writes an upright, rectified copy of it.
//
//	quad-rectify [flags] image...
//
// For photo.jpg the output is photo_rectified.png, next to the input or in
// -out-dir. -overlay adds photo_overlay.png with the detected lines and
// corners drawn on the original, and -ocr adds photo.txt with the text found
// in the rectified page.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ironsheep/quad-rectify/internal/config"
	"github.com/ironsheep/quad-rectify/internal/detection"
	"github.com/ironsheep/quad-rectify/internal/imaging"
	"github.com/ironsheep/quad-rectify/internal/ocr"
	"github.com/ironsheep/quad-rectify/internal/quad"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// options are the per-run settings taken from flags.
type options struct {
	Workers int
	OutDir  string
	Overlay bool
	OCR     bool
}

// outcome is what processing one image produced.
type outcome struct {
	Path    string
	Outputs []string
	Err     error
}

type runner struct {
	cfg    *config.Config
	opts   options
	logger *log.Logger
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "Number of images processed in parallel")
	outDir := flag.String("out-dir", "", "Write outputs here instead of next to each input")
	overlay := flag.Bool("overlay", false, "Also write <name>_overlay.png showing the detected lines and corners")
	withOCR := flag.Bool("ocr", false, "Also write <name>.txt with the text of the rectified page")
	configPath := flag.String("config", "", "JSON config file (defaults apply to omitted fields)")
	width := flag.Int("width", 0, "Output width in pixels (overrides config)")
	height := flag.Int("height", 0, "Output height in pixels (overrides config)")
	showVersion := flag.Bool("version", false, "Print version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: quad-rectify [flags] image...\n\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\nSet QUAD_RECTIFY_LOG_LEVEL=debug for per-stage logging.\n")
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("quad-rectify %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log.SetFlags(log.Ldate | log.Ltime)

	var debug *log.Logger
	if os.Getenv("QUAD_RECTIFY_LOG_LEVEL") == "debug" {
		debug = log.New(os.Stderr, "quad: ", log.Ldate|log.Ltime|log.Lmicroseconds)
	}

	cfg, err := loadConfig(*configPath, *width, *height)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if *withOCR && !ocr.Available() {
		log.Fatalf("-ocr requested but %v", ocr.ErrUnavailable)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	opts := options{
		Workers: *workers,
		OutDir:  *outDir,
		Overlay: *overlay,
		OCR:     *withOCR,
	}
	r := &runner{cfg: cfg, opts: opts, logger: debug}
	os.Exit(report(r.processAll(flag.Args()), os.Stdout, os.Stderr))
}

// loadConfig merges the optional config file and the size flags over the
// defaults.
func loadConfig(path string, width, height int) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(loaded)
	}

	override := config.Empty()
	if width > 0 {
		override.OutputWidth = &width
	}
	if height > 0 {
		override.OutputHeight = &height
	}
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// processAll runs process on every path with at most opts.Workers images in
// flight. Outcomes are returned in input order.
func (r *runner) processAll(paths []string) []outcome {
	workers := r.opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]outcome, len(paths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.process(path)
		}(i, path)
	}
	wg.Wait()
	return results
}

func (r *runner) process(path string) outcome {
	res := outcome{Path: path}

	img, format, err := imaging.Decode(path)
	if err != nil {
		res.Err = err
		return res
	}
	r.debugf("%s: %s %dx%d", path, format, img.Bounds().Dx(), img.Bounds().Dy())

	det, err := detection.New(r.cfg.GetLineDetector(), r.cfg.Detection())
	if err != nil {
		res.Err = err
		return res
	}
	lines, err := det.DetectLines(img)
	if err != nil {
		res.Err = fmt.Errorf("line detection: %w", err)
		return res
	}
	r.debugf("%s: %d lines detected", path, len(lines))

	p := quad.New(r.cfg.Quad(img.Bounds()))
	p.Logger = r.logger
	rect, err := p.Rectify(img, detection.Polar(lines))
	if err != nil {
		res.Err = err
		return res
	}

	out := r.outputPath(path, "_rectified.png")
	if err := imaging.Save(rect.Image, out); err != nil {
		res.Err = err
		return res
	}
	res.Outputs = append(res.Outputs, out)

	if r.opts.Overlay {
		drawn := imaging.DrawOverlay(img, imaging.Overlay{
			Lines:      rect.Lines.Lines(),
			Candidates: rect.Corners.Corners,
			Corners:    &rect.Quadrilateral.Corners,
			Centroid:   &rect.Quadrilateral.Centroid,
			Labels:     true,
		})
		out := r.outputPath(path, "_overlay.png")
		if err := imaging.Save(drawn, out); err != nil {
			res.Err = err
			return res
		}
		res.Outputs = append(res.Outputs, out)
	}

	if r.opts.OCR {
		text, err := ocr.Extract(rect.Image, r.cfg.GetOCRLanguage())
		if err != nil {
			res.Err = err
			return res
		}
		out := r.outputPath(path, ".txt")
		if err := os.WriteFile(out, []byte(text.FullText), 0o644); err != nil {
			res.Err = fmt.Errorf("failed to write %s: %w", out, err)
			return res
		}
		res.Outputs = append(res.Outputs, out)
	}

	return res
}

// outputPath names an output for src: the base name without its extension
// plus suffix, in OutDir or next to src.
func (r *runner) outputPath(src, suffix string) string {
	base := filepath.Base(src)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + suffix
	dir := r.opts.OutDir
	if dir == "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, name)
}

func (r *runner) debugf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// report prints one line per outcome and returns the exit status: 0 when
// every image succeeded, 1 otherwise.
func report(results []outcome, stdout, stderr io.Writer) int {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(stderr, "%s: %s\n", res.Path, describeFailure(res.Err))
			continue
		}
		fmt.Fprintf(stdout, "%s -> %s\n", res.Path, strings.Join(res.Outputs, ", "))
	}
	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d images failed\n", failed, len(results))
		return 1
	}
	return 0
}

// describeFailure names the failed stage and kind for pipeline errors.
func describeFailure(err error) string {
	var se *quad.StageError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("%s stage failed: %s (count=%d)", se.Stage, quad.Kind(err), se.Count)
		if se.Detail != "" {
			msg += ": " + se.Detail
		}
		return msg
	}
	return err.Error()
}
