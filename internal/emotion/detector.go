package emotion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"io/fs"
	"log/slog"
	"os"
	"time"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/justestif/go-mood-mirror/internal/config"
	"github.com/justestif/go-mood-mirror/internal/logging"
)

const jpegQuality = 90

// DefaultMaxPixels caps the declared image size accepted by Detect.
const DefaultMaxPixels = 40_000_000

// Analyzer runs the face-analysis model on an image file.
// Implementations must request permissive detection so a blurry or partial
// face still yields a result.
type Analyzer interface {
	Analyze(ctx context.Context, imagePath string) (Analysis, error)
}

// Options configures a Detector.
type Options struct {
	TempDir   string        // Directory for the transient image; empty uses os.TempDir
	Timeout   time.Duration // Per-call model timeout; zero means none
	MaxPixels int64         // Largest declared width*height accepted; zero uses DefaultMaxPixels
	Logger    *slog.Logger
}

// Detector turns image bytes into an emotion Result.
type Detector struct {
	analyzer  Analyzer
	tempDir   string
	timeout   time.Duration
	maxPixels int64
	logger    *slog.Logger
}

// NewDetector creates a Detector around an Analyzer.
func NewDetector(analyzer Analyzer, opts Options) *Detector {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	maxPixels := opts.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Detector{
		analyzer:  analyzer,
		tempDir:   opts.TempDir,
		timeout:   opts.Timeout,
		maxPixels: maxPixels,
		logger:    logger.With(logging.Component("emotion")),
	}
}

// NewFromConfig builds a Detector with the configured analyzer backend.
func NewFromConfig(cfg config.Detector, logger *slog.Logger) (*Detector, error) {
	var analyzer Analyzer
	switch cfg.Backend {
	case config.BackendHTTP:
		analyzer = NewHTTPAnalyzer(cfg.URL, cfg.DetectorBackend, nil)
	case config.BackendCommand:
		a, err := NewCommandAnalyzer(cfg.Command)
		if err != nil {
			return nil, err
		}
		analyzer = a
	default:
		return nil, fmt.Errorf("unsupported detector backend %q", cfg.Backend)
	}

	return NewDetector(analyzer, Options{
		TempDir:   cfg.TempDir,
		Timeout:   cfg.Timeout(),
		MaxPixels: cfg.MaxPixels(),
		Logger:    logger,
	}), nil
}

// Detect decodes the image, hands it to the model through a transient JPEG
// file, and normalizes the output. The file is removed on every path.
// Returns ErrUndecodableImage for unsupported or oversized input and *Fault
// for model failures.
func (d *Detector) Detect(ctx context.Context, img []byte) (Result, error) {
	header, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUndecodableImage, err)
	}
	if pixels := int64(header.Width) * int64(header.Height); pixels > d.maxPixels {
		return Result{}, fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrUndecodableImage, header.Width, header.Height, d.maxPixels)
	}

	decoded, format, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUndecodableImage, err)
	}

	path, err := d.writeTemp(decoded)
	if err != nil {
		return Result{}, &Fault{Op: "write image", Err: err}
	}
	defer d.remove(path)

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	analysis, err := d.analyzer.Analyze(ctx, path)
	if err != nil {
		return Result{}, &Fault{Op: "analyze", Err: err}
	}

	res, err := normalize(analysis)
	if err != nil {
		return Result{}, &Fault{Op: "analyze", Err: err}
	}

	d.logger.Debug("emotion detected",
		slog.String("format", format),
		slog.String("dominant", res.Dominant),
		slog.Float64("confidence", res.Confidence),
		slog.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// writeTemp re-encodes the image as JPEG into a new temp file and returns its path.
func (d *Detector) writeTemp(img image.Image) (string, error) {
	f, err := os.CreateTemp(d.tempDir, "mood-mirror-*.jpg")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		d.remove(path)
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}
	if err := f.Close(); err != nil {
		d.remove(path)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return path, nil
}

func (d *Detector) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		d.logger.Warn("failed to remove temp image", slog.String("path", path), logging.Error(err))
	}
}
