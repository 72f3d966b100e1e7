// Package pipeline runs one capture through detection, search, enrichment and ranking.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/justestif/go-mood-mirror/internal/emotion"
	"github.com/justestif/go-mood-mirror/internal/logging"
	"github.com/justestif/go-mood-mirror/internal/mood"
	"github.com/justestif/go-mood-mirror/internal/ranking"
	"github.com/justestif/go-mood-mirror/internal/reporting"
	"github.com/justestif/go-mood-mirror/internal/spotify"
)

// NoticeUnranked is set on results that could not be ordered by audio features.
const NoticeUnranked = "Using simple search (audio features unavailable)"

// Detector reads an emotion from image bytes.
type Detector interface {
	Detect(ctx context.Context, img []byte) (emotion.Result, error)
}

// Catalog finds candidate tracks and their audio descriptors.
type Catalog interface {
	Search(ctx context.Context, seed string, limit int) ([]spotify.Track, error)
	FetchAudioDescriptors(ctx context.Context, trackIDs []string) (map[string]spotify.AudioDescriptor, error)
}

var (
	_ Detector = (*emotion.Detector)(nil)
	_ Catalog  = (*spotify.Client)(nil)
)

// Result is the outcome of one run.
type Result struct {
	RunID   string
	Emotion emotion.Result
	Emoji   string
	Target  mood.Descriptor
	Genre   string // Genre seed actually searched
	Ranking ranking.Result
	Notice  string // Informational message, empty when ranking succeeded
}

// Tracks returns the result's tracks in display order.
func (r *Result) Tracks() []spotify.Track {
	return r.Ranking.Tracks()
}

// Pipeline wires the detector and catalog together. It holds no per-run state
// and is safe for concurrent use.
type Pipeline struct {
	detector Detector
	catalog  Catalog
	limit    int
	logger   *slog.Logger
	reporter reporting.Reporter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLimit sets the number of tracks returned per run.
func WithLimit(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.limit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithReporter sets where detection faults and unexpected errors are reported.
func WithReporter(r reporting.Reporter) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reporter = r
		}
	}
}

// New creates a Pipeline.
func New(detector Detector, catalog Catalog, opts ...Option) *Pipeline {
	p := &Pipeline{
		detector: detector,
		catalog:  catalog,
		limit:    ranking.DefaultLimit,
		logger:   logging.Discard(),
		reporter: reporting.Nop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one image. Errors are *DetectionError when no emotion could be
// read and ErrNoTracks when the catalog had nothing; in the latter case the
// returned Result still carries the detected emotion.
func (p *Pipeline) Run(ctx context.Context, img []byte, observe Observer) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With(logging.RunID(runID))
	progress := newReporter(observe)

	progress.report(StageProcessing, 20, "🔍 Processing your image...")
	progress.report(StageAnalyzing, 50, "🧠 Analyzing facial expressions...")

	detected, err := p.detector.Detect(ctx, img)
	if err != nil {
		logger.Warn("emotion detection failed", logging.Error(err))
		var fault *emotion.Fault
		if errors.As(err, &fault) {
			p.capture(err, runID)
		}
		return nil, &DetectionError{RunID: runID, Err: err}
	}

	target := mood.Map(detected.Dominant)
	res := &Result{
		RunID:   runID,
		Emotion: detected,
		Emoji:   mood.Emoji(detected.Dominant),
		Target:  target,
		Genre:   mood.SafeSeed(target.GenreSeed),
	}
	logger.Info("emotion detected",
		slog.String("emotion", detected.Dominant),
		slog.Float64("confidence", detected.Confidence),
		slog.String("genre", res.Genre),
	)
	progress.report(StageDetected, 70,
		fmt.Sprintf("%s %s detected", res.Emoji, strings.ToUpper(detected.Dominant)))

	progress.report(StageSearching, 85,
		fmt.Sprintf("🎵 Searching for perfect %s tracks...", res.Genre))

	candidates, err := p.catalog.Search(ctx, res.Genre, p.limit)
	if err != nil {
		p.capture(err, runID)
		return nil, fmt.Errorf("searching tracks: %w", err)
	}
	if len(candidates) == 0 {
		logger.Warn("no tracks found", slog.String("genre", res.Genre))
		return res, ErrNoTracks
	}

	ids := make([]string, 0, len(candidates))
	for _, t := range candidates {
		ids = append(ids, t.ID)
	}

	descriptors, err := p.catalog.FetchAudioDescriptors(ctx, ids)
	switch {
	case errors.Is(err, spotify.ErrEnrichmentUnavailable):
		logger.Info("ranking without audio features", logging.Error(err))
		descriptors = nil
	case err != nil:
		return nil, fmt.Errorf("fetching audio features: %w", err)
	}

	res.Ranking = ranking.Rank(candidates, descriptors, target, p.limit)
	if !res.Ranking.Ranked {
		res.Notice = NoticeUnranked
	}

	logger.Info("run finished",
		slog.Int("candidates", len(candidates)),
		slog.Int("descriptors", len(descriptors)),
		slog.Int("tracks", len(res.Ranking.Items)),
		slog.Bool("ranked", res.Ranking.Ranked),
	)
	progress.report(StageDone, 100, "Done")
	return res, nil
}

// capture reports err unless the caller went away.
func (p *Pipeline) capture(err error, runID string) {
	if errors.Is(err, context.Canceled) {
		return
	}
	p.reporter.Capture(err, map[string]string{logging.FieldRunID: runID})
}
