package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/justestif/go-mood-mirror/internal/logging"
	"github.com/justestif/go-mood-mirror/internal/pipeline"
)

// imageField is the multipart field carrying the camera snapshot.
const imageField = "image"

var errNoImage = errors.New("no image uploaded")

// Runner runs the mood pipeline for one image.
type Runner interface {
	Run(ctx context.Context, img []byte, observe pipeline.Observer) (*pipeline.Result, error)
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	pipeline       Runner
	templates      *Templates
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(p Runner, templates *Templates, logger *slog.Logger, maxUploadBytes int64) *Handlers {
	return &Handlers{
		pipeline:       p,
		templates:      templates,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	data := HomePageData{
		PageData: PageData{
			Title:       "Mood Mirror",
			CurrentPath: r.URL.Path,
		},
	}

	var buf bytes.Buffer
	if err := h.templates.Render(&buf, "home", data); err != nil {
		h.logger.Error("render home", logging.Error(err))
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Healthz reports liveness (GET /healthz).
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// Analyze runs the pipeline on an uploaded snapshot and returns an HTML
// fragment (POST /analyze).
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(w, r)

	var (
		partial string
		data    any
		status  = http.StatusOK
	)
	switch {
	case err == nil:
		partial, data = "results", newResultsData(res)
	case errors.Is(err, pipeline.ErrNoTracks) && res != nil:
		rd := newResultsData(res)
		rd.Empty = pipeline.NoTracksMessage
		partial, data = "results", rd
	default:
		partial, data, status = "error", newErrorData(err), statusFor(err)
	}

	var buf bytes.Buffer
	if renderErr := h.templates.RenderPartial(&buf, partial, data); renderErr != nil {
		h.logger.Error("render partial", slog.String("partial", partial), logging.Error(renderErr))
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// APIAnalyze runs the pipeline and responds with JSON (POST /api/analyze).
func (h *Handlers) APIAnalyze(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(w, r)

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, newAnalyzeResponse(res, ""))
	case errors.Is(err, pipeline.ErrNoTracks) && res != nil:
		writeJSON(w, http.StatusOK, newAnalyzeResponse(res, pipeline.NoTracksMessage))
	default:
		writeJSON(w, statusFor(err), newErrorResponse(err))
	}
}

// run reads the snapshot from the request and runs the pipeline.
func (h *Handlers) run(w http.ResponseWriter, r *http.Request) (*pipeline.Result, error) {
	img, err := h.readImage(w, r)
	if err != nil {
		return nil, err
	}

	return h.pipeline.Run(r.Context(), img, func(p pipeline.Progress) {
		h.logger.Debug("progress",
			slog.String("stage", string(p.Stage)),
			slog.Int("percent", p.Percent),
		)
	})
}

func (h *Handlers) readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, fmt.Errorf("%w: %w", errNoImage, err)
	}

	file, _, err := r.FormFile(imageField)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errNoImage, err)
	}
	defer file.Close()

	img, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(img) == 0 {
		return nil, errNoImage
	}
	return img, nil
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var detErr *pipeline.DetectionError
	switch {
	case errors.Is(err, errNoImage):
		return http.StatusBadRequest
	case errors.As(err, &detErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
