package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// maxResponseBytes bounds how much of a model response is read.
	maxResponseBytes = 1 << 20

	userAgent = "mood-mirror/1.0"
)

// ErrModelBusy is returned when the face model is still loading or overloaded after retries.
var ErrModelBusy = errors.New("face model busy")

// defaultRetryDelays covers a DeepFace worker loading its weights on first use.
var defaultRetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// analyzeRequest is the DeepFace REST request body.
type analyzeRequest struct {
	Img              string   `json:"img"`
	Actions          []string `json:"actions"`
	EnforceDetection bool     `json:"enforce_detection"`
	DetectorBackend  string   `json:"detector_backend,omitempty"`
}

// HTTPAnalyzer calls a DeepFace REST service.
type HTTPAnalyzer struct {
	url             string
	detectorBackend string
	client          *http.Client
	retryDelays     []time.Duration
}

// NewHTTPAnalyzer creates an analyzer for the DeepFace analyze endpoint at url.
// A nil client uses http.DefaultClient.
func NewHTTPAnalyzer(url, detectorBackend string, client *http.Client) *HTTPAnalyzer {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPAnalyzer{
		url:             url,
		detectorBackend: detectorBackend,
		client:          client,
		retryDelays:     defaultRetryDelays,
	}
}

// Analyze sends the image as a base64 data URI and parses the response.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, imagePath string) (Analysis, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return Analysis{}, fmt.Errorf("reading image: %w", err)
	}

	body, err := json.Marshal(analyzeRequest{
		Img:              "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
		Actions:          []string{"emotion"},
		EnforceDetection: false,
		DetectorBackend:  a.detectorBackend,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("encoding request: %w", err)
	}

	respBody, err := a.doRequest(ctx, body)
	if err != nil {
		return Analysis{}, err
	}
	return parseAnalysis(respBody)
}

// doRequest posts body, retrying with backoff while the model reports busy.
func (a *HTTPAnalyzer) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= len(a.retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.retryDelays[attempt-1]):
			}
		}

		respBody, err := a.doSingleRequest(ctx, body)
		if err == nil {
			return respBody, nil
		}
		if errors.Is(err, ErrModelBusy) {
			lastErr = err
			continue
		}
		return nil, err
	}

	return nil, lastErr
}

func (a *HTTPAnalyzer) doSingleRequest(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling face model: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return respBody, nil
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: %s", ErrModelBusy, resp.Status)
	default:
		return nil, fmt.Errorf("face model returned %s: %s",
			resp.Status, strings.TrimSpace(truncate(respBody, 200)))
	}
}
