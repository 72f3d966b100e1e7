// Package emotion detects the dominant facial emotion in a camera image
// using an external face-analysis model.
package emotion

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/justestif/go-mood-mirror/internal/mood"
)

// ErrUndecodableImage is returned when the input bytes are not a supported image.
var ErrUndecodableImage = errors.New("image could not be decoded")

// Fault wraps a failure of the face-analysis model or its transient input file.
type Fault struct {
	Op  string
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("emotion %s: %v", f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Result is a normalized emotion analysis.
type Result struct {
	Dominant     string             // One of the known emotion labels
	Confidence   float64            // Face confidence in [0,1]
	Distribution map[string]float64 // Per-emotion scores summing to 1
}

// Emotion returns the dominant label as a known Emotion, neutral if unset.
func (r Result) Emotion() mood.Emotion {
	e, _ := mood.ParseEmotion(r.Dominant)
	return e
}

// Score is one entry of the distribution.
type Score struct {
	Label string
	Value float64
}

// Scores returns the distribution sorted by descending value, then label.
func (r Result) Scores() []Score {
	scores := make([]Score, 0, len(r.Distribution))
	for label, v := range r.Distribution {
		scores = append(scores, Score{Label: label, Value: v})
	}
	slices.SortFunc(scores, func(a, b Score) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return scores
}

// Analysis is the raw per-face output of the model.
type Analysis struct {
	DominantEmotion string             `json:"dominant_emotion"`
	FaceConfidence  float64            `json:"face_confidence"`
	Emotion         map[string]float64 `json:"emotion"`
}

// normalize converts raw model output into a Result. Labels outside the
// closed emotion set are dropped from the distribution, and an unknown
// dominant label resolves to the strongest known score, then neutral.
func normalize(a Analysis) (Result, error) {
	reported := strings.TrimSpace(a.DominantEmotion)
	if reported == "" && len(a.Emotion) == 0 {
		return Result{}, errors.New("model output has no emotion")
	}

	dist := make(map[string]float64, len(a.Emotion))
	var total float64
	for label, v := range a.Emotion {
		e, ok := mood.ParseEmotion(label)
		if !ok {
			continue
		}
		v = max(v, 0)
		dist[e.String()] += v
		total += v
	}
	if total > 0 {
		for label, v := range dist {
			dist[label] = v / total
		}
	}

	dominant, ok := mood.ParseEmotion(reported)
	if !ok {
		if best := argmax(dist); best != "" {
			dominant = mood.Emotion(best)
		}
	}

	return Result{
		Dominant:     dominant.String(),
		Confidence:   clamp01(a.FaceConfidence),
		Distribution: dist,
	}, nil
}

// argmax returns the label with the highest score, ties broken alphabetically.
func argmax(dist map[string]float64) string {
	var best string
	bestScore := -1.0
	for label, v := range dist {
		if v > bestScore || (v == bestScore && label < best) {
			best, bestScore = label, v
		}
	}
	return best
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
