package web

import (
	"errors"

	"github.com/justestif/go-mood-mirror/internal/emotion"
	"github.com/justestif/go-mood-mirror/internal/pipeline"
	"github.com/justestif/go-mood-mirror/internal/ranking"
)

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	CurrentPath string
}

// HomePageData contains data for the home page template.
type HomePageData struct {
	PageData
}

// ResultsData is the emotion readout followed by track cards.
type ResultsData struct {
	Emotion    string
	Emoji      string
	Confidence float64
	Scores     []emotion.Score
	Genre      string
	Valence    float64
	Energy     float64
	Vibe       *ranking.Vibe
	Notice     string
	Empty      string // Shown instead of tracks when none were found
	Tracks     []TrackData
}

// TrackData contains data for a single track card.
type TrackData struct {
	ID          string
	Title       string
	Artist      string
	Album       string
	AlbumArtURL string
	PreviewURL  string
	ExternalURL string
	Distance    float64
	Scored      bool
}

// ErrorData is the failure panel with remediation steps and technical details.
type ErrorData struct {
	Title       string
	Message     string
	Remediation []string
	Detail      string
}

func newResultsData(res *pipeline.Result) ResultsData {
	data := ResultsData{
		Emotion:    res.Emotion.Dominant,
		Emoji:      res.Emoji,
		Confidence: res.Emotion.Confidence,
		Scores:     res.Emotion.Scores(),
		Genre:      res.Genre,
		Valence:    res.Target.Valence,
		Energy:     res.Target.Energy,
		Vibe:       res.Ranking.Vibe,
		Notice:     res.Notice,
		Tracks:     make([]TrackData, 0, len(res.Ranking.Items)),
	}
	for _, item := range res.Ranking.Items {
		data.Tracks = append(data.Tracks, TrackData{
			ID:          item.Track.ID,
			Title:       item.Track.Title,
			Artist:      item.Track.Artist,
			Album:       item.Track.Album,
			AlbumArtURL: item.Track.AlbumArtURL,
			PreviewURL:  item.Track.PreviewURL,
			ExternalURL: item.Track.ExternalURL,
			Distance:    item.Distance,
			Scored:      item.Scored,
		})
	}
	return data
}

const errorTitle = "⚠️ Oops! Something went wrong"

func newErrorData(err error) ErrorData {
	var detErr *pipeline.DetectionError
	switch {
	case errors.As(err, &detErr):
		return ErrorData{
			Title:       errorTitle,
			Message:     detErr.Message(),
			Remediation: pipeline.Remediation,
			Detail:      detErr.Detail(),
		}
	case errors.Is(err, errNoImage):
		return ErrorData{
			Title:       errorTitle,
			Message:     "No photo was received. Take a snapshot and try again.",
			Remediation: []string{"Taking another photo"},
			Detail:      err.Error(),
		}
	default:
		return ErrorData{
			Title:   errorTitle,
			Message: pipeline.NoTracksMessage,
			Detail:  err.Error(),
		}
	}
}

// analyzeResponse is the JSON body of /api/analyze.
type analyzeResponse struct {
	RunID   string          `json:"run_id"`
	Emotion emotionResponse `json:"emotion"`
	Genre   string          `json:"genre"`
	Ranked  bool            `json:"ranked"`
	Notice  string          `json:"notice,omitempty"`
	Message string          `json:"message,omitempty"`
	Vibe    *vibeResponse   `json:"vibe,omitempty"`
	Tracks  []trackResponse `json:"tracks"`
}

type emotionResponse struct {
	Label        string             `json:"label"`
	Emoji        string             `json:"emoji"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution,omitempty"`
}

type vibeResponse struct {
	Name    string  `json:"name"`
	Valence float64 `json:"valence"`
	Energy  float64 `json:"energy"`
}

type trackResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Album       string   `json:"album"`
	AlbumArtURL string   `json:"album_art_url,omitempty"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	ExternalURL string   `json:"external_url"`
	Distance    *float64 `json:"distance,omitempty"`
}

type errorResponse struct {
	Error       string   `json:"error"`
	Message     string   `json:"message"`
	Remediation []string `json:"remediation,omitempty"`
}

func newAnalyzeResponse(res *pipeline.Result, message string) analyzeResponse {
	out := analyzeResponse{
		RunID: res.RunID,
		Emotion: emotionResponse{
			Label:        res.Emotion.Dominant,
			Emoji:        res.Emoji,
			Confidence:   res.Emotion.Confidence,
			Distribution: res.Emotion.Distribution,
		},
		Genre:   res.Genre,
		Ranked:  res.Ranking.Ranked,
		Notice:  res.Notice,
		Message: message,
		Tracks:  make([]trackResponse, 0, len(res.Ranking.Items)),
	}
	if v := res.Ranking.Vibe; v != nil {
		out.Vibe = &vibeResponse{Name: v.Name, Valence: v.Valence, Energy: v.Energy}
	}
	for _, item := range res.Ranking.Items {
		tr := trackResponse{
			ID:          item.Track.ID,
			Title:       item.Track.Title,
			Artist:      item.Track.Artist,
			Album:       item.Track.Album,
			AlbumArtURL: item.Track.AlbumArtURL,
			PreviewURL:  item.Track.PreviewURL,
			ExternalURL: item.Track.ExternalURL,
		}
		if item.Scored {
			d := item.Distance
			tr.Distance = &d
		}
		out.Tracks = append(out.Tracks, tr)
	}
	return out
}

func newErrorResponse(err error) errorResponse {
	data := newErrorData(err)
	return errorResponse{
		Error:       data.Detail,
		Message:     data.Message,
		Remediation: data.Remediation,
	}
}
