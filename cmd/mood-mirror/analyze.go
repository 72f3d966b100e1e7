package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justestif/go-mood-mirror/internal/mood"
	"github.com/justestif/go-mood-mirror/internal/pipeline"
	"github.com/justestif/go-mood-mirror/internal/ranking"
)

// Output formats for analyze.
const (
	formatTable = "table"
	formatPlain = "plain"
	formatJSON  = "json"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Detect the mood in an image and print matching tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			img, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			a, err := ctx.buildApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.flush()

			res, err := a.pipeline.Run(cmd.Context(), img, nil)
			return renderAnalysis(cmd.OutOrStdout(), res, err, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, plain or json")
	return cmd
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatPlain, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (want table, plain or json)", format)
	}
}

// renderAnalysis prints a pipeline outcome. Detection failures and empty
// searches are returned after printing so the command exits non-zero in
// every format.
func renderAnalysis(w io.Writer, res *pipeline.Result, runErr error, format string) error {
	var detErr *pipeline.DetectionError
	switch {
	case errors.As(runErr, &detErr):
		fmt.Fprintf(w, "%s\n", detErr.Message())
		for _, step := range pipeline.Remediation {
			fmt.Fprintf(w, "  • %s\n", step)
		}
		return runErr
	case errors.Is(runErr, pipeline.ErrNoTracks) && res != nil:
		if format == formatJSON {
			if err := writeAnalysisJSON(w, res, pipeline.NoTracksMessage); err != nil {
				return err
			}
			return runErr
		}
		fmt.Fprintln(w, emotionLine(res))
		fmt.Fprintln(w, pipeline.NoTracksMessage)
		return runErr
	case runErr != nil:
		return runErr
	}

	switch format {
	case formatJSON:
		return writeAnalysisJSON(w, res, "")
	case formatPlain:
		fmt.Fprintln(w, emotionLine(res))
		fmt.Fprint(w, ranking.FormatSummary(res.Ranking))
	default:
		fmt.Fprintln(w, emotionLine(res))
		fmt.Fprintln(w, trackTable(res))
	}
	if res.Notice != "" {
		fmt.Fprintln(w, res.Notice)
	}
	return nil
}

func emotionLine(res *pipeline.Result) string {
	return fmt.Sprintf("%s %s (confidence %.1f%%) → %s",
		res.Emoji,
		strings.ToUpper(res.Emotion.Dominant),
		res.Emotion.Confidence*100,
		mood.GenreLabel(res.Genre),
	)
}

func trackTable(res *pipeline.Result) string {
	headers := []string{"#", "Title", "Artist", "Album", "Distance", "Link"}
	rows := make([][]string, 0, len(res.Ranking.Items))
	for i, item := range res.Ranking.Items {
		distance := "-"
		if item.Scored {
			distance = strconv.FormatFloat(item.Distance, 'f', 2, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Track.Title,
			item.Track.Artist,
			item.Track.Album,
			distance,
			item.Track.ExternalURL,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
}

type analysisJSON struct {
	RunID      string      `json:"run_id"`
	Emotion    string      `json:"emotion"`
	Confidence float64     `json:"confidence"`
	Genre      string      `json:"genre"`
	Ranked     bool        `json:"ranked"`
	Notice     string      `json:"notice,omitempty"`
	Message    string      `json:"message,omitempty"`
	Tracks     []trackJSON `json:"tracks"`
}

type trackJSON struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Album    string   `json:"album"`
	URL      string   `json:"url"`
	Preview  string   `json:"preview_url,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

func writeAnalysisJSON(w io.Writer, res *pipeline.Result, message string) error {
	out := analysisJSON{
		RunID:      res.RunID,
		Emotion:    res.Emotion.Dominant,
		Confidence: res.Emotion.Confidence,
		Genre:      res.Genre,
		Ranked:     res.Ranking.Ranked,
		Notice:     res.Notice,
		Message:    message,
		Tracks:     make([]trackJSON, 0, len(res.Ranking.Items)),
	}
	for _, item := range res.Ranking.Items {
		t := trackJSON{
			ID:      item.Track.ID,
			Title:   item.Track.Title,
			Artist:  item.Track.Artist,
			Album:   item.Track.Album,
			URL:     item.Track.ExternalURL,
			Preview: item.Track.PreviewURL,
		}
		if item.Scored {
			d := item.Distance
			t.Distance = &d
		}
		out.Tracks = append(out.Tracks, t)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
