package ranking

import (
	"fmt"
	"strings"
)

// FormatSummary returns a human-readable summary of a ranking result.
func FormatSummary(res Result) string {
	var sb strings.Builder

	if len(res.Items) == 0 {
		sb.WriteString("No tracks found\n")
		return sb.String()
	}

	trackWord := "track"
	if len(res.Items) > 1 {
		trackWord = "tracks"
	}

	if res.Ranked {
		fmt.Fprintf(&sb, "Ranked %d %s by mood distance", len(res.Items), trackWord)
		if res.Vibe != nil {
			fmt.Fprintf(&sb, " (vibe: %s)", res.Vibe.Name)
		}
	} else {
		fmt.Fprintf(&sb, "Found %d %s (unranked)", len(res.Items), trackWord)
	}
	sb.WriteString("\n")

	for i, item := range res.Items {
		fmt.Fprintf(&sb, "  %d. \"%s\" - %s", i+1, item.Track.Title, item.Track.Artist)
		if item.Scored {
			fmt.Fprintf(&sb, " (distance %.2f)", item.Distance)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
