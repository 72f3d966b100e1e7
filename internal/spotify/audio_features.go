package spotify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-mirror/internal/logging"
)

// maxTracksPerRequest is the Spotify API limit for audio feature lookups.
const maxTracksPerRequest = 100

// ErrEnrichmentUnavailable is returned when audio features cannot be fetched.
// Callers should fall back to unranked results.
var ErrEnrichmentUnavailable = errors.New("audio features unavailable")

// FetchAudioDescriptors retrieves valence and energy for the given track IDs.
// Requests are batched to at most 100 IDs. Tracks the API has no features for
// are absent from the map. If any batch fails the whole lookup fails with
// ErrEnrichmentUnavailable and no partial map is returned.
func (c *Client) FetchAudioDescriptors(ctx context.Context, trackIDs []string) (map[string]AudioDescriptor, error) {
	ids := uniqueIDs(trackIDs)
	descriptors := make(map[string]AudioDescriptor, len(ids))
	if len(ids) == 0 {
		return descriptors, nil
	}

	total := len(ids)
	for i := 0; i < total; i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, total)

		features, err := c.api.GetAudioFeatures(ctx, ids[i:end]...)
		if err != nil {
			c.logger.Info("audio features unavailable",
				slog.Int("batch_start", i+1),
				slog.Int("batch_end", end),
				logging.Error(err),
			)
			return nil, fmt.Errorf("%w: batch %d-%d: %w", ErrEnrichmentUnavailable, i+1, end, err)
		}

		for _, f := range features {
			if f == nil {
				continue // Track has no audio features
			}
			id := f.ID.String()
			descriptors[id] = AudioDescriptor{
				TrackID: id,
				Valence: float64(f.Valence),
				Energy:  float64(f.Energy),
			}
		}
	}

	c.logger.Debug("fetched audio features",
		slog.Int("requested", total),
		slog.Int("found", len(descriptors)),
	)
	return descriptors, nil
}

// uniqueIDs drops empty and repeated IDs, keeping first-seen order.
func uniqueIDs(trackIDs []string) []spotify.ID {
	seen := make(map[string]struct{}, len(trackIDs))
	ids := make([]spotify.ID, 0, len(trackIDs))
	for _, id := range trackIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, spotify.ID(id))
	}
	return ids
}
