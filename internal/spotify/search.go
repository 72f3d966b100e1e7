package spotify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-mirror/internal/logging"
	"github.com/justestif/go-mood-mirror/internal/mood"
)

// maxSearchLimit is the largest page the search endpoint returns.
const maxSearchLimit = 50

// Queries returns the search formulations for a genre seed, most specific first.
func Queries(seed string) []string {
	return []string{
		"genre:" + seed,
		seed,
		"tag:" + seed,
		seed + " music",
	}
}

// strategy produces candidates or an error. An empty result means "try the next one".
type strategy[T any] func(ctx context.Context) ([]T, error)

// firstNonEmpty runs strategies in order and returns the first non-empty result.
// A failing strategy is reported to onErr and treated like an empty one.
// Only context cancellation stops the chain early.
func firstNonEmpty[T any](ctx context.Context, strategies []strategy[T], onErr func(i int, err error)) ([]T, error) {
	for i, s := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := s(ctx)
		if err != nil {
			if onErr != nil {
				onErr(i, err)
			}
			continue
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	return nil, nil
}

// Search returns tracks for a genre seed, trying each query formulation until
// one yields results. Up to limit*overfetch candidates are requested (capped at
// the endpoint's page size) so ranking has something to choose from.
// An exhausted chain yields an empty slice and a nil error.
func (c *Client) Search(ctx context.Context, seed string, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	seed = mood.SafeSeed(seed)
	fetch := min(limit*c.overfetch, maxSearchLimit)

	queries := Queries(seed)
	strategies := make([]strategy[Track], 0, len(queries))
	for _, q := range queries {
		q := q // per-iteration copy; go.mod targets go 1.21 loop semantics
		strategies = append(strategies, func(ctx context.Context) ([]Track, error) {
			return c.searchTracks(ctx, q, fetch)
		})
	}

	tracks, err := firstNonEmpty(ctx, strategies, func(i int, err error) {
		c.logger.Warn("search formulation failed",
			slog.String("query", queries[i]),
			logging.Error(err),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", seed, err)
	}

	c.logger.Debug("search finished",
		slog.String("seed", seed),
		slog.Int("candidates", len(tracks)),
	)
	return tracks, nil
}

func (c *Client) searchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack,
		spotify.Limit(limit),
		spotify.Market(c.market),
	)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if result == nil {
		return nil, nil
	}
	return convertTracks(result.Tracks), nil
}
