// Package spotify wraps the Spotify Web API as a music catalog for mood-based search.
package spotify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-mood-mirror/internal/auth"
	"github.com/justestif/go-mood-mirror/internal/config"
	"github.com/justestif/go-mood-mirror/internal/logging"
)

const (
	// DefaultLimit is the number of tracks a run returns when no limit is given.
	DefaultLimit = 5

	// DefaultOverfetch multiplies the limit so ranking has candidates to choose from.
	DefaultOverfetch = 10

	// DefaultMarket is the catalog region used for searches.
	DefaultMarket = "US"
)

// API is the subset of *spotify.Client used by the catalog.
type API interface {
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
	GetAudioFeatures(ctx context.Context, ids ...spotify.ID) ([]*spotify.AudioFeatures, error)
}

var _ API = (*spotify.Client)(nil)

// Client searches the catalog and enriches tracks with audio descriptors.
type Client struct {
	api       API
	market    string
	overfetch int
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMarket sets the market (region code) used for searches.
func WithMarket(market string) Option {
	return func(c *Client) {
		if market != "" {
			c.market = market
		}
	}
}

// WithOverfetch sets the search over-fetch multiplier.
func WithOverfetch(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.overfetch = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a catalog client around an API implementation.
func New(api API, opts ...Option) *Client {
	c := &Client{
		api:       api,
		market:    DefaultMarket,
		overfetch: DefaultOverfetch,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.Component("catalog"))
	return c
}

// NewFromConfig builds an authenticated catalog client from configuration.
// One app token is fetched up front so bad credentials fail here.
func NewFromConfig(ctx context.Context, sp config.Spotify, rec config.Recommend, logger *slog.Logger) (*Client, error) {
	authenticator, err := auth.New(auth.Credentials{
		ClientID:     sp.ClientID,
		ClientSecret: sp.ClientSecret,
		TokenURL:     sp.TokenURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating authenticator: %w", err)
	}
	if _, err := authenticator.Token(ctx); err != nil {
		return nil, fmt.Errorf("verifying Spotify credentials: %w", err)
	}

	clientOpts := []spotify.ClientOption{spotify.WithRetry(sp.Retry)}
	if sp.BaseURL != "" {
		clientOpts = append(clientOpts, spotify.WithBaseURL(withTrailingSlash(sp.BaseURL)))
	}

	api := spotify.New(authenticator.Client(ctx), clientOpts...)
	return New(api,
		WithMarket(sp.Market),
		WithOverfetch(rec.Overfetch),
		WithLogger(logger),
	), nil
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
