// Package auth provides app-level Spotify authentication using the client credentials flow.
package auth

import (
	"context"
	"errors"
	"net/http"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrMissingCredentials is returned when the client ID or secret is empty.
var ErrMissingCredentials = errors.New("missing Spotify client ID or secret")

// Credentials identifies the application to the Spotify accounts service.
type Credentials struct {
	ClientID     string
	ClientSecret string
	// TokenURL overrides the accounts service token endpoint. Empty uses Spotify's.
	TokenURL string
}

// Authenticator issues app tokens for catalog requests. No user is involved,
// so tokens are kept in memory only and refreshed by oauth2 on expiry.
type Authenticator struct {
	config *clientcredentials.Config
}

// New creates an Authenticator. Returns ErrMissingCredentials if either value is empty.
func New(creds Credentials) (*Authenticator, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	return &Authenticator{
		config: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
		},
	}, nil
}

// Client returns an HTTP client that attaches a valid app token to every request.
// The token is fetched lazily on the first request.
func (a *Authenticator) Client(ctx context.Context) *http.Client {
	return a.config.Client(ctx)
}

// Token fetches a fresh app token. Useful for verifying credentials at startup.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	return a.config.Token(ctx)
}
