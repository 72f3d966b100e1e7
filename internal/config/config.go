// Package config loads Mood Mirror configuration from TOML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// ErrMissingCredentials is returned when the Spotify client ID or secret is not configured.
var ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET")

// Detector backends.
const (
	BackendHTTP    = "http"
	BackendCommand = "command"
)

// Server contains HTTP server settings.
type Server struct {
	Addr string `toml:"addr"`
}

// Spotify contains catalog backend settings.
type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Market       string `toml:"market"`
	BaseURL      string `toml:"base_url"`  // empty uses the public Web API
	TokenURL     string `toml:"token_url"` // empty uses the accounts service
	Retry        bool   `toml:"retry"`
}

// Recommend contains search and ranking settings.
type Recommend struct {
	Limit     int `toml:"limit"`
	Overfetch int `toml:"overfetch"`
}

// Detector contains face-analysis model settings.
type Detector struct {
	Backend         string   `toml:"backend"`
	URL             string   `toml:"url"`
	Command         []string `toml:"command"`
	DetectorBackend string   `toml:"detector_backend"`
	TimeoutSeconds  int      `toml:"timeout_seconds"`
	TempDir         string   `toml:"temp_dir"`
	MaxMegapixels   int      `toml:"max_megapixels"`
}

// Timeout returns the model call timeout.
func (d Detector) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// MaxPixels returns the largest accepted image size in pixels.
func (d Detector) MaxPixels() int64 {
	return int64(d.MaxMegapixels) * 1_000_000
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Sentry contains optional error reporting settings.
type Sentry struct {
	DSN         string `toml:"dsn"`
	Environment string `toml:"environment"`
}

// Config is the explicit configuration object constructed once at process start.
type Config struct {
	Server    Server    `toml:"server"`
	Spotify   Spotify   `toml:"spotify"`
	Recommend Recommend `toml:"recommend"`
	Detector  Detector  `toml:"detector"`
	Logging   Logging   `toml:"logging"`
	Sentry    Sentry    `toml:"sentry"`
}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Server: Server{Addr: "127.0.0.1:8080"},
		Spotify: Spotify{
			Market: "US",
			Retry:  true,
		},
		Recommend: Recommend{
			Limit:     5,
			Overfetch: 10,
		},
		Detector: Detector{
			Backend:         BackendHTTP,
			URL:             "http://127.0.0.1:5005/analyze",
			DetectorBackend: "opencv",
			TimeoutSeconds:  60,
			MaxMegapixels:   40,
		},
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
		Sentry: Sentry{Environment: "development"},
	}
}

// Load reads the optional TOML file at path, applies .env and environment
// overrides, and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	// .env is optional; real environment variables take precedence over it.
	_ = godotenv.Load()

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Spotify.ClientID, "SPOTIFY_ID")
	setString(&c.Spotify.ClientSecret, "SPOTIFY_SECRET")
	setString(&c.Server.Addr, "MOOD_MIRROR_ADDR")
	setString(&c.Detector.URL, "DEEPFACE_URL")
	setString(&c.Sentry.DSN, "SENTRY_DSN")
	setString(&c.Logging.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) normalize() {
	def := Default()
	c.Spotify.Market = strings.ToUpper(strings.TrimSpace(c.Spotify.Market))
	if c.Spotify.Market == "" {
		c.Spotify.Market = def.Spotify.Market
	}
	if c.Recommend.Limit <= 0 {
		c.Recommend.Limit = def.Recommend.Limit
	}
	if c.Recommend.Overfetch <= 0 {
		c.Recommend.Overfetch = def.Recommend.Overfetch
	}
	c.Detector.Backend = strings.ToLower(strings.TrimSpace(c.Detector.Backend))
	if c.Detector.Backend == "" {
		c.Detector.Backend = def.Detector.Backend
	}
	if c.Detector.TimeoutSeconds <= 0 {
		c.Detector.TimeoutSeconds = def.Detector.TimeoutSeconds
	}
	if c.Detector.MaxMegapixels <= 0 {
		c.Detector.MaxMegapixels = def.Detector.MaxMegapixels
	}
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return ErrMissingCredentials
	}
	switch c.Detector.Backend {
	case BackendHTTP:
		if c.Detector.URL == "" {
			return errors.New("detector: url is required for the http backend")
		}
	case BackendCommand:
		if len(c.Detector.Command) == 0 {
			return errors.New("detector: command is required for the command backend")
		}
	default:
		return fmt.Errorf("detector: unsupported backend %q", c.Detector.Backend)
	}
	return nil
}
