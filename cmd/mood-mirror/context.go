package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/justestif/go-mood-mirror/internal/config"
	"github.com/justestif/go-mood-mirror/internal/emotion"
	"github.com/justestif/go-mood-mirror/internal/logging"
	"github.com/justestif/go-mood-mirror/internal/pipeline"
	"github.com/justestif/go-mood-mirror/internal/reporting"
	"github.com/justestif/go-mood-mirror/internal/spotify"
)

// defaultConfigPath is read when present; a missing file falls back to defaults.
const defaultConfigPath = "mood-mirror.toml"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// app holds everything a pipeline-running command needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	flush    func()
}

// buildApp wires logger, error reporting, detector and catalog from config.
// The caller must call flush before returning.
func (c *commandContext) buildApp(ctx context.Context) (*app, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	reporter, flush, err := reporting.Init(cfg.Sentry, version)
	if err != nil {
		return nil, err
	}

	detector, err := emotion.NewFromConfig(cfg.Detector, logger)
	if err != nil {
		flush()
		return nil, fmt.Errorf("creating detector: %w", err)
	}

	catalog, err := spotify.NewFromConfig(ctx, cfg.Spotify, cfg.Recommend, logger)
	if err != nil {
		flush()
		return nil, fmt.Errorf("creating catalog client: %w", err)
	}

	p := pipeline.New(detector, catalog,
		pipeline.WithLimit(cfg.Recommend.Limit),
		pipeline.WithLogger(logger),
		pipeline.WithReporter(reporter),
	)

	return &app{cfg: cfg, logger: logger, pipeline: p, flush: flush}, nil
}
