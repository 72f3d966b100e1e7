// Package reporting sends unexpected failures to Sentry when configured.
package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/justestif/go-mood-mirror/internal/config"
)

const flushTimeout = 2 * time.Second

// Reporter records errors worth a human's attention.
type Reporter interface {
	Capture(err error, tags map[string]string)
}

// Nop discards every report.
type Nop struct{}

func (Nop) Capture(error, map[string]string) {}

// Sentry reports to the globally initialized Sentry client.
type Sentry struct{}

// Capture sends err with tags on a cloned hub so concurrent runs don't share scope.
func (Sentry) Capture(err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

// Init initializes Sentry when a DSN is configured. The returned flush func
// must be called before exit. Without a DSN it returns Nop and a no-op flush.
func Init(cfg config.Sentry, release string) (Reporter, func(), error) {
	if cfg.DSN == "" {
		return Nop{}, func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     release,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing sentry: %w", err)
	}

	return Sentry{}, func() { sentry.Flush(flushTimeout) }, nil
}
