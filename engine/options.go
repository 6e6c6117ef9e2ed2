package engine

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ============================================================================
// ENGINE OPTIONS: Functional options for the report entry points
// ============================================================================
// Options carry everything ambient a report depends on (clock, timezone,
// logger) so the same (records, options) pair always yields the same result.
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Now      func() time.Time
	Location *time.Location
	Logger   logrus.FieldLogger
}

// WithNow pins "now" for time-relative windows.
func WithNow(now time.Time) Option {
	return func(c *config) {
		c.Now = func() time.Time { return now }
	}
}

// WithClock sets the clock used for time-relative windows.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.Now = clock
		}
	}
}

// WithLocation sets the timezone that calendar months, weeks and day keys
// are computed in.
func WithLocation(loc *time.Location) Option {
	return func(c *config) {
		if loc != nil {
			c.Location = loc
		}
	}
}

// WithLogger routes engine logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Now:      time.Now,
		Location: time.UTC,
		Logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// now returns the configured current time in the configured location.
func (c *config) now() time.Time {
	return c.Now().In(c.Location)
}
