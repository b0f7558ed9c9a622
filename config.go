package logtap

import (
	"errors"
	"time"
)

const (
	DefaultBatchSize     = 10
	DefaultFlushInterval = 2000 * time.Millisecond
)

// LabelFunc produces a dynamic label value, evaluated once per flush.
type LabelFunc func() (string, error)

// Config is read once by New and never mutated afterwards.
type Config struct {
	// URL is the push endpoint, used exactly as given
	// (e.g. "http://loki:3100/loki/api/v1/push").
	URL string

	// TenantID is sent as the X-Scope-OrgID header on every push.
	TenantID string

	// AuthToken, when set, is sent as a bearer Authorization header.
	AuthToken string

	// AppName becomes the "app" stream label.
	AppName string

	// BatchSize is the buffer length that forces an immediate flush.
	// Defaults to DefaultBatchSize.
	BatchSize int

	// FlushInterval is the longest a buffered line waits before being
	// pushed. Defaults to DefaultFlushInterval.
	FlushInterval time.Duration

	// Labels are static stream labels, overriding the app label on key
	// collision.
	Labels map[string]string

	// DynamicLabels are evaluated freshly at every flush and override
	// static labels on key collision. A failing function contributes the
	// value "undefined" instead of aborting the flush.
	DynamicLabels map[string]LabelFunc
}

func (c *Config) validate() error {
	if c.URL == "" {
		return errors.New("logtap: config URL is required")
	}
	if c.TenantID == "" {
		return errors.New("logtap: config TenantID is required")
	}
	if c.AppName == "" {
		return errors.New("logtap: config AppName is required")
	}
	if c.BatchSize < 0 {
		return errors.New("logtap: config BatchSize must not be negative")
	}
	if c.FlushInterval < 0 {
		return errors.New("logtap: config FlushInterval must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = DefaultFlushInterval
	}
}
