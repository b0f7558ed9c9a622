// Package logtap captures a process's log lines and tracked events, batches
// them in memory, and pushes batches best-effort to a Loki-compatible HTTP
// ingestion endpoint. Delivery is fire-and-forget: a failed push is dropped,
// never retried, and never surfaced to the logging call site.
package logtap

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/logtap/logtap/internal/labels"
	"github.com/logtap/logtap/internal/loki"
	"github.com/logtap/logtap/internal/ship"
)

// Tap owns one buffer, one flush timer, and one push client. Create it once
// at process start, wrap your loggers through it, and call Shutdown on the
// way out to push whatever is still buffered.
type Tap struct {
	config  Config
	shipper *ship.Shipper
}

func New(config Config) (*Tap, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	dynamic := make(map[string]labels.Func, len(config.DynamicLabels))
	for name, fn := range config.DynamicLabels {
		dynamic[name] = labels.Func(fn)
	}
	resolve := func() map[string]string {
		return labels.Resolve(config.AppName, config.Labels, dynamic)
	}

	client := loki.NewClient(config.URL, config.TenantID, config.AuthToken)

	shipConfig := ship.Config{
		BatchSize:     config.BatchSize,
		FlushInterval: config.FlushInterval,
	}

	return &Tap{
		config:  config,
		shipper: ship.NewShipper(shipConfig, client, resolve),
	}, nil
}

// TrackEvent buffers an application event as "[EVENT] <name> <properties>"
// with the current timestamp. Properties are JSON-encoded; with none given
// the properties field is empty. TrackEvent never fails and never blocks on
// the network.
func (t *Tap) TrackEvent(name string, properties map[string]any) {
	props := ""
	if len(properties) > 0 {
		if encoded, err := json.Marshal(properties); err == nil {
			props = string(encoded)
		}
	}
	t.append(fmt.Sprintf("[EVENT] %s %s", name, props))
}

// Flush forces a synchronous push of everything buffered. An empty buffer
// issues no network call.
func (t *Tap) Flush(ctx context.Context) error {
	return t.shipper.Flush(ctx)
}

// Shutdown performs the final flush for process exit.
func (t *Tap) Shutdown(ctx context.Context) error {
	return t.Flush(ctx)
}

// Stats returns a snapshot of shipper counters. Since push failures are
// deliberately silent, this is the only place they are visible.
func (t *Tap) Stats() ship.Metrics {
	return t.shipper.Stats()
}

func (t *Tap) append(line string) {
	t.shipper.Append(ship.Entry{
		Timestamp: time.Now(),
		Line:      line,
	})
}
