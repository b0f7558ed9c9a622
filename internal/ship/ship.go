package ship

import (
	"context"
	"sync"
	"time"
)

// Entry is a single captured log line. Immutable once created.
type Entry struct {
	Timestamp time.Time
	Line      string
}

// Sender delivers one drained batch with the labels resolved for it.
type Sender interface {
	Send(ctx context.Context, labels map[string]string, entries []Entry) error
}

type Config struct {
	BatchSize     int
	FlushInterval time.Duration
}

// Shipper buffers entries and flushes them to a Sender, either immediately
// when the buffer reaches BatchSize or via a single armed one-shot timer
// after FlushInterval. At most one timer is armed at any time; appends that
// arrive while a timer is pending coalesce onto it.
type Shipper struct {
	mu      sync.Mutex
	entries []Entry
	timer   *time.Timer

	config  Config
	sender  Sender
	labels  func() map[string]string
	metrics *Metrics
}

func NewShipper(config Config, sender Sender, labels func() map[string]string) *Shipper {
	return &Shipper{
		config:  config,
		sender:  sender,
		labels:  labels,
		metrics: &Metrics{},
	}
}

// Append adds an entry to the buffer. It never blocks on the network and
// never fails: a size-triggered flush runs on its own goroutine and its
// outcome is not observed here.
func (s *Shipper) Append(entry Entry) {
	s.mu.Lock()

	s.entries = append(s.entries, entry)
	s.metrics.IncEntriesAppended()

	if len(s.entries) >= s.config.BatchSize {
		s.mu.Unlock()
		go s.Flush(context.Background())
		return
	}

	if s.timer == nil {
		s.timer = time.AfterFunc(s.config.FlushInterval, s.timerFlush)
		s.metrics.IncTimersArmed()
	}
	s.mu.Unlock()
}

func (s *Shipper) timerFlush() {
	s.Flush(context.Background())
}

// Flush drains the buffer and sends the drained batch as one stream. The
// drain is atomic: every buffered entry is taken exactly once, in append
// order, and the buffer is reset. An empty buffer is a no-op with no network
// call. Any armed timer is cleared first; after a drain there is nothing
// left for it to deliver.
func (s *Shipper) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	batch := s.entries
	s.entries = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	labels := s.labels()

	if err := s.sender.Send(ctx, labels, batch); err != nil {
		s.metrics.IncBatchesFailed()
		return err
	}

	s.metrics.AddEntriesSent(len(batch))
	s.metrics.IncBatchesSent()
	return nil
}

// Len reports the current buffer length.
func (s *Shipper) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TimerArmed reports whether a deferred flush is currently pending.
func (s *Shipper) TimerArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Shipper) Stats() Metrics {
	return s.metrics.GetMetricsStamp()
}
