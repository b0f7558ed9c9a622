package testutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/logtap/logtap/internal/ship"
)

type MockSender struct {
	SentBatches [][]ship.Entry
	SentLabels  []map[string]string
	mu          sync.Mutex
	ShouldFail  bool
	Delay       time.Duration
}

func (m *MockSender) Send(_ context.Context, labels map[string]string, entries []ship.Entry) error {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ShouldFail {
		return fmt.Errorf("mock send failed")
	}

	m.SentBatches = append(m.SentBatches, entries)
	m.SentLabels = append(m.SentLabels, labels)
	return nil
}

func (m *MockSender) GetSentBatches() [][]ship.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SentBatches
}

func (m *MockSender) GetSentLabels() []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SentLabels
}

// MockSink records forwarded logger calls as "<method>:<joined args>".
type MockSink struct {
	Calls []string
	mu    sync.Mutex
}

func (m *MockSink) record(method string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, method+":"+fmt.Sprint(args...))
}

func (m *MockSink) Log(args ...any)   { m.record("log", args...) }
func (m *MockSink) Debug(args ...any) { m.record("debug", args...) }
func (m *MockSink) Info(args ...any)  { m.record("info", args...) }
func (m *MockSink) Warn(args ...any)  { m.record("warn", args...) }
func (m *MockSink) Error(args ...any) { m.record("error", args...) }

func (m *MockSink) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
