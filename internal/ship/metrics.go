package ship

import (
	"sync"
)

type Metrics struct {
	EntriesAppended int
	EntriesSent     int
	BatchesSent     int
	BatchesFailed   int
	TimersArmed     int
	mu              sync.RWMutex
}

func (m *Metrics) IncEntriesAppended() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesAppended++
}

func (m *Metrics) AddEntriesSent(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesSent += n
}

func (m *Metrics) IncBatchesSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchesSent++
}

func (m *Metrics) IncBatchesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchesFailed++
}

func (m *Metrics) IncTimersArmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TimersArmed++
}

func (m *Metrics) GetMetricsStamp() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		EntriesAppended: m.EntriesAppended,
		EntriesSent:     m.EntriesSent,
		BatchesSent:     m.BatchesSent,
		BatchesFailed:   m.BatchesFailed,
		TimersArmed:     m.TimersArmed,
	}
}
