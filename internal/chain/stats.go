package chain

import (
	"sync"
	"time"
)

// Stats tracks per-provider outcomes since process start. It never gates
// requests: every chain traversal attempts every provider in order
// regardless of history. Call volume is low enough that a tripped-breaker
// shortcut would save nothing and hide recoveries.
type Stats struct {
	mu        sync.RWMutex
	providers map[string]*providerStats
}

type providerStats struct {
	successes   int64
	failures    int64
	lastError   string
	lastErrorAt time.Time
}

// ProviderStatus is one provider's snapshot for the status endpoint.
type ProviderStatus struct {
	Name        string    `json:"name"`
	Successes   int64     `json:"successes"`
	Failures    int64     `json:"failures"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitzero"`
}

func NewStats() *Stats {
	return &Stats{providers: make(map[string]*providerStats)}
}

func (s *Stats) get(name string) *providerStats {
	if ps, ok := s.providers[name]; ok {
		return ps
	}
	ps := &providerStats{}
	s.providers[name] = ps
	return ps
}

// RecordSuccess records a successful provider call.
func (s *Stats) RecordSuccess(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.get(name).successes++
}

// RecordFailure records a failed provider call.
func (s *Stats) RecordFailure(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.get(name)
	ps.failures++
	if err != nil {
		ps.lastError = err.Error()
		ps.lastErrorAt = time.Now()
	}
}

// Snapshot returns statuses in chain order, including providers that have
// not been attempted yet.
func (s *Stats) Snapshot(order []string) []ProviderStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProviderStatus, 0, len(order))
	for _, name := range order {
		status := ProviderStatus{Name: name}
		if ps, ok := s.providers[name]; ok {
			status.Successes = ps.successes
			status.Failures = ps.failures
			status.LastError = ps.lastError
			status.LastErrorAt = ps.lastErrorAt
		}
		out = append(out, status)
	}
	return out
}
