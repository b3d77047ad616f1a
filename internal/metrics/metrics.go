// Package metrics tracks counters for one transform pass.
package metrics

import (
	"fmt"
	"sync"
	"time"
)

// TransformMetrics accumulates counts while diagrams render concurrently, so
// every mutation goes through a method holding the mutex.
type TransformMetrics struct {
	mu sync.Mutex

	DiagramsFound    int
	DiagramsRendered int
	CacheHits        int
	CacheMisses      int
	SpliceMisses     int
	Duration         time.Duration
}

func New() *TransformMetrics {
	return &TransformMetrics{}
}

func (m *TransformMetrics) SetFound(n int) {
	m.mu.Lock()
	m.DiagramsFound = n
	m.mu.Unlock()
}

func (m *TransformMetrics) AddRendered() {
	m.mu.Lock()
	m.DiagramsRendered++
	m.mu.Unlock()
}

func (m *TransformMetrics) AddCacheHit() {
	m.mu.Lock()
	m.CacheHits++
	m.mu.Unlock()
}

func (m *TransformMetrics) AddCacheMiss() {
	m.mu.Lock()
	m.CacheMisses++
	m.mu.Unlock()
}

func (m *TransformMetrics) AddSpliceMiss() {
	m.mu.Lock()
	m.SpliceMisses++
	m.mu.Unlock()
}

func (m *TransformMetrics) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.Duration = d
	m.mu.Unlock()
}

// CacheHitRate returns the hit percentage across all renders, or 0 when
// nothing was requested.
func (m *TransformMetrics) CacheHitRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(total) * 100
}

// Summary formats a one-line report for the build log.
func (m *TransformMetrics) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.CacheHits + m.CacheMisses
	rate := 0.0
	if total > 0 {
		rate = float64(m.CacheHits) / float64(total) * 100
	}
	return fmt.Sprintf("diagrams: %d found, %d rendered | cache: %d/%d hits (%.0f%%) | splice misses: %d | %v",
		m.DiagramsFound, m.DiagramsRendered, m.CacheHits, total, rate, m.SpliceMisses, m.Duration.Round(time.Millisecond))
}
