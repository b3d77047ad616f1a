package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCounters_ConcurrentIncrements(t *testing.T) {
	m := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AddCacheHit()
			m.AddCacheMiss()
			m.AddRendered()
		}()
	}
	wg.Wait()

	if m.CacheHits != 50 || m.CacheMisses != 50 || m.DiagramsRendered != 50 {
		t.Errorf("counters = %d/%d/%d, want 50/50/50", m.CacheHits, m.CacheMisses, m.DiagramsRendered)
	}
}

func TestCacheHitRate(t *testing.T) {
	m := New()
	if rate := m.CacheHitRate(); rate != 0 {
		t.Errorf("empty hit rate = %f, want 0", rate)
	}
	m.AddCacheHit()
	m.AddCacheHit()
	m.AddCacheHit()
	m.AddCacheMiss()
	if rate := m.CacheHitRate(); rate != 75 {
		t.Errorf("hit rate = %f, want 75", rate)
	}
}

func TestSummary(t *testing.T) {
	m := New()
	m.SetFound(3)
	m.AddRendered()
	m.AddRendered()
	m.AddCacheHit()
	m.AddCacheMiss()
	m.AddSpliceMiss()
	m.SetDuration(1500 * time.Millisecond)

	s := m.Summary()
	for _, want := range []string{"3 found", "2 rendered", "1/2 hits", "splice misses: 1", "1.5s"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary() = %q, missing %q", s, want)
		}
	}
}
