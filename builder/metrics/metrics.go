// Package metrics provides build performance tracking.
package metrics

import (
	"fmt"
	"time"
)

// BuildMetrics tracks performance data during the build process.
type BuildMetrics struct {
	// Timing
	StartTime  time.Time
	EndTime    time.Time
	ParseTime  time.Duration
	RenderTime time.Duration
	AssetTime  time.Duration

	// Counters
	PagesProcessed int
	BlogPosts      int
	DraftsSkipped  int
	CacheHits      int
	CacheMisses    int
	FilesWritten   int
}

// NewBuildMetrics creates a new metrics instance.
func NewBuildMetrics() *BuildMetrics {
	return &BuildMetrics{
		StartTime: time.Now(),
	}
}

// RecordEnd marks the end of the build.
func (m *BuildMetrics) RecordEnd() {
	m.EndTime = time.Now()
}

// TotalDuration returns the total build duration.
func (m *BuildMetrics) TotalDuration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// CacheHitRate returns the cache hit percentage.
func (m *BuildMetrics) CacheHitRate() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(total) * 100
}

// String returns a single-line summary of the build.
func (m *BuildMetrics) String() string {
	return fmt.Sprintf("📊 Built %d pages in %v (cache: %d/%d hits, %.0f%%)",
		m.PagesProcessed,
		m.TotalDuration().Round(time.Millisecond),
		m.CacheHits,
		m.CacheHits+m.CacheMisses,
		m.CacheHitRate(),
	)
}

// Print outputs the metrics to stdout.
func (m *BuildMetrics) Print() {
	fmt.Println(m.String())
}
