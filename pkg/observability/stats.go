package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Stats counts hook events in memory. It implements every hook interface
// and is safe for concurrent use.
type Stats struct {
	composes      atomic.Int64
	composeErrors atomic.Int64
	renders       atomic.Int64
	renderErrors  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	cacheBytes    atomic.Int64
	requests      atomic.Int64
	serverErrors  atomic.Int64
	started       time.Time
}

// NewStats returns zeroed counters.
func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

// Snapshot is a point-in-time copy of [Stats].
type Snapshot struct {
	Uptime        string `json:"uptime"`
	Composes      int64  `json:"composes"`
	ComposeErrors int64  `json:"compose_errors"`
	Renders       int64  `json:"renders"`
	RenderErrors  int64  `json:"render_errors"`
	CacheHits     int64  `json:"cache_hits"`
	CacheMisses   int64  `json:"cache_misses"`
	CacheBytes    int64  `json:"cache_bytes_written"`
	Requests      int64  `json:"requests"`
	ServerErrors  int64  `json:"server_errors"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Uptime:        time.Since(s.started).Round(time.Second).String(),
		Composes:      s.composes.Load(),
		ComposeErrors: s.composeErrors.Load(),
		Renders:       s.renders.Load(),
		RenderErrors:  s.renderErrors.Load(),
		CacheHits:     s.cacheHits.Load(),
		CacheMisses:   s.cacheMisses.Load(),
		CacheBytes:    s.cacheBytes.Load(),
		Requests:      s.requests.Load(),
		ServerErrors:  s.serverErrors.Load(),
	}
}

func (s *Stats) OnComposeStart(context.Context, int, int) {}

func (s *Stats) OnComposeComplete(_ context.Context, _ time.Duration, err error) {
	s.composes.Add(1)
	if err != nil {
		s.composeErrors.Add(1)
	}
}

func (s *Stats) OnRenderStart(context.Context, []string) {}

func (s *Stats) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	s.renders.Add(1)
	if err != nil {
		s.renderErrors.Add(1)
	}
}

func (s *Stats) OnCacheHit(context.Context, string)  { s.cacheHits.Add(1) }
func (s *Stats) OnCacheMiss(context.Context, string) { s.cacheMisses.Add(1) }

func (s *Stats) OnCacheSet(_ context.Context, _ string, size int) {
	s.cacheBytes.Add(int64(size))
}

func (s *Stats) OnRequest(context.Context, string, string) { s.requests.Add(1) }

func (s *Stats) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		s.serverErrors.Add(1)
	}
}

var (
	_ PipelineHooks = (*Stats)(nil)
	_ CacheHooks    = (*Stats)(nil)
	_ HTTPHooks     = (*Stats)(nil)
)
