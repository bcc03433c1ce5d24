// Package sampler runs the periodic system sampling loop for the daemon.
package sampler

import (
	"context"
	"sync"
	"time"

	"github.com/jamesainslie/tonic/pkg/daemon/broadcaster"
	"github.com/jamesainslie/tonic/pkg/daemon/store"
	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
	"github.com/jamesainslie/tonic/pkg/toolkit/sysinfo"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// maxBackoffShift caps the exponential backoff applied after
// consecutive sampling failures at interval * 2^maxBackoffShift.
const maxBackoffShift = 3

// Config holds sampler configuration.
type Config struct {
	// Interval is the time between samples.
	Interval time.Duration

	// StaticRefresh is how often the static hardware inventory is
	// re-probed. Zero disables refreshing.
	StaticRefresh time.Duration

	// Retention is how long snapshots are kept in the history store.
	// Zero disables pruning.
	Retention time.Duration
}

// Sampler periodically samples system state, publishes snapshots to
// subscribers, and persists them to the history store.
type Sampler struct {
	cfg       Config
	collector *sysinfo.Collector
	store     *store.Store
	bcast     *broadcaster.Broadcaster

	mu   sync.RWMutex
	last *types.Snapshot

	failures int
}

// New creates a sampler. The store and broadcaster may be nil, in which
// case persistence or fan-out is skipped.
func New(cfg Config, c *sysinfo.Collector, s *store.Store, b *broadcaster.Broadcaster) *Sampler {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	return &Sampler{
		cfg:       cfg,
		collector: c,
		store:     s,
		bcast:     b,
	}
}

// Last returns the most recent successful snapshot, or nil before the
// first sample completes.
func (s *Sampler) Last() *types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Run executes the sampling loop until the context is cancelled.
func (s *Sampler) Run(ctx context.Context) {
	log := logging.Get("sampler")
	log.Info("sampler starting", "interval", s.cfg.Interval)

	// Take the first sample immediately so clients connecting right
	// after startup see data.
	s.tick(ctx, log)

	timer := time.NewTimer(s.nextInterval())
	defer timer.Stop()

	var staticRefresh <-chan time.Time
	if s.cfg.StaticRefresh > 0 {
		ticker := time.NewTicker(s.cfg.StaticRefresh)
		defer ticker.Stop()
		staticRefresh = ticker.C
	}

	var prune <-chan time.Time
	if s.cfg.Retention > 0 && s.store != nil {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		prune = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("sampler stopping")
			return

		case <-timer.C:
			s.tick(ctx, log)
			timer.Reset(s.nextInterval())

		case <-staticRefresh:
			s.collector.Invalidate()
			if _, err := s.collector.Info(ctx); err != nil {
				log.Warn("static inventory refresh failed", "error", err)
			}

		case <-prune:
			cutoff := time.Now().Add(-s.cfg.Retention)
			if removed, err := s.store.Prune(cutoff); err != nil {
				log.Warn("history prune failed", "error", err)
			} else if removed > 0 {
				log.Debug("pruned history", "removed", removed)
			}
		}
	}
}

// tick takes one sample and distributes it.
func (s *Sampler) tick(ctx context.Context, log *logging.Logger) {
	snap, err := s.collector.Sample(ctx)
	if err != nil {
		s.failures++
		log.Warn("sample failed", "error", err, "consecutive", s.failures)
		return
	}
	s.failures = 0

	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	if s.bcast != nil {
		s.bcast.Publish(snap)
	}
	if s.store != nil {
		if err := s.store.Put(snap); err != nil {
			log.Warn("history write failed", "error", err)
		}
	}
}

// nextInterval returns the sampling interval, stretched exponentially
// while sampling keeps failing.
func (s *Sampler) nextInterval() time.Duration {
	shift := s.failures
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	return s.cfg.Interval << shift
}
