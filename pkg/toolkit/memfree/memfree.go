// Package memfree releases reclaimable memory back to the system and
// reports how much was actually freed. The figures come from measured
// available-memory deltas, never estimates: an unprivileged run that
// frees little says so.
package memfree

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
)

// Mode describes how much the reclaim pass was allowed to do.
type Mode string

const (
	// ModeBasic releases process-level memory only; no privileges needed.
	ModeBasic Mode = "basic"

	// ModeFull additionally drops kernel caches; requires root.
	ModeFull Mode = "full"
)

// Options configures a reclaim pass.
type Options struct {
	// Aggressive also drops dentries and inodes, not just the page cache.
	// Only meaningful in full mode.
	Aggressive bool
}

// Result reports a reclaim pass.
type Result struct {
	Mode Mode `json:"mode"`

	// AvailableBefore and AvailableAfter are the system's available
	// memory around the pass.
	AvailableBefore uint64 `json:"available_before"`
	AvailableAfter  uint64 `json:"available_after"`

	// Freed is the measured available-memory delta, zero when the pass
	// freed nothing (the delta can be negative under load; it clamps).
	Freed uint64 `json:"freed"`

	Elapsed time.Duration `json:"elapsed"`
}

// Reclaim runs one reclaim pass. It always releases the Go heap back to
// the OS; with root on Linux it also syncs and drops kernel caches.
func Reclaim(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.Get("memfree")
	start := time.Now()

	before, err := available(ctx)
	if err != nil {
		return nil, err
	}

	debug.FreeOSMemory()

	mode := ModeBasic
	if canDropCaches() {
		if err := dropCaches(ctx, opts.Aggressive); err != nil {
			logger.Warn("dropping kernel caches failed", "error", err)
		} else {
			mode = ModeFull
		}
	}

	after, err := available(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Mode:            mode,
		AvailableBefore: before,
		AvailableAfter:  after,
		Elapsed:         time.Since(start),
	}
	if after > before {
		result.Freed = after - before
	}

	logger.Info("memory reclaimed",
		"mode", mode,
		"freed", result.Freed,
		"elapsed", result.Elapsed)

	return result, nil
}

// available returns the system's available memory in bytes.
func available(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}
