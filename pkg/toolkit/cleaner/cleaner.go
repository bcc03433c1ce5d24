// Package cleaner removes accumulated temp files and empties the system
// trash. Each target directory is cleaned child by child: a child that
// cannot be removed is recorded and skipped, never failing the run.
package cleaner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/adrg/xdg"
	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
)

// Options configures a clean operation.
type Options struct {
	// Targets are cleaned in addition to the user temp directory.
	Targets []string

	// IncludeCache adds $XDG_CACHE_HOME to the target set.
	IncludeCache bool

	// MinAge keeps children modified within this duration.
	MinAge time.Duration

	// DryRun reports what would be removed without deleting anything.
	DryRun bool

	// ToTrash moves children to the system trash instead of deleting
	// them permanently.
	ToTrash bool
}

// ItemError records a child that could not be removed.
type ItemError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// TargetResult tallies one cleaned directory.
type TargetResult struct {
	Path         string      `json:"path"`
	ItemsRemoved int         `json:"items_removed"`
	ItemsKept    int         `json:"items_kept"`
	BytesFreed   int64       `json:"bytes_freed"`
	Skipped      bool        `json:"skipped,omitempty"`
	SkipReason   string      `json:"skip_reason,omitempty"`
	Errors       []ItemError `json:"errors,omitempty"`
}

// Result aggregates a clean operation.
type Result struct {
	Targets      []TargetResult `json:"targets"`
	ItemsRemoved int            `json:"items_removed"`
	BytesFreed   int64          `json:"bytes_freed"`
	Elapsed      time.Duration  `json:"elapsed"`
	DryRun       bool           `json:"dry_run,omitempty"`
}

// Cleaner runs clean operations.
type Cleaner struct {
	logger *logging.Logger
}

// New creates a cleaner.
func New() *Cleaner {
	return &Cleaner{logger: logging.Get("cleaner")}
}

// Clean removes the direct children of every target directory.
// System-owned targets are skipped for unprivileged callers rather than
// producing a wall of permission errors.
func (c *Cleaner) Clean(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	result := &Result{DryRun: opts.DryRun}

	for _, target := range ResolveTargets(opts) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		tr := c.cleanTarget(ctx, target, opts)
		result.Targets = append(result.Targets, tr)
		result.ItemsRemoved += tr.ItemsRemoved
		result.BytesFreed += tr.BytesFreed
	}

	result.Elapsed = time.Since(start)
	c.logger.Info("clean finished",
		"targets", len(result.Targets),
		"items", result.ItemsRemoved,
		"bytes", result.BytesFreed,
		"dry_run", opts.DryRun)

	return result, nil
}

// cleanTarget removes the direct children of one directory.
func (c *Cleaner) cleanTarget(ctx context.Context, target string, opts Options) TargetResult {
	tr := TargetResult{Path: target}

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		tr.Skipped = true
		tr.SkipReason = "not a directory"
		return tr
	}

	if !isWritableBy(target, info) && !isPrivileged() {
		tr.Skipped = true
		tr.SkipReason = "insufficient privileges"
		c.logger.Debug("skipping target", "path", target, "reason", tr.SkipReason)
		return tr
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		tr.Skipped = true
		tr.SkipReason = err.Error()
		return tr
	}

	now := time.Now()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return tr
		}

		path := filepath.Join(target, entry.Name())

		if opts.MinAge > 0 {
			if fi, err := entry.Info(); err == nil && now.Sub(fi.ModTime()) < opts.MinAge {
				tr.ItemsKept++
				continue
			}
		}

		size := sizeOf(path, entry)

		if !opts.DryRun {
			if err := remove(path, opts.ToTrash); err != nil {
				tr.Errors = append(tr.Errors, ItemError{Path: path, Error: err.Error()})
				continue
			}
		}

		tr.ItemsRemoved++
		tr.BytesFreed += size
	}

	return tr
}

// remove deletes a child, routing through the system trash when asked.
func remove(path string, toTrash bool) error {
	if toTrash {
		return MoveToTrash(path)
	}
	return os.RemoveAll(path)
}

// sizeOf returns the size a child would free: the file size for regular
// files, or a parallel walk total for directories.
func sizeOf(path string, entry fs.DirEntry) int64 {
	if !entry.IsDir() {
		if fi, err := entry.Info(); err == nil {
			return fi.Size()
		}
		return 0
	}
	return DirSize(path)
}

// DirSize totals the regular files under root using a parallel walk.
// Unreadable children count as zero.
func DirSize(root string) int64 {
	var total atomic.Int64

	conf := fastwalk.Config{
		Follow: false, // Don't follow symlinks.
	}
	_ = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if fi, err := d.Info(); err == nil {
				total.Add(fi.Size())
			}
		}
		return nil
	})

	return total.Load()
}

// ResolveTargets expands the configured target set: the user temp
// directory always participates, the XDG cache dir is opt-in, and
// duplicates or nonexistent paths are dropped.
func ResolveTargets(opts Options) []string {
	candidates := append([]string{os.TempDir()}, opts.Targets...)
	if opts.IncludeCache {
		candidates = append(candidates, xdg.CacheHome)
	}

	seen := make(map[string]struct{})
	var targets []string
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		// Resolve symlinks so /tmp and a symlinked TMPDIR dedupe.
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}

		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}

		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			continue
		}
		targets = append(targets, abs)
	}

	sort.Strings(targets)
	return targets
}
