package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tonic/cmd/tonic/tui"
	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live system dashboard",
	Long: `Open a live dashboard with CPU, memory, disk, and GPU gauges.

Snapshots stream from the tonicd daemon when it is running; otherwise
tonic samples the system directly at the configured interval.

Keys: q quits, l toggles the log panel.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	// File logging with the ring buffer enabled so the dashboard's log
	// panel has something to show. The TUI owns the screen, so console
	// output stays off.
	logCfg := logging.DefaultConfig()
	logCfg.TUIMode = true
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	if err := logging.Init(logCfg); err != nil {
		printVerbose("logging init failed: %v", err)
	} else {
		defer logging.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := tui.Options{Cancel: cancel}

	// Daemon stream first, local sampling loop otherwise.
	if c, err := connectDaemon(cfg); err == nil {
		snapshots, werr := c.Watch(ctx)
		if werr == nil {
			opts.Snapshots = snapshots
			opts.Source = "daemon"

			if info, ierr := c.Info(ctx); ierr == nil {
				opts.Info = info
			}

			defer c.Close()
			return tui.Run(opts)
		}
		c.Close()
		printVerbose("daemon stream unavailable, sampling locally: %v", werr)
	}

	opts.Snapshots = localSnapshotStream(ctx, cfg)
	opts.Source = "local"

	return tui.Run(opts)
}

// localSnapshotStream samples the system on the configured interval and
// streams the results, closing the channel when ctx is cancelled.
func localSnapshotStream(ctx context.Context, cfg *config.Config) <-chan *types.Snapshot {
	interval := cfg.Sampler.Interval
	if interval <= 0 {
		interval = config.DefaultSampleInterval
	}

	collector := newCollector(cfg)
	snapshots := make(chan *types.Snapshot, 1)

	go func() {
		defer close(snapshots)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Immediate first sample so the dashboard is not blank
		// for a full interval.
		for {
			if snap, err := collector.Sample(ctx); err == nil {
				select {
				case snapshots <- snap:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snapshots
}
