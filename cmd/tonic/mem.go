package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tonic/pkg/toolkit/memfree"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

var memCmd = &cobra.Command{
	Use:   "mem",
	Short: "Show or reclaim memory",
	Long: `Display current memory usage, or reclaim memory with 'mem free'.

Reclaimed figures are measured available-memory deltas, not estimates:
an unprivileged run that frees little says so.`,
	Args: cobra.NoArgs,
	RunE: runMem,
}

var memFreeCmd = &cobra.Command{
	Use:   "free",
	Short: "Reclaim memory",
	Long: `Release reclaimable memory back to the system.

Without privileges this releases process-level memory only. With root
on Linux it also syncs and drops the kernel page cache; --aggressive
additionally drops dentries and inodes.`,
	Args: cobra.NoArgs,
	RunE: runMemFree,
}

var memAggressive bool

func init() {
	memFreeCmd.Flags().BoolVar(&memAggressive, "aggressive", false, "also drop dentries and inodes (full mode only)")
	memCmd.AddCommand(memFreeCmd)
	rootCmd.AddCommand(memCmd)
}

// runMem prints current memory usage.
func runMem(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := loadConfig()

	report, err := gatherReport(ctx, cfg, false)
	if err != nil {
		return err
	}

	m := report.Snapshot.Memory
	printInfo("Memory: %s / %s (%.1f%%), %s available",
		types.FormatSizeU(m.Used), types.FormatSizeU(m.Total), m.Percent, types.FormatSizeU(m.Available))
	if m.SwapTotal > 0 {
		printInfo("Swap:   %s / %s", types.FormatSizeU(m.SwapUsed), types.FormatSizeU(m.SwapTotal))
	}

	return nil
}

// runMemFree runs a reclaim pass and records it in the manifest.
func runMemFree(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := loadConfig()

	result, err := memfree.Reclaim(ctx, memfree.Options{Aggressive: memAggressive})
	if err != nil {
		return err
	}

	printInfo("Reclaimed %s (%s mode) in %s.",
		types.FormatSizeU(result.Freed), result.Mode, result.Elapsed.Round(time.Millisecond))
	printInfo("Available: %s -> %s",
		types.FormatSizeU(result.AvailableBefore), types.FormatSizeU(result.AvailableAfter))

	if result.Mode == memfree.ModeBasic {
		printVerbose("run as root to also drop kernel caches")
	}

	if cfg.Manifest.Enabled {
		if m, err := getManifest(cfg); err == nil {
			if _, err := m.LogMemFree(int64(result.Freed), result.Elapsed, string(result.Mode)); err != nil {
				printVerbose("recording memfree operation failed: %v", err)
			}
		}
	}

	return nil
}
