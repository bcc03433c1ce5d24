package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tonic/pkg/client"
	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Long: `View the history of clean and memory operations.

The manifest stores a record of all operations performed by tonic,
including which targets were cleaned and how much memory was freed.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific operation",
	Long:  `Display detailed information about a specific operation by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var historySnapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Show sampled snapshot history from the daemon",
	Long: `Display system snapshots recorded by the tonicd daemon.

Requires a running daemon; snapshots older than the configured
retention period are pruned automatically.`,
	RunE: runHistorySnapshots,
}

var (
	historyLimit     int
	historySince     time.Duration
	historySnapLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")
	historySnapshotsCmd.Flags().DurationVar(&historySince, "since", 0, "only show snapshots newer than this (e.g. 30m)")
	historySnapshotsCmd.Flags().IntVarP(&historySnapLimit, "limit", "l", 30, "maximum number of snapshots to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	historyCmd.AddCommand(historySnapshotsCmd)
	rootCmd.AddCommand(historyCmd)
}

// runHistory lists recent operations.
func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	m, err := getManifest(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entries, err := m.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'tonic clean' or 'tonic mem free' to record an operation.")
		return nil
	}

	// Print header
	fmt.Printf("\n%-40s  %-8s  %-10s  %-12s\n", "ID", "TYPE", "ITEMS", "SIZE")
	fmt.Println(strings.Repeat("-", 80))

	for _, entry := range entries {
		fmt.Printf("%-40s  %-8s  %-10d  %-12s\n",
			truncateString(entry.ID, 40),
			entry.Operation,
			entry.Summary.TotalItems,
			types.FormatSize(entry.Summary.TotalBytes),
		)
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Println("Use 'tonic history show <id>' for details on a specific entry.")

	return nil
}

// runHistoryShow displays details of a specific operation.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	cfg := loadConfig()

	m, err := getManifest(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	entry, err := m.Get(id)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	// Display entry details
	fmt.Println("\nOperation Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:  %s\n", entry.Operation)
	fmt.Printf("Items:      %d\n", entry.Summary.TotalItems)
	fmt.Printf("Total Size: %s\n", types.FormatSize(entry.Summary.TotalBytes))
	if entry.Summary.Note != "" {
		fmt.Printf("Note:       %s\n", entry.Summary.Note)
	}

	if len(entry.Items) > 0 {
		fmt.Println("\nTargets:")
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("%-12s  %s\n", "SIZE", "PATH")
		fmt.Println(strings.Repeat("-", 60))

		// Limit display to 50 items
		limit := 50
		if len(entry.Items) < limit {
			limit = len(entry.Items)
		}

		for i := 0; i < limit; i++ {
			item := entry.Items[i]
			if item.Error != "" {
				fmt.Printf("%-12s  %s (skipped: %s)\n", "-", item.Path, item.Error)
				continue
			}
			fmt.Printf("%-12s  %s\n", types.FormatSize(item.Bytes), item.Path)
		}

		if len(entry.Items) > limit {
			fmt.Printf("\n... and %d more items\n", len(entry.Items)-limit)
		}
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	m, err := getManifest(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize manifest: %w", err)
	}

	retentionDays := cfg.Manifest.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	if err := m.Cleanup(retentionDays); err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("History cleanup complete.")
	return nil
}

// runHistorySnapshots lists the daemon's recorded snapshots.
func runHistorySnapshots(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := loadConfig()

	c, err := client.Connect(socketPath(cfg))
	if err != nil {
		return fmt.Errorf("daemon is not running (start with: tonic daemon start): %w", err)
	}
	defer c.Close()

	var since time.Time
	if historySince > 0 {
		since = time.Now().Add(-historySince)
	}

	snapshots, err := c.History(ctx, since, historySnapLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch snapshot history: %w", err)
	}

	if len(snapshots) == 0 {
		printInfo("No snapshots recorded yet.")
		return nil
	}

	fmt.Printf("\n%-20s  %6s  %6s  %10s\n", "TIME", "CPU", "MEM", "LOAD")
	fmt.Println(strings.Repeat("-", 50))
	for _, snap := range snapshots {
		fmt.Printf("%-20s  %5.1f%%  %5.1f%%  %10.2f\n",
			snap.Timestamp.Local().Format("2006-01-02 15:04:05"),
			snap.CPUPercent,
			snap.Memory.Percent,
			snap.Load1,
		)
	}

	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
