package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tonic/pkg/client"
	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the tonicd daemon",
	Long: `Manage the tonicd daemon for background monitoring.

The daemon samples the system continuously and keeps a short history,
so status queries and the live dashboard are instant and can look
back in time.`,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tonicd daemon",
	Long:  `Start the tonicd daemon in the background.`,
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the tonicd daemon",
	Long:  `Stop the tonicd daemon gracefully.`,
	RunE:  runDaemonStop,
}

var daemonRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the tonicd daemon",
	Long:  `Stop and start the tonicd daemon.`,
	RunE:  runDaemonRestart,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long:  `Show the current status of the tonicd daemon.`,
	RunE:  runDaemonStatus,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonRestartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
}

func runDaemonStart(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	printVerbose("starting daemon...")
	if err := client.StartDaemon(daemonPaths(cfg)); err != nil {
		printVerbose("start failed: %v", err)
		return err
	}
	printVerbose("daemon started successfully")
	printInfo("Daemon started")
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	paths := daemonPaths(cfg)

	printVerbose("stopping daemon...")
	if err := client.StopDaemon(paths); err != nil {
		return err
	}
	printInfo("Daemon stopped")
	return nil
}

func runDaemonRestart(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	if err := client.RestartDaemon(daemonPaths(cfg)); err != nil {
		return fmt.Errorf("failed to restart daemon: %w", err)
	}
	printInfo("Daemon restarted")
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	paths := daemonPaths(cfg)

	pidPath := paths.PID
	if pidPath == "" {
		pidPath = config.DefaultPIDPath()
	}

	// Check if running
	if !client.IsDaemonRunning(pidPath) {
		printInfo("Daemon status: not running")
		return nil
	}

	// Connect and get status
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	daemonClient, err := client.Connect(socketPath(cfg))
	if err != nil {
		printInfo("Daemon status: running (but not responding)")
		return nil
	}
	defer daemonClient.Close()

	status, err := daemonClient.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get daemon status: %w", err)
	}

	printInfo("Daemon status: running")
	printInfo("  PID: %d", status.PID)
	printInfo("  Uptime: %s", formatDuration(time.Duration(status.UptimeSeconds)*time.Second))
	printInfo("  Memory: %s", types.FormatSize(status.MemoryBytes))
	printInfo("  History entries: %d", status.HistoryEntries)
	printInfo("  Subscribers: %d", status.Subscribers)

	if len(status.Reclaimable) > 0 {
		printInfo("  Reclaimable space: %s", types.FormatSize(status.ReclaimableBytes))
		for path, bytes := range status.Reclaimable {
			printInfo("    %s: %s", path, types.FormatSize(bytes))
		}
	}

	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
