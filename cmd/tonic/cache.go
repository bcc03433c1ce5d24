package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/jamesainslie/tonic/pkg/toolkit/hwcache"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the hardware-info cache",
	Long: `Commands for managing the persistent hardware-info cache.

Static hardware facts change rarely, so tonic caches them to avoid
re-probing SMBIOS and the GPU driver on every invocation. Cache data
is stored in the XDG cache directory (typically ~/.cache/tonic/hwcache).`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached data",
	Long:  `Removes all cached hardware info. The next query performs a full probe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := hwCachePath()

		// Check if cache exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("Cache is already empty.")
			return nil
		}

		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		fmt.Println("Cache cleared.")
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Long:  `Displays information about the cache including its location, size, and collection time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := hwCachePath()

		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("Cache: empty (no cache database)")
			fmt.Printf("Cache location: %s\n", path)
			return nil
		}

		cfg := loadConfig()
		cache, err := hwcache.Open(path, cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer cache.Close()

		stats, err := cache.Stats()
		if err != nil {
			return fmt.Errorf("failed to read cache stats: %w", err)
		}

		fmt.Printf("Cache location: %s\n", path)
		fmt.Printf("Cache size: %s\n", types.FormatSize(stats.SizeBytes))
		fmt.Printf("Cache entries: %d\n", stats.Entries)
		if !stats.CollectedAt.IsZero() {
			fmt.Printf("Collected: %s\n", stats.CollectedAt.Format("2006-01-02 15:04:05"))
		}

		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show cache location",
	Long:  `Prints the path to the cache database.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(hwCachePath())
	},
}

// hwCachePath returns the configured or default cache database path.
func hwCachePath() string {
	cfg := loadConfig()
	if cfg.Cache.Path != "" {
		return cfg.Cache.Path
	}
	return config.DefaultHWCachePath()
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}
