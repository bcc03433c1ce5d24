package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tonic/pkg/toolkit/cleaner"
	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/jamesainslie/tonic/pkg/toolkit/manifest"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove accumulated temp files",
	Long: `Remove the contents of the user temp directory and the configured
clean targets. Items that cannot be removed are skipped and reported,
never failing the run.

Examples:
  tonic clean --dry-run        # Preview without deleting
  tonic clean --older-than 24h # Keep recently modified items
  tonic clean --trash          # Also empty the system trash
  tonic clean --to-trash       # Trash items instead of deleting them`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

var (
	cleanDryRun       bool
	cleanTrash        bool
	cleanToTrash      bool
	cleanIncludeCache bool
	cleanOlderThan    time.Duration
)

func init() {
	cleanCmd.Flags().BoolVarP(&cleanDryRun, "dry-run", "d", false, "report what would be removed without deleting")
	cleanCmd.Flags().BoolVar(&cleanTrash, "trash", false, "also empty the system trash")
	cleanCmd.Flags().BoolVar(&cleanToTrash, "to-trash", false, "move items to the system trash instead of deleting")
	cleanCmd.Flags().BoolVar(&cleanIncludeCache, "include-cache", false, "also clean the user cache directory")
	cleanCmd.Flags().DurationVar(&cleanOlderThan, "older-than", 0, "keep items modified within this duration (e.g. 24h)")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg := loadConfig()

	opts := cleaner.Options{
		Targets:      cfg.Clean.Targets,
		IncludeCache: cleanIncludeCache || cfg.Clean.IncludeCache,
		MinAge:       cfg.Clean.MinAge,
		DryRun:       cleanDryRun,
		ToTrash:      cleanToTrash,
	}
	if cleanOlderThan > 0 {
		opts.MinAge = cleanOlderThan
	}

	result, err := cleaner.New().Clean(ctx, opts)
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}

	printCleanResult(result)

	if cleanTrash && !cleanDryRun {
		if err := emptyTrash(ctx, cfg); err != nil {
			printError("emptying trash: %v", err)
		}
	}

	if !cleanDryRun && cfg.Manifest.Enabled {
		logCleanManifest(cfg, result)
	}

	return nil
}

// printCleanResult prints per-target and total tallies.
func printCleanResult(result *cleaner.Result) {
	for _, tr := range result.Targets {
		if tr.Skipped {
			printVerbose("skipped %s: %s", tr.Path, tr.SkipReason)
			continue
		}

		verb := "removed"
		if result.DryRun {
			verb = "would remove"
		}
		printInfo("%s: %s %d items (%s)", tr.Path, verb, tr.ItemsRemoved, types.FormatSize(tr.BytesFreed))

		for _, itemErr := range tr.Errors {
			printVerbose("  could not remove %s: %s", itemErr.Path, itemErr.Error)
		}
	}

	if result.DryRun {
		printInfo("\nDry run: %d items (%s) would be removed.", result.ItemsRemoved, types.FormatSize(result.BytesFreed))
		return
	}
	printInfo("\nFreed %s across %d items in %s.",
		types.FormatSize(result.BytesFreed), result.ItemsRemoved, result.Elapsed.Round(time.Millisecond))
}

// emptyTrash empties the system trash and records it in the manifest.
func emptyTrash(ctx context.Context, cfg *config.Config) error {
	count, err := cleaner.EmptyTrash(ctx)
	if err != nil {
		if errors.Is(err, cleaner.ErrTrashUnsupported) {
			printInfo("System trash is not supported on this platform.")
			return nil
		}
		return err
	}

	printInfo("Emptied trash (%d items).", count)

	if cfg.Manifest.Enabled {
		if m, err := getManifest(cfg); err == nil {
			if _, err := m.LogTrash(int64(count)); err != nil {
				printVerbose("recording trash operation failed: %v", err)
			}
		}
	}
	return nil
}

// logCleanManifest records the clean operation in the manifest.
func logCleanManifest(cfg *config.Config, result *cleaner.Result) {
	m, err := getManifest(cfg)
	if err != nil {
		printVerbose("manifest unavailable: %v", err)
		return
	}

	var items []manifest.ItemRecord
	for _, tr := range result.Targets {
		if tr.Skipped {
			continue
		}
		items = append(items, manifest.ItemRecord{
			Path:  tr.Path,
			Bytes: tr.BytesFreed,
		})
		for _, itemErr := range tr.Errors {
			items = append(items, manifest.ItemRecord{
				Path:  itemErr.Path,
				Error: itemErr.Error,
			})
		}
	}

	if _, err := m.LogClean(items, result.Elapsed); err != nil {
		printVerbose("recording clean operation failed: %v", err)
	}
}

// getManifest returns a manifest instance with the configured directory.
func getManifest(cfg *config.Config) (*manifest.Manifest, error) {
	dir := cfg.Manifest.Path
	if dir == "" {
		d, err := config.ManifestDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get manifest directory: %w", err)
		}
		dir = d
	}
	return manifest.New(dir)
}
