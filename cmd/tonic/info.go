package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the full system report",
	Long: `Display the hardware inventory alongside current usage: CPU model
and topology, memory modules, disks, mainboard and BIOS, GPU, and the
operating system.

The report comes from the tonicd daemon when it is running, or from a
direct probe otherwise. Static hardware facts are cached on disk;
--no-cache forces a fresh probe.

Examples:
  tonic info                 # Everything
  tonic info --section cpu   # CPU only
  tonic info -o json         # Machine-readable`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

var infoSection string

func init() {
	infoCmd.Flags().StringVar(&infoSection, "section", "", "limit output to one section (cpu, memory, disk, gpu, board, os)")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := loadConfig()

	report, err := gatherReport(ctx, cfg, true)
	if err != nil {
		return err
	}

	if infoSection != "" {
		if err := filterSection(report, infoSection); err != nil {
			return err
		}
	}

	return renderReport(report)
}

// filterSection trims a report down to one section, keeping the
// snapshot fields that belong to it.
func filterSection(r *types.Report, section string) error {
	info := r.Info
	if info == nil {
		info = &types.SystemInfo{}
	}
	snap := r.Snapshot

	filtered := &types.SystemInfo{}
	var filteredSnap *types.Snapshot

	switch section {
	case "cpu":
		filtered.CPU = info.CPU
		if snap != nil {
			filteredSnap = &types.Snapshot{
				Timestamp:  snap.Timestamp,
				CPUPercent: snap.CPUPercent,
				CPUFreqMHz: snap.CPUFreqMHz,
				Load1:      snap.Load1,
				Load5:      snap.Load5,
				Load15:     snap.Load15,
			}
		}
	case "memory":
		filtered.Memory = info.Memory
		if snap != nil {
			filteredSnap = &types.Snapshot{
				Timestamp: snap.Timestamp,
				Memory:    snap.Memory,
			}
		}
	case "disk":
		filtered.Disks = info.Disks
		if snap != nil {
			filteredSnap = &types.Snapshot{
				Timestamp: snap.Timestamp,
				Disks:     snap.Disks,
			}
		}
	case "gpu":
		filtered.GPUName = info.GPUName
		if snap != nil {
			filteredSnap = &types.Snapshot{
				Timestamp: snap.Timestamp,
				GPU:       snap.GPU,
			}
		}
	case "board":
		filtered.Board = info.Board
	case "os":
		filtered.Host = info.Host
		if snap != nil {
			filteredSnap = &types.Snapshot{
				Timestamp: snap.Timestamp,
				Uptime:    snap.Uptime,
			}
		}
	default:
		return fmt.Errorf("unknown section %q (available: cpu, memory, disk, gpu, board, os)", section)
	}

	r.Info = filtered
	r.Snapshot = filteredSnap
	return nil
}
