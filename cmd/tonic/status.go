package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a compact system status",
	Long: `Display current system usage: uptime, CPU, load, memory, disks,
and GPU when present.

The snapshot comes from the tonicd daemon when it is running, or from
a direct probe otherwise. Use -o to select the output format.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus prints the dynamic snapshot. Also the root command's action.
func runStatus(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := loadConfig()

	report, err := gatherReport(ctx, cfg, false)
	if err != nil {
		return err
	}

	return renderReport(report)
}
