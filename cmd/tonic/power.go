package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/tonic/pkg/toolkit/power"
)

var powerCmd = &cobra.Command{
	Use:   "power <action>",
	Short: "Power management",
	Long: `Perform a power-management action via the platform's own tools.

Actions: shutdown, reboot, suspend, hibernate, lock, logout,
schedule, cancel.

Destructive actions (shutdown, reboot, logout) ask for confirmation
unless --yes is given.

Examples:
  tonic power suspend
  tonic power shutdown --yes
  tonic power schedule --in 30m
  tonic power cancel`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"shutdown", "reboot", "suspend", "hibernate", "lock", "logout", "schedule", "cancel"},
	RunE:      runPower,
}

var (
	powerYes bool
	powerIn  time.Duration
)

func init() {
	powerCmd.Flags().BoolVarP(&powerYes, "yes", "y", false, "skip confirmation prompt")
	powerCmd.Flags().DurationVar(&powerIn, "in", 30*time.Minute, "delay for 'schedule' (rounded up to whole minutes)")
	rootCmd.AddCommand(powerCmd)
}

func runPower(_ *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch args[0] {
	case "schedule":
		if !powerYes && !confirm(fmt.Sprintf("Schedule shutdown in %s?", powerIn)) {
			printInfo("Cancelled.")
			return nil
		}
		if err := power.ScheduleShutdown(ctx, powerIn); err != nil {
			return err
		}
		printInfo("Shutdown scheduled in %s. Use 'tonic power cancel' to abort.", powerIn)
		return nil

	case "cancel":
		if err := power.CancelScheduled(ctx); err != nil {
			return err
		}
		printInfo("Scheduled shutdown cancelled.")
		return nil
	}

	action := power.Action(args[0])
	if action.Destructive() && !powerYes && !confirm(fmt.Sprintf("Really %s?", action)) {
		printInfo("Cancelled.")
		return nil
	}

	return power.Execute(ctx, action)
}

// confirm asks a yes/no question on the terminal.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
