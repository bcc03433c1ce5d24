// Package power performs power-management actions by driving the
// platform's own tools (systemctl and friends on Linux, pmset and
// osascript on macOS). Destructive actions are the caller's problem to
// confirm; this package just executes.
package power

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
)

// currentUsername names the session owner for loginctl, "" on failure
// (loginctl then rejects the call instead of hitting another user).
func currentUsername() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}

// Action is a power-management operation.
type Action string

// Supported actions.
const (
	ActionShutdown  Action = "shutdown"
	ActionReboot    Action = "reboot"
	ActionSuspend   Action = "suspend"
	ActionHibernate Action = "hibernate"
	ActionLock      Action = "lock"
	ActionLogout    Action = "logout"
)

// Destructive reports whether the action ends running sessions and
// should be confirmed before execution.
func (a Action) Destructive() bool {
	switch a {
	case ActionShutdown, ActionReboot, ActionLogout:
		return true
	}
	return false
}

// ErrUnsupported indicates the action has no implementation for the
// current platform.
var ErrUnsupported = errors.New("power action not supported on this platform")

// commandTimeout bounds each platform tool invocation.
const commandTimeout = 30 * time.Second

// Execute runs the given power action.
func Execute(ctx context.Context, action Action) error {
	args, err := commandFor(action, runtime.GOOS)
	if err != nil {
		return err
	}
	return run(ctx, args)
}

// ScheduleShutdown schedules a shutdown after the given delay. The delay
// is rounded up to whole minutes, the granularity of shutdown(8).
func ScheduleShutdown(ctx context.Context, delay time.Duration) error {
	args, err := scheduleCommand(delay, runtime.GOOS)
	if err != nil {
		return err
	}
	return run(ctx, args)
}

// CancelScheduled cancels a pending scheduled shutdown.
func CancelScheduled(ctx context.Context) error {
	args, err := cancelCommand(runtime.GOOS)
	if err != nil {
		return err
	}
	return run(ctx, args)
}

// commandFor maps an action to the platform command line.
func commandFor(action Action, goos string) ([]string, error) {
	switch goos {
	case "linux":
		switch action {
		case ActionShutdown:
			return []string{"systemctl", "poweroff"}, nil
		case ActionReboot:
			return []string{"systemctl", "reboot"}, nil
		case ActionSuspend:
			return []string{"systemctl", "suspend"}, nil
		case ActionHibernate:
			return []string{"systemctl", "hibernate"}, nil
		case ActionLock:
			return []string{"loginctl", "lock-session"}, nil
		case ActionLogout:
			return []string{"loginctl", "terminate-user", currentUsername()}, nil
		}
	case "darwin":
		switch action {
		case ActionShutdown:
			return []string{"osascript", "-e", `tell app "System Events" to shut down`}, nil
		case ActionReboot:
			return []string{"osascript", "-e", `tell app "System Events" to restart`}, nil
		case ActionSuspend:
			return []string{"pmset", "sleepnow"}, nil
		case ActionLock:
			return []string{"pmset", "displaysleepnow"}, nil
		case ActionLogout:
			return []string{"osascript", "-e", `tell app "System Events" to log out`}, nil
		case ActionHibernate:
			return nil, fmt.Errorf("%w: hibernate on darwin", ErrUnsupported)
		}
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, action, goos)
}

// scheduleCommand maps a delay to the platform's scheduled-shutdown call.
func scheduleCommand(delay time.Duration, goos string) ([]string, error) {
	if delay <= 0 {
		return nil, errors.New("shutdown delay must be positive")
	}

	minutes := int((delay + time.Minute - 1) / time.Minute)

	switch goos {
	case "linux":
		return []string{"shutdown", "-h", "+" + strconv.Itoa(minutes)}, nil
	case "darwin":
		return []string{"shutdown", "-h", "+" + strconv.Itoa(minutes)}, nil
	}
	return nil, fmt.Errorf("%w: scheduled shutdown on %s", ErrUnsupported, goos)
}

// cancelCommand maps to the platform's shutdown-cancel call.
func cancelCommand(goos string) ([]string, error) {
	switch goos {
	case "linux":
		return []string{"shutdown", "-c"}, nil
	case "darwin":
		return []string{"killall", "shutdown"}, nil
	}
	return nil, fmt.Errorf("%w: cancel on %s", ErrUnsupported, goos)
}

// run executes a platform command with a timeout.
func run(ctx context.Context, args []string) error {
	logger := logging.Get("power")

	path, err := exec.LookPath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %s not found", ErrUnsupported, args[0])
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	logger.Info("executing power command", "command", args[0], "args", args[1:])

	cmd := exec.CommandContext(ctx, path, args[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %w: %s", args[0], err, out)
	}
	return nil
}
