package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// commandTimeout is the maximum time to wait for trash commands.
const commandTimeout = 30 * time.Second

// ErrTrashUnsupported indicates no trash mechanism exists on this platform.
var ErrTrashUnsupported = errors.New("system trash not supported on this platform")

// MoveToTrash moves a file or directory to the system trash.
// On macOS: uses AppleScript so Finder's "Put Back" keeps working.
// On Linux: uses gio trash or trash-cli.
// Falls back to permanent delete if no trash tooling is available.
func MoveToTrash(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot trash %q: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path for %q: %w", path, err)
	}

	switch runtime.GOOS {
	case "darwin":
		return trashMacOS(absPath)
	case "linux":
		return trashLinux(absPath)
	default:
		return permanentDelete(absPath)
	}
}

// EmptyTrash permanently removes everything in the system trash and
// returns the number of top-level items removed.
func EmptyTrash(ctx context.Context) (int, error) {
	switch runtime.GOOS {
	case "darwin":
		return emptyTrashMacOS(ctx)
	case "linux":
		return emptyTrashLinux(ctx)
	default:
		return 0, ErrTrashUnsupported
	}
}

// trashMacOS moves a file to Trash on macOS using AppleScript.
func trashMacOS(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return permanentDelete(path)
	}
	return nil
}

// trashLinux moves a file to trash on Linux using available tools.
func trashLinux(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	// Try gio first (GNOME/GTK desktop environments)
	if gioPath, err := exec.LookPath("gio"); err == nil {
		cmd := exec.CommandContext(ctx, gioPath, "trash", path)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	// Try trash-cli (cross-desktop, XDG compliant)
	if trashPath, err := exec.LookPath("trash-put"); err == nil {
		cmd := exec.CommandContext(ctx, trashPath, path)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	return permanentDelete(path)
}

// emptyTrashMacOS empties the Trash via Finder.
func emptyTrashMacOS(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-e", `tell application "Finder" to empty trash`)
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("emptying trash: %w", err)
	}
	return 0, nil
}

// emptyTrashLinux empties the XDG trash, preferring the desktop tools
// and falling back to removing the trash directories directly.
func emptyTrashLinux(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	trashDir := filepath.Join(xdg.DataHome, "Trash")
	count := countTrashItems(trashDir)

	if gioPath, err := exec.LookPath("gio"); err == nil {
		cmd := exec.CommandContext(ctx, gioPath, "trash", "--empty")
		if err := cmd.Run(); err == nil {
			return count, nil
		}
	}

	if trashEmpty, err := exec.LookPath("trash-empty"); err == nil {
		cmd := exec.CommandContext(ctx, trashEmpty, "-f")
		if err := cmd.Run(); err == nil {
			return count, nil
		}
	}

	// Manual fallback: the XDG trash spec stores payloads in files/ and
	// metadata in info/.
	removed := 0
	for _, sub := range []string{"files", "info"} {
		dir := filepath.Join(trashDir, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err == nil && sub == "files" {
				removed++
			}
		}
	}
	return removed, nil
}

// countTrashItems counts top-level payloads in the trash directory.
func countTrashItems(trashDir string) int {
	entries, err := os.ReadDir(filepath.Join(trashDir, "files"))
	if err != nil {
		return 0
	}
	return len(entries)
}

// permanentDelete removes a file or directory without trashing it.
func permanentDelete(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete %q: %w", path, err)
	}
	return nil
}
