//go:build unix

package cleaner

import (
	"io/fs"
	"os"
	"syscall"
)

// isPrivileged reports whether the process runs as root.
func isPrivileged() bool {
	return os.Geteuid() == 0
}

// isWritableBy reports whether the current user can remove children of
// the directory: they own it, or it is world-writable (sticky /tmp).
func isWritableBy(path string, info fs.FileInfo) bool {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return true
	}
	if int(stat.Uid) == os.Geteuid() {
		return true
	}
	return info.Mode().Perm()&0o002 != 0
}
