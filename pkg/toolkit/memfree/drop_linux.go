//go:build linux

package memfree

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// dropCachesPath accepts 1 (page cache), 2 (dentries and inodes), or 3
// (both). Writes require root.
var dropCachesPath = "/proc/sys/vm/drop_caches"

// canDropCaches reports whether a cache drop is worth attempting.
func canDropCaches() bool {
	return os.Geteuid() == 0
}

// dropCaches syncs dirty pages and asks the kernel to drop clean caches.
// Sync first: drop_caches only releases clean pages.
func dropCaches(ctx context.Context, aggressive bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unix.Sync()

	value := []byte("1")
	if aggressive {
		value = []byte("3")
	}

	if err := os.WriteFile(dropCachesPath, value, 0o200); err != nil {
		return fmt.Errorf("writing %s: %w", dropCachesPath, err)
	}
	return nil
}
