//go:build !linux

package memfree

import (
	"context"
	"errors"
)

// Kernel cache dropping is a Linux facility; elsewhere the pass stays
// in basic mode.
func canDropCaches() bool { return false }

func dropCaches(ctx context.Context, aggressive bool) error {
	return errors.New("kernel cache drop not supported on this platform")
}
