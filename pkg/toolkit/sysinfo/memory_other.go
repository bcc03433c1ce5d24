//go:build !linux

package sysinfo

import (
	"context"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// probeMemoryModules has no SMBIOS source outside Linux.
func probeMemoryModules(ctx context.Context) ([]types.MemoryModule, error) {
	return nil, ctx.Err()
}
