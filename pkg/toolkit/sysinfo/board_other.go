//go:build !linux

package sysinfo

import (
	"context"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// probeBoard has no DMI source outside Linux; the board section stays
// empty and the chipset falls back to CPU-based estimation.
func probeBoard(ctx context.Context) (types.BoardInfo, error) {
	return types.BoardInfo{}, ctx.Err()
}
