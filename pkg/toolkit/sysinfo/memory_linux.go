//go:build linux

package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// dmiEntriesGlob matches raw SMBIOS Memory Device structures exported by
// the kernel. Reading them requires root on most distributions.
var dmiEntriesGlob = "/sys/firmware/dmi/entries/17-*/raw"

// probeMemoryModules reads installed RAM modules from raw DMI entries.
// Lack of access yields an empty inventory, not an error.
func probeMemoryModules(ctx context.Context) ([]types.MemoryModule, error) {
	paths, err := filepath.Glob(dmiEntriesGlob)
	if err != nil || len(paths) == 0 {
		return nil, ctx.Err()
	}
	sort.Strings(paths)

	var modules []types.MemoryModule
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return modules, err
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			// Typically EACCES for unprivileged callers.
			continue
		}

		if module, ok := parseMemoryDevice(raw); ok {
			modules = append(modules, module)
		}
	}

	return modules, nil
}
