//go:build !linux

package sysinfo

import (
	"context"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// probeDiskDevices approximates the physical device list from mounted
// partitions; sysfs attributes (model, rotational) are Linux-only.
func probeDiskDevices(ctx context.Context) ([]types.DiskDevice, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var devices []types.DiskDevice
	for _, part := range parts {
		if _, ok := seen[part.Device]; ok {
			continue
		}
		seen[part.Device] = struct{}{}

		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}

		devices = append(devices, types.DiskDevice{
			Name:      part.Device,
			Size:      usage.Total,
			MediaType: "Unknown",
		})
	}

	return devices, nil
}
