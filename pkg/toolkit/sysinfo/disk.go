package sysinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// skipFstypes are pseudo and image filesystems excluded from usage reports.
var skipFstypes = map[string]struct{}{
	"squashfs": {},
	"overlay":  {},
	"tmpfs":    {},
	"devtmpfs": {},
	"iso9660":  {},
}

// sampleDisks returns usage for mounted physical filesystems, one entry
// per distinct device.
func sampleDisks(ctx context.Context) ([]types.DiskUsage, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}

	seen := make(map[string]struct{})
	var usages []types.DiskUsage

	for _, part := range parts {
		if _, ok := skipFstypes[part.Fstype]; ok {
			continue
		}
		if _, ok := seen[part.Device]; ok {
			continue
		}
		seen[part.Device] = struct{}{}

		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}

		usages = append(usages, types.DiskUsage{
			Mountpoint: part.Mountpoint,
			Device:     part.Device,
			Fstype:     part.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    usage.UsedPercent,
		})
	}

	return usages, nil
}

// classifyMedia decides the media type of a block device from its name,
// model string, and rotational flag. Model tokens win over the flag so
// USB-bridged NVMe enclosures classify correctly.
func classifyMedia(name, model string, rotational bool) string {
	upperModel := strings.ToUpper(model)

	if strings.HasPrefix(name, "nvme") ||
		strings.Contains(upperModel, "NVME") ||
		strings.Contains(upperModel, "M.2") {
		return "NVMe SSD"
	}

	if strings.Contains(upperModel, "SSD") || strings.Contains(upperModel, "SOLID STATE") {
		return "SSD"
	}

	if rotational {
		return "HDD"
	}
	return "SSD"
}
