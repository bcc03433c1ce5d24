//go:build linux

package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// blockRoot is the kernel's block device directory.
var blockRoot = "/sys/block"

// sectorSize is the unit of /sys/block/<dev>/size regardless of the
// device's logical sector size.
const sectorSize = 512

// probeDiskDevices enumerates physical block devices with model, size,
// and media classification. Virtual devices (loop, ram, dm, zram, md)
// are skipped.
func probeDiskDevices(ctx context.Context) ([]types.DiskDevice, error) {
	entries, err := os.ReadDir(blockRoot)
	if err != nil {
		return nil, err
	}

	var devices []types.DiskDevice
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return devices, err
		}

		name := entry.Name()
		if isVirtualBlock(name) {
			continue
		}

		devPath := filepath.Join(blockRoot, name)

		device := types.DiskDevice{
			Name:  name,
			Model: sysfsValue(filepath.Join(devPath, "device", "model")),
		}

		if sectors, err := strconv.ParseUint(sysfsValue(filepath.Join(devPath, "size")), 10, 64); err == nil {
			device.Size = sectors * sectorSize
		}
		if device.Size == 0 {
			// Ejected card readers and the like.
			continue
		}

		rotational := sysfsValue(filepath.Join(devPath, "queue", "rotational")) == "1"
		device.MediaType = classifyMedia(name, device.Model, rotational)
		device.Bus = busFor(name)

		devices = append(devices, device)
	}

	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })
	return devices, nil
}

// isVirtualBlock reports whether the device name belongs to a virtual
// or stacked block device rather than physical media.
func isVirtualBlock(name string) bool {
	for _, prefix := range []string{"loop", "ram", "dm-", "zram", "md", "sr"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// busFor guesses the transport from the device naming scheme.
func busFor(name string) string {
	switch {
	case strings.HasPrefix(name, "nvme"):
		return "NVMe"
	case strings.HasPrefix(name, "sd"):
		return "SATA/SCSI"
	case strings.HasPrefix(name, "mmcblk"):
		return "MMC"
	case strings.HasPrefix(name, "vd"):
		return "virtio"
	default:
		return ""
	}
}

// sysfsValue reads and trims one sysfs attribute, "" on any failure.
func sysfsValue(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
