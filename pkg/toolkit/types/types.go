// Package types provides core data types for the tonic system toolkit.
// It includes structures for static hardware inventory, sampled system
// snapshots, and utility functions for parsing and formatting sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Snapshot is one sampled view of dynamic system state.
// The daemon produces one per sampling interval; the CLI and TUI
// consume them for status display and history.
type Snapshot struct {
	// Timestamp is when the sample was taken.
	Timestamp time.Time `json:"timestamp"`

	// Uptime is the time elapsed since boot.
	Uptime time.Duration `json:"uptime"`

	// CPUPercent is the aggregate CPU utilization in [0,100].
	CPUPercent float64 `json:"cpu_percent"`

	// CPUFreqMHz is the current CPU frequency, 0 when unknown.
	CPUFreqMHz float64 `json:"cpu_freq_mhz,omitempty"`

	// Load1, Load5, Load15 are the system load averages.
	// Zero on platforms that do not report them.
	Load1  float64 `json:"load1,omitempty"`
	Load5  float64 `json:"load5,omitempty"`
	Load15 float64 `json:"load15,omitempty"`

	// Memory holds the current memory usage figures.
	Memory MemoryUsage `json:"memory"`

	// Disks holds per-mount usage for physical filesystems.
	Disks []DiskUsage `json:"disks"`

	// GPU holds the most recent GPU reading, nil when no GPU is available.
	GPU *GPUReading `json:"gpu,omitempty"`
}

// MemoryUsage captures RAM and swap usage at a point in time.
type MemoryUsage struct {
	Total     uint64  `json:"total"`
	Used      uint64  `json:"used"`
	Available uint64  `json:"available"`
	Percent   float64 `json:"percent"`
	SwapTotal uint64  `json:"swap_total,omitempty"`
	SwapUsed  uint64  `json:"swap_used,omitempty"`
}

// DiskUsage captures usage of a single mounted filesystem.
type DiskUsage struct {
	Mountpoint string  `json:"mountpoint"`
	Device     string  `json:"device"`
	Fstype     string  `json:"fstype,omitempty"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
}

// GPUReading is a single sample from the GPU driver.
type GPUReading struct {
	// Name is the marketing name of the GPU.
	Name string `json:"name"`

	// UtilPercent is GPU core utilization in [0,100].
	UtilPercent float64 `json:"util_percent"`

	// MemoryUsed and MemoryTotal are VRAM figures in bytes.
	MemoryUsed  uint64 `json:"memory_used"`
	MemoryTotal uint64 `json:"memory_total"`

	// TemperatureC is the core temperature in degrees Celsius.
	TemperatureC float64 `json:"temperature_c"`
}

// SystemInfo is the static hardware and platform inventory.
// Fields that could not be probed are left at their zero value;
// a partially-populated SystemInfo is normal on restricted systems.
type SystemInfo struct {
	CPU     CPUInfo        `json:"cpu"`
	Memory  []MemoryModule `json:"memory,omitempty"`
	Disks   []DiskDevice   `json:"disks,omitempty"`
	Board   BoardInfo      `json:"board"`
	Host    HostInfo       `json:"host"`
	GPUName string         `json:"gpu_name,omitempty"`
}

// CPUInfo describes the installed processor.
type CPUInfo struct {
	Model         string  `json:"model"`
	Vendor        string  `json:"vendor,omitempty"`
	PhysicalCores int     `json:"physical_cores"`
	LogicalCores  int     `json:"logical_cores"`
	BaseFreqMHz   float64 `json:"base_freq_mhz,omitempty"`
	MaxFreqMHz    float64 `json:"max_freq_mhz,omitempty"`
	CacheSizeKB   int32   `json:"cache_size_kb,omitempty"`
}

// MemoryModule describes one installed RAM module.
type MemoryModule struct {
	Slot         string `json:"slot,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	PartNumber   string `json:"part_number,omitempty"`
	SizeBytes    uint64 `json:"size_bytes"`
	SpeedMTs     int    `json:"speed_mts,omitempty"`

	// Generation is the DDR generation, e.g. "DDR4", or "Unknown".
	Generation string `json:"generation"`
}

// DiskDevice describes one physical block device.
type DiskDevice struct {
	Name  string `json:"name"`
	Model string `json:"model,omitempty"`
	Size  uint64 `json:"size"`
	Bus   string `json:"bus,omitempty"`

	// MediaType is one of "NVMe SSD", "SSD", "HDD", or "Unknown".
	MediaType string `json:"media_type"`
}

// BoardInfo describes the motherboard and firmware.
type BoardInfo struct {
	Vendor      string `json:"vendor,omitempty"`
	Product     string `json:"product,omitempty"`
	Version     string `json:"version,omitempty"`
	BIOSVendor  string `json:"bios_vendor,omitempty"`
	BIOSVersion string `json:"bios_version,omitempty"`
	BIOSDate    string `json:"bios_date,omitempty"`

	// Chipset is the detected or estimated platform chipset.
	Chipset string `json:"chipset,omitempty"`
}

// HostInfo describes the operating system and host identity.
type HostInfo struct {
	Hostname string    `json:"hostname"`
	Username string    `json:"username,omitempty"`
	OS       string    `json:"os"`
	Platform string    `json:"platform,omitempty"`
	Version  string    `json:"version,omitempty"`
	Kernel   string    `json:"kernel,omitempty"`
	Arch     string    `json:"arch"`
	BootTime time.Time `json:"boot_time"`
}

// Report pairs the static inventory with a current snapshot for output
// formatting. Either part may be absent depending on the command.
type Report struct {
	Info     *SystemInfo `json:"info,omitempty"`
	Snapshot *Snapshot   `json:"snapshot,omitempty"`

	// Source records where the data came from: "daemon" or "local".
	Source string `json:"source,omitempty"`
}

// FormatUptime renders a duration in compact day/hour/minute form,
// e.g. "1d 5h 36m". Durations under a minute render as "0m".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// It supports the following formats:
//   - Plain bytes: "1024", "0"
//   - With byte suffix: "512B", "512b"
//   - Kilobytes: "100K", "100k", "100KB", "100KiB"
//   - Megabytes: "50M", "50m", "50MB", "50MiB"
//   - Gigabytes: "2G", "2g", "2GB", "2GiB"
//   - Terabytes: "1T", "1t", "1TB", "1TiB"
//
// Decimal values are supported and truncated to the nearest byte.
// Leading and trailing whitespace is ignored.
//
// Returns ErrInvalidSize if the format is not recognized.
// Returns ErrNegativeSize if the value is negative.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	// Check for negative values
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	// Parse the numeric value
	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	// Determine the multiplier based on the suffix
	suffix := strings.ToUpper(matches[2])
	// Remove 'B' or 'IB' suffix to get just the unit letter
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string.
// It uses binary (IEC) units (KiB, MiB, GiB, TiB) for consistency
// with common filesystem tools.
//
// Examples:
//   - FormatSize(0) returns "0 B"
//   - FormatSize(1024) returns "1.0 KiB"
//   - FormatSize(1536*1024) returns "1.5 MiB"
func FormatSize(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

// FormatSizeU is FormatSize for unsigned values, which most probe
// libraries report natively.
func FormatSizeU(bytes uint64) string {
	return humanize.IBytes(bytes)
}
