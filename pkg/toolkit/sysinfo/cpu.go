package sysinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// probeCPU gathers the static processor description.
func probeCPU(ctx context.Context) (types.CPUInfo, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return types.CPUInfo{}, fmt.Errorf("cpu info: %w", err)
	}
	if len(infos) == 0 {
		return types.CPUInfo{}, fmt.Errorf("cpu info: no processors reported")
	}

	first := infos[0]
	result := types.CPUInfo{
		Model:       first.ModelName,
		Vendor:      first.VendorID,
		BaseFreqMHz: first.Mhz,
		CacheSizeKB: first.CacheSize,
	}

	if physical, err := cpu.CountsWithContext(ctx, false); err == nil {
		result.PhysicalCores = physical
	}
	if logical, err := cpu.CountsWithContext(ctx, true); err == nil {
		result.LogicalCores = logical
	}

	if maxFreq, err := maxFreqMHz(); err == nil && maxFreq > 0 {
		result.MaxFreqMHz = maxFreq
	}

	return result, nil
}

// sampleCPU returns aggregate utilization percent and current frequency.
// With a zero interval the percent is computed against the previous call.
func sampleCPU(ctx context.Context, interval time.Duration) (float64, float64, error) {
	percents, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, 0, fmt.Errorf("cpu percent: %w", err)
	}

	var percent float64
	if len(percents) > 0 {
		percent = percents[0]
	}

	freq, err := currentFreqMHz()
	if err != nil {
		freq = 0
	}

	return percent, freq, nil
}
