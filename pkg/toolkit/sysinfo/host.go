package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// probeHost gathers OS and host identity.
func probeHost(ctx context.Context) (types.HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return types.HostInfo{}, fmt.Errorf("host info: %w", err)
	}

	result := types.HostInfo{
		Hostname: info.Hostname,
		Username: currentUsername(),
		OS:       info.OS,
		Platform: info.Platform,
		Version:  info.PlatformVersion,
		Kernel:   info.KernelVersion,
		Arch:     runtime.GOARCH,
	}

	if info.BootTime > 0 {
		result.BootTime = time.Unix(int64(info.BootTime), 0)
	}

	return result, nil
}
