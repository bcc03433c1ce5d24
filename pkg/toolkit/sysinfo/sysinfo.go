// Package sysinfo collects static hardware inventory and dynamic system
// snapshots. Static probes run concurrently with per-probe timeouts and
// memoized results; a probe that fails degrades to zero-value fields
// rather than failing the whole collection.
package sysinfo

import (
	"context"
	"os/user"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/jamesainslie/tonic/pkg/toolkit/chipset"
	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// probeTimeout bounds each static probe.
const probeTimeout = 10 * time.Second

// probeWorkers bounds concurrent static probes.
const probeWorkers = 4

// Config configures the collector.
type Config struct {
	// GPUEnabled enables nvidia-smi probing.
	GPUEnabled bool

	// GPUCacheTTL is the minimum time between nvidia-smi invocations.
	// Zero uses a 10 second default.
	GPUCacheTTL time.Duration

	// PercentInterval is the blocking window for one-shot CPU percent
	// measurement. Zero compares against the previous call instead.
	PercentInterval time.Duration
}

// Collector gathers system information. It is safe for concurrent use.
type Collector struct {
	cfg    Config
	logger *logging.Logger

	mu     sync.Mutex
	info   *types.SystemInfo // memoized static inventory
	infoAt time.Time
	gpu    *types.GPUReading
	gpuAt  time.Time
	gpuErr error
}

// New creates a collector with the given configuration.
func New(cfg Config) *Collector {
	if cfg.GPUCacheTTL <= 0 {
		cfg.GPUCacheTTL = 10 * time.Second
	}
	return &Collector{
		cfg:    cfg,
		logger: logging.Get("sysinfo"),
	}
}

// Info returns the static hardware inventory. The first call runs all
// probes; later calls return the memoized result until Invalidate.
func (c *Collector) Info(ctx context.Context) (*types.SystemInfo, error) {
	c.mu.Lock()
	if c.info != nil {
		info := c.info
		c.mu.Unlock()
		return info, nil
	}
	c.mu.Unlock()

	info := c.collect(ctx)

	c.mu.Lock()
	c.info = info
	c.infoAt = time.Now()
	c.mu.Unlock()

	return info, nil
}

// Invalidate drops the memoized static inventory so the next Info call
// re-probes the hardware.
func (c *Collector) Invalidate() {
	c.mu.Lock()
	c.info = nil
	c.mu.Unlock()
}

// SetInfo seeds the memoized inventory, used when restoring probe
// results from the persistent hardware cache.
func (c *Collector) SetInfo(info *types.SystemInfo) {
	c.mu.Lock()
	c.info = info
	c.infoAt = time.Now()
	c.mu.Unlock()
}

// collect runs all static probes with bounded concurrency.
// Probe failures are logged and leave the corresponding section empty.
func (c *Collector) collect(ctx context.Context) *types.SystemInfo {
	info := &types.SystemInfo{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, probeWorkers)

	probes := []struct {
		name string
		run  func(context.Context) error
	}{
		{"cpu", func(ctx context.Context) error {
			cpuInfo, err := probeCPU(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			info.CPU = cpuInfo
			mu.Unlock()
			return nil
		}},
		{"memory", func(ctx context.Context) error {
			modules, err := probeMemoryModules(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			info.Memory = modules
			mu.Unlock()
			return nil
		}},
		{"disks", func(ctx context.Context) error {
			devices, err := probeDiskDevices(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			info.Disks = devices
			mu.Unlock()
			return nil
		}},
		{"board", func(ctx context.Context) error {
			board, err := probeBoard(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			info.Board = board
			mu.Unlock()
			return nil
		}},
		{"host", func(ctx context.Context) error {
			hostInfo, err := probeHost(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			info.Host = hostInfo
			mu.Unlock()
			return nil
		}},
	}

	for _, p := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			if err := p.run(probeCtx); err != nil {
				c.logger.Warn("probe failed", "probe", p.name, "error", err)
			}
		}()
	}
	wg.Wait()

	// Chipset needs both the board product and the CPU model, so it runs
	// after the probes settle.
	info.Board.Chipset = chipset.Detect(info.Board.Product, info.CPU.Model)

	if c.cfg.GPUEnabled {
		if gpu, err := c.GPU(ctx); err == nil && gpu != nil {
			info.GPUName = gpu.Name
		}
	}

	return info
}

// Sample returns one snapshot of dynamic system state.
func (c *Collector) Sample(ctx context.Context) (*types.Snapshot, error) {
	snap := &types.Snapshot{Timestamp: time.Now()}

	percent, freq, err := sampleCPU(ctx, c.cfg.PercentInterval)
	if err != nil {
		c.logger.Warn("cpu sample failed", "error", err)
	}
	snap.CPUPercent = percent
	snap.CPUFreqMHz = freq

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.Memory = types.MemoryUsage{
			Total:     vm.Total,
			Used:      vm.Used,
			Available: vm.Available,
			Percent:   vm.UsedPercent,
		}
	} else {
		c.logger.Warn("memory sample failed", "error", err)
	}

	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil {
		snap.Memory.SwapTotal = sw.Total
		snap.Memory.SwapUsed = sw.Used
	}

	if usages, err := sampleDisks(ctx); err == nil {
		snap.Disks = usages
	} else {
		c.logger.Warn("disk sample failed", "error", err)
	}

	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		snap.Uptime = time.Duration(uptime) * time.Second
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		snap.Load1 = avg.Load1
		snap.Load5 = avg.Load5
		snap.Load15 = avg.Load15
	}

	if c.cfg.GPUEnabled {
		if gpu, err := c.GPU(ctx); err == nil {
			snap.GPU = gpu
		}
	}

	return snap, nil
}

// currentUsername returns the current user's name, empty on failure.
func currentUsername() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	return u.Username
}
