package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// ErrNoGPU indicates that no supported GPU driver is available.
var ErrNoGPU = errors.New("gpu not available")

// nvidiaSMIArgs selects the fields parsed by parseNvidiaSMI, in order.
var nvidiaSMIArgs = []string{
	"--query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu",
	"--format=csv,noheader,nounits",
}

// gpuQueryTimeout bounds a single nvidia-smi invocation.
const gpuQueryTimeout = 5 * time.Second

// GPU returns the current GPU reading. Results are cached for the
// configured TTL so frequent sampling does not hammer nvidia-smi.
// Returns ErrNoGPU when the driver tooling is missing or failing.
func (c *Collector) GPU(ctx context.Context) (*types.GPUReading, error) {
	c.mu.Lock()
	if !c.gpuAt.IsZero() && time.Since(c.gpuAt) < c.cfg.GPUCacheTTL {
		gpu, err := c.gpu, c.gpuErr
		c.mu.Unlock()
		return gpu, err
	}
	c.mu.Unlock()

	gpu, err := queryGPU(ctx)

	c.mu.Lock()
	c.gpu = gpu
	c.gpuErr = err
	c.gpuAt = time.Now()
	c.mu.Unlock()

	return gpu, err
}

// queryGPU invokes nvidia-smi and parses its CSV output.
func queryGPU(ctx context.Context) (*types.GPUReading, error) {
	path, err := exec.LookPath("nvidia-smi")
	if err != nil {
		return nil, ErrNoGPU
	}

	ctx, cancel := context.WithTimeout(ctx, gpuQueryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, nvidiaSMIArgs...).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGPU, err)
	}

	reading, err := parseNvidiaSMI(string(out))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGPU, err)
	}
	return reading, nil
}

// parseNvidiaSMI parses one line of nvidia-smi CSV output, e.g.
//
//	NVIDIA GeForce RTX 4080, 15, 1024, 16384, 45
//
// Memory figures are reported in MiB.
func parseNvidiaSMI(output string) (*types.GPUReading, error) {
	line := strings.TrimSpace(output)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		// Multi-GPU systems report one line per device; use the first.
		line = strings.TrimSpace(line[:idx])
	}
	if line == "" {
		return nil, errors.New("empty output")
	}

	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return nil, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	reading := &types.GPUReading{Name: fields[0]}

	util, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing utilization %q: %w", fields[1], err)
	}
	reading.UtilPercent = util

	memUsed, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing memory.used %q: %w", fields[2], err)
	}
	reading.MemoryUsed = memUsed * uint64(types.MiB)

	memTotal, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing memory.total %q: %w", fields[3], err)
	}
	reading.MemoryTotal = memTotal * uint64(types.MiB)

	temp, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing temperature %q: %w", fields[4], err)
	}
	reading.TemperatureC = temp

	return reading, nil
}
