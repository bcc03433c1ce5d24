package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/jamesainslie/tonic/pkg/client"
	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/jamesainslie/tonic/pkg/toolkit/hwcache"
	"github.com/jamesainslie/tonic/pkg/toolkit/output"
	"github.com/jamesainslie/tonic/pkg/toolkit/sysinfo"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// loadConfig loads the application config, falling back to defaults
// when the config file is broken.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		printVerbose("config load failed, using defaults: %v", err)
		return &config.Config{}
	}
	return cfg
}

// daemonPaths builds client paths from config.
func daemonPaths(cfg *config.Config) client.DaemonPaths {
	return client.DaemonPaths{
		Binary: cfg.Daemon.BinaryPath,
		Socket: cfg.Daemon.SocketPath,
		PID:    cfg.Daemon.PIDPath,
	}
}

// socketPath returns the configured or default daemon socket path.
func socketPath(cfg *config.Config) string {
	if cfg.Daemon.SocketPath != "" {
		return cfg.Daemon.SocketPath
	}
	return config.DefaultSocketPath()
}

// connectDaemon connects to the daemon, starting it first when
// auto-start is enabled. Returns an error when the daemon cannot be
// reached; callers fall back to local collection.
func connectDaemon(cfg *config.Config) (*client.Client, error) {
	if viper.GetBool("no_daemon") {
		return nil, fmt.Errorf("daemon disabled by --no-daemon")
	}

	if cfg.Daemon.AutoStart {
		if err := client.EnsureDaemon(daemonPaths(cfg)); err != nil {
			printVerbose("daemon auto-start failed: %v", err)
		}
	}

	return client.Connect(socketPath(cfg))
}

// newCollector builds a local collector from config. PercentInterval is
// set so a one-shot CLI invocation measures CPU over a short window
// instead of reporting zero.
func newCollector(cfg *config.Config) *sysinfo.Collector {
	return sysinfo.New(sysinfo.Config{
		GPUEnabled:      cfg.GPU.Enabled,
		GPUCacheTTL:     cfg.GPU.CacheTTL,
		PercentInterval: 200 * time.Millisecond,
	})
}

// localInfo collects the static inventory locally, consulting the
// hardware cache unless --no-cache is set.
func localInfo(ctx context.Context, cfg *config.Config, collector *sysinfo.Collector) (*types.SystemInfo, error) {
	useCache := cfg.Cache.Enabled && !viper.GetBool("no_cache")

	var cache *hwcache.Cache
	if useCache {
		path := cfg.Cache.Path
		if path == "" {
			path = config.DefaultHWCachePath()
		}
		c, err := hwcache.Open(path, cfg.Cache.TTL)
		if err != nil {
			printVerbose("hardware cache unavailable: %v", err)
		} else {
			cache = c
			defer cache.Close()

			if info, cachedAt, err := cache.GetInfo(); err == nil {
				printVerbose("hardware info served from cache (age %s)", time.Since(cachedAt).Round(time.Second))
				return info, nil
			}
		}
	}

	info, err := collector.Info(ctx)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.PutInfo(info); err != nil {
			printVerbose("hardware cache write failed: %v", err)
		}
	}
	return info, nil
}

// gatherReport assembles a report from the daemon when it is reachable,
// falling back to local probes. withInfo controls whether the static
// inventory is included.
func gatherReport(ctx context.Context, cfg *config.Config, withInfo bool) (*types.Report, error) {
	if c, err := connectDaemon(cfg); err == nil {
		defer c.Close()

		report, derr := daemonReport(ctx, c, withInfo)
		if derr == nil {
			return report, nil
		}
		printVerbose("daemon query failed, probing locally: %v", derr)
	} else {
		printVerbose("daemon unavailable, probing locally: %v", err)
	}

	collector := newCollector(cfg)
	report := &types.Report{Source: "local"}

	snap, err := collector.Sample(ctx)
	if err != nil {
		return nil, fmt.Errorf("sample system state: %w", err)
	}
	report.Snapshot = snap

	if withInfo {
		info, err := localInfo(ctx, cfg, collector)
		if err != nil {
			return nil, fmt.Errorf("collect hardware info: %w", err)
		}
		report.Info = info
	}

	return report, nil
}

// daemonReport fetches a report from a connected daemon.
func daemonReport(ctx context.Context, c *client.Client, withInfo bool) (*types.Report, error) {
	report := &types.Report{Source: "daemon"}

	snap, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	report.Snapshot = snap

	if withInfo {
		info, err := c.Info(ctx)
		if err != nil {
			return nil, err
		}
		report.Info = info
	}

	return report, nil
}

// renderReport formats a report with the formatter selected by -o and
// writes it to stdout.
func renderReport(report *types.Report) error {
	format := viper.GetString("output")
	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("unknown output format %q (available: pretty, plain, json, yaml)", format)
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("format report: %w", err)
	}

	_, err = buf.WriteTo(os.Stdout)
	return err
}
