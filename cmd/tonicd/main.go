// Package main provides the entry point for the tonicd monitoring daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jamesainslie/tonic/pkg/daemon"
	"github.com/jamesainslie/tonic/pkg/daemon/broadcaster"
	"github.com/jamesainslie/tonic/pkg/daemon/sampler"
	"github.com/jamesainslie/tonic/pkg/daemon/store"
	"github.com/jamesainslie/tonic/pkg/daemon/watcher"
	"github.com/jamesainslie/tonic/pkg/toolkit/cleaner"
	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
	"github.com/jamesainslie/tonic/pkg/toolkit/sysinfo"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tonicd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not keep the daemon down
		cfg = &config.Config{}
	}

	if err := initLogging(cfg); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()

	log := logging.Get("daemon")

	dataDir := config.DataDir()
	socketPath := cfg.Daemon.SocketPath
	if socketPath == "" {
		socketPath = config.DefaultSocketPath()
	}
	pidPath := cfg.Daemon.PIDPath
	if pidPath == "" {
		pidPath = config.DefaultPIDPath()
	}
	statusPath := daemon.StatusPath(dataDir)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Recover from a previous daemon that died without cleaning up.
	if err := daemon.RecoverFromStaleDaemon(pidPath, socketPath, dataDir); err != nil {
		if errors.Is(err, daemon.ErrDaemonAlreadyRunning) {
			return errors.New("tonicd is already running")
		}
		return fmt.Errorf("stale daemon recovery: %w", err)
	}

	srv, cleanup, err := buildServer(cfg, dataDir, socketPath, log)
	if err != nil {
		_ = daemon.WriteStatusError(statusPath, err)
		return err
	}
	defer cleanup()

	if err := daemon.WritePIDFile(pidPath); err != nil {
		_ = daemon.WriteStatusError(statusPath, err)
		return fmt.Errorf("write PID file: %w", err)
	}
	defer func() {
		if err := daemon.RemovePIDFile(pidPath); err != nil {
			log.Warn("removing PID file failed", "error", err)
		}
	}()

	if err := daemon.WriteStatusReady(statusPath); err != nil {
		log.Warn("writing status file failed", "error", err)
	}
	defer func() { _ = daemon.RemoveStatus(statusPath) }()

	// Shut down on SIGINT/SIGTERM or an API shutdown request.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info("received signal, shutting down", "signal", sig.String())
		case <-srv.ShutdownRequested():
			log.Info("shutdown requested via API")
		}
		if err := srv.Close(); err != nil {
			log.Warn("error during shutdown", "error", err)
		}
	}()

	log.Info("tonicd starting", "socket", socketPath, "pid", os.Getpid())

	return srv.Serve()
}

// buildServer wires the sampler, store, broadcaster, and watcher into a
// server. The returned cleanup stops the background loops and closes
// everything in dependency order.
func buildServer(cfg *config.Config, dataDir, socketPath string, log *logging.Logger) (*daemon.Server, func(), error) {
	st, err := store.Open(filepath.Join(dataDir, "history.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("open history store: %w", err)
	}
	if err := st.EnsureSchema(); err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("stamp history schema: %w", err)
	}

	bcast := broadcaster.New()

	collector := sysinfo.New(sysinfo.Config{
		GPUEnabled:  cfg.GPU.Enabled,
		GPUCacheTTL: cfg.GPU.CacheTTL,
	})

	smp := sampler.New(sampler.Config{
		Interval:      cfg.Sampler.Interval,
		StaticRefresh: cfg.Sampler.StaticRefresh,
		Retention:     cfg.Sampler.HistoryRetention,
	}, collector, st, bcast)

	// Watch clean targets for the reclaimable-space gauge. A watcher
	// failure degrades the status endpoint, it does not stop the daemon.
	var w *watcher.Watcher
	if wt, werr := watcher.New(); werr != nil {
		log.Warn("target watcher unavailable", "error", werr)
	} else {
		w = wt
		targets := cleaner.ResolveTargets(cleaner.Options{
			Targets:      cfg.Clean.Targets,
			IncludeCache: cfg.Clean.IncludeCache,
		})
		for _, target := range targets {
			if werr := w.Watch(target); werr != nil {
				log.Debug("cannot watch target", "path", target, "error", werr)
			}
		}
	}

	srv, err := daemon.NewServer(daemon.Config{
		SocketPath: socketPath,
		DataDir:    dataDir,
	}, collector, smp, st, bcast, w)
	if err != nil {
		if w != nil {
			_ = w.Close()
		}
		bcast.Close()
		_ = st.Close()
		return nil, nil, fmt.Errorf("create server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go smp.Run(ctx)
	if w != nil {
		go w.Run(ctx)
	}

	cleanup := func() {
		cancel()
		if w != nil {
			_ = w.Close()
		}
		bcast.Close()
		if err := st.Close(); err != nil {
			log.Warn("closing history store failed", "error", err)
		}
	}

	return srv, cleanup, nil
}

// initLogging configures file logging from the application config.
func initLogging(cfg *config.Config) error {
	logCfg := logging.DefaultConfig()

	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	if cfg.Logging.Path != "" {
		logCfg.Path = cfg.Logging.Path
	}
	if len(cfg.Logging.Components) > 0 {
		logCfg.Components = cfg.Logging.Components
	}
	if cfg.Logging.Rotation.MaxSize != "" {
		if size, err := types.ParseSize(cfg.Logging.Rotation.MaxSize); err == nil {
			logCfg.Rotation.MaxSize = size
		}
	}
	if cfg.Logging.Rotation.MaxAge > 0 {
		logCfg.Rotation.MaxAge = cfg.Logging.Rotation.MaxAge
	}
	if cfg.Logging.Rotation.MaxBackups > 0 {
		logCfg.Rotation.MaxBackups = cfg.Logging.Rotation.MaxBackups
	}
	logCfg.Rotation.Daily = cfg.Logging.Rotation.Daily

	return logging.Init(logCfg)
}
