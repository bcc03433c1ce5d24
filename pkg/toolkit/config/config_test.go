package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Use a temp directory that doesn't have a config file
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sampler.Interval != DefaultSampleInterval {
		t.Errorf("Sampler.Interval = %v, want %v", cfg.Sampler.Interval, DefaultSampleInterval)
	}

	if cfg.Sampler.HistoryRetention != DefaultHistoryRetention {
		t.Errorf("Sampler.HistoryRetention = %v, want %v", cfg.Sampler.HistoryRetention, DefaultHistoryRetention)
	}

	if !cfg.GPU.Enabled {
		t.Error("GPU.Enabled = false, want true")
	}

	if cfg.GPU.CacheTTL != DefaultGPUCacheTTL {
		t.Errorf("GPU.CacheTTL = %v, want %v", cfg.GPU.CacheTTL, DefaultGPUCacheTTL)
	}

	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled = false, want true")
	}

	if cfg.Cache.TTL != DefaultHWCacheTTL {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, DefaultHWCacheTTL)
	}

	if !cfg.Manifest.Enabled {
		t.Error("Manifest.Enabled = false, want true")
	}

	if cfg.Manifest.RetentionDays != DefaultRetentionDays {
		t.Errorf("Manifest.RetentionDays = %d, want %d", cfg.Manifest.RetentionDays, DefaultRetentionDays)
	}

	if len(cfg.Clean.Targets) != len(DefaultCleanTargets) {
		t.Errorf("len(Clean.Targets) = %d, want %d", len(cfg.Clean.Targets), len(DefaultCleanTargets))
	}

	if cfg.Clean.IncludeCache {
		t.Error("Clean.IncludeCache = true, want false")
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "tonic")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
sampler:
  interval: 5s
  history_retention: 30m
gpu:
  enabled: false
clean:
  targets:
    - /tmp
    - /var/cache
  include_cache: true
  min_age: 10m
manifest:
  enabled: false
  path: /custom/manifest
  retention_days: 7
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sampler.Interval != 5*time.Second {
		t.Errorf("Sampler.Interval = %v, want 5s", cfg.Sampler.Interval)
	}

	if cfg.Sampler.HistoryRetention != 30*time.Minute {
		t.Errorf("Sampler.HistoryRetention = %v, want 30m", cfg.Sampler.HistoryRetention)
	}

	if cfg.GPU.Enabled {
		t.Error("GPU.Enabled = true, want false")
	}

	if len(cfg.Clean.Targets) != 2 {
		t.Fatalf("len(Clean.Targets) = %d, want 2", len(cfg.Clean.Targets))
	}

	if cfg.Clean.Targets[1] != "/var/cache" {
		t.Errorf("Clean.Targets[1] = %q, want /var/cache", cfg.Clean.Targets[1])
	}

	if !cfg.Clean.IncludeCache {
		t.Error("Clean.IncludeCache = false, want true")
	}

	if cfg.Clean.MinAge != 10*time.Minute {
		t.Errorf("Clean.MinAge = %v, want 10m", cfg.Clean.MinAge)
	}

	if cfg.Manifest.Enabled {
		t.Error("Manifest.Enabled = true, want false")
	}

	if cfg.Manifest.Path != "/custom/manifest" {
		t.Errorf("Manifest.Path = %q, want /custom/manifest", cfg.Manifest.Path)
	}

	if cfg.Manifest.RetentionDays != 7 {
		t.Errorf("Manifest.RetentionDays = %d, want 7", cfg.Manifest.RetentionDays)
	}
}

func TestLoad_TildeExpansion(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "tonic")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
clean:
  targets:
    - ~/Downloads/tmp
manifest:
  path: ~/manifests
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantManifest := filepath.Join(tempDir, "manifests")
	if cfg.Manifest.Path != wantManifest {
		t.Errorf("Manifest.Path = %q, want %q", cfg.Manifest.Path, wantManifest)
	}

	wantTarget := filepath.Join(tempDir, "Downloads", "tmp")
	if cfg.Clean.Targets[0] != wantTarget {
		t.Errorf("Clean.Targets[0] = %q, want %q", cfg.Clean.Targets[0], wantTarget)
	}
}

func TestWriteDefault(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	configPath := filepath.Join(tempDir, ".config", "tonic", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("written config is empty")
	}

	// A second call must not overwrite the existing file
	if err := os.WriteFile(configPath, []byte("sentinel: true\n"), 0o644); err != nil {
		t.Fatalf("writing sentinel: %v", err)
	}
	if err := WriteDefault(); err != nil {
		t.Fatalf("WriteDefault() second call error = %v", err)
	}
	data, err = os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("re-reading config: %v", err)
	}
	if string(data) != "sentinel: true\n" {
		t.Error("WriteDefault() overwrote an existing config file")
	}
}

func TestExpandPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no tilde", input: "/var/tmp", want: "/var/tmp"},
		{name: "tilde prefix", input: "~/cache", want: filepath.Join(tempDir, "cache")},
		{name: "bare tilde", input: "~", want: tempDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
