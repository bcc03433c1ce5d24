package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// SamplerConfig configures the daemon's sampling loop.
type SamplerConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	StaticRefresh    time.Duration `mapstructure:"static_refresh"`
	HistoryRetention time.Duration `mapstructure:"history_retention"`
}

// GPUConfig configures GPU probing.
type GPUConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CleanConfig configures the temp-file cleaner.
type CleanConfig struct {
	// Targets are cleaned in addition to the user temp directory.
	Targets []string `mapstructure:"targets"`

	// IncludeCache also cleans $XDG_CACHE_HOME when true.
	IncludeCache bool `mapstructure:"include_cache"`

	// MinAge keeps items modified within this duration.
	MinAge time.Duration `mapstructure:"min_age"`
}

// CacheConfig configures the persistent hardware-info cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	Path    string        `mapstructure:"path"`
}

// DaemonConfig configures the background daemon.
type DaemonConfig struct {
	AutoStart  bool   `mapstructure:"auto_start"`
	BinaryPath string `mapstructure:"binary_path"` // Path to tonicd binary (auto-discovered if empty)
	SocketPath string `mapstructure:"socket_path"`
	PIDPath    string `mapstructure:"pid_path"`
}

// Config represents the application configuration.
type Config struct {
	Sampler  SamplerConfig `mapstructure:"sampler"`
	GPU      GPUConfig     `mapstructure:"gpu"`
	Clean    CleanConfig   `mapstructure:"clean"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Manifest struct {
		Enabled       bool   `mapstructure:"enabled"`
		Path          string `mapstructure:"path"`
		RetentionDays int    `mapstructure:"retention_days"`
	} `mapstructure:"manifest"`
	Logging LoggingConfig `mapstructure:"logging"`
	Daemon  DaemonConfig  `mapstructure:"daemon"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/tonic/config.yaml
//   - $HOME/.config/tonic/config.yaml
//
// Environment variables are prefixed with TONIC_ (e.g., TONIC_GPU_ENABLED).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "tonic"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "tonic"))

	v.SetEnvPrefix("TONIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Sampler defaults
	v.SetDefault("sampler.interval", DefaultSampleInterval)
	v.SetDefault("sampler.static_refresh", DefaultStaticRefresh)
	v.SetDefault("sampler.history_retention", DefaultHistoryRetention)

	// GPU defaults
	v.SetDefault("gpu.enabled", true)
	v.SetDefault("gpu.cache_ttl", DefaultGPUCacheTTL)

	// Cleaner defaults
	v.SetDefault("clean.targets", DefaultCleanTargets)
	v.SetDefault("clean.include_cache", false)
	v.SetDefault("clean.min_age", DefaultCleanMinAge)

	// Hardware cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", DefaultHWCacheTTL)
	v.SetDefault("cache.path", "") // Empty means use default XDG path

	// Manifest defaults
	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)
	v.SetDefault("manifest.path", filepath.Join(homeDir, ".config", "tonic", ".manifest"))

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"daemon":  "info",
		"sampler": "info",
		"sysinfo": "warn",
		"cleaner": "info",
		"tui":     "info",
	})

	// Daemon defaults
	v.SetDefault("daemon.auto_start", true)
	v.SetDefault("daemon.socket_path", "") // Empty means use default XDG path
	v.SetDefault("daemon.pid_path", "")    // Empty means use default XDG path

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand ~ in user-supplied paths
	if strings.HasPrefix(cfg.Manifest.Path, "~") {
		cfg.Manifest.Path = filepath.Join(homeDir, cfg.Manifest.Path[1:])
	}
	for i, target := range cfg.Clean.Targets {
		if strings.HasPrefix(target, "~") {
			cfg.Clean.Targets[i] = filepath.Join(homeDir, target[1:])
		}
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "tonic"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "tonic"), nil
}

// ManifestDir returns the manifest directory path.
func ManifestDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ".manifest"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// EnsureManifestDir creates the manifest directory if it doesn't exist.
func EnsureManifestDir() error {
	dir, err := ManifestDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		// Config file exists, do nothing
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	manifestDir, err := ManifestDir()
	if err != nil {
		return err
	}

	defaultConfig := fmt.Sprintf(`# Tonic Toolkit Configuration

# Daemon sampling settings
sampler:
  # How often dynamic system state is sampled
  interval: %s
  # How often the static hardware inventory is refreshed
  static_refresh: %s
  # How long sampled snapshots are retained
  history_retention: %s

# GPU probing (requires nvidia-smi)
gpu:
  enabled: true
  # Minimum time between nvidia-smi invocations
  cache_ttl: %s

# Temp-file cleaner
clean:
  # Cleaned in addition to the user temp directory
  targets:
    - /tmp
    - /var/tmp
  # Also clean $XDG_CACHE_HOME
  include_cache: false
  # Keep items modified within this duration (0 removes everything eligible)
  min_age: 0s

# Persistent hardware-info cache
cache:
  enabled: true
  ttl: %s
  # Cache database path (empty means use default: $XDG_CACHE_HOME/tonic/hwcache)
  path: ""

# Manifest settings for tracking clean and memory operations
manifest:
  enabled: true
  path: %s
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/tonic/tonic.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  # Per-component log levels
  components:
    daemon: info
    sampler: info
    sysinfo: warn
    cleaner: info
    tui: info

# Daemon configuration
daemon:
  # Automatically start daemon when running tonic commands
  auto_start: true
  # Unix socket path (empty means use default: $XDG_DATA_HOME/tonic/tonic.sock)
  socket_path: ""
  # PID file path (empty means use default: $XDG_DATA_HOME/tonic/tonic.pid)
  pid_path: ""
`, DefaultSampleInterval, DefaultStaticRefresh, DefaultHistoryRetention,
		DefaultGPUCacheTTL, DefaultHWCacheTTL, manifestDir, DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/tonic/ for database, socket, and pid files.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "tonic")
}

// StateDir returns $XDG_STATE_HOME/tonic/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "tonic")
}

// CacheDir returns $XDG_CACHE_HOME/tonic/ for the hardware-info cache.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "tonic")
}

// DefaultSocketPath returns the default Unix socket path.
func DefaultSocketPath() string {
	return filepath.Join(DataDir(), "tonic.sock")
}

// DefaultPIDPath returns the default PID file path.
func DefaultPIDPath() string {
	return filepath.Join(DataDir(), "tonic.pid")
}

// DefaultDBPath returns the default snapshot history database path.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "tonic.db")
}

// DefaultHWCachePath returns the default hardware cache database path.
func DefaultHWCachePath() string {
	return filepath.Join(CacheDir(), "hwcache")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), "tonic.log")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}

// EnsureCacheDir creates the cache directory if it doesn't exist.
func EnsureCacheDir() error {
	if err := os.MkdirAll(CacheDir(), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return nil
}
