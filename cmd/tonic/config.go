package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage tonic configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/tonic/config.yaml (if set)
  2. ~/.config/tonic/config.yaml

Environment variables can override config file settings using the TONIC_ prefix:
  TONIC_SAMPLER_INTERVAL=5s
  TONIC_GPU_ENABLED=false
  TONIC_CLEAN_TARGETS=/tmp,/var/tmp`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	// Show config file being used
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Printf("Config file: %s\n\n", configFile)
	} else {
		fmt.Println("Config file: (using defaults, no file found)")
		fmt.Println()
	}

	// Display configuration
	fmt.Println("Current Configuration:")
	fmt.Println("----------------------")
	fmt.Printf("sampler.interval:          %s\n", cfg.Sampler.Interval)
	fmt.Printf("sampler.static_refresh:    %s\n", cfg.Sampler.StaticRefresh)
	fmt.Printf("sampler.history_retention: %s\n", cfg.Sampler.HistoryRetention)
	fmt.Printf("gpu.enabled:               %t\n", cfg.GPU.Enabled)
	fmt.Printf("gpu.cache_ttl:             %s\n", cfg.GPU.CacheTTL)
	fmt.Printf("clean.targets:             %v\n", cfg.Clean.Targets)
	fmt.Printf("clean.include_cache:       %t\n", cfg.Clean.IncludeCache)
	fmt.Printf("clean.min_age:             %s\n", cfg.Clean.MinAge)
	fmt.Printf("cache.enabled:             %t\n", cfg.Cache.Enabled)
	fmt.Printf("cache.ttl:                 %s\n", cfg.Cache.TTL)
	fmt.Printf("manifest.enabled:          %t\n", cfg.Manifest.Enabled)
	fmt.Printf("manifest.path:             %s\n", cfg.Manifest.Path)
	fmt.Printf("manifest.retention:        %d days\n", cfg.Manifest.RetentionDays)
	fmt.Printf("logging.level:             %s\n", cfg.Logging.Level)
	fmt.Printf("daemon.auto_start:         %t\n", cfg.Daemon.AutoStart)

	// Show any environment overrides
	fmt.Println("\nEnvironment Overrides:")
	fmt.Println("----------------------")
	envVars := []string{
		"TONIC_SAMPLER_INTERVAL",
		"TONIC_SAMPLER_STATIC_REFRESH",
		"TONIC_SAMPLER_HISTORY_RETENTION",
		"TONIC_GPU_ENABLED",
		"TONIC_GPU_CACHE_TTL",
		"TONIC_CLEAN_TARGETS",
		"TONIC_CLEAN_INCLUDE_CACHE",
		"TONIC_CLEAN_MIN_AGE",
		"TONIC_CACHE_ENABLED",
		"TONIC_CACHE_TTL",
		"TONIC_MANIFEST_ENABLED",
		"TONIC_MANIFEST_PATH",
		"TONIC_MANIFEST_RETENTION_DAYS",
		"TONIC_LOGGING_LEVEL",
		"TONIC_DAEMON_AUTO_START",
	}

	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Printf("%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Println("(none)")
	}

	return nil
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(cmd *cobra.Command, args []string) error {
	// Ensure config file exists
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	// Get config file path
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Determine editor
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	// Open editor
	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'tonic config edit' to modify it.")
		return nil
	}

	// Create default config
	if err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")

	fmt.Println(configPath)

	// Show if file exists
	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
