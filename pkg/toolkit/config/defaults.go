// Package config provides configuration management for the tonic toolkit.
package config

import "time"

// Default configuration values for tonic.
const (
	// DefaultSampleInterval is how often the daemon samples dynamic state.
	DefaultSampleInterval = 2 * time.Second

	// DefaultStaticRefresh is how often the daemon refreshes the static
	// hardware inventory.
	DefaultStaticRefresh = 15 * time.Minute

	// DefaultHistoryRetention is how long sampled snapshots are kept.
	DefaultHistoryRetention = time.Hour

	// DefaultGPUCacheTTL bounds how often nvidia-smi is invoked.
	DefaultGPUCacheTTL = 10 * time.Second

	// DefaultHWCacheTTL is how long cached static probe results stay fresh.
	DefaultHWCacheTTL = 24 * time.Hour

	// DefaultRetentionDays is the default number of days to retain
	// operation manifests.
	DefaultRetentionDays = 30

	// DefaultCleanMinAge keeps recently-modified temp files; zero removes
	// everything eligible.
	DefaultCleanMinAge = 0 * time.Minute
)

// DefaultCleanTargets are cleaned in addition to the user temp directory.
// Nonexistent entries are skipped.
var DefaultCleanTargets = []string{
	"/tmp",
	"/var/tmp",
}
