// Package tonicv1 defines the JSON wire types for the tonicd v1 API.
package tonicv1

import "github.com/jamesainslie/tonic/pkg/toolkit/types"

// DaemonStatus is the response body for GET /v1/status.
type DaemonStatus struct {
	Running          bool             `json:"running"`
	PID              int              `json:"pid"`
	UptimeSeconds    int64            `json:"uptime_seconds"`
	MemoryBytes      int64            `json:"memory_bytes"`
	Subscribers      int              `json:"subscribers"`
	HistoryEntries   int              `json:"history_entries"`
	ReclaimableBytes int64            `json:"reclaimable_bytes"`
	Reclaimable      map[string]int64 `json:"reclaimable,omitempty"`
}

// HistoryResponse is the response body for GET /v1/history.
type HistoryResponse struct {
	Snapshots []*types.Snapshot `json:"snapshots"`
}

// ShutdownResponse is the response body for POST /v1/shutdown.
type ShutdownResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the body returned with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}
