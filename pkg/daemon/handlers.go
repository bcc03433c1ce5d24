package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	tonicv1 "github.com/jamesainslie/tonic/pkg/api/tonic/v1"
	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Get("daemon").Warn("response encode failed", "error", err)
	}
}

// writeError sends a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, tonicv1.ErrorResponse{Error: err.Error()})
}

// handleStatus reports daemon health.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status := tonicv1.DaemonStatus{
		Running:       true,
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		MemoryBytes:   int64(mem.Alloc),
	}
	if s.broadcaster != nil {
		status.Subscribers = s.broadcaster.SubscriberCount()
	}
	if s.store != nil {
		if count, err := s.store.Count(); err == nil {
			status.HistoryEntries = count
		}
	}
	if s.watcher != nil {
		status.Reclaimable = s.watcher.Reclaimable()
		status.ReclaimableBytes = s.watcher.TotalReclaimable()
	}

	writeJSON(w, http.StatusOK, status)
}

// handleSnapshot returns the most recent sample, consulting the history
// store when the sampler has not produced one yet.
func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.sampler.Last()
	if snap == nil && s.store != nil {
		if stored, err := s.store.Latest(); err == nil {
			snap = stored
		}
	}
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("no sample available yet"))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleInfo returns the static hardware inventory.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.collector.Info(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleHistory returns stored snapshots. Query parameters:
// since (RFC 3339) and limit (int).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("history storage is disabled"))
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid since: %w", err))
			return
		}
		since = parsed
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit: %q", raw))
			return
		}
		limit = parsed
	}

	snaps, err := s.store.Range(since, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, tonicv1.HistoryResponse{Snapshots: snaps})
}

// handleEvents streams snapshots as server-sent events until the client
// disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.broadcaster == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("event streaming not available"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	sub := s.broadcaster.Subscribe()
	if sub == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("daemon is shutting down"))
		return
	}
	defer s.broadcaster.Unsubscribe(sub.ID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.Snapshots:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// handleShutdown asks the daemon to exit gracefully.
func (s *Server) handleShutdown(w http.ResponseWriter, _ *http.Request) {
	logging.Get("daemon").Info("shutdown requested via API")
	writeJSON(w, http.StatusOK, tonicv1.ShutdownResponse{Success: true})

	s.shutdownOnce.Do(func() { close(s.shutdown) })
}
