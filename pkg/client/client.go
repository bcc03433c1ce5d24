// Package client provides a client for the tonicd daemon.
// It speaks HTTP/JSON over the daemon's unix socket and adds lifecycle
// helpers for starting and stopping the daemon process.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tonicv1 "github.com/jamesainslie/tonic/pkg/api/tonic/v1"
	"github.com/jamesainslie/tonic/pkg/toolkit/config"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// baseURL is a placeholder host; the transport dials the unix socket
// regardless of the URL host.
const baseURL = "http://tonicd"

// Client connects to the tonicd daemon over its unix socket.
type Client struct {
	http       *http.Client
	socketPath string
}

// DaemonPaths configures paths for daemon operations.
// Empty fields use defaults.
type DaemonPaths struct {
	Binary string // Path to tonicd binary (auto-discovered if empty)
	Socket string // Unix socket path
	PID    string // PID file path
}

// withDefaults returns a copy with empty fields filled with defaults.
func (p DaemonPaths) withDefaults() DaemonPaths {
	if p.Socket == "" {
		p.Socket = config.DefaultSocketPath()
	}
	if p.PID == "" {
		p.PID = config.DefaultPIDPath()
	}
	return p
}

// Connect creates a client for the daemon socket.
// It fails fast when the socket does not exist.
func Connect(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("daemon socket not found at %s", socketPath)
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
	}

	return &Client{
		http:       &http.Client{Transport: transport},
		socketPath: socketPath,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError turns a non-2xx response into an error.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr tonicv1.ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("daemon: %s", apiErr.Error)
	}
	return fmt.Errorf("daemon returned status %d", resp.StatusCode)
}

// Status returns the daemon's health information.
func (c *Client) Status(ctx context.Context) (*tonicv1.DaemonStatus, error) {
	var status tonicv1.DaemonStatus
	if err := c.get(ctx, "/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Snapshot returns the daemon's most recent sample.
func (c *Client) Snapshot(ctx context.Context) (*types.Snapshot, error) {
	var snap types.Snapshot
	if err := c.get(ctx, "/v1/snapshot", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Info returns the static hardware inventory from the daemon.
func (c *Client) Info(ctx context.Context) (*types.SystemInfo, error) {
	var info types.SystemInfo
	if err := c.get(ctx, "/v1/info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// History returns stored snapshots taken at or after since, oldest
// first. A zero since returns everything; limit 0 means no limit.
func (c *Client) History(ctx context.Context, since time.Time, limit int) ([]*types.Snapshot, error) {
	path := "/v1/history"
	params := make([]string, 0, 2)
	if !since.IsZero() {
		params = append(params, "since="+since.Format(time.RFC3339))
	}
	if limit > 0 {
		params = append(params, "limit="+strconv.Itoa(limit))
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	var resp tonicv1.HistoryResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Snapshots, nil
}

// Watch subscribes to the daemon's snapshot stream. The returned
// channel is closed when the context is cancelled or the stream ends.
func (c *Client) Watch(ctx context.Context) (<-chan *types.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/v1/events", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daemon request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	snapshots := make(chan *types.Snapshot, 16)
	go func() {
		defer close(snapshots)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if !bytes.HasPrefix(line, []byte("data: ")) {
				continue
			}

			var snap types.Snapshot
			if err := json.Unmarshal(line[len("data: "):], &snap); err != nil {
				continue
			}

			select {
			case snapshots <- &snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snapshots, nil
}

// Shutdown requests the daemon to shut down gracefully.
func (c *Client) Shutdown(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/shutdown", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	var result tonicv1.ShutdownResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if !result.Success {
		return errors.New("shutdown request was not successful")
	}
	return nil
}

// EnsureDaemon ensures the daemon is running, starting it if necessary.
// Idempotent: returns nil if daemon is already running.
func EnsureDaemon(paths DaemonPaths) error {
	return StartDaemon(paths)
}

// StartDaemon starts the tonicd daemon in the background.
// Idempotent: returns nil if daemon is already running.
func StartDaemon(paths DaemonPaths) error {
	paths = paths.withDefaults()

	if IsDaemonRunning(paths.PID) {
		return nil // Already running, nothing to do
	}

	binary, err := resolveBinary(paths.Binary)
	if err != nil {
		return fmt.Errorf("find tonicd: %w", err)
	}

	// Derive status path from socket path
	statusPath := strings.TrimSuffix(paths.Socket, ".sock") + ".status"

	// Clean up stale status file before starting
	_ = os.Remove(statusPath)

	// Use exec.Command (not CommandContext) intentionally: daemon must outlive caller
	cmd := exec.Command(binary) //nolint:gosec // binary path is validated
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	// Detach so daemon outlives caller
	if cmd.Process != nil {
		_ = cmd.Process.Release()
	}

	// Poll for socket OR status file
	for range 50 {
		time.Sleep(100 * time.Millisecond)

		// Check socket first (success fast path)
		if _, err := os.Stat(paths.Socket); err == nil {
			return nil
		}

		// Check status file for explicit ready or error
		if status, err := readStatusFile(statusPath); err == nil {
			switch status.Status {
			case "ready":
				return nil
			case "error":
				return fmt.Errorf("daemon failed to start: %s", status.Error)
			}
		}
	}

	return errors.New("daemon did not become ready within timeout")
}

// StopDaemon stops the daemon gracefully via the API.
// Idempotent: returns nil if daemon is not running.
func StopDaemon(paths DaemonPaths) error {
	paths = paths.withDefaults()

	if !IsDaemonRunning(paths.PID) {
		return nil // Not running, nothing to do
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Connect(paths.Socket)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w", err)
	}
	defer client.Close()

	if err := client.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown daemon: %w", err)
	}

	// Wait for daemon to stop
	for range 20 {
		time.Sleep(250 * time.Millisecond)
		if !IsDaemonRunning(paths.PID) {
			return nil
		}
	}

	return errors.New("daemon did not stop within timeout")
}

// RestartDaemon stops and starts the daemon.
func RestartDaemon(paths DaemonPaths) error {
	if err := StopDaemon(paths); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	if err := StartDaemon(paths); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

// resolveBinary finds the tonicd binary path.
// Priority: configured path > same directory as executable > GOBIN/GOPATH > PATH.
func resolveBinary(configured string) (string, error) {
	// Use configured path if provided
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("configured binary not found: %s", configured)
		}
		return configured, nil
	}

	// Try same directory as current executable
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), "tonicd")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	// Try standard Go binary locations (GOBIN > GOPATH/bin > $HOME/go/bin)
	for _, dir := range goBinDirs() {
		candidate := filepath.Join(dir, "tonicd")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	// Try PATH
	if path, err := exec.LookPath("tonicd"); err == nil {
		return path, nil
	}

	return "", errors.New("tonicd not found")
}

// goBinDirs lists the conventional Go install directories.
func goBinDirs() []string {
	var dirs []string
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		dirs = append(dirs, gobin)
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		dirs = append(dirs, filepath.Join(gopath, "bin"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "go", "bin"))
	}
	return dirs
}

// IsDaemonRunning checks if the daemon is running based on the PID file.
func IsDaemonRunning(pidPath string) bool {
	pid, err := readPIDFile(pidPath)
	if err != nil {
		return false
	}

	// Check if process exists
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Send signal 0 to check if process exists
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

// readPIDFile reads a PID from a file.
func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, err
	}

	return pid, nil
}

// statusFile represents the daemon startup status file.
type statusFile struct {
	Status string `json:"status"`
	PID    int    `json:"pid,omitempty"`
	Error  string `json:"error,omitempty"`
}

// readStatusFile reads and parses the daemon status file.
func readStatusFile(path string) (*statusFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var status statusFile
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
