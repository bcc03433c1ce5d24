// Package manifest records toolkit operations to the filesystem so that
// `tonic history` can answer what was cleaned and when.
package manifest

import "time"

// OperationType represents the type of operation.
type OperationType string

const (
	// OpClean represents a temp-file clean operation.
	OpClean OperationType = "clean"
	// OpTrash represents a trash-empty operation.
	OpTrash OperationType = "trash"
	// OpMemFree represents a memory-reclaim operation.
	OpMemFree OperationType = "memfree"
)

// Entry represents a single manifest entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	Items     []ItemRecord  `json:"items,omitempty"`
	Summary   Summary       `json:"summary"`
}

// ItemRecord represents one affected path in the manifest.
type ItemRecord struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	Error string `json:"error,omitempty"` // Set when the item was skipped
}

// Summary contains operation totals. For memfree entries Items is empty
// and TotalBytes carries the measured freed amount.
type Summary struct {
	TotalItems int64         `json:"total_items"`
	TotalBytes int64         `json:"total_bytes"`
	Elapsed    time.Duration `json:"elapsed,omitempty"`
	Note       string        `json:"note,omitempty"`
}
