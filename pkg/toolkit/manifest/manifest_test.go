package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupTestManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := m.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	return m
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates manifest with valid directory", func(t *testing.T) {
		t.Parallel()

		m, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New() error = %v, want nil", err)
		}
		if m == nil {
			t.Fatal("New() returned nil")
		}
	})

	t.Run("returns error for empty directory", func(t *testing.T) {
		t.Parallel()

		_, err := New("")
		if err == nil {
			t.Fatal("New() error = nil, want error for empty directory")
		}
	})
}

func TestManifest_EnsureDir(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	manifestDir := filepath.Join(tmpDir, "manifests")

	m, err := New(manifestDir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := m.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	info, err := os.Stat(manifestDir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("path is not a directory")
	}
}

func TestManifest_LogClean(t *testing.T) {
	t.Parallel()

	t.Run("logs clean operation successfully", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		items := []ItemRecord{
			{Path: "/tmp/file1.txt", Bytes: 100},
			{Path: "/tmp/file2.txt", Bytes: 200},
			{Path: "/tmp/locked.txt", Error: "permission denied"},
		}

		entry, err := m.LogClean(items, 3*time.Second)
		if err != nil {
			t.Fatalf("LogClean() error = %v", err)
		}

		if entry.Operation != OpClean {
			t.Errorf("Operation = %v, want %v", entry.Operation, OpClean)
		}
		if entry.Summary.TotalItems != 3 {
			t.Errorf("TotalItems = %v, want 3", entry.Summary.TotalItems)
		}
		if entry.Summary.TotalBytes != 300 {
			t.Errorf("TotalBytes = %v, want 300", entry.Summary.TotalBytes)
		}
		if entry.Summary.Elapsed != 3*time.Second {
			t.Errorf("Elapsed = %v, want 3s", entry.Summary.Elapsed)
		}
	})

	t.Run("generates unique ID with clean prefix", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		entry, err := m.LogClean(nil, 0)
		if err != nil {
			t.Fatalf("LogClean() error = %v", err)
		}

		if !strings.HasPrefix(entry.ID, "clean-") {
			t.Errorf("ID = %q, want clean- prefix", entry.ID)
		}

		other, err := m.LogClean(nil, 0)
		if err != nil {
			t.Fatalf("LogClean() error = %v", err)
		}
		if entry.ID == other.ID {
			t.Error("consecutive entries share an ID")
		}
	})
}

func TestManifest_LogMemFree(t *testing.T) {
	t.Parallel()
	m := setupTestManifest(t)

	entry, err := m.LogMemFree(512<<20, 2*time.Second, "full")
	if err != nil {
		t.Fatalf("LogMemFree() error = %v", err)
	}

	if entry.Operation != OpMemFree {
		t.Errorf("Operation = %v, want %v", entry.Operation, OpMemFree)
	}
	if entry.Summary.TotalBytes != 512<<20 {
		t.Errorf("TotalBytes = %v, want %v", entry.Summary.TotalBytes, 512<<20)
	}
	if entry.Summary.Note != "full" {
		t.Errorf("Note = %q, want full", entry.Summary.Note)
	}
	if len(entry.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0", len(entry.Items))
	}
}

func TestManifest_LogTrash(t *testing.T) {
	t.Parallel()
	m := setupTestManifest(t)

	entry, err := m.LogTrash(14)
	if err != nil {
		t.Fatalf("LogTrash() error = %v", err)
	}
	if entry.Operation != OpTrash {
		t.Errorf("Operation = %v, want %v", entry.Operation, OpTrash)
	}
	if entry.Summary.TotalItems != 14 {
		t.Errorf("TotalItems = %v, want 14", entry.Summary.TotalItems)
	}
}

func TestManifest_List(t *testing.T) {
	t.Parallel()

	t.Run("returns entries newest first", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		for i := 0; i < 3; i++ {
			if _, err := m.LogClean([]ItemRecord{{Path: "/tmp/x", Bytes: int64(i)}}, 0); err != nil {
				t.Fatalf("LogClean() error = %v", err)
			}
			time.Sleep(10 * time.Millisecond)
		}

		entries, err := m.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("len(entries) = %d, want 3", len(entries))
		}
		for i := 1; i < len(entries); i++ {
			if entries[i].Timestamp.After(entries[i-1].Timestamp) {
				t.Error("entries not sorted newest first")
			}
		}
	})

	t.Run("applies limit", func(t *testing.T) {
		t.Parallel()
		m := setupTestManifest(t)

		for i := 0; i < 5; i++ {
			if _, err := m.LogClean(nil, 0); err != nil {
				t.Fatalf("LogClean() error = %v", err)
			}
		}

		entries, err := m.List(2)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("len(entries) = %d, want 2", len(entries))
		}
	})

	t.Run("missing directory yields empty list", func(t *testing.T) {
		t.Parallel()
		m, err := New(filepath.Join(t.TempDir(), "never-created"))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		entries, err := m.List(0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("len(entries) = %d, want 0", len(entries))
		}
	})
}

func TestManifest_Get(t *testing.T) {
	t.Parallel()
	m := setupTestManifest(t)

	created, err := m.LogMemFree(1024, time.Second, "basic")
	if err != nil {
		t.Fatalf("LogMemFree() error = %v", err)
	}

	got, err := m.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}

	if _, err := m.Get("clean-missing"); err == nil {
		t.Error("Get() with unknown ID should return an error")
	}
	if _, err := m.Get(""); err == nil {
		t.Error("Get() with empty ID should return an error")
	}
}

func TestManifest_Cleanup(t *testing.T) {
	t.Parallel()
	m := setupTestManifest(t)

	entry, err := m.LogClean(nil, 0)
	if err != nil {
		t.Fatalf("LogClean() error = %v", err)
	}

	// Age the file past the retention window.
	path := filepath.Join(m.dir, entry.ID+".json")
	old := time.Now().AddDate(0, 0, -40)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	if err := m.Cleanup(30); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Cleanup() left an expired entry behind")
	}
}
