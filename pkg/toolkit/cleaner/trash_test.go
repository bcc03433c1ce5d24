package cleaner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveToTrash(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

	err := MoveToTrash(tmpFile)
	require.NoError(t, err)

	// File should no longer exist at original path
	_, err = os.Stat(tmpFile)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveToTrash_Directory(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "testdir")
	require.NoError(t, os.Mkdir(testDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(testDir, "file.txt"), []byte("content"), 0o644))

	err := MoveToTrash(testDir)
	require.NoError(t, err)

	// Directory should no longer exist at original path
	_, err = os.Stat(testDir)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveToTrash_NonexistentFile(t *testing.T) {
	nonexistent := filepath.Join(t.TempDir(), "nonexistent.txt")

	err := MoveToTrash(nonexistent)
	assert.Error(t, err)
}

func TestCleanToTrash(t *testing.T) {
	target := t.TempDir()
	wantBytes := populate(t, target)

	t.Setenv("TMPDIR", t.TempDir())

	c := New()
	result, err := c.Clean(context.Background(), Options{
		Targets: []string{target},
		ToTrash: true,
	})
	require.NoError(t, err)

	var tr *TargetResult
	for i := range result.Targets {
		if result.Targets[i].Path == mustResolve(t, target) {
			tr = &result.Targets[i]
		}
	}
	require.NotNil(t, tr, "target %s missing from results", target)

	assert.Equal(t, 3, tr.ItemsRemoved)
	assert.Equal(t, wantBytes, tr.BytesFreed)
	assert.Empty(t, tr.Errors)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries, "target should be empty after trashing")
}
