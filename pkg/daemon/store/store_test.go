package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func snapAt(ts time.Time, cpu float64) *types.Snapshot {
	return &types.Snapshot{Timestamp: ts, CPUPercent: cpu}
}

func TestStore_PutAndLatest(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Put(snapAt(base, 10)))
	require.NoError(t, s.Put(snapAt(base.Add(2*time.Second), 20)))
	require.NoError(t, s.Put(snapAt(base.Add(4*time.Second), 30)))

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, 30.0, latest.CPUPercent)
}

func TestStore_Latest_Empty(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStore_Range(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Put(snapAt(base.Add(time.Duration(i)*time.Second), float64(i))))
	}

	t.Run("all snapshots oldest first", func(t *testing.T) {
		snaps, err := s.Range(time.Time{}, 0)
		require.NoError(t, err)
		require.Len(t, snaps, 5)
		assert.Equal(t, 0.0, snaps[0].CPUPercent)
		assert.Equal(t, 4.0, snaps[4].CPUPercent)
	})

	t.Run("since filters older entries", func(t *testing.T) {
		snaps, err := s.Range(base.Add(3*time.Second), 0)
		require.NoError(t, err)
		require.Len(t, snaps, 2)
		assert.Equal(t, 3.0, snaps[0].CPUPercent)
	})

	t.Run("limit caps results", func(t *testing.T) {
		snaps, err := s.Range(time.Time{}, 2)
		require.NoError(t, err)
		assert.Len(t, snaps, 2)
	})
}

func TestStore_Prune(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Put(snapAt(base.Add(time.Duration(i)*time.Minute), float64(i))))
	}

	removed, err := s.Prune(base.Add(3 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	snaps, err := s.Range(time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 3.0, snaps[0].CPUPercent)
}

func TestStore_Schema(t *testing.T) {
	s := openTestStore(t)

	assert.Nil(t, s.GetSchema())

	require.NoError(t, s.EnsureSchema())

	schema := s.GetSchema()
	require.NotNil(t, schema)
	assert.Equal(t, CurrentSchemaVersion, schema.Version)

	// Schema key must not show up as a snapshot.
	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
