package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visearch/visearch/domain/vector"
)

func snapshotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "index.bin")
}

func TestSnapshotRoundTrip(t *testing.T) {
	original, err := BuildFlatIndex(3, [][]float64{
		{1, 0, 0},
		{0, 3, 4},
		{0.5, 0.5, 0.5},
	}, true)
	require.NoError(t, err)

	path := snapshotPath(t)
	require.NoError(t, original.Persist(path))

	loaded, err := LoadFlatIndex(path, 3)
	require.NoError(t, err)

	assert.Equal(t, original.Size(), loaded.Size())
	assert.Equal(t, original.Dimension(), loaded.Dimension())
	assert.True(t, loaded.Normalized())
	for i := 0; i < original.Size(); i++ {
		want, _ := original.Vector(i)
		got, _ := loaded.Vector(i)
		assert.Equal(t, want, got, "vector %d", i)
	}
}

func TestSnapshotRoundTripEmptyIndex(t *testing.T) {
	idx, err := NewFlatIndex(4)
	require.NoError(t, err)

	path := snapshotPath(t)
	require.NoError(t, idx.Persist(path))

	loaded, err := LoadFlatIndex(path, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Size())
}

func TestLoadRejectsDimensionMismatch(t *testing.T) {
	idx, err := BuildFlatIndex(3, [][]float64{{1, 0, 0}}, true)
	require.NoError(t, err)

	path := snapshotPath(t)
	require.NoError(t, idx.Persist(path))

	_, err = LoadFlatIndex(path, 512)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestLoadRejectsCorruptedFile(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{{1, 0}}, true)
	require.NoError(t, err)

	path := snapshotPath(t)
	require.NoError(t, idx.Persist(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[snapshotHeaderSize] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = LoadFlatIndex(path, 2)
	assert.ErrorIs(t, err, ErrBadSnapshot)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := snapshotPath(t)
	data := make([]byte, snapshotHeaderSize+4)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := LoadFlatIndex(path, 2)
	assert.ErrorIs(t, err, ErrBadSnapshot)
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	path := snapshotPath(t)
	require.NoError(t, os.WriteFile(path, []byte{0x31, 0x53}, 0o644))

	_, err := LoadFlatIndex(path, 2)
	assert.ErrorIs(t, err, ErrBadSnapshot)
}

func TestReadSnapshotInfo(t *testing.T) {
	idx, err := BuildFlatIndex(3, [][]float64{{1, 0, 0}, {0, 1, 0}}, true)
	require.NoError(t, err)

	path := snapshotPath(t)
	require.NoError(t, idx.Persist(path))

	info, err := ReadSnapshotInfo(path)
	require.NoError(t, err)
	assert.Equal(t, snapshotVersion, info.Version())
	assert.Equal(t, 3, info.Dimension())
	assert.Equal(t, 2, info.Count())
	assert.True(t, info.Normalized())
}

func TestPersistLeavesNoTempFile(t *testing.T) {
	idx, err := BuildFlatIndex(2, [][]float64{{1, 0}}, true)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "index.bin")
	require.NoError(t, idx.Persist(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.bin", entries[0].Name())
}
