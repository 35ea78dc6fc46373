package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := PageKey("PCLiquidations", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 2)
	assert.Equal(t, "archives/pcliquidations/2025-06-01/page_002.txt", key)

	require.NoError(t, s.Put(ctx, key, []byte("page text")))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "page text", string(got))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	keys, err := s.List(ctx, "archives/pcliquidations/")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorageMissingKey(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Get(ctx, "archives/nope/x.txt")
	assert.Error(t, err)

	keys, err := s.List(ctx, "archives/nope/")
	require.NoError(t, err)
	assert.Empty(t, keys)

	assert.NoError(t, s.Delete(ctx, "archives/nope/x.txt"))
}

func TestKeyTraversalStripped(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path := s.keyToPath("../../etc/passwd")
	assert.Contains(t, path, dir)
}

func TestGetDetectsCorruptedContent(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	key := "archives/discountpc/2025-06-01/page_001.txt"
	require.NoError(t, s.Put(ctx, key, []byte("original page text")))

	// Flip the stored bytes behind the storage layer's back.
	require.NoError(t, os.WriteFile(s.keyToPath(key), []byte("tampered"), 0o644))

	_, err = s.Get(ctx, key)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestListSkipsChecksumSidecars(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "archives/a/one.txt", []byte("1")))
	require.NoError(t, s.Put(ctx, "archives/a/two.txt", []byte("2")))

	keys, err := s.List(ctx, "archives/a/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"archives/a/one.txt", "archives/a/two.txt"}, keys)
}

func TestComputeChecksum(t *testing.T) {
	a := ComputeChecksum([]byte("abc"))
	b := ComputeChecksum([]byte("abc"))
	c := ComputeChecksum([]byte("abd"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
