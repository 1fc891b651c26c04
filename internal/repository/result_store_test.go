package repository

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileResultStoreOverwrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/available.txt", []byte("stale.com\n"), 0o644))

	store := NewFileResultStore(fs, "/out/available.txt", false)
	require.NoError(t, store.Save(context.Background(), []string{"beta.com", "alpha.com"}))

	got, err := afero.ReadFile(fs, "/out/available.txt")
	require.NoError(t, err)
	assert.Equal(t, "beta.com\nalpha.com\n", string(got))

	leftovers, err := afero.Glob(fs, "/out/available.txt.tmp-*")
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileResultStoreOverwriteEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/available.txt", []byte("stale.com\n"), 0o644))

	store := NewFileResultStore(fs, "/out/available.txt", false)
	require.NoError(t, store.Save(context.Background(), nil))

	got, err := afero.ReadFile(fs, "/out/available.txt")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileResultStoreAppend(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileResultStore(fs, "/available.txt", true)

	require.NoError(t, store.Save(context.Background(), []string{"alpha.com"}))
	require.NoError(t, store.Save(context.Background(), nil))
	require.NoError(t, store.Save(context.Background(), []string{"beta.com"}))

	got, err := afero.ReadFile(fs, "/available.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha.com\nbeta.com\n", string(got))
}

func TestFileResultStoreCanceled(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileResultStore(fs, "/available.txt", false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, []string{"alpha.com"}), context.Canceled)
}
