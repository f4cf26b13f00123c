package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/pkg/logger"
)

func TestObjectName(t *testing.T) {
	name := ObjectName(".PNG")
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotEqual(t, name, ObjectName("png"))
	assert.NotContains(t, ObjectName(""), ".")
}

func TestLocalStoreSaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir, "/uploads/", logger.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	url, err := store.Save(ctx, "a.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Remove(ctx, url))
	_, err = os.Stat(filepath.Join(dir, "a.png"))
	assert.True(t, os.IsNotExist(err))

	// Removing again is not an error.
	assert.NoError(t, store.Remove(ctx, url))
}

func TestLocalStoreRejectsPaths(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads", logger.NewNop())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../escape.png", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestS3KeyFor(t *testing.T) {
	s := &S3Store{publicURL: "https://cdn.example.com/media"}
	assert.Equal(t, "abc.png", s.keyFor("https://cdn.example.com/media/abc.png"))
	assert.Equal(t, "abc.png", s.keyFor("https://bucket.s3.amazonaws.com/abc.png"))
}
