package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l := NewLocalFs(afero.NewMemMapFs(), "http://localhost/storage/")

	key, err := l.Store(ctx, "projects/attachments/a.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "projects/attachments/a.txt", key)
	assert.Equal(t, "http://localhost/storage/projects/attachments/a.txt", l.URL(key))

	ok, err := l.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := l.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "hello", string(body))

	removed, err := l.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = l.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = l.Download(ctx, key)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocal_RejectsEmptyPath(t *testing.T) {
	l := NewLocalFs(afero.NewMemMapFs(), "")
	_, err := l.Store(context.Background(), "/", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocal_CleansTraversal(t *testing.T) {
	ctx := context.Background()
	l := NewLocalFs(afero.NewMemMapFs(), "")

	key, err := l.Store(ctx, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", key)
}
