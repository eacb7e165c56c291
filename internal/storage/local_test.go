package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalListFiltersAndSorts(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "fall-2026")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c.WEBP"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	l := NewLocal(base, "/galleries/")
	objs, err := l.List(context.Background(), "fall-2026")
	require.NoError(t, err)

	require.Len(t, objs, 3)
	assert.Equal(t, "fall-2026/a.png", objs[0].Key)
	assert.Equal(t, "/galleries/fall-2026/a.png", objs[0].URL)
	assert.Equal(t, "fall-2026/b.jpg", objs[1].Key)
	assert.Equal(t, "fall-2026/c.WEBP", objs[2].Key)
}

func TestLocalListUnknownGalleryIsEmpty(t *testing.T) {
	l := NewLocal(t.TempDir(), "/galleries")
	objs, err := l.List(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestLocalListConfinesGalleryName(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "secret"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "secret", "img.jpg"), []byte("x"), 0o644))

	l := NewLocal(filepath.Join(base, "galleries"), "/galleries")
	objs, err := l.List(context.Background(), "../secret")
	require.NoError(t, err)
	// path traversal collapses to the bare name, which does not exist here
	assert.Empty(t, objs)
}
