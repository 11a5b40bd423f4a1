package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir(), "http://localhost:5000/uploads/")

	require.NoError(t, d.Put(ctx, "products/pho.jpg", strings.NewReader("jpeg"), "image/jpeg"))
	assert.True(t, d.Exists(ctx, "products/pho.jpg"))

	rc, err := d.Open(ctx, "products/pho.jpg")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg", string(body))

	assert.Equal(t, "http://localhost:5000/uploads/products/pho.jpg", d.URL("products/pho.jpg"))

	require.NoError(t, d.Delete(ctx, "products/pho.jpg"))
	assert.False(t, d.Exists(ctx, "products/pho.jpg"))
	assert.NoError(t, d.Delete(ctx, "products/pho.jpg"))
}

func TestLocalDisk_RejectsEscape(t *testing.T) {
	d := NewLocalDisk(t.TempDir(), "")
	err := d.Put(context.Background(), "../evil.txt", strings.NewReader("x"), "")
	assert.Error(t, err)
}

func TestDefaultDisk(t *testing.T) {
	d := NewLocalDisk(t.TempDir(), "http://cdn")
	RegisterDisk("test", d)
	SetDefault("test")
	defer SetDefault("local")

	require.NoError(t, Put(context.Background(), "a.png", strings.NewReader("png"), "image/png"))
	assert.Equal(t, "http://cdn/a.png", URL("a.png"))
}
