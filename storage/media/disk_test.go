package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scsit/ges/core"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "/media", 2*1024*1024)
	ctx := context.Background()

	t.Run("saves thumbnail", func(t *testing.T) {
		url, err := store.SaveImage(ctx, "avatars", pngBytes(t, 600, 300))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "/media/avatars/"))
		assert.True(t, strings.HasSuffix(url, ".png"))

		fp := filepath.Join(dir, strings.TrimPrefix(url, "/media/"))
		img, err := imaging.Open(fp)
		require.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
		assert.Equal(t, 128, img.Bounds().Dy())

		require.NoError(t, store.Delete(ctx, url))
		_, err = os.Stat(fp)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("keeps small images", func(t *testing.T) {
		url, err := store.SaveImage(ctx, "avatars", pngBytes(t, 40, 20))
		require.NoError(t, err)
		img, err := imaging.Open(filepath.Join(dir, strings.TrimPrefix(url, "/media/")))
		require.NoError(t, err)
		assert.Equal(t, 40, img.Bounds().Dx())
	})

	t.Run("too large", func(t *testing.T) {
		_, err := store.SaveImage(ctx, "avatars", make([]byte, 3*1024*1024))
		assert.Equal(t, core.ErrFileTooLarge, err)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := store.SaveImage(ctx, "avatars", []byte("%PDF-1.4 definitely not a picture"))
		assert.Equal(t, core.ErrUnsupportedFileType, err)
	})

	t.Run("delete ignores foreign urls", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "https://cdn.example.com/a.png"))
		assert.NoError(t, store.Delete(ctx, "/media/../etc/passwd"))
	})
}
