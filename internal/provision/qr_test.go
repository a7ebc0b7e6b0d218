package provision

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_WritesScannablePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "qr_images")
	w := NewQRWriter(dir)

	require.NoError(t, w.Generate("h65ld310", "JohnBuck.png"))

	f, err := os.Open(filepath.Join(dir, "JohnBuck.png"))
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, imageSize, img.Bounds().Dx())
}

func TestGenerate_CreatesDirLazily(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "qr_images")
	w := NewQRWriter(dir)

	_, statErr := os.Stat(dir)
	require.True(t, os.IsNotExist(statErr))

	require.NoError(t, w.Generate("d08ae169", "JaneDoe.png"))

	_, err := os.Stat(filepath.Join(dir, "JaneDoe.png"))
	require.NoError(t, err)
}
