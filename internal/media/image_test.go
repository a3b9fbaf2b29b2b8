package media

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pano.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 32))))
	require.NoError(t, f.Close())

	img, err := ProbeImage(path)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Width())
	assert.Equal(t, 32, img.Height())
	assert.Equal(t, "png", img.Format)
}

func TestProbeImageErrors(t *testing.T) {
	_, err := ProbeImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, err = ProbeImage(path)
	assert.Error(t, err)
}
