package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a still texture known by its path and pixel dimensions.
type Image struct {
	Path   string
	Format string
	W, H   int
	// ModTime of the probed file; zero when the size was given up front.
	ModTime time.Time
}

// Width implements Texture.
func (i *Image) Width() int { return i.W }

// Height implements Texture.
func (i *Image) Height() int { return i.H }

// ProbeImage reads only the header of the image at path and returns its
// dimensions. Pixel data is left to the engine.
func ProbeImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode image header %s: %w", path, err)
	}
	return &Image{Path: path, Format: format, W: cfg.Width, H: cfg.Height}, nil
}
