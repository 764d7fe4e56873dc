// Package capture saves rendered frames as PNG files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Saver writes screenshots into a directory.
type Saver struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewSaver creates a saver writing <prefix>_<timestamp>.png files into dir.
// An empty dir means the working directory.
func NewSaver(dir, prefix string) *Saver {
	return &Saver{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture will use.
func (s *Saver) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, s.now().Format("2006-01-02_15-04-05"))
	return filepath.Join(s.dir, name)
}

// SavePixels writes bottom-up RGBA rows, as read back from the GL default
// framebuffer, as a top-down PNG.
func (s *Saver) SavePixels(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: %dx%d needs %d bytes, got %d",
			width, height, width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return s.Save(img)
}

// Save encodes img into a new file and returns its path.
func (s *Saver) Save(img image.Image) (string, error) {
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return "", fmt.Errorf("create screenshot dir: %w", err)
		}
	}

	path := s.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create screenshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
