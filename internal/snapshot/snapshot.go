// Package snapshot writes the annotated audit image for each accepted scan:
// the captured frame with the decision message, access code, and timestamp
// drawn on it, saved as {code}-{timestamp}.jpg under the log-image directory.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kioskworks/qrkiosk/internal/filex"
)

// Text layout on the annotated frame, top to bottom.
const (
	textX      = 16
	messageY   = 40
	codeY      = 64
	timestampY = 88
)

// Writer persists annotated snapshots. The target directory is created
// lazily on the first save.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Save overlays the message, code, and timestamp on a copy of the frame in
// the given color and writes it as JPEG. Returns the path of the saved file.
func (w *Writer) Save(frame image.Image, message string, clr color.Color, code, timestamp string) (string, error) {
	if err := filex.EnsureDir(w.dir); err != nil {
		return "", err
	}

	annotated := annotate(frame, clr, message, code, timestamp)

	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.jpg", code, timestamp))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, annotated, nil); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return path, nil
}

func annotate(frame image.Image, clr color.Color, lines ...string) *image.RGBA {
	b := frame.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, frame, b.Min, draw.Src)

	ys := []int{messageY, codeY, timestampY}
	for i, line := range lines {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(clr),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(b.Min.X+textX, b.Min.Y+ys[i]),
		}
		d.DrawString(line)
	}
	return dst
}
