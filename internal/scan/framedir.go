package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kioskworks/qrkiosk/internal/filex"
)

// ErrBadFrame marks a frame that could not be acquired or decoded as an
// image. The scan loop skips such frames; any other source error is treated
// as a real acquisition failure.
var ErrBadFrame = errors.New("bad frame")

// DirSource is a spool-directory frame source: an external capture process
// drops JPEG/PNG frames into the directory and the kiosk consumes them in
// name order, deleting each file after it is read. Next blocks, polling,
// until a frame arrives or ctx is done.
type DirSource struct {
	dir  string
	poll time.Duration
}

func NewDirSource(dir string, poll time.Duration) (*DirSource, error) {
	if err := filex.EnsureDir(dir); err != nil {
		return nil, err
	}
	return &DirSource{dir: dir, poll: poll}, nil
}

func (s *DirSource) Next(ctx context.Context) (image.Image, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, ok, err := s.oldestFrame()
		if err != nil {
			return nil, err
		}
		if ok {
			img, err := s.consume(path)
			if err != nil {
				// unreadable spool file: drop it so it cannot clog the spool
				_ = os.Remove(path)
				return nil, fmt.Errorf("%w %s: %v", ErrBadFrame, filepath.Base(path), err)
			}
			return img, nil
		}

		t := time.NewTimer(s.poll)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		}
	}
}

func (s *DirSource) oldestFrame() (string, bool, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", false, fmt.Errorf("read spool dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".jpg", ".jpeg", ".png":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false, nil
	}

	sort.Strings(names)
	return filepath.Join(s.dir, names[0]), true, nil
}

func (s *DirSource) consume(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	if err := os.Remove(path); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *DirSource) Close() error {
	return nil
}
