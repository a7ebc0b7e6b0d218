// Package provision generates the scannable QR image handed to a user when
// they are registered: the access code encoded as a PNG under the QR-image
// directory.
package provision

import (
	"fmt"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/kioskworks/qrkiosk/internal/filex"
)

const imageSize = 256 // pixels, square

// QRWriter implements service.Provisioner on top of go-qrcode. The target
// directory is created lazily on first use.
type QRWriter struct {
	dir string
}

func NewQRWriter(dir string) *QRWriter {
	return &QRWriter{dir: dir}
}

// Generate encodes code into a QR image stored under filename. High error
// correction keeps badly printed badges scannable.
func (w *QRWriter) Generate(code, filename string) error {
	if err := filex.EnsureDir(w.dir); err != nil {
		return err
	}

	path := filepath.Join(w.dir, filename)
	if err := qrcode.WriteFile(code, qrcode.High, imageSize, path); err != nil {
		return fmt.Errorf("write qr image: %w", err)
	}
	return nil
}
