package scan

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// QRDecoder decodes QR codes from frames using gozxing. The kiosk assumes at
// most one code is visible at a time, so only the first hit is returned.
type QRDecoder struct {
	reader gozxing.Reader
}

func NewQRDecoder() *QRDecoder {
	return &QRDecoder{reader: qrcode.NewQRCodeReader()}
}

func (d *QRDecoder) Decode(frame image.Image) (string, bool, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(frame)
	if err != nil {
		return "", false, err
	}

	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		// "nothing found" is the normal empty-frame case, not a failure
		if _, notFound := err.(gozxing.NotFoundException); notFound {
			return "", false, nil
		}
		return "", false, err
	}

	return result.GetText(), true, nil
}
