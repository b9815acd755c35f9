package scanning

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// minOCRWidth is the width below which pages are upscaled before OCR.
// Phone photos of narrow thermal receipts often land under it.
const minOCRWidth = 1500

// preprocess prepares a PNG page for Tesseract: grayscale, upscale small
// images 2x, then boost contrast and sharpen faded thermal print.
func preprocess(page []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(page), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}

	gray := imaging.Grayscale(img)
	if w := gray.Bounds().Dx(); w > 0 && w < minOCRWidth {
		gray = imaging.Resize(gray, w*2, 0, imaging.Lanczos)
	}
	gray = imaging.AdjustContrast(gray, 20)
	gray = imaging.Sharpen(gray, 1)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding page: %w", err)
	}
	return buf.Bytes(), nil
}
