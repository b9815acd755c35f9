package scanning

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements the Scanner interface using a local Tesseract
// installation through gosseract
type Tesseract struct {
	languages []string
}

// NewTesseract creates a Tesseract scanner. languages uses Tesseract's
// plus-separated form, e.g. "eng" or "sqi+eng".
func NewTesseract(languages string) (*Tesseract, error) {
	var langs []string
	for _, l := range strings.Split(languages, "+") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	return &Tesseract{languages: langs}, nil
}

// Languages returns the Tesseract languages in use
func (t *Tesseract) Languages() []string {
	return t.languages
}

// ScanText runs OCR over every page of the document and joins the page texts
func (t *Tesseract) ScanText(ctx context.Context, data []byte, contentType string) (string, error) {
	pages, err := preparePages(data, contentType)
	if err != nil {
		return "", err
	}

	// gosseract clients are not safe for concurrent use, so each scan gets
	// its own
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("setting tesseract language: %w", err)
	}
	// a receipt reads as one uniform block of text
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}

	var text strings.Builder
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		prepared, err := preprocess(page)
		if err != nil {
			return "", fmt.Errorf("preprocessing page %d: %w", i+1, err)
		}
		if err := client.SetImageFromBytes(prepared); err != nil {
			return "", fmt.Errorf("loading page %d: %w", i+1, err)
		}
		pageText, err := client.Text()
		if err != nil {
			return "", fmt.Errorf("recognizing page %d: %w", i+1, err)
		}

		if text.Len() > 0 {
			text.WriteString("\n")
		}
		text.WriteString(pageText)
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", ErrNoText
	}
	return text.String(), nil
}

// Close is a no-op; clients are released after each scan
func (t *Tesseract) Close() error {
	return nil
}
