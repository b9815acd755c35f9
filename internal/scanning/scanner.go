package scanning

import (
	"context"
	"errors"
)

// ErrNoText is returned when recognition finished but produced only
// whitespace, typically for blurry or blank images.
var ErrNoText = errors.New("no text was recognized in the document")

// Scanner defines the interface for turning a receipt into text
type Scanner interface {
	// ScanText recognizes the text of a receipt image or PDF
	ScanText(ctx context.Context, data []byte, contentType string) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}
