package receipt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-reader/internal/parsing"
)

// Currency is the ISO code of the only currency receipts are read in
const Currency = "ALL"

// Receipt represents a scanned receipt with the data parsed from it
type Receipt struct {
	ID           string             `json:"id"`
	Filename     string             `json:"filename"`
	OriginalName string             `json:"original_name"`
	ContentType  string             `json:"content_type"`
	Currency     string             `json:"currency"`
	RawText      string             `json:"raw_text"`
	Items        []parsing.LineItem `json:"items"`
	Date         *time.Time         `json:"date,omitempty"`
	Total        *decimal.Decimal   `json:"total,omitempty"`
	Unreadable   bool               `json:"unreadable"` // nothing could be parsed from the text
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// applyParse copies a parse result onto the receipt
func (r *Receipt) applyParse(parsed parsing.ParsedReceipt) {
	r.Items = parsed.Items
	r.Date = parsed.Date
	r.Total = parsed.Total
	r.Unreadable = parsed.Empty()
}

// Question is a spending question asked about the receipt history
type Question struct {
	ID      string    `json:"id"`
	Text    string    `json:"question"`
	Answer  string    `json:"answer"`
	AskedAt time.Time `json:"asked_at"`
}
