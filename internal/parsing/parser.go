// Package parsing turns OCR text of an Albanian receipt into line items, a
// date and a total.
package parsing

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// LineItem is one purchased article and its price in Lek.
type LineItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// ParsedReceipt is what could be read from one receipt. Date and Total are
// nil when the text did not contain them.
type ParsedReceipt struct {
	Items []LineItem       `json:"items"`
	Date  *time.Time       `json:"date,omitempty"`
	Total *decimal.Decimal `json:"total,omitempty"`
}

// Empty reports whether nothing at all was recognized.
func (r ParsedReceipt) Empty() bool {
	return len(r.Items) == 0 && r.Date == nil && r.Total == nil
}

// Options tune the heuristics.
type Options struct {
	// DatePolicy picks among several dates of the same kind. Dates on a line
	// labeled "Data"/"Date" always beat unlabeled ones.
	DatePolicy TieBreak
	// TotalPolicy picks among several total lines.
	TotalPolicy TieBreak
	// MarkerOptional accepts a bare trailing number as an item price even
	// without an L/Lek marker.
	MarkerOptional bool
}

// DefaultOptions reads the first date and the last total, and requires a
// currency marker on item prices.
func DefaultOptions() Options {
	return Options{
		DatePolicy:  PreferFirst,
		TotalPolicy: PreferLast,
	}
}

// Parser extracts a ParsedReceipt from receipt text. It holds no state
// between calls and is safe for concurrent use.
type Parser struct {
	opts Options
}

// New creates a Parser with the given options.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

var defaultParser = New(DefaultOptions())

// Parse parses text with DefaultOptions.
func Parse(text string) ParsedReceipt {
	return defaultParser.Parse(text)
}

// Options returns the options the parser was created with.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse reads text line by line. It never fails: lines it cannot make sense
// of are skipped.
func (p *Parser) Parse(text string) ParsedReceipt {
	laterDate := func(a, b time.Time) bool { return a.After(b) }
	labeledDate := candidate[time.Time]{policy: p.opts.DatePolicy, greater: laterDate}
	plainDate := candidate[time.Time]{policy: p.opts.DatePolicy, greater: laterDate}
	total := candidate[decimal.Decimal]{
		policy:  p.opts.TotalPolicy,
		greater: func(a, b decimal.Decimal) bool { return a.GreaterThan(b) },
	}

	result := ParsedReceipt{Items: []LineItem{}}
	for raw := range strings.Lines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		d, hasDate := FindDate(line)
		if hasDate {
			if hasDateLabel(line) {
				labeledDate.offer(d)
			} else {
				plainDate.offer(d)
			}
		}

		if isTotalLine(line) {
			// a negative amount on a total line is a discount, never the total
			if a, ok := findAmount(line, true); ok && !a.value.IsNegative() {
				total.offer(a.value)
			}
			continue
		}

		if hasDate || isNonItemLine(line) {
			continue
		}

		if item, ok := p.matchItem(line); ok {
			result.Items = append(result.Items, item)
		}
	}

	if d, ok := labeledDate.get(); ok {
		result.Date = &d
	} else if d, ok := plainDate.get(); ok {
		result.Date = &d
	}
	if t, ok := total.get(); ok {
		result.Total = &t
	}
	return result
}

// matchItem reads "<name> <amount>" lines. Discounts and other negative
// amounts are not items.
func (p *Parser) matchItem(line string) (LineItem, bool) {
	a, ok := findAmount(line, p.opts.MarkerOptional)
	if !ok || !a.value.IsPositive() {
		return LineItem{}, false
	}
	name := itemName(line[:a.start])
	if countLetters(name) < 2 {
		return LineItem{}, false
	}
	return LineItem{
		Name:     name,
		Price:    a.value,
		Category: Categorize(name),
	}, true
}

var (
	// "2 x", "3 * 100", "2 x 1.200" left from quantity and unit price columns
	quantityRe = regexp.MustCompile(`(?i)(?:^|\s)\d+(?:[.,]\d+)?\s*[x×*@](?:\s*` + numberExpr + `)?$`)

	// "1L", "1.5l" glued to a name is a volume, not a price
	volumeRe = regexp.MustCompile(`^\d+(?:[.,]\d+)?[Ll]$`)
)

// itemName is the text before the price with unit price and quantity
// columns removed: "Kafe 2 x 100 L" becomes "Kafe".
func itemName(s string) string {
	name := cleanName(s)
	for {
		a, ok := findAmount(name, false)
		if !ok || cleanName(name[a.end:]) != "" || volumeRe.MatchString(name[a.start:a.end]) {
			break
		}
		name = cleanName(name[:a.start])
	}
	if loc := quantityRe.FindStringIndex(name); loc != nil {
		name = cleanName(name[:loc[0]])
	}
	return name
}

// cleanName strips separators OCR leaves around the name, such as dotted
// leaders, colons and dashes.
func cleanName(s string) string {
	isNameRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == ')' || r == '%'
	}
	s = strings.TrimRightFunc(s, func(r rune) bool { return !isNameRune(r) })
	s = strings.TrimLeftFunc(s, func(r rune) bool { return !isNameRune(r) && r != '(' })
	return strings.Join(strings.Fields(s), " ")
}

func countLetters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
