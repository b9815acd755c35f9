// Package insights answers simple spending questions over the receipt
// history, in English with Albanian month and category names accepted.
package insights

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-reader/internal/parsing"
)

const (
	noReceiptsAnswer = "No receipts found."
	helpAnswer       = "Sorry, I can answer questions like 'How much did I spend on food in May 2025?' or 'What did I buy on 2025-03-05?'."
)

// Purchase is a single line item together with the date of its receipt
type Purchase struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Date     time.Time
}

var (
	spendRe = regexp.MustCompile(`(?i)spen[dt](?:ing)?\s+on\s+(\p{L}+)`)
	monthRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:(last|this)\s+)?(\p{L}+)`)
	yearRe  = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)
	whichRe = regexp.MustCompile(`(?i)\b(last|this)\s+year\b`)
)

var months = map[string]time.Month{
	"january": time.January, "janar": time.January,
	"february": time.February, "shkurt": time.February,
	"march": time.March, "mars": time.March,
	"april": time.April, "prill": time.April,
	"may": time.May, "maj": time.May,
	"june": time.June, "qershor": time.June,
	"july": time.July, "korrik": time.July,
	"august": time.August, "gusht": time.August,
	"september": time.September, "shtator": time.September,
	"october": time.October, "tetor": time.October,
	"november": time.November, "nëntor": time.November, "nentor": time.November,
	"december": time.December, "dhjetor": time.December,
}

var categories = map[string]string{
	"food":      parsing.CategoryFood,
	"foods":     parsing.CategoryFood,
	"ushqim":    parsing.CategoryFood,
	"ushqime":   parsing.CategoryFood,
	"groceries": parsing.CategoryFood,
	"clothes":   parsing.CategoryClothes,
	"clothing":  parsing.CategoryClothes,
	"veshje":    parsing.CategoryClothes,
	"other":     parsing.CategoryOther,
	"tjera":     parsing.CategoryOther,
}

// skippedNames are line items left out of per-day listings
var skippedNames = []string{"delivery", "service fee", "tira"}

// period is a month and/or year filter; zero fields match anything
type period struct {
	month time.Month
	year  int
}

func (p period) contains(t time.Time) bool {
	if p.year != 0 && t.Year() != p.year {
		return false
	}
	return p.month == 0 || t.Month() == p.month
}

func (p period) String() string {
	switch {
	case p.month != 0 && p.year != 0:
		return fmt.Sprintf("%s %d", p.month, p.year)
	case p.month != 0:
		return p.month.String()
	case p.year != 0:
		return strconv.Itoa(p.year)
	}
	return ""
}

// Answer replies to a spending question using the purchase history.
// receipts is the number of stored receipts, including those without a date
// or readable items.
func Answer(question string, receipts int, history []Purchase, now time.Time) string {
	if receipts == 0 {
		return noReceiptsAnswer
	}

	if m := spendRe.FindStringSubmatchIndex(question); m != nil {
		word := strings.ToLower(question[m[2]:m[3]])
		rest := question[m[1]:]
		return answerCategory(categoryFor(word), parsePeriod(rest, now), history)
	}

	if day, ok := parsing.FindDate(question); ok {
		return answerDay(day, history)
	}

	return helpAnswer
}

func categoryFor(word string) string {
	if c, ok := categories[word]; ok {
		return c
	}
	return word
}

// parsePeriod reads "May 2025", "last may", "this june", "2024" or
// "last year" from the tail of a question
func parsePeriod(s string, now time.Time) period {
	var p period

	if m := yearRe.FindStringSubmatch(s); m != nil {
		p.year, _ = strconv.Atoi(m[1])
	}

	for _, m := range monthRe.FindAllStringSubmatch(s, -1) {
		month, ok := months[strings.ToLower(m[2])]
		if !ok {
			continue
		}
		p.month = month
		if p.year == 0 {
			p.year = now.Year()
			if strings.EqualFold(m[1], "last") {
				p.year--
			}
		}
		return p
	}

	if p.year == 0 {
		if m := whichRe.FindStringSubmatch(s); m != nil {
			p.year = now.Year()
			if strings.EqualFold(m[1], "last") {
				p.year--
			}
		}
	}
	return p
}

func answerCategory(category string, p period, history []Purchase) string {
	total := decimal.Zero
	found := false
	for _, purchase := range history {
		if purchase.Category != category || !p.contains(purchase.Date) {
			continue
		}
		total = total.Add(purchase.Price)
		found = true
	}

	label := p.String()
	if !found {
		if label == "" {
			return fmt.Sprintf("No %s purchases found.", category)
		}
		return fmt.Sprintf("No %s purchases found for %s.", category, label)
	}
	if label == "" {
		return fmt.Sprintf("You spent a total of %s on %s.", parsing.FormatLek(total), category)
	}
	return fmt.Sprintf("You spent a total of %s on %s in %s.", parsing.FormatLek(total), category, label)
}

func answerDay(day time.Time, history []Purchase) string {
	var names []string
	total := decimal.Zero
	seen := map[string]bool{}
	for _, purchase := range history {
		if !sameDay(purchase.Date, day) {
			continue
		}
		name := strings.TrimSpace(purchase.Name)
		if name == "" || seen[name] || skipped(name) {
			continue
		}
		seen[name] = true
		names = append(names, name)
		total = total.Add(purchase.Price)
	}

	date := day.Format("2006-01-02")
	if len(names) == 0 {
		return fmt.Sprintf("No items found for %s.", date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "On %s, you spent a total of %s.\n\nItems purchased:", date, parsing.FormatLek(total))
	for _, name := range names {
		b.WriteString("\n- ")
		b.WriteString(name)
	}
	return b.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func skipped(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range skippedNames {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
