package parsing

import (
	"regexp"
	"strings"
)

// wordsRe matches any of words as a whole word, case-insensitively. Go's \b
// only understands ASCII, so the boundaries are spelled out to keep
// Albanian letters such as ë inside words.
func wordsRe(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:` + strings.Join(quoted, "|") + `)(?:[^\p{L}]|$)`)
}

var (
	totalWordsRe = wordsRe("total", "totali", "totale", "shuma", "sum", "gjithsej", "amount")

	subtotalWordsRe = wordsRe("subtotal", "nëntotal", "nentotal", "nëntotali", "nentotali")
	taxWordsRe      = wordsRe("tvsh", "vat", "tax")

	// "TOTALI ME TVSH", "Total incl. VAT": the grand total with tax included
	taxIncludedRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:me|incl|including|inclusive|with|përfshirë|perfshire)[^\p{L}]+(?:tvsh|vat|tax)(?:[^\p{L}]|$)`)

	nonItemWordsRe = wordsRe(
		"subtotal", "nëntotal", "nentotal", "nëntotali", "nentotali",
		"cash", "change", "kusur", "kusuri", "para",
		"vat", "tvsh", "tax",
		"receipt", "kupon", "kuponi", "invoice", "fature", "faturë", "fatura",
		"nipt", "nuis", "business", "merchant", "operator", "operatori", "kasier", "kasieri",
		"address", "adresa", "adresë", "tel", "telefon", "cel",
		"terminal", "reference", "order", "porosi", "nr", "id", "code", "kodi",
		"date", "data", "time", "ora",
	)
)

// isTotalLine reports whether the line carries the receipt total. Partial
// sums and lines measuring the tax itself ("TVSH 20%", "Totali pa TVSH",
// "Total VAT") are not totals.
func isTotalLine(line string) bool {
	if !totalWordsRe.MatchString(line) || subtotalWordsRe.MatchString(line) {
		return false
	}
	return !taxWordsRe.MatchString(line) || taxIncludedRe.MatchString(line)
}

func isNonItemLine(line string) bool {
	return nonItemWordsRe.MatchString(line)
}

// Category names assigned to line items.
const (
	CategoryFood    = "food"
	CategoryClothes = "clothes"
	CategoryOther   = "other"
)

var categoryWords = []struct {
	category string
	words    []string
}{
	{CategoryClothes, []string{
		"shirt", "pants", "jeans", "dress", "shoes", "jacket", "coat", "clothes", "t-shirt",
		"kemish", "pantallona", "xhinse", "fustan", "këpucë", "kepuce", "xhaket", "pallto", "rroba", "bluz",
	}},
	{CategoryFood, []string{
		"bread", "milk", "egg", "cheese", "meat", "apple", "banana", "food", "pizza", "burger",
		"salad", "rice", "chicken", "beef", "fish", "vegetable", "fruit",
		"bukë", "buke", "qumësht", "qumesht", "vezë", "veze", "djathë", "djathe", "mish", "moll",
		"banane", "pica", "sallat", "oriz", "pulë", "pule", "peshk", "perime", "fruta", "gjalp",
	}},
}

// Categorize assigns a coarse category to an item name from keywords it
// contains.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categoryWords {
		for _, w := range c.words {
			if strings.Contains(lower, w) {
				return c.category
			}
		}
	}
	return CategoryOther
}
