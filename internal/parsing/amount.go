package parsing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Grouped thousands are tried before plain digits so that "1.200" reads as
// 1200 and not 1.2. Albanian print also groups with a space or a no-break
// space: "1 200,50".
const (
	groupSeparators = ".,\u00a0\u202f "
	numberExpr      = `(\d{1,3}(?:[.,\x{00A0}\x{202F} ]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)`
	markerExpr      = `(?:[Ll][Ee][Kk][EeËë]?|ALL|L)`
)

var (
	// 150 L, 1.200L, 90 Lek
	trailingMarkerRe = regexp.MustCompile(`(?:^|[^\d.,])(` + numberExpr + `\s*` + markerExpr + `)(?:$|[^\p{L}\d])`)

	// L 150, Lek 90
	leadingMarkerRe = regexp.MustCompile(`(?:^|[^\p{L}\d])(` + markerExpr + `\s*` + numberExpr + `)(?:$|[^\d.,])`)

	bareNumberRe = regexp.MustCompile(`(?:^|[^\d.,])(` + numberExpr + `)(?:$|[^\d.,])`)
)

// amount is a matched currency amount and where its token sits in the line.
// A minus sign glued to the number makes the value negative.
type amount struct {
	value decimal.Decimal
	start int
	end   int
}

// findAmount returns the right-most Lek amount on the line. When bare is
// true a number without any currency marker is accepted as a fallback.
func findAmount(line string, bare bool) (amount, bool) {
	best, found := amount{start: -1}, false
	for _, re := range []*regexp.Regexp{trailingMarkerRe, leadingMarkerRe} {
		if a, ok := lastAmount(re, line); ok && a.start > best.start {
			best, found = a, true
		}
	}
	if found || !bare {
		return best, found
	}
	return lastAmount(bareNumberRe, line)
}

// lastAmount scans every match of re and keeps the right-most one whose
// number parses. Group 1 is the whole token, group 2 the number.
func lastAmount(re *regexp.Regexp, line string) (amount, bool) {
	var (
		result amount
		found  bool
	)
	for _, m := range matchAll(re, line) {
		value, ok := parseNumber(line[m[4]:m[5]])
		if !ok {
			continue
		}
		if before := line[:m[4]]; strings.HasSuffix(before, "-") || strings.HasSuffix(before, "−") {
			value = value.Neg()
		}
		result, found = amount{value: value, start: m[2], end: m[3]}, true
	}
	return result, found
}

// matchAll is FindAllStringSubmatchIndex that also finds matches whose
// leading boundary character was consumed by the previous match.
func matchAll(re *regexp.Regexp, s string) [][]int {
	var matches [][]int
	for offset := 0; offset < len(s); {
		m := re.FindStringSubmatchIndex(s[offset:])
		if m == nil {
			break
		}
		for i := range m {
			if m[i] >= 0 {
				m[i] += offset
			}
		}
		matches = append(matches, m)
		// resume right after the token so a trailing boundary can start the next match
		offset = m[3]
	}
	return matches
}

// parseNumber converts a Lek number token to a decimal. A separator followed
// by one or two digits at the end is the decimal separator; every other
// separator groups thousands.
func parseNumber(token string) (decimal.Decimal, bool) {
	intPart, frac := token, ""
	if i := strings.LastIndexAny(token, ".,"); i >= 0 && len(token)-i-1 <= 2 {
		intPart, frac = token[:i], token[i+1:]
	}
	intPart = strings.Map(func(r rune) rune {
		if strings.ContainsRune(groupSeparators, r) {
			return -1
		}
		return r
	}, intPart)
	if intPart == "" {
		return decimal.Zero, false
	}
	if frac != "" {
		intPart += "." + frac
	}
	value, err := decimal.NewFromString(intPart)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}
