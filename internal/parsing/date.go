package parsing

import (
	"regexp"
	"strconv"
	"time"
)

type dateOrder int

const (
	dayFirst dateOrder = iota
	yearFirst
)

var datePatterns = []struct {
	re    *regexp.Regexp
	order dateOrder
}{
	// 2024-03-12, 2024/03/12
	{regexp.MustCompile(`(?:^|\D)(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})(?:\D|$)`), yearFirst},
	// 12.03.2024, 12/03/2024, 12-03-2024, 12.03.24
	{regexp.MustCompile(`(?:^|[^\d.,])(\d{1,2})[-/.](\d{1,2})[-/.](\d{4}|\d{2})(?:[^\d.,]|$)`), dayFirst},
}

var dateLabelRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:data|date|datë|datën)(?:[^\p{L}]|$)`)

// FindDate returns the first valid calendar date in s. Day-first readings
// are preferred; a month-first reading is used only when the day-first one
// is impossible.
func FindDate(s string) (time.Time, bool) {
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(s, -1) {
			first, _ := strconv.Atoi(m[1])
			second, _ := strconv.Atoi(m[2])
			third, _ := strconv.Atoi(m[3])

			if p.order == yearFirst {
				if d, ok := calendarDate(first, second, third); ok {
					return d, true
				}
				continue
			}

			year := third
			if len(m[3]) == 2 {
				year += 2000
			}
			if d, ok := calendarDate(year, second, first); ok {
				return d, true
			}
			if d, ok := calendarDate(year, first, second); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// calendarDate rejects dates that time.Date would silently normalize, such
// as 31.02.2024.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || year < 1900 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

func hasDateLabel(line string) bool {
	return dateLabelRe.MatchString(line)
}
