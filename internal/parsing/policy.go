package parsing

import (
	"fmt"
	"strings"
)

// TieBreak decides which candidate wins when a receipt has several dates or
// several total lines.
type TieBreak int

const (
	// PreferFirst keeps the first candidate in reading order.
	PreferFirst TieBreak = iota
	// PreferLast keeps the last candidate in reading order.
	PreferLast
	// PreferGreatest keeps the largest amount or the latest date.
	PreferGreatest
)

func (t TieBreak) String() string {
	switch t {
	case PreferFirst:
		return "first"
	case PreferLast:
		return "last"
	case PreferGreatest:
		return "greatest"
	default:
		return fmt.Sprintf("TieBreak(%d)", int(t))
	}
}

// ParseTieBreak reads a policy name as used in configuration.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first":
		return PreferFirst, nil
	case "last":
		return PreferLast, nil
	case "greatest", "largest", "latest":
		return PreferGreatest, nil
	default:
		return 0, fmt.Errorf("unknown tie-break policy %q (want first, last or greatest)", s)
	}
}

// candidate collects values offered in reading order and keeps the one the
// policy prefers.
type candidate[T any] struct {
	policy  TieBreak
	greater func(a, b T) bool
	value   T
	set     bool
}

func (c *candidate[T]) offer(v T) {
	switch {
	case !c.set:
	case c.policy == PreferLast:
	case c.policy == PreferGreatest && c.greater(v, c.value):
	default:
		return
	}
	c.value, c.set = v, true
}

func (c *candidate[T]) get() (T, bool) {
	return c.value, c.set
}
