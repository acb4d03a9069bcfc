package table

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Built-in comparators.
var (
	// SortText compares values as case-insensitive strings.
	SortText SortingFn = compareText

	// SortAlphanumeric compares strings naturally, so "row 2" < "row 10".
	SortAlphanumeric SortingFn = compareAlphanumeric

	// SortBasic compares numbers numerically and everything else as strings.
	SortBasic SortingFn = compareBasic

	// SortDatetime compares time.Time values.
	SortDatetime SortingFn = compareDatetime
)

// inferSortingFn picks a comparator from a sample value.
func inferSortingFn(sample any) SortingFn {
	switch v := sample.(type) {
	case string:
		if strings.ContainsFunc(v, isDigit) {
			return SortAlphanumeric
		}
		return SortText
	case time.Time:
		return SortDatetime
	default:
		return SortBasic
	}
}

func compareText(a, b any) int {
	return strings.Compare(strings.ToLower(toString(a)), strings.ToLower(toString(b)))
}

func compareBasic(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return cmp.Compare(af, bf)
	}
	return strings.Compare(toString(a), toString(b))
}

func compareDatetime(a, b any) int {
	at, aok := a.(time.Time)
	bt, bok := b.(time.Time)
	if !aok || !bok {
		return compareBasic(a, b)
	}
	return at.Compare(bt)
}

// compareAlphanumeric walks both strings chunk by chunk, comparing digit
// runs numerically and text runs case-insensitively. A text chunk sorts
// before a digit chunk.
func compareAlphanumeric(a, b any) int {
	ac := splitDigits(strings.ToLower(toString(a)))
	bc := splitDigits(strings.ToLower(toString(b)))

	for len(ac) > 0 && len(bc) > 0 {
		x, y := ac[0], bc[0]
		ac, bc = ac[1:], bc[1:]

		xn, xerr := strconv.ParseUint(x, 10, 64)
		yn, yerr := strconv.ParseUint(y, 10, 64)
		switch {
		case xerr != nil && yerr != nil:
			if c := strings.Compare(x, y); c != 0 {
				return c
			}
		case xerr != nil:
			return -1
		case yerr != nil:
			return 1
		default:
			if c := cmp.Compare(xn, yn); c != 0 {
				return c
			}
		}
	}
	return cmp.Compare(len(ac), len(bc))
}

// splitDigits cuts s into alternating runs of digits and non-digits.
func splitDigits(s string) []string {
	var chunks []string
	start := 0
	prevDigit := false
	for i, r := range s {
		d := isDigit(r)
		if i > 0 && d != prevDigit {
			chunks = append(chunks, s[start:i])
			start = i
		}
		prevDigit = d
	}
	if start < len(s) {
		chunks = append(chunks, s[start:])
	}
	return chunks
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func isNumber(v any) bool {
	_, ok := toFloat(v)
	return ok
}
