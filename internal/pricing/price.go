package pricing

import (
	"regexp"
	"strings"
)

var pricePattern = regexp.MustCompile(`^(\d*)(?:\.(\d*))?$`)

// NormalizePrice commits a user-entered price to a two-fraction-digit decimal
// string, rounding half up on the decimal digits as typed. Thousands
// separators are dropped. Anything else that is not a plain non-negative
// decimal becomes empty.
func NormalizePrice(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	m := pricePattern.FindStringSubmatch(s)
	if m == nil || m[1]+m[2] == "" {
		return ""
	}
	frac := m[2] + "000"
	digits := []byte(m[1] + frac[:2])
	if frac[2] >= '5' {
		digits = incrementDigits(digits)
	}
	n := len(digits) - 2
	whole := strings.TrimLeft(string(digits[:n]), "0")
	if whole == "" {
		whole = "0"
	}
	return whole + "." + string(digits[n:])
}

// incrementDigits adds one to a decimal digit string, growing it on overflow.
func incrementDigits(digits []byte) []byte {
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '9' {
			digits[i]++
			return digits
		}
		digits[i] = '0'
	}
	return append([]byte{'1'}, digits...)
}
