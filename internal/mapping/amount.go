package mapping

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount strips every character other than digits, '.' and '-' and reads
// the leading number from what remains. Garbage yields 0.
//
// Scientific notation and decimal commas are not understood: "1e6" becomes 16
// and "1.234,56" becomes 1.23456. Existing data was imported with these rules,
// so they stay.
func ParseAmount(raw string) float64 {
	v, _ := ParseAmountOK(raw)
	return v
}

// ParseAmountOK is ParseAmount plus whether a number was actually found.
func ParseAmountOK(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	prefix := numericPrefix(cleaned)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// numericPrefix returns the longest leading "-?digits[.digits]" run of s, or
// "" when s does not start with a number.
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	intStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	digits := i - intStart
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j-(i+1) > 0 {
			digits += j - (i + 1)
			i = j
		} else if digits > 0 {
			i++ // "5." reads as 5
		}
	}
	if digits == 0 {
		return ""
	}
	return strings.TrimSuffix(s[:i], ".")
}
