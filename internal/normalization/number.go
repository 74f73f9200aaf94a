package normalization

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads a survey cell as a number. Surrounding whitespace is
// ignored and a comma is accepted as decimal separator. Blank, unparseable
// and non-finite input reports ok=false (absent).
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// MaxAge bounds ages read from files, the same bound manual submissions get.
const MaxAge = 130

// ParseIntOrNil parses a numeric cell and rounds it to the nearest integer.
// Values outside the int32 range are treated as absent.
func ParseIntOrNil(raw string) *int {
	return ParseIntInRange(raw, math.MinInt32, math.MaxInt32)
}

// ParseIntInRange is ParseIntOrNil restricted to lo..hi after rounding.
func ParseIntInRange(raw string, lo, hi int) *int {
	n, ok := ParseNumber(raw)
	if !ok {
		return nil
	}
	r := math.Round(n)
	if r < float64(lo) || r > float64(hi) {
		return nil
	}
	v := int(r)
	return &v
}

// ParseAgeOrNil reads an age cell; values outside 0..MaxAge are absent.
func ParseAgeOrNil(raw string) *int {
	return ParseIntInRange(raw, 0, MaxAge)
}
