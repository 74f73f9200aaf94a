package normalization

import (
	"math"
)

// CanonicalMax is the upper bound of every canonical factor.
const CanonicalMax = 10

var (
	affirmativeTokens = map[string]struct{}{"yes": {}, "sí": {}, "si": {}}
	negativeTokens    = map[string]struct{}{"no": {}, "0": {}}
	hedgingTokens     = map[string]struct{}{"sometimes": {}, "a veces": {}, "maybe": {}}
)

// LinearScale maps v on [0, sourceMax] onto the canonical 0..10 scale.
func LinearScale(v, sourceMax float64) int {
	if !(sourceMax > 0) || math.IsInf(sourceMax, 0) {
		return 0
	}
	v = clampFloat(v, 0, sourceMax)
	return ClampFactor(int(math.Round(v / sourceMax * CanonicalMax)))
}

// InvertedScale is LinearScale for sources where a higher raw value means
// less of the target concept (sleep quality -> sleep problems).
func InvertedScale(v, sourceMax float64) int {
	if !(sourceMax > 0) || math.IsInf(sourceMax, 0) {
		return 0
	}
	return LinearScale(sourceMax-clampFloat(v, 0, sourceMax), sourceMax)
}

// LinearScaleText parses raw and applies LinearScale. Absent input yields 0.
func LinearScaleText(raw string, sourceMax float64) int {
	n, ok := ParseNumber(raw)
	if !ok {
		return 0
	}
	return LinearScale(n, sourceMax)
}

// InvertedScaleText parses raw and applies InvertedScale. Absent input yields 0.
func InvertedScaleText(raw string, sourceMax float64) int {
	n, ok := ParseNumber(raw)
	if !ok {
		return 0
	}
	return InvertedScale(n, sourceMax)
}

// YesNoMaybeScale converts a yes/no/sometimes answer, or a 1..5 Likert
// value, onto the canonical scale. Unknown text counts as "no issue" (0).
func YesNoMaybeScale(raw string) int {
	s := ParseInputString(raw)
	if s == "" {
		return 0
	}
	if _, ok := affirmativeTokens[s]; ok {
		return CanonicalMax
	}
	if _, ok := negativeTokens[s]; ok {
		return 0
	}
	if _, ok := hedgingTokens[s]; ok {
		return CanonicalMax / 2
	}
	n, ok := ParseNumber(s)
	if !ok {
		return 0
	}
	switch {
	case n <= 1:
		return 2
	case n >= 5:
		return CanonicalMax
	default:
		return ClampFactor(int(math.Round((n - 1) / 4 * CanonicalMax)))
	}
}

// AverageFactors returns the rounded mean of two canonical factors.
func AverageFactors(a, b int) int {
	return ClampFactor(int(math.Round(float64(a+b) / 2)))
}

// ClampFactor pins v into [0, CanonicalMax].
func ClampFactor(v int) int {
	if v < 0 {
		return 0
	}
	if v > CanonicalMax {
		return CanonicalMax
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
