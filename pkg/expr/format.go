package expr

import (
	"math"
	"strconv"
	"strings"
)

const (
	// Precision is the number of decimal places kept by Round.
	Precision = 12

	scale   = 1e12
	epsilon = 2.220446049250313e-16
)

// Round keeps Precision decimal places, nudging by machine epsilon first so
// results like 0.1+0.2 settle on 0.3. Values too large to scale are returned
// unchanged.
func Round(v float64) float64 {
	scaled := (v + epsilon) * scale
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return math.Round(scaled) / scale
}

// Format renders v in its shortest round-tripping decimal form.
// Magnitudes in [1e-6, 1e21) use plain notation; others use exponent
// notation without zero padding ("1e-7", "1e+21").
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPlain renders v without exponent notation so the text can be fed
// back into the tokenizer.
func FormatPlain(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimExponent turns "1e-07" into "1e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}
