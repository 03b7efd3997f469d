package gate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// AnglePattern matches a single angle value: numbers, pi expressions, or combinations.
// Examples: "1.5707", "pi", "pi/2", "3*pi/4", "-pi", "-2*pi/3", "3.14e-2"
const AnglePattern = `-?(?:\d*\.?\d*\s*\*?\s*pi(?:\s*/\s*\d+\.?\d*)?|\d*\.?\d+(?:[eE][+\-]?\d+)?)`

// piExprRegex matches expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -pi/2, -3*pi/4
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseAngle parses a single angle expression, supporting plain numbers and pi expressions.
//
// Supported formats:
//   - Plain numbers: "1.5707", "3.14", "-0.5"
//   - Pi constant: "pi"
//   - Pi fractions: "pi/2", "pi/4", "pi/3"
//   - Coefficients: "2pi", "2*pi", "3pi/4", "3*pi/4"
//   - Negative: "-pi", "-pi/2", "-3*pi/4"
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty angle")
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, nil
	}

	matches := piExprRegex.FindStringSubmatch(strings.ToLower(s))
	if matches == nil {
		return 0, fmt.Errorf("invalid angle %q", s)
	}
	negative := matches[1] == "-"
	coeffStr := matches[2]
	denomStr := matches[3]

	coeff := 1.0
	if coeffStr != "" {
		var err error
		if coeff, err = strconv.ParseFloat(coeffStr, 64); err != nil {
			return 0, fmt.Errorf("invalid angle coefficient %q", coeffStr)
		}
	}

	result := coeff * math.Pi
	if denomStr != "" {
		denom, err := strconv.ParseFloat(denomStr, 64)
		if err != nil || denom == 0 {
			return 0, fmt.Errorf("invalid angle denominator %q", denomStr)
		}
		result /= denom
	}

	// Listed fractions parse to the nearest float64, as the matching Go
	// constant expression does, so that FormatAngle output reads back exactly.
	for _, pf := range piForms {
		if math.Abs(result-pf.value) <= 1e-15*pf.value {
			result = pf.value
			break
		}
	}

	if negative {
		result = -result
	}
	return result, nil
}

// piForms lists the fractions of pi FormatAngle prints symbolically.
var piForms = []struct {
	value   float64
	display string
}{
	{2 * math.Pi, "2*pi"},
	{math.Pi, "pi"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 3, "pi/3"},
	{math.Pi / 4, "pi/4"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
	{math.Pi / 16, "pi/16"},
	{math.Pi / 32, "pi/32"},
	{3 * math.Pi / 4, "3*pi/4"},
	{3 * math.Pi / 2, "3*pi/2"},
	{2 * math.Pi / 3, "2*pi/3"},
}

// FormatAngle formats an angle, using pi notation for the listed fractions of
// pi. Other values, however close to a fraction, are printed with full
// precision, so ParseAngle(FormatAngle(x)) == x for every finite x.
func FormatAngle(val float64) string {
	for _, pf := range piForms {
		switch val {
		case pf.value:
			return pf.display
		case -pf.value:
			return "-" + pf.display
		}
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}
