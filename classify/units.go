package classify

import (
	"strconv"
	"strings"
)

const (
	metersPerFoot = 0.3048
	metersPerInch = 0.0254
)

// ParseHeightMeters normalizes a height tag value to meters. It accepts
// bare numbers ("12", meters implied), explicit metric units ("12 m",
// "0.1 km"), imperial units ("40 ft", "7 in") and combined feet/inches
// notation (5'11"). Unparsable values report false, never an error.
func ParseHeightMeters(val string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(val))
	if v == "" {
		return 0, false
	}
	// decimal comma
	if !strings.Contains(v, ".") {
		v = strings.Replace(v, ",", ".", 1)
	}

	if i := strings.IndexByte(v, '\''); i >= 0 {
		return parseFeetInches(v, i)
	}

	num, unit := splitNumber(v)
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	switch unit {
	case "", "m", "meter", "meters", "metre", "metres":
		return f, true
	case "km":
		return f * 1000, true
	case "ft", "foot", "feet":
		return f * metersPerFoot, true
	case "in", "inch", "inches", `"`:
		return f * metersPerInch, true
	}
	return 0, false
}

// parseFeetInches handles 12' and 5'11" notation.
func parseFeetInches(v string, apos int) (float64, bool) {
	feet, err := strconv.ParseFloat(strings.TrimSpace(v[:apos]), 64)
	if err != nil {
		return 0, false
	}
	rest := strings.TrimSpace(v[apos+1:])
	rest = strings.TrimSuffix(rest, `"`)
	rest = strings.TrimSpace(rest)
	var inches float64
	if rest != "" {
		inches, err = strconv.ParseFloat(rest, 64)
		if err != nil {
			return 0, false
		}
	}
	return feet*12*metersPerInch + inches*metersPerInch, true
}

// splitNumber splits "12.5m" or "12.5 m" into number and unit part.
func splitNumber(v string) (num, unit string) {
	end := 0
	for end < len(v) {
		c := v[end]
		if (c >= '0' && c <= '9') || c == '.' || ((c == '-' || c == '+') && end == 0) {
			end++
			continue
		}
		break
	}
	return v[:end], strings.TrimSpace(v[end:])
}

// parseLevels accepts integer and decimal level counts ("5", "2.5").
// Decimals are truncated.
func parseLevels(val string) (int64, bool) {
	v := strings.TrimSpace(val)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}
