package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberFormat describes how numeric text is written. The zero value accepts
// plain Go float syntax ("1234.5", "1e3") only.
type NumberFormat struct {
	// Decimal separator, e.g. ',' for "0,5". Zero means '.' with no grouping.
	Decimal rune
	// Thousands separator removed before parsing. Zero strips the common
	// group separators (',' '.' space) that differ from Decimal.
	Thousands rune
}

// ParseNumberFormat builds a NumberFormat from flag/config spellings.
func ParseNumberFormat(decimal, thousands string) (NumberFormat, error) {
	var nf NumberFormat
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case "":
	case ".", "dot":
		nf.Decimal = '.'
	case ",", "comma":
		nf.Decimal = ','
	default:
		return nf, fmt.Errorf("unsupported decimal separator: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(thousands) {
	case "":
	case ",", "comma":
		nf.Thousands = ','
	case ".", "dot":
		nf.Thousands = '.'
	case " ", "space":
		nf.Thousands = ' '
	default:
		return nf, fmt.Errorf("unsupported thousands separator: %s (use ','|'.'|'space')", thousands)
	}
	if nf.Thousands != 0 && nf.Decimal == 0 {
		nf.Decimal = '.'
	}
	if nf.Thousands != 0 && nf.Thousands == nf.Decimal {
		return nf, fmt.Errorf("decimal and thousands separators must differ")
	}
	return nf, nil
}

// Parse converts s to a float. NaN and infinities are rejected so they never
// reach a distance computation.
func (nf NumberFormat) Parse(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if nf.Decimal != 0 {
		raw = strings.ReplaceAll(raw, "\u00A0", " ")
		if nf.Thousands == 0 {
			for _, sep := range []rune{',', '.', ' '} {
				if sep != nf.Decimal {
					raw = strings.ReplaceAll(raw, string(sep), "")
				}
			}
		} else {
			raw = strings.ReplaceAll(raw, string(nf.Thousands), "")
		}
		if nf.Decimal != '.' {
			raw = strings.ReplaceAll(raw, string(nf.Decimal), ".")
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// missingMarkers are cell spellings read as "no value", beside the empty string.
var missingMarkers = map[string]struct{}{
	"na": {}, "n/a": {}, "#n/a": {}, "nan": {}, "-nan": {}, "null": {}, "none": {}, "<na>": {},
}

// IsMissing reports whether a trimmed cell denotes a missing value.
func IsMissing(s string) bool {
	if s == "" {
		return true
	}
	_, ok := missingMarkers[strings.ToLower(s)]
	return ok
}
