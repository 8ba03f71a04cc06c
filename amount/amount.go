// Package amount converts integer amounts in minor currency units to
// display strings and back. Both the payment and invoice layers use it for
// the *_format wire fields.
package amount

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// divisors maps a currency to the number of minor units per major unit.
// Three-decimal and zero-decimal currencies follow ISO 4217; anything not
// listed uses 100.
var divisors = map[string]int64{
	"KWD": 1000,
	"BHD": 1000,
	"OMR": 1000,
	"TND": 1000,
	"JPY": 1,
	"KRW": 1,
}

const defaultDivisor = 100

// Divisor returns the minor-unit divisor for currency. Unknown currencies
// fall back to 100 without erroring.
func Divisor(currency string) int64 {
	if d, ok := divisors[strings.ToUpper(currency)]; ok {
		return d
	}
	return defaultDivisor
}

// Format renders an amount in minor units as a display string suffixed with
// the currency code, e.g. Format(5000, "SAR") == "50.00 SAR" and
// Format(1000, "JPY") == "1000 JPY".
func Format(minor int64, currency string) string {
	currency = strings.ToUpper(currency)
	switch Divisor(currency) {
	case 1:
		return fmt.Sprintf("%d %s", minor, currency)
	case 1000:
		return fmt.Sprintf("%s %s", formatFixed(minor, 1000, 3), currency)
	default:
		return fmt.Sprintf("%s %s", formatFixed(minor, 100, 2), currency)
	}
}

func formatFixed(minor, divisor int64, decimals int) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}
	whole := minor / divisor
	frac := minor % divisor
	s := fmt.Sprintf("%d.%0*d", whole, decimals, frac)
	if neg {
		s = "-" + s
	}
	return s
}

// Parse converts a display string back to minor units: every rune that is
// not a digit or a dot is stripped, the remainder is multiplied by the
// currency divisor and rounded to the nearest integer. It is the inverse of
// Format for integer minor-unit amounts.
func Parse(display, currency string) (int64, error) {
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("amount: no numeric value in %q", display)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("amount: cannot parse %q: %w", display, err)
	}
	return int64(math.Round(value * float64(Divisor(currency)))), nil
}
