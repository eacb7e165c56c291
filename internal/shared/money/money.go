package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PriceToCents converts a catalog price stored as a decimal string ("25.00")
// to integer minor units. Rounding is half away from zero, which is exact for
// prices with at most two decimals.
func PriceToCents(price string) (int64, error) {
	s := strings.TrimSpace(price)
	if s == "" {
		return 0, fmt.Errorf("money: empty price")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("money: bad price %q: %w", price, err)
	}
	if f < 0 {
		return 0, fmt.Errorf("money: negative price %q", price)
	}
	return int64(math.Round(f * 100)), nil
}

// FormatCents renders minor units as a two-decimal amount string ("50.00").
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// AddAmounts sums two-decimal amount strings into a two-decimal total.
func AddAmounts(amounts ...string) (string, error) {
	var total int64
	for _, a := range amounts {
		c, err := PriceToCents(a)
		if err != nil {
			return "", err
		}
		total += c
	}
	return FormatCents(total), nil
}
