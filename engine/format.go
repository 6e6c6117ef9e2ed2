package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================================
// MONEY & FORMATTING UTILITIES
// ============================================================================
// Sums are accumulated as decimals so 0.1 + 0.2 stays 0.3; results leave the
// engine as float64.
// ============================================================================

// money accumulates amounts exactly.
type money struct {
	d decimal.Decimal
}

func (m *money) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	m.d = m.d.Add(decimal.NewFromFloat(v))
}

func (m money) float() float64 { return m.d.InexactFloat64() }

// FormatCurrency formats an amount with currency prefix and comma separators.
func FormatCurrency(amount float64, currency string) string {
	d := decimal.NewFromFloat(amount).Round(2)
	negative := d.IsNegative()
	if negative {
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	intStr, decStr, _ := strings.Cut(fixed, ".")
	intStr = groupThousands(intStr)

	result := intStr + "." + decStr
	if currency != "" {
		result = currency + " " + result
	}
	if negative {
		result = "-" + result
	}
	return result
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatOneDecimal renders v with exactly one decimal place.
func FormatOneDecimal(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return decimal.NewFromFloat(v).StringFixed(1)
}

// FormatAmount renders a plain number: whole values without decimals,
// fractional values with two.
func FormatAmount(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(2)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func groupThousands(intStr string) string {
	if len(intStr) <= 3 {
		return intStr
	}
	var parts []string
	for len(intStr) > 3 {
		parts = append([]string{intStr[len(intStr)-3:]}, parts...)
		intStr = intStr[:len(intStr)-3]
	}
	parts = append([]string{intStr}, parts...)
	return strings.Join(parts, ",")
}

// LabelForField returns a capitalized label for a snake_case field.
func LabelForField(field string) string {
	if field == "" {
		return ""
	}
	words := strings.Split(fieldKey(field), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
