// Package core holds the domain model of the finance tracker: transactions,
// accounts, budgets, savings targets, and the money parsing rules shared by
// every other package.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a plain decimal string to cents with
// half-up rounding on the third decimal place. Both dot (12.34) and comma
// (12,34) separators are accepted. Only positive amounts are valid.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseAmount converts a user-entered amount string to cents, honoring
// the currency's separator convention. EUR input uses dot as thousands
// separator and comma as decimal separator ("1.234,56"); everything else
// uses comma grouping and a dot decimal ("1,234.56"). A leading or
// trailing currency symbol is tolerated.
func ParseAmount(value string, cur Currency) (int64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(value, cur.Symbol, ""))
	if cleaned == "" {
		return 0, ErrInvalidAmount
	}
	var normalized string
	if cur.Code == "EUR" {
		normalized = strings.ReplaceAll(cleaned, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
	} else {
		normalized = strings.ReplaceAll(cleaned, ",", "")
	}
	return ParseDecimalToCents(normalized)
}

// FormatAmount renders cents for display in the currency's convention:
// "1.234,56 €" for EUR, "$1,234.56" for everything else.
func FormatAmount(cents int64, cur Currency) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	frac := fmt.Sprintf("%02d", cents%100)

	sign := ""
	if neg {
		sign = "-"
	}
	if cur.Code == "EUR" {
		return sign + groupDigits(whole, ".") + "," + frac + " " + cur.Symbol
	}
	return sign + cur.Symbol + groupDigits(whole, ",") + "." + frac
}

// groupDigits inserts sep every three digits from the right.
func groupDigits(s, sep string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Euros returns the value as float64 for display only. Calculations stay
// in cents.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}
