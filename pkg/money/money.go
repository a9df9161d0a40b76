// Package money renders storefront money-format strings such as
// "${{amount}}" or "{{amount_no_decimals}} kr" for price facet labels.
package money

import (
	"fmt"
	"math"
	"strings"
)

// Placeholders supported inside a storefront money format.
const (
	phAmount               = "{{amount}}"
	phAmountNoDecimals     = "{{amount_no_decimals}}"
	phAmountWithComma      = "{{amount_with_comma_separator}}"
	phAmountNoDecComma     = "{{amount_no_decimals_with_comma_separator}}"
	phAmountWithApostrophe = "{{amount_with_apostrophe_separator}}"
)

// DefaultFormat is used when the host page supplies no format string.
const DefaultFormat = "${{amount}}"

// Format renders amount (in major units) using the given money format.
// An empty format falls back to DefaultFormat.
func Format(format string, amount float64) string {
	if format == "" {
		format = DefaultFormat
	}

	out := format
	out = strings.ReplaceAll(out, phAmount, group(fix(amount, 2), ",", "."))
	out = strings.ReplaceAll(out, phAmountNoDecimals, group(fix(amount, 0), ",", ""))
	out = strings.ReplaceAll(out, phAmountWithComma, group(fix(amount, 2), ".", ","))
	out = strings.ReplaceAll(out, phAmountNoDecComma, group(fix(amount, 0), ".", ""))
	out = strings.ReplaceAll(out, phAmountWithApostrophe, group(fix(amount, 2), "'", "."))
	return out
}

// fix formats amount with the given number of decimals, no grouping.
func fix(amount float64, decimals int) string {
	if amount < 0 {
		amount = 0
	}
	if decimals == 0 {
		return fmt.Sprintf("%d", int64(math.Round(amount)))
	}
	return fmt.Sprintf("%.*f", decimals, amount)
}

// group inserts thousands separators into a fixed-point number string.
// decSep replaces the "." decimal point; empty decSep means no decimals.
func group(s, thousands, decSep string) string {
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteString(thousands)
		}
		b.WriteRune(r)
	}

	if fracPart != "" && decSep != "" {
		b.WriteString(decSep)
		b.WriteString(fracPart)
	}
	return b.String()
}
