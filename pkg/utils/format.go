// Package utils provides shared helpers for formatting and market timing.
package utils

import (
	"fmt"
	"strings"
)

// FormatIndianCurrency formats a number in the Indian grouping system
// (thousands, then lakhs and crores).
func FormatIndianCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	result := "₹" + formatIndianNumber(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

func formatIndianNumber(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	// First group of 3 from the right, then groups of 2
	result := s[n-3:]
	s = s[:n-3]
	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}
	return result
}

// FormatPercent formats a percentage with an explicit sign for gains.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPnL formats a P&L amount with an explicit sign for gains.
func FormatPnL(pnl float64) string {
	formatted := FormatIndianCurrency(pnl)
	if pnl > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatQuantity formats a quantity with Indian grouping.
func FormatQuantity(qty int64) string {
	return formatIndianNumber(fmt.Sprintf("%d", qty))
}

// NotAvailable is printed wherever a price or derived metric could not be
// determined. A blank or zero would be mistaken for data.
const NotAvailable = "N/A"
