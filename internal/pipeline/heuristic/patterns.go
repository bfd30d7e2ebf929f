// Package heuristic holds the deterministic fallback parsers used when AI
// extraction fails or leaves fields empty. Given identical input the
// output is byte-identical across runs.
package heuristic

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Currency-prefixed amount: $ / ₹ symbols or literal inr / rs
	// (optional trailing period), then digits that may carry thousands
	// separators. The number must start with a digit so a word ending in
	// "rs" ("chairs, ...") cannot claim a bare separator as the amount.
	amountPattern = regexp.MustCompile(`(?i)([$₹]|inr|rs\.?)\s?(\d[\d,]*)`)

	deliveryPattern = regexp.MustCompile(`(?i)(\d+)\s*(day|days)`)

	// Month-denominated warranty wins over year-denominated when both
	// appear.
	warrantyMonthPattern = regexp.MustCompile(`(?i)(\d+)\s*months?\s*warranty`)
	warrantyYearPattern  = regexp.MustCompile(`(?i)(\d+)\s*(year|years)\s*warranty`)

	paymentPattern = regexp.MustCompile(`(?i)net\s*\d+`)
)

// matchAmount extracts the first currency-marked number with thousands
// separators stripped.
func matchAmount(text string) *float64 {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &n
}

func matchDeliveryDays(text string) *int {
	m := deliveryPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func matchWarrantyMonths(text string) *int {
	if m := warrantyMonthPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}
	if m := warrantyYearPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			months := n * 12
			return &months
		}
	}
	return nil
}

// matchPaymentTerms returns the first "net <int>" token with its original
// casing preserved, or "".
func matchPaymentTerms(text string) string {
	return paymentPattern.FindString(text)
}

// truncateRunes returns the first n characters of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
