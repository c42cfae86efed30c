package utils

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFormatIndianCurrency(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{999, "₹999.00"},
		{1000, "₹1,000.00"},
		{100000, "₹1,00,000.00"},
		{1234567.89, "₹12,34,567.89"},
		{10000000, "₹1,00,00,000.00"},
		{-54321.5, "-₹54,321.50"},
	}
	for _, c := range cases {
		if got := FormatIndianCurrency(c.amount); got != c.want {
			t.Errorf("FormatIndianCurrency(%v) = %q, want %q", c.amount, got, c.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(2.345); got != "+2.35%" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent(-1.2); got != "-1.20%" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent(0); got != "0.00%" {
		t.Errorf("got %q", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := FormatQuantity(1234567); got != "12,34,567" {
		t.Errorf("got %q", got)
	}
}

// Property: grouping never changes the digits, only inserts separators.
func TestProperty_IndianGroupingPreservesDigits(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("stripping separators recovers the number", prop.ForAll(
		func(qty int64) bool {
			formatted := FormatQuantity(qty)
			stripped := strings.ReplaceAll(formatted, ",", "")
			return stripped == strconv.FormatInt(qty, 10)
		},
		gen.Int64Range(0, 1_000_000_000_000),
	))

	properties.TestingRun(t)
}
