package utils

import (
	"testing"
	"time"
)

func TestMarketStatusAt(t *testing.T) {
	day := func(hour, minute int) time.Time {
		// A Wednesday.
		return time.Date(2024, 6, 12, hour, minute, 0, 0, IndiaLocation)
	}

	cases := []struct {
		name string
		at   time.Time
		want MarketStatus
	}{
		{"before pre-open", day(8, 59), MarketClosed},
		{"pre-open start", day(9, 0), MarketPreOpen},
		{"pre-open end", day(9, 14), MarketPreOpen},
		{"open bell", day(9, 15), MarketOpen},
		{"mid session", day(12, 30), MarketOpen},
		{"last minute", day(15, 29), MarketOpen},
		{"closing bell", day(15, 30), MarketClosed},
		{"evening", day(18, 0), MarketClosed},
		{"saturday noon", time.Date(2024, 6, 15, 12, 0, 0, 0, IndiaLocation), MarketClosed},
		{"sunday noon", time.Date(2024, 6, 16, 12, 0, 0, 0, IndiaLocation), MarketClosed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := marketStatusAt(c.at); got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestDayIST(t *testing.T) {
	// 01:30 UTC is 07:00 IST the same day; 20:30 UTC is 02:00 IST next day.
	early := time.Date(2024, 6, 12, 1, 30, 0, 0, time.UTC)
	if got := DayIST(early); got.Day() != 12 || got.Hour() != 0 {
		t.Fatalf("DayIST(early) = %v", got)
	}
	late := time.Date(2024, 6, 12, 20, 30, 0, 0, time.UTC)
	if got := DayIST(late); got.Day() != 13 || got.Hour() != 0 {
		t.Fatalf("DayIST(late) = %v", got)
	}
}
