package utils

import "time"

// IndiaLocation is the timezone for Indian markets.
var IndiaLocation *time.Location

func init() {
	var err error
	IndiaLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback to UTC+5:30
		IndiaLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// MarketStatus describes the current NSE equity session phase.
type MarketStatus string

const (
	MarketClosed  MarketStatus = "CLOSED"
	MarketPreOpen MarketStatus = "PRE_OPEN"
	MarketOpen    MarketStatus = "OPEN"
)

// GetMarketStatus returns the session phase for the current wall clock.
// Exchange holidays are not modelled here; holiday detection happens
// empirically through empty candle responses.
func GetMarketStatus() MarketStatus {
	return marketStatusAt(time.Now().In(IndiaLocation))
}

func marketStatusAt(now time.Time) MarketStatus {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return MarketClosed
	}

	timeMinutes := now.Hour()*60 + now.Minute()

	// Pre-open: 9:00 - 9:15
	if timeMinutes >= 540 && timeMinutes < 555 {
		return MarketPreOpen
	}
	// Open: 9:15 - 15:30
	if timeMinutes >= 555 && timeMinutes < 930 {
		return MarketOpen
	}
	return MarketClosed
}

// IsMarketOpen reports whether the market is in its regular session.
func IsMarketOpen() bool {
	return GetMarketStatus() == MarketOpen
}

// DayIST truncates t to midnight in the market timezone. Daily candle
// lookups key on this.
func DayIST(t time.Time) time.Time {
	t = t.In(IndiaLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, IndiaLocation)
}
