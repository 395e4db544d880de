// Package markethours answers "is this market tradeable right now"
// per asset class. The checker skips closed markets so weekend forex
// quotes and after-hours ETF snapshots never feed alert conditions.
package markethours

import (
	"fmt"
	"time"

	"tradewatch/internal/model"
)

// ET is the US Eastern location for equity sessions. A fixed offset
// would drift across DST, so the IANA zone is loaded once; if the zone
// database is missing we fall back to EST.
var ET = loadET()

func loadET() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// US equity session in ET.
const (
	equityOpenHour    = 9
	equityOpenMinute  = 30
	equityCloseHour   = 16
	equityCloseMinute = 0
)

// Forex trades continuously from Sunday 21:00 UTC to Friday 21:00 UTC.
const forexRolloverHourUTC = 21

// IsOpen reports whether the market for the given asset class is open
// at t. Crypto never closes.
func IsOpen(class model.AssetClass, t time.Time) bool {
	switch class {
	case model.AssetCrypto:
		return true
	case model.AssetForex:
		return forexOpen(t.UTC())
	case model.AssetETF:
		return equityOpen(t)
	}
	return true
}

func forexOpen(utc time.Time) bool {
	switch utc.Weekday() {
	case time.Saturday:
		return false
	case time.Sunday:
		return utc.Hour() >= forexRolloverHourUTC
	case time.Friday:
		return utc.Hour() < forexRolloverHourUTC
	}
	return true
}

func equityOpen(t time.Time) bool {
	et := t.In(ET)
	wd := et.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if IsUSHoliday(et) {
		return false
	}
	hm := et.Hour()*60 + et.Minute()
	return hm >= equityOpenHour*60+equityOpenMinute && hm < equityCloseHour*60+equityCloseMinute
}

// NextOpen returns when the market for class next opens at or after t.
// For crypto it returns t unchanged.
func NextOpen(class model.AssetClass, t time.Time) time.Time {
	if IsOpen(class, t) {
		return t
	}

	switch class {
	case model.AssetForex:
		utc := t.UTC()
		for i := 0; i < 8; i++ {
			d := utc.AddDate(0, 0, i)
			if d.Weekday() == time.Sunday {
				open := time.Date(d.Year(), d.Month(), d.Day(), forexRolloverHourUTC, 0, 0, 0, time.UTC)
				if open.After(utc) {
					return open
				}
			}
		}
		return utc

	case model.AssetETF:
		et := t.In(ET)
		todayOpen := time.Date(et.Year(), et.Month(), et.Day(), equityOpenHour, equityOpenMinute, 0, 0, ET)
		if et.Before(todayOpen) && isTradingDay(et) {
			return todayOpen
		}
		d := et.AddDate(0, 0, 1)
		for i := 0; i < 10; i++ {
			if isTradingDay(d) {
				return time.Date(d.Year(), d.Month(), d.Day(), equityOpenHour, equityOpenMinute, 0, 0, ET)
			}
			d = d.AddDate(0, 0, 1)
		}
		return et
	}
	return t
}

func isTradingDay(et time.Time) bool {
	wd := et.Weekday()
	return wd >= time.Monday && wd <= time.Friday && !IsUSHoliday(et)
}

// StatusString returns a human-readable market status for class.
func StatusString(class model.AssetClass, t time.Time) string {
	if IsOpen(class, t) {
		return "Market Open"
	}
	next := NextOpen(class, t)
	return fmt.Sprintf("Market Closed - opens %s %s UTC",
		next.UTC().Weekday().String()[:3], next.UTC().Format("15:04"))
}
