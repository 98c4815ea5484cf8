package utils

import (
	"math"
	"time"
)

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// DaysBetween returns the number of whole days from earlier to later.
// A negative span yields 0.
func DaysBetween(earlier, later time.Time) int {
	if later.Before(earlier) {
		return 0
	}
	return int(later.Sub(earlier).Hours() / 24)
}

// DaysBetweenAtLeastOne floors DaysBetween at 1, guarding day-difference
// divisions against zero.
func DaysBetweenAtLeastOne(earlier, later time.Time) int {
	days := DaysBetween(earlier, later)
	if days < 1 {
		return 1
	}
	return days
}

// Round2 rounds a float to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp constrains v to the closed interval [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
