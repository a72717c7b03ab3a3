package timeutils

import (
	"math"
	"time"
)

// HoursSince returns the hours elapsed between t and now. The result is
// negative when t lies in the future.
func HoursSince(now, t time.Time) float64 {
	return now.Sub(t).Hours()
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// FromUnixMillis converts a millisecond epoch timestamp as used by MLflow.
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// ToUnixSecs converts t to fractional seconds since the epoch.
func ToUnixSecs(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
