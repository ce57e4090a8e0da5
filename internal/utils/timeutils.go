package utils

import "time"

// TicksBetween counts whole ticks after start up to and including end.
// Returns zero when end does not reach the first tick boundary past start.
func TicksBetween(start, end time.Time, tick time.Duration) int {
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / tick)
}
