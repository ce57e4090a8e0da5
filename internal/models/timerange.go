package models

import "time"

// TimeRange is a user-selectable window over the telemetry history.
type TimeRange string

const (
	RangeLast15Minutes TimeRange = "Last 15 minutes"
	RangeLastHour      TimeRange = "Last hour"
	RangeLast6Hours    TimeRange = "Last 6 hours"
	RangeLast24Hours   TimeRange = "Last 24 hours"
	RangeLast7Days     TimeRange = "Last 7 days"
)

var rangeDurations = map[TimeRange]time.Duration{
	RangeLast15Minutes: 15 * time.Minute,
	RangeLastHour:      time.Hour,
	RangeLast6Hours:    6 * time.Hour,
	RangeLast24Hours:   24 * time.Hour,
	RangeLast7Days:     7 * 24 * time.Hour,
}

var rangeAliases = map[string]TimeRange{
	"15m": RangeLast15Minutes,
	"1h":  RangeLastHour,
	"6h":  RangeLast6Hours,
	"24h": RangeLast24Hours,
	"7d":  RangeLast7Days,
}

// TimeRanges lists supported windows from narrowest to widest.
func TimeRanges() []TimeRange {
	return []TimeRange{
		RangeLast15Minutes,
		RangeLastHour,
		RangeLast6Hours,
		RangeLast24Hours,
		RangeLast7Days,
	}
}

// ParseTimeRange accepts either the display label or a short alias.
// Unrecognised specs fall back to the widest window.
func ParseTimeRange(spec string) TimeRange {
	if _, ok := rangeDurations[TimeRange(spec)]; ok {
		return TimeRange(spec)
	}
	if r, ok := rangeAliases[spec]; ok {
		return r
	}
	return RangeLast7Days
}

// Duration returns the window length. Unknown ranges behave as the widest.
func (r TimeRange) Duration() time.Duration {
	if d, ok := rangeDurations[r]; ok {
		return d
	}
	return rangeDurations[RangeLast7Days]
}
