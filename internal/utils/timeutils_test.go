package utils

import (
	"testing"
	"time"
)

func TestTicksBetween(t *testing.T) {
	tick := 5 * time.Minute
	start := time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{"before start", start.Add(-time.Minute), 0},
		{"equal", start, 0},
		{"under one tick", start.Add(4 * time.Minute), 0},
		{"exactly one tick", start.Add(5 * time.Minute), 1},
		{"partial past one tick", start.Add(7 * time.Minute), 1},
		{"five ticks", start.Add(25 * time.Minute), 5},
		{"one hour", start.Add(time.Hour), 12},
	}
	for _, tc := range cases {
		if got := TicksBetween(start, tc.end, tick); got != tc.want {
			t.Fatalf("%s: TicksBetween = %d, want %d", tc.name, got, tc.want)
		}
	}
}
