package utils

import (
	"fmt"
	"strings"
	"time"
)

// WallClockLayout renders reservation times without an offset.
const WallClockLayout = "2006-01-02T15:04:05"

var wallClockLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseWallClock accepts ISO 8601 timestamps with or without an offset and
// returns the wall clock they spell, pinned to UTC. Any offset is discarded,
// not applied.
func ParseWallClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range wallClockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return WallClock(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// WallClock drops t's location while keeping its calendar fields.
// Sub-second precision is truncated.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func FormatWallClock(t time.Time) string {
	return t.Format(WallClockLayout)
}
