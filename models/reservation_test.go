package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

func TestReservationEndTime(t *testing.T) {
	r := Reservation{ReservationTime: at(19, 0), DurationMinutes: 90}
	assert.Equal(t, at(20, 30), r.EndTime())
}

func TestReservationOverlaps(t *testing.T) {
	existing := Reservation{ReservationTime: at(10, 0), DurationMinutes: 60}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical", at(10, 0), at(11, 0), true},
		{"starts inside", at(10, 30), at(11, 30), true},
		{"ends inside", at(9, 30), at(10, 30), true},
		{"contains", at(9, 0), at(12, 0), true},
		{"contained", at(10, 15), at(10, 45), true},
		{"back to back after", at(11, 0), at(12, 0), false},
		{"back to back before", at(9, 0), at(10, 0), false},
		{"well before", at(7, 0), at(8, 0), false},
		{"well after", at(13, 0), at(14, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, existing.Overlaps(tt.start, tt.end))
		})
	}
}

func TestOverlapIsSymmetric(t *testing.T) {
	assert.True(t, Overlap(at(10, 0), at(11, 0), at(10, 59), at(12, 0)))
	assert.True(t, Overlap(at(10, 59), at(12, 0), at(10, 0), at(11, 0)))
	assert.False(t, Overlap(at(10, 0), at(11, 0), at(11, 0), at(12, 0)))
	assert.False(t, Overlap(at(11, 0), at(12, 0), at(10, 0), at(11, 0)))
}
