package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation books [ReservationTime, ReservationTime+DurationMinutes) on one table.
// ReservationTime is a wall-clock value kept in UTC with no meaningful offset.
type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CustomerName    string    `gorm:"type:varchar(255);not null;index" json:"customer_name"`
	TableID         uint      `gorm:"not null;index:idx_reservations_table_time,priority:1" json:"table_id"`
	Table           *Table    `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	ReservationTime time.Time `gorm:"not null;index:idx_reservations_table_time,priority:2" json:"reservation_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
}

// AfterFind pins times read back from the driver to UTC.
func (r *Reservation) AfterFind(tx *gorm.DB) error {
	r.ReservationTime = r.ReservationTime.UTC()
	return nil
}

// EndTime -> first instant after the booking
func (r Reservation) EndTime() time.Time {
	return r.ReservationTime.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the reservation intersects [start, end).
// Touching endpoints do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return Overlap(r.ReservationTime, r.EndTime(), start, end)
}

// Overlap -> half-open interval intersection test
func Overlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
