package controllers

import (
	"github.com/AlexeyDemidow/restaurant-api-service/models"
	"github.com/AlexeyDemidow/restaurant-api-service/utils"
)

type TableBase struct {
	TableName string `json:"table_name" binding:"required"`
	Seats     int    `json:"seats" binding:"required,gt=0"`
	Location  string `json:"location" binding:"required"`
}

type TableResponse struct {
	ID        uint   `json:"id"`
	TableName string `json:"table_name"`
	Seats     int    `json:"seats"`
	Location  string `json:"location"`
}

// ReservationBase.ReservationTime is parsed with utils.ParseWallClock so
// timestamps without an offset are accepted.
type ReservationBase struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	TableID         uint   `json:"table_id" binding:"required"`
	ReservationTime string `json:"reservation_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

type ReservationResponse struct {
	ID              uint   `json:"id"`
	CustomerName    string `json:"customer_name"`
	TableID         uint   `json:"table_id"`
	ReservationTime string `json:"reservation_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func newTableResponse(t models.Table) TableResponse {
	return TableResponse{ID: t.ID, TableName: t.Name, Seats: t.Seats, Location: t.Location}
}

func newReservationResponse(r models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID,
		CustomerName:    r.CustomerName,
		TableID:         r.TableID,
		ReservationTime: utils.FormatWallClock(r.ReservationTime),
		DurationMinutes: r.DurationMinutes,
	}
}

func newReservationResponses(rs []models.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, newReservationResponse(r))
	}
	return out
}
