package controllers

import (
	"net/http"

	"github.com/AlexeyDemidow/restaurant-api-service/services"
	"github.com/AlexeyDemidow/restaurant-api-service/utils"
	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	svc *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{svc: svc}
}

// GetAllReservations -> every reservation, ordered by id
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	reservations, err := rc.svc.ListReservations(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, newReservationResponses(reservations))
}

// CreateReservation -> book a table, 409 when the slot overlaps
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req ReservationBase
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	start, err := utils.ParseWallClock(req.ReservationTime)
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	reservation, err := rc.svc.CheckAndReserve(c.Request.Context(), services.ReserveRequest{
		CustomerName:    req.CustomerName,
		TableID:         req.TableID,
		StartTime:       start,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, newReservationResponse(reservation))
}

// DeleteReservation -> cancel a booking
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := rc.svc.CancelReservation(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.String(http.StatusOK, "Reservation with ID %d deleted", id)
}
