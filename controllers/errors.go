package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AlexeyDemidow/restaurant-api-service/database"
	"github.com/AlexeyDemidow/restaurant-api-service/services"
	"github.com/AlexeyDemidow/restaurant-api-service/utils"
	"github.com/gin-gonic/gin"
)

var errInvalidID = errors.New("id must be a positive integer")

// statusFor maps domain errors to HTTP status codes. Anything unknown is a
// storage or programming fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrTableNotFound),
		errors.Is(err, database.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, database.ErrTableHasReservations):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidDuration),
		errors.Is(err, database.ErrInvalidSeats):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status. Internal errors are
// logged and hidden from the client.
func respondServiceError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.ErrorLogger.WithField("path", c.FullPath()).Errorf("request failed: %v", err)
		utils.RespondDetail(c, code, "internal server error")
		return
	}
	utils.RespondError(c, code, err)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusUnprocessableEntity, errInvalidID)
		return 0, false
	}
	return uint(id), true
}
