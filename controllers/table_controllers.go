package controllers

import (
	"net/http"

	"github.com/AlexeyDemidow/restaurant-api-service/services"
	"github.com/AlexeyDemidow/restaurant-api-service/utils"
	"github.com/gin-gonic/gin"
)

type TableController struct {
	svc *services.ReservationService
}

func NewTableController(svc *services.ReservationService) *TableController {
	return &TableController{svc: svc}
}

// CreateTable -> add a new table
func (tc *TableController) CreateTable(c *gin.Context) {
	var req TableBase
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	table, err := tc.svc.CreateTable(c.Request.Context(), req.TableName, req.Seats, req.Location)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, newTableResponse(table))
}

// GetAllTables -> every table, ordered by id
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.svc.ListTables(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]TableResponse, 0, len(tables))
	for _, t := range tables {
		out = append(out, newTableResponse(t))
	}
	utils.RespondJSON(c, http.StatusOK, out)
}

// DeleteTable -> remove a table without reservations
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := tc.svc.DeleteTable(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.String(http.StatusOK, "Table with ID %d deleted", id)
}

// GetTableSchedule -> reservations of one table, earliest first
func (tc *TableController) GetTableSchedule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	schedule, err := tc.svc.TableSchedule(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, newReservationResponses(schedule))
}
