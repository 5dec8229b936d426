package controllers

import (
	"net/http"
	"strconv"
	"time"

	"carbculator/services"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	Svc *services.ProgressService
}

func NewCalendarController(svc *services.ProgressService) *CalendarController {
	return &CalendarController{Svc: svc}
}

// GetMonthStatuses returns one attainment status per day of the month,
// keyed by date, so the calendar resolves a day's color in O(1).
func (h *CalendarController) GetMonthStatuses(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	out, err := h.Svc.MonthStatuses(c.Request.Context(), userID, year, time.Month(month))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": out})
}
