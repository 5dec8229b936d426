package controllers

import (
	"errors"
	"net/http"
	"time"

	"carbculator/services"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Svc *services.ProgressService
}

func NewProgressController(svc *services.ProgressService) *ProgressController {
	return &ProgressController{Svc: svc}
}

// GetDailyProgress serves today's consumed-vs-goal breakdown; an
// optional ?date query selects another day.
func (h *ProgressController) GetDailyProgress(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date, err := dateQuery(c, "date")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	out, err := h.Svc.DailyProgress(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProgressController) GetRangeSummary(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	fromStr := c.DefaultQuery("from", now.AddDate(0, 0, -6).Format("2006-01-02"))
	toStr := c.DefaultQuery("to", now.Format("2006-01-02"))

	from, err := time.ParseInLocation("2006-01-02", fromStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, now.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	out, err := h.Svc.RangeSummary(c.Request.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
