package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"carbculator/services"

	"github.com/gin-gonic/gin"
)

type InsightController struct {
	Progress *services.ProgressService
	Insights *services.InsightService
}

func NewInsightController(progress *services.ProgressService, insights *services.InsightService) *InsightController {
	return &InsightController{Progress: progress, Insights: insights}
}

// GenerateInsights summarizes the requested range (last 7 days by
// default) and asks the generative service for trends, recommendations
// and goals.
func (h *InsightController) GenerateInsights(c *gin.Context) {
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

	summary, err := h.Progress.RangeSummary(c.Request.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, services.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	label := fmt.Sprintf("%s to %s", fromStr, toStr)
	req := services.BuildSummary(label, &summary.Aggregate, summary.Goals)

	insights, err := h.Insights.Generate(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "insight generation failed"})
		return
	}
	c.JSON(http.StatusOK, insights)
}
