package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"carbculator/services"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	Svc *services.UploadService
}

func NewUploadController(svc *services.UploadService) *UploadController {
	return &UploadController{Svc: svc}
}

type AnalyzeImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	Filename    string `json:"filename"`
}

// AnalyzeImage runs the upload state machine: store the image, then
// analyze it. The response never creates a food entry; the client
// confirms the analysis and posts the entry separately.
func (h *UploadController) AnalyzeImage(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	raw := req.ImageBase64
	contentType := "image/jpeg"
	// Accept both a bare base64 payload and a data URI.
	if strings.HasPrefix(raw, "data:") {
		meta, data, found := strings.Cut(raw, ",")
		if !found {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data URI"})
			return
		}
		if mt, ok := strings.CutPrefix(meta, "data:"); ok {
			contentType = strings.SplitN(mt, ";", 2)[0]
		}
		raw = data
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base64 image"})
		return
	}

	result, err := h.Svc.ProcessUpload(c.Request.Context(), userID, req.Filename, contentType, data)
	if err != nil {
		reason := "analysis_failed"
		if errors.Is(err, services.ErrStorageFailed) {
			reason = "storage_failed"
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     reason,
			"state":     result.State,
			"image_url": result.ImageURL,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
