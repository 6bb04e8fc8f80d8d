package handler

import (
	"net/http"

	"villago/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type reportRequest struct {
	ReportedUserID string `json:"reportedUserId" binding:"required"`
	RoomID         string `json:"roomId"`
	MessageID      *uint  `json:"messageId"`
	ReportType     string `json:"reportType" binding:"required"`
	Comment        string `json:"comment"`
}

// CreateReport files a moderation report against a user or message.
func (h *Handler) CreateReport(c *gin.Context) {
	reporterID, _, ok := h.bearerIdentity(c)
	if !ok {
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reportedUserId and reportType are required"})
		return
	}
	if req.ReportedUserID == reporterID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot report yourself"})
		return
	}

	report := &models.Report{
		ReporterID:     reporterID,
		ReportedUserID: req.ReportedUserID,
		RoomID:         req.RoomID,
		MessageID:      req.MessageID,
		ReportType:     req.ReportType,
		Comment:        req.Comment,
	}
	if err := h.Moderation.HandleReport(report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to file report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reportId": report.ID})
}
