package handlers

import (
	"net/http"

	"github.com/esteban572/first-responder-connect-sub000/internal/middleware"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/esteban572/first-responder-connect-sub000/internal/services"
	"github.com/esteban572/first-responder-connect-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

// SubmitReport POST /users/report
func SubmitReport(c *gin.Context) {
	reporterID := c.MustGet("userId").(string)

	var req struct {
		TargetID   string `json:"targetId" binding:"required"`
		TargetType string `json:"targetType" binding:"required"`
		Reason     string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := services.SubmitReport(reporterID, req.TargetID, req.TargetType, req.Reason)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report submitted successfully", "report": report})
}

// ListReports GET /admin/reports?status=...
func ListReports(c *gin.Context) {
	status := models.ReportStatus(c.Query("status"))

	reports, err := services.ListReports(status)
	if err != nil {
		logger.Warn().Err(err).Msg("reports unavailable")
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// UpdateReportStatus PUT /admin/reports/:id
func UpdateReportStatus(c *gin.Context) {
	reportID := c.Param("id")

	var req struct {
		Status models.ReportStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := services.UpdateReportStatus(reportID, req.Status)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
