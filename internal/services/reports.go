package services

import (
	"strings"

	"github.com/esteban572/first-responder-connect-sub000/internal/database"
	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	apperrors "github.com/esteban572/first-responder-connect-sub000/pkg/errors"
	"gorm.io/gorm"
)

// SubmitReport files a moderation report. A reporter may have at most
// one open report per target.
func SubmitReport(reporterID, targetID, targetType, reason string) (*models.Report, error) {
	targetType = strings.ToLower(targetType)
	if targetType != "user" && targetType != "post" {
		return nil, apperrors.Validation("targetType must be 'user' or 'post'")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.Validation("Reason is required")
	}

	var existing models.Report
	err := database.DB.
		Where("reporter_id = ? AND target_id = ? AND status IN ?",
			reporterID, targetID, []models.ReportStatus{models.ReportPending, models.ReportReviewed}).
		First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("Already reported")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperrors.Transient("report store unreachable")
	}

	report := models.Report{
		ReporterID: reporterID,
		TargetID:   targetID,
		TargetType: targetType,
		Reason:     reason,
		Status:     models.ReportPending,
	}
	if err := database.DB.Create(&report).Error; err != nil {
		return nil, apperrors.Transient("Failed to submit report")
	}
	return &report, nil
}

// UpdateReportStatus advances a report through its lifecycle. Transitions
// only move forward; dismissed and action_taken are terminal. The
// conditional update guards against concurrent moderators.
func UpdateReportStatus(reportID string, next models.ReportStatus) (*models.Report, error) {
	var report models.Report
	if err := database.DB.First(&report, "id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Report not found")
		}
		return nil, apperrors.Transient("report store unreachable")
	}

	if !report.Status.ValidTransition(next) {
		return nil, apperrors.Conflict("Invalid status transition")
	}

	result := database.DB.Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, report.Status).
		Update("status", next)
	if result.Error != nil {
		return nil, apperrors.Transient("Failed to update report")
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("Report changed concurrently")
	}

	report.Status = next
	return &report, nil
}

// ListReports returns reports for the admin queue, optionally filtered
// by status.
func ListReports(status models.ReportStatus) ([]models.Report, error) {
	q := database.DB.Preload("Reporter").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reports []models.Report
	if err := q.Find(&reports).Error; err != nil {
		return []models.Report{}, apperrors.Transient("report store unreachable")
	}
	return reports, nil
}
