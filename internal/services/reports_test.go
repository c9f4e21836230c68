package services

import (
	"testing"

	"github.com/esteban572/first-responder-connect-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestReportTransitions(t *testing.T) {
	assert.True(t, models.ReportPending.ValidTransition(models.ReportReviewed))
	assert.True(t, models.ReportReviewed.ValidTransition(models.ReportDismissed))
	assert.True(t, models.ReportReviewed.ValidTransition(models.ReportActionTaken))

	// No skipping, no moving backwards, no leaving a terminal state.
	assert.False(t, models.ReportPending.ValidTransition(models.ReportDismissed))
	assert.False(t, models.ReportPending.ValidTransition(models.ReportActionTaken))
	assert.False(t, models.ReportReviewed.ValidTransition(models.ReportPending))
	assert.False(t, models.ReportDismissed.ValidTransition(models.ReportReviewed))
	assert.False(t, models.ReportActionTaken.ValidTransition(models.ReportReviewed))
	assert.False(t, models.ReportPending.ValidTransition(models.ReportPending))
}

func TestSubmitReport(t *testing.T) {
	SetupTestDB()
	seedUser("reporter", "Reporter")
	seedUser("offender", "Offender")

	report, err := SubmitReport("reporter", "offender", "user", "Spamming the feed")
	assert.NoError(t, err)
	assert.Equal(t, models.ReportPending, report.Status)

	// One open report per (reporter, target).
	_, err = SubmitReport("reporter", "offender", "user", "Still spamming")
	assert.Error(t, err)

	_, err = SubmitReport("reporter", "offender", "vehicle", "bad type")
	assert.Error(t, err)

	_, err = SubmitReport("reporter", "offender", "user", "   ")
	assert.Error(t, err)
}

func TestUpdateReportStatus(t *testing.T) {
	SetupTestDB()
	seedUser("reporter", "Reporter")
	seedUser("offender", "Offender")

	report, _ := SubmitReport("reporter", "offender", "user", "Harassment in comments")

	updated, err := UpdateReportStatus(report.ID, models.ReportReviewed)
	assert.NoError(t, err)
	assert.Equal(t, models.ReportReviewed, updated.Status)

	updated, err = UpdateReportStatus(report.ID, models.ReportActionTaken)
	assert.NoError(t, err)
	assert.Equal(t, models.ReportActionTaken, updated.Status)

	// Terminal: no further movement.
	_, err = UpdateReportStatus(report.ID, models.ReportReviewed)
	assert.Error(t, err)

	_, err = UpdateReportStatus("no-such-report", models.ReportReviewed)
	assert.Error(t, err)
}

func TestSubmitReport_ReopensAfterResolution(t *testing.T) {
	SetupTestDB()
	seedUser("reporter", "Reporter")
	seedUser("offender", "Offender")

	report, _ := SubmitReport("reporter", "offender", "user", "First incident")
	UpdateReportStatus(report.ID, models.ReportReviewed)
	UpdateReportStatus(report.ID, models.ReportDismissed)

	// Once the earlier report is closed, a new one may be filed.
	_, err := SubmitReport("reporter", "offender", "user", "Second incident")
	assert.NoError(t, err)

	open, err := ListReports(models.ReportPending)
	assert.NoError(t, err)
	assert.Len(t, open, 1)
	assert.Equal(t, "Second incident", open[0].Reason)
}
