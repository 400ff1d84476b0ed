package clients

import (
	"context"
	"time"

	"citydash/backend/services/dashboard-service/internal/models"
)

// ReportNotification is the document sent for each new citizen report.
type ReportNotification struct {
	ReportID     int64  `json:"report_id"`
	ReporterName string `json:"reporter_name"`
	IssueType    string `json:"issue_type"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// NewReportNotification builds the public view of report.
func NewReportNotification(report models.CitizenReport) ReportNotification {
	return ReportNotification{
		ReportID:     report.ID,
		ReporterName: report.ReporterName,
		IssueType:    string(report.IssueType),
		Location:     report.Location,
		Description:  report.Description,
		Status:       string(report.Status),
		CreatedAt:    report.CreatedAt.Format(time.RFC3339Nano),
	}
}

// ReportClient notifies the report workflow. The reply body is ignored.
type ReportClient struct {
	base *WebhookClient
}

// NewReportClient returns client instance.
func NewReportClient(url string, httpClient HTTPDoer) *ReportClient {
	return &ReportClient{base: NewWebhookClient(url, httpClient)}
}

// Notify posts the notification for report.
func (c *ReportClient) Notify(ctx context.Context, report models.CitizenReport) error {
	_, err := c.base.PostJSON(ctx, NewReportNotification(report))
	return err
}
