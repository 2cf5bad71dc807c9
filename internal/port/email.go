package port

import "context"

// ReportReadyMessage describes an archived report for notification.
type ReportReadyMessage struct {
	ToEmail      string
	ToName       string
	BusinessName string
	Period       string
	Format       string
	DownloadURL  string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendReportReady(ctx context.Context, msg ReportReadyMessage) error
}
