package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"gstbill/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendReportReady(ctx context.Context, msg port.ReportReadyMessage) error {
	subject := fmt.Sprintf("%s GST report for %s is ready", msg.BusinessName, msg.Period)
	htmlBody := buildReportReadyHTML(msg)
	textBody := BuildReportReadyText(msg)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// BuildReportReadyText renders the plain-text body of a report-ready email.
func BuildReportReadyText(msg port.ReportReadyMessage) string {
	return fmt.Sprintf("Hi %s,\n\nThe %s report for %s (%s) is ready:\n%s\n\nThe link expires in one hour.\n",
		msg.ToName, msg.Format, msg.BusinessName, msg.Period, msg.DownloadURL)
}

func buildReportReadyHTML(msg port.ReportReadyMessage) string {
	link := html.EscapeString(msg.DownloadURL)
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Your GST report is ready</h2>
  <p>Hi %s,</p>
  <p>The <strong>%s</strong> report for %s covering %s has been generated.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #0F766E; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download Report</a>
  </p>
  <p style="word-break: break-all; color: #666;">%s</p>
  <p style="color: #999; font-size: 12px;">This link expires in one hour.</p>
</body>
</html>`,
		html.EscapeString(msg.ToName), html.EscapeString(msg.Format), html.EscapeString(msg.BusinessName),
		html.EscapeString(msg.Period), link, link)
}
