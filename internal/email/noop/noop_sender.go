package noop

import (
	"context"

	"github.com/sirupsen/logrus"

	"gstbill/internal/port"
)

type noopSender struct {
	log logrus.FieldLogger
}

// NewNoopSender creates an EmailSender that only logs what it would send.
func NewNoopSender(log logrus.FieldLogger) port.EmailSender {
	return &noopSender{log: log}
}

func (s *noopSender) SendReportReady(_ context.Context, msg port.ReportReadyMessage) error {
	s.log.WithFields(logrus.Fields{
		"to":       msg.ToEmail,
		"business": msg.BusinessName,
		"period":   msg.Period,
		"format":   msg.Format,
		"url":      msg.DownloadURL,
	}).Info("noop email: report ready")
	return nil
}
