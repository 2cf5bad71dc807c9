package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/port"
	"gstbill/internal/report"
)

// ReportConfig carries the report settings the service needs.
type ReportConfig struct {
	ArchiveEnabled bool
	Bucket         string
	KeyPrefix      string
	PresignExpiry  int64
	MaxPeriodDays  int
}

// ReportFile is a rendered export ready to be sent or stored.
type ReportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ArchiveResult describes an export stored in object storage.
type ArchiveResult struct {
	Key         string    `json:"key"`
	Format      string    `json:"format"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	Emailed     bool      `json:"emailed"`
}

// ReportService builds GST summaries and returns for a reporting period.
type ReportService interface {
	Summary(ctx context.Context, businessID uuid.UUID, period report.Period) (*gst.GSTSummary, error)
	GSTR1(ctx context.Context, businessID uuid.UUID, period report.Period) (*report.GSTR1Document, error)
	Export(ctx context.Context, businessID uuid.UUID, period report.Period, format domain.ReportFormat) (*ReportFile, error)
	Archive(ctx context.Context, businessID, userID uuid.UUID, period report.Period, format domain.ReportFormat) (*ArchiveResult, error)
}

type reportService struct {
	invoiceRepo  port.InvoiceRepository
	businessRepo port.BusinessRepository
	userRepo     port.UserRepository
	storage      port.ObjectStorage
	email        port.EmailSender
	cfg          ReportConfig
	log          logrus.FieldLogger
	now          func() time.Time
}

// NewReportService creates a new ReportService. storage may be nil when
// archiving is disabled.
func NewReportService(
	invoiceRepo port.InvoiceRepository,
	businessRepo port.BusinessRepository,
	userRepo port.UserRepository,
	storage port.ObjectStorage,
	email port.EmailSender,
	cfg ReportConfig,
	log logrus.FieldLogger,
) ReportService {
	return &reportService{
		invoiceRepo:  invoiceRepo,
		businessRepo: businessRepo,
		userRepo:     userRepo,
		storage:      storage,
		email:        email,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
	}
}

func (s *reportService) Summary(ctx context.Context, businessID uuid.UUID, period report.Period) (*gst.GSTSummary, error) {
	_, summary, err := s.summarize(ctx, businessID, period)
	return summary, err
}

func (s *reportService) GSTR1(ctx context.Context, businessID uuid.UUID, period report.Period) (*report.GSTR1Document, error) {
	business, summary, err := s.summarize(ctx, businessID, period)
	if err != nil {
		return nil, err
	}
	return s.gstr1(business, summary, period)
}

func (s *reportService) Export(ctx context.Context, businessID uuid.UUID, period report.Period, format domain.ReportFormat) (*ReportFile, error) {
	business, summary, err := s.summarize(ctx, businessID, period)
	if err != nil {
		return nil, err
	}
	return s.render(business, summary, period, format)
}

func (s *reportService) Archive(ctx context.Context, businessID, userID uuid.UUID, period report.Period, format domain.ReportFormat) (*ArchiveResult, error) {
	if !s.cfg.ArchiveEnabled || s.storage == nil {
		return nil, domain.ErrArchiveDisabled
	}

	business, summary, err := s.summarize(ctx, businessID, period)
	if err != nil {
		return nil, err
	}
	file, err := s.render(business, summary, period, format)
	if err != nil {
		return nil, err
	}

	key := path.Join(s.cfg.KeyPrefix, businessID.String(), file.Filename)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(file.Body),
		ContentType: file.ContentType,
		Size:        int64(len(file.Body)),
	}); err != nil {
		s.log.WithError(err).WithField("key", key).Error("report upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning report url: %w", err)
	}
	result := &ArchiveResult{
		Key:         key,
		Format:      string(format),
		DownloadURL: url,
		ExpiresAt:   s.now().Add(time.Duration(s.cfg.PresignExpiry) * time.Second),
	}

	// Notification is best effort; the archive already succeeded.
	user, err := s.userRepo.GetByID(ctx, businessID, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("report archived but user lookup failed")
		return result, nil
	}
	if err := s.email.SendReportReady(ctx, port.ReportReadyMessage{
		ToEmail:      user.Email,
		ToName:       user.FullName,
		BusinessName: business.Name,
		Period:       period.String(),
		Format:       string(format),
		DownloadURL:  url,
	}); err != nil {
		s.log.WithError(err).WithField("to", user.Email).Warn("report archived but email failed")
		return result, nil
	}
	result.Emailed = true
	return result, nil
}

// summarize loads the period's issued invoices and folds them into a summary.
func (s *reportService) summarize(ctx context.Context, businessID uuid.UUID, period report.Period) (*domain.Business, *gst.GSTSummary, error) {
	if err := s.checkPeriod(period); err != nil {
		return nil, nil, err
	}
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, nil, err
	}
	invoices, err := s.invoiceRepo.ListForPeriod(ctx, businessID, period.From, period.To)
	if err != nil {
		return nil, nil, err
	}

	engineInvoices := make([]gst.Invoice, len(invoices))
	for i := range invoices {
		engineInvoices[i] = invoices[i].EngineInvoice()
	}
	summary, err := gst.Summarize(engineInvoices, gst.SummaryOptions{HomeState: business.StateCode})
	if err != nil {
		return nil, nil, fmt.Errorf("summarizing %d invoices: %w", len(invoices), err)
	}
	s.log.WithFields(logrus.Fields{
		"business_id": businessID,
		"period":      period.String(),
		"invoices":    summary.InvoiceCount,
	}).Debug("summary built")
	return business, summary, nil
}

func (s *reportService) checkPeriod(p report.Period) error {
	if p.From.IsZero() || p.To.IsZero() || p.To.Before(p.From) {
		return domain.ErrInvalidPeriod
	}
	if s.cfg.MaxPeriodDays > 0 {
		days := int(p.To.Sub(p.From).Hours()/24) + 1
		if days > s.cfg.MaxPeriodDays {
			return fmt.Errorf("%w: %d days exceeds limit of %d", domain.ErrInvalidPeriod, days, s.cfg.MaxPeriodDays)
		}
	}
	return nil
}

func (s *reportService) gstr1(business *domain.Business, summary *gst.GSTSummary, period report.Period) (*report.GSTR1Document, error) {
	doc, err := report.ToGSTR1(summary, business.GSTIN)
	if err != nil {
		return nil, err
	}
	doc.FP = period.FilingPeriod()
	return doc, nil
}

func (s *reportService) render(business *domain.Business, summary *gst.GSTSummary, period report.Period, format domain.ReportFormat) (*ReportFile, error) {
	contentType, ok := domain.ReportContentTypes[format]
	if !ok {
		return nil, &gst.InvalidInputError{Field: "format", Value: string(format), Reason: "must be json, csv, xlsx or gstr1"}
	}
	file := &ReportFile{
		Filename:    fmt.Sprintf("%s_%s_%s.%s", business.Slug, format, period.Slug(), domain.ReportExtensions[format]),
		ContentType: contentType,
	}

	switch format {
	case domain.ReportFormatCSV:
		out, err := report.ToCSV(summary, period)
		if err != nil {
			return nil, err
		}
		file.Body = []byte(out)
	case domain.ReportFormatJSON:
		out, err := report.ToJSON(summary)
		if err != nil {
			return nil, err
		}
		file.Body = []byte(out)
	case domain.ReportFormatXLSX:
		var buf bytes.Buffer
		if err := report.ToXLSX(summary, period, &buf); err != nil {
			return nil, err
		}
		file.Body = buf.Bytes()
	case domain.ReportFormatGSTR1:
		doc, err := s.gstr1(business, summary, period)
		if err != nil {
			return nil, err
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		file.Body = out
	}
	return file, nil
}
