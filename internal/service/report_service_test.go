package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/port"
	"gstbill/internal/report"
	"gstbill/internal/service"
	"gstbill/mocks"
)

var aprilPeriod = report.Period{
	From: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC),
}

type reportFixture struct {
	invoiceRepo  *mocks.MockInvoiceRepo
	businessRepo *mocks.MockBusinessRepo
	userRepo     *mocks.MockUserRepo
	storage      *mocks.MockObjectStorage
	email        *mocks.MockEmailSender
	business     *domain.Business
	svc          service.ReportService
}

func newReportFixture(t *testing.T, cfg service.ReportConfig) *reportFixture {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	f := &reportFixture{
		invoiceRepo:  new(mocks.MockInvoiceRepo),
		businessRepo: new(mocks.MockBusinessRepo),
		userRepo:     new(mocks.MockUserRepo),
		storage:      new(mocks.MockObjectStorage),
		email:        new(mocks.MockEmailSender),
		business:     karnatakaBusiness(),
	}
	f.businessRepo.On("GetByID", mock.Anything, f.business.ID).Return(f.business, nil)
	f.invoiceRepo.On("ListForPeriod", mock.Anything, f.business.ID, aprilPeriod.From, aprilPeriod.To).
		Return(storedInvoices(t, f.business), nil)
	f.svc = service.NewReportService(f.invoiceRepo, f.businessRepo, f.userRepo, f.storage, f.email, cfg, logger)
	return f
}

// storedInvoice builds an invoice the way the invoice service persists it.
func storedInvoice(t *testing.T, b *domain.Business, number string, day int, gstin string, pos gst.StateCode, items ...domain.InvoiceItem) domain.Invoice {
	t.Helper()
	inv := domain.Invoice{
		ID:            uuid.New(),
		BusinessID:    b.ID,
		InvoiceNumber: number,
		InvoiceDate:   time.Date(2024, time.April, day, 0, 0, 0, 0, time.UTC),
		CustomerName:  "Customer " + number,
		CustomerGSTIN: gstin,
		PlaceOfSupply: pos,
		SupplyType:    gst.ClassifySupply(b.StateCode, pos),
		Status:        domain.InvoiceStatusIssued,
		Items:         items,
	}
	lines := make([]gst.LineItem, len(items))
	for i := range items {
		lines[i] = items[i].LineItem()
	}
	totals, results, err := gst.AggregateInvoice(lines, inv.SupplyType)
	require.NoError(t, err)
	inv.ApplyTotals(&totals)
	for i := range results {
		inv.Items[i].ApplyResult(&results[i])
	}
	return inv
}

func item(hsn, desc, qty, price string, rate gst.TaxRate) domain.InvoiceItem {
	return domain.InvoiceItem{HSNCode: hsn, Description: desc, Quantity: dec(qty), UnitPrice: dec(price), TaxRate: rate}
}

func storedInvoices(t *testing.T, b *domain.Business) []domain.Invoice {
	return []domain.Invoice{
		storedInvoice(t, b, "INV-001", 3, "29AAACR5055K1Z5", "29",
			item("8471", "Laptop", "2", "1000", gst.Rate18),
			item("1006", "Rice", "10", "50", gst.Rate5)),
		storedInvoice(t, b, "INV-002", 10, "", "07",
			item("8471", "Laptop", "1", "500", gst.Rate18)),
	}
}

func TestReportService_Summary(t *testing.T) {
	f := newReportFixture(t, service.ReportConfig{MaxPeriodDays: 366})

	s, err := f.svc.Summary(context.Background(), f.business.ID, aprilPeriod)
	require.NoError(t, err)
	assert.Equal(t, 2, s.InvoiceCount)
	assert.Equal(t, "3000.00", gst.Amount(s.TotalTaxableAmount))
	assert.Equal(t, "192.50", gst.Amount(s.TotalCGST))
	assert.Equal(t, "192.50", gst.Amount(s.TotalSGST))
	assert.Equal(t, "90.00", gst.Amount(s.TotalIGST))
	assert.Equal(t, 2, s.RateWise.Len())
	assert.Equal(t, 2, s.StateWise.Len())
}

func TestReportService_PeriodTooLong(t *testing.T) {
	f := newReportFixture(t, service.ReportConfig{MaxPeriodDays: 10})

	_, err := f.svc.Summary(context.Background(), f.business.ID, aprilPeriod)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	f.invoiceRepo.AssertNotCalled(t, "ListForPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_GSTR1(t *testing.T) {
	f := newReportFixture(t, service.ReportConfig{})

	doc, err := f.svc.GSTR1(context.Background(), f.business.ID, aprilPeriod)
	require.NoError(t, err)
	assert.Equal(t, f.business.GSTIN, doc.GSTIN)
	assert.Equal(t, "042024", doc.FP)
	require.Len(t, doc.B2B, 1)
	assert.Equal(t, "29AAACR5055K1Z5", doc.B2B[0].CTIN)
	assert.Len(t, doc.B2CS, 1)
	assert.Empty(t, doc.B2CL)
}

func TestReportService_Export(t *testing.T) {
	f := newReportFixture(t, service.ReportConfig{})

	tests := []struct {
		format      domain.ReportFormat
		filename    string
		contentType string
		check       func(t *testing.T, body []byte)
	}{
		{
			format:      domain.ReportFormatCSV,
			filename:    "blr-traders_csv_2024-04-01_2024-04-30.csv",
			contentType: "text/csv; charset=utf-8",
			check: func(t *testing.T, body []byte) {
				assert.True(t, strings.HasPrefix(string(body), "GST Summary Report"))
			},
		},
		{
			format:      domain.ReportFormatJSON,
			filename:    "blr-traders_json_2024-04-01_2024-04-30.json",
			contentType: "application/json",
			check: func(t *testing.T, body []byte) {
				s, err := report.FromJSON(string(body))
				require.NoError(t, err)
				assert.Equal(t, 2, s.InvoiceCount)
			},
		},
		{
			format:      domain.ReportFormatGSTR1,
			filename:    "blr-traders_gstr1_2024-04-01_2024-04-30.json",
			contentType: "application/json",
			check: func(t *testing.T, body []byte) {
				var doc map[string]any
				require.NoError(t, json.Unmarshal(body, &doc))
				assert.Equal(t, "042024", doc["fp"])
			},
		},
		{
			format:      domain.ReportFormatXLSX,
			filename:    "blr-traders_xlsx_2024-04-01_2024-04-30.xlsx",
			contentType: domain.ReportContentTypes[domain.ReportFormatXLSX],
			check: func(t *testing.T, body []byte) {
				// XLSX is a zip archive.
				assert.True(t, strings.HasPrefix(string(body), "PK"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			file, err := f.svc.Export(context.Background(), f.business.ID, aprilPeriod, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.filename, file.Filename)
			assert.Equal(t, tt.contentType, file.ContentType)
			tt.check(t, file.Body)
		})
	}
}

func TestReportService_Export_UnknownFormat(t *testing.T) {
	f := newReportFixture(t, service.ReportConfig{})

	_, err := f.svc.Export(context.Background(), f.business.ID, aprilPeriod, "pdf")
	var ie *gst.InvalidInputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "format", ie.Field)
}

func archiveConfig() service.ReportConfig {
	return service.ReportConfig{
		ArchiveEnabled: true,
		Bucket:         "reports-bucket",
		KeyPrefix:      "reports",
		PresignExpiry:  900,
	}
}

func TestReportService_Archive_Disabled(t *testing.T) {
	f := newReportFixture(t, service.ReportConfig{})

	_, err := f.svc.Archive(context.Background(), f.business.ID, uuid.New(), aprilPeriod, domain.ReportFormatCSV)
	assert.ErrorIs(t, err, domain.ErrArchiveDisabled)
	f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestReportService_Archive_Success(t *testing.T) {
	f := newReportFixture(t, archiveConfig())
	user := &domain.User{ID: uuid.New(), BusinessID: f.business.ID, Email: "owner@blr.test", FullName: "Asha"}
	wantKey := "reports/" + f.business.ID.String() + "/blr-traders_csv_2024-04-01_2024-04-30.csv"

	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "reports-bucket" && in.Key == wantKey && in.ContentType == "text/csv; charset=utf-8" && in.Size > 0
	})).Return(&port.UploadOutput{Location: "s3://reports-bucket/" + wantKey}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "reports-bucket", wantKey, int64(900)).Return("https://signed.example/x", nil)
	f.userRepo.On("GetByID", mock.Anything, f.business.ID, user.ID).Return(user, nil)
	f.email.On("SendReportReady", mock.Anything, port.ReportReadyMessage{
		ToEmail:      "owner@blr.test",
		ToName:       "Asha",
		BusinessName: f.business.Name,
		Period:       "2024-04-01 to 2024-04-30",
		Format:       "csv",
		DownloadURL:  "https://signed.example/x",
	}).Return(nil)

	res, err := f.svc.Archive(context.Background(), f.business.ID, user.ID, aprilPeriod, domain.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, wantKey, res.Key)
	assert.Equal(t, "https://signed.example/x", res.DownloadURL)
	assert.True(t, res.Emailed)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	f.storage.AssertExpectations(t)
	f.email.AssertExpectations(t)
}

func TestReportService_Archive_UploadFails(t *testing.T) {
	f := newReportFixture(t, archiveConfig())
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := f.svc.Archive(context.Background(), f.business.ID, uuid.New(), aprilPeriod, domain.ReportFormatJSON)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.email.AssertNotCalled(t, "SendReportReady", mock.Anything, mock.Anything)
}

func TestReportService_Archive_EmailFailureIsNotFatal(t *testing.T) {
	f := newReportFixture(t, archiveConfig())
	user := &domain.User{ID: uuid.New(), BusinessID: f.business.ID, Email: "owner@blr.test"}

	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("https://signed.example/y", nil)
	f.userRepo.On("GetByID", mock.Anything, f.business.ID, user.ID).Return(user, nil)
	f.email.On("SendReportReady", mock.Anything, mock.Anything).Return(errors.New("ses throttled"))

	res, err := f.svc.Archive(context.Background(), f.business.ID, user.ID, aprilPeriod, domain.ReportFormatXLSX)
	require.NoError(t, err)
	assert.False(t, res.Emailed)
	assert.Equal(t, "https://signed.example/y", res.DownloadURL)
}
