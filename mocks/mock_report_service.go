package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/report"
	"gstbill/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, businessID uuid.UUID, period report.Period) (*gst.GSTSummary, error) {
	args := m.Called(ctx, businessID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gst.GSTSummary), args.Error(1)
}

func (m *MockReportService) GSTR1(ctx context.Context, businessID uuid.UUID, period report.Period) (*report.GSTR1Document, error) {
	args := m.Called(ctx, businessID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.GSTR1Document), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, businessID uuid.UUID, period report.Period, format domain.ReportFormat) (*service.ReportFile, error) {
	args := m.Called(ctx, businessID, period, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReportFile), args.Error(1)
}

func (m *MockReportService) Archive(ctx context.Context, businessID, userID uuid.UUID, period report.Period, format domain.ReportFormat) (*service.ArchiveResult, error) {
	args := m.Called(ctx, businessID, userID, period, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArchiveResult), args.Error(1)
}
