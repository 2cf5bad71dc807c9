package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstbill/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReportReady(ctx context.Context, msg port.ReportReadyMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
