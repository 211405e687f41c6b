package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"batchlens/internal/domain"
	"batchlens/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) AnalyzeFiles(ctx context.Context, files []service.FileInput) (*domain.BatchAnalysis, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchAnalysis), args.Error(1)
}
