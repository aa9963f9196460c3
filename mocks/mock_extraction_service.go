package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"babinium/internal/domain"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) ExtractTable(ctx context.Context, file domain.ImageFile) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}
