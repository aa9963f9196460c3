package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"babinium/internal/domain"
	"babinium/internal/port"
)

// MockVisionClient is a mock implementation of port.VisionClient.
type MockVisionClient struct {
	mock.Mock
}

func (m *MockVisionClient) Generate(ctx context.Context, req domain.ExtractionRequest) (*port.RawModelResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.RawModelResponse), args.Error(1)
}
