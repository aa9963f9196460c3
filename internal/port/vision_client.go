package port

import (
	"context"

	"babinium/internal/domain"
)

// RawModelResponse is the unprocessed text a vision model returned.
type RawModelResponse struct {
	Text      string
	ModelUsed string
}

// VisionClient sends one extraction request to a multimodal model. Failures
// are reported as *domain.ServiceError and are never retried.
type VisionClient interface {
	Generate(ctx context.Context, req domain.ExtractionRequest) (*RawModelResponse, error)
}
