package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"babinium/internal/config"
	"babinium/internal/domain"
	"babinium/internal/parser"
	"babinium/internal/port"
)

func TestFactory_RegisterAndCreate(t *testing.T) {
	parser.RegisterProvider("test-provider", func(cfg *config.ParserConfig) (port.VisionClient, error) {
		return &stubClient{model: cfg.DefaultModel}, nil
	})

	c, err := parser.NewVisionClient(&config.ParserConfig{
		Provider:     "test-provider",
		DefaultModel: "test-model",
	})

	assert.NoError(t, err)
	assert.NotNil(t, c)

	out, err := c.Generate(context.Background(), domain.ExtractionRequest{})
	assert.NoError(t, err)
	assert.Equal(t, "test-model", out.ModelUsed)
}

func TestFactory_UnknownProvider(t *testing.T) {
	c, err := parser.NewVisionClient(&config.ParserConfig{
		Provider: "nonexistent-provider-xyz",
	})

	assert.Nil(t, c)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown vision provider")
}

// stubClient is a minimal VisionClient for testing the factory.
type stubClient struct {
	model string
}

func (s *stubClient) Generate(_ context.Context, _ domain.ExtractionRequest) (*port.RawModelResponse, error) {
	return &port.RawModelResponse{Text: "[]", ModelUsed: s.model}, nil
}
