package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"babinium/internal/domain"
	"babinium/internal/imageenc"
	"babinium/internal/parser"
	"babinium/internal/port"
	"babinium/internal/validator"
)

// ExtractionService defines the image-to-table extraction contract.
type ExtractionService interface {
	ExtractTable(ctx context.Context, file domain.ImageFile) (*domain.ExtractionResult, error)
}

type extractionService struct {
	client  port.VisionClient
	builder *parser.RequestBuilder
	parser  *parser.ResponseParser
	checks  *validator.Engine
	logger  *slog.Logger
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	client port.VisionClient,
	builder *parser.RequestBuilder,
	respParser *parser.ResponseParser,
	logger *slog.Logger,
) ExtractionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &extractionService{
		client:  client,
		builder: builder,
		parser:  respParser,
		checks:  validator.NewEngine(validator.DefaultRegistry()),
		logger:  logger,
	}
}

// ExtractTable runs encode, build, generate and parse in order. Errors from
// any stage are returned unchanged; nothing is retried.
func (s *extractionService) ExtractTable(ctx context.Context, file domain.ImageFile) (*domain.ExtractionResult, error) {
	start := time.Now()
	id := uuid.New().String()
	log := s.logger.With("extraction_id", id, "file", file.Name, "mime_type", file.MimeType)

	img, err := imageenc.Encode(file)
	if err != nil {
		log.Error("extraction.encode_failed", "error", err)
		return nil, err
	}

	req := s.builder.Build(img)

	raw, err := s.client.Generate(ctx, req)
	if err != nil {
		log.Error("extraction.generate_failed", "error", err)
		return nil, err
	}

	rows, err := s.parser.Parse(raw.Text)
	if err != nil {
		log.Warn("extraction.parse_failed", "error", err)
		return nil, err
	}

	if len(rows) == 0 {
		log.Warn("extraction.no_rows")
		return nil, &domain.ValidationError{Message: domain.MsgNoTableData, Err: domain.ErrNoTableData}
	}

	issues := s.checks.Check(ctx, rows)

	log.Info("extraction.completed",
		"rows", len(rows),
		"issues", len(issues),
		"columns", len(rows.Columns()),
		"model", raw.ModelUsed,
		"latency", time.Since(start),
	)

	return &domain.ExtractionResult{
		ID:       id,
		Columns:  rows.Columns(),
		Rows:     rows,
		RowCount: len(rows),
		Model:    raw.ModelUsed,
		Issues:   issues,
	}, nil
}
