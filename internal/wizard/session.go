package wizard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"babinium/internal/domain"
	"babinium/internal/service"
)

// Session holds one user's pass through the wizard: the selected image, the
// last result and the last error. It is not safe for concurrent use.
type Session struct {
	state     State
	image     []byte
	imageName string
	mimeType  string
	result    *domain.ExtractionResult
	err       error
	extractor service.ExtractionService
}

// NewSession creates an idle session backed by extractor.
func NewSession(extractor service.ExtractionService) *Session {
	return &Session{state: StateIdle, extractor: extractor}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Result returns the last successful extraction, if the session is in success.
func (s *Session) Result() *domain.ExtractionResult { return s.result }

// Err returns the error of the last failed extraction.
func (s *Session) Err() error { return s.err }

// Select stores a new image and moves to preview. Only images are accepted.
func (s *Session) Select(file domain.ImageFile) error {
	if !domain.IsImageMimeType(file.MimeType) {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, file.MimeType)
	}
	if file.Content == nil {
		return domain.ErrMissingImage
	}
	next, err := Transition(s.state, EventSelect)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(file.Content)
	if err != nil {
		return &domain.EncodingError{Message: domain.MsgReadFailed, Err: err}
	}
	s.image = data
	s.imageName = file.Name
	s.mimeType = file.MimeType
	s.result = nil
	s.err = nil
	s.state = next
	return nil
}

// Submit runs the extraction for the selected image. The session ends in
// success or error; the pipeline error is both returned and kept.
func (s *Session) Submit(ctx context.Context) (*domain.ExtractionResult, error) {
	next, err := Transition(s.state, EventSubmit)
	if err != nil {
		return nil, err
	}
	s.state = next
	s.err = nil

	result, err := s.extractor.ExtractTable(ctx, domain.ImageFile{
		Name:     s.imageName,
		MimeType: s.mimeType,
		Content:  bytes.NewReader(s.image),
	})
	if err == nil && (result == nil || result.RowCount == 0) {
		err = &domain.ValidationError{Message: domain.MsgNoTableData, Err: domain.ErrNoTableData}
	}
	if err != nil {
		s.state, _ = Transition(s.state, EventFail)
		s.err = err
		return nil, err
	}

	s.state, _ = Transition(s.state, EventSucceed)
	s.result = result
	return result, nil
}

// Reset clears the session back to idle.
func (s *Session) Reset() error {
	next, err := Transition(s.state, EventReset)
	if err != nil {
		return err
	}
	*s = Session{state: next, extractor: s.extractor}
	return nil
}

// IsInvalidTransition reports whether err came from a rejected transition.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
