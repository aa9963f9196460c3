package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type; only images are accepted")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrMissingImage        = errors.New("an image is required")
	ErrNoTableData         = errors.New("no table data extracted")
	ErrEmptyTable          = errors.New("table has no rows")
	ErrMissingAPIKey       = errors.New("AI service API key is not configured")
)

// User-facing messages for the extraction failure modes.
const (
	MsgEmptyResponse = "empty AI response: the image likely contains no recognizable table"
	MsgInvalidFormat = "AI returned invalid data format; it may not have identified a clear table in the image"
	MsgNotArray      = "AI response was not a JSON array; please try again"
	MsgNoTableData   = "AI could not extract any table data; try an image with a clearer table structure"
	MsgReadFailed    = "could not read the image file"
)

// ConfigurationError reports a missing or invalid setting found at startup.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// EncodingError reports that an image could not be read or encoded.
type EncodingError struct {
	Message string
	Err     error
}

func (e *EncodingError) Error() string {
	return joinMessage(e.Message, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ServiceError reports a failure talking to the AI service.
type ServiceError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	return joinMessage(e.Message, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsAuthFailure reports whether the service rejected the credential.
func (e *ServiceError) IsAuthFailure() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// ParseError reports that the AI response was not valid JSON.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return joinMessage(e.Message, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a well-formed response with unusable content.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return joinMessage(e.Message, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UserMessage returns the human-readable message of a pipeline error,
// without the wrapped cause.
func UserMessage(err error) string {
	var (
		encErr   *EncodingError
		svcErr   *ServiceError
		parseErr *ParseError
		valErr   *ValidationError
	)
	switch {
	case errors.As(err, &encErr):
		return encErr.Message
	case errors.As(err, &svcErr):
		return svcErr.Message
	case errors.As(err, &parseErr):
		return parseErr.Message
	case errors.As(err, &valErr):
		return valErr.Message
	default:
		return err.Error()
	}
}

func joinMessage(msg string, err error) string {
	if err == nil {
		return msg
	}
	return msg + ": " + err.Error()
}
