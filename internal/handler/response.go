package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"babinium/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Pipeline errors carry a user-facing message that is passed through as is.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		cfgErr   *domain.ConfigurationError
		encErr   *domain.EncodingError
		svcErr   *domain.ServiceError
		parseErr *domain.ParseError
		valErr   *domain.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; only images are accepted"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrMissingImage):
		return http.StatusBadRequest, "MISSING_IMAGE", "an image is required"
	case errors.Is(err, domain.ErrEmptyTable):
		return http.StatusBadRequest, "EMPTY_TABLE", "table has no rows"
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError, "CONFIGURATION_ERROR", "the service is not configured"
	case errors.As(err, &encErr):
		return http.StatusBadRequest, "ENCODING_FAILED", encErr.Message
	case errors.As(err, &svcErr):
		return http.StatusBadGateway, "AI_SERVICE_ERROR", svcErr.Message
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, "INVALID_AI_FORMAT", parseErr.Message
	case errors.As(err, &valErr):
		if errors.Is(valErr, domain.ErrNoTableData) {
			return http.StatusUnprocessableEntity, "NO_TABLE_DETECTED", valErr.Message
		}
		return http.StatusUnprocessableEntity, "INVALID_AI_FORMAT", valErr.Message
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		slog.Error("request failed", "request_id", requestID, "code", code, "error", err)
	}
	RespondError(c, status, code, msg)
}
