package handler

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"babinium/internal/domain"
	"babinium/internal/imageenc"
	"babinium/internal/service"
)

// multipartOverhead is the allowance for form boundaries and headers on top of
// the image size limit.
const multipartOverhead = 1 << 20

// clipboardImageName names images pasted as data URLs.
const clipboardImageName = "clipboard"

// ExtractionHandler handles table extraction endpoints.
type ExtractionHandler struct {
	extractionService service.ExtractionService
	maxBytes          int64
}

// NewExtractionHandler creates a new ExtractionHandler. Images larger than
// maxBytes are rejected with FILE_TOO_LARGE.
func NewExtractionHandler(extractionService service.ExtractionService, maxBytes int64) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService, maxBytes: maxBytes}
}

type dataURLRequest struct {
	DataURL string `json:"data_url" binding:"required"`
	Name    string `json:"name"`
}

// Extract handles POST /api/v1/extractions
// @Summary Extract a table from an image
// @Description Accepts a multipart "image" field or a JSON body {"data_url": "..."}
// @Tags extractions
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=domain.ExtractionResult}
// @Failure 400 {object} APIResponse "Missing image or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 422 {object} APIResponse "No table detected or invalid AI output"
// @Failure 502 {object} APIResponse "AI service error"
// @Router /extractions [post]
func (h *ExtractionHandler) Extract(c *gin.Context) {
	var (
		file domain.ImageFile
		err  error
	)
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		file, err = h.readDataURL(c)
	} else {
		file, err = h.readMultipart(c)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	result, err := h.extractionService.ExtractTable(c.Request.Context(), file)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

func (h *ExtractionHandler) readDataURL(c *gin.Context) (domain.ImageFile, error) {
	limitBody(c, int64(base64.StdEncoding.EncodedLen(int(h.maxBytes)))+multipartOverhead)

	var req dataURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.ImageFile{}, domain.ErrFileTooLarge
		}
		return domain.ImageFile{}, fmt.Errorf("%w: %v", domain.ErrMissingImage, err)
	}
	mimeType, data, err := imageenc.DecodeDataURL(req.DataURL)
	if err != nil {
		return domain.ImageFile{}, err
	}
	if int64(len(data)) > h.maxBytes {
		return domain.ImageFile{}, domain.ErrFileTooLarge
	}
	if mimeType == "" {
		mimeType = imageenc.DetectMimeType(data)
	}
	if !domain.IsImageMimeType(mimeType) {
		return domain.ImageFile{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, mimeType)
	}
	name := req.Name
	if name == "" {
		name = clipboardImageName
	}
	return domain.ImageFile{Name: name, MimeType: mimeType, Content: bytes.NewReader(data)}, nil
}

func (h *ExtractionHandler) readMultipart(c *gin.Context) (domain.ImageFile, error) {
	limitBody(c, h.maxBytes+multipartOverhead)

	part, header, err := c.Request.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.ImageFile{}, domain.ErrFileTooLarge
		}
		return domain.ImageFile{}, domain.ErrMissingImage
	}
	defer func() { _ = part.Close() }()

	if header.Size > h.maxBytes {
		return domain.ImageFile{}, domain.ErrFileTooLarge
	}
	data, err := io.ReadAll(part)
	if err != nil {
		return domain.ImageFile{}, &domain.EncodingError{Message: domain.MsgReadFailed, Err: err}
	}

	mimeType := imageenc.BaseMimeType(header.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = imageenc.DetectMimeType(data)
	}
	if !domain.IsImageMimeType(mimeType) {
		return domain.ImageFile{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, mimeType)
	}

	return domain.ImageFile{Name: header.Filename, MimeType: mimeType, Content: bytes.NewReader(data)}, nil
}

// limitBody caps how much of the request body handlers may read.
func limitBody(c *gin.Context, n int64) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
	}
}
