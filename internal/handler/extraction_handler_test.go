package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"babinium/internal/domain"
	"babinium/internal/handler"
	"babinium/mocks"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write(data)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func sampleResult() *domain.ExtractionResult {
	r := domain.NewTableRow()
	r.Set("Name", "A")
	r.Set("Age", float64(30))
	return &domain.ExtractionResult{
		ID:       "ext-1",
		Columns:  []string{"Name", "Age"},
		Rows:     domain.TableData{r},
		RowCount: 1,
		Model:    "gemini-2.5-flash",
	}
}

func TestExtractionHandler_Multipart_Success(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 1<<20)

	svc.On("ExtractTable", mock.Anything, mock.MatchedBy(func(f domain.ImageFile) bool {
		data, _ := io.ReadAll(f.Content)
		return f.Name == "table.png" && f.MimeType == "image/png" && bytes.Equal(data, pngHeader)
	})).Return(sampleResult(), nil)

	body, ct := multipartImage(t, "image", "table.png", "image/png", pngHeader)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	c.Request.Header.Set("Content-Type", ct)

	h.Extract(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID       string          `json:"id"`
			Columns  []string        `json:"columns"`
			Rows     json.RawMessage `json:"rows"`
			RowCount int             `json:"row_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"Name", "Age"}, resp.Data.Columns)
	assert.Equal(t, `[{"Name":"A","Age":30}]`, string(resp.Data.Rows))
	assert.Equal(t, 1, resp.Data.RowCount)
	svc.AssertExpectations(t)
}

func TestExtractionHandler_Multipart_SniffsMissingType(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 1<<20)

	svc.On("ExtractTable", mock.Anything, mock.MatchedBy(func(f domain.ImageFile) bool {
		return f.MimeType == "image/png"
	})).Return(sampleResult(), nil)

	body, ct := multipartImage(t, "image", "paste", "application/octet-stream", pngHeader)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	c.Request.Header.Set("Content-Type", ct)

	h.Extract(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestExtractionHandler_Multipart_RejectsNonImage(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 1<<20)

	body, ct := multipartImage(t, "image", "doc.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	c.Request.Header.Set("Content-Type", ct)

	h.Extract(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_FILE_TYPE")
	svc.AssertNotCalled(t, "ExtractTable", mock.Anything, mock.Anything)
}

func TestExtractionHandler_Multipart_TooLarge(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 8)

	body, ct := multipartImage(t, "image", "table.png", "image/png", pngHeader)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	c.Request.Header.Set("Content-Type", ct)

	h.Extract(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "ExtractTable", mock.Anything, mock.Anything)
}

func TestExtractionHandler_Multipart_MissingField(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 1<<20)

	body, ct := multipartImage(t, "file", "table.png", "image/png", pngHeader)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	c.Request.Header.Set("Content-Type", ct)

	h.Extract(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_IMAGE")
}

func TestExtractionHandler_DataURL_Success(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 1<<20)

	svc.On("ExtractTable", mock.Anything, mock.MatchedBy(func(f domain.ImageFile) bool {
		return f.Name == "clipboard" && f.MimeType == "image/png"
	})).Return(sampleResult(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions",
		bytes.NewBufferString(`{"data_url":"data:image/png;base64,iVBORw0KGgo="}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Extract(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestExtractionHandler_DataURL_InvalidBase64(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 1<<20)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions",
		bytes.NewBufferString(`{"data_url":"data:image/png;base64,@@@"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Extract(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ENCODING_FAILED")
}

func TestExtractionHandler_PipelineErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"service", &domain.ServiceError{Message: "AI service rejected the API key", StatusCode: 403}, http.StatusBadGateway, "AI_SERVICE_ERROR"},
		{"parse", &domain.ParseError{Message: domain.MsgInvalidFormat}, http.StatusUnprocessableEntity, "INVALID_AI_FORMAT"},
		{"not array", &domain.ValidationError{Message: domain.MsgNotArray}, http.StatusUnprocessableEntity, "INVALID_AI_FORMAT"},
		{"no rows", &domain.ValidationError{Message: domain.MsgNoTableData, Err: domain.ErrNoTableData}, http.StatusUnprocessableEntity, "NO_TABLE_DETECTED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockExtractionService)
			h := handler.NewExtractionHandler(svc, 1<<20)
			svc.On("ExtractTable", mock.Anything, mock.Anything).Return(nil, tt.err)

			body, ct := multipartImage(t, "image", "table.png", "image/png", pngHeader)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions", body)
			c.Request.Header.Set("Content-Type", ct)

			h.Extract(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp handler.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, domain.UserMessage(tt.err), resp.Error.Message)
		})
	}
}

func TestExtractionHandler_DataURL_OversizedBodyStopsReading(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 10)

	body := `{"data_url":"data:image/png;base64,` + strings.Repeat("A", 2<<20) + `"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Extract(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_TOO_LARGE")
	svc.AssertNotCalled(t, "ExtractTable", mock.Anything, mock.Anything)
}

func TestExtractionHandler_DataURL_DecodedTooLarge(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	h := handler.NewExtractionHandler(svc, 4)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/extractions",
		bytes.NewBufferString(`{"data_url":"data:image/png;base64,iVBORw0KGgo="}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Extract(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "ExtractTable", mock.Anything, mock.Anything)
}
