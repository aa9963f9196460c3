package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"babinium/internal/config"
	"babinium/internal/domain"
	"babinium/internal/parser"
	"babinium/internal/port"
)

const (
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.5-flash"
	providerName = "gemini"
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.VisionClient, error) {
		c, err := NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// Client implements port.VisionClient using Google's Gemini API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a Gemini-based vision client. The API key is required.
func NewClient(cfg *config.ParserConfig) (*Client, error) {
	return newClient(cfg, cfg.Endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.ParserConfig, endpoint string) (*Client, error) {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.ParserConfig, endpoint string) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &domain.ConfigurationError{Setting: "parser.api_key", Err: domain.ErrMissingAPIKey}
	}
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	// Zero means no client-side timeout: the call runs until the transport gives up.
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	return &Client{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) Generate(ctx context.Context, req domain.ExtractionRequest) (*port.RawModelResponse, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"text": req.Instruction,
					},
					{
						"inline_data": map[string]interface{}{
							"mime_type": req.Image.MimeType,
							"data":      req.Image.Data,
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &domain.ServiceError{Message: "could not build AI service request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &domain.ServiceError{Message: "could not build AI service request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &domain.ServiceError{Message: "could not reach the AI service", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ServiceError{Message: "could not read the AI service response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, respBody)
	}

	text, err := responseText(respBody)
	if err != nil {
		return nil, err
	}
	return &port.RawModelResponse{Text: text, ModelUsed: c.model}, nil
}

func statusError(status int, body []byte) *domain.ServiceError {
	detail := gjson.GetBytes(body, "error.message").String()
	if detail == "" {
		detail = truncate(string(body), 300)
	}
	var msg string
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		msg = "AI service rejected the API key"
	case http.StatusTooManyRequests:
		msg = "AI service quota exhausted; try again later"
	case http.StatusBadRequest:
		msg = "AI service rejected the request"
	default:
		msg = "AI service error"
	}
	return &domain.ServiceError{
		Message:    fmt.Sprintf("%s (status %d): %s", msg, status, detail),
		StatusCode: status,
	}
}

// responseText extracts the concatenated text parts of the first candidate.
func responseText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", &domain.ServiceError{Message: "AI service returned a malformed response body"}
	}
	if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
		return "", &domain.ServiceError{Message: "AI service blocked the request: " + reason}
	}

	candidates := gjson.GetBytes(body, "candidates")
	if !candidates.IsArray() || len(candidates.Array()) == 0 {
		return "", &domain.ServiceError{Message: "empty response from AI service: no candidates"}
	}

	parts := candidates.Get("0.content.parts")
	if !parts.IsArray() || len(parts.Array()) == 0 {
		return "", &domain.ServiceError{Message: "empty response from AI service: no parts"}
	}

	var sb strings.Builder
	found := false
	for _, part := range parts.Array() {
		if t := part.Get("text"); t.Exists() {
			sb.WriteString(t.String())
			found = true
		}
	}
	if !found {
		return "", &domain.ServiceError{Message: "empty response from AI service: no text parts"}
	}
	return sb.String(), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
