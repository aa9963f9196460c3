package parser

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"babinium/internal/domain"
)

// fence matches an opening fence with an optional json tag, or a closing fence.
var fence = regexp.MustCompile("^```(?i:json)?\\s*|\\s*```$")

// Normalize trims the model output and strips a surrounding code fence.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		text = fence.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// ResponseParser turns raw model output into table data.
type ResponseParser struct {
	strict bool
	logger *slog.Logger
}

// ResponseParserOption configures a ResponseParser.
type ResponseParserOption func(*ResponseParser)

// WithStrictRows rejects arrays whose elements are not flat objects of scalars.
func WithStrictRows(strict bool) ResponseParserOption {
	return func(p *ResponseParser) { p.strict = strict }
}

// WithLogger sets the logger used for lenient-mode warnings.
func WithLogger(logger *slog.Logger) ResponseParserOption {
	return func(p *ResponseParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewResponseParser creates a parser. By default rows are not checked beyond
// the top-level array shape.
func NewResponseParser(opts ...ResponseParserOption) *ResponseParser {
	p := &ResponseParser{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse normalizes raw, decodes it as JSON, and checks that it is an array.
// It fails with *domain.ValidationError for empty text or a non-array value and
// with *domain.ParseError for malformed JSON. An empty array is returned as
// empty table data without error.
func (p *ResponseParser) Parse(raw string) (domain.TableData, error) {
	text := Normalize(raw)
	if text == "" {
		return nil, &domain.ValidationError{Message: domain.MsgEmptyResponse}
	}

	var probe json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, &domain.ParseError{Message: domain.MsgInvalidFormat, Err: err}
	}

	res := gjson.Parse(text)
	if !res.IsArray() {
		return nil, &domain.ValidationError{Message: domain.MsgNotArray}
	}

	if p.strict {
		if err := validateRows(probe); err != nil {
			return nil, err
		}
	}

	rows := make(domain.TableData, 0)
	res.ForEach(func(idx, value gjson.Result) bool {
		if !value.IsObject() {
			p.logger.Warn("parser.row_not_object", "index", idx.Int(), "type", value.Type.String())
		}
		rows = append(rows, domain.RowFromJSON(value))
		return true
	})
	return rows, nil
}

// ParseTable parses raw model output with the default lenient parser.
func ParseTable(raw string) (domain.TableData, error) {
	return NewResponseParser().Parse(raw)
}
