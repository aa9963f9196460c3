package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tidwall/gjson"
)

// ImageFile is a binary image with its declared MIME type.
type ImageFile struct {
	Name     string
	MimeType string
	Content  io.Reader
}

// EncodedImage is an image ready for transport: base64 payload plus MIME type.
type EncodedImage struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

// ExtractionRequest is the single payload sent to the vision service.
type ExtractionRequest struct {
	Instruction string
	Image       EncodedImage
}

// ExtractionResult is the outcome of one successful extraction.
type ExtractionResult struct {
	ID       string       `json:"id"`
	Columns  []string     `json:"columns"`
	Rows     TableData    `json:"rows"`
	RowCount int          `json:"row_count"`
	Model    string       `json:"model,omitempty"`
	Issues   []TableIssue `json:"issues,omitempty"`
}

// TableIssue is a non-blocking quality finding about extracted rows.
// Row is zero-based.
type TableIssue struct {
	Rule     string        `json:"rule"`
	Severity IssueSeverity `json:"severity"`
	Row      int           `json:"row"`
	Column   string        `json:"column,omitempty"`
	Message  string        `json:"message"`
}

// TableRow maps column names to cell values. Cells hold nil, float64,
// string, bool, or json.RawMessage for nested values. Column order follows
// the order the keys appeared in the source JSON.
type TableRow struct {
	keys   []string
	values map[string]any
}

// NewTableRow returns an empty row.
func NewTableRow() TableRow {
	return TableRow{values: make(map[string]any)}
}

// Set assigns a cell. A repeated key keeps its original position.
func (r *TableRow) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the cell stored under key.
func (r TableRow) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the column names in source order.
func (r TableRow) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of cells in the row.
func (r TableRow) Len() int {
	return len(r.keys)
}

// MarshalJSON writes the row as a JSON object, preserving key order.
func (r TableRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the row, preserving key order.
func (r *TableRow) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return errors.New("table row: invalid JSON")
	}
	res := gjson.ParseBytes(b)
	if res.Type == gjson.Null {
		*r = NewTableRow()
		return nil
	}
	if !res.IsObject() {
		return errors.New("table row: expected a JSON object")
	}
	*r = RowFromJSON(res)
	return nil
}

// RowFromJSON converts a parsed JSON value into a row. Anything other than an
// object yields an empty row.
func RowFromJSON(res gjson.Result) TableRow {
	row := NewTableRow()
	if !res.IsObject() {
		return row
	}
	res.ForEach(func(key, value gjson.Result) bool {
		row.Set(key.String(), CellFromJSON(value))
		return true
	})
	return row
}

// CellFromJSON converts a parsed JSON value into a cell value.
func CellFromJSON(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		// Out of float64 range; keep the literal so the row stays encodable.
		if math.IsInf(v.Num, 0) {
			return v.Raw
		}
		return v.Num
	case gjson.String:
		return v.Str
	default:
		return json.RawMessage(v.Raw)
	}
}

// TableData is an ordered list of rows, top to bottom.
type TableData []TableRow

// Columns returns the canonical column list: the keys of the first row.
func (t TableData) Columns() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0].Keys()
}

// FormatCell stringifies a cell value for display and export. Missing and null
// cells become the empty string; numbers carry no trailing zeros.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.RawMessage:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// Record returns the row's cells in the given column order, stringified.
func (r TableRow) Record(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = FormatCell(r.values[c])
	}
	return out
}
