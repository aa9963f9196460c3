package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"babinium/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultBaseName is the download name used when the caller gives none.
const DefaultBaseName = "table-data"

// Writer wraps csv.Writer for exporting extracted tables as CSV.
// Fields containing a comma, a double quote or a line break are quoted, with
// inner quotes doubled. encoding/csv also quotes a field that starts with a
// space and the literal field `\.`; both still read back unchanged.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the column header row.
func (w *Writer) WriteHeader(columns []string) error {
	return w.csv.Write(columns)
}

// WriteRows writes one record per row, in the given column order.
// Cells a row does not have are written as empty fields.
func (w *Writer) WriteRows(columns []string, rows domain.TableData) error {
	for i := range rows {
		if err := w.csv.Write(rows[i].Record(columns)); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable writes the header derived from the first row followed by every
// row. Empty data writes nothing.
func (w *Writer) WriteTable(data domain.TableData) error {
	if len(data) == 0 {
		return nil
	}
	columns := data.Columns()
	if err := w.WriteHeader(columns); err != nil {
		return err
	}
	return w.WriteRows(columns, data)
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Export writes data as a complete CSV document, optionally prefixed with a BOM.
func Export(out io.Writer, data domain.TableData, withBOM bool) error {
	if withBOM {
		if _, err := out.Write(BOM); err != nil {
			return err
		}
	}
	w := NewWriter(out)
	if err := w.WriteTable(data); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a user-supplied name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a download filename stamped with today's UTC date.
// Format: {sanitized_name}-{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	return BuildFilenameAt(name, ext, time.Now())
}

// BuildFilenameAt is BuildFilename for a fixed instant.
func BuildFilenameAt(name, ext string, at time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = DefaultBaseName
	}
	return fmt.Sprintf("%s-%s.%s", sanitized, at.UTC().Format("2006-01-02"), ext)
}
